// Package websocket - websocket/broadcast.go
package websocket

import (
	"encoding/json"

	"go-sched-log/logger"
	"go-sched-log/services"
)

// broadcast carries marshalled messages from the notifier to the pump.
var broadcast = make(chan []byte, 64)

// HandleMessages listens on the broadcast channel and fans each message
// out to every active connection. Run exactly once, from main.
func HandleMessages() {
	for msg := range broadcast {
		connMu.Lock()
		for c := range connections {
			select {
			case c.send <- msg:
			default:
				// slow consumer; drop rather than stall the feed
				logger.Warn.Printf("Dropping alert message for connection %v", c.conn.RemoteAddr())
			}
		}
		connMu.Unlock()
	}
}

// BroadcastAlerts pushes the current due-soon set to all clients. The
// payload matches the polling endpoint's, wrapped in an action envelope
// so the browser script can share one handler.
func BroadcastAlerts(due []services.DueEvent) {
	msg, err := json.Marshal(map[string]interface{}{
		"action": "alerts",
		"alerts": due,
	})
	if err != nil {
		logger.Error.Printf("BroadcastAlerts: error marshalling alerts: %v", err)
		return
	}

	select {
	case broadcast <- msg:
	default:
		logger.Warn.Println("BroadcastAlerts: broadcast channel full, dropping tick")
	}
	PublishAlertsBroadcast(len(due))
}
