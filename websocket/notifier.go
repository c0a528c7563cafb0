// Package websocket - websocket/notifier.go
package websocket

import (
	"time"

	"go-sched-log/logger"
	"go-sched-log/services"
)

// DueSooner is the one slice of the event service the notifier needs.
type DueSooner interface {
	DueSoon(now time.Time) ([]services.DueEvent, error)
}

// Notifier recomputes the due-soon set on a fixed interval and pushes
// it to every alert-feed connection. It is the server-side counterpart
// of the browser's 30-second poll and reuses the same pure computation.
type Notifier struct {
	events   DueSooner
	interval time.Duration
	stop     chan struct{}
}

// NewNotifier creates a Notifier ticking at the given interval.
func NewNotifier(events DueSooner, interval time.Duration) *Notifier {
	return &Notifier{
		events:   events,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Run ticks until Stop is called. Call from a goroutine in main.
func (n *Notifier) Run() {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	logger.Info.Printf("Notifier: pushing due-soon alerts every %v", n.interval)
	for {
		select {
		case <-ticker.C:
			n.tick(time.Now())
		case <-n.stop:
			logger.Info.Println("Notifier: stopped")
			return
		}
	}
}

// Stop terminates Run.
func (n *Notifier) Stop() {
	close(n.stop)
}

// tick computes and broadcasts one due-soon set. Quiet ticks with no
// connections or no due events send nothing.
func (n *Notifier) tick(now time.Time) {
	if ConnectionCount() == 0 {
		return
	}
	due, err := n.events.DueSoon(now)
	if err != nil {
		logger.Error.Printf("Notifier: due-soon computation failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}
	logger.Debug.Printf("Notifier: broadcasting %d due event(s)", len(due))
	BroadcastAlerts(due)
}
