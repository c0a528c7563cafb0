// Package models defines data structures used across the application.
// File: models/event.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// layouts shared by the stores, services and templates
const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	TimestampLayout = "2006-01-02 15:04:05"
)

// StatusLogged is the status every event carries after creation.
const StatusLogged = "logged"

// ----------------------- event model -----------------------

// Event represents one logged schedule entry: a client delivery or
// appointment occupying a time slot on a given date, with an alert lead
// time the client-side poller and the push feed both honour.
type Event struct {
	ID           int    `json:"id"`                      // unique, assigned at creation, immutable
	Timestamp    string `json:"timestamp"`               // creation time, TimestampLayout
	Date         string `json:"date"`                    // event date, DateLayout
	TimeSlot     string `json:"time_slot"`               // "HH:MM-HH:MM", start < end
	Length       string `json:"length"`                  // free text, e.g. "54 min"
	Client       string `json:"client"`                  // client name, required
	DeliveryType string `json:"delivery_type"`           // e.g. Online / In-person
	Resource     string `json:"resource"`                // resource or program used
	AssignedTo   string `json:"assigned_to"`             // person delivering
	Signature    string `json:"signature"`               // optional sign-off
	Notes        string `json:"notes"`                   // free text
	Status       string `json:"status"`                  // always StatusLogged for now
	AlertMinutes int    `json:"alert_minutes"`           // lead time before start, >= 0
	CreatedBy    string `json:"created_by"`              // username of the creator
	LastModified string `json:"last_modified,omitempty"` // stamped on update
}

// ----------------------- time-slot parsing -----------------------

// ParseTimeSlot splits a "HH:MM-HH:MM" slot into its start and end clock
// times (on the zero date). The start must precede the end.
func ParseTimeSlot(slot string) (start, end time.Time, err error) {
	parts := strings.SplitN(slot, "-", 2)
	if len(parts) != 2 {
		return start, end, fmt.Errorf("time slot %q must be in HH:MM-HH:MM form", slot)
	}
	start, err = time.Parse(ClockLayout, strings.TrimSpace(parts[0]))
	if err != nil {
		return start, end, fmt.Errorf("time slot %q has a bad start time: %w", slot, err)
	}
	end, err = time.Parse(ClockLayout, strings.TrimSpace(parts[1]))
	if err != nil {
		return start, end, fmt.Errorf("time slot %q has a bad end time: %w", slot, err)
	}
	if !start.Before(end) {
		return start, end, fmt.Errorf("time slot %q must start before it ends", slot)
	}
	return start, end, nil
}

// StartAt anchors the event's slot start to its stored date, in the
// given location. Used by the due-soon computation so that "now" and
// the event start are always compared in the same zone.
func (e Event) StartAt(loc *time.Location) (time.Time, error) {
	start, _, err := ParseTimeSlot(e.TimeSlot)
	if err != nil {
		return time.Time{}, err
	}
	day, err := time.ParseInLocation(DateLayout, e.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("event %d has a bad date %q: %w", e.ID, e.Date, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, loc), nil
}
