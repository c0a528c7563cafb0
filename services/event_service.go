// Package services - services/event_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-sched-log/logger"
	"go-sched-log/models"
)

// DefaultAlertMinutes is the alert lead time used when a form leaves
// the field empty.
const DefaultAlertMinutes = 5

// EventRepo is the slice of the store the event service needs.
type EventRepo interface {
	Load() ([]models.Event, error)
	Save([]models.Event) error
}

// EventInput carries the mutable fields of an event through create and
// update. ID, creator and timestamps are assigned by the service.
type EventInput struct {
	Date         string
	TimeSlot     string
	Length       string
	Client       string
	DeliveryType string
	Resource     string
	AssignedTo   string
	Signature    string
	Notes        string
	AlertMinutes int
}

// EventFilter narrows List. Zero values match everything.
type EventFilter struct {
	Date   string // exact date, DateLayout
	Client string // case-insensitive substring of the client name
}

// DueEvent is one entry in the alert feed, shared by the polling
// endpoint and the WebSocket push.
type DueEvent struct {
	ID                int    `json:"id"`
	Client            string `json:"client_name"`
	TimeSlot          string `json:"time_slot"`
	DeliveryType      string `json:"delivery_type"`
	Resource          string `json:"resource,omitempty"`
	Notes             string `json:"notes,omitempty"`
	MinutesUntilStart int    `json:"minutes_until_start"`
}

// Stats aggregates the collection for the dashboard.
type Stats struct {
	TotalEvents   int            `json:"total_events"`
	UniqueClients int            `json:"unique_clients"`
	Clients       map[string]int `json:"clients"`
	DeliveryTypes map[string]int `json:"delivery_types"`
	PerDay        map[string]int `json:"per_day"`
}

// ---------------- event service ----------------

// EventService is the CRUD facade over the event store. Mutations hold
// mu across the whole load-mutate-save cycle, which is the single-writer
// serialization point closing the lost-update race between concurrent
// requests.
type EventService struct {
	mu    sync.Mutex
	store EventRepo
	now   func() time.Time // injectable clock for created/modified stamps
}

// NewEventService creates an EventService on top of the given repo.
func NewEventService(store EventRepo) *EventService {
	return &EventService{store: store, now: time.Now}
}

// ---------------- mutations ----------------

// Create validates input, assigns the next free id and appends the
// event to the persisted collection.
func (s *EventService) Create(input EventInput, createdBy string) (*models.Event, error) {
	now := s.now()
	if input.Date == "" {
		// the add form leaves the date blank for "today"
		input.Date = now.Format(models.DateLayout)
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	event := models.Event{
		ID:           nextID(events),
		Timestamp:    now.Format(models.TimestampLayout),
		Date:         input.Date,
		TimeSlot:     input.TimeSlot,
		Length:       input.Length,
		Client:       input.Client,
		DeliveryType: input.DeliveryType,
		Resource:     input.Resource,
		AssignedTo:   input.AssignedTo,
		Signature:    input.Signature,
		Notes:        input.Notes,
		Status:       models.StatusLogged,
		AlertMinutes: input.AlertMinutes,
		CreatedBy:    createdBy,
	}

	events = append(events, event)
	if err := s.store.Save(events); err != nil {
		return nil, err
	}

	logger.Info.Printf("EventService: created event #%d for client %q (%s %s) by %s",
		event.ID, event.Client, event.Date, event.TimeSlot, createdBy)
	return &event, nil
}

// Update replaces the mutable fields of the event with the given id and
// rewrites the collection. The id, creator and creation timestamp are
// kept; last_modified is stamped.
func (s *EventService) Update(id int, input EventInput) (*models.Event, error) {
	if input.Date == "" {
		input.Date = s.now().Format(models.DateLayout)
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(events, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, id)
	}

	event := &events[idx]
	event.Date = input.Date
	event.TimeSlot = input.TimeSlot
	event.Length = input.Length
	event.Client = input.Client
	event.DeliveryType = input.DeliveryType
	event.Resource = input.Resource
	event.AssignedTo = input.AssignedTo
	event.Signature = input.Signature
	event.Notes = input.Notes
	event.AlertMinutes = input.AlertMinutes
	event.LastModified = s.now().Format(models.TimestampLayout)

	if err := s.store.Save(events); err != nil {
		return nil, err
	}

	logger.Info.Printf("EventService: updated event #%d", id)
	updated := *event
	return &updated, nil
}

// Delete removes the event with the given id and rewrites the collection.
func (s *EventService) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.store.Load()
	if err != nil {
		return err
	}

	idx := indexOf(events, id)
	if idx < 0 {
		return fmt.Errorf("%w: event %d", ErrNotFound, id)
	}

	events = append(events[:idx], events[idx+1:]...)
	if err := s.store.Save(events); err != nil {
		return err
	}

	logger.Info.Printf("EventService: deleted event #%d", id)
	return nil
}

// ---------------- reads ----------------

// Get returns the event with the given id.
func (s *EventService) Get(id int) (*models.Event, error) {
	events, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	idx := indexOf(events, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, id)
	}
	event := events[idx]
	return &event, nil
}

// List returns the events matching the filter, ordered by date, then
// slot start, ties broken by id. The result is recomputed on every call.
func (s *EventService) List(filter EventFilter) ([]models.Event, error) {
	events, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	filtered := events[:0:0]
	for _, e := range events {
		if filter.Date != "" && e.Date != filter.Date {
			continue
		}
		if filter.Client != "" && !strings.Contains(strings.ToLower(e.Client), strings.ToLower(filter.Client)) {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Date != filtered[j].Date {
			return filtered[i].Date < filtered[j].Date
		}
		// HH:MM compares correctly as a string; malformed slots sort as-is
		si := slotStart(filtered[i].TimeSlot)
		sj := slotStart(filtered[j].TimeSlot)
		if si != sj {
			return si < sj
		}
		return filtered[i].ID < filtered[j].ID
	})
	return filtered, nil
}

// Recent returns the n most recently created events, newest first.
func (s *EventService) Recent(n int) ([]models.Event, error) {
	events, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp != events[j].Timestamp {
			return events[i].Timestamp > events[j].Timestamp
		}
		return events[i].ID > events[j].ID
	})
	if len(events) > n {
		events = events[:n]
	}
	return events, nil
}

// DueSoon returns the events whose alert window contains now: events on
// now's date with start − alert_minutes <= now < start. It is a pure
// function of the stored collection and the supplied clock; it never
// mutates state, so repeated polls within the window keep returning the
// same events and clients dedupe by id.
func (s *EventService) DueSoon(now time.Time) ([]DueEvent, error) {
	events, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	today := now.Format(models.DateLayout)
	due := []DueEvent{}
	for _, e := range events {
		if e.Date != today {
			continue
		}
		startAt, err := e.StartAt(now.Location())
		if err != nil {
			// malformed slots never alert; they are caught at create/update
			logger.Warn.Printf("DueSoon: skipping event #%d: %v", e.ID, err)
			continue
		}
		alertAt := startAt.Add(-time.Duration(e.AlertMinutes) * time.Minute)
		if now.Before(alertAt) || !now.Before(startAt) {
			continue
		}
		due = append(due, DueEvent{
			ID:                e.ID,
			Client:            e.Client,
			TimeSlot:          e.TimeSlot,
			DeliveryType:      e.DeliveryType,
			Resource:          e.Resource,
			Notes:             e.Notes,
			MinutesUntilStart: minutesUntil(now, startAt),
		})
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].MinutesUntilStart != due[j].MinutesUntilStart {
			return due[i].MinutesUntilStart < due[j].MinutesUntilStart
		}
		return due[i].ID < due[j].ID
	})
	return due, nil
}

// Stats aggregates counts over the collection, optionally narrowed to
// one date.
func (s *EventService) Stats(date string) (*Stats, error) {
	events, err := s.List(EventFilter{Date: date})
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalEvents:   len(events),
		Clients:       map[string]int{},
		DeliveryTypes: map[string]int{},
		PerDay:        map[string]int{},
	}
	for _, e := range events {
		stats.Clients[e.Client]++
		stats.DeliveryTypes[e.DeliveryType]++
		stats.PerDay[e.Date]++
	}
	stats.UniqueClients = len(stats.Clients)
	return stats, nil
}

// ---------------- CSV export ----------------

// csvHeader is the fixed column order of the export. Re-parsing an
// export recovers every stored field.
var csvHeader = []string{
	"id", "timestamp", "date", "time_slot", "length", "client",
	"delivery_type", "resource", "assigned_to", "signature", "notes",
	"status", "alert_minutes", "created_by", "last_modified",
}

// ExportCSV writes the whole collection to w: a header row plus one row
// per event. encoding/csv quotes embedded delimiters and newlines.
func (s *EventService) ExportCSV(w io.Writer) error {
	events, err := s.List(EventFilter{})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range events {
		row := []string{
			strconv.Itoa(e.ID), e.Timestamp, e.Date, e.TimeSlot, e.Length,
			e.Client, e.DeliveryType, e.Resource, e.AssignedTo, e.Signature,
			e.Notes, e.Status, strconv.Itoa(e.AlertMinutes), e.CreatedBy,
			e.LastModified,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for event %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ---------------- helpers ----------------

func validateInput(input EventInput) error {
	if strings.TrimSpace(input.Client) == "" {
		return fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if _, _, err := models.ParseTimeSlot(input.TimeSlot); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if input.AlertMinutes < 0 {
		return fmt.Errorf("%w: alert minutes must not be negative", ErrValidation)
	}
	if _, err := time.Parse(models.DateLayout, input.Date); err != nil {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrValidation, input.Date)
	}
	return nil
}

// nextID assigns max+1, matching the ids already in the file.
func nextID(events []models.Event) int {
	next := 1
	for _, e := range events {
		if e.ID >= next {
			next = e.ID + 1
		}
	}
	return next
}

func indexOf(events []models.Event, id int) int {
	for i, e := range events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func slotStart(slot string) string {
	if i := strings.Index(slot, "-"); i > 0 {
		return strings.TrimSpace(slot[:i])
	}
	return slot
}

// minutesUntil rounds up, so an event 4m30s away reads "5 minutes".
func minutesUntil(now, startAt time.Time) int {
	d := startAt.Sub(now)
	return int((d + time.Minute - 1) / time.Minute)
}
