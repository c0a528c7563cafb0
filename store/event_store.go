// Package store - store/event_store.go
package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"go-sched-log/logger"
	"go-sched-log/models"
)

// EventStore reads and writes the full event collection as one JSON
// array. Writes are serialized through a mutex; callers that need a
// load-mutate-save cycle to be atomic serialize at the service layer.
type EventStore struct {
	mu   sync.Mutex
	path string
}

// NewEventStore creates an EventStore backed by the given file path.
func NewEventStore(path string) *EventStore {
	return &EventStore{path: path}
}

// Load returns every persisted event. A missing file is an empty
// collection (first run); an unreadable one is ErrCorruptStore.
func (s *EventStore) Load() ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Event{}, nil
	}

	events, err := decodeEvents(data)
	if err != nil {
		logger.Error.Printf("EventStore: %s is unreadable, refusing to reset it: %v", s.path, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, s.path, err)
	}
	return events, nil
}

// Save atomically replaces the persisted collection with events.
func (s *EventStore) Save(events []models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.path, events)
}

func decodeEvents(data []byte) ([]models.Event, error) {
	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}
