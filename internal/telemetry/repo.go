package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository stores gameplay events
type Repository interface {
	RecordEvent(eventType EventType, slot int, metadata EventMetadata) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
}

// MemoryRepository stores events in memory (dev/test use)
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make([]Event, 0)}
}

func newEvent(eventType EventType, slot int, metadata EventMetadata) (Event, error) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Slot:      slot,
		Timestamp: time.Now(),
		Metadata:  string(metadataJSON),
	}, nil
}

func (r *MemoryRepository) RecordEvent(eventType EventType, slot int, metadata EventMetadata) error {
	event, err := newEvent(eventType, slot, metadata)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterEvents(r.events, since, eventTypes), nil
}

func filterEvents(events []Event, since time.Time, eventTypes []EventType) []Event {
	typeFilter := make(map[EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Event, 0)
	for _, event := range events {
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}
	return result
}

// FileRepository appends events to a JSON-lines journal under dataDir and
// keeps them in memory for queries.
type FileRepository struct {
	mu     sync.RWMutex
	path   string
	events []Event
}

func NewFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepository{path: filepath.Join(dataDir, "events.jsonl")}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepository) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	for dec.More() {
		var e Event
		if err := dec.Decode(&e); err != nil {
			return err
		}
		r.events = append(r.events, e)
	}
	return nil
}

func (r *FileRepository) RecordEvent(eventType EventType, slot int, metadata EventMetadata) error {
	event, err := newEvent(eventType, slot, metadata)
	if err != nil {
		return err
	}
	line, err := json.Marshal(event)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *FileRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterEvents(r.events, since, eventTypes), nil
}
