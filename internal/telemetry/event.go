package telemetry

import "time"

type EventType string

const (
	EventSessionOpened EventType = "session_opened"
	EventTravel        EventType = "travel"
	EventBuy           EventType = "buy"
	EventSell          EventType = "sell"
	EventHire          EventType = "hire"
	EventSave          EventType = "save"
	EventSaveFailed    EventType = "save_failed"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Slot      int       `json:"slot"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
