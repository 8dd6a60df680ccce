package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is what travels over the bus: a type code such as
// "TRIAGE_COMPLETED" plus a flat JSON-friendly payload.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(code string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{Type: code, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string              { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time            { return e.OccurredAt }

// String returns the payload value under key when it is a string.
func String(e Event, key string) string {
	s, _ := e.Payload()[key].(string)
	return s
}

// UUID parses the payload value under key. Missing or malformed ids yield nil.
func UUID(e Event, key string) *uuid.UUID {
	raw := String(e, key)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
