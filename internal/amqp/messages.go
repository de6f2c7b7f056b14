package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EventKind names a change applied to the ledger.
type EventKind string

const (
	EventCreated EventKind = "expense.created"
	EventUpdated EventKind = "expense.updated"
	EventDeleted EventKind = "expense.deleted"
)

var ErrInvalidEvent = errors.New("invalid expense event")

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	switch k {
	case EventCreated, EventUpdated, EventDeleted:
		return true
	}
	return false
}

// ExpenseEvent is a lightweight change notification. Consumers that need the
// record itself fetch it from the ledger by ID.
type ExpenseEvent struct {
	ID        int64     `json:"id"`
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent creates an event stamped with the current time.
func NewExpenseEvent(kind EventKind, id int64) *ExpenseEvent {
	return &ExpenseEvent{
		ID:        id,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

func (e *ExpenseEvent) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidEvent, e.ID)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	}
	return nil
}

// ToJSON converts the event to JSON bytes
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON decodes and validates an event.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var evt ExpenseEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	if err := evt.Validate(); err != nil {
		return nil, err
	}
	return &evt, nil
}
