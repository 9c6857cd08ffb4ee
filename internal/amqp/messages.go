package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a ledger change.
type EventType string

const (
	EventExpenseCreated EventType = "expense.created"
	EventExpenseUpdated EventType = "expense.updated"
	EventExpenseDeleted EventType = "expense.deleted"
	EventSavingCreated  EventType = "saving.created"
	EventSavingDeleted  EventType = "saving.deleted"
	EventGoalAllocated  EventType = "goal.allocated"
)

// LedgerEvent is a small notification about a ledger change. The worker
// reloads whatever else it needs from the database.
type LedgerEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	UserID      int64     `json:"user_id"`
	EntityID    int64     `json:"entity_id"`
	AmountMinor int64     `json:"amount_minor"`
	OccurredAt  time.Time `json:"occurred_at"`
	// PreviousOccurredAt is set on updates that moved the entry in time.
	PreviousOccurredAt *time.Time `json:"previous_occurred_at,omitempty"`
	Timestamp          time.Time  `json:"timestamp"`
}

func NewLedgerEvent(typ EventType, userID, entityID, amountMinor int64, occurredAt time.Time) *LedgerEvent {
	return &LedgerEvent{
		ID:          uuid.NewString(),
		Type:        typ,
		UserID:      userID,
		EntityID:    entityID,
		AmountMinor: amountMinor,
		OccurredAt:  occurredAt,
		Timestamp:   time.Now(),
	}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Validate rejects events the worker cannot act on.
func (m *LedgerEvent) Validate() error {
	switch {
	case m.UserID <= 0:
		return fmt.Errorf("ledger event %s: missing user id", m.ID)
	case m.Type == "":
		return fmt.Errorf("ledger event %s: missing type", m.ID)
	case m.OccurredAt.IsZero():
		return fmt.Errorf("ledger event %s: missing occurred_at", m.ID)
	}
	return nil
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
