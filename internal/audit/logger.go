// Package audit writes one JSON line per money-affecting change.
package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
)

type Event struct {
	Timestamp  time.Time         `json:"timestamp"`
	EventType  string            `json:"event_type"`
	ActorID    string            `json:"actor_id"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Amount     *decimal.Decimal  `json:"amount,omitempty"`
	Status     string            `json:"status"`
	Details    map[string]string `json:"details,omitempty"`
}

type Logger struct {
	out *log.Logger
	now func() time.Time
}

// NewLogger writes through out, or through the standard logger when out is nil.
func NewLogger(out *log.Logger) *Logger {
	if out == nil {
		out = log.Default()
	}
	return &Logger{out: out, now: time.Now}
}

// LogTransaction records a create, update, delete, lock or unlock.
func (a *Logger) LogTransaction(action, actorID string, t models.Transaction) {
	amount := t.Amount
	a.log(Event{
		EventType:  "TRANSACTION_" + action,
		ActorID:    actorID,
		EntityType: "Transaction",
		EntityID:   t.ID,
		Amount:     &amount,
		Status:     "SUCCESS",
		Details: map[string]string{
			"type": string(t.Type),
			"date": t.Date,
			"from": string(t.FromEntityType) + ":" + t.FromEntityID,
			"to":   string(t.ToEntityType) + ":" + t.ToEntityID,
		},
	})
}

// LogOperation records a non-monetary change such as a deletion or a restore.
func (a *Logger) LogOperation(operation, actorID, entityType, entityID, details string) {
	ev := Event{
		EventType:  operation,
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     "SUCCESS",
	}
	if details != "" {
		ev.Details = map[string]string{"details": details}
	}
	a.log(ev)
}

func (a *Logger) LogError(operation, actorID, entityID string, err error) {
	a.log(Event{
		EventType: operation,
		ActorID:   actorID,
		EntityID:  entityID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	event.Timestamp = a.now()
	data, _ := json.Marshal(event)
	a.out.Printf("AUDIT: %s", string(data))
}
