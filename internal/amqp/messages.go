package amqp

import (
	"encoding/json"
	"time"
)

// Expense event kinds carried on the wire.
const (
	EventExpenseCreated = "expense.created"
	EventExpenseUpdated = "expense.updated"
	EventExpenseDeleted = "expense.deleted"
)

// ExpenseEventMessage is a lightweight notification that an expense changed.
// Consumers fetch the full row from the database when they need it.
type ExpenseEventMessage struct {
	Event     string    `json:"event"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(event string, id, userID int64) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Event:     event,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON creates a message from JSON bytes
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
