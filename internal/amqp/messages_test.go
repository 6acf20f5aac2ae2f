package amqp

import (
	"testing"
	"time"
)

func TestNewExpenseEventMessage(t *testing.T) {
	msg := NewExpenseEventMessage(EventExpenseCreated, 42, 7)

	if msg.Event != EventExpenseCreated {
		t.Errorf("Event = %q, want %q", msg.Event, EventExpenseCreated)
	}
	if msg.ID != 42 {
		t.Errorf("ID = %d, want 42", msg.ID)
	}
	if msg.UserID != 7 {
		t.Errorf("UserID = %d, want 7", msg.UserID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestExpenseEventMessage_JSON(t *testing.T) {
	msg := &ExpenseEventMessage{
		Event:     EventExpenseDeleted,
		ID:        12345,
		UserID:    2,
		Timestamp: time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC),
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := ExpenseEventMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ExpenseEventMessageFromJSON() error = %v", err)
	}

	if parsed.Event != msg.Event {
		t.Errorf("Parsed Event = %q, want %q", parsed.Event, msg.Event)
	}
	if parsed.ID != msg.ID {
		t.Errorf("Parsed ID = %d, want %d", parsed.ID, msg.ID)
	}
	if parsed.UserID != msg.UserID {
		t.Errorf("Parsed UserID = %d, want %d", parsed.UserID, msg.UserID)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestExpenseEventMessage_InvalidJSON(t *testing.T) {
	if _, err := ExpenseEventMessageFromJSON([]byte(`{"id": "not_a_number"}`)); err == nil {
		t.Error("ExpenseEventMessageFromJSON() should fail with invalid JSON")
	}
}
