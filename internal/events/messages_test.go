package events

import (
	"testing"
	"time"
)

func TestNewMutationMessage(t *testing.T) {
	msg := NewMutationMessage("cobro", "created", "abc-123")

	if msg.Entity != "cobro" || msg.Action != "created" || msg.ID != "abc-123" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestMutationMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &MutationMessage{
		Entity:    "usuario",
		Action:    "deleted",
		ID:        "u-9",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := MutationMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("MutationMessageFromJSON() error = %v", err)
	}

	if parsed.Entity != msg.Entity || parsed.Action != msg.Action || parsed.ID != msg.ID {
		t.Errorf("parsed = %+v, want %+v", parsed, msg)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestMutationMessage_InvalidJSON(t *testing.T) {
	if _, err := MutationMessageFromJSON([]byte(`{"entity": 5}`)); err == nil {
		t.Error("MutationMessageFromJSON() should fail with invalid JSON")
	}
}
