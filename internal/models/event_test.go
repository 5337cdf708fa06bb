package models

import (
	"testing"
	"time"
)

func TestEventIsFull(t *testing.T) {
	limited := &Event{MaxParticipants: 3}
	if limited.IsFull(2) {
		t.Error("event with free spots reports full")
	}
	if !limited.IsFull(3) {
		t.Error("event at capacity reports not full")
	}
	if !limited.IsFull(4) {
		t.Error("oversubscribed event reports not full")
	}

	// Zero capacity means unlimited.
	unlimited := &Event{MaxParticipants: 0}
	if unlimited.IsFull(1_000_000) {
		t.Error("unlimited event reports full")
	}
}

func TestEventIsRegistrationOpen(t *testing.T) {
	deadline := time.Now()
	event := &Event{RegistrationDeadline: deadline}

	if !event.IsRegistrationOpen(deadline.Add(-time.Minute)) {
		t.Error("registration closed before deadline")
	}
	if !event.IsRegistrationOpen(deadline) {
		t.Error("registration closed at the deadline itself")
	}
	if event.IsRegistrationOpen(deadline.Add(time.Minute)) {
		t.Error("registration open after deadline")
	}
}
