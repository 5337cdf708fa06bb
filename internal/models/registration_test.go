package models

import "testing"

func TestRegistrationStatusTransitions(t *testing.T) {
	cases := []struct {
		from RegistrationStatus
		to   RegistrationStatus
		want bool
	}{
		{RegistrationPending, RegistrationApproved, true},
		{RegistrationPending, RegistrationRejected, true},
		{RegistrationPending, RegistrationCancelled, true},
		{RegistrationApproved, RegistrationCancelled, true},
		{RegistrationApproved, RegistrationRejected, false},
		{RegistrationApproved, RegistrationPending, false},
		{RegistrationRejected, RegistrationCancelled, true},
		{RegistrationRejected, RegistrationApproved, false},
		{RegistrationCancelled, RegistrationPending, false},
		{RegistrationCancelled, RegistrationApproved, false},
		{RegistrationCancelled, RegistrationRejected, false},
		{RegistrationCancelled, RegistrationCancelled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRegistrationStatusIsActive(t *testing.T) {
	cases := map[RegistrationStatus]bool{
		RegistrationPending:   true,
		RegistrationApproved:  true,
		RegistrationRejected:  false,
		RegistrationCancelled: false,
	}
	for status, want := range cases {
		if got := status.IsActive(); got != want {
			t.Errorf("%s.IsActive() = %v, want %v", status, got, want)
		}
	}
}

func TestValidRegistrationStatus(t *testing.T) {
	for _, status := range []RegistrationStatus{RegistrationPending, RegistrationApproved, RegistrationRejected, RegistrationCancelled} {
		if !ValidRegistrationStatus(status) {
			t.Errorf("ValidRegistrationStatus(%s) = false", status)
		}
	}
	if ValidRegistrationStatus("waitlisted") {
		t.Error("ValidRegistrationStatus(waitlisted) = true")
	}
}

func TestHasFeedback(t *testing.T) {
	var registration Registration
	if registration.HasFeedback() {
		t.Error("empty registration reports feedback")
	}
	rating := 3
	registration.Feedback.Rating = &rating
	if !registration.HasFeedback() {
		t.Error("registration with rating reports no feedback")
	}
}
