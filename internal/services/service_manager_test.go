package services

import (
	"context"
	"testing"

	"github.com/CampusHub-F25/event-service/internal/events"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

func newTestServiceManager(t *testing.T) ServiceManager {
	t.Helper()
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	return NewDefaultServiceManager(nil, repo, testLogger(), validator.New(), publisher, testJWTConfig)
}

func TestServiceManagerLifecycle(t *testing.T) {
	sm := newTestServiceManager(t)
	ctx := context.Background()

	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	// Initialize is idempotent.
	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}

	if sm.Event() == nil {
		t.Error("Event() returned nil")
	}
	if sm.Registration() == nil {
		t.Error("Registration() returned nil")
	}
	if sm.User() == nil {
		t.Error("User() returned nil")
	}
	if sm.Category() == nil {
		t.Error("Category() returned nil")
	}
	if sm.Export() == nil {
		t.Error("Export() returned nil")
	}

	if err := sm.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}

	if err := sm.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := sm.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck passed after shutdown")
	}
	// Shutdown is idempotent.
	if err := sm.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}

func TestServiceManagerPanicsBeforeInitialize(t *testing.T) {
	sm := newTestServiceManager(t)

	defer func() {
		if recover() == nil {
			t.Error("Event() did not panic before Initialize")
		}
	}()
	sm.Event()
}

func TestServiceManagerHealthCheckBeforeInitialize(t *testing.T) {
	sm := newTestServiceManager(t)

	if err := sm.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck passed before Initialize")
	}
}
