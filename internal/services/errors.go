package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

// Field-level validation reuses the validator package types.
type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// Sentinel errors for missing resources.
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrCategoryNotFound     = errors.New("category not found")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// PermissionError is returned when the actor is not allowed to perform an
// action on a resource.
type PermissionError struct {
	UserID     string      `json:"user_id"`
	ResourceID interface{} `json:"resource_id"`
	Resource   string      `json:"resource"`
	Action     string      `json:"action"`
	Reason     string      `json:"reason"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID string, resourceID interface{}, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError is returned when an operation violates a domain rule that
// is not a field validation or a permission problem.
type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// AlreadyRegisteredError is returned when a user holds a non-cancelled
// registration for the event.
type AlreadyRegisteredError struct {
	UserID  string `json:"user_id"`
	EventID uint   `json:"event_id"`
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("user %s is already registered for event %d", e.UserID, e.EventID)
}

// EventFullError is returned when the event has no remaining capacity.
type EventFullError struct {
	EventID         uint  `json:"event_id"`
	MaxParticipants int   `json:"max_participants"`
	ActiveCount     int64 `json:"active_count"`
}

func (e *EventFullError) Error() string {
	return fmt.Sprintf("event %d is full (%d/%d)", e.EventID, e.ActiveCount, e.MaxParticipants)
}

// RegistrationClosedError is returned when the registration deadline has
// passed.
type RegistrationClosedError struct {
	EventID  uint      `json:"event_id"`
	Deadline time.Time `json:"deadline"`
}

func (e *RegistrationClosedError) Error() string {
	return fmt.Sprintf("registration for event %d closed at %s", e.EventID, e.Deadline.Format(time.RFC3339))
}

// InvalidTransitionError is returned when a registration status change is not
// in the allowed transition table.
type InvalidTransitionError struct {
	From models.RegistrationStatus `json:"from"`
	To   models.RegistrationStatus `json:"to"`
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition registration from %s to %s", e.From, e.To)
}

// ConflictError is returned when an operation conflicts with existing state,
// such as deleting a user whose events still have active registrations.
type ConflictError struct {
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string, context map[string]interface{}) *ConflictError {
	return &ConflictError{Message: message, Context: context}
}
