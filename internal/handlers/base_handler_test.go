package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/services"
)

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBaseHandler(testHandlerLogger())

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation errors", services.ValidationErrors{{Field: "title", Message: "is required"}}, http.StatusBadRequest},
		{"single validation error", services.NewValidationError("status", "bad value", nil), http.StatusBadRequest},
		{"business rule", services.NewBusinessRuleError("event_not_open", "event is not open", nil), http.StatusUnprocessableEntity},
		{"permission", services.NewPermissionError("u1", 1, "event", "update", "not the organizer"), http.StatusForbidden},
		{"already registered", &services.AlreadyRegisteredError{UserID: "u1", EventID: 1}, http.StatusConflict},
		{"event full", &services.EventFullError{EventID: 1, MaxParticipants: 5, ActiveCount: 5}, http.StatusConflict},
		{"registration closed", &services.RegistrationClosedError{EventID: 1, Deadline: time.Now()}, http.StatusUnprocessableEntity},
		{"invalid transition", &services.InvalidTransitionError{From: models.RegistrationRejected, To: models.RegistrationApproved}, http.StatusConflict},
		{"conflict", services.NewConflictError("still has registrations", nil), http.StatusConflict},
		{"event not found", services.ErrEventNotFound, http.StatusNotFound},
		{"registration not found", services.ErrRegistrationNotFound, http.StatusNotFound},
		{"user not found", services.ErrUserNotFound, http.StatusNotFound},
		{"category not found", services.ErrCategoryNotFound, http.StatusNotFound},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"email taken", services.ErrEmailTaken, http.StatusConflict},
		{"wrapped sentinel", errors.Join(errors.New("context"), services.ErrEventNotFound), http.StatusNotFound},
		{"unknown", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handler.handleServiceError(c, tc.err)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBaseHandler(testHandlerLogger())

	cases := []struct {
		value string
		want  uint
	}{
		{"7", 7},
		{"0", 0},
		{"-1", 0},
		{"abc", 0},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Params = gin.Params{{Key: "id", Value: tc.value}}

		if got := handler.parseIDParam(c, "id"); got != tc.want {
			t.Errorf("parseIDParam(%q) = %d, want %d", tc.value, got, tc.want)
		}
		if tc.want == 0 && rec.Code != http.StatusBadRequest {
			t.Errorf("parseIDParam(%q): status = %d, want 400", tc.value, rec.Code)
		}
	}
}

func TestRequireUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBaseHandler(testHandlerLogger())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if _, ok := handler.requireUserID(c); ok {
		t.Error("requireUserID passed without an authenticated user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Set("user_id", "user-1")
	userID, ok := handler.requireUserID(c)
	if !ok || userID != "user-1" {
		t.Errorf("requireUserID = %q, %v, want user-1, true", userID, ok)
	}
}
