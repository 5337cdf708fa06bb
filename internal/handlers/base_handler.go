package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-F25/event-service/internal/services"
	"github.com/CampusHub-F25/event-service/internal/utils"
)

// ErrorResponse is the shape of every error reply.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps successful replies that carry a message.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the shared helpers every handler embeds.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a request with its context logger so the request_id rides
// along.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) getUserID(c *gin.Context) string {
	userID, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// requireUserID aborts with 401 when the request carries no authenticated
// user.
func (h *BaseHandler) requireUserID(c *gin.Context) (string, bool) {
	userID := h.getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return userID, true
}

// parseIDParam parses a numeric path parameter, replying 400 on failure. A
// zero return means the response has already been written.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
		})
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// handleServiceError maps service errors onto HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationError,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	var alreadyRegistered *services.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Already registered for this event",
			Details: map[string]interface{}{
				"event_id": alreadyRegistered.EventID,
			},
		})
		return
	}

	var eventFull *services.EventFullError
	if errors.As(err, &eventFull) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Event is full",
			Details: map[string]interface{}{
				"event_id":         eventFull.EventID,
				"max_participants": eventFull.MaxParticipants,
			},
		})
		return
	}

	var registrationClosed *services.RegistrationClosedError
	if errors.As(err, &registrationClosed) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Registration deadline has passed",
			Details: map[string]interface{}{
				"event_id": registrationClosed.EventID,
				"deadline": registrationClosed.Deadline,
			},
		})
		return
	}

	var invalidTransition *services.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Invalid status transition",
			Details: map[string]interface{}{
				"from": invalidTransition.From,
				"to":   invalidTransition.To,
			},
		})
		return
	}

	var conflictError *services.ConflictError
	if errors.As(err, &conflictError) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: conflictError.Message,
			Details: conflictError.Context,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Event not found",
		})
	case errors.Is(err, services.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Registration not found",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Category not found",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid email or password",
		})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Email is already registered",
		})
	default:
		utils.GetLogger(c, h.logger).Error("unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
