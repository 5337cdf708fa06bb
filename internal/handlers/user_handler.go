package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/services"
	"github.com/CampusHub-F25/event-service/internal/utils"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	userService         services.UserService
	registrationService services.RegistrationService
	validator           *validator.Validator
}

func NewUserHandler(userService services.UserService, registrationService services.RegistrationService, v *validator.Validator, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:         NewBaseHandler(logger),
		userService:         userService,
		registrationService: registrationService,
		validator:           v,
	}
}

// ListUsers returns a page of user accounts
func (h *UserHandler) ListUsers(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	params := &models.ListUsersParams{
		Page:   h.parseIntQuery(c, "page", 1),
		Limit:  h.parseIntQuery(c, "limit", 20),
		Search: c.Query("search"),
	}
	if role := c.Query("role"); role != "" {
		params.Role = models.UserRole(role)
	}

	result, err := h.userService.ListUsers(c.Request.Context(), params, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser returns one user account
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id",
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), targetID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser patches a user's profile
func (h *UserHandler) UpdateUser(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id",
		})
		return
	}

	h.LogRequest(c, "Updating user", "target_id", targetID)

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), targetID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id",
		})
		return
	}

	h.LogRequest(c, "Deleting user", "target_id", targetID)

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), targetID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "User deleted successfully",
	})
}

// ListUserRegistrations returns a user's registration history
func (h *UserHandler) ListUserRegistrations(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id",
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	params := &models.ListRegistrationsParams{
		Page:  h.parseIntQuery(c, "page", 1),
		Limit: h.parseIntQuery(c, "limit", 20),
	}
	if status := c.Query("status"); status != "" {
		params.Status = models.RegistrationStatus(status)
	}

	result, err := h.registrationService.ListByUser(c.Request.Context(), targetID, params, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
