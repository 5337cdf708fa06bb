package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/services"
	"github.com/CampusHub-F25/event-service/internal/utils"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

type RegistrationHandler struct {
	BaseHandler
	registrationService services.RegistrationService
	exportService       services.ExportService
	validator           *validator.Validator
}

func NewRegistrationHandler(registrationService services.RegistrationService, exportService services.ExportService, v *validator.Validator, logger utils.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler:         NewBaseHandler(logger),
		registrationService: registrationService,
		exportService:       exportService,
		validator:           v,
	}
}

// Register registers the caller for an event
func (h *RegistrationHandler) Register(c *gin.Context) {
	eventID := h.parseIDParam(c, "id")
	if eventID == 0 {
		return
	}

	h.LogRequest(c, "Registering for event", "event_id", eventID)

	var req services.RegisterRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	registration, err := h.registrationService.Register(c.Request.Context(), eventID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registration)
}

// GetRegistration returns one registration
func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	registration, err := h.registrationService.GetRegistration(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// UpdateStatus approves, rejects or cancels a registration
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating registration status", "registration_id", id)

	var req models.RegistrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err,
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	registration, err := h.registrationService.UpdateStatus(c.Request.Context(), id, req.Status, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// CancelRegistration cancels the caller's registration
func (h *RegistrationHandler) CancelRegistration(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Cancelling registration", "registration_id", id)

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	registration, err := h.registrationService.CancelRegistration(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// MarkAttendance records attendance for a registration
func (h *RegistrationHandler) MarkAttendance(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Marking attendance", "registration_id", id)

	var req models.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err,
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	registration, err := h.registrationService.MarkAttendance(c.Request.Context(), id, req.AttendanceStatus, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// SubmitFeedback stores the caller's feedback for an attended event
func (h *RegistrationHandler) SubmitFeedback(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Submitting feedback", "registration_id", id)

	var req services.FeedbackRequest
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

	registration, err := h.registrationService.SubmitFeedback(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// ListMyRegistrations returns the caller's registration history
func (h *RegistrationHandler) ListMyRegistrations(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	params := h.parseListParams(c)

	result, err := h.registrationService.ListByUser(c.Request.Context(), userID, params, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListEventRegistrations returns the registration list of an event
func (h *RegistrationHandler) ListEventRegistrations(c *gin.Context) {
	eventID := h.parseIDParam(c, "id")
	if eventID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	params := h.parseListParams(c)

	result, err := h.registrationService.ListByEvent(c.Request.Context(), eventID, params, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportEventRegistrations streams the registration list as an xlsx file
func (h *RegistrationHandler) ExportEventRegistrations(c *gin.Context) {
	eventID := h.parseIDParam(c, "id")
	if eventID == 0 {
		return
	}

	h.LogRequest(c, "Exporting registrations", "event_id", eventID)

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	content, filename, err := h.exportService.ExportEventRegistrations(c.Request.Context(), eventID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *RegistrationHandler) parseListParams(c *gin.Context) *models.ListRegistrationsParams {
	params := &models.ListRegistrationsParams{
		Page:  h.parseIntQuery(c, "page", 1),
		Limit: h.parseIntQuery(c, "limit", 20),
	}
	if status := c.Query("status"); status != "" {
		params.Status = models.RegistrationStatus(status)
	}
	return params
}
