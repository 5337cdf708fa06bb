package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/services"
	"github.com/CampusHub-F25/event-service/internal/utils"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

type EventHandler struct {
	BaseHandler
	eventService services.EventService
	validator    *validator.Validator
}

func NewEventHandler(eventService services.EventService, v *validator.Validator, logger utils.Logger) *EventHandler {
	return &EventHandler{
		BaseHandler:  NewBaseHandler(logger),
		eventService: eventService,
		validator:    v,
	}
}

// ListEvents returns a page of events with optional filters
func (h *EventHandler) ListEvents(c *gin.Context) {
	params := h.parseListParams(c)

	result, err := h.eventService.ListEvents(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEvent returns one event with its registration count
func (h *EventHandler) GetEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// CreateEvent creates a new event owned by the caller
func (h *EventHandler) CreateEvent(c *gin.Context) {
	h.LogRequest(c, "Creating event")

	var req services.CreateEventRequest
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

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// UpdateEvent patches an event
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating event", "event_id", id)

	var req services.UpdateEventRequest
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

	event, err := h.eventService.UpdateEvent(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// PublishEvent moves a draft event to published
func (h *EventHandler) PublishEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Publishing event", "event_id", id)

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	event, err := h.eventService.PublishEvent(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event and its registrations
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting event", "event_id", id)

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Event deleted successfully",
	})
}

// ListMyEvents returns the caller's own events
func (h *EventHandler) ListMyEvents(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	params := h.parseListParams(c)

	result, err := h.eventService.ListEventsByOrganizer(c.Request.Context(), userID, params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EventHandler) parseListParams(c *gin.Context) *models.ListEventsParams {
	params := &models.ListEventsParams{
		Page:   h.parseIntQuery(c, "page", 1),
		Limit:  h.parseIntQuery(c, "limit", 20),
		Search: c.Query("search"),
		SortBy: c.Query("sort_by"),
	}

	if status := c.Query("status"); status != "" {
		params.Status = models.EventStatus(status)
	}
	if categoryStr := c.Query("category_id"); categoryStr != "" {
		if categoryID, err := strconv.ParseUint(categoryStr, 10, 32); err == nil {
			id := uint(categoryID)
			params.CategoryID = &id
		}
	}
	if organizer := c.Query("organizer"); organizer != "" {
		params.Organizer = &organizer
	}
	if dateFrom := c.Query("date_from"); dateFrom != "" {
		if t, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			params.DateFrom = &t
		}
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		if t, err := time.Parse(time.RFC3339, dateTo); err == nil {
			params.DateTo = &t
		}
	}
	if highlightedStr := c.Query("highlighted"); highlightedStr != "" {
		if highlighted, err := strconv.ParseBool(highlightedStr); err == nil {
			params.Highlight = &highlighted
		}
	}
	if sortDir := c.Query("sort_dir"); sortDir == "asc" || sortDir == "desc" {
		params.SortDir = sortDir
	}

	return params
}
