package services

import (
	"context"

	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
)

// getActor loads the acting user. Every mutating operation resolves the
// actor from storage so role changes take effect immediately.
func getActor(ctx context.Context, repo repositories.Repository, actorID string) (*models.User, error) {
	actor, err := repo.User().GetByID(ctx, nil, actorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return actor, nil
}

// buildRegistrationResponse projects a registration into its API shape.
// User and event summaries are attached only when the relations are loaded.
func buildRegistrationResponse(registration *models.Registration) *models.RegistrationResponse {
	resp := &models.RegistrationResponse{
		ID:               registration.ID,
		Status:           registration.Status,
		RegistrationDate: registration.RegistrationDate,
		AdditionalInfo:   registration.AdditionalInfo,
		AttendanceStatus: registration.AttendanceStatus,
		CreatedAt:        registration.CreatedAt,
		UpdatedAt:        registration.UpdatedAt,
	}

	if registration.HasFeedback() {
		feedback := registration.Feedback
		resp.Feedback = &feedback
	}
	if registration.User.ID != "" {
		summary := registration.User.Summary()
		resp.User = &summary
	}
	if registration.Event.ID != 0 {
		summary := registration.Event.Summary()
		resp.Event = &summary
	}

	return resp
}

// buildEventResponse projects an event with its active registration count.
func buildEventResponse(event *models.Event, activeCount int64) *models.EventResponse {
	event.RegistrationCount = activeCount

	resp := &models.EventResponse{Event: *event}
	if event.MaxParticipants > 0 {
		spots := int64(event.MaxParticipants) - activeCount
		if spots < 0 {
			spots = 0
		}
		resp.AvailableSpots = &spots
	}

	return resp
}

// normalizePagination clamps page/limit to sane values and returns the
// matching offset. Page numbering starts at 1.
func normalizePagination(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}
