package services

import (
	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
)

// applyEventUpdates merges a patch request onto a copy of the event. Only
// non-nil fields are applied.
func applyEventUpdates(event *models.Event, req *UpdateEventRequest) *models.Event {
	merged := *event

	if req.Title != nil {
		merged.Title = *req.Title
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.ShortDescription != nil {
		merged.ShortDescription = req.ShortDescription
	}
	if req.StartDate != nil {
		merged.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		merged.EndDate = *req.EndDate
	}
	if req.RegistrationDeadline != nil {
		merged.RegistrationDeadline = *req.RegistrationDeadline
	}
	if req.Location != nil {
		merged.Location = *req.Location
	}
	if req.IsVirtual != nil {
		merged.IsVirtual = *req.IsVirtual
	}
	if req.MeetingLink != nil {
		merged.MeetingLink = req.MeetingLink
	}
	if req.MaxParticipants != nil {
		merged.MaxParticipants = *req.MaxParticipants
	}
	if req.Tags != nil {
		merged.Tags = req.Tags
	}
	if req.Image != nil {
		merged.Image = req.Image
	}
	if req.Requirements != nil {
		merged.Requirements = req.Requirements
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}
	if req.IsHighlighted != nil {
		merged.IsHighlighted = *req.IsHighlighted
	}

	return &merged
}

// buildEventFilters translates list params into repository filters.
func buildEventFilters(params *models.ListEventsParams) (int, int, repositories.EventFilters) {
	page, limit, offset := normalizePagination(params.Page, params.Limit)

	filters := repositories.EventFilters{
		CategoryID:  params.CategoryID,
		OrganizerID: params.Organizer,
		DateFrom:    params.DateFrom,
		DateTo:      params.DateTo,
		Highlighted: params.Highlight,
		Limit:       limit,
		Offset:      offset,
		SortBy:      params.SortBy,
		SortOrder:   params.SortDir,
	}
	if params.Status != "" {
		filters.Status = &params.Status
	}

	return page, limit, filters
}
