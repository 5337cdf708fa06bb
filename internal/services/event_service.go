package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/CampusHub-F25/event-service/internal/events"
	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

// eventPublishedData is the payload published when an event goes live.
type eventPublishedData struct {
	EventID     uint      `json:"event_id"`
	OrganizerID string    `json:"organizer_id"`
	Title       string    `json:"title"`
	StartDate   time.Time `json:"start_date"`
}

type eventService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewEventService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) EventService {
	return &eventService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest, actorID string) (*models.EventResponse, error) {
	s.logger.Info("creating event", "title", req.Title, "user_id", actorID)

	if errs := s.validator.GetBusinessValidator().ValidateEventCreate(req); errs.HasErrors() {
		return nil, errs
	}

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanCreateEvent(actor) {
		return nil, NewPermissionError(actor.ID, 0, "event", "create", "only organizers can create events")
	}

	categories, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	status := models.EventPublished
	if req.Status != nil {
		status = *req.Status
	}

	event := &models.Event{
		Title:                req.Title,
		Description:          req.Description,
		ShortDescription:     req.ShortDescription,
		OrganizerID:          actor.ID,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		Location:             req.Location,
		IsVirtual:            req.IsVirtual,
		MeetingLink:          req.MeetingLink,
		MaxParticipants:      req.MaxParticipants,
		Tags:                 req.Tags,
		Image:                req.Image,
		Requirements:         req.Requirements,
		Status:               status,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Event().Create(ctx, nil, event); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		if len(categories) > 0 {
			if err := txRepo.Event().ReplaceCategories(ctx, nil, event, categories); err != nil {
				return fmt.Errorf("failed to attach categories: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event.Status == models.EventPublished {
		s.publishEvent(ctx, events.EventPublished, eventPublishedData{
			EventID:     event.ID,
			OrganizerID: event.OrganizerID,
			Title:       event.Title,
			StartDate:   event.StartDate,
		})
	}

	s.logger.Info("event created", "event_id", event.ID, "user_id", actor.ID)

	return s.getResponse(ctx, event.ID)
}

func (s *eventService) GetEvent(ctx context.Context, eventID uint) (*models.EventResponse, error) {
	return s.getResponse(ctx, eventID)
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID uint, req *UpdateEventRequest, actorID string) (*models.EventResponse, error) {
	s.logger.Info("updating event", "event_id", eventID, "user_id", actorID)

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.Event().GetByID(ctx, nil, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if !CanManageEvent(actor, event) {
		return nil, NewPermissionError(actor.ID, eventID, "event", "update", "only the organizer can update this event")
	}

	merged := applyEventUpdates(event, req)
	if errs := s.validator.GetBusinessValidator().ValidateEventUpdate(req, merged); errs.HasErrors() {
		return nil, errs
	}

	var categories []models.Category
	if req.CategoryIDs != nil {
		categories, err = s.resolveCategories(ctx, req.CategoryIDs)
		if err != nil {
			return nil, err
		}
	}

	wasPublished := event.Status == models.EventPublished

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		current, err := txRepo.Event().GetByIDForUpdate(ctx, nil, eventID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrEventNotFound
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}

		// Shrinking capacity below the current active count would orphan
		// registrations that already hold a spot. The count runs under the
		// same event row lock the register path takes, so a concurrent
		// registration cannot slip in between the check and the write.
		if merged.MaxParticipants != current.MaxParticipants && merged.MaxParticipants > 0 {
			activeCount, err := txRepo.Registration().CountActive(ctx, nil, eventID)
			if err != nil {
				return fmt.Errorf("failed to count registrations: %w", err)
			}
			if activeCount > int64(merged.MaxParticipants) {
				return NewBusinessRuleError("capacity_below_active", "max participants cannot be lower than the current registration count", map[string]interface{}{
					"event_id":         eventID,
					"max_participants": merged.MaxParticipants,
					"active_count":     activeCount,
				})
			}
		}

		if err := txRepo.Event().Update(ctx, nil, merged); err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		if req.CategoryIDs != nil {
			if err := txRepo.Event().ReplaceCategories(ctx, nil, merged, categories); err != nil {
				return fmt.Errorf("failed to replace categories: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !wasPublished && merged.Status == models.EventPublished {
		s.publishEvent(ctx, events.EventPublished, eventPublishedData{
			EventID:     merged.ID,
			OrganizerID: merged.OrganizerID,
			Title:       merged.Title,
			StartDate:   merged.StartDate,
		})
	}

	s.logger.Info("event updated", "event_id", eventID, "user_id", actor.ID)

	return s.getResponse(ctx, eventID)
}

// PublishEvent moves a draft event to published. Publishing an already
// published event is a no-op.
func (s *eventService) PublishEvent(ctx context.Context, eventID uint, actorID string) (*models.EventResponse, error) {
	s.logger.Info("publishing event", "event_id", eventID, "user_id", actorID)

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.Event().GetByID(ctx, nil, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if !CanManageEvent(actor, event) {
		return nil, NewPermissionError(actor.ID, eventID, "event", "publish", "only the organizer can publish this event")
	}

	if event.Status == models.EventPublished {
		return s.getResponse(ctx, eventID)
	}
	if event.Status != models.EventDraft {
		return nil, NewBusinessRuleError("event_not_draft", "only draft events can be published", map[string]interface{}{
			"event_id": eventID,
			"status":   event.Status,
		})
	}

	if err := s.repo.Event().UpdateStatus(ctx, nil, eventID, models.EventPublished); err != nil {
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	s.publishEvent(ctx, events.EventPublished, eventPublishedData{
		EventID:     event.ID,
		OrganizerID: event.OrganizerID,
		Title:       event.Title,
		StartDate:   event.StartDate,
	})

	return s.getResponse(ctx, eventID)
}

// DeleteEvent removes the event and its registrations in one transaction.
func (s *eventService) DeleteEvent(ctx context.Context, eventID uint, actorID string) error {
	s.logger.Info("deleting event", "event_id", eventID, "user_id", actorID)

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return err
	}

	event, err := s.repo.Event().GetByID(ctx, nil, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}

	if !CanManageEvent(actor, event) {
		return NewPermissionError(actor.ID, eventID, "event", "delete", "only the organizer can delete this event")
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Registration().DeleteByEvent(ctx, nil, eventID); err != nil {
			return err
		}
		return txRepo.Event().Delete(ctx, nil, eventID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.logger.Info("event deleted", "event_id", eventID, "user_id", actor.ID)

	return nil
}

func (s *eventService) ListEvents(ctx context.Context, params *models.ListEventsParams) (*models.PaginatedResponse, error) {
	page, limit, filters := buildEventFilters(params)

	// The public catalog serves published events unless another public
	// status is requested. Drafts are only reachable through the
	// organizer listing.
	if params.Status == "" || params.Status == models.EventDraft {
		status := models.EventPublished
		filters.Status = &status
	}

	var (
		eventList []*models.Event
		total     int64
		err       error
	)
	if params.Search != "" {
		eventList, total, err = s.repo.Event().Search(ctx, nil, params.Search, filters)
	} else {
		eventList, total, err = s.repo.Event().List(ctx, nil, filters)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	responses, err := s.buildResponses(ctx, eventList)
	if err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(responses, total, page, limit), nil
}

func (s *eventService) ListEventsByOrganizer(ctx context.Context, organizerID string, params *models.ListEventsParams) (*models.PaginatedResponse, error) {
	page, limit, filters := buildEventFilters(params)

	eventList, total, err := s.repo.Event().GetByOrganizer(ctx, nil, organizerID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}

	responses, err := s.buildResponses(ctx, eventList)
	if err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(responses, total, page, limit), nil
}

func (s *eventService) resolveCategories(ctx context.Context, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	categories, err := s.repo.Category().GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) != len(ids) {
		return nil, NewValidationError("category_ids", "one or more categories do not exist", ids)
	}
	return categories, nil
}

func (s *eventService) getResponse(ctx context.Context, eventID uint) (*models.EventResponse, error) {
	event, err := s.repo.Event().GetByIDWithDetails(ctx, nil, eventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	activeCount, err := s.repo.Registration().CountActive(ctx, nil, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	return buildEventResponse(event, activeCount), nil
}

func (s *eventService) buildResponses(ctx context.Context, eventList []*models.Event) ([]*models.EventResponse, error) {
	responses := make([]*models.EventResponse, 0, len(eventList))
	for _, event := range eventList {
		activeCount, err := s.repo.Registration().CountActive(ctx, nil, event.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count registrations: %w", err)
		}
		responses = append(responses, buildEventResponse(event, activeCount))
	}
	return responses, nil
}

func (s *eventService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Error("failed to publish event", "event_type", eventType, "error", err)
	}
}
