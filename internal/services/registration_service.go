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

// registrationEventData is the payload published on registration events.
type registrationEventData struct {
	RegistrationID uint                      `json:"registration_id"`
	EventID        uint                      `json:"event_id"`
	UserID         string                    `json:"user_id"`
	Status         models.RegistrationStatus `json:"status"`
	PreviousStatus models.RegistrationStatus `json:"previous_status,omitempty"`
}

type registrationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewRegistrationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) RegistrationService {
	return &registrationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// Register creates a pending registration for the actor on the event. The
// capacity check and the insert run in one transaction holding a row lock on
// the event, so concurrent registrations can never oversell capacity. A
// previously cancelled registration is reactivated instead of duplicated.
func (s *registrationService) Register(ctx context.Context, eventID uint, req *RegisterRequest, actorID string) (*models.RegistrationResponse, error) {
	s.logger.Info("registering for event", "event_id", eventID, "user_id", actorID)

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	var registration *models.Registration

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		event, err := txRepo.Event().GetByIDForUpdate(ctx, nil, eventID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrEventNotFound
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}

		if event.Status != models.EventPublished {
			return NewBusinessRuleError("event_not_open", "event is not open for registration", map[string]interface{}{
				"event_id": eventID,
				"status":   event.Status,
			})
		}

		now := time.Now()
		if !event.IsRegistrationOpen(now) {
			return &RegistrationClosedError{EventID: eventID, Deadline: event.RegistrationDeadline}
		}

		activeCount, err := txRepo.Registration().CountActive(ctx, nil, eventID)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if event.IsFull(activeCount) {
			return &EventFullError{
				EventID:         eventID,
				MaxParticipants: event.MaxParticipants,
				ActiveCount:     activeCount,
			}
		}

		existing, err := txRepo.Registration().GetByUserAndEvent(ctx, nil, actor.ID, eventID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to look up registration: %w", err)
		}

		if existing != nil {
			if existing.Status != models.RegistrationCancelled {
				return &AlreadyRegisteredError{UserID: actor.ID, EventID: eventID}
			}

			// Reactivate the cancelled registration under the same record.
			existing.Status = models.RegistrationPending
			existing.RegistrationDate = now
			existing.AdditionalInfo = req.AdditionalInfo
			existing.AttendanceStatus = models.AttendanceNotAttended
			existing.Feedback = models.Feedback{}
			if err := txRepo.Registration().Update(ctx, nil, existing); err != nil {
				return err
			}
			registration = existing
			return nil
		}

		registration = &models.Registration{
			UserID:           actor.ID,
			EventID:          eventID,
			Status:           models.RegistrationPending,
			RegistrationDate: now,
			AdditionalInfo:   req.AdditionalInfo,
			AttendanceStatus: models.AttendanceNotAttended,
		}
		if err := txRepo.Registration().Create(ctx, nil, registration); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return &AlreadyRegisteredError{UserID: actor.ID, EventID: eventID}
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.RegistrationCreated, registrationEventData{
		RegistrationID: registration.ID,
		EventID:        eventID,
		UserID:         actor.ID,
		Status:         registration.Status,
	})

	s.logger.Info("registration created", "registration_id", registration.ID, "event_id", eventID, "user_id", actor.ID)

	return s.getResponse(ctx, registration.ID)
}

func (s *registrationService) GetRegistration(ctx context.Context, registrationID uint, actorID string) (*models.RegistrationResponse, error) {
	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	registration, err := s.repo.Registration().GetByIDWithDetails(ctx, nil, registrationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if !CanViewRegistration(actor, registration, &registration.Event) {
		return nil, NewPermissionError(actor.ID, registrationID, "registration", "view", "not the registrant or the event organizer")
	}

	return buildRegistrationResponse(registration), nil
}

// UpdateStatus moves a registration through the approval workflow. Only the
// event organizer or an admin may decide; the transition table is enforced
// strictly.
func (s *registrationService) UpdateStatus(ctx context.Context, registrationID uint, status models.RegistrationStatus, actorID string) (*models.RegistrationResponse, error) {
	s.logger.Info("updating registration status", "registration_id", registrationID, "status", status, "user_id", actorID)

	if !models.ValidRegistrationStatus(status) || status == models.RegistrationPending {
		return nil, NewValidationError("status", "must be one of: approved, rejected, cancelled", status)
	}

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	registration, err := s.repo.Registration().GetByID(ctx, nil, registrationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	event, err := s.repo.Event().GetByID(ctx, nil, registration.EventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if !CanDecideRegistration(actor, event) {
		return nil, NewPermissionError(actor.ID, registrationID, "registration", "update_status", "only the event organizer can decide registrations")
	}

	return s.transition(ctx, registration.ID, status)
}

// CancelRegistration cancels the actor's own registration. Cancelling an
// already cancelled registration is a no-op.
func (s *registrationService) CancelRegistration(ctx context.Context, registrationID uint, actorID string) (*models.RegistrationResponse, error) {
	s.logger.Info("cancelling registration", "registration_id", registrationID, "user_id", actorID)

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	registration, err := s.repo.Registration().GetByID(ctx, nil, registrationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if !CanCancelRegistration(actor, registration) {
		return nil, NewPermissionError(actor.ID, registrationID, "registration", "cancel", "only the registrant can cancel")
	}

	return s.transition(ctx, registration.ID, models.RegistrationCancelled)
}

// transition applies a status change, tolerating repeated cancellations.
// The current status is re-read under the event row lock so concurrent
// decisions serialize against each other and against the register path.
func (s *registrationService) transition(ctx context.Context, registrationID uint, target models.RegistrationStatus) (*models.RegistrationResponse, error) {
	var (
		previous models.RegistrationStatus
		eventID  uint
		userID   string
		changed  bool
	)

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		registration, err := txRepo.Registration().GetByID(ctx, nil, registrationID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrRegistrationNotFound
			}
			return fmt.Errorf("failed to get registration: %w", err)
		}

		if _, err := txRepo.Event().GetByIDForUpdate(ctx, nil, registration.EventID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrEventNotFound
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}

		if registration.Status == models.RegistrationCancelled && target == models.RegistrationCancelled {
			return nil
		}

		if !registration.Status.CanTransitionTo(target) {
			return &InvalidTransitionError{From: registration.Status, To: target}
		}

		previous = registration.Status
		eventID = registration.EventID
		userID = registration.UserID
		changed = true

		if err := txRepo.Registration().UpdateStatus(ctx, nil, registrationID, target); err != nil {
			return fmt.Errorf("failed to update registration status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publishEvent(ctx, events.RegistrationStatusChanged, registrationEventData{
			RegistrationID: registrationID,
			EventID:        eventID,
			UserID:         userID,
			Status:         target,
			PreviousStatus: previous,
		})

		s.logger.Info("registration status changed", "registration_id", registrationID, "from", previous, "to", target)
	}

	return s.getResponse(ctx, registrationID)
}

// MarkAttendance records whether the participant showed up. Only approved
// registrations carry attendance.
func (s *registrationService) MarkAttendance(ctx context.Context, registrationID uint, status models.AttendanceStatus, actorID string) (*models.RegistrationResponse, error) {
	s.logger.Info("marking attendance", "registration_id", registrationID, "attendance_status", status, "user_id", actorID)

	if !models.ValidAttendanceStatus(status) {
		return nil, NewValidationError("attendance_status", "must be one of: not_attended, attended, completed", status)
	}

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	registration, err := s.repo.Registration().GetByID(ctx, nil, registrationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	event, err := s.repo.Event().GetByID(ctx, nil, registration.EventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if !CanMarkAttendance(actor, event) {
		return nil, NewPermissionError(actor.ID, registrationID, "registration", "mark_attendance", "only the event organizer can mark attendance")
	}

	if registration.Status != models.RegistrationApproved {
		return nil, NewBusinessRuleError("registration_not_approved", "attendance can only be recorded for approved registrations", map[string]interface{}{
			"registration_id": registrationID,
			"status":          registration.Status,
		})
	}

	if err := s.repo.Registration().SetAttendance(ctx, nil, registrationID, status); err != nil {
		return nil, fmt.Errorf("failed to set attendance: %w", err)
	}

	return s.getResponse(ctx, registrationID)
}

// SubmitFeedback stores the registrant's rating and comment once the event
// has ended. Resubmitting overwrites the previous feedback.
func (s *registrationService) SubmitFeedback(ctx context.Context, registrationID uint, req *FeedbackRequest, actorID string) (*models.RegistrationResponse, error) {
	s.logger.Info("submitting feedback", "registration_id", registrationID, "user_id", actorID)

	if errs := s.validator.GetBusinessValidator().ValidateFeedback(req.Rating, req.Comment); errs.HasErrors() {
		return nil, errs
	}

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	registration, err := s.repo.Registration().GetByID(ctx, nil, registrationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if !CanSubmitFeedback(actor, registration) {
		return nil, NewPermissionError(actor.ID, registrationID, "registration", "submit_feedback", "only the registrant can submit feedback")
	}

	if registration.Status != models.RegistrationApproved {
		return nil, NewBusinessRuleError("registration_not_approved", "feedback requires an approved registration", map[string]interface{}{
			"registration_id": registrationID,
			"status":          registration.Status,
		})
	}

	event, err := s.repo.Event().GetByID(ctx, nil, registration.EventID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if time.Now().Before(event.EndDate) {
		return nil, NewBusinessRuleError("event_not_finished", "feedback opens after the event ends", map[string]interface{}{
			"event_id": event.ID,
			"end_date": event.EndDate,
		})
	}

	rating := req.Rating
	feedback := models.Feedback{
		Rating:  &rating,
		Comment: req.Comment,
	}
	if err := s.repo.Registration().SaveFeedback(ctx, nil, registrationID, feedback); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	s.logger.Info("feedback submitted", "registration_id", registrationID, "rating", req.Rating)

	return s.getResponse(ctx, registrationID)
}

// ListByUser returns the user's registrations with event summaries attached.
// Users see only their own history unless they are admins.
func (s *registrationService) ListByUser(ctx context.Context, userID string, params *models.ListRegistrationsParams, actorID string) (*models.PaginatedResponse, error) {
	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	if !CanViewUser(actor, userID) {
		return nil, NewPermissionError(actor.ID, userID, "registration", "list", "cannot view another user's registrations")
	}

	page, limit, offset := normalizePagination(params.Page, params.Limit)
	filters := repositories.RegistrationFilters{Limit: limit, Offset: offset}
	if params.Status != "" {
		filters.Status = &params.Status
	}

	registrations, total, err := s.repo.Registration().ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	responses := make([]*models.RegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		responses = append(responses, buildRegistrationResponse(registration))
	}

	return models.NewPaginatedResponse(responses, total, page, limit), nil
}

// ListByEvent returns an event's registrations with user summaries attached.
// Restricted to the organizer and admins.
func (s *registrationService) ListByEvent(ctx context.Context, eventID uint, params *models.ListRegistrationsParams, actorID string) (*models.PaginatedResponse, error) {
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

	if !CanDecideRegistration(actor, event) {
		return nil, NewPermissionError(actor.ID, eventID, "registration", "list", "only the event organizer can view the registration list")
	}

	page, limit, offset := normalizePagination(params.Page, params.Limit)
	filters := repositories.RegistrationFilters{Limit: limit, Offset: offset}
	if params.Status != "" {
		filters.Status = &params.Status
	}

	registrations, total, err := s.repo.Registration().ListByEvent(ctx, nil, eventID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	responses := make([]*models.RegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		responses = append(responses, buildRegistrationResponse(registration))
	}

	return models.NewPaginatedResponse(responses, total, page, limit), nil
}

func (s *registrationService) getResponse(ctx context.Context, registrationID uint) (*models.RegistrationResponse, error) {
	registration, err := s.repo.Registration().GetByIDWithDetails(ctx, nil, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}
	return buildRegistrationResponse(registration), nil
}

// publishEvent publishes on a best-effort basis: a broker outage must not
// fail the registration itself.
func (s *registrationService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Error("failed to publish event", "event_type", eventType, "error", err)
	}
}
