package services

import (
	"context"

	"github.com/CampusHub-F25/event-service/internal/models"
)

// Request DTOs are defined next to the models so the validator and the
// handlers share one set of types.
type CreateEventRequest = models.EventCreateRequest
type UpdateEventRequest = models.EventUpdateRequest
type RegisterRequest = models.RegisterRequest
type FeedbackRequest = models.FeedbackRequest
type CreateCategoryRequest = models.CategoryCreateRequest
type UpdateCategoryRequest = models.CategoryUpdateRequest
type UpdateUserRequest = models.UserUpdateRequest
type SignupRequest = models.SignupRequest
type LoginRequest = models.LoginRequest

// EventService manages the event catalog.
type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest, actorID string) (*models.EventResponse, error)
	GetEvent(ctx context.Context, eventID uint) (*models.EventResponse, error)
	UpdateEvent(ctx context.Context, eventID uint, req *UpdateEventRequest, actorID string) (*models.EventResponse, error)
	DeleteEvent(ctx context.Context, eventID uint, actorID string) error
	PublishEvent(ctx context.Context, eventID uint, actorID string) (*models.EventResponse, error)
	ListEvents(ctx context.Context, params *models.ListEventsParams) (*models.PaginatedResponse, error)
	ListEventsByOrganizer(ctx context.Context, organizerID string, params *models.ListEventsParams) (*models.PaginatedResponse, error)
}

// RegistrationService manages the registration lifecycle, including
// capacity enforcement, status transitions, attendance and feedback.
type RegistrationService interface {
	Register(ctx context.Context, eventID uint, req *RegisterRequest, actorID string) (*models.RegistrationResponse, error)
	GetRegistration(ctx context.Context, registrationID uint, actorID string) (*models.RegistrationResponse, error)
	UpdateStatus(ctx context.Context, registrationID uint, status models.RegistrationStatus, actorID string) (*models.RegistrationResponse, error)
	CancelRegistration(ctx context.Context, registrationID uint, actorID string) (*models.RegistrationResponse, error)
	MarkAttendance(ctx context.Context, registrationID uint, status models.AttendanceStatus, actorID string) (*models.RegistrationResponse, error)
	SubmitFeedback(ctx context.Context, registrationID uint, req *FeedbackRequest, actorID string) (*models.RegistrationResponse, error)
	ListByUser(ctx context.Context, userID string, params *models.ListRegistrationsParams, actorID string) (*models.PaginatedResponse, error)
	ListByEvent(ctx context.Context, eventID uint, params *models.ListRegistrationsParams, actorID string) (*models.PaginatedResponse, error)
}

// UserService manages accounts and authentication.
type UserService interface {
	Signup(ctx context.Context, req *SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, userID, actorID string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, req *UpdateUserRequest, actorID string) (*models.User, error)
	DeleteUser(ctx context.Context, userID, actorID string) error
	ListUsers(ctx context.Context, params *models.ListUsersParams, actorID string) (*models.PaginatedResponse, error)
}

// CategoryService manages the category taxonomy. Listing is public, writes
// are admin only.
type CategoryService interface {
	CreateCategory(ctx context.Context, req *CreateCategoryRequest, actorID string) (*models.Category, error)
	GetCategory(ctx context.Context, categoryID uint) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID uint, req *UpdateCategoryRequest, actorID string) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID uint, actorID string) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// ExportService produces downloadable registration reports.
type ExportService interface {
	ExportEventRegistrations(ctx context.Context, eventID uint, actorID string) ([]byte, string, error)
}

// ServiceManager provides access to all services.
type ServiceManager interface {
	Event() EventService
	Registration() RegistrationService
	User() UserService
	Category() CategoryService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
