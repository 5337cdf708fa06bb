package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/CampusHub-F25/event-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type EventFilters struct {
	Status      *models.EventStatus `json:"status"`
	OrganizerID *string             `json:"organizer_id"`
	CategoryID  *uint               `json:"category_id"`
	DateFrom    *time.Time          `json:"date_from"`
	DateTo      *time.Time          `json:"date_to"`
	Highlighted *bool               `json:"highlighted"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
	SortBy      string              `json:"sort_by"`    // "start_date", "created_at", "title"
	SortOrder   string              `json:"sort_order"` // "asc", "desc"
}

type RegistrationFilters struct {
	Status *models.RegistrationStatus `json:"status"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Search string           `json:"search"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// EventRepository handles event persistence. The tx parameter carries an
// explicit transaction; pass nil to use the repository's own connection.
type EventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.Event) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)

	// GetByIDForUpdate loads the event row with a FOR UPDATE lock. Must be
	// called inside a transaction; the lock serializes concurrent
	// registration attempts for the same event.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)

	Update(ctx context.Context, tx *gorm.DB, event *models.Event) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.EventStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters EventFilters) ([]*models.Event, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters EventFilters) ([]*models.Event, int64, error)
	GetByOrganizer(ctx context.Context, tx *gorm.DB, organizerID string, filters EventFilters) ([]*models.Event, int64, error)

	ReplaceCategories(ctx context.Context, tx *gorm.DB, event *models.Event, categories []models.Category) error
}

// RegistrationRepository is the registration ledger: every state change of a
// user's relationship to an event goes through here.
type RegistrationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, registration *models.Registration) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error)
	GetByUserAndEvent(ctx context.Context, tx *gorm.DB, userID string, eventID uint) (*models.Registration, error)

	Update(ctx context.Context, tx *gorm.DB, registration *models.Registration) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.RegistrationStatus) error
	SetAttendance(ctx context.Context, tx *gorm.DB, id uint, status models.AttendanceStatus) error
	SaveFeedback(ctx context.Context, tx *gorm.DB, id uint, feedback models.Feedback) error

	ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters RegistrationFilters) ([]*models.Registration, int64, error)
	ListByEvent(ctx context.Context, tx *gorm.DB, eventID uint, filters RegistrationFilters) ([]*models.Registration, int64, error)

	// CountActive counts registrations holding capacity: pending or approved.
	CountActive(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error)

	// CountActiveForOrganizer counts active registrations across every event
	// the organizer owns. Used by the user deletion policy.
	CountActiveForOrganizer(ctx context.Context, tx *gorm.DB, organizerID string) (int64, error)

	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteByEvent(ctx context.Context, tx *gorm.DB, eventID uint) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
}

// UserRepository handles user account persistence.
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

// CategoryRepository handles event category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, category *models.Category) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Category, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.Category, error)
	Update(ctx context.Context, tx *gorm.DB, category *models.Category) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB) ([]*models.Category, error)
	ExistsByName(ctx context.Context, tx *gorm.DB, name string, excludeID *uint) (bool, error)
}
