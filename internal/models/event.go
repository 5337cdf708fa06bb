package models

import (
	"time"

	"gorm.io/datatypes"
)

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

type Event struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	Title            string  `json:"title" gorm:"not null;size:100;index"`
	Description      string  `json:"description" gorm:"not null;type:text"`
	ShortDescription *string `json:"short_description" gorm:"size:200"`

	OrganizerID string `json:"organizer_id" gorm:"not null;index;size:255"`

	// Schedule
	StartDate            time.Time `json:"start_date" gorm:"not null;index"`
	EndDate              time.Time `json:"end_date" gorm:"not null"`
	RegistrationDeadline time.Time `json:"registration_deadline" gorm:"not null"`

	// Location
	Location    string  `json:"location" gorm:"not null;size:255"`
	IsVirtual   bool    `json:"is_virtual" gorm:"not null;default:false"`
	MeetingLink *string `json:"meeting_link" gorm:"size:500"`

	// Capacity: 0 means unlimited
	MaxParticipants int `json:"max_participants" gorm:"not null;default:0"`

	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Image         *string                     `json:"image" gorm:"size:500"`
	Requirements  *string                     `json:"requirements" gorm:"type:text"`
	Status        EventStatus                 `json:"status" gorm:"not null;default:published;size:20;index"`
	IsHighlighted bool                        `json:"is_highlighted" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Organizer     User           `json:"organizer" gorm:"foreignKey:OrganizerID"`
	Categories    []Category     `json:"categories" gorm:"many2many:event_categories"`
	Registrations []Registration `json:"-" gorm:"foreignKey:EventID"`

	// Computed fields (not stored); the registration ledger is the only
	// authoritative source for the active count.
	RegistrationCount int64 `json:"registration_count" gorm:"-"`
}

func (Event) TableName() string {
	return "events"
}

// IsFull reports whether the active registration count has reached capacity.
// A zero MaxParticipants means unlimited.
func (e *Event) IsFull(activeCount int64) bool {
	return e.MaxParticipants > 0 && activeCount >= int64(e.MaxParticipants)
}

// IsRegistrationOpen reports whether registrations are still accepted at now.
func (e *Event) IsRegistrationOpen(now time.Time) bool {
	return !now.After(e.RegistrationDeadline)
}

// EventSummary is the projection embedded in registration responses.
type EventSummary struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Location  string      `json:"location"`
	Status    EventStatus `json:"status"`
	Image     *string     `json:"image,omitempty"`
}

func (e *Event) Summary() EventSummary {
	return EventSummary{
		ID:        e.ID,
		Title:     e.Title,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		Location:  e.Location,
		Status:    e.Status,
		Image:     e.Image,
	}
}
