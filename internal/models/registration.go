package models

import (
	"time"

	"gorm.io/datatypes"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationApproved  RegistrationStatus = "approved"
	RegistrationRejected  RegistrationStatus = "rejected"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// ValidRegistrationStatus reports whether s is one of the closed status set.
func ValidRegistrationStatus(s RegistrationStatus) bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected, RegistrationCancelled:
		return true
	}
	return false
}

// IsActive reports whether the status counts against event capacity.
func (s RegistrationStatus) IsActive() bool {
	return s == RegistrationPending || s == RegistrationApproved
}

// registrationTransitions is the allowed status transition table. Approval and
// rejection only happen while a registration is pending; cancellation is allowed
// from any non-cancelled status and is terminal.
var registrationTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationPending:   {RegistrationApproved, RegistrationRejected, RegistrationCancelled},
	RegistrationApproved:  {RegistrationCancelled},
	RegistrationRejected:  {RegistrationCancelled},
	RegistrationCancelled: {},
}

// CanTransitionTo reports whether moving from s to target is allowed.
func (s RegistrationStatus) CanTransitionTo(target RegistrationStatus) bool {
	for _, allowed := range registrationTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

type AttendanceStatus string

const (
	AttendanceNotAttended AttendanceStatus = "not_attended"
	AttendanceAttended    AttendanceStatus = "attended"
	AttendanceCompleted   AttendanceStatus = "completed"
)

// ValidAttendanceStatus reports whether s is one of the closed attendance set.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendanceNotAttended, AttendanceAttended, AttendanceCompleted:
		return true
	}
	return false
}

// Feedback is the post-event feedback embedded in a registration. Rating is
// bounded 1..5 at the service layer; a nil Rating means no feedback yet.
type Feedback struct {
	Rating      *int       `json:"rating,omitempty" gorm:"column:feedback_rating"`
	Comment     *string    `json:"comment,omitempty" gorm:"column:feedback_comment;size:500"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty" gorm:"column:feedback_submitted_at"`
}

type Registration struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_registrations_user_event"`
	EventID uint   `json:"event_id" gorm:"not null;uniqueIndex:idx_registrations_user_event;index"`

	Status           RegistrationStatus `json:"status" gorm:"not null;default:pending;size:20;index"`
	RegistrationDate time.Time          `json:"registration_date" gorm:"not null"`
	AdditionalInfo   datatypes.JSONMap  `json:"additional_info,omitempty"`

	AttendanceStatus AttendanceStatus `json:"attendance_status" gorm:"not null;default:not_attended;size:20"`
	Feedback         Feedback         `json:"feedback" gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User  `json:"-" gorm:"foreignKey:UserID"`
	Event Event `json:"-" gorm:"foreignKey:EventID"`
}

func (Registration) TableName() string {
	return "registrations"
}

// HasFeedback reports whether feedback has been submitted for this registration.
func (r *Registration) HasFeedback() bool {
	return r.Feedback.Rating != nil
}
