package models

import "time"

type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

// ValidRole reports whether r is one of the closed set of roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID    string   `json:"id" gorm:"primaryKey;size:255"`
	Name  string   `json:"name" gorm:"not null;size:50"`
	Email string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role  UserRole `json:"role" gorm:"not null;default:student;size:20;index"`

	// Password hash is never serialized
	PasswordHash string `json:"-" gorm:"not null;size:100"`

	// Profile info
	College        *string `json:"college" gorm:"size:100"`
	Department     *string `json:"department" gorm:"size:100"`
	Year           *int    `json:"year"`
	Bio            *string `json:"bio" gorm:"size:500"`
	ProfilePicture *string `json:"profile_picture" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Events        []Event        `json:"-" gorm:"foreignKey:OrganizerID"`
	Registrations []Registration `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the projection embedded in registration/event responses.
type UserSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	College    *string `json:"college,omitempty"`
	Department *string `json:"department,omitempty"`
	Year       *int    `json:"year,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		College:    u.College,
		Department: u.Department,
		Year:       u.Year,
	}
}
