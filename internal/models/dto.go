package models

import (
	"time"

	"gorm.io/datatypes"
)

type EventCreateRequest struct {
	Title                string    `json:"title" validate:"required,min=1,max=100"`
	Description          string    `json:"description" validate:"required,min=1,max=2000"`
	ShortDescription     *string   `json:"short_description" validate:"omitempty,max=200"`
	StartDate            time.Time `json:"start_date" validate:"required"`
	EndDate              time.Time `json:"end_date" validate:"required"`
	RegistrationDeadline time.Time `json:"registration_deadline" validate:"required"`
	Location             string    `json:"location" validate:"required,max=255"`
	IsVirtual            bool      `json:"is_virtual"`
	MeetingLink          *string   `json:"meeting_link" validate:"omitempty,url,max=500"`
	MaxParticipants      int       `json:"max_participants" validate:"min=0"`
	CategoryIDs          []uint    `json:"category_ids"`
	Tags                 []string  `json:"tags" validate:"omitempty,max=10,dive,max=30"`
	Image                *string   `json:"image" validate:"omitempty,url,max=500"`
	Requirements         *string   `json:"requirements" validate:"omitempty,max=1000"`
	Status               *EventStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

type EventUpdateRequest struct {
	Title                *string      `json:"title" validate:"omitempty,min=1,max=100"`
	Description          *string      `json:"description" validate:"omitempty,min=1,max=2000"`
	ShortDescription     *string      `json:"short_description" validate:"omitempty,max=200"`
	StartDate            *time.Time   `json:"start_date"`
	EndDate              *time.Time   `json:"end_date"`
	RegistrationDeadline *time.Time   `json:"registration_deadline"`
	Location             *string      `json:"location" validate:"omitempty,max=255"`
	IsVirtual            *bool        `json:"is_virtual"`
	MeetingLink          *string      `json:"meeting_link" validate:"omitempty,url,max=500"`
	MaxParticipants      *int         `json:"max_participants" validate:"omitempty,min=0"`
	CategoryIDs          []uint       `json:"category_ids"`
	Tags                 []string     `json:"tags" validate:"omitempty,max=10,dive,max=30"`
	Image                *string      `json:"image" validate:"omitempty,url,max=500"`
	Requirements         *string      `json:"requirements" validate:"omitempty,max=1000"`
	Status               *EventStatus `json:"status" validate:"omitempty,oneof=draft published cancelled completed"`
	IsHighlighted        *bool        `json:"is_highlighted"`
}

type RegisterRequest struct {
	AdditionalInfo datatypes.JSONMap `json:"additional_info"`
}

type RegistrationStatusRequest struct {
	Status RegistrationStatus `json:"status" validate:"required,oneof=approved rejected cancelled"`
}

type AttendanceRequest struct {
	AttendanceStatus AttendanceStatus `json:"attendance_status" validate:"required,oneof=not_attended attended completed"`
}

type FeedbackRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

type CategoryCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
}

type CategoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
}

type UserUpdateRequest struct {
	Name           *string   `json:"name" validate:"omitempty,min=1,max=50"`
	Role           *UserRole `json:"role" validate:"omitempty,oneof=student organizer admin"`
	College        *string   `json:"college" validate:"omitempty,max=100"`
	Department     *string   `json:"department" validate:"omitempty,max=100"`
	Year           *int      `json:"year" validate:"omitempty,min=1,max=8"`
	Bio            *string   `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string   `json:"profile_picture" validate:"omitempty,url,max=500"`
}

// ===== AUTH =====

type SignupRequest struct {
	Name     string   `json:"name" validate:"required,min=1,max=50"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Role     UserRole `json:"role" validate:"omitempty,oneof=student organizer"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// ===== PAGINATION & FILTERING =====

type ListEventsParams struct {
	Page       int          `json:"page" validate:"min=0"`
	Limit      int          `json:"limit" validate:"min=0,max=100"`
	Status     EventStatus  `json:"status"`
	CategoryID *uint        `json:"category_id"`
	Organizer  *string      `json:"organizer"`
	Search     string       `json:"search"`
	DateFrom   *time.Time   `json:"date_from"`
	DateTo     *time.Time   `json:"date_to"`
	Highlight  *bool        `json:"highlighted"`
	SortBy     string       `json:"sort_by"`
	SortDir    string       `json:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

type ListRegistrationsParams struct {
	Page   int                `json:"page" validate:"min=0"`
	Limit  int                `json:"limit" validate:"min=0,max=100"`
	Status RegistrationStatus `json:"status"`
}

type ListUsersParams struct {
	Page   int      `json:"page" validate:"min=0"`
	Limit  int      `json:"limit" validate:"min=0,max=100"`
	Role   UserRole `json:"role"`
	Search string   `json:"search"`
}

// PaginatedResponse carries one page of results plus the page arithmetic.
// Pages is ceil(Total/Limit).
type PaginatedResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Pages int         `json:"pages"`
}

func NewPaginatedResponse(data interface{}, total int64, page, limit int) *PaginatedResponse {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &PaginatedResponse{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}

// ===== RESPONSE PROJECTIONS =====

type RegistrationResponse struct {
	ID               uint               `json:"id"`
	Status           RegistrationStatus `json:"status"`
	RegistrationDate time.Time          `json:"registration_date"`
	AdditionalInfo   datatypes.JSONMap  `json:"additional_info,omitempty"`
	AttendanceStatus AttendanceStatus   `json:"attendance_status"`
	Feedback         *Feedback          `json:"feedback,omitempty"`
	User             *UserSummary       `json:"user,omitempty"`
	Event            *EventSummary      `json:"event,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type EventResponse struct {
	Event
	AvailableSpots *int64 `json:"available_spots,omitempty"`
}
