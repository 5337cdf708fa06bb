package validator

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CampusHub-F25/event-service/internal/models"
)

// BusinessValidator handles event-domain rule validation beyond struct tags.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validate: validator.New()}
}

// Validate validates struct tags for any request type.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateEventCreate validates event creation rules: struct tags plus the
// date ordering and virtual-event constraints.
func (bv *BusinessValidator) ValidateEventCreate(req *models.EventCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	errors = append(errors, bv.validateSchedule(req.StartDate, req.EndDate, req.RegistrationDeadline)...)

	if req.IsVirtual && (req.MeetingLink == nil || strings.TrimSpace(*req.MeetingLink) == "") {
		errors = append(errors, ValidationError{
			Field:   "meeting_link",
			Message: "is required for virtual events",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateEventUpdate validates an update request against the merged result.
// merged is the existing event with the patch already applied.
func (bv *BusinessValidator) ValidateEventUpdate(req *models.EventUpdateRequest, merged *models.Event) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	errors = append(errors, bv.validateSchedule(merged.StartDate, merged.EndDate, merged.RegistrationDeadline)...)

	if merged.IsVirtual && (merged.MeetingLink == nil || strings.TrimSpace(*merged.MeetingLink) == "") {
		errors = append(errors, ValidationError{
			Field:   "meeting_link",
			Message: "is required for virtual events",
			Rule:    "business_logic",
		})
	}

	if merged.MaxParticipants < 0 {
		errors = append(errors, ValidationError{
			Field:   "max_participants",
			Message: "cannot be negative",
			Value:   merged.MaxParticipants,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateFeedback bounds the rating to 1..5 inclusive.
func (bv *BusinessValidator) ValidateFeedback(rating int, comment *string) ValidationErrors {
	var errors ValidationErrors

	if rating < 1 || rating > 5 {
		errors = append(errors, ValidationError{
			Field:   "rating",
			Message: "must be between 1 and 5",
			Value:   rating,
			Rule:    "business_logic",
		})
	}

	if comment != nil && len(*comment) > 500 {
		errors = append(errors, ValidationError{
			Field:   "comment",
			Message: "must be at most 500 characters",
			Rule:    "business_logic",
		})
	}

	return errors
}

func (bv *BusinessValidator) validateSchedule(start, end, deadline time.Time) ValidationErrors {
	var errors ValidationErrors

	if end.Before(start) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "cannot be before start date",
			Value:   end,
			Rule:    "business_logic",
		})
	}

	if deadline.After(start) {
		errors = append(errors, ValidationError{
			Field:   "registration_deadline",
			Message: "cannot be after event start date",
			Value:   deadline,
			Rule:    "business_logic",
		})
	}

	return errors
}
