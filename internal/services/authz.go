package services

import (
	"github.com/CampusHub-F25/event-service/internal/models"
)

// Authorization is decided on in-memory snapshots so every rule is a pure
// function of the actor and the resource. Admins pass every check.

func isAdmin(actor *models.User) bool {
	return actor != nil && actor.Role == models.RoleAdmin
}

// CanCreateEvent reports whether the actor may create events.
func CanCreateEvent(actor *models.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == models.RoleOrganizer || actor.Role == models.RoleAdmin
}

// CanManageEvent reports whether the actor may update or delete the event.
// Organizers manage only their own events.
func CanManageEvent(actor *models.User, event *models.Event) bool {
	if actor == nil || event == nil {
		return false
	}
	if isAdmin(actor) {
		return true
	}
	return actor.Role == models.RoleOrganizer && event.OrganizerID == actor.ID
}

// CanDecideRegistration reports whether the actor may approve or reject
// registrations for the event.
func CanDecideRegistration(actor *models.User, event *models.Event) bool {
	return CanManageEvent(actor, event)
}

// CanViewRegistration reports whether the actor may read the registration.
// The registrant, the event organizer and admins qualify.
func CanViewRegistration(actor *models.User, registration *models.Registration, event *models.Event) bool {
	if actor == nil || registration == nil {
		return false
	}
	if isAdmin(actor) {
		return true
	}
	if registration.UserID == actor.ID {
		return true
	}
	return event != nil && actor.Role == models.RoleOrganizer && event.OrganizerID == actor.ID
}

// CanCancelRegistration reports whether the actor may cancel the
// registration. Only the registrant and admins qualify; organizers reject
// instead of cancelling on behalf of students.
func CanCancelRegistration(actor *models.User, registration *models.Registration) bool {
	if actor == nil || registration == nil {
		return false
	}
	if isAdmin(actor) {
		return true
	}
	return registration.UserID == actor.ID
}

// CanSubmitFeedback reports whether the actor may submit feedback on the
// registration. Feedback is personal: admins cannot submit on behalf of
// someone else.
func CanSubmitFeedback(actor *models.User, registration *models.Registration) bool {
	if actor == nil || registration == nil {
		return false
	}
	return registration.UserID == actor.ID
}

// CanMarkAttendance reports whether the actor may record attendance for
// registrations of the event.
func CanMarkAttendance(actor *models.User, event *models.Event) bool {
	return CanManageEvent(actor, event)
}

// CanExportRegistrations reports whether the actor may export the event's
// registration list.
func CanExportRegistrations(actor *models.User, event *models.Event) bool {
	return CanManageEvent(actor, event)
}

// CanManageUsers reports whether the actor may list, update or delete other
// user accounts.
func CanManageUsers(actor *models.User) bool {
	return isAdmin(actor)
}

// CanViewUser reports whether the actor may read the target user's account.
func CanViewUser(actor *models.User, targetID string) bool {
	if actor == nil {
		return false
	}
	return isAdmin(actor) || actor.ID == targetID
}

// CanManageCategories reports whether the actor may create, update or delete
// categories. Reading the category list is public.
func CanManageCategories(actor *models.User) bool {
	return isAdmin(actor)
}
