package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/CampusHub-F25/event-service/internal/events"
	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

type eventFixture struct {
	service   EventService
	repo      *mockRepository
	publisher *events.MockEventPublisher
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewEventService(repo, nil, testLogger(), validator.New(), publisher)
	return &eventFixture{service: service, repo: repo, publisher: publisher}
}

func validCreateRequest() *CreateEventRequest {
	now := time.Now()
	return &CreateEventRequest{
		Title:                "Hackathon",
		Description:          "24 hours of building",
		StartDate:            now.Add(72 * time.Hour),
		EndDate:              now.Add(96 * time.Hour),
		RegistrationDeadline: now.Add(48 * time.Hour),
		Location:             "Main Hall",
		MaxParticipants:      100,
	}
}

func TestCreateEvent(t *testing.T) {
	f := newEventFixture(t)
	organizer := f.repo.addUser(testUser("org-1", models.RoleOrganizer))

	resp, err := f.service.CreateEvent(context.Background(), validCreateRequest(), organizer.ID)
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if resp.ID == 0 {
		t.Error("event ID was not assigned")
	}
	if resp.Status != models.EventPublished {
		t.Errorf("status = %s, want published (default)", resp.Status)
	}
	if resp.OrganizerID != organizer.ID {
		t.Errorf("organizer_id = %s, want %s", resp.OrganizerID, organizer.ID)
	}

	published := f.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventPublished {
		t.Errorf("published = %+v, want one event.published", published)
	}
}

func TestCreateEventStudentDenied(t *testing.T) {
	f := newEventFixture(t)
	student := f.repo.addUser(testUser("student-1", models.RoleStudent))

	_, err := f.service.CreateEvent(context.Background(), validCreateRequest(), student.ID)

	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("err = %v, want PermissionError", err)
	}
}

func TestCreateEventScheduleValidation(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))

	req := validCreateRequest()
	req.EndDate = req.StartDate.Add(-time.Hour)

	_, err := f.service.CreateEvent(context.Background(), req, "org-1")

	var valErrs ValidationErrors
	if !errors.As(err, &valErrs) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
}

func TestCreateEventDeadlineAfterStart(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))

	req := validCreateRequest()
	req.RegistrationDeadline = req.StartDate.Add(time.Hour)

	_, err := f.service.CreateEvent(context.Background(), req, "org-1")

	var valErrs ValidationErrors
	if !errors.As(err, &valErrs) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
}

func TestCreateEventVirtualRequiresMeetingLink(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))

	req := validCreateRequest()
	req.IsVirtual = true

	_, err := f.service.CreateEvent(context.Background(), req, "org-1")

	var valErrs ValidationErrors
	if !errors.As(err, &valErrs) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}

	link := "https://meet.campus.edu/hackathon"
	req.MeetingLink = &link
	if _, err := f.service.CreateEvent(context.Background(), req, "org-1"); err != nil {
		t.Fatalf("CreateEvent with meeting link failed: %v", err)
	}
}

func TestCreateEventUnknownCategory(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))

	req := validCreateRequest()
	req.CategoryIDs = []uint{42}

	_, err := f.service.CreateEvent(context.Background(), req, "org-1")

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestCreateEventDraftStaysSilent(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))

	draft := models.EventDraft
	req := validCreateRequest()
	req.Status = &draft

	resp, err := f.service.CreateEvent(context.Background(), req, "org-1")
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if resp.Status != models.EventDraft {
		t.Errorf("status = %s, want draft", resp.Status)
	}
	if got := len(f.publisher.GetPublishedEvents()); got != 0 {
		t.Errorf("published %d events for a draft, want 0", got)
	}
}

func TestUpdateEventOwnership(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	f.repo.addUser(testUser("org-2", models.RoleOrganizer))
	f.repo.addUser(testUser("admin-1", models.RoleAdmin))
	event := f.repo.addEvent(testEvent(1, "org-1", 10))

	title := "Renamed"
	req := &UpdateEventRequest{Title: &title}

	var permErr *PermissionError
	if _, err := f.service.UpdateEvent(context.Background(), event.ID, req, "org-2"); !errors.As(err, &permErr) {
		t.Errorf("foreign organizer update: err = %v, want PermissionError", err)
	}

	resp, err := f.service.UpdateEvent(context.Background(), event.ID, req, "admin-1")
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if resp.Title != "Renamed" {
		t.Errorf("title = %s, want Renamed", resp.Title)
	}
}

func TestUpdateEventCapacityShrink(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	event := f.repo.addEvent(testEvent(1, "org-1", 10))
	for i, status := range []models.RegistrationStatus{
		models.RegistrationPending,
		models.RegistrationApproved,
		models.RegistrationCancelled,
	} {
		f.repo.addRegistration(&models.Registration{
			UserID:  "student-" + string(rune('a'+i)),
			EventID: event.ID,
			Status:  status,
		})
	}

	// Two registrations hold capacity; shrinking below that is refused.
	tooSmall := 1
	_, err := f.service.UpdateEvent(context.Background(), event.ID, &UpdateEventRequest{MaxParticipants: &tooSmall}, "org-1")
	var ruleErr *BusinessRuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("err = %v, want BusinessRuleError", err)
	}
	if ruleErr.Rule != "capacity_below_active" {
		t.Errorf("rule = %s, want capacity_below_active", ruleErr.Rule)
	}

	exact := 2
	resp, err := f.service.UpdateEvent(context.Background(), event.ID, &UpdateEventRequest{MaxParticipants: &exact}, "org-1")
	if err != nil {
		t.Fatalf("shrink to active count failed: %v", err)
	}
	if resp.MaxParticipants != 2 {
		t.Errorf("max_participants = %d, want 2", resp.MaxParticipants)
	}
}

// A capacity shrink racing a burst of registrations serializes on the event
// row lock, so the ledger never ends up over the final capacity.
func TestUpdateEventCapacityShrinkConcurrent(t *testing.T) {
	repo := newMockRepository()
	eventSvc := NewEventService(repo, nil, testLogger(), validator.New(), nil)
	regSvc := NewRegistrationService(repo, nil, testLogger(), validator.New(), nil)

	repo.addUser(testUser("org-1", models.RoleOrganizer))
	event := repo.addEvent(testEvent(1, "org-1", 10))

	const students = 8
	userIDs := make([]string, students)
	for i := range userIDs {
		userIDs[i] = "racer-" + string(rune('a'+i))
		repo.addUser(testUser(userIDs[i], models.RoleStudent))
	}

	shrunk := 3
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := eventSvc.UpdateEvent(context.Background(), event.ID, &UpdateEventRequest{MaxParticipants: &shrunk}, "org-1")
		var ruleErr *BusinessRuleError
		if err != nil && !errors.As(err, &ruleErr) {
			t.Errorf("shrink failed unexpectedly: %v", err)
		}
	}()
	for _, userID := range userIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := regSvc.Register(context.Background(), event.ID, &RegisterRequest{}, id)
			var fullErr *EventFullError
			if err != nil && !errors.As(err, &fullErr) {
				t.Errorf("register failed unexpectedly: %v", err)
			}
		}(userID)
	}
	wg.Wait()

	stored, err := repo.Event().GetByID(context.Background(), nil, event.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	active, err := repo.Registration().CountActive(context.Background(), nil, event.ID)
	if err != nil {
		t.Fatalf("CountActive failed: %v", err)
	}
	if stored.MaxParticipants > 0 && active > int64(stored.MaxParticipants) {
		t.Errorf("active registrations = %d exceed capacity %d", active, stored.MaxParticipants)
	}
}

func TestPublishEvent(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	event := testEvent(1, "org-1", 10)
	event.Status = models.EventDraft
	f.repo.addEvent(event)

	resp, err := f.service.PublishEvent(context.Background(), event.ID, "org-1")
	if err != nil {
		t.Fatalf("PublishEvent failed: %v", err)
	}
	if resp.Status != models.EventPublished {
		t.Errorf("status = %s, want published", resp.Status)
	}
	if got := len(f.publisher.GetPublishedEvents()); got != 1 {
		t.Fatalf("published %d events, want 1", got)
	}

	// Publishing again is a no-op and publishes nothing new.
	if _, err := f.service.PublishEvent(context.Background(), event.ID, "org-1"); err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if got := len(f.publisher.GetPublishedEvents()); got != 1 {
		t.Errorf("published %d events after no-op, want 1", got)
	}
}

func TestPublishCancelledEvent(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	event := testEvent(1, "org-1", 10)
	event.Status = models.EventCancelled
	f.repo.addEvent(event)

	_, err := f.service.PublishEvent(context.Background(), event.ID, "org-1")

	var ruleErr *BusinessRuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("err = %v, want BusinessRuleError", err)
	}
	if ruleErr.Rule != "event_not_draft" {
		t.Errorf("rule = %s, want event_not_draft", ruleErr.Rule)
	}
}

func TestDeleteEventCascadesRegistrations(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	event := f.repo.addEvent(testEvent(1, "org-1", 10))
	registration := f.repo.addRegistration(&models.Registration{
		UserID:  "student-1",
		EventID: event.ID,
		Status:  models.RegistrationApproved,
	})

	if err := f.service.DeleteEvent(context.Background(), event.ID, "org-1"); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	if _, err := f.service.GetEvent(context.Background(), event.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("GetEvent after delete: err = %v, want ErrEventNotFound", err)
	}
	if f.repo.getRegistration(registration.ID) != nil {
		t.Error("registration survived event deletion")
	}
}

func TestGetEventCounts(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	event := f.repo.addEvent(testEvent(1, "org-1", 5))
	for i, status := range []models.RegistrationStatus{
		models.RegistrationPending,
		models.RegistrationApproved,
		models.RegistrationRejected,
		models.RegistrationCancelled,
	} {
		f.repo.addRegistration(&models.Registration{
			UserID:  "student-" + string(rune('a'+i)),
			EventID: event.ID,
			Status:  status,
		})
	}

	resp, err := f.service.GetEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	// Only pending and approved hold a spot.
	if resp.RegistrationCount != 2 {
		t.Errorf("registration_count = %d, want 2", resp.RegistrationCount)
	}
	if resp.AvailableSpots == nil || *resp.AvailableSpots != 3 {
		t.Errorf("available_spots = %v, want 3", resp.AvailableSpots)
	}
}

func TestListEvents(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	f.repo.addEvent(testEvent(1, "org-1", 10))
	f.repo.addEvent(testEvent(2, "org-1", 10))
	f.repo.addEvent(testEvent(3, "org-1", 10))

	draft := testEvent(4, "org-1", 10)
	draft.Status = models.EventDraft
	f.repo.addEvent(draft)
	cancelled := testEvent(5, "org-1", 10)
	cancelled.Status = models.EventCancelled
	f.repo.addEvent(cancelled)

	page, err := f.service.ListEvents(context.Background(), &models.ListEventsParams{})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("total = %d, want 3 (published only)", page.Total)
	}
	if page.Page != 1 {
		t.Errorf("page = %d, want 1", page.Page)
	}
	if page.Pages != 1 {
		t.Errorf("pages = %d, want 1", page.Pages)
	}
	for _, resp := range page.Data.([]*models.EventResponse) {
		if resp.Status != models.EventPublished {
			t.Errorf("event %d has status %s in the public listing", resp.ID, resp.Status)
		}
	}
}

// The public listing never serves drafts, even when asked for them; a
// requested cancelled filter is honored.
func TestListEventsStatusFilter(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	f.repo.addEvent(testEvent(1, "org-1", 10))
	draft := testEvent(2, "org-1", 10)
	draft.Status = models.EventDraft
	f.repo.addEvent(draft)
	cancelled := testEvent(3, "org-1", 10)
	cancelled.Status = models.EventCancelled
	f.repo.addEvent(cancelled)

	page, err := f.service.ListEvents(context.Background(), &models.ListEventsParams{Status: models.EventDraft})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("total = %d, want 1", page.Total)
	}
	if got := page.Data.([]*models.EventResponse)[0].Status; got != models.EventPublished {
		t.Errorf("status filter draft returned %s, want published", got)
	}

	page, err = f.service.ListEvents(context.Background(), &models.ListEventsParams{Status: models.EventCancelled})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("total = %d, want 1 cancelled event", page.Total)
	}
}

func TestSearchEventsExcludesDrafts(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	f.repo.addEvent(testEvent(1, "org-1", 10))
	draft := testEvent(2, "org-1", 10)
	draft.Status = models.EventDraft
	f.repo.addEvent(draft)

	page, err := f.service.ListEvents(context.Background(), &models.ListEventsParams{Search: "Tech"})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("total = %d, want 1 (search must skip drafts)", page.Total)
	}
}

// Organizers still see their own drafts through the organizer listing.
func TestListEventsByOrganizerIncludesDrafts(t *testing.T) {
	f := newEventFixture(t)
	f.repo.addUser(testUser("org-1", models.RoleOrganizer))
	f.repo.addEvent(testEvent(1, "org-1", 10))
	draft := testEvent(2, "org-1", 10)
	draft.Status = models.EventDraft
	f.repo.addEvent(draft)

	page, err := f.service.ListEventsByOrganizer(context.Background(), "org-1", &models.ListEventsParams{})
	if err != nil {
		t.Fatalf("ListEventsByOrganizer failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("total = %d, want 2 (drafts included for the organizer)", page.Total)
	}
}
