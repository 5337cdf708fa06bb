package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
)

// mockState is the shared in-memory store behind a mockRepository.
type mockState struct {
	users          map[string]*models.User
	events         map[uint]*models.Event
	registrations  map[uint]*models.Registration
	categories     map[uint]*models.Category
	nextEventID    uint
	nextRegID      uint
	nextCategoryID uint
}

// mockRepository is an in-memory Repository. WithTransaction serializes on a
// mutex, which mirrors the row lock the real implementation takes on the
// event during registration.
type mockRepository struct {
	mu    *sync.Mutex
	inTx  bool
	state *mockState
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		mu: &sync.Mutex{},
		state: &mockState{
			users:         make(map[string]*models.User),
			events:        make(map[uint]*models.Event),
			registrations: make(map[uint]*models.Registration),
			categories:    make(map[uint]*models.Category),
		},
	}
}

// lock acquires the store mutex unless we are already inside a transaction.
func (m *mockRepository) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *mockRepository) Event() repositories.EventRepository {
	return &mockEventRepo{m}
}

func (m *mockRepository) Registration() repositories.RegistrationRepository {
	return &mockRegistrationRepo{m}
}

func (m *mockRepository) User() repositories.UserRepository {
	return &mockUserRepo{m}
}

func (m *mockRepository) Category() repositories.CategoryRepository {
	return &mockCategoryRepo{m}
}

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	if m.inTx {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&mockRepository{mu: m.mu, inTx: true, state: m.state})
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// Seeding helpers used by tests. Callers pass fully formed models.

func (m *mockRepository) addUser(user *models.User) *models.User {
	defer m.lock()()
	copied := *user
	m.state.users[user.ID] = &copied
	return user
}

func (m *mockRepository) addEvent(event *models.Event) *models.Event {
	defer m.lock()()
	if event.ID == 0 {
		m.state.nextEventID++
		event.ID = m.state.nextEventID
	} else if event.ID > m.state.nextEventID {
		m.state.nextEventID = event.ID
	}
	copied := *event
	m.state.events[event.ID] = &copied
	return event
}

func (m *mockRepository) addRegistration(registration *models.Registration) *models.Registration {
	defer m.lock()()
	if registration.ID == 0 {
		m.state.nextRegID++
		registration.ID = m.state.nextRegID
	} else if registration.ID > m.state.nextRegID {
		m.state.nextRegID = registration.ID
	}
	copied := *registration
	m.state.registrations[registration.ID] = &copied
	return registration
}

func (m *mockRepository) getRegistration(id uint) *models.Registration {
	defer m.lock()()
	if registration, ok := m.state.registrations[id]; ok {
		copied := *registration
		return &copied
	}
	return nil
}

// ===== EVENTS =====

type mockEventRepo struct{ *mockRepository }

func (r *mockEventRepo) Create(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	defer r.lock()()
	r.state.nextEventID++
	event.ID = r.state.nextEventID
	copied := *event
	r.state.events[event.ID] = &copied
	return nil
}

func (r *mockEventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	defer r.lock()()
	event, ok := r.state.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *mockEventRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	defer r.lock()()
	event, ok := r.state.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *event
	if organizer, ok := r.state.users[event.OrganizerID]; ok {
		copied.Organizer = *organizer
	}
	return &copied, nil
}

func (r *mockEventRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *mockEventRepo) Update(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	defer r.lock()()
	if _, ok := r.state.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *event
	r.state.events[event.ID] = &copied
	return nil
}

func (r *mockEventRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.EventStatus) error {
	defer r.lock()()
	event, ok := r.state.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	event.Status = status
	return nil
}

func (r *mockEventRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	defer r.lock()()
	if _, ok := r.state.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.state.events, id)
	return nil
}

func (r *mockEventRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	defer r.lock()()
	var events []*models.Event
	for _, event := range r.state.events {
		if filters.Status != nil && event.Status != *filters.Status {
			continue
		}
		if filters.OrganizerID != nil && event.OrganizerID != *filters.OrganizerID {
			continue
		}
		copied := *event
		events = append(events, &copied)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, int64(len(events)), nil
}

func (r *mockEventRepo) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	defer r.lock()()
	var events []*models.Event
	for _, event := range r.state.events {
		if query != "" && !strings.Contains(strings.ToLower(event.Title), strings.ToLower(query)) {
			continue
		}
		if filters.Status != nil && event.Status != *filters.Status {
			continue
		}
		if filters.OrganizerID != nil && event.OrganizerID != *filters.OrganizerID {
			continue
		}
		copied := *event
		events = append(events, &copied)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, int64(len(events)), nil
}

func (r *mockEventRepo) GetByOrganizer(ctx context.Context, tx *gorm.DB, organizerID string, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	filters.OrganizerID = &organizerID
	return r.List(ctx, tx, filters)
}

func (r *mockEventRepo) ReplaceCategories(ctx context.Context, tx *gorm.DB, event *models.Event, categories []models.Category) error {
	defer r.lock()()
	stored, ok := r.state.events[event.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Categories = categories
	return nil
}

// ===== REGISTRATIONS =====

type mockRegistrationRepo struct{ *mockRepository }

func (r *mockRegistrationRepo) Create(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	defer r.lock()()
	for _, existing := range r.state.registrations {
		if existing.UserID == registration.UserID && existing.EventID == registration.EventID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.state.nextRegID++
	registration.ID = r.state.nextRegID
	copied := *registration
	r.state.registrations[registration.ID] = &copied
	return nil
}

func (r *mockRegistrationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	defer r.lock()()
	registration, ok := r.state.registrations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *registration
	return &copied, nil
}

func (r *mockRegistrationRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	defer r.lock()()
	registration, ok := r.state.registrations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *registration
	if user, ok := r.state.users[registration.UserID]; ok {
		copied.User = *user
	}
	if event, ok := r.state.events[registration.EventID]; ok {
		copied.Event = *event
	}
	return &copied, nil
}

func (r *mockRegistrationRepo) GetByUserAndEvent(ctx context.Context, tx *gorm.DB, userID string, eventID uint) (*models.Registration, error) {
	defer r.lock()()
	for _, registration := range r.state.registrations {
		if registration.UserID == userID && registration.EventID == eventID {
			copied := *registration
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockRegistrationRepo) Update(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	defer r.lock()()
	if _, ok := r.state.registrations[registration.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *registration
	r.state.registrations[registration.ID] = &copied
	return nil
}

func (r *mockRegistrationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.RegistrationStatus) error {
	defer r.lock()()
	registration, ok := r.state.registrations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	registration.Status = status
	return nil
}

func (r *mockRegistrationRepo) SetAttendance(ctx context.Context, tx *gorm.DB, id uint, status models.AttendanceStatus) error {
	defer r.lock()()
	registration, ok := r.state.registrations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	registration.AttendanceStatus = status
	return nil
}

func (r *mockRegistrationRepo) SaveFeedback(ctx context.Context, tx *gorm.DB, id uint, feedback models.Feedback) error {
	defer r.lock()()
	registration, ok := r.state.registrations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	registration.Feedback = feedback
	return nil
}

func (r *mockRegistrationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	defer r.lock()()
	var registrations []*models.Registration
	for _, registration := range r.state.registrations {
		if registration.UserID != userID {
			continue
		}
		if filters.Status != nil && registration.Status != *filters.Status {
			continue
		}
		copied := *registration
		registrations = append(registrations, &copied)
	}
	sort.Slice(registrations, func(i, j int) bool { return registrations[i].ID < registrations[j].ID })
	return registrations, int64(len(registrations)), nil
}

func (r *mockRegistrationRepo) ListByEvent(ctx context.Context, tx *gorm.DB, eventID uint, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	defer r.lock()()
	var registrations []*models.Registration
	for _, registration := range r.state.registrations {
		if registration.EventID != eventID {
			continue
		}
		if filters.Status != nil && registration.Status != *filters.Status {
			continue
		}
		copied := *registration
		if user, ok := r.state.users[registration.UserID]; ok {
			copied.User = *user
		}
		registrations = append(registrations, &copied)
	}
	sort.Slice(registrations, func(i, j int) bool { return registrations[i].ID < registrations[j].ID })
	return registrations, int64(len(registrations)), nil
}

func (r *mockRegistrationRepo) CountActive(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	defer r.lock()()
	var count int64
	for _, registration := range r.state.registrations {
		if registration.EventID == eventID && registration.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *mockRegistrationRepo) CountActiveForOrganizer(ctx context.Context, tx *gorm.DB, organizerID string) (int64, error) {
	defer r.lock()()
	var count int64
	for _, registration := range r.state.registrations {
		event, ok := r.state.events[registration.EventID]
		if !ok {
			continue
		}
		if event.OrganizerID == organizerID && registration.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *mockRegistrationRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	defer r.lock()()
	if _, ok := r.state.registrations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.state.registrations, id)
	return nil
}

func (r *mockRegistrationRepo) DeleteByEvent(ctx context.Context, tx *gorm.DB, eventID uint) error {
	defer r.lock()()
	for id, registration := range r.state.registrations {
		if registration.EventID == eventID {
			delete(r.state.registrations, id)
		}
	}
	return nil
}

func (r *mockRegistrationRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	defer r.lock()()
	for id, registration := range r.state.registrations {
		if registration.UserID == userID {
			delete(r.state.registrations, id)
		}
	}
	return nil
}

// ===== USERS =====

type mockUserRepo struct{ *mockRepository }

func (r *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	defer r.lock()()
	for _, existing := range r.state.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	copied := *user
	r.state.users[user.ID] = &copied
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	defer r.lock()()
	user, ok := r.state.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	defer r.lock()()
	for _, user := range r.state.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	defer r.lock()()
	if _, ok := r.state.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.state.users[user.ID] = &copied
	return nil
}

func (r *mockUserRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	defer r.lock()()
	if _, ok := r.state.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.state.users, id)
	return nil
}

func (r *mockUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	defer r.lock()()
	var users []*models.User
	for _, user := range r.state.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, int64(len(users)), nil
}

func (r *mockUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	defer r.lock()()
	for _, user := range r.state.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ===== CATEGORIES =====

type mockCategoryRepo struct{ *mockRepository }

func (r *mockCategoryRepo) Create(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	defer r.lock()()
	r.state.nextCategoryID++
	category.ID = r.state.nextCategoryID
	copied := *category
	r.state.categories[category.ID] = &copied
	return nil
}

func (r *mockCategoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Category, error) {
	defer r.lock()()
	category, ok := r.state.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *category
	return &copied, nil
}

func (r *mockCategoryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.Category, error) {
	defer r.lock()()
	var categories []models.Category
	for _, id := range ids {
		if category, ok := r.state.categories[id]; ok {
			categories = append(categories, *category)
		}
	}
	return categories, nil
}

func (r *mockCategoryRepo) Update(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	defer r.lock()()
	if _, ok := r.state.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *category
	r.state.categories[category.ID] = &copied
	return nil
}

func (r *mockCategoryRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	defer r.lock()()
	if _, ok := r.state.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.state.categories, id)
	return nil
}

func (r *mockCategoryRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Category, error) {
	defer r.lock()()
	var categories []*models.Category
	for _, category := range r.state.categories {
		copied := *category
		categories = append(categories, &copied)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *mockCategoryRepo) ExistsByName(ctx context.Context, tx *gorm.DB, name string, excludeID *uint) (bool, error) {
	defer r.lock()()
	for _, category := range r.state.categories {
		if excludeID != nil && category.ID == *excludeID {
			continue
		}
		if strings.EqualFold(category.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
