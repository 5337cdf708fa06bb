package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CampusHub-F25/event-service/internal/cache"
	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
)

type EventPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewEventPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.EventRepository {
	return &EventPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// getDB returns the transaction DB if provided, otherwise the default DB.
func (e *EventPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *EventPostgreSQL) Create(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	if err := e.getDB(tx).WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, e.cacheManager.Event, fmt.Sprintf("organizer:%s:*", event.OrganizerID))
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Event, "list:*")

	return nil
}

// GetByID retrieves an event by ID with caching.
func (e *EventPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var event models.Event

	err := e.cacheManager.Event.CacheOrExecute(ctx, cacheKey, &event, cache.EventCacheConfig.TTL, func() (interface{}, error) {
		var dbEvent models.Event
		if err := e.getDB(tx).WithContext(ctx).First(&dbEvent, id).Error; err != nil {
			return nil, err
		}
		return &dbEvent, nil
	})
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// GetByIDWithDetails retrieves an event with organizer and categories loaded.
func (e *EventPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	cacheKey := fmt.Sprintf("details:%d", id)
	var event models.Event

	err := e.cacheManager.Event.CacheOrExecute(ctx, cacheKey, &event, cache.EventCacheConfig.TTL, func() (interface{}, error) {
		var dbEvent models.Event
		err := e.getDB(tx).WithContext(ctx).
			Preload("Organizer").
			Preload("Categories").
			First(&dbEvent, id).Error
		if err != nil {
			return nil, err
		}
		return &dbEvent, nil
	})
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// GetByIDForUpdate loads the event row with a FOR UPDATE lock. The caller
// must hold a transaction; the lock is released on commit or rollback. Never
// served from cache.
func (e *EventPostgreSQL) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	var event models.Event
	err := e.getDB(tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, id).Error
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (e *EventPostgreSQL) Update(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"title":                 event.Title,
			"description":           event.Description,
			"short_description":     event.ShortDescription,
			"start_date":            event.StartDate,
			"end_date":              event.EndDate,
			"registration_deadline": event.RegistrationDeadline,
			"location":              event.Location,
			"is_virtual":            event.IsVirtual,
			"meeting_link":          event.MeetingLink,
			"max_participants":      event.MaxParticipants,
			"tags":                  event.Tags,
			"image":                 event.Image,
			"requirements":          event.Requirements,
			"status":                event.Status,
			"is_highlighted":        event.IsHighlighted,
			"updated_at":            event.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	cache.InvalidateEventCache(ctx, e.cacheManager, event.ID, event.OrganizerID)

	return nil
}

func (e *EventPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.EventStatus) error {
	result := e.getDB(tx).WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update event status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateEventCache(ctx, e.cacheManager, id, "")

	return nil
}

// Delete hard deletes an event. Registration cleanup is the service's job so
// the whole cascade shares one transaction.
func (e *EventPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	var event models.Event
	if err := e.getDB(tx).WithContext(ctx).Select("id, organizer_id").First(&event, id).Error; err != nil {
		return err
	}

	db := e.getDB(tx).WithContext(ctx)
	if err := db.Model(&event).Association("Categories").Clear(); err != nil {
		return fmt.Errorf("failed to clear event categories: %w", err)
	}
	if err := db.Delete(&models.Event{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	cache.InvalidateEventCache(ctx, e.cacheManager, id, event.OrganizerID)

	return nil
}

// List retrieves events with filters and pagination.
func (e *EventPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	query := e.getDB(tx).WithContext(ctx).Model(&models.Event{})
	query = applyEventFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var events []*models.Event
	if err := query.Preload("Organizer").Preload("Categories").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// Search performs a case-insensitive substring search over title,
// description, location and tags.
func (e *EventPostgreSQL) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	db := e.getDB(tx).WithContext(ctx).Model(&models.Event{})

	if query != "" {
		pattern := "%" + query + "%"
		db = db.Where(
			"events.title ILIKE ? OR events.description ILIKE ? OR events.location ILIKE ? OR events.tags::text ILIKE ?",
			pattern, pattern, pattern, pattern)
	}

	db = applyEventFilters(db, filters)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = applyPaginationAndSort(db, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var events []*models.Event
	if err := db.Preload("Organizer").Preload("Categories").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (e *EventPostgreSQL) GetByOrganizer(ctx context.Context, tx *gorm.DB, organizerID string, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	filters.OrganizerID = &organizerID
	return e.List(ctx, tx, filters)
}

// ReplaceCategories swaps the event's category set.
func (e *EventPostgreSQL) ReplaceCategories(ctx context.Context, tx *gorm.DB, event *models.Event, categories []models.Category) error {
	err := e.getDB(tx).WithContext(ctx).Model(event).Association("Categories").Replace(categories)
	if err != nil {
		return fmt.Errorf("failed to replace event categories: %w", err)
	}

	cache.InvalidateEventCache(ctx, e.cacheManager, event.ID, event.OrganizerID)

	return nil
}
