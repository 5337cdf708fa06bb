package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/CampusHub-F25/event-service/internal/cache"
	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
)

// activeStatuses are the registration statuses that hold event capacity.
var activeStatuses = []models.RegistrationStatus{
	models.RegistrationPending,
	models.RegistrationApproved,
}

type RegistrationPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewRegistrationPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.RegistrationRepository {
	return &RegistrationPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (r *RegistrationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *RegistrationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	if err := r.getDB(tx).WithContext(ctx).Create(registration).Error; err != nil {
		// Duplicate key surfaces as-is so the service can map it
		return err
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, registration.ID, registration.EventID, registration.UserID)

	return nil
}

func (r *RegistrationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	var registration models.Registration
	if err := r.getDB(tx).WithContext(ctx).First(&registration, id).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// GetByIDWithDetails loads the registration with user and event attached.
func (r *RegistrationPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	var registration models.Registration
	err := r.getDB(tx).WithContext(ctx).
		Preload("User").
		Preload("Event").
		First(&registration, id).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationPostgreSQL) GetByUserAndEvent(ctx context.Context, tx *gorm.DB, userID string, eventID uint) (*models.Registration, error) {
	var registration models.Registration
	err := r.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&registration).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationPostgreSQL) Update(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", registration.ID).
		Updates(map[string]interface{}{
			"status":                registration.Status,
			"registration_date":     registration.RegistrationDate,
			"additional_info":       registration.AdditionalInfo,
			"attendance_status":     registration.AttendanceStatus,
			"feedback_rating":       registration.Feedback.Rating,
			"feedback_comment":      registration.Feedback.Comment,
			"feedback_submitted_at": registration.Feedback.SubmittedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, registration.ID, registration.EventID, registration.UserID)

	return nil
}

func (r *RegistrationPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.RegistrationStatus) error {
	registration, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}

	err = r.getDB(tx).WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, id, registration.EventID, registration.UserID)

	return nil
}

func (r *RegistrationPostgreSQL) SetAttendance(ctx context.Context, tx *gorm.DB, id uint, status models.AttendanceStatus) error {
	registration, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}

	err = r.getDB(tx).WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("attendance_status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update attendance status: %w", err)
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, id, registration.EventID, registration.UserID)

	return nil
}

// SaveFeedback overwrites any previous feedback on the registration.
func (r *RegistrationPostgreSQL) SaveFeedback(ctx context.Context, tx *gorm.DB, id uint, feedback models.Feedback) error {
	registration, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	if feedback.SubmittedAt == nil {
		feedback.SubmittedAt = &now
	}

	err = r.getDB(tx).WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"feedback_rating":       feedback.Rating,
			"feedback_comment":      feedback.Comment,
			"feedback_submitted_at": feedback.SubmittedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, id, registration.EventID, registration.UserID)

	return nil
}

func (r *RegistrationPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	query := r.getDB(tx).WithContext(ctx).
		Model(&models.Registration{}).
		Where("user_id = ?", userID)
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var registrations []*models.Registration
	if err := query.Preload("Event").Find(&registrations).Error; err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

func (r *RegistrationPostgreSQL) ListByEvent(ctx context.Context, tx *gorm.DB, eventID uint, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	query := r.getDB(tx).WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ?", eventID)
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var registrations []*models.Registration
	if err := query.Preload("User").Find(&registrations).Error; err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

// CountActive counts registrations that hold capacity for the event. Always
// reads the database: capacity decisions never come from cache.
func (r *RegistrationPostgreSQL) CountActive(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND status IN ?", eventID, activeStatuses).
		Count(&count).Error
	return count, err
}

func (r *RegistrationPostgreSQL) CountActiveForOrganizer(ctx context.Context, tx *gorm.DB, organizerID string) (int64, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Registration{}).
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("events.organizer_id = ? AND registrations.status IN ?", organizerID, activeStatuses).
		Count(&count).Error
	return count, err
}

func (r *RegistrationPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	registration, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := r.getDB(tx).WithContext(ctx).Delete(&models.Registration{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, id, registration.EventID, registration.UserID)

	return nil
}

func (r *RegistrationPostgreSQL) DeleteByEvent(ctx context.Context, tx *gorm.DB, eventID uint) error {
	err := r.getDB(tx).WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.Registration{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete registrations for event: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, r.cacheManager.Registration, fmt.Sprintf("event:%d:*", eventID))
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Stats, fmt.Sprintf("event:%d:*", eventID))

	return nil
}

func (r *RegistrationPostgreSQL) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	err := r.getDB(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Registration{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete registrations for user: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, r.cacheManager.Registration, fmt.Sprintf("user:%s:*", userID))

	return nil
}

func (r *RegistrationPostgreSQL) applyFilters(query *gorm.DB, filters repositories.RegistrationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	return query
}
