package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/CampusHub-F25/event-service/internal/cache"
	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
)

type CategoryPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCategoryPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CategoryRepository {
	return &CategoryPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (c *CategoryPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CategoryPostgreSQL) Create(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	if err := c.getDB(tx).WithContext(ctx).Create(category).Error; err != nil {
		return err
	}

	cache.SafeInvalidatePattern(ctx, c.cacheManager.Category, "list:*")

	return nil
}

func (c *CategoryPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Category, error) {
	var category models.Category
	if err := c.getDB(tx).WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *CategoryPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var categories []models.Category
	if err := c.getDB(tx).WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *CategoryPostgreSQL) Update(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	err := c.getDB(tx).WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
			"icon":        category.Icon,
			"updated_at":  category.UpdatedAt,
		}).Error
	if err != nil {
		return err
	}

	cache.InvalidateCategoryCache(ctx, c.cacheManager, category.ID)

	return nil
}

func (c *CategoryPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	var category models.Category
	if err := c.getDB(tx).WithContext(ctx).First(&category, id).Error; err != nil {
		return err
	}

	db := c.getDB(tx).WithContext(ctx)
	if err := db.Model(&category).Association("Events").Clear(); err != nil {
		return fmt.Errorf("failed to detach category from events: %w", err)
	}
	if err := db.Delete(&models.Category{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	cache.InvalidateCategoryCache(ctx, c.cacheManager, id)

	return nil
}

// List returns all categories, cached since the set is small and stable.
func (c *CategoryPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Category, error) {
	var categories []*models.Category

	err := c.cacheManager.Category.CacheOrExecute(ctx, "list:all", &categories, cache.CategoryCacheConfig.TTL, func() (interface{}, error) {
		var dbCategories []*models.Category
		if err := c.getDB(tx).WithContext(ctx).Order("name ASC").Find(&dbCategories).Error; err != nil {
			return nil, err
		}
		return dbCategories, nil
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *CategoryPostgreSQL) ExistsByName(ctx context.Context, tx *gorm.DB, name string, excludeID *uint) (bool, error) {
	query := c.getDB(tx).WithContext(ctx).
		Model(&models.Category{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
