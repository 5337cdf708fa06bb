package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

type categoryService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCategoryService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) CategoryService {
	return &categoryService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest, actorID string) (*models.Category, error) {
	s.logger.Info("creating category", "name", req.Name, "user_id", actorID)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanManageCategories(actor) {
		return nil, NewPermissionError(actor.ID, 0, "category", "create", "only admins can manage categories")
	}

	taken, err := s.repo.Category().ExistsByName(ctx, nil, req.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		return nil, NewConflictError("a category with this name already exists", map[string]interface{}{"name": req.Name})
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := s.repo.Category().Create(ctx, nil, category); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError("a category with this name already exists", map[string]interface{}{"name": req.Name})
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, categoryID uint) (*models.Category, error) {
	category, err := s.repo.Category().GetByID(ctx, nil, categoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID uint, req *UpdateCategoryRequest, actorID string) (*models.Category, error) {
	s.logger.Info("updating category", "category_id", categoryID, "user_id", actorID)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanManageCategories(actor) {
		return nil, NewPermissionError(actor.ID, categoryID, "category", "update", "only admins can manage categories")
	}

	category, err := s.repo.Category().GetByID(ctx, nil, categoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Name != nil && *req.Name != category.Name {
		taken, err := s.repo.Category().ExistsByName(ctx, nil, *req.Name, &categoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
		if taken {
			return nil, NewConflictError("a category with this name already exists", map[string]interface{}{"name": *req.Name})
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.Icon != nil {
		category.Icon = req.Icon
	}

	if err := s.repo.Category().Update(ctx, nil, category); err != nil {
		return nil, err
	}

	return s.repo.Category().GetByID(ctx, nil, categoryID)
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID uint, actorID string) error {
	s.logger.Info("deleting category", "category_id", categoryID, "user_id", actorID)

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return err
	}
	if !CanManageCategories(actor) {
		return NewPermissionError(actor.ID, categoryID, "category", "delete", "only admins can manage categories")
	}

	if err := s.repo.Category().Delete(ctx, nil, categoryID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCategoryNotFound
		}
		return err
	}

	return nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.repo.Category().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
