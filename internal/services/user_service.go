package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CampusHub-F25/event-service/internal/config"
	"github.com/CampusHub-F25/event-service/internal/models"
	"github.com/CampusHub-F25/event-service/internal/repositories"
	"github.com/CampusHub-F25/event-service/internal/utils"
	"github.com/CampusHub-F25/event-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	jwtConfig config.JWTConfig
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, jwtConfig config.JWTConfig) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		jwtConfig: jwtConfig,
	}
}

// Signup creates an account and returns a signed token. Admin accounts are
// never self-service; the role is limited to student or organizer.
func (s *userService) Signup(ctx context.Context, req *SignupRequest) (*models.AuthResponse, error) {
	s.logger.Info("signing up user", "email", req.Email)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: string(hash),
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateToken(user, s.jwtConfig)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*models.AuthResponse, error) {
	s.logger.Info("logging in user", "email", req.Email)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user, s.jwtConfig)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *userService) GetUser(ctx context.Context, userID, actorID string) (*models.User, error) {
	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	if !CanViewUser(actor, userID) {
		return nil, NewPermissionError(actor.ID, userID, "user", "view", "cannot view another user's account")
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateUser patches the user's profile. Role changes are admin only.
func (s *userService) UpdateUser(ctx context.Context, userID string, req *UpdateUserRequest, actorID string) (*models.User, error) {
	s.logger.Info("updating user", "target_id", userID, "user_id", actorID)

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	if !CanViewUser(actor, userID) {
		return nil, NewPermissionError(actor.ID, userID, "user", "update", "cannot update another user's account")
	}
	if req.Role != nil && !CanManageUsers(actor) {
		return nil, NewPermissionError(actor.ID, userID, "user", "change_role", "only admins can change roles")
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	applyUserUpdates(user, req)

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, err
	}

	return s.repo.User().GetByID(ctx, nil, userID)
}

// DeleteUser removes the account, its registrations and its events. The
// deletion is refused while any of the user's events still has active
// registrations, so participants are never silently dropped.
func (s *userService) DeleteUser(ctx context.Context, userID, actorID string) error {
	s.logger.Info("deleting user", "target_id", userID, "user_id", actorID)

	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return err
	}

	if !CanManageUsers(actor) {
		return NewPermissionError(actor.ID, userID, "user", "delete", "only admins can delete accounts")
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		activeCount, err := txRepo.Registration().CountActiveForOrganizer(ctx, nil, user.ID)
		if err != nil {
			return fmt.Errorf("failed to count organizer registrations: %w", err)
		}
		if activeCount > 0 {
			return NewConflictError("user's events still have active registrations", map[string]interface{}{
				"user_id":      user.ID,
				"active_count": activeCount,
			})
		}

		ownedEvents, _, err := txRepo.Event().GetByOrganizer(ctx, nil, user.ID, repositories.EventFilters{})
		if err != nil {
			return fmt.Errorf("failed to list owned events: %w", err)
		}
		for _, event := range ownedEvents {
			if err := txRepo.Registration().DeleteByEvent(ctx, nil, event.ID); err != nil {
				return err
			}
			if err := txRepo.Event().Delete(ctx, nil, event.ID); err != nil {
				return err
			}
		}

		if err := txRepo.Registration().DeleteByUser(ctx, nil, user.ID); err != nil {
			return err
		}
		return txRepo.User().Delete(ctx, nil, user.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", "target_id", userID, "user_id", actor.ID)

	return nil
}

func (s *userService) ListUsers(ctx context.Context, params *models.ListUsersParams, actorID string) (*models.PaginatedResponse, error) {
	actor, err := getActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	if !CanManageUsers(actor) {
		return nil, NewPermissionError(actor.ID, "", "user", "list", "only admins can list users")
	}

	page, limit, offset := normalizePagination(params.Page, params.Limit)
	filters := repositories.UserFilters{
		Search: params.Search,
		Limit:  limit,
		Offset: offset,
	}
	if params.Role != "" {
		filters.Role = &params.Role
	}

	users, total, err := s.repo.User().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return models.NewPaginatedResponse(users, total, page, limit), nil
}

func applyUserUpdates(user *models.User, req *UpdateUserRequest) {
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.College != nil {
		user.College = req.College
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.Year != nil {
		user.Year = req.Year
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}
}
