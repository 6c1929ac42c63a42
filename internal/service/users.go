package service

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/models"
	"estate-workers/internal/store"
)

type UserRepository interface {
	List(ctx context.Context, f models.UserFilter) ([]*models.User, error)
	Toggle(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, monthStart time.Time) (*models.UserStats, error)
}

type UserService struct {
	repo   UserRepository
	logger logger.Logger
	now    func() time.Time
}

func NewUserService(repo UserRepository, log logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"component": "user-service"}),
		now:    time.Now,
	}
}

func (s *UserService) List(ctx context.Context, f models.UserFilter) ([]*models.User, error) {
	if err := validateUserFilter(f); err != nil {
		return nil, err
	}
	f.Limit = NormalizeLimit(f.Limit, DefaultListingLimit, MaxListingLimit)

	users, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_users", err)
	}
	return users, nil
}

// Toggle activates or deactivates an account and returns the new state.
func (s *UserService) Toggle(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, apperrors.NewValidationError("User ID is required")
	}
	active, err := s.repo.Toggle(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, apperrors.NewUserNotFoundError(id)
	}
	if err != nil {
		return false, apperrors.NewQueryExecutionFailedError("toggle_user", err)
	}
	return active, nil
}

// Delete removes the account row for good.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError("User ID is required")
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewUserNotFoundError(id)
	}
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete_user", err)
	}
	s.logger.Info("user deleted", map[string]interface{}{"userId": id})
	return nil
}

func (s *UserService) Stats(ctx context.Context) (*models.UserStats, error) {
	stats, err := s.repo.Stats(ctx, monthStart(s.now()))
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("user_stats", err)
	}
	return stats, nil
}

func validateUserFilter(f models.UserFilter) error {
	switch f.Status {
	case "", models.StatusFilterAll, models.StatusFilterActive, models.StatusFilterInactive:
	default:
		return apperrors.NewValidationError("Unknown status filter: " + f.Status)
	}
	switch f.Profile {
	case "", models.StatusFilterAll, models.ProfileFilterCompleted, models.ProfileFilterIncomplete:
	default:
		return apperrors.NewValidationError("Unknown profile filter: " + f.Profile)
	}
	switch f.Sort {
	case "", models.SortNewest, models.SortOldest:
	default:
		return apperrors.NewValidationError("Unknown sort order: " + f.Sort)
	}
	return nil
}
