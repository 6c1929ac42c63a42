package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/models"
	"estate-workers/internal/store"
)

type ArtItemRepository interface {
	List(ctx context.Context, f models.ArtItemFilter) ([]*models.ArtItem, error)
	Create(ctx context.Context, a *models.ArtItem) error
	Update(ctx context.Context, a *models.ArtItem) (*models.ArtItem, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.ArtItemStats, error)
}

type ArtItemService struct {
	repo   ArtItemRepository
	logger logger.Logger
	newID  func() string
	now    func() time.Time
}

func NewArtItemService(repo ArtItemRepository, log logger.Logger) *ArtItemService {
	return &ArtItemService{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"component": "art-item-service"}),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

func (s *ArtItemService) List(ctx context.Context, f models.ArtItemFilter) ([]*models.ArtItem, error) {
	f.Limit = NormalizeLimit(f.Limit, DefaultListingLimit, MaxListingLimit)
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_art_items", err)
	}
	return items, nil
}

// Add catalogues a new piece. At least one image is required; views and rating start at zero.
func (s *ArtItemService) Add(ctx context.Context, a models.ArtItem) (*models.ArtItem, error) {
	if a.Status == "" {
		a.Status = models.ArtStatusActive
	}
	if err := validateArtItem(a); err != nil {
		return nil, err
	}
	if len(a.Images) == 0 {
		return nil, apperrors.NewArtItemValidationError("At least one image is required")
	}

	now := s.now().UTC()
	a.ID = s.newID()
	a.Views = 0
	a.Rating = 0
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("create_art_item", err)
	}
	return &a, nil
}

// Update replaces the editable fields of a piece. Without new images the stored ones are kept.
func (s *ArtItemService) Update(ctx context.Context, a models.ArtItem) (*models.ArtItem, error) {
	if strings.TrimSpace(a.ID) == "" {
		return nil, apperrors.NewArtItemValidationError("Item ID is required")
	}
	if a.Status == "" {
		a.Status = models.ArtStatusActive
	}
	if err := validateArtItem(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, &a)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewArtItemNotFoundError(a.ID)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("update_art_item", err)
	}
	return updated, nil
}

func (s *ArtItemService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewArtItemValidationError("Item ID is required")
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewArtItemNotFoundError(id)
	}
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete_art_item", err)
	}
	return nil
}

func (s *ArtItemService) Stats(ctx context.Context) (*models.ArtItemStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("art_item_stats", err)
	}
	return stats, nil
}

func validateArtItem(a models.ArtItem) error {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"title", a.Title},
		{"category", a.Category},
		{"artist", a.Artist},
		{"description", a.Description},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewArtItemValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}
	if a.Price < 0 {
		return apperrors.NewArtItemValidationError("Price must not be negative")
	}
	return nil
}
