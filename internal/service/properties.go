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

const (
	DefaultListingLimit = 50
	MaxListingLimit     = 500
)

type PropertyRepository interface {
	List(ctx context.Context, f models.PropertyFilter) ([]*models.Property, error)
	Create(ctx context.Context, p *models.Property) error
	Update(ctx context.Context, p *models.Property) (*models.Property, error)
	Toggle(ctx context.Context, id string) (bool, error)
	Deactivate(ctx context.Context, id string) error
	Stats(ctx context.Context, monthStart time.Time) (*models.PropertyStats, error)
}

// InAppFeed receives the cards announcing new listings.
type InAppFeed interface {
	Create(ctx context.Context, n *models.InAppNotification) error
}

type PropertyService struct {
	repo   PropertyRepository
	feed   InAppFeed
	logger logger.Logger
	newID  func() string
	now    func() time.Time
}

// NewPropertyService wires the repository with an optional in-app feed.
func NewPropertyService(repo PropertyRepository, feed InAppFeed, log logger.Logger) *PropertyService {
	return &PropertyService{
		repo:   repo,
		feed:   feed,
		logger: log.WithFields(map[string]interface{}{"component": "property-service"}),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// List returns listings newest first. An empty status lists active ones, "all" lists every listing.
func (s *PropertyService) List(ctx context.Context, f models.PropertyFilter) ([]*models.Property, error) {
	switch f.Status {
	case "", models.StatusFilterAll, models.StatusFilterActive, models.StatusFilterInactive, models.StatusFilterPending:
	default:
		return nil, apperrors.NewPropertyValidationError("Unknown status filter: " + f.Status)
	}
	f.Limit = NormalizeLimit(f.Limit, DefaultListingLimit, MaxListingLimit)

	properties, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_properties", err)
	}
	return properties, nil
}

// Add stores a new admin listing and announces it in the in-app feed.
// A failed announcement is logged; the listing stays.
func (s *PropertyService) Add(ctx context.Context, p models.Property) (*models.Property, error) {
	if missing := missingPropertyFields(p); len(missing) > 0 {
		return nil, apperrors.NewPropertyValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}

	now := s.now().UTC()
	p.ID = s.newID()
	if p.UserID == "" {
		p.UserID = models.AdminUserID
	}
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("create_property", err)
	}
	s.announce(ctx, &p, now)
	return &p, nil
}

// Update replaces the editable fields of an existing listing.
func (s *PropertyService) Update(ctx context.Context, p models.Property) (*models.Property, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, apperrors.NewPropertyValidationError("Property ID is required")
	}
	if missing := missingPropertyFields(p); len(missing) > 0 {
		return nil, apperrors.NewPropertyValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}
	p.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, &p)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewPropertyNotFoundError(p.ID)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("update_property", err)
	}
	return updated, nil
}

// Toggle flips whether a listing is shown in the app and returns the new state.
func (s *PropertyService) Toggle(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, apperrors.NewPropertyValidationError("Property ID is required")
	}
	active, err := s.repo.Toggle(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, apperrors.NewPropertyNotFoundError(id)
	}
	if err != nil {
		return false, apperrors.NewQueryExecutionFailedError("toggle_property", err)
	}
	return active, nil
}

// Delete hides a listing; the row is kept.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewPropertyValidationError("Property ID is required")
	}
	err := s.repo.Deactivate(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewPropertyNotFoundError(id)
	}
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete_property", err)
	}
	return nil
}

func (s *PropertyService) Stats(ctx context.Context) (*models.PropertyStats, error) {
	stats, err := s.repo.Stats(ctx, monthStart(s.now()))
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("property_stats", err)
	}
	return stats, nil
}

func (s *PropertyService) announce(ctx context.Context, p *models.Property, now time.Time) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Create(ctx, models.NewPropertyAnnouncement(s.newID(), p, now)); err != nil {
		s.logger.Warn("failed to create in-app notification for property", map[string]interface{}{
			"propertyId": p.ID,
			"error":      err.Error(),
		})
	}
}

func missingPropertyFields(p models.Property) []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"propertyLooking", p.PropertyLooking},
		{"category", p.Category},
		{"propertyType", p.PropertyType},
		{"city", p.City},
		{"locality", p.Locality},
		{"expectedPrice", p.ExpectedPrice},
		{"contactName", p.ContactName},
		{"contactPhone", p.ContactPhone},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// monthStart is midnight on the first day of t's month, in t's location.
func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
