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
	DefaultProjectLimit = 10
	MaxProjectLimit     = 100
	statusAll           = "all"
)

type ProjectRepository interface {
	List(ctx context.Context, status string, limit int) ([]*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.ProjectStats, error)
}

// ProjectSearch is the full-text index kept alongside the repository.
type ProjectSearch interface {
	Index(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, text, status string, limit int) ([]*models.Project, error)
}

type ProjectQuery struct {
	Status string
	Text   string
	Limit  int
}

type ProjectService struct {
	repo   ProjectRepository
	search ProjectSearch
	logger logger.Logger
	newID  func() string
	now    func() time.Time
}

// NewProjectService wires the repository with an optional search index.
func NewProjectService(repo ProjectRepository, search ProjectSearch, log logger.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		search: search,
		logger: log.WithFields(map[string]interface{}{"component": "project-service"}),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// List returns projects newest first. A non-empty Text is served from the search index.
func (s *ProjectService) List(ctx context.Context, q ProjectQuery) ([]*models.Project, error) {
	status := q.Status
	if status == statusAll {
		status = ""
	}
	limit := NormalizeLimit(q.Limit, DefaultProjectLimit, MaxProjectLimit)

	if strings.TrimSpace(q.Text) != "" {
		if s.search == nil {
			return nil, apperrors.NewSearchQueryFailedError("project_search", errors.New("search index not configured"))
		}
		projects, err := s.search.Search(ctx, q.Text, status, limit)
		if err != nil {
			return nil, apperrors.NewSearchQueryFailedError("project_search", err)
		}
		return projects, nil
	}

	projects, err := s.repo.List(ctx, status, limit)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_projects", err)
	}
	return projects, nil
}

// Add stores a new project and indexes it.
func (s *ProjectService) Add(ctx context.Context, p models.Project) (*models.Project, error) {
	if missing := missingProjectFields(p); len(missing) > 0 {
		return nil, apperrors.NewProjectValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}

	now := s.now().UTC()
	p.ID = s.newID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("create_project", err)
	}
	s.index(ctx, &p)
	return &p, nil
}

// Update changes only the fields set in patch.
func (s *ProjectService) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewProjectValidationError("Project ID is required")
	}

	p, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewProjectNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("update_project", err)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewProjectValidationError("Project ID is required")
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewProjectNotFoundError(id)
	}
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete_project", err)
	}

	if s.search != nil {
		if err := s.search.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to remove project from search index", map[string]interface{}{
				"projectId": id,
				"error":     err.Error(),
			})
		}
	}
	return nil
}

func (s *ProjectService) Stats(ctx context.Context) (*models.ProjectStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("project_stats", err)
	}
	return stats, nil
}

func (s *ProjectService) index(ctx context.Context, p *models.Project) {
	if s.search == nil {
		return
	}
	if err := s.search.Index(ctx, p); err != nil {
		s.logger.Warn("failed to index project", map[string]interface{}{
			"projectId": p.ID,
			"error":     err.Error(),
		})
	}
}

func missingProjectFields(p models.Project) []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"title", p.Title},
		{"price", p.Price},
		{"address", p.Address},
		{"flatSize", p.FlatSize},
		{"builder", p.Builder},
		{"status", p.Status},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// NormalizeLimit applies def to non-positive limits and caps the rest at max.
func NormalizeLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
