package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"estate-workers/internal/models"
)

const projectColumns = `id, title, COALESCE(description, ''), price, address, flat_size, builder, status,
	COALESCE(image_url, ''), COALESCE(launch_date, ''), COALESCE(completion_date, ''), created_at, updated_at`

// ProjectStore persists upcoming projects.
type ProjectStore struct {
	db *sql.DB
}

func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// List returns projects newest first, optionally filtered by status.
func (s *ProjectStore) List(ctx context.Context, status string, limit int) ([]*models.Project, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+projectColumns+` FROM upcoming_projects ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+projectColumns+` FROM upcoming_projects WHERE status = $1 ORDER BY created_at DESC LIMIT $2`,
			status, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM upcoming_projects WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return p, nil
}

func (s *ProjectStore) Create(ctx context.Context, p *models.Project) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO upcoming_projects
		(id, title, description, price, address, flat_size, builder, status, image_url,
		 launch_date, completion_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.Title, nullString(p.Description), p.Price, p.Address, p.FlatSize, p.Builder, p.Status,
		nullString(p.ImageURL), nullString(p.LaunchDate), nullString(p.CompletionDate), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project %s: %w", p.ID, err)
	}
	return nil
}

// Update writes the set fields of patch and returns the stored project.
func (s *ProjectStore) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("title", patch.Title)
	add("description", patch.Description)
	add("price", patch.Price)
	add("address", patch.Address)
	add("flat_size", patch.FlatSize)
	add("builder", patch.Builder)
	add("status", patch.Status)
	add("image_url", patch.ImageURL)
	add("launch_date", patch.LaunchDate)
	add("completion_date", patch.CompletionDate)
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE upcoming_projects SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), projectColumns)

	p, err := scanProject(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	return p, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM upcoming_projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts projects per lifecycle bucket. Everything not completed is active.
func (s *ProjectStore) Stats(ctx context.Context) (*models.ProjectStats, error) {
	var stats models.ProjectStats
	err := s.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status IN ($1, $2, $3)),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $4)
		FROM upcoming_projects`,
		models.ProjectStatusUpcoming, models.ProjectStatusLaunched,
		models.ProjectStatusOngoing, models.ProjectStatusCompleted,
	).Scan(&stats.Total, &stats.Active, &stats.Upcoming, &stats.Completed)
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}
	return &stats, nil
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Address, &p.FlatSize, &p.Builder,
		&p.Status, &p.ImageURL, &p.LaunchDate, &p.CompletionDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
