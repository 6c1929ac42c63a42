package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"estate-workers/internal/models"

	"github.com/lib/pq"
)

const artItemColumns = `id, title, category, artist, price, year, dimensions, materials, location, status,
	featured, description, images, views, rating, created_at, updated_at`

// ArtItemStore persists the arts and antiques catalogue.
type ArtItemStore struct {
	db *sql.DB
}

func NewArtItemStore(db *sql.DB) *ArtItemStore {
	return &ArtItemStore{db: db}
}

func (s *ArtItemStore) List(ctx context.Context, f models.ArtItemFilter) ([]*models.ArtItem, error) {
	var w where
	if f.Category != "" {
		w.equals("category", f.Category)
	}
	if f.Status != "" {
		w.equals("status", f.Status)
	}
	if f.Featured != nil {
		w.equals("featured", *f.Featured)
	}
	if text := strings.TrimSpace(f.Search); text != "" {
		w.contains(text, "title", "artist", "category", "description")
	}
	query := `SELECT ` + artItemColumns + ` FROM arts_antiques` + w.String() +
		` ORDER BY created_at DESC LIMIT ` + w.arg(f.Limit)

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query art items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.ArtItem, 0)
	for rows.Next() {
		item, err := scanArtItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan art item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *ArtItemStore) Create(ctx context.Context, a *models.ArtItem) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO arts_antiques (`+artItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		a.ID, a.Title, a.Category, a.Artist, a.Price, nullInt(a.Year), a.Dimensions, a.Materials, a.Location,
		a.Status, a.Featured, a.Description, pq.Array(nonNil(a.Images)), a.Views, a.Rating, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert art item %s: %w", a.ID, err)
	}
	return nil
}

// Update replaces the editable fields of a.ID. Images are kept when a carries none;
// views and rating are never touched.
func (s *ArtItemStore) Update(ctx context.Context, a *models.ArtItem) (*models.ArtItem, error) {
	var images interface{}
	if len(a.Images) > 0 {
		images = pq.Array(a.Images)
	}
	updated, err := scanArtItem(s.db.QueryRowContext(ctx, `UPDATE arts_antiques SET
			title = $1, category = $2, artist = $3, price = $4, year = $5, dimensions = $6, materials = $7,
			location = $8, status = $9, featured = $10, description = $11, images = COALESCE($12, images),
			updated_at = $13
		WHERE id = $14
		RETURNING `+artItemColumns,
		a.Title, a.Category, a.Artist, a.Price, nullInt(a.Year), a.Dimensions, a.Materials,
		a.Location, a.Status, a.Featured, a.Description, images,
		a.UpdatedAt, a.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update art item %s: %w", a.ID, err)
	}
	return updated, nil
}

func (s *ArtItemStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM arts_antiques WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete art item %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ArtItemStore) Stats(ctx context.Context) (*models.ArtItemStats, error) {
	var stats models.ArtItemStats
	err := s.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE featured),
			COALESCE(SUM(views), 0),
			COUNT(DISTINCT artist) FILTER (WHERE artist <> '')
		FROM arts_antiques`,
	).Scan(&stats.TotalItems, &stats.FeaturedItems, &stats.TotalViews, &stats.TotalArtists)
	if err != nil {
		return nil, fmt.Errorf("art item stats: %w", err)
	}
	return &stats, nil
}

func scanArtItem(row rowScanner) (*models.ArtItem, error) {
	var (
		a    models.ArtItem
		year sql.NullInt64
	)
	err := row.Scan(&a.ID, &a.Title, &a.Category, &a.Artist, &a.Price, &year, &a.Dimensions, &a.Materials,
		&a.Location, &a.Status, &a.Featured, &a.Description, pq.Array(&a.Images), &a.Views, &a.Rating,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if year.Valid {
		y := int(year.Int64)
		a.Year = &y
	}
	return &a, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
