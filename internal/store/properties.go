package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"estate-workers/internal/models"

	"github.com/lib/pq"
)

const propertyColumns = `id, property_looking, category, property_type, city, locality, sub_locality,
	plot_area, plot_area_unit, built_up_area, super_built_up_area, total_floors, bedrooms, bathrooms, balconies,
	covered_parking, open_parking, availability_status, ownership, expected_price, description, amenities, photos,
	contact_name, contact_phone, contact_email, user_id, is_active, created_at, updated_at`

// PropertyStore persists listings. Deleting a listing only deactivates it.
type PropertyStore struct {
	db *sql.DB
}

func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

// List returns properties newest first.
func (s *PropertyStore) List(ctx context.Context, f models.PropertyFilter) ([]*models.Property, error) {
	var w where
	switch f.Status {
	case "", models.StatusFilterActive:
		w.add("is_active")
	case models.StatusFilterInactive:
		w.add("NOT is_active")
	case models.StatusFilterPending:
		w.add("is_active")
		w.equals("availability_status", models.AvailabilityPending)
	}
	if f.Looking != "" {
		w.equals("property_looking", f.Looking)
	}
	if f.Category != "" {
		w.equals("category", f.Category)
	}
	if text := strings.TrimSpace(f.Search); text != "" {
		w.contains(text, "city", "locality", "contact_name", "property_type")
	}
	query := `SELECT ` + propertyColumns + ` FROM properties` + w.String() +
		` ORDER BY created_at DESC LIMIT ` + w.arg(f.Limit)

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	properties := make([]*models.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (s *PropertyStore) Create(ctx context.Context, p *models.Property) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO properties (`+propertyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`,
		p.ID, p.PropertyLooking, p.Category, p.PropertyType, p.City, p.Locality, p.SubLocality,
		p.PlotArea, p.PlotAreaUnit, p.BuiltUpArea, p.SuperBuiltUpArea, p.TotalFloors, p.Bedrooms, p.Bathrooms,
		p.Balconies, p.CoveredParking, p.OpenParking, p.AvailabilityStatus, p.Ownership, p.ExpectedPrice,
		p.Description, pq.Array(nonNil(p.Amenities)), pq.Array(nonNil(p.Photos)),
		p.ContactName, p.ContactPhone, p.ContactEmail, p.UserID, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert property %s: %w", p.ID, err)
	}
	return nil
}

// Update replaces the editable fields of p.ID. Photos are kept when p carries none.
// Owner, active flag and creation time never change here.
func (s *PropertyStore) Update(ctx context.Context, p *models.Property) (*models.Property, error) {
	var photos interface{}
	if len(p.Photos) > 0 {
		photos = pq.Array(p.Photos)
	}
	updated, err := scanProperty(s.db.QueryRowContext(ctx, `UPDATE properties SET
			property_looking = $1, category = $2, property_type = $3, city = $4, locality = $5,
			sub_locality = $6, plot_area = $7, plot_area_unit = $8, built_up_area = $9,
			super_built_up_area = $10, total_floors = $11, bedrooms = $12, bathrooms = $13, balconies = $14,
			covered_parking = $15, open_parking = $16, availability_status = $17, ownership = $18,
			expected_price = $19, description = $20, amenities = $21, photos = COALESCE($22, photos),
			contact_name = $23, contact_phone = $24, contact_email = $25, updated_at = $26
		WHERE id = $27
		RETURNING `+propertyColumns,
		p.PropertyLooking, p.Category, p.PropertyType, p.City, p.Locality,
		p.SubLocality, p.PlotArea, p.PlotAreaUnit, p.BuiltUpArea,
		p.SuperBuiltUpArea, p.TotalFloors, p.Bedrooms, p.Bathrooms, p.Balconies,
		p.CoveredParking, p.OpenParking, p.AvailabilityStatus, p.Ownership,
		p.ExpectedPrice, p.Description, pq.Array(nonNil(p.Amenities)), photos,
		p.ContactName, p.ContactPhone, p.ContactEmail, p.UpdatedAt,
		p.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update property %s: %w", p.ID, err)
	}
	return updated, nil
}

// Toggle flips the active flag and returns the new value.
func (s *PropertyStore) Toggle(ctx context.Context, id string) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx,
		`UPDATE properties SET is_active = NOT is_active, updated_at = NOW() WHERE id = $1 RETURNING is_active`,
		id).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle property %s: %w", id, err)
	}
	return active, nil
}

func (s *PropertyStore) Deactivate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE properties SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate property %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts listings. Pending only counts active listings awaiting approval.
func (s *PropertyStore) Stats(ctx context.Context, monthStart time.Time) (*models.PropertyStats, error) {
	var stats models.PropertyStats
	err := s.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE is_active AND availability_status = $1),
			COUNT(*) FILTER (WHERE created_at >= $2)
		FROM properties`,
		models.AvailabilityPending, monthStart,
	).Scan(&stats.TotalProperties, &stats.ActiveProperties, &stats.PendingProperties, &stats.PropertiesThisMonth)
	if err != nil {
		return nil, fmt.Errorf("property stats: %w", err)
	}
	return &stats, nil
}

func scanProperty(row rowScanner) (*models.Property, error) {
	var p models.Property
	err := row.Scan(&p.ID, &p.PropertyLooking, &p.Category, &p.PropertyType, &p.City, &p.Locality,
		&p.SubLocality, &p.PlotArea, &p.PlotAreaUnit, &p.BuiltUpArea, &p.SuperBuiltUpArea, &p.TotalFloors,
		&p.Bedrooms, &p.Bathrooms, &p.Balconies, &p.CoveredParking, &p.OpenParking, &p.AvailabilityStatus,
		&p.Ownership, &p.ExpectedPrice, &p.Description, pq.Array(&p.Amenities), pq.Array(&p.Photos),
		&p.ContactName, &p.ContactPhone, &p.ContactEmail, &p.UserID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
