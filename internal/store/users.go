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

const userColumns = `id, COALESCE(NULLIF(full_name, ''), 'Unknown'), COALESCE(email, ''), COALESCE(phone_number, ''),
	is_real_estate_agent, is_active, profile_completed, COALESCE(profile_image_url, ''),
	fcm_token IS NOT NULL, subscribed_topics, created_at, last_active_at`

// UserStore is the admin view of app accounts.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) List(ctx context.Context, f models.UserFilter) ([]*models.User, error) {
	var w where
	switch f.Status {
	case models.StatusFilterActive:
		w.add("is_active")
	case models.StatusFilterInactive:
		w.add("NOT is_active")
	}
	switch f.Profile {
	case models.ProfileFilterCompleted:
		w.add("profile_completed")
	case models.ProfileFilterIncomplete:
		w.add("NOT profile_completed")
	}
	if text := strings.TrimSpace(f.Search); text != "" {
		w.contains(text, "full_name", "email", "phone_number")
	}
	order := "DESC"
	if f.Sort == models.SortOldest {
		order = "ASC"
	}
	query := `SELECT ` + userColumns + ` FROM users` + w.String() +
		` ORDER BY created_at ` + order + ` LIMIT ` + w.arg(f.Limit)

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		var (
			u          models.User
			lastActive sql.NullTime
		)
		err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.PhoneNumber, &u.IsRealEstateAgent, &u.IsActive,
			&u.ProfileCompleted, &u.ProfileImageURL, &u.HasDeviceToken, pq.Array(&u.SubscribedTopics),
			&u.CreatedAt, &lastActive)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if lastActive.Valid {
			u.LastActiveAt = &lastActive.Time
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// Toggle flips the active flag and returns the new value.
func (s *UserStore) Toggle(ctx context.Context, id string) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx,
		`UPDATE users SET is_active = NOT is_active, updated_at = NOW() WHERE id = $1 RETURNING is_active`,
		id).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle user %s: %w", id, err)
	}
	return active, nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) Stats(ctx context.Context, monthStart time.Time) (*models.UserStats, error) {
	var stats models.UserStats
	err := s.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE NOT is_active),
			COUNT(*) FILTER (WHERE created_at >= $1)
		FROM users`, monthStart,
	).Scan(&stats.TotalUsers, &stats.ActiveUsers, &stats.InactiveUsers, &stats.NewUsersThisMonth)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &stats, nil
}
