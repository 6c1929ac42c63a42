// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"estate-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pooled connection. It does not dial; call Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// schema is applied in order on startup; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                TEXT PRIMARY KEY,
		fcm_token         TEXT,
		email             TEXT,
		phone_number      TEXT,
		subscribed_topics TEXT[] NOT NULL DEFAULT '{}',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_topics ON users USING GIN (subscribed_topics)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		body             TEXT NOT NULL,
		type             TEXT NOT NULL,
		target           TEXT NOT NULL,
		priority         TEXT NOT NULL DEFAULT 'normal',
		image_url        TEXT,
		action_url       TEXT,
		property_id      TEXT,
		user_id          TEXT,
		scheduled        BOOLEAN NOT NULL DEFAULT false,
		schedule_time    TIMESTAMPTZ,
		send_email       BOOLEAN NOT NULL DEFAULT false,
		send_sms         BOOLEAN NOT NULL DEFAULT false,
		action           TEXT,
		action_text      TEXT,
		expiry           TIMESTAMPTZ,
		frequency        TEXT NOT NULL DEFAULT 'once',
		tags             TEXT[] NOT NULL DEFAULT '{}',
		status           TEXT NOT NULL DEFAULT 'pending',
		sent_count       INTEGER NOT NULL DEFAULT 0,
		failure_count    INTEGER NOT NULL DEFAULT 0,
		email_sent_count INTEGER NOT NULL DEFAULT 0,
		sms_sent_count   INTEGER NOT NULL DEFAULT 0,
		error            TEXT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		sent_at          TIMESTAMPTZ,
		updated_at       TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_due ON notifications (schedule_time) WHERE scheduled AND status = 'pending'`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS upcoming_projects (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		description     TEXT,
		price           TEXT NOT NULL,
		address         TEXT NOT NULL,
		flat_size       TEXT NOT NULL,
		builder         TEXT NOT NULL,
		status          TEXT NOT NULL,
		image_url       TEXT,
		launch_date     TEXT,
		completion_date TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_upcoming_projects_status ON upcoming_projects (status, created_at DESC)`,
	`ALTER TABLE users
		ADD COLUMN IF NOT EXISTS full_name            TEXT,
		ADD COLUMN IF NOT EXISTS is_real_estate_agent BOOLEAN NOT NULL DEFAULT false,
		ADD COLUMN IF NOT EXISTS is_active            BOOLEAN NOT NULL DEFAULT true,
		ADD COLUMN IF NOT EXISTS profile_completed    BOOLEAN NOT NULL DEFAULT false,
		ADD COLUMN IF NOT EXISTS profile_image_url    TEXT,
		ADD COLUMN IF NOT EXISTS updated_at           TIMESTAMPTZ,
		ADD COLUMN IF NOT EXISTS last_active_at       TIMESTAMPTZ`,
	`CREATE INDEX IF NOT EXISTS idx_users_created ON users (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id                  TEXT PRIMARY KEY,
		property_looking    TEXT NOT NULL,
		category            TEXT NOT NULL,
		property_type       TEXT NOT NULL,
		city                TEXT NOT NULL,
		locality            TEXT NOT NULL,
		sub_locality        TEXT NOT NULL DEFAULT '',
		plot_area           TEXT NOT NULL DEFAULT '',
		plot_area_unit      TEXT NOT NULL DEFAULT '',
		built_up_area       TEXT NOT NULL DEFAULT '',
		super_built_up_area TEXT NOT NULL DEFAULT '',
		total_floors        TEXT NOT NULL DEFAULT '',
		bedrooms            TEXT NOT NULL DEFAULT '',
		bathrooms           TEXT NOT NULL DEFAULT '',
		balconies           TEXT NOT NULL DEFAULT '',
		covered_parking     INTEGER NOT NULL DEFAULT 0,
		open_parking        INTEGER NOT NULL DEFAULT 0,
		availability_status TEXT NOT NULL DEFAULT '',
		ownership           TEXT NOT NULL DEFAULT '',
		expected_price      TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		amenities           TEXT[] NOT NULL DEFAULT '{}',
		photos              TEXT[] NOT NULL DEFAULT '{}',
		contact_name        TEXT NOT NULL,
		contact_phone       TEXT NOT NULL,
		contact_email       TEXT NOT NULL DEFAULT '',
		user_id             TEXT NOT NULL,
		is_active           BOOLEAN NOT NULL DEFAULT true,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_active ON properties (is_active, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS in_app_notifications (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		subtitle    TEXT NOT NULL,
		item_type   TEXT NOT NULL,
		item_id     TEXT NOT NULL,
		image_url   TEXT NOT NULL DEFAULT '',
		images      TEXT[] NOT NULL DEFAULT '{}',
		price       TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		action_text TEXT NOT NULL,
		active      BOOLEAN NOT NULL DEFAULT true,
		data        JSONB NOT NULL DEFAULT '{}',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS arts_antiques (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		category    TEXT NOT NULL,
		artist      TEXT NOT NULL,
		price       DOUBLE PRECISION NOT NULL,
		year        INTEGER,
		dimensions  TEXT NOT NULL DEFAULT '',
		materials   TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		featured    BOOLEAN NOT NULL DEFAULT false,
		description TEXT NOT NULL,
		images      TEXT[] NOT NULL DEFAULT '{}',
		views       INTEGER NOT NULL DEFAULT 0,
		rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the tables the workers read and write.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return nil
}
