package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"estate-workers/internal/models"

	"github.com/lib/pq"
)

// InAppNotificationStore writes cards for the app's notification feed.
type InAppNotificationStore struct {
	db *sql.DB
}

func NewInAppNotificationStore(db *sql.DB) *InAppNotificationStore {
	return &InAppNotificationStore{db: db}
}

func (s *InAppNotificationStore) Create(ctx context.Context, n *models.InAppNotification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("encode in-app notification data: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO in_app_notifications
		(id, title, subtitle, item_type, item_id, image_url, images, price, location, action_text, active, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		n.ID, n.Title, n.Subtitle, n.ItemType, n.ItemID, n.ImageURL, pq.Array(nonNil(n.Images)),
		n.Price, n.Location, n.ActionText, n.Active, data, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert in-app notification %s: %w", n.ID, err)
	}
	return nil
}
