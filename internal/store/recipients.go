package store

import (
	"context"
	"database/sql"
	"fmt"

	"estate-workers/internal/models"

	"github.com/lib/pq"
)

// RecipientStore reads app users with a registered device token.
type RecipientStore struct {
	db *sql.DB
}

func NewRecipientStore(db *sql.DB) *RecipientStore {
	return &RecipientStore{db: db}
}

const recipientSelect = `SELECT id, fcm_token, COALESCE(email, ''), COALESCE(phone_number, ''), subscribed_topics
	FROM users
	WHERE fcm_token IS NOT NULL`

// Recipients returns every user with a token, narrowed to subscribers unless
// target is all_users.
func (s *RecipientStore) Recipients(ctx context.Context, target string) ([]models.Recipient, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if target == models.TargetAllUsers {
		rows, err = s.db.QueryContext(ctx, recipientSelect)
	} else {
		rows, err = s.db.QueryContext(ctx, recipientSelect+` AND $1 = ANY(subscribed_topics)`, target)
	}
	if err != nil {
		return nil, fmt.Errorf("query recipients for %s: %w", target, err)
	}
	defer rows.Close()

	var out []models.Recipient
	for rows.Next() {
		var r models.Recipient
		if err := rows.Scan(&r.ID, &r.Token, &r.Email, &r.Phone, pq.Array(&r.Topics)); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
