// Package store holds the Postgres repositories behind the workers.
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

var ErrNotFound = errors.New("record not found")

const notificationColumns = `id, title, body, type, target, priority, image_url, action_url,
	property_id, user_id, scheduled, schedule_time, send_email, send_sms, action, action_text,
	expiry, frequency, tags, status, sent_count, failure_count, email_sent_count, sms_sent_count,
	error, created_at, sent_at`

// NotificationStore persists notification records.
type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.Title, n.Body, n.Type, n.Target, n.Priority,
		nullString(n.ImageURL), nullString(n.ActionURL), nullString(n.PropertyID), nullString(n.UserID),
		n.Scheduled, nullTime(n.ScheduleTime), n.SendEmail, n.SendSMS,
		nullString(n.Action), nullString(n.ActionText), nullTime(n.Expiry), n.Frequency,
		pq.Array(tagsOrEmpty(n.Tags)), string(n.Status),
		n.SentCount, n.FailureCount, n.EmailSentCount, n.SMSSentCount,
		nullString(n.Error), n.CreatedAt, nullTime(n.SentAt),
	)
	if err != nil {
		return fmt.Errorf("insert notification %s: %w", n.ID, err)
	}
	return nil
}

func (s *NotificationStore) Get(ctx context.Context, id string) (*models.Notification, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification %s: %w", id, err)
	}
	return n, nil
}

// UpdateStatus writes the status and every non-nil field of update in one statement.
func (s *NotificationStore) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) error {
	sets := []string{"status = $1"}
	args := []interface{}{string(update.Status)}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.SentCount != nil {
		add("sent_count", *update.SentCount)
	}
	if update.FailureCount != nil {
		add("failure_count", *update.FailureCount)
	}
	if update.EmailSentCount != nil {
		add("email_sent_count", *update.EmailSentCount)
	}
	if update.SMSSentCount != nil {
		add("sms_sent_count", *update.SMSSentCount)
	}
	if update.Error != nil {
		add("error", *update.Error)
	}
	if update.SentAt != nil {
		add("sent_at", *update.SentAt)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE notifications SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update notification %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DueScheduled returns pending scheduled records whose schedule time has passed.
func (s *NotificationStore) DueScheduled(ctx context.Context, now time.Time, limit int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE scheduled = true AND status = $1 AND schedule_time <= $2
		ORDER BY schedule_time ASC
		LIMIT $3`
	return s.list(ctx, query, string(models.StatusPending), now, limit)
}

// Recent returns the newest records first.
func (s *NotificationStore) Recent(ctx context.Context, limit int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications ORDER BY created_at DESC LIMIT $1`
	return s.list(ctx, query, limit)
}

// Stats aggregates the dashboard counters. since marks the start of "today".
func (s *NotificationStore) Stats(ctx context.Context, since time.Time) (*models.NotificationStats, error) {
	var (
		stats            models.NotificationStats
		sent, failedSend int64
	)

	err := s.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COALESCE(SUM(sent_count), 0),
			COALESCE(SUM(failure_count), 0)
		FROM notifications`, since).Scan(&stats.TotalNotifications, &stats.SentToday, &sent, &failedSend)
	if err != nil {
		return nil, fmt.Errorf("notification counters: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE fcm_token IS NOT NULL`).Scan(&stats.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("active users: %w", err)
	}

	stats.SuccessRate = SuccessRate(sent, failedSend)
	return &stats, nil
}

// SuccessRate is the delivered share of push attempts as a percentage with one decimal.
func SuccessRate(sent, failed int64) float64 {
	total := sent + failed
	if total == 0 {
		return 0
	}
	rate := float64(sent) * 100 / float64(total)
	return float64(int64(rate*10+0.5)) / 10
}

func (s *NotificationStore) list(ctx context.Context, query string, args ...interface{}) ([]*models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var (
		n                                      models.Notification
		status                                 string
		imageURL, actionURL, propertyID        sql.NullString
		userID, action, actionText, errMessage sql.NullString
		scheduleTime, expiry, sentAt           sql.NullTime
		tags                                   []string
	)

	err := row.Scan(
		&n.ID, &n.Title, &n.Body, &n.Type, &n.Target, &n.Priority,
		&imageURL, &actionURL, &propertyID, &userID,
		&n.Scheduled, &scheduleTime, &n.SendEmail, &n.SendSMS,
		&action, &actionText, &expiry, &n.Frequency,
		pq.Array(&tags), &status,
		&n.SentCount, &n.FailureCount, &n.EmailSentCount, &n.SMSSentCount,
		&errMessage, &n.CreatedAt, &sentAt,
	)
	if err != nil {
		return nil, err
	}

	n.Status = models.NotificationStatus(status)
	n.ImageURL = imageURL.String
	n.ActionURL = actionURL.String
	n.PropertyID = propertyID.String
	n.UserID = userID.String
	n.Action = action.String
	n.ActionText = actionText.String
	n.Error = errMessage.String
	n.Tags = tagsOrEmpty(tags)
	n.ScheduleTime = timePtr(scheduleTime)
	n.Expiry = timePtr(expiry)
	n.SentAt = timePtr(sentAt)
	return &n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
