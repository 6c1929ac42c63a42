package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"estate-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var notificationCols = []string{
	"id", "title", "body", "type", "target", "priority", "image_url", "action_url",
	"property_id", "user_id", "scheduled", "schedule_time", "send_email", "send_sms", "action", "action_text",
	"expiry", "frequency", "tags", "status", "sent_count", "failure_count", "email_sent_count", "sms_sent_count",
	"error", "created_at", "sent_at",
}

func notificationRow(rows *sqlmock.Rows, id, status string) *sqlmock.Rows {
	return rows.AddRow(
		id, "New listing", "A penthouse just went live", "property", models.TargetAllUsers, "normal",
		"https://cdn.example.com/a.png", nil, "42", nil,
		true, testNow, false, true, nil, nil,
		nil, "once", "{launch,premium}", status,
		3, 1, 0, 2,
		nil, testNow.Add(-time.Hour), nil,
	)
}

// ==========================
// NotificationStore Tests
// ==========================

func TestNotificationStore_Create(t *testing.T) {
	db, mock := newMock(t)
	store := NewNotificationStore(db)

	req := models.NotificationRequest{Title: "t", Body: "b", Type: "general", Target: models.TargetMarketNews}
	req.ApplyDefaults()
	n := models.NewNotification("n-1", req, testNow)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(
			"n-1", "t", "b", "general", models.TargetMarketNews, "normal",
			sql.NullString{}, sql.NullString{}, sql.NullString{}, sql.NullString{},
			false, sql.NullTime{}, false, false,
			sql.NullString{}, sql.NullString{}, sql.NullTime{}, "once",
			pq.Array([]string{}), "pending",
			0, 0, 0, 0,
			sql.NullString{}, testNow, sql.NullTime{},
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Create(context.Background(), n))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_Get(t *testing.T) {
	db, mock := newMock(t)
	store := NewNotificationStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE id = $1")).
		WithArgs("n-1").
		WillReturnRows(notificationRow(sqlmock.NewRows(notificationCols), "n-1", "sent"))

	n, err := store.Get(context.Background(), "n-1")
	require.NoError(t, err)
	assert.Equal(t, "n-1", n.ID)
	assert.Equal(t, models.StatusSent, n.Status)
	assert.Equal(t, []string{"launch", "premium"}, n.Tags)
	assert.Equal(t, "42", n.PropertyID)
	assert.Empty(t, n.UserID)
	require.NotNil(t, n.ScheduleTime)
	assert.True(t, testNow.Equal(*n.ScheduleTime))
	assert.Nil(t, n.SentAt)
	assert.Equal(t, 3, n.SentCount)
	assert.Equal(t, 2, n.SMSSentCount)
}

func TestNotificationStore_GetNotFound(t *testing.T) {
	db, mock := newMock(t)
	store := NewNotificationStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(notificationCols))

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationStore_UpdateStatus(t *testing.T) {
	sent, failed, emails, sms := 2, 1, 0, 0
	reason := "boom"

	tests := []struct {
		name      string
		update    models.StatusUpdate
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name: "failed with error only",
			update: models.StatusUpdate{
				Status: models.StatusFailed,
				Error:  &reason,
			},
			wantQuery: "UPDATE notifications SET status = $1, error = $2, updated_at = NOW() WHERE id = $3",
			wantArgs:  []interface{}{"failed", "boom", "n-1"},
		},
		{
			name: "sent with counts",
			update: models.StatusUpdate{
				Status:         models.StatusSent,
				SentCount:      &sent,
				FailureCount:   &failed,
				EmailSentCount: &emails,
				SMSSentCount:   &sms,
				SentAt:         &testNow,
			},
			wantQuery: "UPDATE notifications SET status = $1, sent_count = $2, failure_count = $3, " +
				"email_sent_count = $4, sms_sent_count = $5, sent_at = $6, updated_at = NOW() WHERE id = $7",
			wantArgs: []interface{}{"sent", 2, 1, 0, 0, testNow, "n-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			store := NewNotificationStore(db)

			args := make([]driver.Value, 0, len(tt.wantArgs))
			for _, a := range tt.wantArgs {
				args = append(args, a)
			}
			mock.ExpectExec(regexp.QuoteMeta(tt.wantQuery)).
				WithArgs(args...).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, store.UpdateStatus(context.Background(), "n-1", tt.update))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationStore_UpdateStatusMissingRecord(t *testing.T) {
	db, mock := newMock(t)
	store := NewNotificationStore(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateStatus(context.Background(), "gone", models.StatusUpdate{Status: models.StatusFailed})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationStore_DueScheduled(t *testing.T) {
	db, mock := newMock(t)
	store := NewNotificationStore(db)

	rows := sqlmock.NewRows(notificationCols)
	notificationRow(rows, "n-1", "pending")
	notificationRow(rows, "n-2", "pending")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE scheduled = true AND status = $1 AND schedule_time <= $2")).
		WithArgs("pending", testNow, 50).
		WillReturnRows(rows)

	due, err := store.DueScheduled(context.Background(), testNow, 50)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "n-2", due[1].ID)
}

func TestNotificationStore_Recent(t *testing.T) {
	db, mock := newMock(t)
	store := NewNotificationStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $1")).
		WithArgs(10).
		WillReturnError(assert.AnError)

	_, err := store.Recent(context.Background(), 10)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNotificationStore_Stats(t *testing.T) {
	db, mock := newMock(t)
	store := NewNotificationStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications")).
		WithArgs(testNow).
		WillReturnRows(sqlmock.NewRows([]string{"total", "today", "sent", "failed"}).AddRow(12, 3, 200, 56))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE fcm_token IS NOT NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(87))

	stats, err := store.Stats(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, &models.NotificationStats{
		TotalNotifications: 12,
		ActiveUsers:        87,
		SentToday:          3,
		SuccessRate:        78.1,
	}, stats)
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		sent, failed int64
		want         float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{0, 5, 0},
		{2, 1, 66.7},
		{1, 2, 33.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuccessRate(tt.sent, tt.failed), "%d/%d", tt.sent, tt.failed)
	}
}

// ==========================
// RecipientStore Tests
// ==========================

func TestRecipientStore_Recipients(t *testing.T) {
	cols := []string{"id", "fcm_token", "email", "phone_number", "subscribed_topics"}

	t.Run("all users skips topic filter", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`WHERE fcm_token IS NOT NULL$`).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("u-1", "abc:defghijkl", "a@example.com", "", "{market_news}").
				AddRow("u-2", "test_device01", "", "+15550100", "{}"))

		recipients, err := NewRecipientStore(db).Recipients(context.Background(), models.TargetAllUsers)
		require.NoError(t, err)
		require.Len(t, recipients, 2)
		assert.Equal(t, []string{"market_news"}, recipients[0].Topics)
		assert.Equal(t, "+15550100", recipients[1].Phone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("topic target filters on subscription", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("AND $1 = ANY(subscribed_topics)")).
			WithArgs(models.TargetPriceAlerts).
			WillReturnRows(sqlmock.NewRows(cols))

		recipients, err := NewRecipientStore(db).Recipients(context.Background(), models.TargetPriceAlerts)
		require.NoError(t, err)
		assert.Empty(t, recipients)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// ==========================
// ProjectStore Tests
// ==========================

var projectCols = []string{
	"id", "title", "description", "price", "address", "flat_size", "builder", "status",
	"image_url", "launch_date", "completion_date", "created_at", "updated_at",
}

func projectRow(rows *sqlmock.Rows, id, status string) *sqlmock.Rows {
	return rows.AddRow(id, "Skyline Towers", "", "1.2 Cr", "Baner, Pune", "2 BHK", "Acme Builders",
		status, "", "2025-06-01", "", testNow, testNow)
}

func TestProjectStore_List(t *testing.T) {
	t.Run("without status", func(t *testing.T) {
		db, mock := newMock(t)
		rows := sqlmock.NewRows(projectCols)
		projectRow(rows, "p-1", models.ProjectStatusUpcoming)
		mock.ExpectQuery(regexp.QuoteMeta("FROM upcoming_projects ORDER BY created_at DESC LIMIT $1")).
			WithArgs(10).
			WillReturnRows(rows)

		projects, err := NewProjectStore(db).List(context.Background(), "", 10)
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "Skyline Towers", projects[0].Title)
	})

	t.Run("with status returns empty slice", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 ORDER BY created_at DESC LIMIT $2")).
			WithArgs(models.ProjectStatusCompleted, 5).
			WillReturnRows(sqlmock.NewRows(projectCols))

		projects, err := NewProjectStore(db).List(context.Background(), models.ProjectStatusCompleted, 5)
		require.NoError(t, err)
		assert.NotNil(t, projects)
		assert.Empty(t, projects)
	})
}

func TestProjectStore_Update(t *testing.T) {
	db, mock := newMock(t)

	price := "1.4 Cr"
	status := models.ProjectStatusLaunched
	rows := sqlmock.NewRows(projectCols)
	projectRow(rows, "p-1", status)

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE upcoming_projects SET price = $1, status = $2, updated_at = NOW() WHERE id = $3 RETURNING")).
		WithArgs(price, status, "p-1").
		WillReturnRows(rows)

	p, err := NewProjectStore(db).Update(context.Background(), "p-1", models.ProjectPatch{Price: &price, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, status, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_UpdateNotFound(t *testing.T) {
	db, mock := newMock(t)
	title := "x"
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE upcoming_projects")).
		WillReturnRows(sqlmock.NewRows(projectCols))

	_, err := NewProjectStore(db).Update(context.Background(), "nope", models.ProjectPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectStore_Delete(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM upcoming_projects WHERE id = $1")).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM upcoming_projects WHERE id = $1")).
		WithArgs("p-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewProjectStore(db)
	assert.NoError(t, store.Delete(context.Background(), "p-1"))
	assert.ErrorIs(t, store.Delete(context.Background(), "p-2"), ErrNotFound)
}

func TestProjectStore_Stats(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM upcoming_projects")).
		WithArgs("upcoming", "launched", "ongoing", "completed").
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "upcoming", "completed"}).AddRow(9, 6, 4, 3))

	stats, err := NewProjectStore(db).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.ProjectStats{Total: 9, Active: 6, Upcoming: 4, Completed: 3}, stats)
}
