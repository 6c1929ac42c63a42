package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/dispatch"
	"estate-workers/internal/models"
	"estate-workers/internal/store"
)

// ==========================
// Mock Implementations
// ==========================

type mockRecords struct {
	mock.Mock
}

func (m *mockRecords) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, n *models.Notification) *dispatch.Result {
	return m.Called(ctx, n).Get(0).(*dispatch.Result)
}

type mockProjects struct {
	mock.Mock
}

func (m *mockProjects) List(ctx context.Context, status string, limit int) ([]*models.Project, error) {
	args := m.Called(ctx, status, limit)
	projects, _ := args.Get(0).([]*models.Project)
	return projects, args.Error(1)
}

func (m *mockProjects) Create(ctx context.Context, p *models.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProjects) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	args := m.Called(ctx, id, patch)
	p, _ := args.Get(0).(*models.Project)
	return p, args.Error(1)
}

func (m *mockProjects) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProjects) Stats(ctx context.Context) (*models.ProjectStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.ProjectStats)
	return stats, args.Error(1)
}

type mockSearch struct {
	mock.Mock
}

func (m *mockSearch) Index(ctx context.Context, p *models.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockSearch) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSearch) Search(ctx context.Context, text, status string, limit int) ([]*models.Project, error) {
	args := m.Called(ctx, text, status, limit)
	projects, _ := args.Get(0).([]*models.Project)
	return projects, args.Error(1)
}

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newNotificationService(t *testing.T, records *mockRecords, d *mockDispatcher) *NotificationService {
	s := NewNotificationService(records, d, logger.NewTestLogger(t))
	s.newID = func() string { return "n-1" }
	s.now = func() time.Time { return testNow }
	return s
}

func newProjectService(t *testing.T, repo *mockProjects, search ProjectSearch) *ProjectService {
	s := NewProjectService(repo, search, logger.NewTestLogger(t))
	s.newID = func() string { return "p-1" }
	s.now = func() time.Time { return testNow }
	return s
}

func validRequest() models.NotificationRequest {
	return models.NotificationRequest{
		Title:  "Price drop",
		Body:   "Skyline Towers is now 5% cheaper",
		Type:   "price_alert",
		Target: models.TargetPriceAlerts,
	}
}

func codeOf(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %v", err)
	return stdErr.Code
}

// ==========================
// NotificationService Tests
// ==========================

func TestNotificationService_SubmitDispatchesImmediately(t *testing.T) {
	records := &mockRecords{}
	d := &mockDispatcher{}
	records.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.ID == "n-1" && n.Status == models.StatusPending &&
			n.Priority == models.DefaultPriority && n.Frequency == models.DefaultFrequency &&
			n.CreatedAt.Equal(testNow)
	})).Return(nil).Once()
	d.On("Dispatch", mock.Anything, mock.Anything).
		Return(&dispatch.Result{NotificationID: "n-1", Status: models.StatusSent}).Once()

	out, err := newNotificationService(t, records, d).Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "n-1", out.Notification.ID)
	require.NotNil(t, out.Dispatch)
	assert.Equal(t, models.StatusSent, out.Dispatch.Status)
	records.AssertExpectations(t)
	d.AssertExpectations(t)
}

func TestNotificationService_SubmitScheduledDoesNotDispatch(t *testing.T) {
	records := &mockRecords{}
	d := &mockDispatcher{}
	records.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	req := validRequest()
	req.Scheduled = true
	at := testNow.Add(time.Hour)
	req.ScheduleTime = &at

	out, err := newNotificationService(t, records, d).Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, out.Dispatch)
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestNotificationService_SubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.NotificationRequest)
		details string
	}{
		{"missing title", func(r *models.NotificationRequest) { r.Title = "" }, "Missing required fields: title"},
		{"missing body and target", func(r *models.NotificationRequest) { r.Body = ""; r.Target = " " }, "Missing required fields: body, target"},
		{"scheduled without time", func(r *models.NotificationRequest) { r.Scheduled = true }, "scheduleTime is required when scheduled is true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := &mockRecords{}
			req := validRequest()
			tt.mutate(&req)

			_, err := newNotificationService(t, records, &mockDispatcher{}).Submit(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeValidationFailed, codeOf(t, err))

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, tt.details, stdErr.Details)
			records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestNotificationService_SubmitCreateFails(t *testing.T) {
	records := &mockRecords{}
	d := &mockDispatcher{}
	records.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	_, err := newNotificationService(t, records, d).Submit(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotificationCreateFailed, codeOf(t, err))
	d.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

// ==========================
// ProjectService Tests
// ==========================

func TestProjectService_List(t *testing.T) {
	tests := []struct {
		name       string
		query      ProjectQuery
		wantStatus string
		wantLimit  int
	}{
		{"defaults", ProjectQuery{}, "", 10},
		{"all status", ProjectQuery{Status: "all", Limit: 5}, "", 5},
		{"status filter", ProjectQuery{Status: "launched", Limit: 500}, "launched", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockProjects{}
			repo.On("List", mock.Anything, tt.wantStatus, tt.wantLimit).Return([]*models.Project{{ID: "p-1"}}, nil).Once()

			projects, err := newProjectService(t, repo, nil).List(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Len(t, projects, 1)
			repo.AssertExpectations(t)
		})
	}
}

func TestProjectService_ListSearchesText(t *testing.T) {
	repo := &mockProjects{}
	search := &mockSearch{}
	search.On("Search", mock.Anything, "sea view", "upcoming", 10).Return([]*models.Project{{ID: "p-9"}}, nil).Once()

	projects, err := newProjectService(t, repo, search).List(context.Background(),
		ProjectQuery{Text: "sea view", Status: "upcoming"})
	require.NoError(t, err)
	assert.Equal(t, "p-9", projects[0].ID)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_ListSearchWithoutIndex(t *testing.T) {
	_, err := newProjectService(t, &mockProjects{}, nil).List(context.Background(), ProjectQuery{Text: "x"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, codeOf(t, err))
}

func TestProjectService_Add(t *testing.T) {
	repo := &mockProjects{}
	search := &mockSearch{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Project) bool {
		return p.ID == "p-1" && p.CreatedAt.Equal(testNow) && p.UpdatedAt.Equal(testNow)
	})).Return(nil).Once()
	search.On("Index", mock.Anything, mock.Anything).Return(errors.New("es down")).Once()

	p, err := newProjectService(t, repo, search).Add(context.Background(), models.Project{
		Title: "Skyline Towers", Price: "1.2 Cr", Address: "Baner", FlatSize: "2 BHK",
		Builder: "Acme", Status: models.ProjectStatusUpcoming,
	})
	require.NoError(t, err, "index failures are not fatal")
	assert.Equal(t, "p-1", p.ID)
	search.AssertExpectations(t)
}

func TestProjectService_AddMissingFields(t *testing.T) {
	repo := &mockProjects{}
	_, err := newProjectService(t, repo, nil).Add(context.Background(), models.Project{Title: "Only title"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeProjectValidationFailed, codeOf(t, err))

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, "Missing required fields: price, address, flatSize, builder, status", stdErr.Details)
}

func TestProjectService_Update(t *testing.T) {
	price := "1.4 Cr"
	patch := models.ProjectPatch{Price: &price}

	t.Run("updates and reindexes", func(t *testing.T) {
		repo := &mockProjects{}
		search := &mockSearch{}
		repo.On("Update", mock.Anything, "p-1", patch).Return(&models.Project{ID: "p-1", Price: price}, nil).Once()
		search.On("Index", mock.Anything, mock.Anything).Return(nil).Once()

		p, err := newProjectService(t, repo, search).Update(context.Background(), "p-1", patch)
		require.NoError(t, err)
		assert.Equal(t, price, p.Price)
		search.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockProjects{}
		repo.On("Update", mock.Anything, "p-404", patch).Return(nil, store.ErrNotFound).Once()

		_, err := newProjectService(t, repo, nil).Update(context.Background(), "p-404", patch)
		assert.Equal(t, apperrors.ErrCodeProjectNotFound, codeOf(t, err))
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := newProjectService(t, &mockProjects{}, nil).Update(context.Background(), "", patch)
		assert.Equal(t, apperrors.ErrCodeProjectValidationFailed, codeOf(t, err))
	})
}

func TestProjectService_Delete(t *testing.T) {
	repo := &mockProjects{}
	search := &mockSearch{}
	repo.On("Delete", mock.Anything, "p-1").Return(nil).Once()
	search.On("Delete", mock.Anything, "p-1").Return(nil).Once()

	require.NoError(t, newProjectService(t, repo, search).Delete(context.Background(), "p-1"))
	search.AssertExpectations(t)
}

func TestProjectService_StatsError(t *testing.T) {
	repo := &mockProjects{}
	repo.On("Stats", mock.Anything).Return(nil, errors.New("timeout")).Once()

	_, err := newProjectService(t, repo, nil).Stats(context.Background())
	assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, codeOf(t, err))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 10, NormalizeLimit(0, 10, 100))
	assert.Equal(t, 10, NormalizeLimit(-3, 10, 100))
	assert.Equal(t, 42, NormalizeLimit(42, 10, 100))
	assert.Equal(t, 100, NormalizeLimit(101, 10, 100))
}
