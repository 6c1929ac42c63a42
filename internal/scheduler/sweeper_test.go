package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-workers/internal/common/logger"
	"estate-workers/internal/dispatch"
	"estate-workers/internal/models"
)

// ==========================
// Fakes
// ==========================

type fakeSource struct {
	due   []*models.Notification
	err   error
	calls int
	limit int
	now   time.Time
}

func (f *fakeSource) DueScheduled(_ context.Context, now time.Time, limit int) ([]*models.Notification, error) {
	f.calls++
	f.now = now
	f.limit = limit
	return f.due, f.err
}

type fakeDispatcher struct {
	mu  sync.Mutex
	ids []string
}

func (f *fakeDispatcher) Dispatch(_ context.Context, n *models.Notification) *dispatch.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, n.ID)
	return &dispatch.Result{NotificationID: n.ID, Status: models.StatusSent}
}

var sweepNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestSweeper(t *testing.T, source DueSource, d Dispatcher) (*Sweeper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s := NewSweeper(source, d, rdb, logger.NewTestLogger(t),
		WithNow(func() time.Time { return sweepNow }),
		WithClaimTTL(5*time.Minute),
		WithBatch(25),
	)
	return s, mr
}

func due(ids ...string) []*models.Notification {
	out := make([]*models.Notification, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.Notification{ID: id, Status: models.StatusPending})
	}
	return out
}

// ==========================
// Sweep Tests
// ==========================

func TestSweeper_RunOnceDispatchesDueRecords(t *testing.T) {
	source := &fakeSource{due: due("n-1", "n-2")}
	d := &fakeDispatcher{}
	s, mr := newTestSweeper(t, source, d)

	stats, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepStats{Due: 2, Dispatched: 2}, stats)
	assert.Equal(t, []string{"n-1", "n-2"}, d.ids)
	assert.Equal(t, 25, source.limit)
	assert.True(t, sweepNow.Equal(source.now))

	assert.True(t, mr.Exists(ClaimKey("n-1")))
	assert.Equal(t, 5*time.Minute, mr.TTL(ClaimKey("n-1")))
}

func TestSweeper_SkipsClaimedRecords(t *testing.T) {
	source := &fakeSource{due: due("n-1", "n-2")}
	d := &fakeDispatcher{}
	s, mr := newTestSweeper(t, source, d)

	require.NoError(t, mr.Set(ClaimKey("n-1"), "other-replica"))

	stats, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepStats{Due: 2, Dispatched: 1, Skipped: 1}, stats)
	assert.Equal(t, []string{"n-2"}, d.ids)
}

func TestSweeper_OverlappingSweepsDispatchOnce(t *testing.T) {
	source := &fakeSource{due: due("n-1")}
	d := &fakeDispatcher{}
	s, _ := newTestSweeper(t, source, d)

	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	stats, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, []string{"n-1"}, d.ids)
}

func TestSweeper_RedisUnavailableSkips(t *testing.T) {
	source := &fakeSource{due: due("n-1")}
	d := &fakeDispatcher{}
	s, mr := newTestSweeper(t, source, d)
	mr.Close()

	stats, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Empty(t, d.ids)
}

func TestSweeper_SourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	s, _ := newTestSweeper(t, source, &fakeDispatcher{})

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSweeper_StartRejectsBadSpec(t *testing.T) {
	s, _ := newTestSweeper(t, &fakeSource{}, &fakeDispatcher{})
	s.spec = "not a schedule"

	assert.Error(t, s.Start())
}

func TestSweeper_StartAndStop(t *testing.T) {
	s, _ := newTestSweeper(t, &fakeSource{}, &fakeDispatcher{})

	require.NoError(t, s.Start())
	ctx := s.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

// ==========================
// Cron Logger Tests
// ==========================

func TestFieldsOf(t *testing.T) {
	fields := fieldsOf([]interface{}{"entry", 1, "next", "soon", "dangling"})
	assert.Equal(t, map[string]interface{}{"entry": 1, "next": "soon"}, fields)
}
