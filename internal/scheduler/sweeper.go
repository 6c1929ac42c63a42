// Package scheduler periodically dispatches scheduled notifications that have come due.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"estate-workers/internal/common/logger"
	"estate-workers/internal/common/metrics"
	"estate-workers/internal/dispatch"
	"estate-workers/internal/models"
)

const (
	defaultSpec     = "@every 1m"
	defaultClaimTTL = 10 * time.Minute
	defaultBatch    = 100

	claimKeyPrefix = "dispatch:claim:"
)

// DueSource lists pending scheduled notifications whose time has come.
type DueSource interface {
	DueScheduled(ctx context.Context, now time.Time, limit int) ([]*models.Notification, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, n *models.Notification) *dispatch.Result
}

// SweepStats summarises one sweep.
type SweepStats struct {
	Due        int
	Dispatched int
	Skipped    int
}

// Sweeper claims each due record in Redis before dispatching it, so overlapping
// sweeps and replicas dispatch a record at most once per claim TTL.
type Sweeper struct {
	source     DueSource
	dispatcher Dispatcher
	redis      *redis.Client
	cron       *cron.Cron
	now        func() time.Time
	logger     logger.Logger

	spec     string
	claimTTL time.Duration
	batch    int
}

type Option func(*Sweeper)

// WithCron injects a preconfigured cron instance.
func WithCron(c *cron.Cron) Option {
	return func(s *Sweeper) {
		if c != nil {
			s.cron = c
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

func WithSchedule(spec string) Option {
	return func(s *Sweeper) {
		if spec != "" {
			s.spec = spec
		}
	}
}

func WithClaimTTL(ttl time.Duration) Option {
	return func(s *Sweeper) {
		if ttl > 0 {
			s.claimTTL = ttl
		}
	}
}

func WithBatch(n int) Option {
	return func(s *Sweeper) {
		if n > 0 {
			s.batch = n
		}
	}
}

func NewSweeper(source DueSource, dispatcher Dispatcher, rdb *redis.Client, log logger.Logger, opts ...Option) *Sweeper {
	s := &Sweeper{
		source:     source,
		dispatcher: dispatcher,
		redis:      rdb,
		now:        time.Now,
		logger:     log.WithFields(map[string]interface{}{"component": "scheduler"}),
		spec:       defaultSpec,
		claimTTL:   defaultClaimTTL,
		batch:      defaultBatch,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(NewCronLogger(s.logger)))
	}
	return s
}

// Start registers the sweep and launches the cron scheduler.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddJob(s.spec, cron.NewChain(cron.SkipIfStillRunning(NewCronLogger(s.logger))).Then(cron.FuncJob(func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("scheduled sweep failed", map[string]interface{}{"error": err.Error()})
		}
	})))
	if err != nil {
		return fmt.Errorf("register sweep %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", map[string]interface{}{"spec": s.spec})
	return nil
}

// Stop halts the scheduler; the returned context is done once a running sweep finishes.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce dispatches every due record this process manages to claim.
func (s *Sweeper) RunOnce(ctx context.Context) (stats SweepStats, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sweep panicked: %v", p)
		}
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.SchedulerSweeps.WithLabelValues(result).Inc()
	}()

	due, err := s.source.DueScheduled(ctx, s.now().UTC(), s.batch)
	if err != nil {
		return stats, fmt.Errorf("load due notifications: %w", err)
	}
	stats.Due = len(due)

	for _, n := range due {
		claimed, err := s.claim(ctx, n.ID)
		if err != nil {
			s.logger.Warn("claim failed, skipping", map[string]interface{}{
				"notificationId": n.ID,
				"error":          err.Error(),
			})
			stats.Skipped++
			continue
		}
		if !claimed {
			stats.Skipped++
			continue
		}

		res := s.dispatcher.Dispatch(ctx, n)
		stats.Dispatched++
		s.logger.Info("scheduled notification dispatched", map[string]interface{}{
			"notificationId": n.ID,
			"status":         res.Status,
		})
	}

	if stats.Due > 0 {
		s.logger.Info("sweep finished", map[string]interface{}{
			"due":        stats.Due,
			"dispatched": stats.Dispatched,
			"skipped":    stats.Skipped,
		})
	}
	return stats, nil
}

func (s *Sweeper) claim(ctx context.Context, id string) (bool, error) {
	if s.redis == nil {
		return false, errors.New("redis client not configured")
	}
	return s.redis.SetNX(ctx, ClaimKey(id), s.now().UTC().Format(time.RFC3339), s.claimTTL).Result()
}

func ClaimKey(id string) string {
	return claimKeyPrefix + id
}
