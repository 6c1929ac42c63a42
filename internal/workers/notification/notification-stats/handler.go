// internal/workers/notification/notification-stats/handler.go
package notificationstats

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/common/metrics"
	"estate-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const TaskType = "notification-stats"

// StatsSource aggregates the counters. since is the start of the current UTC day.
type StatsSource interface {
	Stats(ctx context.Context, since time.Time) (*models.NotificationStats, error)
}

type Handler struct {
	config       *Config
	source       StatsSource
	redis        *redis.Client
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, source StatsSource, rdb *redis.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
		redis:        rdb,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := job.GetVariablesAs(&input); err != nil {
		// stats take no required input; unreadable variables fall back to the cache
		h.logger.Warn("ignoring unreadable job variables", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandardError(err).Code)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err.Error()})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err.Error()})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// Execute serves the stats from Redis when fresh and recomputes them otherwise.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !input.BypassCache {
		if stats, ok := h.cached(ctx); ok {
			return &Output{NotificationStats: *stats, Cached: true}, nil
		}
	}

	stats, err := h.source.Stats(ctx, StartOfDay(h.now()))
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("notification_stats", err)
	}

	h.store(ctx, stats)
	return &Output{NotificationStats: *stats}, nil
}

func (h *Handler) cached(ctx context.Context) (*models.NotificationStats, bool) {
	if h.redis == nil || h.config.CacheTTL == 0 {
		return nil, false
	}

	raw, err := h.redis.Get(ctx, CacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		h.logger.Warn("stats cache read failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}

	var stats models.NotificationStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		h.logger.Warn("discarding malformed stats cache entry", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return &stats, true
}

func (h *Handler) store(ctx context.Context, stats *models.NotificationStats) {
	if h.redis == nil || h.config.CacheTTL == 0 {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, CacheKey, string(data), h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("stats cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// StartOfDay returns midnight UTC of the day containing t.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
