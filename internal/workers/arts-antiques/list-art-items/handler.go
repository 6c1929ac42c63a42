package listartitems

import (
	"context"
	"fmt"
	"time"

	"estate-workers/internal/common/camunda"
	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/common/metrics"
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "list-art-items"

type Lister interface {
	List(ctx context.Context, f models.ArtItemFilter) ([]*models.ArtItem, error)
}

type Handler struct {
	config       *Config
	items        Lister
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, items Lister, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		items:        items,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.run(ctx, job)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandardError(err).Code)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) run(ctx context.Context, job entities.Job) (*Output, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse job variables: %v", err))
	}
	input, err := decodeInput(variables)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	items, err := h.items.List(ctx, models.ArtItemFilter{
		Search:   input.Search,
		Category: input.Category,
		Status:   input.Status,
		Featured: input.Featured,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.ArtItem{}
	}
	return &Output{Success: true, Items: items, Count: len(items)}, nil
}

func decodeInput(variables map[string]interface{}) (*Input, error) {
	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	input := &Input{}
	input.Search, _ = variables["search"].(string)
	input.Category, _ = variables["category"].(string)
	input.Status, _ = variables["status"].(string)
	if featured, ok := variables["featured"].(bool); ok {
		input.Featured = &featured
	}
	if limit, ok := variables["limit"].(float64); ok {
		input.Limit = int(limit)
	}
	return input, nil
}
