package listproperties

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

const TaskType = "list-properties"

type Lister interface {
	List(ctx context.Context, f models.PropertyFilter) ([]*models.Property, error)
}

type Handler struct {
	config       *Config
	properties   Lister
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, properties Lister, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		properties:   properties,
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

	input, err := parseInput(job)
	if err == nil {
		var output *Output
		if output, err = h.Execute(ctx, input); err == nil {
			err = camunda.CompleteJob(ctx, client, job, output)
			if err != nil {
				h.logger.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
				return
			}
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandardError(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	properties, err := h.properties.List(ctx, models.PropertyFilter{
		Search:   input.Search,
		Status:   input.Status,
		Looking:  input.Type,
		Category: input.Category,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = []*models.Property{}
	}
	return &Output{Success: true, Properties: properties, Count: len(properties)}, nil
}

func parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse job variables: %v", err))
	}
	return decodeInput(variables)
}

func decodeInput(variables map[string]interface{}) (*Input, error) {
	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	input := &Input{}
	if limit, ok := variables["limit"].(float64); ok {
		input.Limit = int(limit)
	}
	input.Search, _ = variables["search"].(string)
	input.Status, _ = variables["status"].(string)
	input.Type, _ = variables["type"].(string)
	input.Category, _ = variables["category"].(string)
	return input, nil
}
