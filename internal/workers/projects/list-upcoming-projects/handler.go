// internal/workers/projects/list-upcoming-projects/handler.go
package listupcomingprojects

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
	"estate-workers/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "list-upcoming-projects"

type Lister interface {
	List(ctx context.Context, q service.ProjectQuery) ([]*models.Project, error)
}

type Handler struct {
	config       *Config
	projects     Lister
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, projects Lister, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		projects:     projects,
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
	projects, err := h.projects.List(ctx, service.ProjectQuery{
		Status: input.Status,
		Text:   input.Query,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	return &Output{Success: true, Projects: projects, Count: len(projects)}, nil
}

func parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse job variables: %v", err))
	}

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	input := &Input{}
	if limit, ok := variables["limit"].(float64); ok {
		input.Limit = int(limit)
	}
	input.Status, _ = variables["status"].(string)
	input.Query, _ = variables["query"].(string)
	return input, nil
}
