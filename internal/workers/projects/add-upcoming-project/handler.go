// internal/workers/projects/add-upcoming-project/handler.go
package addupcomingproject

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

const TaskType = "add-upcoming-project"

type Adder interface {
	Add(ctx context.Context, p models.Project) (*models.Project, error)
}

type Handler struct {
	config       *Config
	projects     Adder
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, projects Adder, log logger.Logger) *Handler {
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

	h.logger.Info("project added", map[string]interface{}{
		"projectId": output.Project.ID,
		"status":    output.Project.Status,
	})
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) run(ctx context.Context, job entities.Job) (*Output, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewProjectValidationError(fmt.Sprintf("parse job variables: %v", err))
	}
	project, err := decodeProject(variables)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, project)
}

func (h *Handler) Execute(ctx context.Context, project models.Project) (*Output, error) {
	created, err := h.projects.Add(ctx, project)
	if err != nil {
		return nil, err
	}
	return &Output{Success: true, Project: created, Message: MessageAdded}, nil
}

func decodeProject(variables map[string]interface{}) (models.Project, error) {
	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return models.Project{}, apperrors.NewProjectValidationError(
			fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	str := func(key string) string {
		s, _ := variables[key].(string)
		return s
	}
	return models.Project{
		Title:          str("title"),
		Description:    str("description"),
		Price:          str("price"),
		Address:        str("address"),
		FlatSize:       str("flatSize"),
		Builder:        str("builder"),
		Status:         str("status"),
		ImageURL:       str("imageUrl"),
		LaunchDate:     str("launchDate"),
		CompletionDate: str("completionDate"),
	}, nil
}
