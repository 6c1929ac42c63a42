// internal/workers/projects/update-upcoming-project/handler.go
package updateupcomingproject

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

const TaskType = "update-upcoming-project"

type Updater interface {
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
}

type Handler struct {
	config       *Config
	projects     Updater
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, projects Updater, log logger.Logger) *Handler {
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
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) run(ctx context.Context, job entities.Job) (*Output, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewProjectValidationError(fmt.Sprintf("parse job variables: %v", err))
	}
	input, err := decodeInput(variables)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

// Execute applies the patch; fields absent from the job keep their stored value.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	project, err := h.projects.Update(ctx, input.ProjectID, input.Patch)
	if err != nil {
		return nil, err
	}

	h.logger.Info("project updated", map[string]interface{}{
		"projectId": project.ID,
		"noChanges": input.Patch.IsEmpty(),
	})
	return &Output{Success: true, Project: project, Message: MessageUpdated}, nil
}

func decodeInput(variables map[string]interface{}) (*Input, error) {
	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, apperrors.NewProjectValidationError(
			fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	input := &Input{ProjectID: variables["projectId"].(string)}
	for name, set := range patchFields {
		if v, ok := variables[name].(string); ok {
			value := v
			set(&input.Patch, &value)
		}
	}
	return input, nil
}
