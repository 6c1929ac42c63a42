package saveartitem

import (
	"context"
	"fmt"
	"strings"
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

const TaskType = "save-art-item"

type Saver interface {
	Add(ctx context.Context, a models.ArtItem) (*models.ArtItem, error)
	Update(ctx context.Context, a models.ArtItem) (*models.ArtItem, error)
}

type Handler struct {
	config       *Config
	items        Saver
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, items Saver, log logger.Logger) *Handler {
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

	h.logger.Info("art item saved", map[string]interface{}{
		"itemId":  output.Item.ID,
		"created": output.Created,
	})
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) run(ctx context.Context, job entities.Job) (*Output, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewArtItemValidationError(fmt.Sprintf("parse job variables: %v", err))
	}
	item, err := decodeItem(variables)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, item)
}

// Execute adds the piece when it has no ID and replaces the stored one otherwise.
func (h *Handler) Execute(ctx context.Context, item models.ArtItem) (*Output, error) {
	if strings.TrimSpace(item.ID) == "" {
		created, err := h.items.Add(ctx, item)
		if err != nil {
			return nil, err
		}
		return &Output{Success: true, Item: created, Created: true, Message: MessageAdded}, nil
	}

	updated, err := h.items.Update(ctx, item)
	if err != nil {
		return nil, err
	}
	return &Output{Success: true, Item: updated, Message: MessageUpdated}, nil
}

func decodeItem(variables map[string]interface{}) (models.ArtItem, error) {
	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return models.ArtItem{}, apperrors.NewArtItemValidationError(
			fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	var a models.ArtItem
	for name, field := range textFields {
		if v, ok := variables[name].(string); ok {
			*field(&a) = v
		}
	}
	a.Price, _ = variables["price"].(float64)
	if y, ok := variables["year"].(float64); ok {
		year := int(y)
		a.Year = &year
	}
	a.Featured, _ = variables["featured"].(bool)

	items, _ := variables["images"].([]interface{})
	a.Images = make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			a.Images = append(a.Images, s)
		}
	}
	return a, nil
}
