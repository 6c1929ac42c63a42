package saveproperty

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

const TaskType = "save-property"

type Saver interface {
	Add(ctx context.Context, p models.Property) (*models.Property, error)
	Update(ctx context.Context, p models.Property) (*models.Property, error)
}

type Handler struct {
	config       *Config
	properties   Saver
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, properties Saver, log logger.Logger) *Handler {
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

	h.logger.Info("property saved", map[string]interface{}{
		"propertyId": output.Property.ID,
		"created":    output.Created,
	})
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) run(ctx context.Context, job entities.Job) (*Output, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewPropertyValidationError(fmt.Sprintf("parse job variables: %v", err))
	}
	property, err := decodeProperty(variables)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, property)
}

// Execute adds the property when it has no ID and replaces the stored one otherwise.
func (h *Handler) Execute(ctx context.Context, property models.Property) (*Output, error) {
	if strings.TrimSpace(property.ID) == "" {
		created, err := h.properties.Add(ctx, property)
		if err != nil {
			return nil, err
		}
		return &Output{Success: true, Property: created, Created: true, Message: MessageAdded}, nil
	}

	updated, err := h.properties.Update(ctx, property)
	if err != nil {
		return nil, err
	}
	return &Output{Success: true, Property: updated, Message: MessageUpdated}, nil
}

func decodeProperty(variables map[string]interface{}) (models.Property, error) {
	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return models.Property{}, apperrors.NewPropertyValidationError(
			fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	var p models.Property
	for name, field := range textFields {
		if v, ok := variables[name].(string); ok {
			*field(&p) = v
		}
	}
	if n, ok := variables["coveredParking"].(float64); ok {
		p.CoveredParking = int(n)
	}
	if n, ok := variables["openParking"].(float64); ok {
		p.OpenParking = int(n)
	}
	p.Amenities = stringList(variables["amenities"])
	p.Photos = stringList(variables["propertyPhotos"])
	return p, nil
}

func stringList(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
