// internal/workers/notification/send-notification/handler.go
package sendnotification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/common/metrics"
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
	"estate-workers/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "send-notification"

const replyTimeout = 10 * time.Second

// Submitter creates a notification record and dispatches it.
type Submitter interface {
	Submit(ctx context.Context, req models.NotificationRequest) (*service.Submitted, error)
}

type Handler struct {
	config       *Config
	submitter    Submitter
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, submitter Submitter, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		submitter:    submitter,
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

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)

	// dispatch may outlive the job timeout; report back on a fresh deadline
	replyCtx, replyCancel := context.WithTimeout(context.Background(), replyTimeout)
	defer replyCancel()
	if err != nil {
		h.fail(replyCtx, client, job, err)
		return
	}

	h.completeJob(replyCtx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// Execute submits the request and reports the dispatch outcome.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	submitted, err := h.submitter.Submit(ctx, *input)
	if err != nil {
		return nil, err
	}

	n := submitted.Notification
	output := &Output{
		Success:        true,
		NotificationID: n.ID,
		Status:         string(n.Status),
		Message:        MessageScheduled,
	}

	if res := submitted.Dispatch; res != nil {
		output.Status = string(res.Status)
		output.Channels = Channels{
			Push:  res.SuccessCount,
			Email: res.EmailSentCount,
			SMS:   res.SMSSentCount,
		}
		output.Message = MessageSent
		if res.Status == models.StatusFailed {
			output.Success = false
			output.Message = MessageFailed
			output.Error = res.Error
		}
	}

	return output, nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, &apperrors.StandardError{
			Code:      apperrors.ErrCodeValidationFailed,
			Message:   "Failed to parse job variables",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now(),
		}
	}
	return decodeInput(variables)
}

// decodeInput validates variables against the input schema and decodes the
// known fields. Empty optional strings are treated as absent.
func decodeInput(variables map[string]interface{}) (*Input, error) {
	schema := GetInputSchema()
	result := validation.ValidateInput(variables, schema)
	if !result.Valid {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	known := make(map[string]interface{}, len(schema.Properties))
	for name := range schema.Properties {
		v, ok := variables[name]
		if !ok || v == nil || v == "" {
			continue
		}
		known[name] = v
	}

	raw, err := json.Marshal(known)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid date-time value: %v", err))
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":         job.GetKey(),
		"notificationId": output.NotificationID,
		"status":         output.Status,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := apperrors.AsStandardError(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
