// internal/workers/notification/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"estate-workers/internal/common/config"
	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/dispatch"
	"estate-workers/internal/models"
	"estate-workers/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, req models.NotificationRequest) (*service.Submitted, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Submitted), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createTestConfig() *Config {
	return &Config{Enabled: true, Timeout: 5 * time.Second}
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "admin-notification",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func validVariables() map[string]interface{} {
	return map[string]interface{}{
		"title":  "New listing",
		"body":   "A penthouse just went live",
		"type":   "property",
		"target": "new_properties",
	}
}

func pendingRecord(id string) *models.Notification {
	return &models.Notification{ID: id, Status: models.StatusPending}
}

// ==========================
// Input Parsing Tests
// ==========================

func TestParseInput_Valid(t *testing.T) {
	vars := validVariables()
	vars["scheduled"] = true
	vars["scheduleTime"] = "2025-03-14T09:30:00Z"
	vars["sendEmail"] = true
	vars["tags"] = []interface{}{"luxury", "new"}
	vars["imageUrl"] = ""
	vars["processVar"] = "ignored"

	h := NewHandler(createTestConfig(), &MockSubmitter{}, logger.NewTestLogger(t))
	input, err := h.parseInput(createMockJob(1, vars))

	require.NoError(t, err)
	assert.Equal(t, "New listing", input.Title)
	assert.Equal(t, "new_properties", input.Target)
	assert.True(t, input.Scheduled)
	require.NotNil(t, input.ScheduleTime)
	assert.True(t, input.ScheduleTime.Equal(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)))
	assert.True(t, input.SendEmail)
	assert.False(t, input.SendSMS)
	assert.Equal(t, []string{"luxury", "new"}, input.Tags)
	assert.Empty(t, input.ImageURL)
}

func TestParseInput_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing target", func(v map[string]interface{}) { delete(v, "target") }},
		{"blank title", func(v map[string]interface{}) { v["title"] = "   " }},
		{"scheduled not boolean", func(v map[string]interface{}) { v["scheduled"] = "yes" }},
		{"tag not string", func(v map[string]interface{}) { v["tags"] = []interface{}{1} }},
		{"bad schedule time", func(v map[string]interface{}) { v["scheduleTime"] = "tomorrow" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := validVariables()
			tt.mutate(vars)

			_, err := decodeInput(vars)

			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.AsStandardError(err).Code)
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Dispatched(t *testing.T) {
	submitter := &MockSubmitter{}
	input := &Input{Title: "t", Body: "b", Type: "property", Target: "all_users", SendEmail: true}
	submitter.On("Submit", mock.Anything, *input).Return(&service.Submitted{
		Notification: pendingRecord("n-1"),
		Dispatch: &dispatch.Result{
			NotificationID: "n-1",
			Status:         models.StatusSent,
			SuccessCount:   2,
			FailureCount:   1,
			EmailSentCount: 3,
		},
	}, nil)

	h := NewHandler(createTestConfig(), submitter, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, "n-1", output.NotificationID)
	assert.Equal(t, "sent", output.Status)
	assert.Equal(t, MessageSent, output.Message)
	assert.Equal(t, Channels{Push: 2, Email: 3, SMS: 0}, output.Channels)
	submitter.AssertExpectations(t)
}

func TestHandler_Execute_Scheduled(t *testing.T) {
	submitter := &MockSubmitter{}
	submitter.On("Submit", mock.Anything, mock.Anything).Return(&service.Submitted{
		Notification: pendingRecord("n-2"),
	}, nil)

	h := NewHandler(createTestConfig(), submitter, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{Scheduled: true})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, "pending", output.Status)
	assert.Equal(t, MessageScheduled, output.Message)
	assert.Equal(t, Channels{}, output.Channels)
}

func TestHandler_Execute_DispatchFailed(t *testing.T) {
	submitter := &MockSubmitter{}
	submitter.On("Submit", mock.Anything, mock.Anything).Return(&service.Submitted{
		Notification: pendingRecord("n-3"),
		Dispatch: &dispatch.Result{
			NotificationID: "n-3",
			Status:         models.StatusFailed,
			Error:          dispatch.NoEligibleRecipientsError,
		},
	}, nil)

	h := NewHandler(createTestConfig(), submitter, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.False(t, output.Success)
	assert.Equal(t, "failed", output.Status)
	assert.Equal(t, MessageFailed, output.Message)
	assert.Equal(t, dispatch.NoEligibleRecipientsError, output.Error)
}

func TestHandler_Execute_SubmitError(t *testing.T) {
	submitter := &MockSubmitter{}
	submitter.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewNotificationCreateFailedError(errors.New("connection refused")))

	h := NewHandler(createTestConfig(), submitter, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{})

	assert.Nil(t, output)
	require.Error(t, err)
	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeNotificationCreateFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

// ==========================
// Config Tests
// ==========================

func TestFromWorkerConfig(t *testing.T) {
	cfg := FromWorkerConfig(config.WorkerConfig{Enabled: true, Timeout: 2500})
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.NoError(t, cfg.Validate())

	cfg = FromWorkerConfig(config.WorkerConfig{})
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}
