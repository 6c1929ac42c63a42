// Package service holds the operations shared by the Zeebe workers and the HTTP API.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/dispatch"
	"estate-workers/internal/models"
)

type NotificationRecords interface {
	Create(ctx context.Context, n *models.Notification) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, n *models.Notification) *dispatch.Result
}

// Submitted is the outcome of a submission. Dispatch is nil for scheduled records.
type Submitted struct {
	Notification *models.Notification
	Dispatch     *dispatch.Result
}

type NotificationService struct {
	records    NotificationRecords
	dispatcher Dispatcher
	logger     logger.Logger
	newID      func() string
	now        func() time.Time
}

func NewNotificationService(records NotificationRecords, dispatcher Dispatcher, log logger.Logger) *NotificationService {
	return &NotificationService{
		records:    records,
		dispatcher: dispatcher,
		logger:     log.WithFields(map[string]interface{}{"component": "notification-service"}),
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Submit validates req, stores a pending record and dispatches it unless it is scheduled.
func (s *NotificationService) Submit(ctx context.Context, req models.NotificationRequest) (*Submitted, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}
	req.ApplyDefaults()
	if req.Scheduled && req.ScheduleTime == nil {
		return nil, apperrors.NewValidationError("scheduleTime is required when scheduled is true")
	}

	n := models.NewNotification(s.newID(), req, s.now())
	if err := s.records.Create(ctx, n); err != nil {
		return nil, apperrors.NewNotificationCreateFailedError(err)
	}

	s.logger.Info("notification created", map[string]interface{}{
		"notificationId": n.ID,
		"type":           n.Type,
		"target":         n.Target,
		"scheduled":      n.Scheduled,
		"sendEmail":      n.SendEmail,
		"sendSMS":        n.SendSMS,
		"hasImage":       n.ImageURL != "",
	})

	out := &Submitted{Notification: n}
	if !n.Scheduled {
		out.Dispatch = s.dispatcher.Dispatch(ctx, n)
	}
	return out, nil
}
