// Package dispatch fans a notification record out to its audience over push,
// email and SMS, and writes the outcome back to the record.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"estate-workers/internal/common/logger"
	"estate-workers/internal/common/metrics"
	"estate-workers/internal/common/observability"
	"estate-workers/internal/models"
)

// NoEligibleRecipientsError is stored on records whose audience had no usable token.
const NoEligibleRecipientsError = "No valid FCM tokens found"

// RecipientDirectory lists the recipients subscribed to a target.
type RecipientDirectory interface {
	Recipients(ctx context.Context, target string) ([]models.Recipient, error)
}

// RecordUpdater applies a partial update to a notification record.
type RecordUpdater interface {
	UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) error
}

// PushSender delivers one message to one device token.
type PushSender interface {
	Send(ctx context.Context, token string, msg *models.PushMessage) error
}

type Options struct {
	Directory     RecipientDirectory
	Records       RecordUpdater
	Push          PushSender
	Email         EmailSender
	SMS           SMSSender
	Logger        logger.Logger
	Observability *observability.Observability
	Clock         func() time.Time
}

// Dispatcher runs dispatches. It holds no per-record state; callers must not
// dispatch the same record concurrently.
type Dispatcher struct {
	directory RecipientDirectory
	records   RecordUpdater
	push      PushSender
	email     EmailSender
	sms       SMSSender
	logger    logger.Logger
	obs       *observability.Observability
	tracing   *observability.Tracing
	clock     func() time.Time
}

func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		directory: opts.Directory,
		records:   opts.Records,
		push:      opts.Push,
		email:     opts.Email,
		sms:       opts.SMS,
		logger:    opts.Logger,
		obs:       opts.Observability,
		clock:     opts.Clock,
	}
	if d.push == nil {
		d.push = Disabled{}
	}
	if d.email == nil {
		d.email = Disabled{}
	}
	if d.sms == nil {
		d.sms = Disabled{}
	}
	if d.logger == nil {
		d.logger = logger.NewNoOpLogger()
	}
	d.logger = d.logger.WithFields(map[string]interface{}{"component": "dispatcher"})
	if d.obs != nil {
		d.tracing = d.obs.Tracing()
	}
	if d.tracing == nil {
		d.tracing = observability.NewNoopTracing()
	}
	if d.clock == nil {
		d.clock = time.Now
	}
	return d
}

// Dispatch sends n to its audience and records the outcome on the record.
// Failures end up on the record and in the Result; none are returned.
// It runs to completion even if ctx is cancelled or its deadline passes,
// so the record always leaves pending.
func (d *Dispatcher) Dispatch(ctx context.Context, n *models.Notification) *Result {
	ctx = context.WithoutCancel(ctx)
	ctx, span := d.tracing.StartSpan(ctx, "notification.dispatch", map[string]string{
		"notification.id":     n.ID,
		"notification.target": n.Target,
	})

	res := &Result{NotificationID: n.ID}
	err := d.run(ctx, n, res)
	if err != nil {
		res.Status = models.StatusFailed
		res.Error = err.Error()
		d.markFailed(ctx, n.ID, err)
	}
	observability.EndSpan(span, err)

	metrics.NotificationDispatches.WithLabelValues(string(res.Status)).Inc()
	if d.obs != nil {
		d.obs.RecordDelivered(ctx, n.Target, res.SuccessCount)
	}

	d.logger.Info("dispatch finished", map[string]interface{}{
		"notificationId": n.ID,
		"target":         n.Target,
		"status":         res.Status,
		"eligible":       res.Eligible,
		"rejected":       res.Rejected,
		"sentCount":      res.SuccessCount,
		"failureCount":   res.FailureCount,
		"emailSentCount": res.EmailSentCount,
		"smsSentCount":   res.SMSSentCount,
	})

	return res
}

func (d *Dispatcher) run(ctx context.Context, n *models.Notification, res *Result) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("dispatch panicked: %v", p)
		}
	}()

	candidates, err := d.candidates(ctx, n.Target)
	if err != nil {
		return fmt.Errorf("resolve recipients: %w", err)
	}

	eligible, rejected := splitEligible(candidates, n.Target)
	res.Eligible = len(eligible)
	res.Rejected = len(rejected)
	for _, r := range rejected {
		metrics.NotificationRecipientsRejected.Inc()
		d.logger.Debug("invalid device token format", map[string]interface{}{
			"recipientId": r.ID,
			"token":       maskToken(r.Token),
		})
	}

	if len(eligible) == 0 {
		res.Status = models.StatusFailed
		res.Error = NoEligibleRecipientsError
		d.logger.Warn("no eligible recipients", map[string]interface{}{
			"notificationId": n.ID,
			"target":         n.Target,
			"candidates":     len(candidates),
		})

		zero := 0
		reason := NoEligibleRecipientsError
		if err := d.records.UpdateStatus(ctx, n.ID, models.StatusUpdate{
			Status:    models.StatusFailed,
			Error:     &reason,
			SentCount: &zero,
		}); err != nil {
			return fmt.Errorf("update notification: %w", err)
		}
		return nil
	}

	msg := BuildPushMessage(n, d.clock())
	res.Outcomes = make([]Outcome, 0, len(eligible))
	for _, r := range eligible {
		o := d.sendPush(ctx, r, msg)
		res.Outcomes = append(res.Outcomes, o)
		if o.Delivered() {
			res.SuccessCount++
			metrics.NotificationDeliveries.WithLabelValues(channelPush, "delivered").Inc()
			continue
		}
		res.FailureCount++
		metrics.NotificationDeliveries.WithLabelValues(channelPush, "failed").Inc()
		d.logger.Warn("push send failed", map[string]interface{}{
			"recipientId": r.ID,
			"token":       maskToken(r.Token),
			"error":       o.Err.Error(),
		})
	}

	if n.SendEmail {
		res.EmailSentCount = d.sendEmails(ctx, n, eligible)
	}
	if n.SendSMS {
		res.SMSSentCount = d.sendSMS(ctx, n, eligible)
	}

	sent, failed, emails, sms := res.SuccessCount, res.FailureCount, res.EmailSentCount, res.SMSSentCount
	sentAt := d.clock().UTC()
	if err := d.records.UpdateStatus(ctx, n.ID, models.StatusUpdate{
		Status:         models.StatusSent,
		SentCount:      &sent,
		FailureCount:   &failed,
		EmailSentCount: &emails,
		SMSSentCount:   &sms,
		SentAt:         &sentAt,
	}); err != nil {
		return fmt.Errorf("update notification: %w", err)
	}

	res.Status = models.StatusSent
	return nil
}

// candidates queries the directory; unknown targets select nobody without a query.
func (d *Dispatcher) candidates(ctx context.Context, target string) ([]models.Recipient, error) {
	if !models.IsKnownTarget(target) {
		return nil, nil
	}
	return d.directory.Recipients(ctx, target)
}

func (d *Dispatcher) sendPush(ctx context.Context, r models.Recipient, msg *models.PushMessage) (o Outcome) {
	o = Outcome{RecipientID: r.ID, Token: r.Token}
	defer func() {
		if p := recover(); p != nil {
			o.Err = fmt.Errorf("push send panicked: %v", p)
		}
	}()
	o.Err = d.push.Send(ctx, r.Token, msg)
	return o
}

func (d *Dispatcher) markFailed(ctx context.Context, id string, cause error) {
	reason := cause.Error()
	d.logger.Error("dispatch failed", map[string]interface{}{
		"notificationId": id,
		"error":          reason,
	})

	if err := d.records.UpdateStatus(ctx, id, models.StatusUpdate{
		Status: models.StatusFailed,
		Error:  &reason,
	}); err != nil {
		d.logger.Error("failed to mark notification failed", map[string]interface{}{
			"notificationId": id,
			"error":          err.Error(),
		})
	}
}
