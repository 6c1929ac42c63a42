package dispatch

import (
	"context"
	"errors"
	"fmt"

	"estate-workers/internal/common/metrics"
	"estate-workers/internal/models"
)

// ErrChannelUnavailable aborts a whole email or SMS phase; the channel then counts zero.
var ErrChannelUnavailable = errors.New("delivery channel unavailable")

const (
	channelPush  = "push"
	channelEmail = "email"
	channelSMS   = "sms"
)

type EmailSender interface {
	SendEmail(ctx context.Context, to string, msg models.ChannelMessage) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to string, msg models.ChannelMessage) error
}

// Disabled stands in for a channel that is not configured.
type Disabled struct{}

func (Disabled) Send(context.Context, string, *models.PushMessage) error {
	return ErrChannelUnavailable
}

func (Disabled) SendEmail(context.Context, string, models.ChannelMessage) error {
	return ErrChannelUnavailable
}

func (Disabled) SendSMS(context.Context, string, models.ChannelMessage) error {
	return ErrChannelUnavailable
}

// runChannel sends to every recipient with an address and counts successes.
// Per-recipient errors are skipped; ErrChannelUnavailable or a panic zeroes the count.
func (d *Dispatcher) runChannel(
	ctx context.Context,
	channel string,
	recipients []models.Recipient,
	address func(models.Recipient) string,
	send func(ctx context.Context, to string) error,
) (sent int) {
	log := d.logger.WithFields(map[string]interface{}{"channel": channel})

	defer func() {
		if p := recover(); p != nil {
			log.Error("channel phase panicked", map[string]interface{}{"panic": fmt.Sprint(p)})
			sent = 0
		}
	}()

	for _, r := range recipients {
		to := address(r)
		if to == "" {
			continue
		}

		err := send(ctx, to)
		switch {
		case err == nil:
			sent++
			metrics.NotificationDeliveries.WithLabelValues(channel, "delivered").Inc()
		case errors.Is(err, ErrChannelUnavailable):
			log.Warn("channel unavailable, skipping phase", map[string]interface{}{"error": err.Error()})
			return 0
		default:
			metrics.NotificationDeliveries.WithLabelValues(channel, "failed").Inc()
			log.Warn("delivery failed", map[string]interface{}{
				"recipientId": r.ID,
				"error":       err.Error(),
			})
		}
	}

	return sent
}

func (d *Dispatcher) sendEmails(ctx context.Context, n *models.Notification, recipients []models.Recipient) int {
	msg := channelMessage(n)
	return d.runChannel(ctx, channelEmail, recipients,
		func(r models.Recipient) string { return r.Email },
		func(ctx context.Context, to string) error { return d.email.SendEmail(ctx, to, msg) },
	)
}

func (d *Dispatcher) sendSMS(ctx context.Context, n *models.Notification, recipients []models.Recipient) int {
	msg := channelMessage(n)
	return d.runChannel(ctx, channelSMS, recipients,
		func(r models.Recipient) string { return r.Phone },
		func(ctx context.Context, to string) error { return d.sms.SendSMS(ctx, to, msg) },
	)
}
