// Package firebase delivers push messages through Firebase Cloud Messaging.
package firebase

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"estate-workers/internal/common/logger"
	"estate-workers/internal/models"
)

// MessagingClient is the part of messaging.Client the sender uses.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type Config struct {
	ProjectID       string
	CredentialsFile string
	RateLimitPerSec float64
	Burst           int
	SendTimeout     time.Duration
}

// PushSender sends one message per device token, paced by a shared limiter.
type PushSender struct {
	client  MessagingClient
	limiter *rate.Limiter
	timeout time.Duration
	logger  logger.Logger
}

// NewMessagingClient builds an FCM client from a service-account file. An empty
// file falls back to application default credentials.
func NewMessagingClient(ctx context.Context, cfg Config) (*messaging.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var appCfg *firebase.Config
	if cfg.ProjectID != "" {
		appCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return client, nil
}

func NewPushSender(client MessagingClient, cfg Config, log logger.Logger) *PushSender {
	limit := rate.Inf
	if cfg.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.RateLimitPerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &PushSender{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		timeout: cfg.SendTimeout,
		logger:  log,
	}
}

// Send delivers msg to a single token.
func (s *PushSender) Send(ctx context.Context, token string, msg *models.PushMessage) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("push rate limiter: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	id, err := s.client.Send(ctx, ToMessage(token, msg))
	if err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("token unregistered: %w", err)
		}
		return err
	}

	s.logger.Debug("push delivered", map[string]interface{}{"messageId": id})
	return nil
}

// ToMessage maps a push payload onto the FCM wire message for one token.
func ToMessage(token string, msg *models.PushMessage) *messaging.Message {
	hints := msg.Hints
	m := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title:    msg.Title,
			Body:     msg.Body,
			ImageURL: msg.ImageURL,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: hints.AndroidPriority,
			Notification: &messaging.AndroidNotification{
				Sound:     hints.Sound,
				ChannelID: hints.AndroidChannelID,
				ImageURL:  msg.ImageURL,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:            hints.Sound,
					ContentAvailable: hints.ContentAvailable,
					MutableContent:   hints.MutableContent,
				},
			},
		},
	}
	if msg.ImageURL != "" {
		m.APNS.FCMOptions = &messaging.APNSFCMOptions{ImageURL: msg.ImageURL}
	}
	return m
}
