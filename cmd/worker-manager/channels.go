package main

import (
	"context"

	"estate-workers/internal/common/aws"
	"estate-workers/internal/common/config"
	"estate-workers/internal/common/firebase"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/dispatch"
)

type channelSet struct {
	push  dispatch.PushSender
	email dispatch.EmailSender
	sms   dispatch.SMSSender
}

// newChannels builds the delivery transports. A channel that is disabled or
// fails to initialise is replaced by dispatch.Disabled and reported in the log.
func newChannels(ctx context.Context, cfg *config.Config, log logger.Logger) channelSet {
	set := channelSet{push: dispatch.Disabled{}, email: dispatch.Disabled{}, sms: dispatch.Disabled{}}

	if cfg.Notifications.Push.Enabled && cfg.Integrations.Firebase.Enabled {
		fcmCfg := firebase.Config{
			ProjectID:       cfg.Integrations.Firebase.ProjectID,
			CredentialsFile: cfg.Integrations.Firebase.CredentialsFile,
			RateLimitPerSec: cfg.Notifications.Push.RateLimitPerSec,
			Burst:           cfg.Notifications.Push.Burst,
			SendTimeout:     config.GetDuration(cfg.Notifications.Push.SendTimeout),
		}
		client, err := firebase.NewMessagingClient(ctx, fcmCfg)
		if err != nil {
			log.Error("push channel disabled", map[string]interface{}{"error": err.Error()})
		} else {
			set.push = firebase.NewPushSender(client, fcmCfg, log)
		}
	} else {
		log.Warn("push channel disabled by configuration", nil)
	}

	if !cfg.Notifications.Email.Enabled && !cfg.Notifications.SMS.Enabled {
		return set
	}

	awsCfg, err := aws.LoadConfig(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		log.Error("email and SMS channels disabled", map[string]interface{}{"error": err.Error()})
		return set
	}

	if cfg.Notifications.Email.Enabled {
		set.email = aws.NewEmailSender(aws.NewSESService(awsCfg), emailSender(cfg))
	}
	if cfg.Notifications.SMS.Enabled {
		set.sms = aws.NewSMSSender(aws.NewSNSService(awsCfg), smsSenderID(cfg))
	}
	return set
}

func emailSender(cfg *config.Config) string {
	if cfg.Notifications.Email.FromEmail != "" {
		return cfg.Notifications.Email.FromEmail
	}
	return cfg.Integrations.AWS.SES.FromEmail
}

func smsSenderID(cfg *config.Config) string {
	if cfg.Notifications.SMS.SenderID != "" {
		return cfg.Notifications.SMS.SenderID
	}
	return cfg.Integrations.AWS.SNS.DefaultSMSSenderID
}
