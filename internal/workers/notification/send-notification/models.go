// internal/workers/notification/send-notification/models.go
package sendnotification

import "estate-workers/internal/models"

const (
	MessageSent      = "Notification sent successfully"
	MessageScheduled = "Notification scheduled successfully"
	MessageFailed    = "Notification dispatch failed"
)

type Input = models.NotificationRequest

// Channels counts successful deliveries per channel.
type Channels struct {
	Push  int `json:"push"`
	Email int `json:"email"`
	SMS   int `json:"sms"`
}

type Output struct {
	Success        bool     `json:"success"`
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	Error          string   `json:"error,omitempty"`
	Channels       Channels `json:"channels"`
}
