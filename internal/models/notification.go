// internal/models/notification.go
package models

import (
	"strings"
	"time"
)

type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusSent    NotificationStatus = "sent"
	StatusFailed  NotificationStatus = "failed"
)

const (
	DefaultPriority  = "normal"
	DefaultFrequency = "once"
)

// Audience targets. A recipient must list the target in its topics unless the
// target is TargetAllUsers.
const (
	TargetAllUsers            = "all_users"
	TargetPropertyUpdates     = "property_updates"
	TargetMarketNews          = "market_news"
	TargetNewProperties       = "new_properties"
	TargetPriceAlerts         = "price_alerts"
	TargetUrgentNotifications = "urgent_notifications"
)

var KnownTargets = []string{
	TargetAllUsers,
	TargetPropertyUpdates,
	TargetMarketNews,
	TargetNewProperties,
	TargetPriceAlerts,
	TargetUrgentNotifications,
}

// IsKnownTarget reports whether target selects any audience.
func IsKnownTarget(target string) bool {
	for _, t := range KnownTargets {
		if t == target {
			return true
		}
	}
	return false
}

// NotificationRequest is what an admin submits. Empty strings stand for absent values.
type NotificationRequest struct {
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Type         string     `json:"type"`
	Target       string     `json:"target"`
	Priority     string     `json:"priority,omitempty"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	ActionURL    string     `json:"actionUrl,omitempty"`
	PropertyID   string     `json:"propertyId,omitempty"`
	UserID       string     `json:"userId,omitempty"`
	Scheduled    bool       `json:"scheduled"`
	ScheduleTime *time.Time `json:"scheduleTime,omitempty"`
	SendEmail    bool       `json:"sendEmail"`
	SendSMS      bool       `json:"sendSMS"`
	Action       string     `json:"action,omitempty"`
	ActionText   string     `json:"actionText,omitempty"`
	Expiry       *time.Time `json:"expiry,omitempty"`
	Frequency    string     `json:"frequency,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// MissingFields lists the required fields that are empty or hold only whitespace.
func (r *NotificationRequest) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"title", r.Title},
		{"body", r.Body},
		{"type", r.Type},
		{"target", r.Target},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ApplyDefaults fills the optional fields that have a non-empty default.
func (r *NotificationRequest) ApplyDefaults() {
	if r.Priority == "" {
		r.Priority = DefaultPriority
	}
	if r.Frequency == "" {
		r.Frequency = DefaultFrequency
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if !r.Scheduled {
		r.ScheduleTime = nil
	}
}

// Notification is the persisted record tracked through pending -> sent|failed.
type Notification struct {
	ID string `json:"id"`
	NotificationRequest

	Status         NotificationStatus `json:"status"`
	SentCount      int                `json:"sentCount"`
	FailureCount   int                `json:"failureCount"`
	EmailSentCount int                `json:"emailSentCount"`
	SMSSentCount   int                `json:"smsSentCount"`
	Error          string             `json:"error,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	SentAt         *time.Time         `json:"sentAt,omitempty"`
}

// NewNotification builds a pending record from an already defaulted request.
func NewNotification(id string, req NotificationRequest, now time.Time) *Notification {
	return &Notification{
		ID:                  id,
		NotificationRequest: req,
		Status:              StatusPending,
		CreatedAt:           now.UTC(),
	}
}

// StatusUpdate is a partial update of a notification record. Nil fields are left untouched.
type StatusUpdate struct {
	Status         NotificationStatus
	SentCount      *int
	FailureCount   *int
	EmailSentCount *int
	SMSSentCount   *int
	Error          *string
	SentAt         *time.Time
}

// NotificationStats summarises the notification history for the admin dashboard.
type NotificationStats struct {
	TotalNotifications int     `json:"totalNotifications"`
	ActiveUsers        int     `json:"activeUsers"`
	SentToday          int     `json:"sentToday"`
	SuccessRate        float64 `json:"successRate"`
}
