// internal/workers/notification/recent-notifications/models.go
package recentnotifications

import (
	"time"

	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
)

type Input struct {
	Limit int `json:"limit"`
}

// Item is the dashboard view of one notification record.
type Item struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	Type           string   `json:"type"`
	Target         string   `json:"target"`
	Priority       string   `json:"priority"`
	Status         string   `json:"status"`
	Scheduled      bool     `json:"scheduled"`
	ScheduleTime   string   `json:"scheduleTime,omitempty"`
	SentCount      int      `json:"sentCount"`
	FailureCount   int      `json:"failureCount"`
	EmailSentCount int      `json:"emailSentCount"`
	SMSSentCount   int      `json:"smsSentCount"`
	Tags           []string `json:"tags"`
	Error          string   `json:"error,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	SentAt         string   `json:"sentAt,omitempty"`
}

type Output struct {
	Notifications []Item `json:"notifications"`
	Count         int    `json:"count"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"limit": {
				Type:        "integer",
				Description: "Number of records to return",
				Minimum:     validation.FloatPtr(0),
			},
		},
		AdditionalProperties: true,
	}
}

func toItem(n *models.Notification) Item {
	item := Item{
		ID:             n.ID,
		Title:          n.Title,
		Body:           n.Body,
		Type:           n.Type,
		Target:         n.Target,
		Priority:       n.Priority,
		Status:         string(n.Status),
		Scheduled:      n.Scheduled,
		SentCount:      n.SentCount,
		FailureCount:   n.FailureCount,
		EmailSentCount: n.EmailSentCount,
		SMSSentCount:   n.SMSSentCount,
		Tags:           n.Tags,
		Error:          n.Error,
		CreatedAt:      n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if n.ScheduleTime != nil {
		item.ScheduleTime = n.ScheduleTime.UTC().Format(time.RFC3339)
	}
	if n.SentAt != nil {
		item.SentAt = n.SentAt.UTC().Format(time.RFC3339)
	}
	return item
}
