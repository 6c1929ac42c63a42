package dispatch

import (
	"strings"
	"time"

	"estate-workers/internal/models"
)

// isoMillis matches the timestamp format the mobile apps parse.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// visualImage reports whether url may be shown as the notification image.
func visualImage(url string) bool {
	return strings.HasPrefix(url, "http") && len(url) > 10
}

// BuildPushMessage builds the payload shared by every recipient of n.
// The visual image and the data image keys are gated independently.
func BuildPushMessage(n *models.Notification, now time.Time) *models.PushMessage {
	msg := &models.PushMessage{
		Title: n.Title,
		Body:  n.Body,
		Data: map[string]string{
			"type":           n.Type,
			"priority":       n.Priority,
			"actionUrl":      n.ActionURL,
			"property_id":    n.PropertyID,
			"user_id":        n.UserID,
			"notificationId": n.ID,
			"timestamp":      now.UTC().Format(isoMillis),
		},
		Hints: models.PlatformHints{
			Sound:            "default",
			AndroidChannelID: "default",
			AndroidPriority:  "high",
			ContentAvailable: true,
			MutableContent:   true,
		},
	}

	if visualImage(n.ImageURL) {
		msg.ImageURL = n.ImageURL
	}

	// Older app builds read image_url.
	if strings.HasPrefix(n.ImageURL, "http") {
		msg.Data["imageUrl"] = n.ImageURL
		msg.Data["image_url"] = n.ImageURL
	}

	return msg
}

func channelMessage(n *models.Notification) models.ChannelMessage {
	msg := models.ChannelMessage{
		NotificationID: n.ID,
		Title:          n.Title,
		Body:           n.Body,
	}
	if visualImage(n.ImageURL) {
		msg.ImageURL = n.ImageURL
	}
	return msg
}
