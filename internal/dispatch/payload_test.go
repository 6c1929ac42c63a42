package dispatch

import (
	"testing"

	"estate-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildPushMessage_DataPayload(t *testing.T) {
	n := newNotification(models.TargetAllUsers)
	n.ActionURL = "app://property/42"
	n.PropertyID = "42"

	msg := BuildPushMessage(n, fixedNow)

	assert.Equal(t, "New listing", msg.Title)
	assert.Equal(t, "A penthouse just went live", msg.Body)
	assert.Equal(t, map[string]string{
		"type":           "property",
		"priority":       "normal",
		"actionUrl":      "app://property/42",
		"property_id":    "42",
		"user_id":        "",
		"notificationId": "n-1",
		"timestamp":      "2025-03-14T09:30:00.000Z",
	}, msg.Data)
}

func TestBuildPushMessage_PlatformHints(t *testing.T) {
	msg := BuildPushMessage(newNotification(models.TargetAllUsers), fixedNow)

	assert.Equal(t, models.PlatformHints{
		Sound:            "default",
		AndroidChannelID: "default",
		AndroidPriority:  "high",
		ContentAvailable: true,
		MutableContent:   true,
	}, msg.Hints)
}

func TestBuildPushMessage_ImageGates(t *testing.T) {
	tests := []struct {
		name       string
		imageURL   string
		wantVisual string
		wantData   bool
	}{
		{"no image", "", "", false},
		{"ftp url", "ftp://x", "", false},
		{"long ftp url", "ftp://cdn.example.com/a.png", "", false},
		{"https url", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png", true},
		{"short http url", "http://a.b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNotification(models.TargetAllUsers)
			n.ImageURL = tt.imageURL

			msg := BuildPushMessage(n, fixedNow)

			assert.Equal(t, tt.wantVisual, msg.ImageURL)
			_, hasImage := msg.Data["imageUrl"]
			_, hasAlt := msg.Data["image_url"]
			assert.Equal(t, tt.wantData, hasImage)
			assert.Equal(t, tt.wantData, hasAlt)
			if tt.wantData {
				assert.Equal(t, tt.imageURL, msg.Data["imageUrl"])
				assert.Equal(t, tt.imageURL, msg.Data["image_url"])
			}
		})
	}
}

func TestChannelMessage_DropsInvalidImage(t *testing.T) {
	n := newNotification(models.TargetAllUsers)
	n.ImageURL = "ftp://x"

	assert.Empty(t, channelMessage(n).ImageURL)

	n.ImageURL = "https://cdn.example.com/a.png"
	assert.Equal(t, "https://cdn.example.com/a.png", channelMessage(n).ImageURL)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "short", maskToken("short"))
	assert.Equal(t, "dQw4w9WgXcQ:APA91bHu...", maskToken("dQw4w9WgXcQ:APA91bHun4MxP5egoKMwt2KZFBaFUH"))
}
