// internal/models/push.go
package models

// PushMessage is the payload shared by every push send of one dispatch.
type PushMessage struct {
	Title string
	Body  string
	// ImageURL is set only when the image passed the visual check.
	ImageURL string
	Data     map[string]string
	Hints    PlatformHints
}

// PlatformHints are the per-platform delivery options sent with every message.
type PlatformHints struct {
	Sound            string
	AndroidChannelID string
	AndroidPriority  string
	ContentAvailable bool
	MutableContent   bool
}

// ChannelMessage is the content delivered over email and SMS.
type ChannelMessage struct {
	NotificationID string
	Title          string
	Body           string
	ImageURL       string
}
