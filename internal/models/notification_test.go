package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationRequest_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  NotificationRequest
		want []string
	}{
		{
			name: "complete",
			req:  NotificationRequest{Title: "Offer", Body: "10% off", Type: "promo", Target: TargetAllUsers},
		},
		{
			name: "whitespace only counts as missing",
			req:  NotificationRequest{Title: "  ", Body: "\t\n", Type: "promo", Target: TargetAllUsers},
			want: []string{"title", "body"},
		},
		{
			name: "empty request",
			want: []string{"title", "body", "type", "target"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.MissingFields())
		})
	}
}
