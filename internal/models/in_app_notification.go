package models

import (
	"fmt"
	"time"
)

const (
	InAppItemProperty = "property"

	announcementExcerpt = 100
)

// InAppNotification is a card shown in the app's notification feed.
type InAppNotification struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Subtitle   string            `json:"subtitle"`
	ItemType   string            `json:"itemType"`
	ItemID     string            `json:"itemId"`
	ImageURL   string            `json:"imageUrl"`
	Images     []string          `json:"images"`
	Price      string            `json:"price"`
	Location   string            `json:"location"`
	ActionText string            `json:"actionText"`
	Active     bool              `json:"active"`
	Data       map[string]string `json:"data"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// NewPropertyAnnouncement builds the feed card published when a property is listed.
func NewPropertyAnnouncement(id string, p *Property, now time.Time) *InAppNotification {
	location := fmt.Sprintf("%s, %s", p.Locality, p.City)

	excerpt := []rune(p.Description)
	if len(excerpt) > announcementExcerpt {
		excerpt = excerpt[:announcementExcerpt]
	}

	images := p.Photos
	if images == nil {
		images = []string{}
	}
	var cover string
	if len(images) > 0 {
		cover = images[0]
	}

	return &InAppNotification{
		ID:         id,
		Title:      fmt.Sprintf("New Property: %s %s", p.PropertyType, p.PropertyLooking),
		Subtitle:   fmt.Sprintf("%s BHK in %s. %s...", p.Bedrooms, location, string(excerpt)),
		ItemType:   InAppItemProperty,
		ItemID:     p.ID,
		ImageURL:   cover,
		Images:     images,
		Price:      p.ExpectedPrice,
		Location:   location,
		ActionText: "View Property",
		Active:     true,
		Data:       map[string]string{"itemType": InAppItemProperty, "itemId": p.ID},
		CreatedAt:  now,
	}
}
