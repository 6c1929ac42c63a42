package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPropertyAnnouncement(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	p := &Property{
		ID:              "prop-1",
		PropertyLooking: PropertyLookingRent,
		PropertyType:    "Apartment",
		City:            "Pune",
		Locality:        "Baner",
		Bedrooms:        "3",
		ExpectedPrice:   "45000",
		Description:     strings.Repeat("é", 120),
		Photos:          []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"},
	}

	n := NewPropertyAnnouncement("ian-1", p, now)

	assert.Equal(t, "ian-1", n.ID)
	assert.Equal(t, "New Property: Apartment rent", n.Title)
	assert.Equal(t, "3 BHK in Baner, Pune. "+strings.Repeat("é", 100)+"...", n.Subtitle)
	assert.Equal(t, InAppItemProperty, n.ItemType)
	assert.Equal(t, "prop-1", n.ItemID)
	assert.Equal(t, "https://cdn.example.com/1.jpg", n.ImageURL)
	assert.Len(t, n.Images, 2)
	assert.Equal(t, "45000", n.Price)
	assert.Equal(t, "Baner, Pune", n.Location)
	assert.Equal(t, "View Property", n.ActionText)
	assert.True(t, n.Active)
	assert.Equal(t, map[string]string{"itemType": "property", "itemId": "prop-1"}, n.Data)
	assert.Equal(t, now, n.CreatedAt)
}

func TestNewPropertyAnnouncement_NoPhotos(t *testing.T) {
	n := NewPropertyAnnouncement("ian-2", &Property{ID: "prop-2", Description: "Corner plot"}, time.Now())

	assert.Empty(t, n.ImageURL)
	assert.NotNil(t, n.Images)
	assert.Contains(t, n.Subtitle, "Corner plot...")
}
