package models

import "time"

const ArtStatusActive = "active"

// ArtItem is a piece in the arts and antiques catalogue.
type ArtItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Artist      string    `json:"artist"`
	Price       float64   `json:"price"`
	Year        *int      `json:"year"`
	Dimensions  string    `json:"dimensions"`
	Materials   string    `json:"materials"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Featured    bool      `json:"featured"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Views       int       `json:"views"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ArtItemFilter struct {
	Search   string
	Category string
	Status   string
	Featured *bool
	Limit    int
}

type ArtItemStats struct {
	TotalItems    int `json:"totalItems"`
	FeaturedItems int `json:"featuredItems"`
	TotalViews    int `json:"totalViews"`
	TotalArtists  int `json:"totalArtists"`
}
