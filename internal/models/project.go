// internal/models/project.go
package models

import "time"

const (
	ProjectStatusUpcoming  = "upcoming"
	ProjectStatusLaunched  = "launched"
	ProjectStatusOngoing   = "ongoing"
	ProjectStatusCompleted = "completed"
)

// Project is an upcoming real-estate project listed in the app.
type Project struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Price          string    `json:"price"`
	Address        string    `json:"address"`
	FlatSize       string    `json:"flatSize"`
	Builder        string    `json:"builder"`
	Status         string    `json:"status"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	LaunchDate     string    `json:"launchDate,omitempty"`
	CompletionDate string    `json:"completionDate,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProjectPatch carries the fields of a partial project update.
type ProjectPatch struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	Price          *string `json:"price,omitempty"`
	Address        *string `json:"address,omitempty"`
	FlatSize       *string `json:"flatSize,omitempty"`
	Builder        *string `json:"builder,omitempty"`
	Status         *string `json:"status,omitempty"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	LaunchDate     *string `json:"launchDate,omitempty"`
	CompletionDate *string `json:"completionDate,omitempty"`
}

// Apply copies the set fields of p onto project.
func (p ProjectPatch) Apply(project *Project) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&project.Title, p.Title)
	set(&project.Description, p.Description)
	set(&project.Price, p.Price)
	set(&project.Address, p.Address)
	set(&project.FlatSize, p.FlatSize)
	set(&project.Builder, p.Builder)
	set(&project.Status, p.Status)
	set(&project.ImageURL, p.ImageURL)
	set(&project.LaunchDate, p.LaunchDate)
	set(&project.CompletionDate, p.CompletionDate)
}

func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Address == nil &&
		p.FlatSize == nil && p.Builder == nil && p.Status == nil && p.ImageURL == nil &&
		p.LaunchDate == nil && p.CompletionDate == nil
}

type ProjectStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
}
