package addupcomingproject

import (
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
)

var projectStatuses = []string{
	models.ProjectStatusUpcoming,
	models.ProjectStatusLaunched,
	models.ProjectStatusOngoing,
	models.ProjectStatusCompleted,
}

func GetInputSchema() validation.JSONSchema {
	text := func(desc string, max int) validation.Property {
		return validation.Property{Type: "string", Description: desc, MaxLength: validation.IntPtr(max)}
	}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"title", "price", "address", "flatSize", "builder", "status"},
		Properties: map[string]validation.Property{
			"title":       text("Project name", 200),
			"description": text("Marketing description", 5000),
			"price":       text("Display price, e.g. 1.2 Cr onwards", 100),
			"address":     text("Site address", 500),
			"flatSize":    text("Unit sizes, e.g. 2/3 BHK", 100),
			"builder":     text("Developer name", 200),
			"status": {
				Type: "string",
				Enum: projectStatuses,
			},
			"imageUrl":       text("Cover image", 2048),
			"launchDate":     text("Launch date", 50),
			"completionDate": text("Expected completion", 50),
		},
		AdditionalProperties: true,
	}
}
