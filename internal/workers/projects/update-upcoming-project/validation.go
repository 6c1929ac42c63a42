package updateupcomingproject

import (
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
)

// patchFields maps job variable names to the patch field they set.
var patchFields = map[string]func(*models.ProjectPatch, *string){
	"title":          func(p *models.ProjectPatch, v *string) { p.Title = v },
	"description":    func(p *models.ProjectPatch, v *string) { p.Description = v },
	"price":          func(p *models.ProjectPatch, v *string) { p.Price = v },
	"address":        func(p *models.ProjectPatch, v *string) { p.Address = v },
	"flatSize":       func(p *models.ProjectPatch, v *string) { p.FlatSize = v },
	"builder":        func(p *models.ProjectPatch, v *string) { p.Builder = v },
	"status":         func(p *models.ProjectPatch, v *string) { p.Status = v },
	"imageUrl":       func(p *models.ProjectPatch, v *string) { p.ImageURL = v },
	"launchDate":     func(p *models.ProjectPatch, v *string) { p.LaunchDate = v },
	"completionDate": func(p *models.ProjectPatch, v *string) { p.CompletionDate = v },
}

func GetInputSchema() validation.JSONSchema {
	props := map[string]validation.Property{
		"projectId": {
			Type:        "string",
			Description: "Project to update",
		},
	}
	for name := range patchFields {
		props[name] = validation.Property{Type: "string"}
	}
	props["status"] = validation.Property{
		Type: "string",
		Enum: []string{
			models.ProjectStatusUpcoming,
			models.ProjectStatusLaunched,
			models.ProjectStatusOngoing,
			models.ProjectStatusCompleted,
		},
	}

	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"projectId"},
		Properties:           props,
		AdditionalProperties: true,
	}
}
