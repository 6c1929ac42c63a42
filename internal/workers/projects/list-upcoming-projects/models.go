// internal/workers/projects/list-upcoming-projects/models.go
package listupcomingprojects

import (
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
)

type Input struct {
	Limit  int    `json:"limit"`
	Status string `json:"status"`
	Query  string `json:"query"`
}

type Output struct {
	Success  bool              `json:"success"`
	Projects []*models.Project `json:"projects"`
	Count    int               `json:"count"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"limit": {
				Type:    "integer",
				Minimum: validation.FloatPtr(0),
			},
			"status": {
				Type:        "string",
				Description: "Project status, or all",
			},
			"query": {
				Type:        "string",
				Description: "Full-text search over title, builder, address and description",
				MaxLength:   validation.IntPtr(200),
			},
		},
		AdditionalProperties: true,
	}
}
