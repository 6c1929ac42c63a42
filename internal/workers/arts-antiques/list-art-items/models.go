package listartitems

import (
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
)

type Input struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Featured *bool  `json:"featured,omitempty"`
	Limit    int    `json:"limit"`
}

type Output struct {
	Success bool              `json:"success"`
	Items   []*models.ArtItem `json:"items"`
	Count   int               `json:"count"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"search": {
				Type:        "string",
				Description: "Matches title, artist, category or description",
				MaxLength:   validation.IntPtr(200),
			},
			"category": {Type: "string", MaxLength: validation.IntPtr(100)},
			"status":   {Type: "string", MaxLength: validation.IntPtr(50)},
			"featured": {Type: "boolean"},
			"limit":    {Type: "integer", Minimum: validation.FloatPtr(0)},
		},
		AdditionalProperties: true,
	}
}
