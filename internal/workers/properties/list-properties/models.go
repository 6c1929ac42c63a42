package listproperties

import (
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
)

type Input struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Limit    int    `json:"limit"`
}

type Output struct {
	Success    bool               `json:"success"`
	Properties []*models.Property `json:"properties"`
	Count      int                `json:"count"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"search": {
				Type:        "string",
				Description: "Matches city, locality, contact name or property type",
				MaxLength:   validation.IntPtr(200),
			},
			"status": {
				Type: "string",
				Enum: []string{
					models.StatusFilterAll, models.StatusFilterActive,
					models.StatusFilterInactive, models.StatusFilterPending,
				},
			},
			"type": {
				Type: "string",
				Enum: []string{models.PropertyLookingBuy, models.PropertyLookingRent},
			},
			"category": {Type: "string"},
			"limit": {
				Type:    "integer",
				Minimum: validation.FloatPtr(0),
			},
		},
		AdditionalProperties: true,
	}
}
