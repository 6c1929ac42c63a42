package listusers

import (
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
)

type Input struct {
	Search  string `json:"search"`
	Status  string `json:"status"`
	Profile string `json:"profile"`
	Sort    string `json:"sort"`
	Limit   int    `json:"limit"`
}

type Output struct {
	Success bool           `json:"success"`
	Users   []*models.User `json:"users"`
	Count   int            `json:"count"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"search": {
				Type:        "string",
				Description: "Matches name, email or phone number",
				MaxLength:   validation.IntPtr(200),
			},
			"status": {
				Type: "string",
				Enum: []string{models.StatusFilterAll, models.StatusFilterActive, models.StatusFilterInactive},
			},
			"profile": {
				Type: "string",
				Enum: []string{models.StatusFilterAll, models.ProfileFilterCompleted, models.ProfileFilterIncomplete},
			},
			"sort": {
				Type: "string",
				Enum: []string{models.SortNewest, models.SortOldest},
			},
			"limit": {
				Type:    "integer",
				Minimum: validation.FloatPtr(0),
			},
		},
		AdditionalProperties: true,
	}
}
