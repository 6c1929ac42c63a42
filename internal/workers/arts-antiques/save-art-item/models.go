package saveartitem

import (
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
)

const (
	MessageAdded   = "Item added successfully"
	MessageUpdated = "Item updated successfully"
)

type Output struct {
	Success bool            `json:"success"`
	Item    *models.ArtItem `json:"item"`
	Created bool            `json:"created"`
	Message string          `json:"message"`
}

var textFields = map[string]func(*models.ArtItem) *string{
	"itemId":      func(a *models.ArtItem) *string { return &a.ID },
	"title":       func(a *models.ArtItem) *string { return &a.Title },
	"category":    func(a *models.ArtItem) *string { return &a.Category },
	"artist":      func(a *models.ArtItem) *string { return &a.Artist },
	"dimensions":  func(a *models.ArtItem) *string { return &a.Dimensions },
	"materials":   func(a *models.ArtItem) *string { return &a.Materials },
	"location":    func(a *models.ArtItem) *string { return &a.Location },
	"status":      func(a *models.ArtItem) *string { return &a.Status },
	"description": func(a *models.ArtItem) *string { return &a.Description },
}

func GetInputSchema() validation.JSONSchema {
	props := make(map[string]validation.Property, len(textFields)+4)
	for name := range textFields {
		props[name] = validation.Property{Type: "string", MaxLength: validation.IntPtr(500)}
	}
	props["description"] = validation.Property{Type: "string", MaxLength: validation.IntPtr(5000)}
	props["price"] = validation.Property{Type: "number", Minimum: validation.FloatPtr(0)}
	props["year"] = validation.Property{Type: "integer"}
	props["featured"] = validation.Property{Type: "boolean"}
	props["images"] = validation.Property{
		Type:        "array",
		Description: "Image URLs; the first is the cover",
		Items:       &validation.Property{Type: "string"},
	}

	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"title", "category", "artist", "description"},
		Properties:           props,
		AdditionalProperties: true,
	}
}
