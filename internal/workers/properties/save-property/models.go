package saveproperty

import (
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
)

const (
	MessageAdded   = "Property added successfully"
	MessageUpdated = "Property updated successfully"
)

type Output struct {
	Success  bool             `json:"success"`
	Property *models.Property `json:"property"`
	Created  bool             `json:"created"`
	Message  string           `json:"message"`
}

// textFields maps job variables to the string fields of a property.
var textFields = map[string]func(*models.Property) *string{
	"propertyId":         func(p *models.Property) *string { return &p.ID },
	"propertyLooking":    func(p *models.Property) *string { return &p.PropertyLooking },
	"category":           func(p *models.Property) *string { return &p.Category },
	"propertyType":       func(p *models.Property) *string { return &p.PropertyType },
	"city":               func(p *models.Property) *string { return &p.City },
	"locality":           func(p *models.Property) *string { return &p.Locality },
	"subLocality":        func(p *models.Property) *string { return &p.SubLocality },
	"plotArea":           func(p *models.Property) *string { return &p.PlotArea },
	"plotAreaUnit":       func(p *models.Property) *string { return &p.PlotAreaUnit },
	"builtUpArea":        func(p *models.Property) *string { return &p.BuiltUpArea },
	"superBuiltUpArea":   func(p *models.Property) *string { return &p.SuperBuiltUpArea },
	"totalFloors":        func(p *models.Property) *string { return &p.TotalFloors },
	"noOfBedrooms":       func(p *models.Property) *string { return &p.Bedrooms },
	"noOfBathrooms":      func(p *models.Property) *string { return &p.Bathrooms },
	"noOfBalconies":      func(p *models.Property) *string { return &p.Balconies },
	"availabilityStatus": func(p *models.Property) *string { return &p.AvailabilityStatus },
	"ownership":          func(p *models.Property) *string { return &p.Ownership },
	"expectedPrice":      func(p *models.Property) *string { return &p.ExpectedPrice },
	"description":        func(p *models.Property) *string { return &p.Description },
	"contactName":        func(p *models.Property) *string { return &p.ContactName },
	"contactPhone":       func(p *models.Property) *string { return &p.ContactPhone },
	"contactEmail":       func(p *models.Property) *string { return &p.ContactEmail },
}

func GetInputSchema() validation.JSONSchema {
	props := make(map[string]validation.Property, len(textFields)+4)
	for name := range textFields {
		props[name] = validation.Property{Type: "string", MaxLength: validation.IntPtr(500)}
	}
	props["description"] = validation.Property{Type: "string", MaxLength: validation.IntPtr(5000)}
	props["propertyLooking"] = validation.Property{
		Type: "string",
		Enum: []string{models.PropertyLookingBuy, models.PropertyLookingRent},
	}
	props["coveredParking"] = validation.Property{Type: "integer", Minimum: validation.FloatPtr(0)}
	props["openParking"] = validation.Property{Type: "integer", Minimum: validation.FloatPtr(0)}
	props["amenities"] = validation.Property{Type: "array", Items: &validation.Property{Type: "string"}}
	props["propertyPhotos"] = validation.Property{
		Type:        "array",
		Description: "Image URLs; the first is the cover",
		Items:       &validation.Property{Type: "string"},
	}

	return validation.JSONSchema{
		Type: "object",
		Required: []string{
			"propertyLooking", "category", "propertyType", "city", "locality",
			"expectedPrice", "contactName", "contactPhone",
		},
		Properties:           props,
		AdditionalProperties: true,
	}
}
