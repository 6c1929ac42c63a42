package models

import "time"

const (
	PropertyLookingBuy  = "buy"
	PropertyLookingRent = "rent"

	// AvailabilityPending marks a listing that still awaits approval.
	AvailabilityPending = "Pending"

	// AdminUserID owns listings created from the admin panel.
	AdminUserID = "admin"
)

// Listing filters shared by properties and users.
const (
	StatusFilterAll      = "all"
	StatusFilterActive   = "active"
	StatusFilterInactive = "inactive"
	StatusFilterPending  = "pending"
)

// Property is a resale or rental listing shown in the app.
type Property struct {
	ID                 string    `json:"id"`
	PropertyLooking    string    `json:"propertyLooking"`
	Category           string    `json:"category"`
	PropertyType       string    `json:"propertyType"`
	City               string    `json:"city"`
	Locality           string    `json:"locality"`
	SubLocality        string    `json:"subLocality,omitempty"`
	PlotArea           string    `json:"plotArea,omitempty"`
	PlotAreaUnit       string    `json:"plotAreaUnit,omitempty"`
	BuiltUpArea        string    `json:"builtUpArea,omitempty"`
	SuperBuiltUpArea   string    `json:"superBuiltUpArea,omitempty"`
	TotalFloors        string    `json:"totalFloors,omitempty"`
	Bedrooms           string    `json:"noOfBedrooms,omitempty"`
	Bathrooms          string    `json:"noOfBathrooms,omitempty"`
	Balconies          string    `json:"noOfBalconies,omitempty"`
	CoveredParking     int       `json:"coveredParking"`
	OpenParking        int       `json:"openParking"`
	AvailabilityStatus string    `json:"availabilityStatus,omitempty"`
	Ownership          string    `json:"ownership,omitempty"`
	ExpectedPrice      string    `json:"expectedPrice"`
	Description        string    `json:"description,omitempty"`
	Amenities          []string  `json:"amenities"`
	Photos             []string  `json:"propertyPhotos"`
	ContactName        string    `json:"contactName"`
	ContactPhone       string    `json:"contactPhone"`
	ContactEmail       string    `json:"contactEmail,omitempty"`
	UserID             string    `json:"userId"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// PropertyFilter narrows a property listing. An empty Status lists active properties.
type PropertyFilter struct {
	Search   string
	Status   string
	Looking  string
	Category string
	Limit    int
}

type PropertyStats struct {
	TotalProperties     int `json:"totalProperties"`
	ActiveProperties    int `json:"activeProperties"`
	PendingProperties   int `json:"pendingProperties"`
	PropertiesThisMonth int `json:"propertiesThisMonth"`
}
