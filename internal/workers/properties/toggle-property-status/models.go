package togglepropertystatus

const (
	MessageActivated   = "Property activated successfully"
	MessageDeactivated = "Property deactivated successfully"
)

type Input struct {
	PropertyID string `json:"propertyId"`
}

type Output struct {
	Success    bool   `json:"success"`
	PropertyID string `json:"propertyId"`
	IsActive   bool   `json:"isActive"`
	Message    string `json:"message"`
}
