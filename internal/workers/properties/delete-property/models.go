package deleteproperty

const MessageDeleted = "Property deleted successfully"

type Input struct {
	PropertyID string `json:"propertyId"`
}

type Output struct {
	Success    bool   `json:"success"`
	PropertyID string `json:"propertyId"`
	Message    string `json:"message"`
}
