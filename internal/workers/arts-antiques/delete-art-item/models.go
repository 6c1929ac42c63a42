package deleteartitem

const MessageDeleted = "Item deleted successfully"

type Input struct {
	ItemID string `json:"itemId"`
}

type Output struct {
	Success bool   `json:"success"`
	ItemID  string `json:"itemId"`
	Message string `json:"message"`
}
