package deleteuser

const MessageDeleted = "User deleted successfully"

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
	Message string `json:"message"`
}
