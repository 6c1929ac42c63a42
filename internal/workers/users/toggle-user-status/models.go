package toggleuserstatus

const (
	MessageActivated   = "User activated successfully"
	MessageDeactivated = "User deactivated successfully"
)

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	Success  bool   `json:"success"`
	UserID   string `json:"userId"`
	IsActive bool   `json:"isActive"`
	Message  string `json:"message"`
}
