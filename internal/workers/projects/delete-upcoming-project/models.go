// internal/workers/projects/delete-upcoming-project/models.go
package deleteupcomingproject

const MessageDeleted = "Project deleted successfully"

type Input struct {
	ProjectID string `json:"projectId"`
}

type Output struct {
	Success   bool   `json:"success"`
	ProjectID string `json:"projectId"`
	Message   string `json:"message"`
}
