// internal/workers/projects/update-upcoming-project/models.go
package updateupcomingproject

import "estate-workers/internal/models"

const MessageUpdated = "Project updated successfully"

type Input struct {
	ProjectID string
	Patch     models.ProjectPatch
}

type Output struct {
	Success bool            `json:"success"`
	Project *models.Project `json:"project"`
	Message string          `json:"message"`
}
