// internal/workers/projects/add-upcoming-project/models.go
package addupcomingproject

import "estate-workers/internal/models"

const MessageAdded = "Project added successfully"

type Output struct {
	Success bool            `json:"success"`
	Project *models.Project `json:"project"`
	Message string          `json:"message"`
}
