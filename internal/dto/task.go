package dto

import (
	"time"

	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Category     string              `json:"category"`
	CategoryIcon string              `json:"categoryIcon"`
	Priority     models.TaskPriority `json:"priority"`
	Status       models.TaskStatus   `json:"status"`
	DueDate      time.Time           `json:"due_date"`
	UserID       uint64              `json:"user_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Data []TaskDTO             `json:"data"`
	Meta utils.PaginationMeta `json:"meta"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Category:     task.Category,
		CategoryIcon: task.CategoryIcon,
		Priority:     task.Priority,
		Status:       task.Status,
		DueDate:      task.DueDate,
		UserID:       task.UserID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Data: items,
		Meta: params.Meta(len(tasks), total),
	}
}
