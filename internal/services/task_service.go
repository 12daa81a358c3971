package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-reminder-api/internal/constants"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/repository"
	"github.com/yukikurage/task-reminder-api/internal/utils"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID     uint64
	Status     string
	Priority   string
	Search     string
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID       uint64
	Title        string
	Description  string
	Category     string
	CategoryIcon string
	DueDate      time.Time
	Priority     models.TaskPriority
	Status       models.TaskStatus
}

// UpdateTaskInput represents input for updating a task. Nil fields are
// left unchanged.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Category     *string
	CategoryIcon *string
	DueDate      *time.Time
	Priority     *models.TaskPriority
	Status       *models.TaskStatus
}

// ListTasks returns a page of the user's tasks. Status "all" or empty
// disables the status filter; an unknown priority is ignored.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		UserID:     input.UserID,
		Search:     input.Search,
		Pagination: input.Pagination,
	}

	if status := strings.TrimSpace(input.Status); status != "" && status != "all" {
		st := models.TaskStatus(status)
		filter.Status = &st
	}
	if p := models.TaskPriority(strings.TrimSpace(input.Priority)); p.Valid() {
		filter.Priority = &p
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// CreateTask creates a new task, filling in defaults
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		CategoryIcon: input.CategoryIcon,
		Priority:     input.Priority,
		Status:       input.Status,
		DueDate:      input.DueDate,
		UserID:       input.UserID,
	}
	if task.Category == "" {
		task.Category = constants.DefaultTaskCategory
	}
	if task.CategoryIcon == "" {
		task.CategoryIcon = constants.DefaultTaskCategoryIcon
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskStatusInProgress
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update to one of the user's tasks
func (s *TaskService) UpdateTask(userID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.CategoryIcon != nil {
		fields["category_icon"] = *input.CategoryIcon
	}
	if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}
	if input.Priority != nil {
		fields["priority"] = *input.Priority
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}

	task, err := s.taskRepo.UpdateOwned(userID, taskID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes one of the user's tasks
func (s *TaskService) DeleteTask(userID, taskID uint64) error {
	if err := s.taskRepo.DeleteOwned(userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListCategories returns the categories the user has used
func (s *TaskService) ListCategories(userID uint64) ([]repository.Category, error) {
	categories, err := s.taskRepo.ListCategories(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ExportTasks returns every task of the user for the spreadsheet export
func (s *TaskService) ExportTasks(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	return tasks, nil
}
