package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-reminder-api/internal/dto"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
	"github.com/yukikurage/task-reminder-api/internal/export"
	"github.com/yukikurage/task-reminder-api/internal/middleware"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/services"
	"github.com/yukikurage/task-reminder-api/internal/utils"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService *services.TaskService
	authService *services.AuthService
	location    *time.Location
	now         func() time.Time
}

// NewTaskHandler creates a new TaskHandler. Export timestamps are
// rendered in loc.
func NewTaskHandler(taskService *services.TaskService, authService *services.AuthService, loc *time.Location) *TaskHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskHandler{
		taskService: taskService,
		authService: authService,
		location:    loc,
		now:         time.Now,
	}
}

// ListTasks lists the current user's tasks with optional filters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ListTasks(services.ListTasksInput{
		UserID:     userID,
		Status:     c.DefaultQuery("status", "all"),
		Priority:   c.Query("priority"),
		Search:     c.Query("search"),
		Pagination: params,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title        string        `json:"title" binding:"required,max=255"`
		Description  string        `json:"description" binding:"required"`
		Category     string        `json:"category" binding:"max=255"`
		CategoryIcon string        `json:"categoryIcon" binding:"max=255"`
		DueDate      *dto.DateTime `json:"due_date" binding:"required"`
		Priority     string        `json:"priority" binding:"omitempty,oneof=low medium high"`
		Status       string        `json:"status" binding:"omitempty,oneof=in_progress completed expired"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		CategoryIcon: req.CategoryIcon,
		DueDate:      req.DueDate.Time,
		Priority:     models.TaskPriority(req.Priority),
		Status:       models.TaskStatus(req.Status),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusCreated, "Task created successfully", gin.H{"task": dto.ToTaskDTO(*task)})
}

// UpdateTask applies a partial update. Fields left out of the body are
// not touched.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		apierrors.NotFound(c, services.ErrTaskNotFound.Error())
		return
	}

	type UpdateTaskRequest struct {
		Title        *string       `json:"title" binding:"omitempty,min=1,max=255"`
		Description  *string       `json:"description" binding:"omitempty,min=1"`
		Category     *string       `json:"category" binding:"omitempty,max=255"`
		CategoryIcon *string       `json:"categoryIcon" binding:"omitempty,max=255"`
		DueDate      *dto.DateTime `json:"due_date"`
		Priority     *string       `json:"priority" binding:"omitempty,oneof=low medium high"`
		Status       *string       `json:"status" binding:"omitempty,oneof=in_progress completed expired"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		CategoryIcon: req.CategoryIcon,
	}
	if req.DueDate != nil && !req.DueDate.IsZero() {
		input.DueDate = &req.DueDate.Time
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		input.Priority = &p
	}
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		input.Status = &s
	}

	task, err := h.taskService.UpdateTask(userID, taskID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Task updated successfully", gin.H{"task": dto.ToTaskDTO(*task)})
}

// DeleteTask deletes one of the current user's tasks
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		apierrors.NotFound(c, services.ErrTaskNotFound.Error())
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Task deleted successfully", nil)
}

// ListCategories returns the distinct categories of the user's tasks
func (h *TaskHandler) ListCategories(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	categories, err := h.taskService.ListCategories(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "", gin.H{"categories": categories})
}

// ExportTasks downloads every task of the user as an xlsx workbook
func (h *TaskHandler) ExportTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tasks, err := h.taskService.ExportTasks(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTasks(&buf, tasks, h.location); err != nil {
		respondServiceError(c, err)
		return
	}

	filename := export.Filename(user.Name, h.now().In(h.location))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func taskIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}
