package models

import "time"

type TaskStatus string

const (
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusExpired    TaskStatus = "expired"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusInProgress, TaskStatusCompleted, TaskStatusExpired:
		return true
	}
	return false
}

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	Category     string       `gorm:"type:varchar(255);not null;default:'Home'" json:"category"`
	CategoryIcon string       `gorm:"type:varchar(255);not null;default:'i-heroicons-home'" json:"categoryIcon"`
	Priority     TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'in_progress';index" json:"status"`
	DueDate      time.Time    `gorm:"not null;index" json:"due_date"`
	UserID       uint64       `gorm:"not null;index" json:"user_id"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
