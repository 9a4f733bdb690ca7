package tasks

import (
	"time"

	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/models"
	"gorm.io/gorm"
)

var Priorities = []string{"low", "medium", "high"}

type Task struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_owner_completed" json:"owner_id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Completed   bool           `gorm:"default:false;index:idx_tasks_owner_completed" json:"completed"`
	DueDate     *time.Time     `gorm:"index" json:"due_date"`
	Priority    string         `gorm:"size:20;default:'medium';index" json:"priority"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Owner       models.User    `gorm:"foreignKey:OwnerID" json:"-"`
}

// IsOverdue reports whether the task is past due and still open.
func (t *Task) IsOverdue() bool {
	return t.DueDate != nil && !t.Completed && time.Now().After(*t.DueDate)
}

// --- DTOs ---

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	IsOverdue   bool       `json:"is_overdue"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type TasksListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int64          `json:"total"`
}
