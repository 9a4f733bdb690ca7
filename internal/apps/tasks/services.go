package tasks

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrNotOwner        = errors.New("you can only modify your own tasks")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	ErrTitleRequired   = errors.New("title is required")
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// ListTasks returns the owner's tasks for a given filter: all, open,
// completed, overdue, or a priority name.
func (s *TaskService) ListTasks(ownerID uuid.UUID, filter string) ([]Task, int64, error) {
	q := s.db.Model(&Task{}).Where("owner_id = ?", ownerID)

	switch filter {
	case "open":
		q = q.Where("completed = false")
	case "completed":
		q = q.Where("completed = true")
	case "overdue":
		q = q.Where("completed = false AND due_date IS NOT NULL AND due_date < NOW()")
	case "low", "medium", "high":
		q = q.Where("priority = ?", filter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	var out []Task
	err := q.Order("completed ASC, due_date ASC NULLS LAST, created_at DESC").Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return out, total, nil
}

func (s *TaskService) GetTask(ownerID, taskID uuid.UUID) (*Task, error) {
	var task Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		return nil, ErrTaskNotFound
	}
	if task.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return &task, nil
}

func (s *TaskService) CreateTask(ownerID uuid.UUID, req *CreateTaskRequest) (*Task, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	if !validPriority(priority) {
		return nil, ErrInvalidPriority
	}

	task := Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priority,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

func (s *TaskService) UpdateTask(ownerID, taskID uuid.UUID, req *UpdateTaskRequest) (*Task, error) {
	task, err := s.GetTask(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			return nil, ErrInvalidPriority
		}
		updates["priority"] = *req.Priority
	}
	if len(updates) == 0 {
		return task, nil
	}

	if err := s.db.Model(task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ownerID, taskID uuid.UUID) error {
	task, err := s.GetTask(ownerID, taskID)
	if err != nil {
		return err
	}
	return s.db.Delete(task).Error
}

func validPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}
