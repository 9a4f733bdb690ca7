package tasks

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/dto"
	"github.com/thienng-it/note-hub-sub010/internal/middleware"
)

type TaskHandler struct {
	taskService *TaskService
}

func NewTaskHandler(taskService *TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	list, total, err := h.taskService.ListTasks(ownerID, c.Query("filter", "all"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list tasks",
		})
	}

	resp := TasksListResponse{Tasks: make([]TaskResponse, 0, len(list)), Total: total}
	for i := range list {
		resp.Tasks = append(resp.Tasks, toResponse(&list[i]))
	}
	return c.JSON(resp)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c)
	}

	task, err := h.taskService.GetTask(ownerID, taskID)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(fiber.Map{"task": toResponse(task)})
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := h.taskService.CreateTask(ownerID, &req)
	if err != nil {
		return taskError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": toResponse(task)})
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := h.taskService.UpdateTask(ownerID, taskID, &req)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(fiber.Map{"task": toResponse(task)})
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c)
	}

	if err := h.taskService.DeleteTask(ownerID, taskID); err != nil {
		return taskError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Task deleted"})
}

func toResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		IsOverdue:   t.IsOverdue(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Task not found",
		})
	case errors.Is(err, ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied",
		})
	case errors.Is(err, ErrInvalidPriority), errors.Is(err, ErrTitleRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid task id",
	})
}
