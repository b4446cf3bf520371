package services

import (
	"context"
	"time"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

// TimeEntryService records finished work. The running-timer workflow lives elsewhere.
type TimeEntryService interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*models.Task, error)
	CreateTimeEntry(ctx context.Context, req *CreateTimeEntryRequest) (*models.TimeEntry, error)
}

// CreateTaskRequest represents a task creation request
type CreateTaskRequest struct {
	UserID      string `json:"-"`
	FolderID    string `json:"folder_id"`
	Description string `json:"description"`
}

// CreateTimeEntryRequest represents a finished time entry; duration is derived
type CreateTimeEntryRequest struct {
	UserID    string    `json:"-"`
	TaskID    string    `json:"task_id"`
	StartedAt time.Time `json:"started_at"`
	StoppedAt time.Time `json:"stopped_at"`
}
