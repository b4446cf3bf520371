package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ktmouk/minute-sub000/internal/config"
	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
	"github.com/ktmouk/minute-sub000/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

type timeEntryService struct {
	taskRepo      repositories.TaskRepository
	timeEntryRepo repositories.TimeEntryRepository
	validator     *ResourceValidator
	logger        *slog.Logger
}

// NewTimeEntryService creates a new time entry service
func NewTimeEntryService(
	taskRepo repositories.TaskRepository,
	timeEntryRepo repositories.TimeEntryRepository,
	validator *ResourceValidator,
	logger *slog.Logger,
) services.TimeEntryService {
	return &timeEntryService{
		taskRepo:      taskRepo,
		timeEntryRepo: timeEntryRepo,
		validator:     validator,
		logger:        logger,
	}
}

// CreateTask creates a task inside one of the user's folders
func (s *timeEntryService) CreateTask(ctx context.Context, req *services.CreateTaskRequest) (*models.Task, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.FolderID, validation.Required, is.UUID),
		validation.Field(&req.Description, validation.RuneLength(0, config.MaxTaskDescriptionLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.validator.ValidateFolder(ctx, req.FolderID, req.UserID, "folder does not exist"); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		FolderID:    req.FolderID,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Debug("task created", "id", task.ID, "folder_id", task.FolderID, "user_id", req.UserID)
	return task, nil
}

// CreateTimeEntry records a finished entry; duration is stopped - started in whole seconds
func (s *timeEntryService) CreateTimeEntry(ctx context.Context, req *services.CreateTimeEntryRequest) (*models.TimeEntry, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.TaskID, validation.Required, is.UUID),
		validation.Field(&req.StartedAt, validation.Required),
		validation.Field(&req.StoppedAt, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !req.StartedAt.Before(req.StoppedAt) {
		return nil, &domain.InvalidRangeError{Message: "start time must be earlier than stop time"}
	}

	if _, err := s.taskRepo.GetByID(ctx, req.TaskID, req.UserID); err != nil {
		return nil, notFoundAs(err, "task does not exist")
	}

	entry := &models.TimeEntry{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		TaskID:    req.TaskID,
		StartedAt: req.StartedAt,
		StoppedAt: req.StoppedAt,
		Duration:  int64(req.StoppedAt.Sub(req.StartedAt) / time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.timeEntryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}
