package repositories

import (
	"context"
	"time"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

// TaskRepository defines data access operations for tasks
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id, userID string) (*models.Task, error)
}

// DurationQuery selects the time entries summed by TimeEntryRepository.SumByDate
type DurationQuery struct {
	UserID    string
	FolderIDs []string // tasks in any of these folders
	StartDate time.Time
	EndDate   time.Time // inclusive
	DatePart  models.DatePart
	Location  *time.Location
}

// TimeEntryRepository defines data access operations for time entries
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *models.TimeEntry) error

	// SumByDate sums durations per local date bucket. Empty buckets are omitted.
	SumByDate(ctx context.Context, q *DurationQuery) ([]models.DatePoint, error)
}
