package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// TaskRepository implements repositories.TaskRepository
type TaskRepository struct {
	store *Store
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(store *Store) repositories.TaskRepository {
	return &TaskRepository{store: store}
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.store.write(ctx, func(t *tables) error {
		if _, exists := t.tasks[task.ID]; exists {
			return &domain.ConflictError{Message: "task already exists", ResourceType: "task", ResourceID: task.ID}
		}
		if f, ok := t.folders[task.FolderID]; !ok || f.UserID != task.UserID {
			return fmt.Errorf("folder %s: %w", task.FolderID, domain.ErrNotFound)
		}
		t.tasks[task.ID] = *task
		return nil
	})
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id, userID string) (*models.Task, error) {
	var task models.Task
	err := r.store.read(ctx, func(t *tables) error {
		found, ok := t.tasks[id]
		if !ok || found.UserID != userID {
			return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
		}
		task = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// TimeEntryRepository implements repositories.TimeEntryRepository
type TimeEntryRepository struct {
	store *Store
}

// NewTimeEntryRepository creates a new time entry repository
func NewTimeEntryRepository(store *Store) repositories.TimeEntryRepository {
	return &TimeEntryRepository{store: store}
}

// Create inserts a time entry
func (r *TimeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	return r.store.write(ctx, func(t *tables) error {
		if _, exists := t.entries[entry.ID]; exists {
			return &domain.ConflictError{Message: "time entry already exists", ResourceType: "time_entry", ResourceID: entry.ID}
		}
		if task, ok := t.tasks[entry.TaskID]; !ok || task.UserID != entry.UserID {
			return fmt.Errorf("task %s: %w", entry.TaskID, domain.ErrNotFound)
		}
		t.entries[entry.ID] = *entry
		return nil
	})
}

// SumByDate sums durations of entries started within [StartDate, EndDate], bucketed
// by the local calendar date in q.Location
func (r *TimeEntryRepository) SumByDate(ctx context.Context, q *repositories.DurationQuery) ([]models.DatePoint, error) {
	folders := idSet(q.FolderIDs)
	totals := make(map[string]int64)

	err := r.store.read(ctx, func(t *tables) error {
		for _, entry := range t.entries {
			if entry.UserID != q.UserID {
				continue
			}
			if entry.StartedAt.Before(q.StartDate) || entry.StartedAt.After(q.EndDate) {
				continue
			}
			task, ok := t.tasks[entry.TaskID]
			if !ok {
				continue
			}
			if _, ok := folders[task.FolderID]; !ok {
				continue
			}

			date, err := q.DatePart.Truncate(entry.StartedAt, q.Location)
			if err != nil {
				return err
			}
			totals[date] += entry.Duration
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	points := make([]models.DatePoint, 0, len(totals))
	for date, duration := range totals {
		points = append(points, models.DatePoint{LocalDate: date, Duration: duration})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].LocalDate < points[j].LocalDate
	})
	return points, nil
}
