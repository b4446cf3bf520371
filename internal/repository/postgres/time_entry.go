package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// PostgresTaskRepository implements the TaskRepository interface
type PostgresTaskRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(config *RepositoryConfig) repositories.TaskRepository {
	return &PostgresTaskRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a task
func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, folder_id, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Tasks)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.FolderID,
		task.Description,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return wrapError(err, "create task", "task "+task.ID, "folder "+task.FolderID)
	}
	return nil
}

// GetByID retrieves a task by ID
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id, userID string) (*models.Task, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, folder_id, description, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Tasks)

	var task models.Task
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(
		&task.ID,
		&task.UserID,
		&task.FolderID,
		&task.Description,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, wrapError(err, "get task", "task "+id, "")
	}
	return &task, nil
}

// PostgresTimeEntryRepository implements the TimeEntryRepository interface
type PostgresTimeEntryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTimeEntryRepository creates a new time entry repository
func NewTimeEntryRepository(config *RepositoryConfig) repositories.TimeEntryRepository {
	return &PostgresTimeEntryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a time entry
func (r *PostgresTimeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, task_id, started_at, stopped_at, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.TimeEntries)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.TaskID,
		entry.StartedAt,
		entry.StoppedAt,
		entry.Duration,
		entry.CreatedAt,
	)
	if err != nil {
		return wrapError(err, "create time entry", "time entry "+entry.ID, "task "+entry.TaskID)
	}
	return nil
}

// SumByDate sums durations of entries started within [StartDate, EndDate], bucketed
// by date_trunc in the query's time zone
func (r *PostgresTimeEntryRepository) SumByDate(ctx context.Context, q *repositories.DurationQuery) ([]models.DatePoint, error) {
	points := []models.DatePoint{}
	if len(q.FolderIDs) == 0 {
		return points, nil
	}

	query, args, err := buildSumByDate(r.tables, q)
	if err != nil {
		return nil, fmt.Errorf("build duration query: %w", err)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum durations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.DatePoint
		if err := rows.Scan(&p.LocalDate, &p.Duration); err != nil {
			return nil, fmt.Errorf("scan duration: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate durations: %w", err)
	}

	return points, nil
}

func buildSumByDate(tables *TableNames, q *repositories.DurationQuery) (string, []interface{}, error) {
	return psql.Select().
		Column(sq.Expr("to_char(date_trunc(?, te.started_at AT TIME ZONE ?), 'YYYY-MM-DD') AS local_date",
			string(q.DatePart), q.Location.String())).
		Column("SUM(te.duration)::bigint AS duration").
		From(tables.TimeEntries + " te").
		Join(tables.Tasks + " t ON t.id = te.task_id").
		Where(sq.Eq{"te.user_id": q.UserID}).
		Where(anyID("t.folder_id", q.FolderIDs)).
		Where(sq.GtOrEq{"te.started_at": q.StartDate}).
		Where(sq.LtOrEq{"te.started_at": q.EndDate}).
		GroupBy("local_date").
		OrderBy("local_date").
		ToSql()
}
