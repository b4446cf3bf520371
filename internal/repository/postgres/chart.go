package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// PostgresChartRepository implements the ChartRepository interface
type PostgresChartRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChartRepository creates a new chart repository
func NewChartRepository(config *RepositoryConfig) repositories.ChartRepository {
	return &PostgresChartRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a chart and its folder/category links. Callers wrap it in ExecTx.
func (r *PostgresChartRepository) Create(ctx context.Context, chart *models.Chart) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Charts)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, chart.ID, chart.UserID, chart.Name, chart.CreatedAt, chart.UpdatedAt); err != nil {
		return wrapError(err, "create chart", "chart "+chart.ID, "")
	}

	if err := r.link(ctx, r.tables.ChartFolders, "folder_id", chart.ID, chart.FolderIDs); err != nil {
		return err
	}
	return r.link(ctx, r.tables.ChartCategories, "category_id", chart.ID, chart.CategoryIDs)
}

func (r *PostgresChartRepository) link(ctx context.Context, table, column, chartID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	builder := psql.Insert(table).Columns("chart_id", column)
	for _, id := range ids {
		builder = builder.Values(chartID, id)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build %s insert: %w", table, err)
	}

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, args...); err != nil {
		return wrapError(err, "create "+table, "chart "+chartID, column)
	}
	return nil
}

// GetByID retrieves a chart with FolderIDs and CategoryIDs populated
func (r *PostgresChartRepository) GetByID(ctx context.Context, id, userID string) (*models.Chart, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Charts)

	var chart models.Chart
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(
		&chart.ID,
		&chart.UserID,
		&chart.Name,
		&chart.CreatedAt,
		&chart.UpdatedAt,
	)
	if err != nil {
		return nil, wrapError(err, "get chart", "chart "+id, "")
	}

	if chart.FolderIDs, err = r.linkedIDs(ctx, r.tables.ChartFolders, "folder_id", id); err != nil {
		return nil, err
	}
	if chart.CategoryIDs, err = r.linkedIDs(ctx, r.tables.ChartCategories, "category_id", id); err != nil {
		return nil, err
	}

	return &chart, nil
}

func (r *PostgresChartRepository) linkedIDs(ctx context.Context, table, column, chartID string) ([]string, error) {
	query, args, err := psql.Select(column).
		From(table).
		Where(sq.Eq{"chart_id": chartID}).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", table, err)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return ids, nil
}
