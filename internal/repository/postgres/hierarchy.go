package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

var hierarchyColumns = []string{"id", "user_id", "ancestor_id", "descendant_id", "depth"}

// PostgresHierarchyRepository implements the FolderHierarchyRepository interface
type PostgresHierarchyRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewHierarchyRepository creates a new closure table repository
func NewHierarchyRepository(config *RepositoryConfig) repositories.FolderHierarchyRepository {
	return &PostgresHierarchyRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// hierarchyBatchSize keeps each multi-row insert under maxBindParams
var hierarchyBatchSize = maxBindParams / len(hierarchyColumns)

// CreateMany inserts closure rows, one statement per batch
func (r *PostgresHierarchyRepository) CreateMany(ctx context.Context, rows []models.FolderHierarchy) error {
	executor := GetExecutor(ctx, r.pool)
	for _, batch := range hierarchyBatches(rows) {
		query, args, err := buildInsertHierarchies(r.tables.FolderHierarchies, batch)
		if err != nil {
			return fmt.Errorf("build hierarchy insert: %w", err)
		}
		if _, err := executor.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("create folder hierarchies: %w", err)
		}
	}
	return nil
}

func hierarchyBatches(rows []models.FolderHierarchy) [][]models.FolderHierarchy {
	var batches [][]models.FolderHierarchy
	for len(rows) > hierarchyBatchSize {
		batches = append(batches, rows[:hierarchyBatchSize])
		rows = rows[hierarchyBatchSize:]
	}
	if len(rows) > 0 {
		batches = append(batches, rows)
	}
	return batches
}

func buildInsertHierarchies(table string, rows []models.FolderHierarchy) (string, []interface{}, error) {
	builder := psql.Insert(table).Columns(hierarchyColumns...)
	for _, row := range rows {
		builder = builder.Values(row.ID, row.UserID, row.AncestorID, row.DescendantID, row.Depth)
	}
	return builder.ToSql()
}

// ListAncestors returns every row whose descendant is folderID
func (r *PostgresHierarchyRepository) ListAncestors(ctx context.Context, userID, folderID string) ([]models.FolderHierarchy, error) {
	return r.query(ctx, psql.Select(hierarchyColumns...).
		From(r.tables.FolderHierarchies).
		Where(sq.Eq{"user_id": userID, "descendant_id": folderID}).
		OrderBy("depth"))
}

// ListDescendants returns every row whose ancestor is folderID
func (r *PostgresHierarchyRepository) ListDescendants(ctx context.Context, userID, folderID string) ([]models.FolderHierarchy, error) {
	return r.query(ctx, psql.Select(hierarchyColumns...).
		From(r.tables.FolderHierarchies).
		Where(sq.Eq{"user_id": userID, "ancestor_id": folderID}).
		OrderBy("depth"))
}

// ListDescendantIDs returns the subtree IDs of each folder with a single query
func (r *PostgresHierarchyRepository) ListDescendantIDs(ctx context.Context, userID string, folderIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(folderIDs))
	if len(folderIDs) == 0 {
		return result, nil
	}

	rows, err := r.query(ctx, psql.Select(hierarchyColumns...).
		From(r.tables.FolderHierarchies).
		Where(sq.Eq{"user_id": userID}).
		Where(anyID("ancestor_id", folderIDs)).
		OrderBy("depth"))
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[*row.AncestorID] = append(result[*row.AncestorID], row.DescendantID)
	}
	return result, nil
}

// IsDescendant reports whether descendantID is within the subtree of ancestorID
func (r *PostgresHierarchyRepository) IsDescendant(ctx context.Context, userID, ancestorID, descendantID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE user_id = $1 AND ancestor_id = $2 AND descendant_id = $3
		)
	`, r.tables.FolderHierarchies)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID, ancestorID, descendantID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check descendant: %w", err)
	}
	return exists, nil
}

// DeleteExternal deletes the rows linking the subtree to anything outside it,
// keeping subtree-internal rows
func (r *PostgresHierarchyRepository) DeleteExternal(ctx context.Context, userID string, subtreeIDs []string) error {
	if len(subtreeIDs) == 0 {
		return nil
	}

	query, args, err := buildDeleteExternal(r.tables.FolderHierarchies, userID, subtreeIDs)
	if err != nil {
		return fmt.Errorf("build hierarchy delete: %w", err)
	}

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete external hierarchies: %w", err)
	}
	return nil
}

func buildDeleteExternal(table, userID string, subtreeIDs []string) (string, []interface{}, error) {
	return psql.Delete(table).
		Where(sq.Eq{"user_id": userID}).
		Where(anyID("descendant_id", subtreeIDs)).
		Where(sq.Or{
			sq.Eq{"ancestor_id": nil},
			sq.Expr("ancestor_id <> ALL(?::uuid[])", subtreeIDs),
		}).
		ToSql()
}

// LockUser takes a transaction-scoped advisory lock on the user's hierarchy.
// Outside a transaction the lock would be released immediately, so it is a no-op there.
func (r *PostgresHierarchyRepository) LockUser(ctx context.Context, userID string) error {
	tx := repositories.GetTx(ctx)
	if tx == nil {
		return nil
	}
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("lock user hierarchy: %w", err)
	}
	return nil
}

func (r *PostgresHierarchyRepository) query(ctx context.Context, builder sq.SelectBuilder) ([]models.FolderHierarchy, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build hierarchy query: %w", err)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder hierarchies: %w", err)
	}
	defer rows.Close()

	result := []models.FolderHierarchy{}
	for rows.Next() {
		var h models.FolderHierarchy
		if err := rows.Scan(&h.ID, &h.UserID, &h.AncestorID, &h.DescendantID, &h.Depth); err != nil {
			return nil, fmt.Errorf("scan folder hierarchy: %w", err)
		}
		result = append(result, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder hierarchies: %w", err)
	}

	return result, nil
}
