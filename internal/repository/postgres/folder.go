package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

var folderColumns = []string{
	"id", "user_id", "parent_id", "name", "emoji", "color", "sort_order", "created_at", "updated_at",
}

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, parent_id, name, emoji, color, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.UserID,
		folder.ParentID,
		folder.Name,
		folder.Emoji,
		folder.Color,
		folder.Order,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return wrapError(err, "create folder", "folder "+folder.ID, "parent folder")
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, parent_id, name, emoji, color, sort_order, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, wrapError(err, "get folder", "folder "+id, "")
	}

	return folder, nil
}

// Update updates name, emoji and color
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, emoji = $2, color = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.Emoji,
		folder.Color,
		folder.UpdatedAt,
		folder.ID,
		folder.UserID,
	)
	if err != nil {
		return wrapError(err, "update folder", "folder "+folder.ID, "")
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a folder. Foreign keys cascade to the subtree, its tasks and
// time entries, closure rows and category/chart links.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return wrapError(err, "delete folder", "folder "+id, "")
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate child folders ordered by sort_order
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, userID string) ([]models.Folder, error) {
	builder := psql.Select(folderColumns...).
		From(r.tables.Folders).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("sort_order", "created_at", "id")

	if parentID == nil {
		builder = builder.Where(sq.Eq{"parent_id": nil})
	} else {
		builder = builder.Where(sq.Eq{"parent_id": *parentID})
	}

	return r.queryFolders(ctx, builder)
}

// NextOrder returns 1 + max(sort_order) among the children of parentID, or 0
func (r *PostgresFolderRepository) NextOrder(ctx context.Context, parentID *string, userID string) (int, error) {
	builder := psql.Select("COALESCE(MAX(sort_order) + 1, 0)").
		From(r.tables.Folders).
		Where(sq.Eq{"user_id": userID})

	if parentID == nil {
		builder = builder.Where(sq.Eq{"parent_id": nil})
	} else {
		builder = builder.Where(sq.Eq{"parent_id": *parentID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build next order query: %w", err)
	}

	var next int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("get next order: %w", err)
	}
	return next, nil
}

// UpdatePositions writes parent_id and sort_order of every given folder in one
// statement, joining against a VALUES list
func (r *PostgresFolderRepository) UpdatePositions(ctx context.Context, userID string, folders []models.Folder) error {
	if len(folders) == 0 {
		return nil
	}

	query, args := buildUpdatePositions(r.tables.Folders, userID, folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update folder positions: %w", err)
	}

	if result.RowsAffected() != int64(len(folders)) {
		return fmt.Errorf("update folder positions: %w", domain.ErrNotFound)
	}

	return nil
}

// buildUpdatePositions renders
//
//	UPDATE folders AS f SET parent_id = v.parent_id, sort_order = v.sort_order
//	FROM unnest($2::uuid[], $3::uuid[], $4::int[]) AS v(id, parent_id, sort_order)
//	WHERE f.id = v.id AND f.user_id = $1
//
// The columns travel as arrays so a sibling group of any size is one statement.
func buildUpdatePositions(table, userID string, folders []models.Folder) (string, []interface{}) {
	ids := make([]string, len(folders))
	parentIDs := make([]*string, len(folders))
	orders := make([]int32, len(folders))
	for i, f := range folders {
		ids[i] = f.ID
		parentIDs[i] = f.ParentID
		orders[i] = int32(f.Order)
	}

	query := fmt.Sprintf(`
		UPDATE %s AS f
		SET parent_id = v.parent_id, sort_order = v.sort_order, updated_at = now()
		FROM unnest($2::uuid[], $3::uuid[], $4::int[]) AS v(id, parent_id, sort_order)
		WHERE f.id = v.id AND f.user_id = $1
	`, table)

	return query, []interface{}{userID, ids, parentIDs, orders}
}

// ListByIDs retrieves the user's folders among ids
func (r *PostgresFolderRepository) ListByIDs(ctx context.Context, userID string, ids []string) ([]models.Folder, error) {
	if len(ids) == 0 {
		return []models.Folder{}, nil
	}

	builder := psql.Select(folderColumns...).
		From(r.tables.Folders).
		Where(sq.Eq{"user_id": userID}).
		Where(anyID("id", ids)).
		OrderBy("sort_order", "created_at", "id")

	return r.queryFolders(ctx, builder)
}

// GetAllByUser retrieves all folders of a user
func (r *PostgresFolderRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	builder := psql.Select(folderColumns...).
		From(r.tables.Folders).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("sort_order", "created_at", "id")

	return r.queryFolders(ctx, builder)
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, builder sq.SelectBuilder) ([]models.Folder, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build folder query: %w", err)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.ParentID,
		&folder.Name,
		&folder.Emoji,
		&folder.Color,
		&folder.Order,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
