package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// PostgresCategoryRepository implements the CategoryRepository interface
type PostgresCategoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *RepositoryConfig) repositories.CategoryRepository {
	return &PostgresCategoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a category and its folder mapping. Callers wrap it in ExecTx
// so both statements commit together.
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, emoji, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.Emoji,
		category.Color,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return wrapError(err, "create category", "category "+category.ID, "")
	}

	if len(category.FolderIDs) == 0 {
		return nil
	}

	builder := psql.Insert(r.tables.CategoryFolders).Columns("category_id", "folder_id")
	for _, folderID := range category.FolderIDs {
		builder = builder.Values(category.ID, folderID)
	}
	linkQuery, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build category folder insert: %w", err)
	}

	if _, err := executor.Exec(ctx, linkQuery, args...); err != nil {
		return wrapError(err, "create category folders", "category "+category.ID, "category folder")
	}

	return nil
}

// GetByID retrieves a category with its folder IDs
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id, userID string) (*models.Category, error) {
	categories, err := r.ListByIDs(ctx, userID, []string{id})
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return &categories[0], nil
}

// ListByIDs retrieves the user's categories among ids
func (r *PostgresCategoryRepository) ListByIDs(ctx context.Context, userID string, ids []string) ([]models.Category, error) {
	categories := []models.Category{}
	if len(ids) == 0 {
		return categories, nil
	}

	query, args, err := psql.Select("id", "user_id", "name", "emoji", "color", "created_at", "updated_at").
		From(r.tables.Categories).
		Where(sq.Eq{"user_id": userID}).
		Where(anyID("id", ids)).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category query: %w", err)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Emoji, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	found := make([]string, len(categories))
	for i, c := range categories {
		found[i] = c.ID
	}
	folderIDs, err := r.ListFolderIDs(ctx, userID, found)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].FolderIDs = folderIDs[categories[i].ID]
		if categories[i].FolderIDs == nil {
			categories[i].FolderIDs = []string{}
		}
	}

	return categories, nil
}

// ListFolderIDs returns the mapped folder IDs keyed by category ID
func (r *PostgresCategoryRepository) ListFolderIDs(ctx context.Context, userID string, categoryIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.Select("cf.category_id", "cf.folder_id").
		From(r.tables.CategoryFolders + " cf").
		Join(r.tables.Categories + " c ON c.id = cf.category_id").
		Where(sq.Eq{"c.user_id": userID}).
		Where(anyID("cf.category_id", categoryIDs)).
		OrderBy("cf.category_id", "cf.folder_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category folder query: %w", err)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list category folders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var categoryID, folderID string
		if err := rows.Scan(&categoryID, &folderID); err != nil {
			return nil, fmt.Errorf("scan category folder: %w", err)
		}
		result[categoryID] = append(result[categoryID], folderID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category folders: %w", err)
	}

	return result, nil
}
