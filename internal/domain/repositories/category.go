package repositories

import (
	"context"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

// CategoryRepository defines data access operations for categories
type CategoryRepository interface {
	// Create inserts a category and its folder mapping
	Create(ctx context.Context, category *models.Category) error

	// GetByID retrieves a category (with FolderIDs) by ID
	GetByID(ctx context.Context, id, userID string) (*models.Category, error)

	// ListByIDs retrieves the user's categories among ids (missing ids are skipped)
	ListByIDs(ctx context.Context, userID string, ids []string) ([]models.Category, error)

	// ListFolderIDs returns the mapped folder IDs keyed by category ID
	ListFolderIDs(ctx context.Context, userID string, categoryIDs []string) (map[string][]string, error)
}
