package repositories

import (
	"context"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Every lookup is scoped by user ID; a folder owned by someone else is reported as not found.
type FolderRepository interface {
	// Create inserts a folder. The caller assigns folder.ID.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id, userID string) (*models.Folder, error)

	// Update updates the descriptive fields (name, emoji, color)
	Update(ctx context.Context, folder *models.Folder) error

	// Delete deletes a folder; descendants, tasks, time entries and closure rows cascade
	Delete(ctx context.Context, id, userID string) error

	// ListChildren lists immediate child folders ordered by order (parentID nil = roots)
	ListChildren(ctx context.Context, parentID *string, userID string) ([]models.Folder, error)

	// NextOrder returns 1 + max(order) among the children of parentID, or 0 if there are none
	NextOrder(ctx context.Context, parentID *string, userID string) (int, error)

	// UpdatePositions writes parent_id and order of every given folder
	UpdatePositions(ctx context.Context, userID string, folders []models.Folder) error

	// ListByIDs retrieves the user's folders among ids (missing ids are skipped)
	ListByIDs(ctx context.Context, userID string, ids []string) ([]models.Folder, error)

	// GetAllByUser retrieves all folders of a user (flat list)
	GetAllByUser(ctx context.Context, userID string) ([]models.Folder, error)
}
