package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// CategoryRepository implements repositories.CategoryRepository
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(store *Store) repositories.CategoryRepository {
	return &CategoryRepository{store: store}
}

// Create inserts a category and its folder mapping
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.store.write(ctx, func(t *tables) error {
		if _, exists := t.categories[category.ID]; exists {
			return &domain.ConflictError{Message: "category already exists", ResourceType: "category", ResourceID: category.ID}
		}
		for _, folderID := range category.FolderIDs {
			if f, ok := t.folders[folderID]; !ok || f.UserID != category.UserID {
				return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
			}
		}
		stored := *category
		stored.FolderIDs = append([]string{}, category.FolderIDs...)
		t.categories[category.ID] = stored
		return nil
	})
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id, userID string) (*models.Category, error) {
	var category models.Category
	err := r.store.read(ctx, func(t *tables) error {
		c, ok := t.categories[id]
		if !ok || c.UserID != userID {
			return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
		}
		category = c
		category.FolderIDs = append([]string{}, c.FolderIDs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByIDs retrieves the user's categories among ids
func (r *CategoryRepository) ListByIDs(ctx context.Context, userID string, ids []string) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.store.read(ctx, func(t *tables) error {
		for id := range idSet(ids) {
			if c, ok := t.categories[id]; ok && c.UserID == userID {
				c.FolderIDs = append([]string{}, c.FolderIDs...)
				categories = append(categories, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

// ListFolderIDs returns the mapped folder IDs keyed by category ID
func (r *CategoryRepository) ListFolderIDs(ctx context.Context, userID string, categoryIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(categoryIDs))
	err := r.store.read(ctx, func(t *tables) error {
		for id := range idSet(categoryIDs) {
			if c, ok := t.categories[id]; ok && c.UserID == userID {
				result[id] = append([]string{}, c.FolderIDs...)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
