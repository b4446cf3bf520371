package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// FolderRepository implements repositories.FolderRepository
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(store *Store) repositories.FolderRepository {
	return &FolderRepository{store: store}
}

// Create inserts a folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	return r.store.write(ctx, func(t *tables) error {
		if _, exists := t.folders[folder.ID]; exists {
			return &domain.ConflictError{Message: "folder already exists", ResourceType: "folder", ResourceID: folder.ID}
		}
		if folder.ParentID != nil {
			if parent, exists := t.folders[*folder.ParentID]; !exists || parent.UserID != folder.UserID {
				return fmt.Errorf("parent folder %s: %w", *folder.ParentID, domain.ErrNotFound)
			}
		}
		stored := *folder
		stored.ParentID = copyID(folder.ParentID)
		t.folders[folder.ID] = stored
		return nil
	})
}

// GetByID retrieves a folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	var folder models.Folder
	err := r.store.read(ctx, func(t *tables) error {
		f, ok := t.folders[id]
		if !ok || f.UserID != userID {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		folder = f
		folder.ParentID = copyID(f.ParentID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// Update updates name, emoji and color
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	return r.store.write(ctx, func(t *tables) error {
		stored, ok := t.folders[folder.ID]
		if !ok || stored.UserID != folder.UserID {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
		}
		stored.Name = folder.Name
		stored.Emoji = folder.Emoji
		stored.Color = folder.Color
		stored.UpdatedAt = folder.UpdatedAt
		t.folders[folder.ID] = stored
		return nil
	})
}

// Delete removes a folder and cascades like the Postgres foreign keys do:
// child folders, tasks, time entries, closure rows and category/chart links
func (r *FolderRepository) Delete(ctx context.Context, id, userID string) error {
	return r.store.write(ctx, func(t *tables) error {
		f, ok := t.folders[id]
		if !ok || f.UserID != userID {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}

		removed := map[string]struct{}{id: {}}
		queue := []string{id}
		for len(queue) > 0 {
			parent := queue[0]
			queue = queue[1:]
			for childID, child := range t.folders {
				if child.ParentID == nil || *child.ParentID != parent {
					continue
				}
				if _, seen := removed[childID]; !seen {
					removed[childID] = struct{}{}
					queue = append(queue, childID)
				}
			}
		}

		for folderID := range removed {
			delete(t.folders, folderID)
		}

		for taskID, task := range t.tasks {
			if _, gone := removed[task.FolderID]; gone {
				delete(t.tasks, taskID)
			}
		}
		for entryID, entry := range t.entries {
			if _, ok := t.tasks[entry.TaskID]; !ok {
				delete(t.entries, entryID)
			}
		}

		for rowID, row := range t.hierarchies {
			_, descendantGone := removed[row.DescendantID]
			ancestorGone := false
			if row.AncestorID != nil {
				_, ancestorGone = removed[*row.AncestorID]
			}
			if descendantGone || ancestorGone {
				delete(t.hierarchies, rowID)
			}
		}

		for categoryID, category := range t.categories {
			category.FolderIDs = withoutIDs(category.FolderIDs, removed)
			t.categories[categoryID] = category
		}
		for chartID, chart := range t.charts {
			chart.FolderIDs = withoutIDs(chart.FolderIDs, removed)
			t.charts[chartID] = chart
		}

		return nil
	})
}

// ListChildren lists immediate child folders ordered by order
func (r *FolderRepository) ListChildren(ctx context.Context, parentID *string, userID string) ([]models.Folder, error) {
	var folders []models.Folder
	err := r.store.read(ctx, func(t *tables) error {
		for _, f := range t.folders {
			if f.UserID == userID && sameID(f.ParentID, parentID) {
				f.ParentID = copyID(f.ParentID)
				folders = append(folders, f)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortFolders(folders)
	return folders, nil
}

// NextOrder returns 1 + max(order) among the children of parentID, or 0
func (r *FolderRepository) NextOrder(ctx context.Context, parentID *string, userID string) (int, error) {
	next := 0
	err := r.store.read(ctx, func(t *tables) error {
		for _, f := range t.folders {
			if f.UserID == userID && sameID(f.ParentID, parentID) && f.Order+1 > next {
				next = f.Order + 1
			}
		}
		return nil
	})
	return next, err
}

// UpdatePositions writes parent_id and order of every given folder
func (r *FolderRepository) UpdatePositions(ctx context.Context, userID string, folders []models.Folder) error {
	return r.store.write(ctx, func(t *tables) error {
		for _, f := range folders {
			stored, ok := t.folders[f.ID]
			if !ok || stored.UserID != userID {
				return fmt.Errorf("folder %s: %w", f.ID, domain.ErrNotFound)
			}
			stored.ParentID = copyID(f.ParentID)
			stored.Order = f.Order
			t.folders[f.ID] = stored
		}
		return nil
	})
}

// ListByIDs retrieves the user's folders among ids
func (r *FolderRepository) ListByIDs(ctx context.Context, userID string, ids []string) ([]models.Folder, error) {
	var folders []models.Folder
	err := r.store.read(ctx, func(t *tables) error {
		for id := range idSet(ids) {
			if f, ok := t.folders[id]; ok && f.UserID == userID {
				f.ParentID = copyID(f.ParentID)
				folders = append(folders, f)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortFolders(folders)
	return folders, nil
}

// GetAllByUser retrieves all folders of a user
func (r *FolderRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	folders := []models.Folder{}
	err := r.store.read(ctx, func(t *tables) error {
		for _, f := range t.folders {
			if f.UserID == userID {
				f.ParentID = copyID(f.ParentID)
				folders = append(folders, f)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortFolders(folders)
	return folders, nil
}

// sortFolders orders by order, then creation time, then ID for a stable result
func sortFolders(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool {
		a, b := folders[i], folders[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func withoutIDs(ids []string, removed map[string]struct{}) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, gone := removed[id]; !gone {
			result = append(result, id)
		}
	}
	return result
}
