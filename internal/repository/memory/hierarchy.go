package memory

import (
	"context"
	"sort"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// HierarchyRepository implements repositories.FolderHierarchyRepository
type HierarchyRepository struct {
	store *Store
}

// NewHierarchyRepository creates a new closure table repository
func NewHierarchyRepository(store *Store) repositories.FolderHierarchyRepository {
	return &HierarchyRepository{store: store}
}

// CreateMany inserts closure rows
func (r *HierarchyRepository) CreateMany(ctx context.Context, rows []models.FolderHierarchy) error {
	return r.store.write(ctx, func(t *tables) error {
		for _, row := range rows {
			row.AncestorID = copyID(row.AncestorID)
			t.hierarchies[row.ID] = row
		}
		return nil
	})
}

// ListAncestors returns every row whose descendant is folderID
func (r *HierarchyRepository) ListAncestors(ctx context.Context, userID, folderID string) ([]models.FolderHierarchy, error) {
	return r.filter(ctx, func(row models.FolderHierarchy) bool {
		return row.UserID == userID && row.DescendantID == folderID
	})
}

// ListDescendants returns every row whose ancestor is folderID
func (r *HierarchyRepository) ListDescendants(ctx context.Context, userID, folderID string) ([]models.FolderHierarchy, error) {
	return r.filter(ctx, func(row models.FolderHierarchy) bool {
		return row.UserID == userID && row.AncestorID != nil && *row.AncestorID == folderID
	})
}

// ListDescendantIDs returns the subtree IDs of each folder
func (r *HierarchyRepository) ListDescendantIDs(ctx context.Context, userID string, folderIDs []string) (map[string][]string, error) {
	wanted := idSet(folderIDs)
	rows, err := r.filter(ctx, func(row models.FolderHierarchy) bool {
		if row.UserID != userID || row.AncestorID == nil {
			return false
		}
		_, ok := wanted[*row.AncestorID]
		return ok
	})
	if err != nil {
		return nil, err
	}

	result := make(map[string][]string, len(folderIDs))
	for _, row := range rows {
		result[*row.AncestorID] = append(result[*row.AncestorID], row.DescendantID)
	}
	return result, nil
}

// IsDescendant reports whether descendantID is within the subtree of ancestorID
func (r *HierarchyRepository) IsDescendant(ctx context.Context, userID, ancestorID, descendantID string) (bool, error) {
	rows, err := r.filter(ctx, func(row models.FolderHierarchy) bool {
		return row.UserID == userID && row.AncestorID != nil &&
			*row.AncestorID == ancestorID && row.DescendantID == descendantID
	})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// DeleteExternal deletes the rows linking the subtree to anything outside it
func (r *HierarchyRepository) DeleteExternal(ctx context.Context, userID string, subtreeIDs []string) error {
	members := idSet(subtreeIDs)
	return r.store.write(ctx, func(t *tables) error {
		for id, row := range t.hierarchies {
			if row.UserID != userID {
				continue
			}
			if _, inside := members[row.DescendantID]; !inside {
				continue
			}
			if row.AncestorID != nil {
				if _, internal := members[*row.AncestorID]; internal {
					continue
				}
			}
			delete(t.hierarchies, id)
		}
		return nil
	})
}

// LockUser is a no-op: transactions on the memory store are already serialised
func (r *HierarchyRepository) LockUser(ctx context.Context, userID string) error {
	return ctx.Err()
}

func (r *HierarchyRepository) filter(ctx context.Context, keep func(models.FolderHierarchy) bool) ([]models.FolderHierarchy, error) {
	rows := []models.FolderHierarchy{}
	err := r.store.read(ctx, func(t *tables) error {
		for _, row := range t.hierarchies {
			if keep(row) {
				row.AncestorID = copyID(row.AncestorID)
				rows = append(rows, row)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DescendantID != rows[j].DescendantID {
			return rows[i].DescendantID < rows[j].DescendantID
		}
		return rows[i].Depth < rows[j].Depth
	})
	return rows, nil
}
