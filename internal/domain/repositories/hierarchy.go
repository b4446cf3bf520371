package repositories

import (
	"context"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

// FolderHierarchyRepository is the closure table store
type FolderHierarchyRepository interface {
	// CreateMany inserts closure rows in bulk. The caller assigns row IDs.
	CreateMany(ctx context.Context, rows []models.FolderHierarchy) error

	// ListAncestors returns every row whose descendant is folderID: the self row,
	// the root-reachability row and one row per real ancestor
	ListAncestors(ctx context.Context, userID, folderID string) ([]models.FolderHierarchy, error)

	// ListDescendants returns every row whose ancestor is folderID (self row included)
	ListDescendants(ctx context.Context, userID, folderID string) ([]models.FolderHierarchy, error)

	// ListDescendantIDs returns the descendant IDs of each given folder, self included
	ListDescendantIDs(ctx context.Context, userID string, folderIDs []string) (map[string][]string, error)

	// IsDescendant reports whether descendantID is in the subtree of ancestorID (self included)
	IsDescendant(ctx context.Context, userID, ancestorID, descendantID string) (bool, error)

	// DeleteExternal deletes rows whose descendant is in subtreeIDs and whose ancestor
	// is NULL or outside subtreeIDs. Rows internal to the subtree are kept.
	DeleteExternal(ctx context.Context, userID string, subtreeIDs []string) error

	// LockUser serialises hierarchy mutations of one user until the surrounding transaction ends
	LockUser(ctx context.Context, userID string) error
}
