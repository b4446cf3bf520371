package models

import (
	"time"
)

// Folder is a node of a user's folder forest. Order is dense (0..n-1) among
// siblings sharing the same (UserID, ParentID).
type Folder struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	Emoji     string    `json:"emoji" db:"emoji"`
	Color     string    `json:"color" db:"color"`
	Order     int       `json:"order" db:"order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FolderHierarchy is one row of the closure table.
//
// For every folder F the table holds:
//   - a self row (F, F, 0)
//   - a root-reachability row (NULL, F, realAncestors+1)
//   - one row (A, F, d) per real ancestor A, d = edge distance from A down to F
type FolderHierarchy struct {
	ID           string  `json:"id" db:"id"`
	UserID       string  `json:"user_id" db:"user_id"`
	AncestorID   *string `json:"ancestor_id" db:"ancestor_id"`
	DescendantID string  `json:"descendant_id" db:"descendant_id"`
	Depth        int     `json:"depth" db:"depth"`
}

// IsRootReachability reports whether the row is the synthetic forest-root row
func (h FolderHierarchy) IsRootReachability() bool {
	return h.AncestorID == nil
}

// FolderTreeNode represents a folder in the tree with nested children
type FolderTreeNode struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Emoji    string            `json:"emoji"`
	Color    string            `json:"color"`
	ParentID *string           `json:"parent_id"`
	Order    int               `json:"order"`
	Folders  []*FolderTreeNode `json:"folders"` // Pointers for proper nesting
}
