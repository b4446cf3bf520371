package services

import (
	"context"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

// FolderService maintains the folder forest: folder rows, sibling order and the closure table
type FolderService interface {
	// CreateFolder creates a folder at the end of its sibling list
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder
	GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error)

	// UpdateFolder changes name, emoji or color (never the position)
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// MoveFolder re-parents and/or re-orders a folder
	MoveFolder(ctx context.Context, req *MoveFolderRequest) error

	// DeleteFolder deletes a folder with its whole subtree
	DeleteFolder(ctx context.Context, userID, folderID string) error
}

// TreeService answers read-only hierarchy queries
type TreeService interface {
	// GetFolderTree returns the user's forest, children ordered by order
	GetFolderTree(ctx context.Context, userID string) ([]*models.FolderTreeNode, error)

	// GetAncestors returns the breadcrumb of a folder, root first, folder itself last
	GetAncestors(ctx context.Context, userID, folderID string) ([]models.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	UserID     string  `json:"-"`
	Name       string  `json:"name"`
	Emoji      string  `json:"emoji"`
	Color      string  `json:"color"`
	AncestorID *string `json:"parent_id,omitempty"` // null for root folders
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Name  *string `json:"name,omitempty"`
	Emoji *string `json:"emoji,omitempty"`
	Color *string `json:"color,omitempty"`
}

// MoveFolderRequest places FolderID under AncestorID (nil = forest root),
// directly after AfterFolderID (nil = first position)
type MoveFolderRequest struct {
	UserID        string  `json:"-"`
	FolderID      string  `json:"-"`
	AncestorID    *string `json:"parent_id"`
	AfterFolderID *string `json:"after_folder_id"`
}
