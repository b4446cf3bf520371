package models

import "time"

// Category tags a set of folders independently of the tree
type Category struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Emoji     string    `json:"emoji" db:"emoji"`
	Color     string    `json:"color" db:"color"`
	FolderIDs []string  `json:"folder_ids"` // via category_folders
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryFolder is one row of the category <-> folder mapping
type CategoryFolder struct {
	CategoryID string `json:"category_id" db:"category_id"`
	FolderID   string `json:"folder_id" db:"folder_id"`
}
