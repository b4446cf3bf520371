package models

import "time"

// Chart references the folders and categories whose time series it displays
type Chart struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	FolderIDs   []string  `json:"folder_ids"`   // via chart_folders
	CategoryIDs []string  `json:"category_ids"` // via chart_categories
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
