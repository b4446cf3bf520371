package models

import "time"

// Task belongs to exactly one folder
type Task struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	FolderID    string    `json:"folder_id" db:"folder_id"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TimeEntry is a finished span of work on a task. Duration is in seconds.
type TimeEntry struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	StartedAt time.Time `json:"started_at" db:"started_at"`
	StoppedAt time.Time `json:"stopped_at" db:"stopped_at"`
	Duration  int64     `json:"duration" db:"duration"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
