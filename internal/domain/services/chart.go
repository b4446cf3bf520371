package services

import (
	"context"
	"time"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

// ChartService handles chart and category definitions
type ChartService interface {
	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error)
	CreateChart(ctx context.Context, req *CreateChartRequest) (*models.Chart, error)
}

// ChartDatasetService aggregates time entries for a chart
type ChartDatasetService interface {
	GetChartDataset(ctx context.Context, req *ChartDatasetRequest) (*models.ChartDataset, error)
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	UserID    string   `json:"-"`
	Name      string   `json:"name"`
	Emoji     string   `json:"emoji"`
	Color     string   `json:"color"`
	FolderIDs []string `json:"folder_ids"`
}

// CreateChartRequest represents a chart creation request
type CreateChartRequest struct {
	UserID      string   `json:"-"`
	Name        string   `json:"name"`
	FolderIDs   []string `json:"folder_ids"`
	CategoryIDs []string `json:"category_ids"`
}

// ChartDatasetRequest selects the chart, the time range [StartDate, EndDate] and the bucketing
type ChartDatasetRequest struct {
	UserID    string
	ChartID   string
	StartDate time.Time
	EndDate   time.Time
	DatePart  models.DatePart
	TimeZone  string // IANA name, e.g. "Asia/Tokyo"
}
