package repositories

import (
	"context"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

// ChartRepository defines data access operations for charts
type ChartRepository interface {
	// Create inserts a chart and its folder/category links
	Create(ctx context.Context, chart *models.Chart) error

	// GetByID retrieves a chart with FolderIDs and CategoryIDs populated
	GetByID(ctx context.Context, id, userID string) (*models.Chart, error)
}
