package memory

import (
	"context"
	"fmt"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// ChartRepository implements repositories.ChartRepository
type ChartRepository struct {
	store *Store
}

// NewChartRepository creates a new chart repository
func NewChartRepository(store *Store) repositories.ChartRepository {
	return &ChartRepository{store: store}
}

// Create inserts a chart and its folder/category links
func (r *ChartRepository) Create(ctx context.Context, chart *models.Chart) error {
	return r.store.write(ctx, func(t *tables) error {
		if _, exists := t.charts[chart.ID]; exists {
			return &domain.ConflictError{Message: "chart already exists", ResourceType: "chart", ResourceID: chart.ID}
		}
		for _, folderID := range chart.FolderIDs {
			if f, ok := t.folders[folderID]; !ok || f.UserID != chart.UserID {
				return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
			}
		}
		for _, categoryID := range chart.CategoryIDs {
			if c, ok := t.categories[categoryID]; !ok || c.UserID != chart.UserID {
				return fmt.Errorf("category %s: %w", categoryID, domain.ErrNotFound)
			}
		}
		stored := *chart
		stored.FolderIDs = append([]string{}, chart.FolderIDs...)
		stored.CategoryIDs = append([]string{}, chart.CategoryIDs...)
		t.charts[chart.ID] = stored
		return nil
	})
}

// GetByID retrieves a chart by ID
func (r *ChartRepository) GetByID(ctx context.Context, id, userID string) (*models.Chart, error) {
	var chart models.Chart
	err := r.store.read(ctx, func(t *tables) error {
		c, ok := t.charts[id]
		if !ok || c.UserID != userID {
			return fmt.Errorf("chart %s: %w", id, domain.ErrNotFound)
		}
		chart = c
		chart.FolderIDs = append([]string{}, c.FolderIDs...)
		chart.CategoryIDs = append([]string{}, c.CategoryIDs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &chart, nil
}
