package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ktmouk/minute-sub000/internal/config"
	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
	"github.com/ktmouk/minute-sub000/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/sync/errgroup"
)

type chartDatasetService struct {
	chartRepo     repositories.ChartRepository
	categoryRepo  repositories.CategoryRepository
	hierarchyRepo repositories.FolderHierarchyRepository
	timeEntryRepo repositories.TimeEntryRepository
	logger        *slog.Logger
}

// NewChartDatasetService creates a new chart dataset service
func NewChartDatasetService(
	chartRepo repositories.ChartRepository,
	categoryRepo repositories.CategoryRepository,
	hierarchyRepo repositories.FolderHierarchyRepository,
	timeEntryRepo repositories.TimeEntryRepository,
	logger *slog.Logger,
) services.ChartDatasetService {
	return &chartDatasetService{
		chartRepo:     chartRepo,
		categoryRepo:  categoryRepo,
		hierarchyRepo: hierarchyRepo,
		timeEntryRepo: timeEntryRepo,
		logger:        logger,
	}
}

// GetChartDataset sums time entry durations for every folder and category of a chart.
//
// Each folder attached to the chart, directly or through a category, is expanded to its
// whole subtree via the closure table and aggregated with one bucketed query. Folders only
// reached through a category are not reported themselves; category series are the per-date
// sums of their folders' series.
func (s *chartDatasetService) GetChartDataset(ctx context.Context, req *services.ChartDatasetRequest) (*models.ChartDataset, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, &domain.InvalidRangeError{Message: "start date must be earlier than end date"}
	}

	loc, err := time.LoadLocation(req.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", domain.ErrValidation, req.TimeZone)
	}

	chart, err := s.chartRepo.GetByID(ctx, req.ChartID, req.UserID)
	if err != nil {
		return nil, notFoundAs(err, "chart does not exist")
	}

	categoryFolders, err := s.categoryRepo.ListFolderIDs(ctx, req.UserID, chart.CategoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list category folders: %w", err)
	}

	folderIDs := append([]string{}, chart.FolderIDs...)
	for _, categoryID := range chart.CategoryIDs {
		folderIDs = append(folderIDs, categoryFolders[categoryID]...)
	}
	folderIDs = uniqueIDs(folderIDs)

	series, err := s.sumFolders(ctx, req, loc, folderIDs)
	if err != nil {
		return nil, err
	}

	dataset := &models.ChartDataset{
		Folders:    make([]models.FolderDataset, 0, len(chart.FolderIDs)),
		Categories: make([]models.CategoryDataset, 0, len(chart.CategoryIDs)),
	}

	for _, folderID := range uniqueIDs(chart.FolderIDs) {
		dataset.Folders = append(dataset.Folders, models.FolderDataset{
			FolderID: folderID,
			Data:     mergeDatePoints(series[folderID]),
		})
	}

	for _, categoryID := range uniqueIDs(chart.CategoryIDs) {
		var points [][]models.DatePoint
		for _, folderID := range uniqueIDs(categoryFolders[categoryID]) {
			points = append(points, series[folderID])
		}
		dataset.Categories = append(dataset.Categories, models.CategoryDataset{
			CategoryID: categoryID,
			Data:       mergeDatePoints(points...),
		})
	}

	s.logger.Debug("chart dataset built",
		"chart_id", chart.ID,
		"user_id", req.UserID,
		"folder_count", len(folderIDs),
		"category_count", len(chart.CategoryIDs),
		"date_part", req.DatePart,
		"time_zone", req.TimeZone,
	)

	return dataset, nil
}

// sumFolders runs one aggregation query per folder subtree, a few at a time
func (s *chartDatasetService) sumFolders(ctx context.Context, req *services.ChartDatasetRequest, loc *time.Location, folderIDs []string) (map[string][]models.DatePoint, error) {
	series := make(map[string][]models.DatePoint, len(folderIDs))
	if len(folderIDs) == 0 {
		return series, nil
	}

	descendants, err := s.hierarchyRepo.ListDescendantIDs(ctx, req.UserID, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("list descendant folders: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.DatasetQueryConcurrency)

	for _, folderID := range folderIDs {
		subtree := descendants[folderID]
		if len(subtree) == 0 {
			continue
		}

		g.Go(func() error {
			points, err := s.timeEntryRepo.SumByDate(gctx, &repositories.DurationQuery{
				UserID:    req.UserID,
				FolderIDs: subtree,
				StartDate: req.StartDate,
				EndDate:   req.EndDate,
				DatePart:  req.DatePart,
				Location:  loc,
			})
			if err != nil {
				return fmt.Errorf("sum durations of folder %s: %w", folderID, err)
			}

			mu.Lock()
			series[folderID] = points
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return series, nil
}

// mergeDatePoints sums durations per local date across series, sorted by date
func mergeDatePoints(series ...[]models.DatePoint) []models.DatePoint {
	totals := make(map[string]int64)
	for _, points := range series {
		for _, point := range points {
			totals[point.LocalDate] += point.Duration
		}
	}

	result := make([]models.DatePoint, 0, len(totals))
	for date, duration := range totals {
		result = append(result, models.DatePoint{LocalDate: date, Duration: duration})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LocalDate < result[j].LocalDate
	})
	return result
}

// validateRequest validates a dataset request
func (s *chartDatasetService) validateRequest(req *services.ChartDatasetRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.ChartID, validation.Required, is.UUID),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.EndDate, validation.Required),
		validation.Field(&req.DatePart, validation.Required, validation.In(models.DatePartDay, models.DatePartMonth)),
		// "Local" would bucket by the server's zone, which Postgres cannot resolve
		validation.Field(&req.TimeZone, validation.Required, validation.NotIn("Local").Error("must be an IANA time zone name")),
	)
}
