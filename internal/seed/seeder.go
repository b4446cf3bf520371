package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ktmouk/minute-sub000/internal/domain/services"
)

// Seeder writes a Fixture through the application services, so seeded data
// passes the same validation and closure maintenance as API traffic
type Seeder struct {
	folders services.FolderService
	charts  services.ChartService
	entries services.TimeEntryService
	logger  *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	folders services.FolderService,
	charts services.ChartService,
	entries services.TimeEntryService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		folders: folders,
		charts:  charts,
		entries: entries,
		logger:  logger,
	}
}

// Result maps fixture names to the created IDs
type Result struct {
	Folders    map[string]string // name path -> folder ID
	Categories map[string]string // name -> category ID
	Charts     map[string]string // name -> chart ID
	Entries    int
}

// Seed creates every folder, task, entry, category and chart of fixture for userID
func (s *Seeder) Seed(ctx context.Context, userID string, fixture *Fixture) (*Result, error) {
	result := &Result{
		Folders:    make(map[string]string),
		Categories: make(map[string]string),
		Charts:     make(map[string]string),
	}

	for _, folder := range fixture.Folders {
		if err := s.seedFolder(ctx, userID, folder, nil, "", result); err != nil {
			return nil, err
		}
	}

	for _, spec := range fixture.Categories {
		folderIDs, err := resolve(result.Folders, spec.Folders, "folder")
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", spec.Name, err)
		}

		category, err := s.charts.CreateCategory(ctx, &services.CreateCategoryRequest{
			UserID:    userID,
			Name:      spec.Name,
			Emoji:     spec.Emoji,
			Color:     spec.Color,
			FolderIDs: folderIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", spec.Name, err)
		}
		result.Categories[spec.Name] = category.ID
	}

	for _, spec := range fixture.Charts {
		folderIDs, err := resolve(result.Folders, spec.Folders, "folder")
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", spec.Name, err)
		}
		categoryIDs, err := resolve(result.Categories, spec.Categories, "category")
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", spec.Name, err)
		}

		chart, err := s.charts.CreateChart(ctx, &services.CreateChartRequest{
			UserID:      userID,
			Name:        spec.Name,
			FolderIDs:   folderIDs,
			CategoryIDs: categoryIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", spec.Name, err)
		}
		result.Charts[spec.Name] = chart.ID
	}

	s.logger.Info("fixture seeded",
		"user_id", userID,
		"folders", len(result.Folders),
		"categories", len(result.Categories),
		"charts", len(result.Charts),
		"entries", result.Entries,
	)

	return result, nil
}

func (s *Seeder) seedFolder(ctx context.Context, userID string, spec FolderSpec, parentID *string, parentPath string, result *Result) error {
	path := spec.Name
	if parentPath != "" {
		path = parentPath + "/" + spec.Name
	}
	if _, exists := result.Folders[path]; exists {
		return fmt.Errorf("folder %q: duplicate path", path)
	}

	folder, err := s.folders.CreateFolder(ctx, &services.CreateFolderRequest{
		UserID:     userID,
		Name:       spec.Name,
		Emoji:      spec.Emoji,
		Color:      spec.Color,
		AncestorID: parentID,
	})
	if err != nil {
		return fmt.Errorf("folder %q: %w", path, err)
	}
	result.Folders[path] = folder.ID

	for _, taskSpec := range spec.Tasks {
		task, err := s.entries.CreateTask(ctx, &services.CreateTaskRequest{
			UserID:      userID,
			FolderID:    folder.ID,
			Description: taskSpec.Description,
		})
		if err != nil {
			return fmt.Errorf("task %q in %q: %w", taskSpec.Description, path, err)
		}

		for _, entry := range taskSpec.Entries {
			_, err := s.entries.CreateTimeEntry(ctx, &services.CreateTimeEntryRequest{
				UserID:    userID,
				TaskID:    task.ID,
				StartedAt: entry.Start,
				StoppedAt: entry.Start.Add(time.Duration(entry.Minutes) * time.Minute),
			})
			if err != nil {
				return fmt.Errorf("entry at %s in %q: %w", entry.Start.Format(time.RFC3339), path, err)
			}
			result.Entries++
		}
	}

	for _, child := range spec.Folders {
		if err := s.seedFolder(ctx, userID, child, &folder.ID, path, result); err != nil {
			return err
		}
	}
	return nil
}

func resolve(ids map[string]string, names []string, kind string) ([]string, error) {
	resolved := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := ids[name]
		if !ok {
			return nil, fmt.Errorf("unknown %s %q", kind, name)
		}
		resolved = append(resolved, id)
	}
	return resolved, nil
}
