package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
	"github.com/ktmouk/minute-sub000/internal/domain/services"
	"github.com/ktmouk/minute-sub000/internal/repository/memory"
)

const (
	userA = "user-a"
	userB = "user-b"
)

// fixture wires every service against a fresh in-memory store
type fixture struct {
	folderRepo    repositories.FolderRepository
	hierarchyRepo repositories.FolderHierarchyRepository
	taskRepo      repositories.TaskRepository

	folders  services.FolderService
	tree     services.TreeService
	charts   services.ChartService
	datasets services.ChartDatasetService
	entries  services.TimeEntryService

	names map[string]string // folder ID -> name, for readable assertions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	folderRepo := memory.NewFolderRepository(store)
	hierarchyRepo := memory.NewHierarchyRepository(store)
	categoryRepo := memory.NewCategoryRepository(store)
	chartRepo := memory.NewChartRepository(store)
	taskRepo := memory.NewTaskRepository(store)
	timeEntryRepo := memory.NewTimeEntryRepository(store)
	txManager := memory.NewTransactionManager(store)
	validator := NewResourceValidator(folderRepo, categoryRepo)

	return &fixture{
		folderRepo:    folderRepo,
		hierarchyRepo: hierarchyRepo,
		taskRepo:      taskRepo,
		folders:       NewFolderService(folderRepo, hierarchyRepo, txManager, validator, logger),
		tree:          NewTreeService(folderRepo, hierarchyRepo, logger),
		charts:        NewChartService(chartRepo, categoryRepo, txManager, validator, logger),
		datasets:      NewChartDatasetService(chartRepo, categoryRepo, hierarchyRepo, timeEntryRepo, logger),
		entries:       NewTimeEntryService(taskRepo, timeEntryRepo, validator, logger),
		names:         map[string]string{},
	}
}

func (f *fixture) createFolder(t *testing.T, userID, name string, parent *models.Folder) *models.Folder {
	t.Helper()

	req := &services.CreateFolderRequest{
		UserID: userID,
		Name:   name,
		Emoji:  "📁",
		Color:  "#336699",
	}
	if parent != nil {
		req.AncestorID = &parent.ID
	}

	folder, err := f.folders.CreateFolder(context.Background(), req)
	require.NoError(t, err)
	f.names[folder.ID] = name
	return folder
}

func (f *fixture) move(userID string, folder, parent, after *models.Folder) error {
	req := &services.MoveFolderRequest{UserID: userID, FolderID: folder.ID}
	if parent != nil {
		req.AncestorID = &parent.ID
	}
	if after != nil {
		req.AfterFolderID = &after.ID
	}
	return f.folders.MoveFolder(context.Background(), req)
}

// logEntry creates a task in folder and a time entry of duration starting at start
func (f *fixture) logEntry(t *testing.T, userID string, folder *models.Folder, start time.Time, duration time.Duration) {
	t.Helper()
	ctx := context.Background()

	task, err := f.entries.CreateTask(ctx, &services.CreateTaskRequest{
		UserID:      userID,
		FolderID:    folder.ID,
		Description: "work",
	})
	require.NoError(t, err)

	_, err = f.entries.CreateTimeEntry(ctx, &services.CreateTimeEntryRequest{
		UserID:    userID,
		TaskID:    task.ID,
		StartedAt: start,
		StoppedAt: start.Add(duration),
	})
	require.NoError(t, err)
}

// closure renders the user's closure table as sorted "(ancestor,descendant,depth)" strings
func (f *fixture) closure(t *testing.T, userID string) []string {
	t.Helper()

	ctx := context.Background()

	folders, err := f.folderRepo.GetAllByUser(ctx, userID)
	require.NoError(t, err)

	result := []string{}
	for _, folder := range folders {
		// every row has exactly one descendant, so the ancestor lists partition the table
		rows, err := f.hierarchyRepo.ListAncestors(ctx, userID, folder.ID)
		require.NoError(t, err)

		for _, row := range rows {
			ancestor := "null"
			if row.AncestorID != nil {
				ancestor = f.name(*row.AncestorID)
			}
			result = append(result, fmt.Sprintf("(%s,%s,%d)", ancestor, f.name(row.DescendantID), row.Depth))
		}
	}
	sort.Strings(result)
	return result
}

func (f *fixture) name(id string) string {
	if name, ok := f.names[id]; ok {
		return name
	}
	return id
}

// children returns the names of parent's children in order
func (f *fixture) children(t *testing.T, userID string, parent *models.Folder) []string {
	t.Helper()

	var parentID *string
	if parent != nil {
		parentID = &parent.ID
	}
	folders, err := f.folderRepo.ListChildren(context.Background(), parentID, userID)
	require.NoError(t, err)

	names := make([]string, len(folders))
	for i, folder := range folders {
		names[i] = f.name(folder.ID)
	}
	return names
}

// requireConsistent checks the closure table against the parent pointers and
// every sibling group for dense ordering
func (f *fixture) requireConsistent(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()

	folders, err := f.folderRepo.GetAllByUser(ctx, userID)
	require.NoError(t, err)

	byID := make(map[string]models.Folder, len(folders))
	for _, folder := range folders {
		byID[folder.ID] = folder
	}

	expected := []string{}
	groups := make(map[string][]int)
	for _, folder := range folders {
		expected = append(expected, fmt.Sprintf("(%s,%s,0)", f.name(folder.ID), f.name(folder.ID)))

		depth := 0
		for parentID := folder.ParentID; parentID != nil; parentID = byID[*parentID].ParentID {
			depth++
			expected = append(expected, fmt.Sprintf("(%s,%s,%d)", f.name(*parentID), f.name(folder.ID), depth))
		}
		expected = append(expected, fmt.Sprintf("(null,%s,%d)", f.name(folder.ID), depth+1))

		key := "root"
		if folder.ParentID != nil {
			key = *folder.ParentID
		}
		groups[key] = append(groups[key], folder.Order)
	}
	sort.Strings(expected)

	require.Equal(t, expected, f.closure(t, userID), "closure table out of sync with folder tree")

	for key, orders := range groups {
		sort.Ints(orders)
		for i, order := range orders {
			require.Equal(t, i, order, "sibling orders under %s are not dense: %v", f.name(key), orders)
		}
	}
}

func date(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}
