package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

func newFolder(id, userID string, parentID *string, order int) *models.Folder {
	return &models.Folder{
		ID:        id,
		UserID:    userID,
		ParentID:  parentID,
		Name:      id,
		Emoji:     "📁",
		Color:     "#000000",
		Order:     order,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	folders := NewFolderRepository(store)
	tm := NewTransactionManager(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tm.ExecTx(ctx, func(ctx context.Context) error {
		require.NoError(t, folders.Create(ctx, newFolder("a", "u", nil, 0)))

		// nested transactions join the outer one
		require.NoError(t, tm.ExecTx(ctx, func(ctx context.Context) error {
			return folders.Create(ctx, newFolder("b", "u", nil, 1))
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	all, err := folders.GetAllByUser(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestExecTx_Commits(t *testing.T) {
	store := NewStore()
	folders := NewFolderRepository(store)
	tm := NewTransactionManager(store)
	ctx := context.Background()

	require.NoError(t, tm.ExecTx(ctx, func(ctx context.Context) error {
		return folders.Create(ctx, newFolder("a", "u", nil, 0))
	}))

	folder, err := folders.GetByID(ctx, "a", "u")
	require.NoError(t, err)
	assert.Equal(t, "a", folder.Name)
}

func TestFolderRepository_Scoping(t *testing.T) {
	store := NewStore()
	folders := NewFolderRepository(store)
	ctx := context.Background()

	require.NoError(t, folders.Create(ctx, newFolder("a", "u1", nil, 0)))

	_, err := folders.GetByID(ctx, "a", "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = folders.Create(ctx, newFolder("a", "u1", nil, 1))
	assert.ErrorIs(t, err, domain.ErrConflict)

	parent := "a"
	err = folders.Create(ctx, newFolder("b", "u2", &parent, 0))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	next, err := folders.NextOrder(ctx, nil, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	next, err = folders.NextOrder(ctx, &parent, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestHierarchyRepository_DeleteExternal(t *testing.T) {
	store := NewStore()
	folders := NewFolderRepository(store)
	hierarchies := NewHierarchyRepository(store)
	ctx := context.Background()

	a, b := "a", "b"
	require.NoError(t, folders.Create(ctx, newFolder("a", "u", nil, 0)))
	require.NoError(t, folders.Create(ctx, newFolder("b", "u", &a, 0)))
	require.NoError(t, folders.Create(ctx, newFolder("c", "u", &b, 0)))

	require.NoError(t, hierarchies.CreateMany(ctx, []models.FolderHierarchy{
		{ID: "1", UserID: "u", AncestorID: &a, DescendantID: "a", Depth: 0},
		{ID: "2", UserID: "u", AncestorID: nil, DescendantID: "a", Depth: 1},
		{ID: "3", UserID: "u", AncestorID: &b, DescendantID: "b", Depth: 0},
		{ID: "4", UserID: "u", AncestorID: &a, DescendantID: "b", Depth: 1},
		{ID: "5", UserID: "u", AncestorID: nil, DescendantID: "b", Depth: 2},
		{ID: "6", UserID: "u", AncestorID: strPtr("c"), DescendantID: "c", Depth: 0},
		{ID: "7", UserID: "u", AncestorID: &b, DescendantID: "c", Depth: 1},
		{ID: "8", UserID: "u", AncestorID: &a, DescendantID: "c", Depth: 2},
		{ID: "9", UserID: "u", AncestorID: nil, DescendantID: "c", Depth: 3},
	}))

	require.NoError(t, hierarchies.DeleteExternal(ctx, "u", []string{"b", "c"}))

	remaining := []string{}
	for _, id := range []string{"a", "b", "c"} {
		rows, err := hierarchies.ListAncestors(ctx, "u", id)
		require.NoError(t, err)
		for _, row := range rows {
			remaining = append(remaining, row.ID)
		}
	}
	assert.ElementsMatch(t, []string{"1", "2", "3", "6", "7"}, remaining)

	inside, err := hierarchies.IsDescendant(ctx, "u", "b", "c")
	require.NoError(t, err)
	assert.True(t, inside)

	outside, err := hierarchies.IsDescendant(ctx, "u", "a", "c")
	require.NoError(t, err)
	assert.False(t, outside)

	subtrees, err := hierarchies.ListDescendantIDs(ctx, "u", []string{"b"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, subtrees["b"])
}

func TestFolderRepository_DeleteCascades(t *testing.T) {
	store := NewStore()
	folders := NewFolderRepository(store)
	tasks := NewTaskRepository(store)
	entries := NewTimeEntryRepository(store)
	ctx := context.Background()

	a := "a"
	require.NoError(t, folders.Create(ctx, newFolder("a", "u", nil, 0)))
	require.NoError(t, folders.Create(ctx, newFolder("b", "u", &a, 0)))
	require.NoError(t, tasks.Create(ctx, &models.Task{ID: "t", UserID: "u", FolderID: "b"}))
	require.NoError(t, NewHierarchyRepository(store).CreateMany(ctx, []models.FolderHierarchy{
		{ID: "1", UserID: "u", AncestorID: &a, DescendantID: "a", Depth: 0},
		{ID: "2", UserID: "u", AncestorID: &a, DescendantID: "b", Depth: 1},
	}))

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, entries.Create(ctx, &models.TimeEntry{
		ID: "e", UserID: "u", TaskID: "t", StartedAt: start, StoppedAt: start.Add(time.Hour), Duration: 3600,
	}))

	require.NoError(t, folders.Delete(ctx, "a", "u"))

	_, err := folders.GetByID(ctx, "b", "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = tasks.GetByID(ctx, "t", "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.data.entries)
	assert.Empty(t, store.data.hierarchies)

	err = folders.Delete(ctx, "a", "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func strPtr(s string) *string {
	return &s
}
