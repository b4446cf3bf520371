package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/services"
)

func TestCreateTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := f.createFolder(t, userA, "folder", nil)

	task, err := f.entries.CreateTask(ctx, &services.CreateTaskRequest{
		UserID:      userA,
		FolderID:    folder.ID,
		Description: "  write report ",
	})
	require.NoError(t, err)
	assert.Equal(t, "write report", task.Description)
	assert.Equal(t, folder.ID, task.FolderID)

	_, err = f.entries.CreateTask(ctx, &services.CreateTaskRequest{UserID: userB, FolderID: folder.ID})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "folder does not exist")

	_, err = f.entries.CreateTask(ctx, &services.CreateTaskRequest{UserID: userA, FolderID: "nope"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateTimeEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := f.createFolder(t, userA, "folder", nil)

	task, err := f.entries.CreateTask(ctx, &services.CreateTaskRequest{UserID: userA, FolderID: folder.ID})
	require.NoError(t, err)

	start := date(2024, 1, 1, 9, 0)

	entry, err := f.entries.CreateTimeEntry(ctx, &services.CreateTimeEntryRequest{
		UserID:    userA,
		TaskID:    task.ID,
		StartedAt: start,
		StoppedAt: start.Add(90*time.Minute + 500*time.Millisecond),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5400), entry.Duration)

	tests := []struct {
		name    string
		req     services.CreateTimeEntryRequest
		wantErr error
	}{
		{
			name:    "stop before start",
			req:     services.CreateTimeEntryRequest{UserID: userA, TaskID: task.ID, StartedAt: start, StoppedAt: start.Add(-time.Minute)},
			wantErr: domain.ErrInvalidRange,
		},
		{
			name:    "zero length",
			req:     services.CreateTimeEntryRequest{UserID: userA, TaskID: task.ID, StartedAt: start, StoppedAt: start},
			wantErr: domain.ErrInvalidRange,
		},
		{
			name:    "unknown task",
			req:     services.CreateTimeEntryRequest{UserID: userA, TaskID: uuid.NewString(), StartedAt: start, StoppedAt: start.Add(time.Minute)},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "task of another user",
			req:     services.CreateTimeEntryRequest{UserID: userB, TaskID: task.ID, StartedAt: start, StoppedAt: start.Add(time.Minute)},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "missing start",
			req:     services.CreateTimeEntryRequest{UserID: userA, TaskID: task.ID, StoppedAt: start},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.entries.CreateTimeEntry(ctx, &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
