package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/services"
	"github.com/ktmouk/minute-sub000/internal/middleware"
	"github.com/ktmouk/minute-sub000/internal/repository/memory"
	"github.com/ktmouk/minute-sub000/internal/service"
)

const testUser = "user-1"

type testServer struct {
	handler http.Handler
	entries services.TimeEntryService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	folderRepo := memory.NewFolderRepository(store)
	hierarchyRepo := memory.NewHierarchyRepository(store)
	categoryRepo := memory.NewCategoryRepository(store)
	chartRepo := memory.NewChartRepository(store)
	txManager := memory.NewTransactionManager(store)
	validator := service.NewResourceValidator(folderRepo, categoryRepo)

	entries := service.NewTimeEntryService(memory.NewTaskRepository(store), memory.NewTimeEntryRepository(store), validator, logger)

	mux := NewRouter(&Handlers{
		Folder: NewFolderHandler(service.NewFolderService(folderRepo, hierarchyRepo, txManager, validator, logger), logger),
		Tree:   NewTreeHandler(service.NewTreeService(folderRepo, hierarchyRepo, logger), logger),
		Chart: NewChartHandler(
			service.NewChartService(chartRepo, categoryRepo, txManager, validator, logger),
			service.NewChartDatasetService(chartRepo, categoryRepo, hierarchyRepo, memory.NewTimeEntryRepository(store), logger),
			logger,
		),
		Health: NewHealthHandler(nil),
	})

	return &testServer{
		handler: middleware.StaticUserMiddleware(testUser)(mux),
		entries: entries,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createFolder(t *testing.T, name string, parentID *string) models.Folder {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/folders", map[string]interface{}{
		"name":      name,
		"emoji":     "📁",
		"color":     "#336699",
		"parent_id": parentID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var folder models.Folder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &folder))
	return folder
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func TestFolderLifecycle(t *testing.T) {
	s := newTestServer(t)

	root := s.createFolder(t, "root", nil)
	child := s.createFolder(t, "child", &root.ID)
	assert.Equal(t, testUser, root.UserID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	// move child to the root level, after root
	rec := s.do(t, http.MethodPost, "/api/folders/"+child.ID+"/move", map[string]interface{}{
		"parent_id":       nil,
		"after_folder_id": root.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var moved models.Folder
	decode(t, rec, &moved)
	assert.Nil(t, moved.ParentID)
	assert.Equal(t, 1, moved.Order)

	rec = s.do(t, http.MethodPatch, "/api/folders/"+child.ID, map[string]interface{}{"name": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/folders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tree []models.FolderTreeNode
	decode(t, rec, &tree)
	require.Len(t, tree, 2)
	assert.Equal(t, "root", tree[0].Name)
	assert.Equal(t, "renamed", tree[1].Name)

	rec = s.do(t, http.MethodDelete, "/api/folders/"+child.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/folders/"+child.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMoveFolder_Errors(t *testing.T) {
	s := newTestServer(t)

	root := s.createFolder(t, "root", nil)
	child := s.createFolder(t, "child", &root.ID)
	other := s.createFolder(t, "other", nil)

	tests := []struct {
		name       string
		folderID   string
		body       map[string]interface{}
		wantStatus int
		wantDetail string
	}{
		{
			name:       "into own descendant",
			folderID:   root.ID,
			body:       map[string]interface{}{"parent_id": child.ID},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "folder cannot move to the descendant folder",
		},
		{
			name:       "after folder in another group",
			folderID:   other.ID,
			body:       map[string]interface{}{"parent_id": root.ID, "after_folder_id": other.ID},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "after folder does not exist",
		},
		{
			name:       "unknown parent",
			folderID:   other.ID,
			body:       map[string]interface{}{"parent_id": "7d5f0f38-0f5c-4a43-8a8b-3b4c6a0b9f11"},
			wantStatus: http.StatusNotFound,
			wantDetail: "ancestor folder does not exist",
		},
		{
			name:       "malformed parent id",
			folderID:   other.ID,
			body:       map[string]interface{}{"parent_id": "nope"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed path id",
			folderID:   "nope",
			body:       map[string]interface{}{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/folders/"+tt.folderID+"/move", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			if tt.wantDetail != "" {
				var problem map[string]interface{}
				decode(t, rec, &problem)
				assert.Equal(t, tt.wantDetail, problem["detail"])
			}
		})
	}
}

func TestGetAncestors(t *testing.T) {
	s := newTestServer(t)

	root := s.createFolder(t, "root", nil)
	leaf := s.createFolder(t, "leaf", &root.ID)

	rec := s.do(t, http.MethodGet, "/api/folders/"+leaf.ID+"/ancestors", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ancestors []models.Folder
	decode(t, rec, &ancestors)
	require.Len(t, ancestors, 2)
	assert.Equal(t, root.ID, ancestors[0].ID)
	assert.Equal(t, leaf.ID, ancestors[1].ID)
}

func TestChartDataset(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	root := s.createFolder(t, "root", nil)
	child := s.createFolder(t, "child", &root.ID)

	for _, e := range []struct {
		folderID string
		start    time.Time
		seconds  int
	}{
		{folderID: root.ID, start: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), seconds: 900},
		{folderID: root.ID, start: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), seconds: 400},
		{folderID: child.ID, start: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), seconds: 300},
	} {
		task, err := s.entries.CreateTask(ctx, &services.CreateTaskRequest{UserID: testUser, FolderID: e.folderID})
		require.NoError(t, err)
		_, err = s.entries.CreateTimeEntry(ctx, &services.CreateTimeEntryRequest{
			UserID:    testUser,
			TaskID:    task.ID,
			StartedAt: e.start,
			StoppedAt: e.start.Add(time.Duration(e.seconds) * time.Second),
		})
		require.NoError(t, err)
	}

	rec := s.do(t, http.MethodPost, "/api/categories", map[string]interface{}{
		"name":       "kids",
		"emoji":      "🧒",
		"color":      "#aa0000",
		"folder_ids": []string{child.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var category models.Category
	decode(t, rec, &category)

	rec = s.do(t, http.MethodPost, "/api/charts", map[string]interface{}{
		"name":         "overview",
		"folder_ids":   []string{root.ID},
		"category_ids": []string{category.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var chart models.Chart
	decode(t, rec, &chart)

	rec = s.do(t, http.MethodGet, "/api/charts/"+chart.ID+"/dataset?start=2024-01-01&end=2024-01-03", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dataset models.ChartDataset
	decode(t, rec, &dataset)
	require.Len(t, dataset.Folders, 1)
	assert.Equal(t, []models.DatePoint{
		{LocalDate: "2024-01-01", Duration: 1200},
		{LocalDate: "2024-01-02", Duration: 400},
	}, dataset.Folders[0].Data)
	require.Len(t, dataset.Categories, 1)
	assert.Equal(t, []models.DatePoint{{LocalDate: "2024-01-01", Duration: 300}}, dataset.Categories[0].Data)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{name: "start equals end", query: "start=2024-01-01&end=2024-01-01", wantStatus: http.StatusBadRequest},
		{name: "missing end", query: "start=2024-01-01", wantStatus: http.StatusBadRequest},
		{name: "bad date part", query: "start=2024-01-01&end=2024-01-03&date_part=week", wantStatus: http.StatusBadRequest},
		{name: "bad time zone", query: "start=2024-01-01&end=2024-01-03&time_zone=Nowhere/City", wantStatus: http.StatusBadRequest},
		{name: "month buckets in tokyo", query: "start=2024-01-01&end=2024-01-03&date_part=month&time_zone=Asia/Tokyo", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/charts/"+chart.ID+"/dataset?"+tt.query, nil)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	rec = s.do(t, http.MethodGet, "/api/charts/7d5f0f38-0f5c-4a43-8a8b-3b4c6a0b9f11/dataset?start=2024-01-01&end=2024-01-03", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateFolder_BadRequest(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/folders", map[string]interface{}{"name": "x", "unexpected": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/folders", map[string]interface{}{"name": "", "emoji": "📁", "color": "#336699"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	failing := NewRouter(&Handlers{
		Health: NewHealthHandler(func(context.Context) error { return errors.New("connection refused") }),
	})
	rec = httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
