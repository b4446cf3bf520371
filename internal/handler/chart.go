package handler

import (
	"log/slog"
	"net/http"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/services"
	"github.com/ktmouk/minute-sub000/internal/httputil"
)

// ChartHandler handles category, chart and dataset requests
type ChartHandler struct {
	chartService   services.ChartService
	datasetService services.ChartDatasetService
	logger         *slog.Logger
}

// NewChartHandler creates a new chart handler
func NewChartHandler(chartService services.ChartService, datasetService services.ChartDatasetService, logger *slog.Logger) *ChartHandler {
	return &ChartHandler{
		chartService:   chartService,
		datasetService: datasetService,
		logger:         logger,
	}
}

// CreateCategory creates a category mapped to a set of folders
// POST /api/categories
func (h *ChartHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCategoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = httputil.GetUserID(r)

	category, err := h.chartService.CreateCategory(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, category)
}

// CreateChart creates a chart over folders and categories
// POST /api/charts
func (h *ChartHandler) CreateChart(w http.ResponseWriter, r *http.Request) {
	var req services.CreateChartRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = httputil.GetUserID(r)

	chart, err := h.chartService.CreateChart(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, chart)
}

// GetDataset aggregates the chart's time entries
// GET /api/charts/{id}/dataset?start=...&end=...&date_part=day|month&time_zone=Asia/Tokyo
func (h *ChartHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, err := httputil.QueryTime(r, "start")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := httputil.QueryTime(r, "end")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	timeZone := query.Get("time_zone")
	if timeZone == "" {
		timeZone = "UTC"
	}
	datePart := models.DatePart(query.Get("date_part"))
	if datePart == "" {
		datePart = models.DatePartDay
	}

	dataset, err := h.datasetService.GetChartDataset(r.Context(), &services.ChartDatasetRequest{
		UserID:    httputil.GetUserID(r),
		ChartID:   id,
		StartDate: start,
		EndDate:   end,
		DatePart:  datePart,
		TimeZone:  timeZone,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dataset)
}
