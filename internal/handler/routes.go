package handler

import "net/http"

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Folder *FolderHandler
	Tree   *TreeHandler
	Chart  *ChartHandler
	Health *HealthHandler
}

// NewRouter registers all routes on a new ServeMux
func NewRouter(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Folder routes
	mux.HandleFunc("GET /api/folders", h.Tree.GetTree)
	mux.HandleFunc("POST /api/folders", h.Folder.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", h.Folder.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", h.Folder.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folder.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/move", h.Folder.MoveFolder)
	mux.HandleFunc("GET /api/folders/{id}/ancestors", h.Tree.GetAncestors)

	// Category and chart routes
	mux.HandleFunc("POST /api/categories", h.Chart.CreateCategory)
	mux.HandleFunc("POST /api/charts", h.Chart.CreateChart)
	mux.HandleFunc("GET /api/charts/{id}/dataset", h.Chart.GetDataset)

	return mux
}
