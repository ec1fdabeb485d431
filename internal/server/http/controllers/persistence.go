package controllers

import (
	"net/http"

	eventsvc "github.com/Uttam1728/event-analytics/internal/services/events"
)

// PersistenceController exposes drain-loop and archive observability.
type PersistenceController struct {
	svc *eventsvc.Service
}

// NewPersistenceController creates a new persistence controller.
func NewPersistenceController(svc *eventsvc.Service) *PersistenceController {
	return &PersistenceController{svc: svc}
}

// RegisterRoutes registers persistence routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Pipeline status (GET /persistent/status)
// - Archive file listing (GET /persistent/files)
func (c *PersistenceController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/persistent/status", c.handleStatus)
	mux.HandleFunc("/persistent/files", c.handleFiles)
}

// handleStatus reports queue depth, processor state and archive footprint.
// GET /persistent/status
func (c *PersistenceController) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, c.svc.Status(r.Context()))
}

// handleFiles lists the hour-partitioned archive files.
// GET /persistent/files
func (c *PersistenceController) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	files, err := c.svc.Files()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list archive files")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}
