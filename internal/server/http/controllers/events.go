package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	eventsvc "github.com/Uttam1728/event-analytics/internal/services/events"
)

// EventsController handles event ingestion and minute-bucket analytics.
type EventsController struct {
	svc *eventsvc.Service
}

// NewEventsController creates a new events controller.
func NewEventsController(svc *eventsvc.Service) *EventsController {
	return &EventsController{svc: svc}
}

// RegisterRoutes registers ingestion and analytics routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Event ingestion (POST /events)
// - Per-minute page view counts (GET /analytics/page_views_per_minute)
// - Single bucket reads (GET /analytics/minute-buckets/{key})
func (c *EventsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/events", c.handleIngest)
	mux.HandleFunc("/analytics/page_views_per_minute", c.handlePageViewsPerMinute)
	mux.HandleFunc("/analytics/minute-buckets/", c.handleBucket)
}

// handleIngest accepts one event.
// POST /events
//
// Returns 202 Accepted once the event is validated; a queue outage degrades
// to queued=false rather than rejecting the event.
func (c *EventsController) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req ingestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sreq := eventsvc.IngestRequest{
		UserID:    req.UserID,
		EventType: req.EventType,
	}
	if req.Payload != nil {
		sreq.PageURL = req.Payload.PageURL
	}
	if req.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			sreq.Timestamp = ts
		} else {
			sreq.RawTimestamp = req.Timestamp
		}
	}

	res, err := c.svc.Ingest(r.Context(), sreq)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, ingestResp{Status: "accepted", EventID: res.EventID, Queued: res.Queued})
}

// handlePageViewsPerMinute returns counts for the trailing window of minutes.
// GET /analytics/page_views_per_minute?minutes=<n>
func (c *EventsController) handlePageViewsPerMinute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	minutes := parseMinutes(r.URL.Query().Get("minutes"), 5)
	writeJSON(w, http.StatusOK, map[string]any{
		"minutes": c.svc.PageViewsPerMinute(minutes),
	})
}

// handleBucket reads one minute bucket by its key.
// GET /analytics/minute-buckets/{key}
func (c *EventsController) handleBucket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/analytics/minute-buckets/")
	if key == "" {
		writeError(w, http.StatusBadRequest, "Bucket key is required")
		return
	}
	detail, err := c.svc.Bucket(key)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
