package controllers

import (
	"net/http"

	"github.com/Uttam1728/event-analytics/internal/runtime"
	eventsvc "github.com/Uttam1728/event-analytics/internal/services/events"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general     *GeneralController
	events      *EventsController
	persistence *PersistenceController
}

// NewControllerRegistry creates a new controller registry.
//
// It initializes all controllers with the provided runtime and service.
func NewControllerRegistry(rt *runtime.Runtime, svc *eventsvc.Service) *ControllerRegistry {
	return &ControllerRegistry{
		general:     NewGeneralController(rt),
		events:      NewEventsController(svc),
		persistence: NewPersistenceController(svc),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// This method sets up all HTTP endpoints for the analytics service:
// general endpoints (health), event ingestion and minute-bucket analytics,
// and persistence status endpoints.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.events.RegisterRoutes(mux)
	r.persistence.RegisterRoutes(mux)
}
