package main

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// registerRoutes sets up all API endpoints
func (app *App) registerRoutes() {
	// Health check endpoint
	huma.Register(app.api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
		Summary:     "Ping health check",
		Description: "Check if the API is running",
		Tags:        []string{"health"},
	}, app.handlePing)

	huma.Register(app.api, huma.Operation{
		OperationID: "create-extraction",
		Method:      http.MethodPost,
		Path:        "/extractions",
		Summary:     "Extract a ski area",
		Description: "Geocode a resort, fetch its lifts, pistes and water, render the map and optionally store it",
		Tags:        []string{"extractions"},
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusBadGateway, http.StatusServiceUnavailable},
	}, app.handleCreateExtraction)

	huma.Register(app.api, huma.Operation{
		OperationID: "get-resort",
		Method:      http.MethodGet,
		Path:        "/resorts/{id}",
		Summary:     "Get a stored resort",
		Description: "Read a persisted resort and its lifts",
		Tags:        []string{"resorts"},
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, app.handleGetResort)
}
