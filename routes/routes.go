// routes/routes.go
package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oakmont/qbgateway/infrastructure"
	"github.com/oakmont/qbgateway/infrastructure/metrics"
	"github.com/oakmont/qbgateway/internal/auth"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *mux.Router, container *infrastructure.Container) {
	router.Use(RequestID)
	router.Use(RequestLogger(container.Log))
	router.Use(metrics.Instrument)

	RegisterAuthRoutes(router, container.AuthHandler)

	// Browser-facing invoice list: a missing token redirects into the
	// authorization flow rather than failing.
	listRouter := router.Path("/api/invoices").Subrouter()
	listRouter.Use(auth.RedirectWithoutToken(container.AuthService, "/auth"))
	listRouter.Methods(http.MethodGet).HandlerFunc(container.InvoiceHandler.ListHandler)

	// Programmatic invoice creation: a missing token is a 401, no redirect.
	createRouter := router.Path("/api/invoices/create").Subrouter()
	createRouter.Use(auth.RequireToken(container.AuthService))
	createRouter.Methods(http.MethodPost).HandlerFunc(container.InvoiceHandler.CreateHandler)

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthHandler(container)).Methods(http.MethodGet)
}

// healthHandler reports process liveness plus Redis health when configured.
func healthHandler(container *infrastructure.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status": "ok",
		}
		if container.RedisHealth != nil {
			body["redis"] = container.RedisHealth.IsHealthy()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	}
}
