// routes/auth.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oakmont/qbgateway/internal/auth"
)

// RegisterAuthRoutes registers all authentication-related routes
func RegisterAuthRoutes(router *mux.Router, authHandler *auth.Handler) {
	router.HandleFunc("/auth", authHandler.ConnectHandler).Methods(http.MethodGet)
	router.HandleFunc("/callback", authHandler.CallbackHandler).Methods(http.MethodGet)
	router.HandleFunc("/auth/disconnect", authHandler.DisconnectHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/status", authHandler.StatusHandler).Methods(http.MethodGet)
}
