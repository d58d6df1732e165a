// Package server wires HTTP handlers into a gorilla/mux router wrapped in
// recovery and access-logging middleware.
package server

import (
	"io"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// SetupRoutes configures the application routes for hub and writes access
// logs to stderr.
func SetupRoutes(hub *Hub) http.Handler {
	return SetupRoutesWithLog(hub, os.Stderr)
}

// SetupRoutesWithLog is SetupRoutes with access logs written to accessLog.
func SetupRoutesWithLog(hub *Hub, accessLog io.Writer) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", HealthHandler)
	router.HandleFunc("/chat/{"+roomVar+"}", ChatHandler(hub))
	router.HandleFunc("/test", TestPageHandler).Methods(http.MethodGet)

	roomsCORS := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)
	router.Handle("/rooms", roomsCORS(RoomsHandler(hub))).Methods(http.MethodGet, http.MethodOptions)

	logged := handlers.CombinedLoggingHandler(accessLog, router)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(logged)
}
