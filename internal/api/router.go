package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roomsync/roomsync/internal/api/handler"
	"github.com/roomsync/roomsync/internal/api/middleware"
	"github.com/roomsync/roomsync/internal/api/response"
	"github.com/roomsync/roomsync/internal/services/coord"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *coord.Service
}

// NewRouter creates a new API router with all routes configured.
// Mutations are POST, reads are GET throughout.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.Coordinator)
	tenantHandler := handler.NewTenantHandler(cfg.Coordinator)
	roomHandler := handler.NewRoomHandler(cfg.Coordinator)
	positionHandler := handler.NewPositionHandler(cfg.Coordinator)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Coordinator.Sessions())
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/ping", pingHandler).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/session/login", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/positions", positionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/positions/{player_id}", positionHandler.Get).Methods(http.MethodGet)

	// Session routes (require login)
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/session", sessionHandler.Me).Methods(http.MethodGet)

	// Tenant routes
	protected.HandleFunc("/tenants", tenantHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/connect", tenantHandler.Connect).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/disconnect", tenantHandler.Disconnect).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/current", tenantHandler.Current).Methods(http.MethodGet)

	// Room routes
	protected.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/rooms/join", roomHandler.Join).Methods(http.MethodPost)
	protected.HandleFunc("/rooms/leave", roomHandler.Leave).Methods(http.MethodPost)

	// Position routes
	protected.HandleFunc("/positions", positionHandler.Signal).Methods(http.MethodPost)

	return r
}

// pingHandler reports the server as online.
// Kept on GET and POST; clients in the wild use both.
func pingHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Status{Status: "online"})
}
