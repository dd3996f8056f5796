package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roomsync/roomsync/internal/api/apierr"
	"github.com/roomsync/roomsync/internal/api/middleware"
	"github.com/roomsync/roomsync/internal/api/request"
	"github.com/roomsync/roomsync/internal/api/response"
	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/services/coord"
)

// PositionHandler handles position tracking endpoints
type PositionHandler struct {
	coordinator *coord.Service
}

// NewPositionHandler creates a new position handler
func NewPositionHandler(coordinator *coord.Service) *PositionHandler {
	return &PositionHandler{
		coordinator: coordinator,
	}
}

// Signal handles POST /api/v1/positions.
// The player id comes from the session identity, never the body.
func (h *PositionHandler) Signal(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.SignalMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.X == nil || req.Y == nil || req.Z == nil {
		apierr.WriteError(w, model.ErrMissingFields)
		return
	}

	pos, err := h.coordinator.SignalMovement(r.Context(), sess.Token, *req.X, *req.Y, *req.Z)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PositionFromModel(pos))
}

// Get handles GET /api/v1/positions/{player_id}
func (h *PositionHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := model.PlayerID(mux.Vars(r)["player_id"])

	pos, err := h.coordinator.GetPosition(r.Context(), player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PositionFromModel(pos))
}

// List handles GET /api/v1/positions
func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	positions, err := h.coordinator.AllPositions(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PositionListFromModel(positions))
}
