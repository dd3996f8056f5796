package handler

import (
	"encoding/json"
	"net/http"

	"github.com/roomsync/roomsync/internal/api/apierr"
	"github.com/roomsync/roomsync/internal/api/middleware"
	"github.com/roomsync/roomsync/internal/api/request"
	"github.com/roomsync/roomsync/internal/api/response"
	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/services/coord"
)

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	coordinator *coord.Service
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(coordinator *coord.Service) *RoomHandler {
	return &RoomHandler{
		coordinator: coordinator,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body; the code is generated
		req = request.CreateRoomRequest{}
	}

	room, err := h.coordinator.CreateRoom(r.Context(), sess.Token, model.RoomCode(req.Code))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(room))
}

// Join handles POST /api/v1/rooms/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	room, err := h.coordinator.JoinRoom(r.Context(), sess.Token, model.RoomCode(req.RoomCode))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}

// Leave handles POST /api/v1/rooms/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	if err := h.coordinator.LeaveRoom(r.Context(), sess.Token); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	rooms, err := h.coordinator.RoomInfo(r.Context(), sess.Token)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomListFromModel(rooms))
}
