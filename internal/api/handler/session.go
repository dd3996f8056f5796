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

// SessionHandler handles login and session introspection
type SessionHandler struct {
	coordinator *coord.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(coordinator *coord.Service) *SessionHandler {
	return &SessionHandler{
		coordinator: coordinator,
	}
}

// Login handles POST /api/v1/session/login.
// An existing valid token is reset in place; otherwise a fresh session is
// issued. The token rides the Authorization header or session cookie, same
// as every other call.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerID == "" {
		apierr.WriteError(w, model.ErrMissingPlayerID)
		return
	}

	token := middleware.ExtractToken(r)
	sess, err := h.coordinator.Login(r.Context(), token, model.PlayerID(req.PlayerID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Me handles GET /api/v1/session
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())
	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}
