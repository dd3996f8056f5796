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

// TenantHandler handles server-key endpoints
type TenantHandler struct {
	coordinator *coord.Service
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(coordinator *coord.Service) *TenantHandler {
	return &TenantHandler{
		coordinator: coordinator,
	}
}

// Create handles POST /api/v1/tenants.
// Generates a server key and connects the caller's session to it.
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	tenant, err := h.coordinator.CreateServerKey(r.Context(), sess.Token)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TenantFromModel(tenant))
}

// Connect handles POST /api/v1/tenants/connect
func (h *TenantHandler) Connect(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.ConnectTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.coordinator.ConnectTenant(r.Context(), sess.Token, model.TenantKey(req.TenantKey)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Disconnect handles POST /api/v1/tenants/disconnect
func (h *TenantHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	if err := h.coordinator.Disconnect(r.Context(), sess.Token); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Current handles GET /api/v1/tenants/current
func (h *TenantHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	tenant, err := h.coordinator.ServerInfo(r.Context(), sess.Token)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TenantFromModel(tenant))
}
