package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roomsync/roomsync/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Machine-readable error codes, stable across releases
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeNotLoggedIn      = "NOT_LOGGED_IN"
	CodeNotConnected     = "NOT_CONNECTED"
	CodeNotInRoom        = "NOT_IN_ROOM"
	CodeMissingPlayerID  = "MISSING_PLAYER_ID"
	CodeMissingKey       = "MISSING_KEY"
	CodeMissingFields    = "MISSING_FIELDS"
	CodeInvalidTenantKey = "INVALID_TENANT_KEY"
	CodeTenantMismatch   = "TENANT_MISMATCH"
	CodeRoomNotFound     = "ROOM_NOT_FOUND"
	CodeRoomExists       = "ROOM_EXISTS"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Precondition violations
	case errors.Is(err, model.ErrNotLoggedIn):
		return &httpError{http.StatusUnauthorized, APIError{CodeNotLoggedIn, "Not logged in"}}
	case errors.Is(err, model.ErrNotConnected):
		return &httpError{http.StatusConflict, APIError{CodeNotConnected, "Not connected to a server"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusConflict, APIError{CodeNotInRoom, "Cannot leave a room that you are not in"}}

	// Validation errors
	case errors.Is(err, model.ErrMissingPlayerID):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingPlayerID, "Player id is required"}}
	case errors.Is(err, model.ErrMissingKey):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingKey, "Server key is required"}}
	case errors.Is(err, model.ErrMissingFields):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingFields, "Required fields are missing"}}

	// Not-found / conflict
	case errors.Is(err, model.ErrInvalidTenantKey), errors.Is(err, model.ErrTenantNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidTenantKey, "Server key not recognized"}}
	case errors.Is(err, model.ErrTenantMismatch):
		return &httpError{http.StatusForbidden, APIError{CodeTenantMismatch, "Room belongs to a different server"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomExists):
		return &httpError{http.StatusConflict, APIError{CodeRoomExists, "Room code already in use"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	// Infrastructure; the only class callers should retry
	case errors.Is(err, model.ErrStoreUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStoreUnavailable, "Store unavailable, try again later"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
