package model

import "errors"

// Common errors used across the application
var (
	// Session precondition errors
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrNotConnected = errors.New("not connected to a server")
	ErrNotInRoom    = errors.New("not in a room")

	// Validation errors (no store access is attempted for these)
	ErrMissingPlayerID = errors.New("player id is required")
	ErrMissingKey      = errors.New("server key is required")
	ErrMissingFields   = errors.New("required fields are missing")

	// Tenant errors
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrInvalidTenantKey = errors.New("invalid server key")
	ErrTenantMismatch   = errors.New("room belongs to a different server")

	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room code already in use")

	// Position errors
	ErrPlayerNotFound = errors.New("player not found")

	// Infrastructure errors; the only class callers should retry
	ErrStoreUnavailable = errors.New("store unavailable")
)
