package request

// LoginRequest is the request body for establishing identity
type LoginRequest struct {
	PlayerID string `json:"player_id"`
}

// ConnectTenantRequest is the request body for connecting to a server key
type ConnectTenantRequest struct {
	TenantKey string `json:"tenant_key"`
}

// CreateRoomRequest is the request body for creating a room.
// Code is optional; when empty a 4-digit code is generated.
type CreateRoomRequest struct {
	Code string `json:"code,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	RoomCode string `json:"room_code"`
}

// SignalMovementRequest is the request body for a movement signal.
// Pointers distinguish an absent coordinate from a legitimate zero.
type SignalMovementRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}
