package response

import (
	"time"

	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/services/session"
)

// Session represents the caller's session in API responses
type Session struct {
	SessionToken string `json:"session_token"`
	PlayerID     string `json:"player_id"`
	State        string `json:"state"`
	TenantKey    string `json:"tenant_key,omitempty"`
	RoomCode     string `json:"room_code,omitempty"`
}

// SessionFromModel converts a session.Session to a response Session
func SessionFromModel(s *session.Session) Session {
	return Session{
		SessionToken: s.Token,
		PlayerID:     string(s.PlayerID),
		State:        string(s.State()),
		TenantKey:    string(s.TenantKey),
		RoomCode:     string(s.RoomCode),
	}
}

// Tenant represents a tenant ("server") in API responses
type Tenant struct {
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

// TenantFromModel converts a model.Tenant
func TenantFromModel(t *model.Tenant) Tenant {
	return Tenant{
		Key:       string(t.Key),
		CreatedAt: t.CreatedAt,
	}
}

// Room represents a room in API responses
type Room struct {
	Code      string    `json:"code"`
	TenantKey string    `json:"tenant_key"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomFromModel converts a model.Room
func RoomFromModel(r *model.Room) Room {
	members := make([]string, len(r.Members))
	for i, m := range r.Members {
		members[i] = string(m)
	}
	return Room{
		Code:      string(r.Code),
		TenantKey: string(r.TenantKey),
		Members:   members,
		CreatedAt: r.CreatedAt,
	}
}

// RoomList wraps the rooms under a tenant
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomListFromModel converts a slice of model.Room
func RoomListFromModel(rooms []*model.Room) RoomList {
	out := RoomList{Rooms: make([]Room, len(rooms))}
	for i, r := range rooms {
		out.Rooms[i] = RoomFromModel(r)
	}
	return out
}

// Position represents a position record in API responses
type Position struct {
	PlayerID  string    `json:"player_id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Z         float64   `json:"z"`
	RoomCode  string    `json:"room_code,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PositionFromModel converts a model.Position
func PositionFromModel(p *model.Position) Position {
	return Position{
		PlayerID:  string(p.PlayerID),
		X:         p.X,
		Y:         p.Y,
		Z:         p.Z,
		RoomCode:  string(p.RoomCode),
		UpdatedAt: p.UpdatedAt,
	}
}

// PositionList wraps all stored position records
type PositionList struct {
	Positions []Position `json:"positions"`
}

// PositionListFromModel converts a slice of model.Position
func PositionListFromModel(positions []*model.Position) PositionList {
	out := PositionList{Positions: make([]Position, len(positions))}
	for i, p := range positions {
		out.Positions[i] = PositionFromModel(p)
	}
	return out
}

// Status is the ping response
type Status struct {
	Status string `json:"status"`
}
