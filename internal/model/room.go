package model

import "time"

// RoomCode is a human-shareable short identifier for a room.
// A code is unique only in combination with its tenant key; two tenants
// may reuse the same code.
type RoomCode string

// Room is a membership set of players scoped to a tenant.
// The tenant key is fixed at creation and never changes.
type Room struct {
	Code      RoomCode
	TenantKey TenantKey
	Members   []PlayerID
	CreatedAt time.Time
}

// HasMember reports whether the given player is in the membership set
func (r *Room) HasMember(id PlayerID) bool {
	for _, m := range r.Members {
		if m == id {
			return true
		}
	}
	return false
}
