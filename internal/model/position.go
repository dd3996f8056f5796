package model

import "time"

// PlayerID identifies a player. It is an arbitrary caller-supplied string
// established by the login step.
type PlayerID string

// Position is the last-known 3D coordinate for a player.
// One record per player; a new movement signal overwrites the prior
// coordinate unconditionally. The room tag is informational only - a
// player can have a position with no room.
type Position struct {
	PlayerID  PlayerID
	X         float64
	Y         float64
	Z         float64
	RoomCode  RoomCode
	UpdatedAt time.Time
}
