package storage

import (
	"context"

	"github.com/roomsync/roomsync/internal/model"
)

// Storage defines the interface for data persistence.
//
// Every operation is atomic with respect to its single key: a
// read-modify-write on one room's membership set, or one position record,
// never interleaves with another write to the same key. Nothing is
// transactional across entity types.
type Storage interface {
	// Tenant operations
	SaveTenant(ctx context.Context, tenant *model.Tenant) error
	GetTenant(ctx context.Context, key model.TenantKey) (*model.Tenant, error)
	TenantExists(ctx context.Context, key model.TenantKey) (bool, error)

	// Room operations. Rooms are keyed by (tenant key, room code).
	// CreateRoom fails with model.ErrRoomExists when the composite key is
	// already taken; it never overwrites.
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, tenant model.TenantKey, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, tenant model.TenantKey, code model.RoomCode) error
	ListRooms(ctx context.Context, tenant model.TenantKey) ([]*model.Room, error)

	// Membership operations. AddRoomMember is idempotent; RemoveRoomMember
	// fails with model.ErrNotInRoom when the player is not a member.
	AddRoomMember(ctx context.Context, tenant model.TenantKey, code model.RoomCode, player model.PlayerID) error
	RemoveRoomMember(ctx context.Context, tenant model.TenantKey, code model.RoomCode, player model.PlayerID) error

	// Position operations. UpsertPosition overwrites the coordinate and
	// preserves any existing room tag. SetPositionRoom tags a record with a
	// room code ("" clears the tag) and is a no-op for players who have
	// never signalled.
	UpsertPosition(ctx context.Context, pos *model.Position) (*model.Position, error)
	SetPositionRoom(ctx context.Context, player model.PlayerID, code model.RoomCode) error
	GetPosition(ctx context.Context, player model.PlayerID) (*model.Position, error)
	ListPositions(ctx context.Context) ([]*model.Position, error)
	DeletePosition(ctx context.Context, player model.PlayerID) error
}
