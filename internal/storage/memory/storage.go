package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// All operations run under a single lock, which trivially satisfies the
// per-key atomicity contract.
type Storage struct {
	mu sync.RWMutex

	tenants   map[model.TenantKey]*model.Tenant
	rooms     map[roomKey]*roomRecord
	positions map[model.PlayerID]*model.Position
}

type roomKey struct {
	tenant model.TenantKey
	code   model.RoomCode
}

// roomRecord keeps members as a set so add/remove stay O(1)
type roomRecord struct {
	room    model.Room
	members map[model.PlayerID]struct{}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		tenants:   make(map[model.TenantKey]*model.Tenant),
		rooms:     make(map[roomKey]*roomRecord),
		positions: make(map[model.PlayerID]*model.Position),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Tenant operations

func (s *Storage) SaveTenant(ctx context.Context, tenant *model.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *tenant
	s.tenants[tenant.Key] = &t
	return nil
}

func (s *Storage) GetTenant(ctx context.Context, key model.TenantKey) (*model.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenant, ok := s.tenants[key]
	if !ok {
		return nil, model.ErrTenantNotFound
	}
	t := *tenant
	return &t, nil
}

func (s *Storage) TenantExists(ctx context.Context, key model.TenantKey) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tenants[key]
	return ok, nil
}

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := roomKey{tenant: room.TenantKey, code: room.Code}
	if _, ok := s.rooms[key]; ok {
		return model.ErrRoomExists
	}

	rec := &roomRecord{
		room:    model.Room{Code: room.Code, TenantKey: room.TenantKey, CreatedAt: room.CreatedAt},
		members: make(map[model.PlayerID]struct{}, len(room.Members)),
	}
	for _, m := range room.Members {
		rec.members[m] = struct{}{}
	}
	s.rooms[key] = rec
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, tenant model.TenantKey, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.rooms[roomKey{tenant: tenant, code: code}]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return rec.snapshot(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, tenant model.TenantKey, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomKey{tenant: tenant, code: code})
	return nil
}

func (s *Storage) ListRooms(ctx context.Context, tenant model.TenantKey) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rooms []*model.Room
	for key, rec := range s.rooms {
		if key.tenant == tenant {
			rooms = append(rooms, rec.snapshot())
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Code < rooms[j].Code })
	return rooms, nil
}

// Membership operations

func (s *Storage) AddRoomMember(ctx context.Context, tenant model.TenantKey, code model.RoomCode, player model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rooms[roomKey{tenant: tenant, code: code}]
	if !ok {
		return model.ErrRoomNotFound
	}
	rec.members[player] = struct{}{}
	return nil
}

func (s *Storage) RemoveRoomMember(ctx context.Context, tenant model.TenantKey, code model.RoomCode, player model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rooms[roomKey{tenant: tenant, code: code}]
	if !ok {
		return model.ErrRoomNotFound
	}
	if _, member := rec.members[player]; !member {
		return model.ErrNotInRoom
	}
	delete(rec.members, player)
	return nil
}

// Position operations

func (s *Storage) UpsertPosition(ctx context.Context, pos *model.Position) (*model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := *pos
	if existing, ok := s.positions[pos.PlayerID]; ok {
		// Overwrite the coordinate, keep the room tag
		updated.RoomCode = existing.RoomCode
	}
	s.positions[pos.PlayerID] = &updated

	result := updated
	return &result, nil
}

func (s *Storage) SetPositionRoom(ctx context.Context, player model.PlayerID, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.positions[player]
	if !ok {
		return nil
	}
	pos.RoomCode = code
	return nil
}

func (s *Storage) GetPosition(ctx context.Context, player model.PlayerID) (*model.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.positions[player]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *pos
	return &p, nil
}

func (s *Storage) ListPositions(ctx context.Context) ([]*model.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	positions := make([]*model.Position, 0, len(s.positions))
	for _, pos := range s.positions {
		p := *pos
		positions = append(positions, &p)
	}
	return positions, nil
}

func (s *Storage) DeletePosition(ctx context.Context, player model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.positions, player)
	return nil
}

// snapshot returns a copy of the room with a sorted member list.
// Callers must hold at least a read lock.
func (r *roomRecord) snapshot() *model.Room {
	room := r.room
	room.Members = make([]model.PlayerID, 0, len(r.members))
	for m := range r.members {
		room.Members = append(room.Members, m)
	}
	sort.Slice(room.Members, func(i, j int) bool { return room.Members[i] < room.Members[j] })
	return &room
}
