package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Room metadata and tenants are stored as JSON values; room membership uses
// a Redis SET per room and positions a HASH per player, so membership
// add/remove and coordinate upserts are atomic on the server side.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrStoreUnavailable, err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// wrap classifies a Redis failure as infrastructure trouble.
// redis.Nil is a miss, not a failure, and passes through untouched.
func wrap(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	return fmt.Errorf("%w: %s", model.ErrStoreUnavailable, err)
}

// Tenant operations

func (s *Storage) SaveTenant(ctx context.Context, tenant *model.Tenant) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}

	// Tenants are never deleted, so no TTL
	return wrap(s.client.Set(ctx, tenantKey(tenant.Key), data, 0).Err())
}

func (s *Storage) GetTenant(ctx context.Context, key model.TenantKey) (*model.Tenant, error) {
	data, err := s.client.Get(ctx, tenantKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTenantNotFound
		}
		return nil, wrap(err)
	}

	var tenant model.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *Storage) TenantExists(ctx context.Context, key model.TenantKey) (bool, error) {
	exists, err := s.client.Exists(ctx, tenantKey(key)).Result()
	if err != nil {
		return false, wrap(err)
	}
	return exists > 0, nil
}

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	meta := model.Room{Code: room.Code, TenantKey: room.TenantKey, CreatedAt: room.CreatedAt}
	data, err := json.Marshal(&meta)
	if err != nil {
		return err
	}

	// SETNX gives create-time uniqueness for the (tenant, code) pair
	created, err := s.client.SetNX(ctx, roomKey(room.TenantKey, room.Code), data, s.cfg.RoomTTL).Result()
	if err != nil {
		return wrap(err)
	}
	if !created {
		return model.ErrRoomExists
	}

	indexKey := roomsForTenantIndexKey(room.TenantKey)
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, indexKey, string(room.Code))
	pipe.Expire(ctx, indexKey, s.cfg.RoomTTL)
	for _, m := range room.Members {
		pipe.SAdd(ctx, roomMembersKey(room.TenantKey, room.Code), string(m))
	}
	_, err = pipe.Exec(ctx)
	return wrap(err)
}

func (s *Storage) GetRoom(ctx context.Context, tenant model.TenantKey, code model.RoomCode) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(tenant, code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, wrap(err)
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}

	members, err := s.client.SMembers(ctx, roomMembersKey(tenant, code)).Result()
	if err != nil {
		return nil, wrap(err)
	}
	sort.Strings(members)

	room.Members = make([]model.PlayerID, len(members))
	for i, m := range members {
		room.Members[i] = model.PlayerID(m)
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, tenant model.TenantKey, code model.RoomCode) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, roomKey(tenant, code))
	pipe.Del(ctx, roomMembersKey(tenant, code))
	pipe.SRem(ctx, roomsForTenantIndexKey(tenant), string(code))
	_, err := pipe.Exec(ctx)
	return wrap(err)
}

func (s *Storage) ListRooms(ctx context.Context, tenant model.TenantKey) ([]*model.Room, error) {
	codes, err := s.client.SMembers(ctx, roomsForTenantIndexKey(tenant)).Result()
	if err != nil {
		return nil, wrap(err)
	}
	sort.Strings(codes)

	rooms := make([]*model.Room, 0, len(codes))
	for _, code := range codes {
		room, err := s.GetRoom(ctx, tenant, model.RoomCode(code))
		if err != nil {
			if errors.Is(err, model.ErrRoomNotFound) {
				continue // Room may have expired; index catches up lazily
			}
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// Membership operations

func (s *Storage) AddRoomMember(ctx context.Context, tenant model.TenantKey, code model.RoomCode, player model.PlayerID) error {
	exists, err := s.client.Exists(ctx, roomKey(tenant, code)).Result()
	if err != nil {
		return wrap(err)
	}
	if exists == 0 {
		return model.ErrRoomNotFound
	}

	membersKey := roomMembersKey(tenant, code)
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, membersKey, string(player))
	pipe.Expire(ctx, membersKey, s.cfg.RoomTTL)
	_, err = pipe.Exec(ctx)
	return wrap(err)
}

func (s *Storage) RemoveRoomMember(ctx context.Context, tenant model.TenantKey, code model.RoomCode, player model.PlayerID) error {
	exists, err := s.client.Exists(ctx, roomKey(tenant, code)).Result()
	if err != nil {
		return wrap(err)
	}
	if exists == 0 {
		return model.ErrRoomNotFound
	}

	removed, err := s.client.SRem(ctx, roomMembersKey(tenant, code), string(player)).Result()
	if err != nil {
		return wrap(err)
	}
	if removed == 0 {
		return model.ErrNotInRoom
	}
	return nil
}

// Position operations

func (s *Storage) UpsertPosition(ctx context.Context, pos *model.Position) (*model.Position, error) {
	key := positionKey(pos.PlayerID)
	indexKey := positionsIndexKey()

	// HSET leaves the room field alone, so the tag survives overwrites
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"x":          pos.X,
		"y":          pos.Y,
		"z":          pos.Z,
		"updated_at": pos.UpdatedAt.UnixNano(),
	})
	roomCmd := pipe.HGet(ctx, key, "room")
	pipe.Expire(ctx, key, s.cfg.PositionTTL)
	pipe.SAdd(ctx, indexKey, string(pos.PlayerID))
	pipe.Expire(ctx, indexKey, s.cfg.PositionTTL)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, wrap(err)
	}

	updated := *pos
	if room, err := roomCmd.Result(); err == nil {
		updated.RoomCode = model.RoomCode(room)
	}
	return &updated, nil
}

func (s *Storage) SetPositionRoom(ctx context.Context, player model.PlayerID, code model.RoomCode) error {
	key := positionKey(player)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return wrap(err)
	}
	if exists == 0 {
		return nil // No movement signal yet; nothing to tag
	}

	if code == "" {
		return wrap(s.client.HDel(ctx, key, "room").Err())
	}
	return wrap(s.client.HSet(ctx, key, "room", string(code)).Err())
}

func (s *Storage) GetPosition(ctx context.Context, player model.PlayerID) (*model.Position, error) {
	fields, err := s.client.HGetAll(ctx, positionKey(player)).Result()
	if err != nil {
		return nil, wrap(err)
	}
	if len(fields) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return positionFromFields(player, fields)
}

func (s *Storage) ListPositions(ctx context.Context) ([]*model.Position, error) {
	players, err := s.client.SMembers(ctx, positionsIndexKey()).Result()
	if err != nil {
		return nil, wrap(err)
	}
	sort.Strings(players)

	positions := make([]*model.Position, 0, len(players))
	for _, player := range players {
		pos, err := s.GetPosition(ctx, model.PlayerID(player))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue // Record may have expired
			}
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

func (s *Storage) DeletePosition(ctx context.Context, player model.PlayerID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, positionKey(player))
	pipe.SRem(ctx, positionsIndexKey(), string(player))
	_, err := pipe.Exec(ctx)
	return wrap(err)
}

// positionFromFields decodes a position HASH into a model.Position
func positionFromFields(player model.PlayerID, fields map[string]string) (*model.Position, error) {
	pos := &model.Position{PlayerID: player}

	var err error
	if pos.X, err = strconv.ParseFloat(fields["x"], 64); err != nil {
		return nil, fmt.Errorf("invalid x for player %s: %w", player, err)
	}
	if pos.Y, err = strconv.ParseFloat(fields["y"], 64); err != nil {
		return nil, fmt.Errorf("invalid y for player %s: %w", player, err)
	}
	if pos.Z, err = strconv.ParseFloat(fields["z"], 64); err != nil {
		return nil, fmt.Errorf("invalid z for player %s: %w", player, err)
	}

	if nanos, err := strconv.ParseInt(fields["updated_at"], 10, 64); err == nil {
		pos.UpdatedAt = time.Unix(0, nanos).UTC()
	}
	pos.RoomCode = model.RoomCode(fields["room"])

	return pos, nil
}
