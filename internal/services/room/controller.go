package room

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/roomsync/roomsync/internal/dependencies/clock"
	"github.com/roomsync/roomsync/internal/dependencies/random"
	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/services/identity"
	"github.com/roomsync/roomsync/internal/storage"
)

const (
	// CodeMin and CodeMax bound generated room codes
	CodeMin = 1000
	CodeMax = 9999

	// maxGenerateAttempts bounds retries when a generated code collides
	maxGenerateAttempts = 10
)

// Controller manages the room lifecycle within a tenant
type Controller struct {
	storage  storage.Storage
	identity *identity.Service
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	identity *identity.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		identity: identity,
		clock:    clock,
		random:   random,
		logger:   logger,
	}
}

// Create makes a new empty room under the tenant. A caller-supplied code is
// used verbatim and a duplicate surfaces as RoomExists; with no code a
// 4-digit numeral is generated, retrying on the unlikely collision. The
// tenant is re-validated first; session state may be stale.
func (c *Controller) Create(ctx context.Context, tenant model.TenantKey, requested model.RoomCode) (*model.Room, error) {
	if err := c.identity.ValidateTenant(ctx, tenant); err != nil {
		return nil, err
	}

	now := c.clock.Now()

	if requested != "" {
		room := &model.Room{Code: requested, TenantKey: tenant, CreatedAt: now}
		if err := c.storage.CreateRoom(ctx, room); err != nil {
			return nil, err
		}
		c.logger.Info("room created", slog.String("code", string(requested)))
		return room, nil
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code := model.RoomCode(strconv.Itoa(c.random.IntRange(CodeMin, CodeMax)))
		room := &model.Room{Code: code, TenantKey: tenant, CreatedAt: now}
		err := c.storage.CreateRoom(ctx, room)
		if err == nil {
			c.logger.Info("room created", slog.String("code", string(code)))
			return room, nil
		}
		if !errors.Is(err, model.ErrRoomExists) {
			return nil, err
		}
	}
	return nil, model.ErrRoomExists
}

// Get retrieves a room by tenant and code
func (c *Controller) Get(ctx context.Context, tenant model.TenantKey, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoom(ctx, tenant, code)
}

// Join adds a player to a room's membership set. Joining a room the player
// is already in succeeds without a duplicate insertion. The tenant is
// re-validated, and a room stored under a different tenant key is rejected
// even if the lookup happened to find it.
func (c *Controller) Join(ctx context.Context, tenant model.TenantKey, code model.RoomCode, player model.PlayerID) (*model.Room, error) {
	if err := c.identity.ValidateTenant(ctx, tenant); err != nil {
		return nil, err
	}

	room, err := c.storage.GetRoom(ctx, tenant, code)
	if err != nil {
		return nil, err
	}
	if room.TenantKey != tenant {
		return nil, model.ErrTenantMismatch
	}

	if err := c.storage.AddRoomMember(ctx, tenant, code, player); err != nil {
		return nil, err
	}

	return c.storage.GetRoom(ctx, tenant, code)
}

// Leave removes a player from a room's membership set. The room record is
// retained even when the last member leaves, matching tenant retention.
func (c *Controller) Leave(ctx context.Context, tenant model.TenantKey, code model.RoomCode, player model.PlayerID) error {
	err := c.storage.RemoveRoomMember(ctx, tenant, code, player)
	if errors.Is(err, model.ErrRoomNotFound) {
		// Room vanished underneath the session; treat as not a member
		return model.ErrNotInRoom
	}
	return err
}

// List returns all rooms under the tenant
func (c *Controller) List(ctx context.Context, tenant model.TenantKey) ([]*model.Room, error) {
	return c.storage.ListRooms(ctx, tenant)
}
