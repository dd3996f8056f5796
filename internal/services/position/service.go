package position

import (
	"context"
	"errors"

	"github.com/roomsync/roomsync/internal/dependencies/clock"
	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/storage"
)

// Service tracks last-known player positions. Position tracking is looser
// than room membership: no bounds checking, no rate limiting, no staleness
// window, last write wins.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new position Service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// Signal upserts the player's coordinate and returns the updated record
func (s *Service) Signal(ctx context.Context, player model.PlayerID, x, y, z float64) (*model.Position, error) {
	pos := &model.Position{
		PlayerID:  player,
		X:         x,
		Y:         y,
		Z:         z,
		UpdatedAt: s.clock.Now(),
	}
	return s.storage.UpsertPosition(ctx, pos)
}

// Get returns the player's current position record
func (s *Service) Get(ctx context.Context, player model.PlayerID) (*model.Position, error) {
	return s.storage.GetPosition(ctx, player)
}

// All returns every position record currently stored
func (s *Service) All(ctx context.Context) ([]*model.Position, error) {
	return s.storage.ListPositions(ctx)
}

// TagRoom associates the player's position record with a room. Players who
// have never signalled have no record to tag; that is not an error.
func (s *Service) TagRoom(ctx context.Context, player model.PlayerID, code model.RoomCode) error {
	err := s.storage.SetPositionRoom(ctx, player, code)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	return err
}

// ClearRoom drops the room association from the player's position record
func (s *Service) ClearRoom(ctx context.Context, player model.PlayerID) error {
	return s.TagRoom(ctx, player, "")
}
