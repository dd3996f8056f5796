package coord

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/services/identity"
	"github.com/roomsync/roomsync/internal/services/position"
	"github.com/roomsync/roomsync/internal/services/room"
	"github.com/roomsync/roomsync/internal/services/session"
)

// Service orchestrates the session manager against the tenant, room and
// position layers. Every operation that touches tenant or room state first
// asserts identity, then tenant connection, in that order. Failures are
// never swallowed; every error reaches the caller.
type Service struct {
	sessions  *session.Manager
	identity  *identity.Service
	rooms     *room.Controller
	positions *position.Service
	logger    *slog.Logger
}

// New creates a new coordination Service
func New(
	sessions *session.Manager,
	identity *identity.Service,
	rooms *room.Controller,
	positions *position.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		sessions:  sessions,
		identity:  identity,
		rooms:     rooms,
		positions: positions,
		logger:    logger,
	}
}

// Sessions exposes the session manager for transport-level validation
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Login establishes the caller's identity and returns their session.
// It always succeeds for a non-empty player id; a re-login resets any
// existing session back to Identified.
func (s *Service) Login(ctx context.Context, token string, playerID model.PlayerID) (*session.Session, error) {
	sess, err := s.sessions.Login(token, playerID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("player logged in", slog.String("player_id", string(playerID)))
	return sess, nil
}

// CreateServerKey generates a new tenant and auto-connects the caller's
// session to it.
func (s *Service) CreateServerKey(ctx context.Context, token string) (*model.Tenant, error) {
	sess, err := s.sessions.Validate(token)
	if err != nil {
		return nil, err
	}

	tenant, err := s.identity.CreateTenant(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SetConnected(sess.Token, tenant.Key); err != nil {
		return nil, err
	}
	return tenant, nil
}

// ConnectTenant attaches the session to an existing tenant
func (s *Service) ConnectTenant(ctx context.Context, token string, key model.TenantKey) error {
	sess, err := s.sessions.Validate(token)
	if err != nil {
		return err
	}
	if key == "" {
		return model.ErrMissingKey
	}
	if err := s.identity.ValidateTenant(ctx, key); err != nil {
		return err
	}
	return s.sessions.SetConnected(sess.Token, key)
}

// Disconnect detaches the session from its tenant
func (s *Service) Disconnect(ctx context.Context, token string) error {
	if _, err := s.sessions.Validate(token); err != nil {
		return err
	}
	return s.sessions.ClearConnected(token)
}

// ServerInfo returns the tenant the session is connected to
func (s *Service) ServerInfo(ctx context.Context, token string) (*model.Tenant, error) {
	sess, err := s.sessions.Connected(token)
	if err != nil {
		return nil, err
	}
	return s.identity.GetTenant(ctx, sess.TenantKey)
}

// CreateRoom makes a room under the session's tenant
func (s *Service) CreateRoom(ctx context.Context, token string, code model.RoomCode) (*model.Room, error) {
	sess, err := s.sessions.Connected(token)
	if err != nil {
		return nil, err
	}
	return s.rooms.Create(ctx, sess.TenantKey, code)
}

// JoinRoom adds the session's player to the room and records the room on
// the session. The player's position record, if any, picks up the room tag;
// a failure there is logged and left for the next leave to correct.
func (s *Service) JoinRoom(ctx context.Context, token string, code model.RoomCode) (*model.Room, error) {
	sess, err := s.sessions.Connected(token)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, model.ErrMissingFields
	}

	joined, err := s.rooms.Join(ctx, sess.TenantKey, code, sess.PlayerID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SetRoom(sess.Token, code); err != nil {
		return nil, err
	}

	if err := s.positions.TagRoom(ctx, sess.PlayerID, code); err != nil {
		s.logger.Warn("could not tag position with room",
			slog.String("player_id", string(sess.PlayerID)),
			slog.String("error", err.Error()),
		)
	}

	return joined, nil
}

// LeaveRoom removes the session's player from their current room, resolved
// from session state rather than by scanning rooms. Store and session can
// disagree after a partial failure; the session reference is cleared either
// way so the state self-corrects.
func (s *Service) LeaveRoom(ctx context.Context, token string) error {
	sess, err := s.sessions.Connected(token)
	if err != nil {
		return err
	}
	if sess.RoomCode == "" {
		return model.ErrNotInRoom
	}

	err = s.rooms.Leave(ctx, sess.TenantKey, sess.RoomCode, sess.PlayerID)
	if errors.Is(err, model.ErrNotInRoom) {
		_ = s.sessions.ClearRoom(sess.Token)
		return err
	}
	if err != nil {
		return err
	}

	if err := s.sessions.ClearRoom(sess.Token); err != nil {
		return err
	}

	if err := s.positions.ClearRoom(ctx, sess.PlayerID); err != nil {
		s.logger.Warn("could not clear position room tag",
			slog.String("player_id", string(sess.PlayerID)),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// RoomInfo lists the rooms under the session's tenant
func (s *Service) RoomInfo(ctx context.Context, token string) ([]*model.Room, error) {
	sess, err := s.sessions.Connected(token)
	if err != nil {
		return nil, err
	}
	return s.rooms.List(ctx, sess.TenantKey)
}

// SignalMovement upserts the caller's coordinate. Identity is required;
// tenant connection is not.
func (s *Service) SignalMovement(ctx context.Context, token string, x, y, z float64) (*model.Position, error) {
	sess, err := s.sessions.Validate(token)
	if err != nil {
		return nil, err
	}
	return s.positions.Signal(ctx, sess.PlayerID, x, y, z)
}

// GetPosition returns the position record for a player
func (s *Service) GetPosition(ctx context.Context, player model.PlayerID) (*model.Position, error) {
	if player == "" {
		return nil, model.ErrMissingPlayerID
	}
	return s.positions.Get(ctx, player)
}

// AllPositions returns every stored position record
func (s *Service) AllPositions(ctx context.Context) ([]*model.Position, error) {
	return s.positions.All(ctx)
}
