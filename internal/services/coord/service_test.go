package coord_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/roomsync/roomsync/internal/factory"
	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/services/coord"
	"github.com/roomsync/roomsync/internal/services/session"
)

type ServiceSuite struct {
	suite.Suite
	app *factory.TestApp
	ctx context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.ctx = context.Background()
}

func (s *ServiceSuite) coordinator() *coord.Service {
	return s.app.Coordinator
}

// login is a helper returning a fresh identified session token
func (s *ServiceSuite) login(player model.PlayerID) string {
	sess, err := s.coordinator().Login(s.ctx, "", player)
	s.Require().NoError(err)
	return sess.Token
}

// connect logs in and creates a server key, returning token and tenant
func (s *ServiceSuite) connect(player model.PlayerID) (string, model.TenantKey) {
	token := s.login(player)
	tenant, err := s.coordinator().CreateServerKey(s.ctx, token)
	s.Require().NoError(err)
	return token, tenant.Key
}

// Login tests

func (s *ServiceSuite) TestLogin() {
	sess, err := s.coordinator().Login(s.ctx, "", "alice")
	s.Require().NoError(err)

	s.NotEmpty(sess.Token)
	s.Equal(model.PlayerID("alice"), sess.PlayerID)
	s.Equal(session.StateIdentified, sess.State())
}

func (s *ServiceSuite) TestLoginMissingPlayerID() {
	_, err := s.coordinator().Login(s.ctx, "", "")
	s.ErrorIs(err, model.ErrMissingPlayerID)
}

// CreateServerKey tests

func (s *ServiceSuite) TestCreateServerKeyConnectsSession() {
	token := s.login("alice")

	tenant, err := s.coordinator().CreateServerKey(s.ctx, token)
	s.Require().NoError(err)
	s.NotEmpty(tenant.Key)

	sess, err := s.coordinator().Sessions().Validate(token)
	s.Require().NoError(err)
	s.Equal(session.StateTenantConnected, sess.State())
	s.Equal(tenant.Key, sess.TenantKey)
}

func (s *ServiceSuite) TestCreateServerKeyRequiresLogin() {
	_, err := s.coordinator().CreateServerKey(s.ctx, "sess_unknown")
	s.ErrorIs(err, model.ErrNotLoggedIn)
}

// ConnectTenant tests

func (s *ServiceSuite) TestConnectTenant() {
	_, key := s.connect("host")

	token := s.login("alice")
	err := s.coordinator().ConnectTenant(s.ctx, token, key)
	s.Require().NoError(err)

	sess, _ := s.coordinator().Sessions().Validate(token)
	s.Equal(key, sess.TenantKey)
}

func (s *ServiceSuite) TestConnectTenantRequiresLogin() {
	err := s.coordinator().ConnectTenant(s.ctx, "sess_unknown", "whatever")
	s.ErrorIs(err, model.ErrNotLoggedIn)
}

func (s *ServiceSuite) TestConnectTenantMissingKey() {
	token := s.login("alice")

	err := s.coordinator().ConnectTenant(s.ctx, token, "")
	s.ErrorIs(err, model.ErrMissingKey)
}

func (s *ServiceSuite) TestConnectTenantInvalidKey() {
	token := s.login("alice")

	err := s.coordinator().ConnectTenant(s.ctx, token, "no-such-key")
	s.ErrorIs(err, model.ErrInvalidTenantKey)
}

// Disconnect tests

func (s *ServiceSuite) TestDisconnect() {
	token, _ := s.connect("alice")

	err := s.coordinator().Disconnect(s.ctx, token)
	s.Require().NoError(err)

	sess, _ := s.coordinator().Sessions().Validate(token)
	s.Equal(session.StateIdentified, sess.State())
}

func (s *ServiceSuite) TestDisconnectNotConnected() {
	token := s.login("alice")

	err := s.coordinator().Disconnect(s.ctx, token)
	s.ErrorIs(err, model.ErrNotConnected)
}

func (s *ServiceSuite) TestDisconnectDropsRoomReference() {
	token, _ := s.connect("alice")
	room, err := s.coordinator().CreateRoom(s.ctx, token, "4242")
	s.Require().NoError(err)
	_, err = s.coordinator().JoinRoom(s.ctx, token, room.Code)
	s.Require().NoError(err)

	s.Require().NoError(s.coordinator().Disconnect(s.ctx, token))

	sess, _ := s.coordinator().Sessions().Validate(token)
	s.Empty(sess.RoomCode)
	s.Empty(sess.TenantKey)
}

// ServerInfo tests

func (s *ServiceSuite) TestServerInfo() {
	token, key := s.connect("alice")

	tenant, err := s.coordinator().ServerInfo(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(key, tenant.Key)
}

func (s *ServiceSuite) TestServerInfoNotConnected() {
	token := s.login("alice")

	_, err := s.coordinator().ServerInfo(s.ctx, token)
	s.ErrorIs(err, model.ErrNotConnected)
}

// CreateRoom / JoinRoom ordering tests

func (s *ServiceSuite) TestCreateRoomRequiresConnection() {
	token := s.login("alice")

	_, err := s.coordinator().CreateRoom(s.ctx, token, "4242")
	s.ErrorIs(err, model.ErrNotConnected)
}

func (s *ServiceSuite) TestCreateRoomRequiresLoginBeforeConnection() {
	// Identity is checked before tenant connection
	_, err := s.coordinator().CreateRoom(s.ctx, "sess_unknown", "4242")
	s.ErrorIs(err, model.ErrNotLoggedIn)
}

func (s *ServiceSuite) TestJoinRoomUpdatesSessionAndMembership() {
	token, _ := s.connect("alice")
	_, err := s.coordinator().CreateRoom(s.ctx, token, "4242")
	s.Require().NoError(err)

	room, err := s.coordinator().JoinRoom(s.ctx, token, "4242")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice"}, room.Members)

	sess, _ := s.coordinator().Sessions().Validate(token)
	s.Equal(session.StateInRoom, sess.State())
	s.Equal(model.RoomCode("4242"), sess.RoomCode)
}

func (s *ServiceSuite) TestJoinRoomTwiceIsIdempotent() {
	token, _ := s.connect("alice")
	_, _ = s.coordinator().CreateRoom(s.ctx, token, "4242")

	_, err := s.coordinator().JoinRoom(s.ctx, token, "4242")
	s.Require().NoError(err)

	room, err := s.coordinator().JoinRoom(s.ctx, token, "4242")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice"}, room.Members)
}

func (s *ServiceSuite) TestJoinRoomMissingCode() {
	token, _ := s.connect("alice")

	_, err := s.coordinator().JoinRoom(s.ctx, token, "")
	s.ErrorIs(err, model.ErrMissingFields)
}

func (s *ServiceSuite) TestJoinRoomNotFound() {
	token, _ := s.connect("alice")

	_, err := s.coordinator().JoinRoom(s.ctx, token, "9999")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ServiceSuite) TestJoinRoomTagsPosition() {
	token, _ := s.connect("alice")
	_, _ = s.coordinator().CreateRoom(s.ctx, token, "4242")
	_, err := s.coordinator().SignalMovement(s.ctx, token, 1, 2, 3)
	s.Require().NoError(err)

	_, err = s.coordinator().JoinRoom(s.ctx, token, "4242")
	s.Require().NoError(err)

	pos, err := s.coordinator().GetPosition(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("4242"), pos.RoomCode)
}

func (s *ServiceSuite) TestRoomsAreScopedToTenant() {
	hostToken, _ := s.connect("host")
	_, err := s.coordinator().CreateRoom(s.ctx, hostToken, "4242")
	s.Require().NoError(err)

	otherToken, _ := s.connect("other")
	_, err = s.coordinator().JoinRoom(s.ctx, otherToken, "4242")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ServiceSuite) TestDuplicateRoomCodeAcrossTenants() {
	hostToken, _ := s.connect("host")
	_, err := s.coordinator().CreateRoom(s.ctx, hostToken, "4242")
	s.Require().NoError(err)

	// Same code under the same tenant is rejected
	_, err = s.coordinator().CreateRoom(s.ctx, hostToken, "4242")
	s.ErrorIs(err, model.ErrRoomExists)

	// Same code under a different tenant is fine
	otherToken, _ := s.connect("other")
	_, err = s.coordinator().CreateRoom(s.ctx, otherToken, "4242")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestConcurrentJoinsLoseNoMembers() {
	hostToken, key := s.connect("host")
	_, err := s.coordinator().CreateRoom(s.ctx, hostToken, "4242")
	s.Require().NoError(err)

	const players = 20
	tokens := make([]string, players)
	for i := range tokens {
		player := model.PlayerID(fmt.Sprintf("player-%02d", i))
		token := s.login(player)
		s.Require().NoError(s.coordinator().ConnectTenant(s.ctx, token, key))
		tokens[i] = token
	}

	done := make(chan error, players)
	for _, token := range tokens {
		token := token
		go func() {
			_, err := s.coordinator().JoinRoom(s.ctx, token, "4242")
			done <- err
		}()
	}
	for i := 0; i < players; i++ {
		s.Require().NoError(<-done)
	}

	room, err := s.coordinator().RoomInfo(s.ctx, hostToken)
	s.Require().NoError(err)
	s.Require().Len(room, 1)
	s.Len(room[0].Members, players)
}

// LeaveRoom tests

func (s *ServiceSuite) TestLeaveRoom() {
	token, _ := s.connect("alice")
	_, _ = s.coordinator().CreateRoom(s.ctx, token, "4242")
	_, _ = s.coordinator().JoinRoom(s.ctx, token, "4242")

	err := s.coordinator().LeaveRoom(s.ctx, token)
	s.Require().NoError(err)

	sess, _ := s.coordinator().Sessions().Validate(token)
	s.Equal(session.StateTenantConnected, sess.State())

	rooms, _ := s.coordinator().RoomInfo(s.ctx, token)
	s.Require().Len(rooms, 1)
	s.Empty(rooms[0].Members)
}

func (s *ServiceSuite) TestLeaveRoomWithoutJoining() {
	token, _ := s.connect("alice")

	err := s.coordinator().LeaveRoom(s.ctx, token)
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *ServiceSuite) TestLeaveRoomClearsPositionTag() {
	token, _ := s.connect("alice")
	_, _ = s.coordinator().CreateRoom(s.ctx, token, "4242")
	_, _ = s.coordinator().SignalMovement(s.ctx, token, 1, 2, 3)
	_, _ = s.coordinator().JoinRoom(s.ctx, token, "4242")

	s.Require().NoError(s.coordinator().LeaveRoom(s.ctx, token))

	pos, err := s.coordinator().GetPosition(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(pos.RoomCode)
}

// Position tests

func (s *ServiceSuite) TestSignalMovementRequiresOnlyLogin() {
	token := s.login("alice")

	pos, err := s.coordinator().SignalMovement(s.ctx, token, 1, 2, 3)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), pos.PlayerID)
}

func (s *ServiceSuite) TestSignalMovementRequiresLogin() {
	_, err := s.coordinator().SignalMovement(s.ctx, "sess_unknown", 1, 2, 3)
	s.ErrorIs(err, model.ErrNotLoggedIn)
}

func (s *ServiceSuite) TestSignalMovementLastWriteWins() {
	token := s.login("alice")

	_, _ = s.coordinator().SignalMovement(s.ctx, token, 1, 2, 3)
	_, err := s.coordinator().SignalMovement(s.ctx, token, 4, 5, 6)
	s.Require().NoError(err)

	pos, err := s.coordinator().GetPosition(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(float64(4), pos.X)
	s.Equal(float64(5), pos.Y)
	s.Equal(float64(6), pos.Z)
}

func (s *ServiceSuite) TestGetPositionMissingPlayerID() {
	_, err := s.coordinator().GetPosition(s.ctx, "")
	s.ErrorIs(err, model.ErrMissingPlayerID)
}

func (s *ServiceSuite) TestGetPositionUnknownPlayer() {
	_, err := s.coordinator().GetPosition(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestAllPositions() {
	aliceToken := s.login("alice")
	bobToken := s.login("bob")

	_, _ = s.coordinator().SignalMovement(s.ctx, aliceToken, 1, 2, 3)
	_, _ = s.coordinator().SignalMovement(s.ctx, bobToken, 4, 5, 6)

	positions, err := s.coordinator().AllPositions(s.ctx)
	s.Require().NoError(err)
	s.Len(positions, 2)
}

// Full lifecycle

func (s *ServiceSuite) TestFullLifecycle() {
	// Host stands up a server key and a room
	hostToken, key := s.connect("host")
	room, err := s.coordinator().CreateRoom(s.ctx, hostToken, "")
	s.Require().NoError(err)
	s.NotEmpty(room.Code)

	// Alice logs in, connects, joins and moves around
	aliceToken := s.login("alice")
	s.Require().NoError(s.coordinator().ConnectTenant(s.ctx, aliceToken, key))

	_, err = s.coordinator().JoinRoom(s.ctx, aliceToken, room.Code)
	s.Require().NoError(err)

	_, err = s.coordinator().SignalMovement(s.ctx, aliceToken, 10, 0, -4.5)
	s.Require().NoError(err)

	pos, err := s.coordinator().GetPosition(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(float64(10), pos.X)
	s.Equal(float64(-4.5), pos.Z)

	// And winds back down
	s.Require().NoError(s.coordinator().LeaveRoom(s.ctx, aliceToken))
	s.Require().NoError(s.coordinator().Disconnect(s.ctx, aliceToken))

	sess, err := s.coordinator().Sessions().Validate(aliceToken)
	s.Require().NoError(err)
	s.Equal(session.StateIdentified, sess.State())

	// Position survives the disconnect
	_, err = s.coordinator().GetPosition(s.ctx, "alice")
	s.Require().NoError(err)
}
