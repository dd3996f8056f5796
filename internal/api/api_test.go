package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsync/roomsync/internal/api"
	"github.com/roomsync/roomsync/internal/api/response"
	"github.com/roomsync/roomsync/internal/factory"
	"github.com/roomsync/roomsync/internal/services/coord"
	"github.com/roomsync/roomsync/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler     http.Handler
	storage     *memory.Storage
	coordinator *coord.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Coordinator: app.Coordinator,
	})

	return &testServer{
		handler:     router,
		storage:     app.Storage.(*memory.Storage),
		coordinator: app.Coordinator,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/ping", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Status
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "online", resp.Status)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"player_id": "alice"}
	rr := ts.request(http.MethodPost, "/api/v1/session/login", body, "")

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Session
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, "alice", resp.PlayerID)
	assert.Equal(t, "identified", resp.State)
}

func TestLoginMissingPlayerID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/session/login", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "MISSING_PLAYER_ID")
}

func TestReLoginResetsSession(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "alice")
	createServerKey(t, ts, token)

	// Logging in again on the same token drops the tenant connection
	body := map[string]string{"player_id": "alice"}
	rr := ts.request(http.MethodPost, "/api/v1/session/login", body, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Session
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, token, resp.SessionToken)
	assert.Equal(t, "identified", resp.State)
	assert.Empty(t, resp.TenantKey)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/tenants", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_LOGGED_IN")

	rr = ts.request(http.MethodPost, "/api/v1/rooms", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/positions", map[string]float64{"x": 1, "y": 2, "z": 3}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateServerKey(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "host")

	rr := ts.request(http.MethodPost, "/api/v1/tenants", nil, token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Tenant
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Key)

	// The creating session comes out connected
	rr = ts.request(http.MethodGet, "/api/v1/session", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var sess response.Session
	err = json.Unmarshal(rr.Body.Bytes(), &sess)
	require.NoError(t, err)
	assert.Equal(t, "tenant_connected", sess.State)
	assert.Equal(t, resp.Key, sess.TenantKey)
}

func TestConnectAndDisconnect(t *testing.T) {
	ts := newTestServer(t)

	hostToken := login(t, ts, "host")
	key := createServerKey(t, ts, hostToken)

	token := login(t, ts, "alice")

	// Connect with a bad key
	rr := ts.request(http.MethodPost, "/api/v1/tenants/connect", map[string]string{"tenant_key": "bogus"}, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_TENANT_KEY")

	// Connect with a missing key
	rr = ts.request(http.MethodPost, "/api/v1/tenants/connect", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "MISSING_KEY")

	// Connect with the real key
	rr = ts.request(http.MethodPost, "/api/v1/tenants/connect", map[string]string{"tenant_key": key}, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Tenant info reflects the connection
	rr = ts.request(http.MethodGet, "/api/v1/tenants/current", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var tenant response.Tenant
	err := json.Unmarshal(rr.Body.Bytes(), &tenant)
	require.NoError(t, err)
	assert.Equal(t, key, tenant.Key)

	// Disconnect and the info endpoint turns into a conflict
	rr = ts.request(http.MethodPost, "/api/v1/tenants/disconnect", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/tenants/current", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_CONNECTED")
}

func TestRoomLifecycle(t *testing.T) {
	ts := newTestServer(t)

	hostToken := login(t, ts, "host")
	key := createServerKey(t, ts, hostToken)

	// Create with an explicit code
	rr := ts.request(http.MethodPost, "/api/v1/rooms", map[string]string{"code": "4242"}, hostToken)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var room response.Room
	err := json.Unmarshal(rr.Body.Bytes(), &room)
	require.NoError(t, err)
	assert.Equal(t, "4242", room.Code)
	assert.Equal(t, key, room.TenantKey)
	assert.Empty(t, room.Members)

	// Duplicate code under the same tenant
	rr = ts.request(http.MethodPost, "/api/v1/rooms", map[string]string{"code": "4242"}, hostToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROOM_EXISTS")

	// Second player connects and joins
	aliceToken := login(t, ts, "alice")
	rr = ts.request(http.MethodPost, "/api/v1/tenants/connect", map[string]string{"tenant_key": key}, aliceToken)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/join", map[string]string{"room_code": "4242"}, aliceToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var joined response.Room
	err = json.Unmarshal(rr.Body.Bytes(), &joined)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, joined.Members)

	// Room listing shows the member
	rr = ts.request(http.MethodGet, "/api/v1/rooms", nil, hostToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var list response.RoomList
	err = json.Unmarshal(rr.Body.Bytes(), &list)
	require.NoError(t, err)
	require.Len(t, list.Rooms, 1)
	assert.Equal(t, []string{"alice"}, list.Rooms[0].Members)

	// Alice leaves
	rr = ts.request(http.MethodPost, "/api/v1/rooms/leave", nil, aliceToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Leaving again is a conflict
	rr = ts.request(http.MethodPost, "/api/v1/rooms/leave", nil, aliceToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_IN_ROOM")
}

func TestJoinRoomRequiresConnection(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/join", map[string]string{"room_code": "4242"}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_CONNECTED")
}

func TestJoinUnknownRoom(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "alice")
	createServerKey(t, ts, token)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/join", map[string]string{"room_code": "9999"}, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROOM_NOT_FOUND")
}

func TestSignalAndReadPositions(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "alice")

	// Signal requires only login, not a tenant
	rr := ts.request(http.MethodPost, "/api/v1/positions", map[string]float64{"x": 1.5, "y": 2, "z": -3}, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var pos response.Position
	err := json.Unmarshal(rr.Body.Bytes(), &pos)
	require.NoError(t, err)
	assert.Equal(t, "alice", pos.PlayerID)
	assert.Equal(t, 1.5, pos.X)

	// Last write wins
	rr = ts.request(http.MethodPost, "/api/v1/positions", map[string]float64{"x": 4, "y": 5, "z": 6}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	// Reads are public
	rr = ts.request(http.MethodGet, "/api/v1/positions/alice", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	err = json.Unmarshal(rr.Body.Bytes(), &pos)
	require.NoError(t, err)
	assert.Equal(t, float64(4), pos.X)
	assert.Equal(t, float64(5), pos.Y)
	assert.Equal(t, float64(6), pos.Z)

	rr = ts.request(http.MethodGet, "/api/v1/positions", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var listResp response.PositionList
	err = json.Unmarshal(rr.Body.Bytes(), &listResp)
	require.NoError(t, err)
	assert.Len(t, listResp.Positions, 1)
}

func TestSignalMissingCoordinates(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/positions", map[string]float64{"x": 1, "y": 2}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "MISSING_FIELDS")
}

func TestGetPositionUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/positions/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "PLAYER_NOT_FOUND")
}

// Helper functions

func login(t *testing.T, ts *testServer, player string) string {
	t.Helper()

	body := map[string]string{"player_id": player}
	rr := ts.request(http.MethodPost, "/api/v1/session/login", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Session
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.SessionToken
}

func createServerKey(t *testing.T, ts *testServer, token string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/tenants", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Tenant
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.Key
}
