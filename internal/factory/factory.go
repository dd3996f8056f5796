package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/roomsync/roomsync/internal/dependencies/clock"
	"github.com/roomsync/roomsync/internal/dependencies/random"
	"github.com/roomsync/roomsync/internal/services/coord"
	"github.com/roomsync/roomsync/internal/services/identity"
	"github.com/roomsync/roomsync/internal/services/position"
	"github.com/roomsync/roomsync/internal/services/room"
	"github.com/roomsync/roomsync/internal/services/session"
	"github.com/roomsync/roomsync/internal/storage"
	"github.com/roomsync/roomsync/internal/storage/memory"
	redisstorage "github.com/roomsync/roomsync/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Sessions        *session.Manager
	IdentityService *identity.Service
	RoomController  *room.Controller
	PositionService *position.Service
	Coordinator     *coord.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// SessionConfig holds configuration for the session manager (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default session config if not provided
	sessionCfg := cfg.SessionConfig
	if sessionCfg.SessionDuration == 0 {
		sessionCfg = session.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, sessionCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, sessionCfg session.Config, logger *slog.Logger) *App {
	// Create services
	sessions := session.NewManager(clk, sessionCfg)
	identityService := identity.New(store, clk, rnd, logger)
	roomController := room.NewController(store, identityService, clk, rnd, logger)
	positionService := position.New(store, clk)
	coordinator := coord.New(sessions, identityService, roomController, positionService, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Sessions:        sessions,
		IdentityService: identityService,
		RoomController:  roomController,
		PositionService: positionService,
		Coordinator:     coordinator,
	}
}
