package identity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/roomsync/roomsync/internal/dependencies/clock"
	"github.com/roomsync/roomsync/internal/dependencies/random"
	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/storage"
)

const (
	// KeySegmentLength is the length of each tenant key segment
	KeySegmentLength = 32
	// KeySegments is the number of segments in a tenant key
	KeySegments = 3
	// KeyAlphabet is the characters used in tenant keys (avoid confusing chars)
	KeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

// Service manages the tenant key lifecycle
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new identity Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateTenant generates a fresh server key and persists it. Collisions on
// a 96-character key are theoretical, but generation retries anyway.
func (s *Service) CreateTenant(ctx context.Context) (*model.Tenant, error) {
	var key model.TenantKey
	for {
		key = s.generateKey()
		exists, err := s.storage.TenantExists(ctx, key)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	tenant := &model.Tenant{
		Key:       key,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveTenant(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("tenant created", slog.String("tenant_key", string(key)))
	return tenant, nil
}

// ValidateTenant is the existence probe used by connect and re-checked
// before room mutations, where session state may be stale.
func (s *Service) ValidateTenant(ctx context.Context, key model.TenantKey) error {
	exists, err := s.storage.TenantExists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrInvalidTenantKey
	}
	return nil
}

// GetTenant retrieves a tenant record by key
func (s *Service) GetTenant(ctx context.Context, key model.TenantKey) (*model.Tenant, error) {
	return s.storage.GetTenant(ctx, key)
}

// generateKey produces three 32-character segments joined by dashes
func (s *Service) generateKey() model.TenantKey {
	segments := make([]string, KeySegments)
	for i := range segments {
		segments[i] = s.random.String(KeySegmentLength, KeyAlphabet)
	}
	return model.TenantKey(strings.Join(segments, "-"))
}
