package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/roomsync/roomsync/internal/dependencies/mocks"
	"github.com/roomsync/roomsync/internal/dependencies/random"
	"github.com/roomsync/roomsync/internal/model"
	"github.com/roomsync/roomsync/internal/storage/memory"
	"github.com/roomsync/roomsync/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// CreateTenant tests

func (s *ServiceSuite) TestCreateTenantSucceeds() {
	s.random.QueueString("aaaa", "bbbb", "cccc")

	tenant, err := s.service.CreateTenant(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.TenantKey("aaaa-bbbb-cccc"), tenant.Key)
	s.Equal(s.clock.Now(), tenant.CreatedAt)
}

func (s *ServiceSuite) TestCreateTenantPersistsTenant() {
	s.random.QueueString("aaaa", "bbbb", "cccc")

	tenant, _ := s.service.CreateTenant(s.ctx)

	retrieved, err := s.storage.GetTenant(s.ctx, tenant.Key)
	s.Require().NoError(err)
	s.Equal(tenant.Key, retrieved.Key)
}

func (s *ServiceSuite) TestCreateTenantRetriesOnCollision() {
	_ = s.storage.SaveTenant(s.ctx, &model.Tenant{Key: "aaaa-bbbb-cccc"})

	s.random.QueueString("aaaa", "bbbb", "cccc", "dddd", "eeee", "ffff")

	tenant, err := s.service.CreateTenant(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.TenantKey("dddd-eeee-ffff"), tenant.Key)
}

func (s *ServiceSuite) TestCreateTenantRealKeyShape() {
	// With the real generator, keys are three 32-char dash-joined segments
	service := New(s.storage, s.clock, random.New(), testutil.NopLogger())

	tenant, err := service.CreateTenant(s.ctx)
	s.Require().NoError(err)

	segments := strings.Split(string(tenant.Key), "-")
	s.Require().Len(segments, KeySegments)
	for _, seg := range segments {
		s.Len(seg, KeySegmentLength)
		for _, c := range seg {
			s.Contains(KeyAlphabet, string(c))
		}
	}
}

// ValidateTenant tests

func (s *ServiceSuite) TestValidateTenantSucceeds() {
	_ = s.storage.SaveTenant(s.ctx, &model.Tenant{Key: "key-1"})

	err := s.service.ValidateTenant(s.ctx, "key-1")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestValidateTenantUnknownKey() {
	err := s.service.ValidateTenant(s.ctx, "bogus")
	s.ErrorIs(err, model.ErrInvalidTenantKey)
}

// GetTenant tests

func (s *ServiceSuite) TestGetTenant() {
	_ = s.storage.SaveTenant(s.ctx, &model.Tenant{Key: "key-1"})

	tenant, err := s.service.GetTenant(s.ctx, "key-1")
	s.Require().NoError(err)
	s.Equal(model.TenantKey("key-1"), tenant.Key)
}

func (s *ServiceSuite) TestGetTenantNotFound() {
	_, err := s.service.GetTenant(s.ctx, "bogus")
	s.ErrorIs(err, model.ErrTenantNotFound)
}
