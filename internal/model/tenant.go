package model

import "time"

// TenantKey is the generated high-entropy key identifying a tenant ("server").
// Rooms and room codes are scoped to exactly one tenant key.
type TenantKey string

// Tenant is the isolation boundary grouping a set of rooms.
// Tenants are immutable once created and are never deleted.
type Tenant struct {
	Key       TenantKey
	CreatedAt time.Time
}
