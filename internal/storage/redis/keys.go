package redis

import (
	"fmt"

	"github.com/roomsync/roomsync/internal/model"
)

// Key prefix for all coordination data
const keyPrefix = "roomsync"

// tenantKey returns the Redis key for a Tenant
func tenantKey(key model.TenantKey) string {
	return fmt.Sprintf("%s:tenant:%s", keyPrefix, key)
}

// roomKey returns the Redis key for a Room's metadata
func roomKey(tenant model.TenantKey, code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s:%s", keyPrefix, tenant, code)
}

// roomMembersKey returns the Redis key for a Room's member SET
func roomMembersKey(tenant model.TenantKey, code model.RoomCode) string {
	return fmt.Sprintf("%s:room_members:%s:%s", keyPrefix, tenant, code)
}

// roomsForTenantIndexKey returns the Redis key for the SET of room codes per tenant
func roomsForTenantIndexKey(tenant model.TenantKey) string {
	return fmt.Sprintf("%s:idx:rooms:%s", keyPrefix, tenant)
}

// positionKey returns the Redis key for a player's position HASH
func positionKey(player model.PlayerID) string {
	return fmt.Sprintf("%s:position:%s", keyPrefix, player)
}

// positionsIndexKey returns the Redis key for the SET of players with positions
func positionsIndexKey() string {
	return fmt.Sprintf("%s:idx:positions", keyPrefix)
}
