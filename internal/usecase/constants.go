package usecase

import "time"

const (
	// OverviewCacheTTL is how long the cached per-user overview stays valid
	// when no mutation invalidates it first.
	OverviewCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)

// overviewCacheKey returns the cache key for a user's financial overview.
func overviewCacheKey(ownerID string) string {
	return "overview:" + ownerID
}
