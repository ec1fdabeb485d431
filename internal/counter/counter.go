package counter

import (
	"sort"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/Uttam1728/event-analytics/internal/event"
)

// bucket holds one minute window's count and distinct-user set. Both live in
// a single cache item so they share one expiry: the count can never outlive
// its user set or vice versa.
type bucket struct {
	mu    sync.Mutex
	count int64
	users map[string]struct{}
}

// Counter maintains per-minute page-view counts with fixed-window expiry.
// The TTL is set on first write and never refreshed: a bucket disappears
// exactly TTL after its window first saw traffic, not TTL after the last hit.
type Counter struct {
	cache *ttlcache.Cache[string, *bucket]
	ttl   time.Duration
}

// New creates a counter whose buckets expire ttl after first write.
func New(ttl time.Duration) *Counter {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	c := &Counter{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, *bucket](ttl),
			ttlcache.WithDisableTouchOnHit[string, *bucket](),
		),
		ttl: ttl,
	}
	go c.cache.Start()
	return c
}

// Close stops the cache's expiry loop.
func (c *Counter) Close() {
	c.cache.Stop()
}

// Increment adds one hit from userID to the bucket and returns the new count.
// GetOrSet makes concurrent first-writes converge on a single bucket, so no
// increment is lost and two racing initializations cannot both start at 1.
func (c *Counter) Increment(bucketKey, userID string) (int64, error) {
	item, _ := c.cache.GetOrSet(bucketKey, &bucket{users: make(map[string]struct{})}, ttlcache.WithTTL[string, *bucket](c.ttl))
	b := item.Value()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
	if userID != "" {
		b.users[userID] = struct{}{}
	}
	return b.count, nil
}

// Count returns the bucket's count, 0 when absent or expired.
func (c *Counter) Count(bucketKey string) int64 {
	item := c.cache.Get(bucketKey)
	if item == nil {
		return 0
	}
	b := item.Value()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Users returns the bucket's distinct users, sorted. Empty when absent.
func (c *Counter) Users(bucketKey string) []string {
	item := c.cache.Get(bucketKey)
	if item == nil {
		return nil
	}
	b := item.Value()
	b.mu.Lock()
	defer b.mu.Unlock()
	users := make([]string, 0, len(b.users))
	for u := range b.users {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// RangeCounts reads counts for every minute bucket of the given type in
// [from, to]. Missing buckets read as 0.
func (c *Counter) RangeCounts(t event.Type, from, to time.Time) map[string]int64 {
	keys := event.MinuteKeys(t, from, to)
	out := make(map[string]int64, len(keys))
	for _, k := range keys {
		out[k] = c.Count(k)
	}
	return out
}
