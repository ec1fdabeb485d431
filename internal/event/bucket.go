package event

import (
	"fmt"
	"time"
)

// Minute buckets aggregate counts per (event type, minute-start) window.
// Key format: {type}_{YYYY-MM-DD_HH:MM}; the distinct-user set for a bucket
// lives under the same key suffixed ":users".

const bucketMinuteLayout = "2006-01-02_15:04"

// BucketKey returns the minute-bucket key for an event type and timestamp.
func BucketKey(t Type, ts time.Time) string {
	return fmt.Sprintf("%s_%s", t, ts.UTC().Truncate(time.Minute).Format(bucketMinuteLayout))
}

// BucketKey returns the event's own minute-bucket key.
func (e Event) BucketKey() string {
	return BucketKey(e.Type, e.Timestamp)
}

// UserSetKey returns the distinct-user set key for a bucket key.
func UserSetKey(bucketKey string) string {
	return bucketKey + ":users"
}

// MinuteKeys returns the bucket keys covering [from, to] inclusive at minute
// granularity, oldest first.
func MinuteKeys(t Type, from, to time.Time) []string {
	from = from.UTC().Truncate(time.Minute)
	to = to.UTC().Truncate(time.Minute)
	if to.Before(from) {
		return nil
	}
	keys := make([]string, 0, int(to.Sub(from)/time.Minute)+1)
	for m := from; !m.After(to); m = m.Add(time.Minute) {
		keys = append(keys, BucketKey(t, m))
	}
	return keys
}

// ParseBucketKey extracts the minute-start from a bucket key of the given
// type. Used by read paths that accept client-supplied keys.
func ParseBucketKey(key string, t Type) (time.Time, error) {
	prefix := string(t) + "_"
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		return time.Time{}, fmt.Errorf("event: bucket key %q does not match type %q", key, t)
	}
	ts, err := time.Parse(bucketMinuteLayout, key[len(prefix):])
	if err != nil {
		return time.Time{}, fmt.Errorf("event: bucket key %q: %w", key, err)
	}
	return ts.UTC(), nil
}
