package queue

import (
	"encoding/binary"
	"fmt"

	"github.com/Uttam1728/event-analytics/pkg/id"
)

// Key prefixes for queue data structures.
const (
	prefixMsg      = "msg/"       // record data
	prefixAvail    = "avail/"     // availability index (enqueue order)
	prefixLease    = "lease/"     // active leases per group
	prefixLeaseIdx = "lease_idx/" // lease expiry index per group
)

// queuePrefix returns the base prefix for a queue.
// Format: pq/{queue}/
func queuePrefix(queue string) string {
	return fmt.Sprintf("pq/%s/", queue)
}

// MetaKey returns the counters key for a queue.
// Format: pq/{queue}/meta
func MetaKey(queue string) []byte {
	return []byte(queuePrefix(queue) + "meta")
}

// MsgKey returns the record key for an entry.
// Format: pq/{queue}/msg/{id}
func MsgKey(queue string, entryID id.ID) []byte {
	prefix := queuePrefix(queue) + prefixMsg
	key := make([]byte, len(prefix)+16)
	copy(key, prefix)
	copy(key[len(prefix):], entryID[:])
	return key
}

// AvailKey returns the availability index key for an entry. IDs are
// time-ordered, so iterating this prefix yields enqueue order.
// Format: pq/{queue}/avail/{id}
func AvailKey(queue string, entryID id.ID) []byte {
	prefix := queuePrefix(queue) + prefixAvail
	key := make([]byte, len(prefix)+16)
	copy(key, prefix)
	copy(key[len(prefix):], entryID[:])
	return key
}

// LeaseKey returns the lease key for an entry in a group.
// Format: pq/{queue}/lease/{group}/{id}
func LeaseKey(queue, group string, entryID id.ID) []byte {
	prefix := queuePrefix(queue) + prefixLease + group + "/"
	key := make([]byte, len(prefix)+16)
	copy(key, prefix)
	copy(key[len(prefix):], entryID[:])
	return key
}

// LeaseIdxKey returns the lease expiry index key.
// Format: pq/{queue}/lease_idx/{group}/{expires_ms}{id}
func LeaseIdxKey(queue, group string, expiresMs int64, entryID id.ID) []byte {
	prefix := queuePrefix(queue) + prefixLeaseIdx + group + "/"
	key := make([]byte, len(prefix)+8+16)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(expiresMs))
	copy(key[len(prefix)+8:], entryID[:])
	return key
}

// AvailPrefix returns the prefix for availability scanning.
func AvailPrefix(queue string) []byte {
	return []byte(queuePrefix(queue) + prefixAvail)
}

// LeaseIdxPrefix returns the prefix for lease expiry scanning across all
// groups of a queue.
func LeaseIdxPrefix(queue string) []byte {
	return []byte(queuePrefix(queue) + prefixLeaseIdx)
}

// LeaseIdxGroupPrefix returns the prefix for lease expiry scanning within one
// group.
func LeaseIdxGroupPrefix(queue, group string) []byte {
	return []byte(queuePrefix(queue) + prefixLeaseIdx + group + "/")
}

// keyRange returns start and end bounds for scanning a prefix. The end bound
// is exclusive (prefix + 0xFF).
func keyRange(prefix []byte) ([]byte, []byte) {
	end := make([]byte, len(prefix)+1)
	copy(end, prefix)
	end[len(prefix)] = 0xFF
	return prefix, end
}

// parseLeaseIdxKey extracts group, expiry and entry ID from a lease index key.
func parseLeaseIdxKey(key, prefix []byte) (group string, expiresMs int64, entryID id.ID, ok bool) {
	if len(key) < len(prefix)+1+8+16 {
		return "", 0, id.ID{}, false
	}
	rest := key[len(prefix):]
	// group is everything up to the first '/'
	slash := -1
	for i, b := range rest {
		if b == '/' {
			slash = i
			break
		}
	}
	if slash < 0 || len(rest) != slash+1+8+16 {
		return "", 0, id.ID{}, false
	}
	group = string(rest[:slash])
	expiresMs = int64(binary.BigEndian.Uint64(rest[slash+1 : slash+1+8]))
	copy(entryID[:], rest[slash+1+8:])
	return group, expiresMs, entryID, true
}
