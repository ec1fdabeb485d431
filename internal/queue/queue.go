package queue

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/Uttam1728/event-analytics/internal/storage/pebble"
	"github.com/Uttam1728/event-analytics/pkg/id"
)

// Entry is a claimed queue entry.
type Entry struct {
	ID         id.ID
	Fields     map[string]string
	EnqueuedAt time.Time
}

// Stats reports queue depth.
type Stats struct {
	// Length counts entries not yet acknowledged (available plus leased).
	Length int64
	// Pending counts entries claimed but not yet acknowledged.
	Pending int64
}

// Queue is the durable ordered queue capability consumed by the pipeline.
type Queue interface {
	// Enqueue appends an entry and returns its assigned ID.
	Enqueue(ctx context.Context, fields map[string]string) (id.ID, error)
	// Claim leases up to max entries for the group, blocking up to maxWait
	// when none are immediately available. An empty result is not an error.
	Claim(ctx context.Context, group string, max int, maxWait time.Duration) ([]Entry, error)
	// Ack acknowledges claimed entries, removing them permanently.
	Ack(ctx context.Context, group string, ids []id.ID) error
	// Stats reports current depth.
	Stats(ctx context.Context) (Stats, error)
}

// Options tune a PebbleQueue.
type Options struct {
	// LeaseMs is how long claimed entries stay invisible before the sweeper
	// returns them to availability. Minimum 5000.
	LeaseMs int64
	// PollInterval is the claim busy-wait period while blocking.
	PollInterval time.Duration
}

// PebbleQueue is the Pebble-backed Queue implementation.
type PebbleQueue struct {
	db   *pebblestore.DB
	name string
	gen  *id.Generator

	leaseMs      int64
	pollInterval time.Duration

	// mu serializes meta counter read-modify-write across producers,
	// the consumer, and the sweeper.
	mu sync.Mutex

	sweepStop chan struct{}
}

// Open initializes a queue over the shared store.
func Open(db *pebblestore.DB, name string, opts Options) (*PebbleQueue, error) {
	if name == "" {
		return nil, fmt.Errorf("queue: name is required")
	}
	q := &PebbleQueue{
		db:           db,
		name:         name,
		gen:          id.NewGenerator(),
		leaseMs:      opts.LeaseMs,
		pollInterval: opts.PollInterval,
	}
	if q.leaseMs < 5000 {
		q.leaseMs = 30_000
	}
	if q.pollInterval <= 0 {
		q.pollInterval = 100 * time.Millisecond
	}
	return q, nil
}

// Enqueue appends an entry: record, availability index and counters commit in
// one batch.
func (q *PebbleQueue) Enqueue(ctx context.Context, fields map[string]string) (id.ID, error) {
	nowMs := time.Now().UnixMilli()
	rec, err := EncodeRecord(nowMs, fields)
	if err != nil {
		return id.ID{}, fmt.Errorf("queue: encode entry: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	entryID := q.gen.Next()
	b := q.db.NewBatch()
	defer b.Close()
	if err := b.Set(MsgKey(q.name, entryID), rec, nil); err != nil {
		return id.ID{}, err
	}
	if err := b.Set(AvailKey(q.name, entryID), nil, nil); err != nil {
		return id.ID{}, err
	}
	avail, pending := q.counters()
	if err := q.setCounters(b, avail+1, pending); err != nil {
		return id.ID{}, err
	}
	if err := q.db.CommitBatch(ctx, b); err != nil {
		return id.ID{}, err
	}
	return entryID, nil
}

// Claim leases up to max entries in enqueue order, polling until maxWait
// elapses when the queue is empty.
func (q *PebbleQueue) Claim(ctx context.Context, group string, max int, maxWait time.Duration) ([]Entry, error) {
	if group == "" {
		return nil, fmt.Errorf("queue: group is required")
	}
	if max <= 0 {
		max = 1
	}
	deadline := time.Now().Add(maxWait)
	for {
		entries, err := q.claimOnce(ctx, group, max)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 || maxWait <= 0 || !time.Now().Before(deadline) {
			return entries, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.pollInterval):
		}
	}
}

func (q *PebbleQueue) claimOnce(ctx context.Context, group string, max int) ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	lo, hi := keyRange(AvailPrefix(q.name))
	iter, err := q.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	nowMs := time.Now().UnixMilli()
	exp := nowMs + q.leaseMs
	b := q.db.NewBatch()
	defer b.Close()

	entries := make([]Entry, 0, max)
	dropped := 0
	for ok := iter.First(); ok && len(entries) < max; ok = iter.Next() {
		k := iter.Key()
		if len(k) < 16 {
			continue
		}
		var entryID id.ID
		copy(entryID[:], k[len(k)-16:])

		rec, errGet := q.db.Get(MsgKey(q.name, entryID))
		if errGet != nil {
			// orphaned index entry
			_ = b.Delete(append([]byte(nil), k...), nil)
			dropped++
			continue
		}
		enqMs, fields, okDec := DecodeRecord(rec)
		if !okDec {
			// corrupt record: remove it entirely, never deliver
			_ = b.Delete(append([]byte(nil), k...), nil)
			_ = b.Delete(MsgKey(q.name, entryID), nil)
			dropped++
			continue
		}

		var lease [12]byte
		binary.BigEndian.PutUint64(lease[0:8], uint64(exp))
		binary.BigEndian.PutUint32(lease[8:12], 1)
		if err := b.Set(LeaseKey(q.name, group, entryID), lease[:], nil); err != nil {
			return nil, err
		}
		if err := b.Set(LeaseIdxKey(q.name, group, exp, entryID), nil, nil); err != nil {
			return nil, err
		}
		if err := b.Delete(append([]byte(nil), k...), nil); err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			ID:         entryID,
			Fields:     fields,
			EnqueuedAt: time.UnixMilli(enqMs).UTC(),
		})
	}

	if len(entries) == 0 && dropped == 0 {
		return nil, nil
	}
	avail, pending := q.counters()
	avail -= int64(len(entries) + dropped)
	if avail < 0 {
		avail = 0
	}
	if err := q.setCounters(b, avail, pending+int64(len(entries))); err != nil {
		return nil, err
	}
	if err := q.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}
	return entries, nil
}

// Ack removes acknowledged entries and their lease state in one batch.
// Unknown IDs are ignored so a redelivered batch can be acked twice safely.
func (q *PebbleQueue) Ack(ctx context.Context, group string, ids []id.ID) error {
	if len(ids) == 0 {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	b := q.db.NewBatch()
	defer b.Close()
	acked := int64(0)
	for _, entryID := range ids {
		lease, err := q.db.Get(LeaseKey(q.name, group, entryID))
		if err != nil {
			continue
		}
		if len(lease) >= 8 {
			exp := int64(binary.BigEndian.Uint64(lease[0:8]))
			if err := b.Delete(LeaseIdxKey(q.name, group, exp, entryID), nil); err != nil {
				return err
			}
		}
		if err := b.Delete(LeaseKey(q.name, group, entryID), nil); err != nil {
			return err
		}
		if err := b.Delete(MsgKey(q.name, entryID), nil); err != nil {
			return err
		}
		acked++
	}
	if acked == 0 {
		return nil
	}
	avail, pending := q.counters()
	pending -= acked
	if pending < 0 {
		pending = 0
	}
	if err := q.setCounters(b, avail, pending); err != nil {
		return err
	}
	return q.db.CommitBatch(ctx, b)
}

// Stats reports current depth from the meta counters.
func (q *PebbleQueue) Stats(_ context.Context) (Stats, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	avail, pending := q.counters()
	return Stats{Length: avail + pending, Pending: pending}, nil
}

// ReclaimExpired returns entries with expired leases to availability so they
// can be claimed again. It reports how many were reclaimed.
func (q *PebbleQueue) ReclaimExpired(ctx context.Context, nowMs int64, max int) (int, error) {
	if nowMs <= 0 {
		nowMs = time.Now().UnixMilli()
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	prefix := LeaseIdxPrefix(q.name)
	lo, hi := keyRange(prefix)
	iter, err := q.db.NewIter(&pebble.IterOptions{LowerBound: lo, UpperBound: hi})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	b := q.db.NewBatch()
	defer b.Close()
	reclaimed := 0
	for ok := iter.First(); ok; ok = iter.Next() {
		group, exp, entryID, okKey := parseLeaseIdxKey(iter.Key(), prefix)
		if !okKey {
			continue
		}
		if exp > nowMs {
			// keys within a group are expiry-ordered; with several groups we
			// keep scanning, later groups may still hold expired leases
			continue
		}
		_ = b.Delete(append([]byte(nil), iter.Key()...), nil)

		lease, errGet := q.db.Get(LeaseKey(q.name, group, entryID))
		if errGet != nil || len(lease) < 8 {
			continue // index orphan, lease already acked or re-leased
		}
		if int64(binary.BigEndian.Uint64(lease[0:8])) != exp {
			continue // stale index entry for an extended lease
		}
		if err := b.Delete(LeaseKey(q.name, group, entryID), nil); err != nil {
			return reclaimed, err
		}
		if err := b.Set(AvailKey(q.name, entryID), nil, nil); err != nil {
			return reclaimed, err
		}
		reclaimed++
		if max > 0 && reclaimed >= max {
			break
		}
	}
	if reclaimed == 0 {
		return 0, nil
	}
	avail, pending := q.counters()
	pending -= int64(reclaimed)
	if pending < 0 {
		pending = 0
	}
	if err := q.setCounters(b, avail+int64(reclaimed), pending); err != nil {
		return reclaimed, err
	}
	if err := q.db.CommitBatch(ctx, b); err != nil {
		return reclaimed, err
	}
	return reclaimed, nil
}

// StartSweeper runs a background loop reclaiming expired leases.
func (q *PebbleQueue) StartSweeper(interval time.Duration, maxPerTick int) {
	if q.sweepStop != nil {
		return
	}
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	if maxPerTick <= 0 {
		maxPerTick = 1024
	}
	q.sweepStop = make(chan struct{})
	stop := q.sweepStop
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_, _ = q.ReclaimExpired(context.Background(), time.Now().UnixMilli(), maxPerTick)
			}
		}
	}()
}

// StopSweeper stops the background sweeper.
func (q *PebbleQueue) StopSweeper() {
	if q.sweepStop != nil {
		close(q.sweepStop)
		q.sweepStop = nil
	}
}

// counters reads the meta counters; missing meta reads as zeros.
// Callers hold q.mu.
func (q *PebbleQueue) counters() (avail, pending int64) {
	meta, err := q.db.Get(MetaKey(q.name))
	if err != nil || len(meta) < 16 {
		return 0, 0
	}
	avail = int64(binary.BigEndian.Uint64(meta[0:8]))
	pending = int64(binary.BigEndian.Uint64(meta[8:16]))
	return avail, pending
}

func (q *PebbleQueue) setCounters(b *pebble.Batch, avail, pending int64) error {
	var meta [16]byte
	binary.BigEndian.PutUint64(meta[0:8], uint64(avail))
	binary.BigEndian.PutUint64(meta[8:16], uint64(pending))
	return b.Set(MetaKey(q.name), meta[:], nil)
}
