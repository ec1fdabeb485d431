package processor

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uttam1728/event-analytics/internal/archive"
	"github.com/Uttam1728/event-analytics/internal/event"
	"github.com/Uttam1728/event-analytics/internal/queue"
	pebblestore "github.com/Uttam1728/event-analytics/internal/storage/pebble"
	"github.com/Uttam1728/event-analytics/pkg/log"
)

func testLogger() log.Logger {
	return log.NewLogger(log.WithLevel(log.ErrorLevel), log.WithOutput(log.NewWriterOutput(io.Discard)))
}

type fixture struct {
	q *queue.PebbleQueue
	w *archive.Writer
	p *Processor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	q, err := queue.Open(db, "events_stream", queue.Options{PollInterval: 10 * time.Millisecond})
	require.NoError(t, err)

	w, err := archive.NewWriter(filepath.Join(t.TempDir(), "persistent_events"), testLogger())
	require.NoError(t, err)

	p := New(q, w, testLogger(), Options{
		Group:     "persistent_processors",
		BatchSize: 1000,
		MaxWait:   100 * time.Millisecond,
		Backoff:   20 * time.Millisecond,
	})
	return &fixture{q: q, w: w, p: p}
}

func enqueueAt(t *testing.T, q *queue.PebbleQueue, user, ts string) {
	t.Helper()
	e, err := event.New(user, mustParse(t, ts), "/page")
	require.NoError(t, err)
	_, err = q.Enqueue(context.Background(), e.Fields())
	require.NoError(t, err)
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	require.NoError(t, sc.Err())
	return n
}

func TestDrainPersistsAndAcks(t *testing.T) {
	fx := newFixture(t)

	enqueueAt(t, fx.q, "u1", "2024-01-15T14:05:00Z")
	enqueueAt(t, fx.q, "u2", "2024-01-15T14:05:30Z")
	enqueueAt(t, fx.q, "u3", "2024-01-15T14:59:59Z")
	enqueueAt(t, fx.q, "u4", "2024-01-15T15:00:01Z")

	require.NoError(t, fx.p.Start())
	defer fx.p.Stop()

	require.Eventually(t, func() bool {
		st, err := fx.p.Stats(context.Background())
		return err == nil && st.QueueLength == 0 && st.PendingCount == 0
	}, 5*time.Second, 20*time.Millisecond, "queue should drain fully")

	h14 := filepath.Join(fx.w.Root(), "2024", "01", "15", "events_2024-01-15-14.jsonl")
	h15 := filepath.Join(fx.w.Root(), "2024", "01", "15", "events_2024-01-15-15.jsonl")
	assert.Equal(t, 3, countLines(t, h14))
	assert.Equal(t, 1, countLines(t, h15))
}

func TestStartTwiceFails(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.p.Start())
	defer fx.p.Stop()

	assert.ErrorIs(t, fx.p.Start(), ErrAlreadyRunning)
}

func TestStopJoinsPromptly(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.p.Start())

	start := time.Now()
	fx.p.Stop()
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.False(t, fx.p.Running())

	// restart after stop is allowed
	require.NoError(t, fx.p.Start())
	fx.p.Stop()
}

func TestFailedWriteLeavesBatchUnacked(t *testing.T) {
	fx := newFixture(t)

	// make every write to the 2024/02 partition fail
	require.NoError(t, os.MkdirAll(filepath.Join(fx.w.Root(), "2024"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fx.w.Root(), "2024", "02"), []byte("x"), 0o644))

	enqueueAt(t, fx.q, "u1", "2024-02-10T10:00:00Z")

	require.NoError(t, fx.p.Start())
	time.Sleep(300 * time.Millisecond)
	fx.p.Stop()

	// the entry was claimed but never acknowledged
	st, err := fx.q.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Length, "entry must remain in the queue")

	// after lease expiry it is claimable again by a fresh consumer
	n, err := fx.q.ReclaimExpired(context.Background(), time.Now().UnixMilli()+60_000, 0)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	entries, err := fx.q.Claim(context.Background(), "persistent_processors", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].Fields[event.FieldUserID])
}

func TestStatsWhenIdle(t *testing.T) {
	fx := newFixture(t)
	st, err := fx.p.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Running)
	assert.Zero(t, st.QueueLength)
}
