package archive

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uttam1728/event-analytics/internal/event"
	"github.com/Uttam1728/event-analytics/internal/queue"
	"github.com/Uttam1728/event-analytics/pkg/id"
	"github.com/Uttam1728/event-analytics/pkg/log"
)

func testLogger() log.Logger {
	return log.NewLogger(log.WithLevel(log.ErrorLevel), log.WithOutput(log.NewWriterOutput(io.Discard)))
}

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := NewWriter(filepath.Join(t.TempDir(), "persistent_events"), testLogger())
	require.NoError(t, err)
	return w
}

var gen = id.NewGenerator()

func entryAt(t *testing.T, user, ts, url string) queue.Entry {
	t.Helper()
	fields := map[string]string{
		event.FieldEventID:   "e-" + user + "-" + ts,
		event.FieldUserID:    user,
		event.FieldEventType: "page_view",
		event.FieldTimestamp: ts,
	}
	if url != "" {
		b, err := json.Marshal(&event.Payload{PageURL: url})
		require.NoError(t, err)
		fields[event.FieldPayload] = string(b)
	}
	return queue.Entry{ID: gen.Next(), Fields: fields, EnqueuedAt: time.Now().UTC()}
}

func readLines(t *testing.T, path string) []Record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var records []Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r Record
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		records = append(records, r)
	}
	require.NoError(t, sc.Err())
	return records
}

func TestWriteBatchPartitionsByEventHour(t *testing.T) {
	w := newTestWriter(t)

	batch := []queue.Entry{
		entryAt(t, "u1", "2024-01-15T14:05:00Z", "/home"),
		entryAt(t, "u2", "2024-01-15T14:05:30Z", ""),
		entryAt(t, "u3", "2024-01-15T14:59:59Z", "/checkout"),
		entryAt(t, "u4", "2024-01-15T15:00:01Z", ""),
	}
	require.NoError(t, w.WriteBatch(batch))

	h14 := readLines(t, filepath.Join(w.Root(), "2024", "01", "15", "events_2024-01-15-14.jsonl"))
	h15 := readLines(t, filepath.Join(w.Root(), "2024", "01", "15", "events_2024-01-15-15.jsonl"))
	require.Len(t, h14, 3)
	require.Len(t, h15, 1)

	// claim order within the partition
	assert.Equal(t, "u1", h14[0].UserID)
	assert.Equal(t, "u2", h14[1].UserID)
	assert.Equal(t, "u3", h14[2].UserID)

	// payload round trip: present vs null
	require.NotNil(t, h14[0].Payload)
	assert.Equal(t, "/home", h14[0].Payload.PageURL)
	assert.Nil(t, h14[1].Payload)

	assert.NotEmpty(t, h14[0].QueueEntryID)
	assert.NotEmpty(t, h14[0].ProcessedAt)
	assert.False(t, h14[0].TimestampParseError)
}

func TestWriteBatchAppendsAcrossBatches(t *testing.T) {
	w := newTestWriter(t)

	require.NoError(t, w.WriteBatch([]queue.Entry{entryAt(t, "u1", "2024-01-15T14:05:00Z", "")}))
	require.NoError(t, w.WriteBatch([]queue.Entry{entryAt(t, "u2", "2024-01-15T14:45:00Z", "")}))

	recs := readLines(t, filepath.Join(w.Root(), "2024", "01", "15", "events_2024-01-15-14.jsonl"))
	require.Len(t, recs, 2)
	assert.Equal(t, "u1", recs[0].UserID)
	assert.Equal(t, "u2", recs[1].UserID)
}

func TestUnparseableTimestampFallsBackToEnqueueTime(t *testing.T) {
	w := newTestWriter(t)

	e := entryAt(t, "u1", "garbage", "")
	e.EnqueuedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, w.WriteBatch([]queue.Entry{e}))

	recs := readLines(t, filepath.Join(w.Root(), "2024", "03", "01", "events_2024-03-01-09.jsonl"))
	require.Len(t, recs, 1)
	assert.True(t, recs[0].TimestampParseError)
	assert.Equal(t, "2024-03-01T09:30:00Z", recs[0].Timestamp)
}

func TestMalformedPayloadStoredAsNull(t *testing.T) {
	w := newTestWriter(t)

	e := entryAt(t, "u1", "2024-01-15T14:05:00Z", "")
	e.Fields[event.FieldPayload] = "{not json"
	require.NoError(t, w.WriteBatch([]queue.Entry{e}))

	recs := readLines(t, filepath.Join(w.Root(), "2024", "01", "15", "events_2024-01-15-14.jsonl"))
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Payload)
	assert.False(t, recs[0].TimestampParseError)
}

func TestPartialFailureWritesOtherPartitions(t *testing.T) {
	w := newTestWriter(t)

	// block the 2024/02 partition by planting a file where its dir belongs
	require.NoError(t, os.MkdirAll(filepath.Join(w.Root(), "2024"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(w.Root(), "2024", "02"), []byte("x"), 0o644))

	batch := []queue.Entry{
		entryAt(t, "u1", "2024-02-10T10:00:00Z", ""), // doomed partition
		entryAt(t, "u2", "2024-01-15T14:05:00Z", ""), // healthy partition
	}
	err := w.WriteBatch(batch)
	require.Error(t, err)

	recs := readLines(t, filepath.Join(w.Root(), "2024", "01", "15", "events_2024-01-15-14.jsonl"))
	require.Len(t, recs, 1)
	assert.Equal(t, "u2", recs[0].UserID)
}

func TestNewWriterRejectsUncreatableRoot(t *testing.T) {
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))
	_, err := NewWriter(filepath.Join(blocked, "events"), testLogger())
	assert.Error(t, err)
}

func TestStatsAndListFiles(t *testing.T) {
	w := newTestWriter(t)

	require.NoError(t, w.WriteBatch([]queue.Entry{
		entryAt(t, "u1", "2024-01-15T14:05:00Z", ""),
		entryAt(t, "u2", "2024-01-15T15:05:00Z", ""),
	}))

	files, err := w.ListFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join("2024", "01", "15", "events_2024-01-15-14.jsonl"), files[0].Path)
	assert.Greater(t, files[0].SizeBytes, int64(0))
	assert.NotEmpty(t, files[0].Size)

	st, err := w.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, files[0].SizeBytes+files[1].SizeBytes, st.TotalBytes)
}
