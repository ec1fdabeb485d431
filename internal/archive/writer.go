package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/Uttam1728/event-analytics/internal/event"
	"github.com/Uttam1728/event-analytics/internal/queue"
	"github.com/Uttam1728/event-analytics/pkg/log"
)

// Record is the on-disk shape of a persisted event: the event fields plus
// processing metadata. Records are appended once and never mutated.
type Record struct {
	EventID      string         `json:"event_id"`
	UserID       string         `json:"user_id"`
	EventType    string         `json:"event_type"`
	Timestamp    string         `json:"timestamp"`
	Payload      *event.Payload `json:"payload"`
	QueueEntryID string         `json:"queue_entry_id"`
	ProcessedAt  string         `json:"processed_at"`
	// TimestampParseError marks records partitioned by enqueue time because
	// their own timestamp was unreadable.
	TimestampParseError bool `json:"timestamp_parse_error,omitempty"`
}

// partition identifies one hour-aligned output file.
type partition struct {
	year, month, day, hour int
}

func partitionOf(ts time.Time) partition {
	ts = ts.UTC()
	return partition{year: ts.Year(), month: int(ts.Month()), day: ts.Day(), hour: ts.Hour()}
}

// Dir returns the partition's directory below the root.
func (p partition) Dir() string {
	return filepath.Join(fmt.Sprintf("%04d", p.year), fmt.Sprintf("%02d", p.month), fmt.Sprintf("%02d", p.day))
}

// FileName returns the partition's file name.
func (p partition) FileName() string {
	return fmt.Sprintf("events_%04d-%02d-%02d-%02d.jsonl", p.year, p.month, p.day, p.hour)
}

// Writer appends drained batches to hour-partitioned JSONL files. Files are
// append-only: re-delivered batches may append duplicate records, so readers
// must treat the archive as a duplicate-tolerant log.
type Writer struct {
	root   string
	logger log.Logger
}

// NewWriter ensures the storage root exists and returns a writer. A root
// that cannot be created is a startup-fatal condition.
func NewWriter(root string, logger log.Logger) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("archive: storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("archive: create storage root %s: %w", root, err)
	}
	return &Writer{root: root, logger: logger.WithComponent("archive")}, nil
}

// Root returns the storage root path.
func (w *Writer) Root() string { return w.root }

// WriteBatch partitions the batch by each event's own hour and appends every
// group to its file. Entries are never dropped: unreadable timestamps fall
// back to enqueue time and are flagged. A failed partition does not block the
// others, but any failure makes the whole batch fail so the caller will not
// acknowledge it.
func (w *Writer) WriteBatch(entries []queue.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	processedAt := time.Now().UTC().Format(time.RFC3339)

	groups := make(map[partition][]Record)
	order := make([]partition, 0, 4)
	for _, e := range entries {
		rec, part := w.toRecord(e, processedAt)
		if _, seen := groups[part]; !seen {
			order = append(order, part)
		}
		groups[part] = append(groups[part], rec)
	}

	var merr *multierror.Error
	for _, part := range order {
		if err := w.appendGroup(part, groups[part]); err != nil {
			w.logger.Error("partition append failed",
				log.Str("file", part.FileName()),
				log.Int("records", len(groups[part])),
				log.Err(err))
			merr = multierror.Append(merr, err)
			continue
		}
	}
	return merr.ErrorOrNil()
}

// toRecord reconstructs the on-disk record for one queue entry.
func (w *Writer) toRecord(e queue.Entry, processedAt string) (Record, partition) {
	d := event.DecodeFields(e.Fields)

	ts := d.Event.Timestamp
	if d.TimestampErr {
		ts = e.EnqueuedAt
	}
	rec := Record{
		EventID:             e.Fields[event.FieldEventID],
		UserID:              e.Fields[event.FieldUserID],
		EventType:           e.Fields[event.FieldEventType],
		Timestamp:           ts.UTC().Format(time.RFC3339),
		Payload:             d.Event.Payload,
		QueueEntryID:        e.ID.String(),
		ProcessedAt:         processedAt,
		TimestampParseError: d.TimestampErr,
	}
	return rec, partitionOf(ts)
}

// appendGroup appends records to one partition file in a single
// open/append/close scope.
func (w *Writer) appendGroup(part partition, records []Record) error {
	dir := filepath.Join(w.root, part.Dir())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("archive: create partition dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, part.FileName())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("archive: append to %s: %w", path, err)
		}
	}
	return f.Sync()
}
