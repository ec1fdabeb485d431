package events

import (
	"time"

	"github.com/Uttam1728/event-analytics/internal/archive"
	"github.com/Uttam1728/event-analytics/internal/processor"
)

// IngestRequest is a validated ingestion payload handed in by the boundary.
type IngestRequest struct {
	UserID    string
	EventType string
	Timestamp time.Time
	// RawTimestamp carries the producer's timestamp string when it failed to
	// parse. The event is still accepted; the persistence path falls back to
	// enqueue time and flags the record.
	RawTimestamp string
	PageURL      string
}

// IngestResult reports what happened to an accepted event.
type IngestResult struct {
	EventID string `json:"event_id"`
	// Queued is false when the durable enqueue failed; the event was still
	// accepted at the boundary.
	Queued bool `json:"queued"`
}

// MinuteCount is one minute bucket's count.
type MinuteCount struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

// BucketDetail is a full read of one minute bucket.
type BucketDetail struct {
	Bucket string   `json:"bucket"`
	Count  int64    `json:"count"`
	Users  []string `json:"users"`
}

// Status aggregates pipeline state for the status boundary.
type Status struct {
	Processor processor.Stats   `json:"processor"`
	Files     archive.FileStats `json:"files"`
	// QueueError carries a queue read failure instead of failing the whole
	// status call.
	QueueError string `json:"queue_error,omitempty"`
}
