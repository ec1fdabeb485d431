package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Uttam1728/event-analytics/internal/archive"
	"github.com/Uttam1728/event-analytics/internal/counter"
	"github.com/Uttam1728/event-analytics/internal/event"
	"github.com/Uttam1728/event-analytics/internal/processor"
	"github.com/Uttam1728/event-analytics/internal/queue"
	"github.com/Uttam1728/event-analytics/pkg/log"
)

// Service is the facade the transport boundary calls into: event ingestion,
// minute-bucket analytics reads, and pipeline status.
type Service struct {
	q       queue.Queue
	counter *counter.Counter
	writer  *archive.Writer
	proc    *processor.Processor
	logger  log.Logger
}

// New wires the service over its collaborators.
func New(q queue.Queue, c *counter.Counter, w *archive.Writer, p *processor.Processor, logger log.Logger) *Service {
	return &Service{q: q, counter: c, writer: w, proc: p, logger: logger.WithComponent("events")}
}

// Ingest validates and accepts one event: durable enqueue plus a best-effort
// minute-bucket increment. Counter trouble never fails ingestion, and an
// enqueue failure is reported in the result rather than as an error so the
// boundary can still acknowledge acceptance.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (IngestResult, error) {
	if req.EventType != "" && req.EventType != string(event.TypePageView) {
		return IngestResult{}, fmt.Errorf("events: unsupported event_type %q", req.EventType)
	}
	e, err := event.New(req.UserID, req.Timestamp, req.PageURL)
	if err != nil {
		return IngestResult{}, err
	}

	fields := e.Fields()
	if req.Timestamp.IsZero() && req.RawTimestamp != "" {
		// Preserve the malformed timestamp so persistence can flag the record
		// instead of silently substituting the accept time.
		fields[event.FieldTimestamp] = req.RawTimestamp
	}

	res := IngestResult{EventID: e.ID.String()}
	if _, err := s.q.Enqueue(ctx, fields); err != nil {
		s.logger.Error("enqueue failed, event not persisted", log.Str("event_id", res.EventID), log.Err(err))
	} else {
		res.Queued = true
	}

	if _, err := s.counter.Increment(e.BucketKey(), e.UserID); err != nil {
		s.logger.Warn("minute bucket increment failed", log.Str("bucket", e.BucketKey()), log.Err(err))
	}
	return res, nil
}

// PageViewsPerMinute returns counts for the trailing window of whole minutes,
// newest last. Buckets older than the counter TTL read as zero.
func (s *Service) PageViewsPerMinute(minutes int) []MinuteCount {
	if minutes <= 0 {
		minutes = 5
	}
	now := time.Now().UTC().Truncate(time.Minute)
	from := now.Add(-time.Duration(minutes-1) * time.Minute)
	keys := event.MinuteKeys(event.TypePageView, from, now)
	out := make([]MinuteCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, MinuteCount{Bucket: k, Count: s.counter.Count(k)})
	}
	return out
}

// Bucket reads one minute bucket by key. Unknown keys are an error so the
// boundary can 400 them; expired buckets read as empty.
func (s *Service) Bucket(key string) (BucketDetail, error) {
	if _, err := event.ParseBucketKey(key, event.TypePageView); err != nil {
		return BucketDetail{}, err
	}
	users := s.counter.Users(key)
	if users == nil {
		users = []string{}
	}
	return BucketDetail{Bucket: key, Count: s.counter.Count(key), Users: users}, nil
}

// Status aggregates queue depth, processor state and archive footprint. A
// queue failure degrades to an error field instead of failing the read.
func (s *Service) Status(ctx context.Context) Status {
	var st Status
	pstats, err := s.proc.Stats(ctx)
	st.Processor = pstats
	if err != nil {
		st.QueueError = err.Error()
	}
	if files, err := s.writer.Stats(); err != nil {
		s.logger.Warn("archive stats failed", log.Err(err))
	} else {
		st.Files = files
	}
	return st
}

// Files lists the archive's partition files.
func (s *Service) Files() ([]archive.FileInfo, error) {
	return s.writer.ListFiles()
}
