package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type enumerates supported event types. Only page views today.
type Type string

const TypePageView Type = "page_view"

// Payload carries optional page-view context.
type Payload struct {
	PageURL string `json:"page_url"`
}

// Event is a single page-view event. Immutable once created.
type Event struct {
	ID        uuid.UUID
	UserID    string
	Timestamp time.Time
	Type      Type
	Payload   *Payload
}

// New builds a validated event. A zero timestamp defaults to the current
// time; pageURL may be empty, in which case the payload is absent.
func New(userID string, ts time.Time, pageURL string) (Event, error) {
	if userID == "" {
		return Event{}, fmt.Errorf("event: user_id is required")
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	e := Event{
		ID:        uuid.New(),
		UserID:    userID,
		Timestamp: ts.UTC(),
		Type:      TypePageView,
	}
	if pageURL != "" {
		e.Payload = &Payload{PageURL: pageURL}
	}
	return e, nil
}

// Queue field names. The queue only carries string scalars, so the payload is
// serialized to a single JSON string field.
const (
	FieldEventID   = "event_id"
	FieldUserID    = "user_id"
	FieldTimestamp = "timestamp"
	FieldEventType = "event_type"
	FieldPayload   = "payload"
)

// Fields flattens the event into the scalar map carried by the queue.
func (e Event) Fields() map[string]string {
	m := map[string]string{
		FieldEventID:   e.ID.String(),
		FieldUserID:    e.UserID,
		FieldTimestamp: e.Timestamp.UTC().Format(time.RFC3339),
		FieldEventType: string(e.Type),
	}
	if e.Payload != nil {
		if b, err := json.Marshal(e.Payload); err == nil {
			m[FieldPayload] = string(b)
		}
	}
	return m
}

// Decoded is the tolerant result of reading queue fields back. The writer
// must never drop an entry, so malformed parts are flagged instead of failing.
type Decoded struct {
	Event Event
	// TimestampErr is set when the timestamp field was absent or unparseable;
	// Event.Timestamp is zero in that case and callers fall back to the
	// entry's enqueue time.
	TimestampErr bool
	// PayloadErr is set when the payload field was present but not valid
	// JSON; Event.Payload is nil in that case.
	PayloadErr bool
}

// DecodeFields reconstructs an event from queue fields. It never fails:
// malformed timestamp or payload are reported through the Decoded flags.
func DecodeFields(m map[string]string) Decoded {
	var d Decoded
	d.Event.UserID = m[FieldUserID]
	d.Event.Type = Type(m[FieldEventType])
	if raw := m[FieldEventID]; raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			d.Event.ID = parsed
		}
	}
	if raw := m[FieldTimestamp]; raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			d.Event.Timestamp = ts.UTC()
		} else {
			d.TimestampErr = true
		}
	} else {
		d.TimestampErr = true
	}
	if raw, ok := m[FieldPayload]; ok && raw != "" {
		var p Payload
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			d.Event.Payload = &p
		} else {
			d.PayloadErr = true
		}
	}
	return d
}
