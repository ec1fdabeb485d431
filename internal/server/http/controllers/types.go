package controllers

// Common request/response types for HTTP controllers

// ingestReq is a producer-submitted event. Timestamp stays a raw string here:
// a malformed value must not reject the event, so parsing is deferred to the
// handler which forwards unparseable values for flagging at persistence.
type ingestReq struct {
	UserID    string         `json:"user_id"`
	EventType string         `json:"event_type"`
	Timestamp string         `json:"timestamp"`
	Payload   *ingestPayload `json:"payload"`
}

type ingestPayload struct {
	PageURL string `json:"page_url"`
}

// ingestResp acknowledges an accepted event.
type ingestResp struct {
	Status  string `json:"status"`
	EventID string `json:"event_id"`
	Queued  bool   `json:"queued"`
}
