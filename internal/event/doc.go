// Package event defines the page-view event model, its flattened queue-field
// representation, and minute-bucket key derivation.
//
// Events cross the queue as string-keyed scalar maps (the queue carries no
// structure), so the optional payload rides as a single JSON string field.
// DecodeFields is deliberately tolerant: persistence must never drop an
// entry, so malformed timestamps and payloads surface as flags, not errors.
package event
