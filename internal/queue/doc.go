// Package queue implements the durable ordered queue the ingestion pipeline
// runs on: multi-producer append, consumer-group claim with leases, explicit
// acknowledgment, and redelivery of expired leases.
//
// # Model
//
// Entries are assigned monotonic-ish 128-bit IDs (pkg/id) on enqueue and
// stored in Pebble under an availability index ordered by ID, which preserves
// enqueue order. A claim moves entries from the availability index into a
// per-group lease; acknowledged entries are deleted outright. Entries whose
// lease expires before acknowledgment are swept back into availability, so a
// consumer crash between write and ack results in redelivery, never loss
// (at-least-once).
//
// # Key layout
//
//	pq/{queue}/msg/{id}                      record (fields + enqueue time, crc framed)
//	pq/{queue}/avail/{id}                    availability index
//	pq/{queue}/lease/{group}/{id}            lease: expiry ms + attempts
//	pq/{queue}/lease_idx/{group}/{exp}{id}   lease expiry index for the sweeper
//	pq/{queue}/meta                          available/pending counters
//
// All state transitions commit as single Pebble batches, so counters and
// indexes never diverge from the records they describe.
package queue
