// Package counter implements the rolling minute-bucket counter: per-minute
// page-view counts plus the distinct users seen in that minute, expiring as a
// unit a fixed interval after first write.
//
// The counter is best-effort by contract: callers on the ingestion path log
// and continue when it misbehaves, they never fail the event accept.
package counter
