// Package processor runs the batch drain loop: the single logical consumer
// that claims entries from the durable queue in bounded batches, hands them
// to the archive writer, and acknowledges only after the write is durable.
//
// The loop never exits on recoverable errors; it logs, backs off, and
// retries. Stop is cooperative and joins the in-flight cycle, which is
// bounded by the claim wait plus write time.
package processor
