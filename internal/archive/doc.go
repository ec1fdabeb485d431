// Package archive persists drained event batches into hour-partitioned,
// append-only JSONL files laid out as
//
//	{root}/{YYYY}/{MM}/{DD}/events_{YYYY}-{MM}-{DD}-{HH}.jsonl
//
// The hour comes from each event's own timestamp, not the write time, so an
// event always lands in the same file no matter which batch carried it.
// Files are only ever appended; deduplication is the reader's concern.
package archive
