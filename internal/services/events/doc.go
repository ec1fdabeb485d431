// Package events provides the service facade between the transport boundary
// and the ingestion pipeline: accept events, read minute-bucket analytics,
// and report pipeline status.
//
// Error posture follows the pipeline contract: a structurally valid event is
// always accepted; queue and counter failures are logged and degrade the
// result, they do not propagate to the producer.
package events
