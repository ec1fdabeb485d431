package queue

import (
	"bytes"
	"testing"

	"github.com/Uttam1728/event-analytics/pkg/id"
)

func TestKeyPrefixes(t *testing.T) {
	g := id.NewGenerator()
	eid := g.Next()

	if !bytes.HasPrefix(MsgKey("q", eid), []byte("pq/q/msg/")) {
		t.Fatalf("msg key prefix")
	}
	if !bytes.HasPrefix(AvailKey("q", eid), AvailPrefix("q")) {
		t.Fatalf("avail key prefix")
	}
	if !bytes.HasPrefix(LeaseIdxKey("q", "g", 1000, eid), LeaseIdxGroupPrefix("q", "g")) {
		t.Fatalf("lease idx key prefix")
	}
}

func TestParseLeaseIdxKey(t *testing.T) {
	g := id.NewGenerator()
	eid := g.Next()
	key := LeaseIdxKey("q", "workers", 123456, eid)

	group, exp, parsed, ok := parseLeaseIdxKey(key, LeaseIdxPrefix("q"))
	if !ok {
		t.Fatalf("parse failed")
	}
	if group != "workers" || exp != 123456 || parsed != eid {
		t.Fatalf("got group=%q exp=%d id=%s", group, exp, parsed)
	}

	if _, _, _, ok := parseLeaseIdxKey([]byte("pq/q/lease_idx/short"), LeaseIdxPrefix("q")); ok {
		t.Fatalf("expected parse failure for short key")
	}
}
