package queue

import "testing"

func TestRecordRoundTrip(t *testing.T) {
	in := map[string]string{"event_id": "abc", "user_id": "u1", "timestamp": "2024-01-15T14:05:00Z"}
	b, err := EncodeRecord(1705327500000, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	enqMs, out, ok := DecodeRecord(b)
	if !ok {
		t.Fatalf("decode failed")
	}
	if enqMs != 1705327500000 {
		t.Fatalf("enqueue ms: %d", enqMs)
	}
	if len(out) != len(in) || out["user_id"] != "u1" {
		t.Fatalf("fields mismatch: %v", out)
	}
}

func TestRecordDetectsCorruption(t *testing.T) {
	b, _ := EncodeRecord(1, map[string]string{"k": "v"})
	b[len(b)-6] ^= 0xFF
	if _, _, ok := DecodeRecord(b); ok {
		t.Fatalf("expected CRC failure")
	}
	if _, _, ok := DecodeRecord([]byte{1, 2}); ok {
		t.Fatalf("expected truncation failure")
	}
}
