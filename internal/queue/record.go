package queue

import (
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
)

// Record framing: headerLen(4B BE) | header | payload | crc32c(header|payload).
// The header carries the enqueue time in ms; the payload is the JSON-encoded
// scalar field map. The CRC detects torn or corrupted records, which are
// dropped from availability rather than delivered.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// EncodeRecord frames an entry's fields and enqueue time for storage.
func EncodeRecord(enqueuedAtMs int64, fields map[string]string) ([]byte, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var header [8]byte
	binary.BigEndian.PutUint64(header[:], uint64(enqueuedAtMs))

	out := make([]byte, 0, 4+len(header)+len(payload)+4)
	var hb [4]byte
	binary.BigEndian.PutUint32(hb[:], uint32(len(header)))
	out = append(out, hb[:]...)
	out = append(out, header[:]...)
	out = append(out, payload...)
	crc := crc32.Update(0, castagnoli, header[:])
	crc = crc32.Update(crc, castagnoli, payload)
	var cb [4]byte
	binary.BigEndian.PutUint32(cb[:], crc)
	out = append(out, cb[:]...)
	return out, nil
}

// DecodeRecord reverses EncodeRecord. ok is false for truncated or
// CRC-mismatched input.
func DecodeRecord(b []byte) (enqueuedAtMs int64, fields map[string]string, ok bool) {
	if len(b) < 8 {
		return 0, nil, false
	}
	hlen := binary.BigEndian.Uint32(b[:4])
	if int(4+hlen+4) > len(b) {
		return 0, nil, false
	}
	headerEnd := 4 + int(hlen)
	header := b[4:headerEnd]
	payload := b[headerEnd : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != expect {
		return 0, nil, false
	}
	if len(header) >= 8 {
		enqueuedAtMs = int64(binary.BigEndian.Uint64(header[:8]))
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return 0, nil, false
	}
	return enqueuedAtMs, fields, true
}
