// Package wire implements the framed agent-record I/O layer: a 4-byte
// big-endian length header followed by that many payload bytes. It never
// interprets the payload; decoding is the agent package's job.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxRecordLength bounds the payload length this package will read for a
// single record. It resolves the "no ceiling enforced" open question in
// favor of the suggested 256 KiB cap: a hostile or confused peer cannot
// make a session allocate an unbounded buffer.
const MaxRecordLength = 256 * 1024

// ErrRecordTooLarge is returned when a record's declared length exceeds
// MaxRecordLength.
var ErrRecordTooLarge = fmt.Errorf("wire: record exceeds %d bytes", MaxRecordLength)

// ReadRecord reads one length-prefixed record from r. It returns the raw
// bytes of the whole record (header + payload, suitable for forwarding
// byte-for-byte) and the payload alone (suitable for decoding) as a slice
// of the same backing array.
func ReadRecord(r io.Reader) (raw []byte, payload []byte, err error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, nil, fmt.Errorf("wire: read length: %w", err)
	}
	length := binary.BigEndian.Uint32(hdr[:])
	if length > MaxRecordLength {
		return nil, nil, ErrRecordTooLarge
	}

	buf := make([]byte, 4+int(length))
	copy(buf, hdr[:])
	if length > 0 {
		if _, err := io.ReadFull(r, buf[4:]); err != nil {
			return nil, nil, fmt.Errorf("wire: read payload: %w", err)
		}
	}
	return buf, buf[4:], nil
}

// WriteRecord writes a 4-byte big-endian length header for payload
// followed by payload itself to w as a single write.
func WriteRecord(w io.Writer, payload []byte) error {
	buf := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[4:], payload)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("wire: write record: %w", err)
	}
	return nil
}

// WriteRaw writes a full raw record (as returned by ReadRecord's first
// return value) to w unmodified.
func WriteRaw(w io.Writer, raw []byte) error {
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("wire: write raw record: %w", err)
	}
	return nil
}
