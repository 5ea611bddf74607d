package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// writer accumulates the uncompressed payload (spec §4.4: "all little-endian
// multi-byte integers, unless noted").
type writer struct {
	buf bytes.Buffer
	err error
}

func (w *writer) fail(kind, format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	w.err = &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (w *writer) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *writer) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

// str writes a u16 length-prefixed string, silently truncating to 65535
// bytes per spec §4.4 ("u16 length + bytes, truncated at 65535").
func (w *writer) str(s string) {
	if len(s) > 65535 {
		s = s[:65535]
	}
	w.u16(uint16(len(s)))
	w.buf.WriteString(s)
}

// count16 writes a u16 count, recording a codec error instead of silently
// truncating when it overflows (spec §9's integer-width open question:
// "clamp behavior should produce a diagnostic rather than silent
// truncation").
func (w *writer) count16(n int, what string) {
	if n > 65535 {
		w.fail(KindOverLimit, "%s: %d exceeds the 65535 wire limit", what, n)
		return
	}
	w.u16(uint16(n))
}

// arity writes a u8 arity, failing rather than truncating on overflow.
func (w *writer) arity(n int, what string) {
	if n > 255 {
		w.fail(KindOverLimit, "%s: arity %d exceeds the 255 wire limit", what, n)
		return
	}
	w.u8(uint8(n))
}
