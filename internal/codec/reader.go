package codec

import (
	"encoding/binary"
	"fmt"
)

// reader walks a decompressed payload buffer, failing closed on any
// under-run (spec §7: "truncated payload").
type reader struct {
	buf []byte
	pos int
	err error

	wildcnt int // wildcards read so far, for re-minting their synthetic names
}

func (r *reader) fail(kind, format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	r.err = &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.buf) {
		r.fail(KindTruncated, "expected %d more bytes, have %d", n, len(r.buf)-r.pos)
		return false
	}
	return true
}

func (r *reader) u8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.buf[r.pos]
	r.pos++
	return v
}

func (r *reader) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) i64() int64 {
	if !r.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return int64(v)
}

func (r *reader) str() string {
	n := int(r.u16())
	if !r.need(n) {
		return ""
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return s
}
