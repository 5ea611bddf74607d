package codec

import "fmt"

// Error is a codec (.dlc) error (spec §7: "bad magic; truncated payload;
// decompression failure; out-of-range length fields").
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

const (
	KindBadMagic         = "bad-magic"
	KindTruncated        = "truncated-payload"
	KindDecompressFail   = "decompression-failure"
	KindOutOfRangeLength = "out-of-range-length"
	KindOverLimit        = "over-limit"
)
