package chunk

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedInput reports a field that extends past the end of the buffer.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrFormat reports a structural violation: bad index, count, or length.
	ErrFormat = errors.New("format error")
)

// TruncatedError carries the offset of a short read.
type TruncatedError struct {
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated input at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncatedInput }

// FormatError describes a structural violation found while decoding.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error at offset %d: %s", e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// Formatf builds a FormatError at off.
func Formatf(off int, format string, args ...any) error {
	return &FormatError{Offset: off, Reason: fmt.Sprintf(format, args...)}
}

// PartialDataWarning reports bytes left unconsumed by a format that is known
// to carry trailing data. The decode result is still valid.
type PartialDataWarning struct {
	Offset    int
	Remaining int
}

func (w PartialDataWarning) String() string {
	return fmt.Sprintf("%d unparsed trailing bytes at offset %d", w.Remaining, w.Offset)
}

// TrailingWarning returns a warning for r's unread bytes, or false when the
// buffer was fully consumed.
func TrailingWarning(r *Reader) (PartialDataWarning, bool) {
	if r.Remaining() == 0 {
		return PartialDataWarning{}, false
	}
	return PartialDataWarning{Offset: r.Pos(), Remaining: r.Remaining()}, true
}
