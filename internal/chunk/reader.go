package chunk

import (
	"encoding/binary"
	"math"
)

// Reader is a little-endian cursor over an immutable byte buffer.
// Every read advances by the exact field width or fails without moving.
type Reader struct {
	data []byte
	off  int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// At returns an independent reader over the same buffer positioned at off.
// It is the only way to revisit an offset captured earlier.
func (r *Reader) At(off int) (*Reader, error) {
	if off < 0 || off > len(r.data) {
		return nil, &TruncatedError{Offset: off, Need: 0, Have: len(r.data) - off}
	}
	return &Reader{data: r.data, off: off}, nil
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int { return r.off }

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, &TruncatedError{Offset: r.off, Need: n, Have: len(r.data) - r.off}
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// F32s fills dst with consecutive float32 values.
func (r *Reader) F32s(dst []float32) error {
	b, err := r.take(4 * len(dst))
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return nil
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// View returns the next n bytes without copying. The slice aliases the
// buffer and must not outlive the decode call.
func (r *Reader) View(n int) ([]byte, error) {
	return r.take(n)
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// FixedString reads an n-byte field and returns it trimmed at the first NUL.
func (r *Reader) FixedString(n int) (string, error) {
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	return string(TrimNUL(b)), nil
}

// TrimNUL returns b up to (not including) its first zero byte.
func TrimNUL(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}
