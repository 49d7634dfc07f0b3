package brush

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"golang.org/x/text/encoding"

	"github.com/keyhom/io-scene-cgf-extras/internal/chunk"
)

const (
	signatureSize = 3
	filenameSize  = 128
	metaTailSize  = 4 + 6*4
	instanceSize  = 88
)

// Options controls Decode.
type Options struct {
	Encoding encoding.Encoding // charset of stored names, nil = raw bytes
}

// ReadFile reads and decodes a brush table from disk.
func ReadFile(path string, opts Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("brush: read %s: %w", path, err)
	}
	t, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("brush: %s: %w", path, err)
	}
	return t, nil
}

// Decode parses a brush table: a 3-byte signature, two header words, then the
// name, metadata and instance segments, each prefixed with its count.
// Unconsumed trailing bytes are reported in Table.Warnings.
func Decode(data []byte, opts Options) (*Table, error) {
	r := chunk.NewReader(data)

	sig, err := r.View(signatureSize)
	if err != nil {
		return nil, err
	}
	t := &Table{Signature: string(sig)}
	for i := range t.Header {
		if t.Header[i], err = r.I32(); err != nil {
			return nil, err
		}
	}

	if t.Names, err = decodeNames(r, opts.Encoding); err != nil {
		return nil, err
	}
	if t.Brushes, err = decodeBrushes(r, opts.Encoding); err != nil {
		return nil, err
	}
	if t.Instances, err = decodeInstances(r, len(t.Brushes)); err != nil {
		return nil, err
	}

	if w, ok := chunk.TrailingWarning(r); ok {
		t.Warnings = append(t.Warnings, w)
	}
	return t, nil
}

func readCount(r *chunk.Reader, minSize int, what string) (int, error) {
	off := r.Pos()
	n, err := r.I32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, chunk.Formatf(off, "negative %s count %d", what, n)
	}
	if int64(n)*int64(minSize) > int64(r.Remaining()) {
		return 0, &chunk.TruncatedError{Offset: r.Pos(), Need: int(n) * minSize, Have: r.Remaining()}
	}
	return int(n), nil
}

// decodeNames reads record_len:i32 followed by record_len-4 bytes of string.
func decodeNames(r *chunk.Reader, enc encoding.Encoding) ([]string, error) {
	n, err := readCount(r, 4, "name")
	if err != nil {
		return nil, err
	}
	names := make([]string, n)
	for i := range names {
		off := r.Pos()
		size, err := r.I32()
		if err != nil {
			return nil, err
		}
		if size < 4 {
			return nil, chunk.Formatf(off, "name %d: record length %d", i, size)
		}
		raw, err := r.View(int(size) - 4)
		if err != nil {
			return nil, err
		}
		names[i] = chunk.DecodeName(raw, enc)
	}
	return names, nil
}

// decodeBrushes reads record_len:i32, a 128-byte filename and record_len-132
// trailing bytes holding type:i32 and the bounding box.
func decodeBrushes(r *chunk.Reader, enc encoding.Encoding) ([]Brush, error) {
	n, err := readCount(r, 4+filenameSize+metaTailSize, "brush")
	if err != nil {
		return nil, err
	}
	brushes := make([]Brush, n)
	for i := range brushes {
		off := r.Pos()
		size, err := r.I32()
		if err != nil {
			return nil, err
		}
		tail := int(size) - filenameSize - 4
		if tail < metaTailSize {
			return nil, chunk.Formatf(off, "brush %d: record length %d too short", i, size)
		}
		raw, err := r.View(filenameSize)
		if err != nil {
			return nil, err
		}
		rest, err := r.View(tail)
		if err != nil {
			return nil, err
		}

		b := Brush{
			Name:    chunk.DecodeName(raw, enc),
			TypeTag: int32(binary.LittleEndian.Uint32(rest[0:])),
		}
		for k := range b.BBox {
			b.BBox[k] = math.Float32frombits(binary.LittleEndian.Uint32(rest[4+k*4:]))
		}
		brushes[i] = b
	}
	return brushes, nil
}

// decodeInstances reads fixed 88-byte records:
// i32,i32,i32, 4×u8, 4×u8, i32, 12×f32, 4×i32.
func decodeInstances(r *chunk.Reader, brushCount int) ([]Instance, error) {
	n, err := readCount(r, instanceSize, "instance")
	if err != nil {
		return nil, err
	}
	instances := make([]Instance, n)
	for i := range instances {
		off := r.Pos()
		rec, err := r.View(instanceSize)
		if err != nil {
			return nil, err
		}
		// rec holds exactly instanceSize bytes, so the reads below cannot fail.
		rr := chunk.NewReader(rec)
		var in Instance
		in.Header[0], _ = rr.I32()
		in.Header[1], _ = rr.I32()
		in.BrushIndex, _ = rr.I32()
		for g := range in.Flags {
			b, _ := rr.View(4)
			copy(in.Flags[g][:], b)
		}
		in.Reserved, _ = rr.I32()
		rr.F32s(in.Transform[:])
		for k := range in.IDs {
			in.IDs[k], _ = rr.I32()
		}

		if in.BrushIndex < 0 || int(in.BrushIndex) >= brushCount {
			return nil, chunk.Formatf(off, "instance %d: brush index %d out of range (%d brushes)", i, in.BrushIndex, brushCount)
		}
		instances[i] = in
	}
	return instances, nil
}
