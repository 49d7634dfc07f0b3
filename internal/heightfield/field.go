// Package heightfield converts between the engine's packed height samples
// and raw 16-bit height maps, and derives detail-layer splat masks.
package heightfield

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/keyhom/io-scene-cgf-extras/internal/chunk"
)

// Field is a grid of height samples stored column by column:
// the sample at (x, y) lives at index x*Height + y.
type Field struct {
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
	Heights      []uint16
	Detail       []uint8 // nil unless requested
	Warnings     []chunk.PartialDataWarning
}

// Options controls Decode.
type Options struct {
	// Detail keeps the third byte of each sample as the detail-layer index.
	Detail bool
	// Unity pads both dimensions to the next power of two plus one.
	Unity bool
}

// Index returns the slice index of sample (x, y).
func (f *Field) Index(x, y int) int { return x*f.Height + y }

// Padded reports whether the field was grown by Unity padding.
func (f *Field) Padded() bool {
	return f.Width != f.SourceWidth || f.Height != f.SourceHeight
}

// UnitySize returns 2^ceil(log2(n)) + 1.
func UnitySize(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p + 1
}

func checkDims(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("heightfield: bad resolution %dx%d", w, h)
	}
	return nil
}

// Decode reads w×h packed (b, g, r) samples.
func Decode(data []byte, w, h int, opts Options) (*Field, error) {
	if err := checkDims(w, h); err != nil {
		return nil, err
	}
	if need := w * h * 3; len(data) < need {
		return nil, &chunk.TruncatedError{Offset: 0, Need: need, Have: len(data)}
	}
	f := &Field{Width: w, Height: h, SourceWidth: w, SourceHeight: h}
	if opts.Unity {
		f.Width, f.Height = UnitySize(w), UnitySize(h)
	}
	f.Heights = make([]uint16, f.Width*f.Height)
	if opts.Detail {
		f.Detail = make([]uint8, f.Width*f.Height)
	}

	r := chunk.NewReader(data)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			px, _ := r.View(3)
			i := f.Index(x, y)
			f.Heights[i] = uint16(px[0]) | uint16(px[1])<<8
			if f.Detail != nil {
				f.Detail[i] = px[2]
			}
		}
	}
	if warn, ok := chunk.TrailingWarning(r); ok {
		f.Warnings = append(f.Warnings, warn)
	}
	return f, nil
}

// ReadFile decodes a packed height file from disk.
func ReadFile(path string, w, h int, opts Options) (*Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("heightfield: read %s: %w", path, err)
	}
	f, err := Decode(data, w, h, opts)
	if err != nil {
		return nil, fmt.Errorf("heightfield: %s: %w", path, err)
	}
	return f, nil
}

// Encode writes every sample, padding included, as a little-endian uint16
// in the same order Decode reads them.
func Encode(f *Field) []byte {
	out := make([]byte, len(f.Heights)*2)
	for i, v := range f.Heights {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}

// DecodeRaw16 is the inverse of Encode.
func DecodeRaw16(data []byte, w, h int) (*Field, error) {
	if err := checkDims(w, h); err != nil {
		return nil, err
	}
	r := chunk.NewReader(data)
	f := &Field{Width: w, Height: h, SourceWidth: w, SourceHeight: h, Heights: make([]uint16, w*h)}
	for i := range f.Heights {
		v, err := r.U16()
		if err != nil {
			return nil, err
		}
		f.Heights[i] = v
	}
	if warn, ok := chunk.TrailingWarning(r); ok {
		f.Warnings = append(f.Warnings, warn)
	}
	return f, nil
}

// EncodePacked writes the source region back as (b, g, r) triples.
// A field without detail writes zero in the third byte.
func EncodePacked(f *Field) []byte {
	out := make([]byte, 0, f.SourceWidth*f.SourceHeight*3)
	for x := 0; x < f.SourceWidth; x++ {
		for y := 0; y < f.SourceHeight; y++ {
			i := f.Index(x, y)
			var d uint8
			if f.Detail != nil {
				d = f.Detail[i]
			}
			out = append(out, byte(f.Heights[i]), byte(f.Heights[i]>>8), d)
		}
	}
	return out
}
