package texture

import (
	"fmt"
	"strings"
)

// Format is a block compression scheme.
type Format int

const (
	DXT1 Format = iota + 1
	DXT5
)

// BlockSize returns the byte size of one 4×4 block.
func (f Format) BlockSize() int {
	if f == DXT5 {
		return 16
	}
	return 8
}

func (f Format) String() string {
	switch f {
	case DXT1:
		return "DXT1"
	case DXT5:
		return "DXT5"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// fourCC returns the DDS pixel format code.
func (f Format) fourCC() uint32 {
	s := f.String()
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

// ParseFormat accepts "dxt1", "bc1", "dxt5" or "bc3".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "dxt1", "bc1":
		return DXT1, nil
	case "dxt5", "bc3":
		return DXT5, nil
	}
	return 0, fmt.Errorf("texture: unknown format %q", s)
}

// LevelSize returns the compressed byte size of a w×h level.
func LevelSize(w, h int, f Format) int {
	return ((w + 3) / 4) * ((h + 3) / 4) * f.BlockSize()
}

// MipCount returns the number of levels down to 1×1.
func MipCount(w, h int) int {
	n := 1
	for w > 1 || h > 1 {
		w >>= 1
		h >>= 1
		n++
	}
	return n
}

// nextMip halves a dimension, clamped to 1.
func nextMip(v int) int {
	if v >>= 1; v < 1 {
		return 1
	}
	return v
}

// MipChainSize returns the total compressed size of levels mip levels
// starting at w×h.
func MipChainSize(w, h, levels int, f Format) int {
	total := 0
	for i := 0; i < levels; i++ {
		total += LevelSize(w, h, f)
		w, h = nextMip(w), nextMip(h)
	}
	return total
}
