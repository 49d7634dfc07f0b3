package texture

import (
	"encoding/binary"
	"fmt"
	"image/color"
)

// Mode selects how a DXT1 block with color0 <= color1 is interpreted.
type Mode int

const (
	// ModeAuto uses the 3-color + transparent palette when color0 <= color1.
	ModeAuto Mode = iota
	// ModeExplicitAlpha always uses the 4-color palette.
	ModeExplicitAlpha
)

func expand565(c uint16) color.NRGBA {
	r := uint8(c >> 11 & 0x1f)
	g := uint8(c >> 5 & 0x3f)
	b := uint8(c & 0x1f)
	return color.NRGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 0xff}
}

func mix(a, b color.NRGBA, wa, wb, div int) color.NRGBA {
	return color.NRGBA{
		R: uint8((int(a.R)*wa + int(b.R)*wb) / div),
		G: uint8((int(a.G)*wa + int(b.G)*wb) / div),
		B: uint8((int(a.B)*wa + int(b.B)*wb) / div),
		A: 0xff,
	}
}

func palette(c0, c1 uint16, mode Mode) [4]color.NRGBA {
	var p [4]color.NRGBA
	p[0], p[1] = expand565(c0), expand565(c1)
	if c0 > c1 || mode == ModeExplicitAlpha {
		p[2] = mix(p[0], p[1], 2, 1, 3)
		p[3] = mix(p[0], p[1], 1, 2, 3)
	} else {
		p[2] = mix(p[0], p[1], 1, 1, 2)
		p[3] = color.NRGBA{}
	}
	return p
}

// DecodeBlock expands one 8-byte DXT1 block into 16 pixels, row-major.
func DecodeBlock(block []byte, mode Mode) [16]color.NRGBA {
	p := palette(binary.LittleEndian.Uint16(block[0:]), binary.LittleEndian.Uint16(block[2:]), mode)
	idx := binary.LittleEndian.Uint32(block[4:])
	var out [16]color.NRGBA
	for i := range out {
		out[i] = p[idx&3]
		idx >>= 2
	}
	return out
}

// DecodeBlockInto writes block (bx, by) into an RGBA buffer of width×height
// pixels with a stride of width*4. Pixels past the image edge are dropped.
func DecodeBlockInto(dst []byte, width, height, bx, by int, block []byte, mode Mode) {
	px := DecodeBlock(block, mode)
	for y := 0; y < 4; y++ {
		py := by*4 + y
		if py >= height {
			break
		}
		for x := 0; x < 4; x++ {
			pxX := bx*4 + x
			if pxX >= width {
				break
			}
			c := px[y*4+x]
			o := py*width*4 + pxX*4
			dst[o], dst[o+1], dst[o+2], dst[o+3] = c.R, c.G, c.B, c.A
		}
	}
}

// DecodeDXT1 decompresses a whole w×h level into RGBA8888.
func DecodeDXT1(data []byte, width, height int, mode Mode) ([]byte, error) {
	if need := LevelSize(width, height, DXT1); len(data) < need {
		return nil, fmt.Errorf("texture: dxt1 %dx%d needs %d bytes, have %d", width, height, need, len(data))
	}
	out := make([]byte, width*height*4)
	bw, bh := (width+3)/4, (height+3)/4
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			off := (by*bw + bx) * 8
			DecodeBlockInto(out, width, height, bx, by, data[off:off+8], mode)
		}
	}
	return out, nil
}
