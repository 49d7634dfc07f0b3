package texture

import (
	"fmt"

	"github.com/mauserzjeh/dxt"
)

// DecodeLevel decompresses one mip level of format f into RGBA8888.
// DXT5 levels go through the dxt package; dimensions that are not a
// multiple of 4 are decoded padded and cropped.
func DecodeLevel(blocks []byte, width, height int, f Format, mode Mode) ([]byte, error) {
	switch f {
	case DXT1:
		return DecodeDXT1(blocks, width, height, mode)
	case DXT5:
		pw, ph := (width+3)&^3, (height+3)&^3
		if need := LevelSize(width, height, f); len(blocks) < need {
			return nil, fmt.Errorf("texture: dxt5 %dx%d needs %d bytes, have %d", width, height, need, len(blocks))
		}
		pix, err := dxt.DecodeDXT5(blocks, uint(pw), uint(ph))
		if err != nil {
			return nil, fmt.Errorf("texture: dxt5: %w", err)
		}
		if pw == width && ph == height {
			return pix, nil
		}
		out := make([]byte, width*height*4)
		for y := 0; y < height; y++ {
			copy(out[y*width*4:(y+1)*width*4], pix[y*pw*4:])
		}
		return out, nil
	}
	return nil, fmt.Errorf("texture: unsupported format %v", f)
}
