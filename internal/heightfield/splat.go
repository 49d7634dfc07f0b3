package heightfield

import (
	"errors"
	"image"
	"image/color"
	"sort"
)

// MaxDetailIndex is the exclusive upper bound of detail values that
// belong to a splat layer.
const MaxDetailIndex = 32

var sublayerColors = [4]color.NRGBA{
	{R: 255},
	{G: 255},
	{B: 255},
	{A: 255},
}

// SplatMask is one detail layer. Each covered pixel is one-hot in the
// channel matching its sublayer.
type SplatMask struct {
	Layer int
	Image *image.NRGBA
}

var errNoDetail = errors.New("heightfield: field was decoded without detail")

// maskBounds returns the raster size: x runs along the field's y axis.
// Padded fields drop the last row and column.
func (f *Field) maskBounds() image.Rectangle {
	w, h := f.Height, f.Width
	if f.Padded() {
		w, h = w-1, h-1
	}
	return image.Rect(0, 0, w, h)
}

// DetailImage renders the detail index into the red channel.
func DetailImage(f *Field) (*image.NRGBA, error) {
	if f.Detail == nil {
		return nil, errNoDetail
	}
	b := f.maskBounds()
	img := image.NewNRGBA(b)
	for py := 0; py < b.Dy(); py++ {
		for px := 0; px < b.Dx(); px++ {
			img.SetNRGBA(px, py, color.NRGBA{R: f.Detail[f.Index(py, px)], A: 255})
		}
	}
	return img, nil
}

// SplatMasks derives one mask per detail layer, sorted by layer.
// Samples whose detail value is MaxDetailIndex or more stay transparent
// in every mask.
func SplatMasks(f *Field) ([]SplatMask, error) {
	if f.Detail == nil {
		return nil, errNoDetail
	}
	b := f.maskBounds()
	layers := make(map[int]*image.NRGBA)
	for py := 0; py < b.Dy(); py++ {
		for px := 0; px < b.Dx(); px++ {
			d := int(f.Detail[f.Index(py, px)])
			if d >= MaxDetailIndex {
				continue
			}
			img, ok := layers[d/4]
			if !ok {
				img = image.NewNRGBA(b)
				layers[d/4] = img
			}
			img.SetNRGBA(px, py, sublayerColors[d%4])
		}
	}
	out := make([]SplatMask, 0, len(layers))
	for l, img := range layers {
		out = append(out, SplatMask{Layer: l, Image: img})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Layer < out[j].Layer })
	return out, nil
}

// HeightImage renders all samples as 16-bit gray with x along the
// field's y axis.
func HeightImage(f *Field) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.Height, f.Width))
	for x := 0; x < f.Width; x++ {
		for y := 0; y < f.Height; y++ {
			img.SetGray16(y, x, color.Gray16{Y: f.Heights[f.Index(x, y)]})
		}
	}
	return img
}
