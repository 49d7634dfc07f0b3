package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Decode reads img in format. Besides the formats Encode writes it
// accepts "jpg"/"jpeg".
func Decode(r io.Reader, format string) (image.Image, error) {
	switch format {
	case "png":
		return png.Decode(r)
	case "webp":
		return webp.Decode(r)
	case "tga":
		return tga.Decode(r)
	case "bmp":
		return bmp.Decode(r)
	case "tiff", "tif":
		return tiff.Decode(r)
	case "jpg", "jpeg":
		return jpeg.Decode(r)
	}
	return nil, fmt.Errorf("raster: unsupported image format %q", format)
}

// Load reads an image, choosing the decoder from the extension, and
// returns it as NRGBA.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("raster: read %s: %w", path, err)
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	img, err := Decode(bytes.NewReader(raw), format)
	if err != nil {
		return nil, fmt.Errorf("raster: decode %s: %w", path, err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to NRGBA with its origin at (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray, *image.RGBA:
		// opaque or premultiplied sources draw directly
		draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.SetNRGBA(x, y, c)
			}
		}
	}
	return dst
}
