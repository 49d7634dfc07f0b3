package raster

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Combine lays equally sized tiles out on a grid with rows tiles per
// column, filling each column top to bottom before moving right.
// Tiles smaller than the first one are placed at their cell's origin.
func Combine(tiles []image.Image, rows int) *image.NRGBA {
	if len(tiles) == 0 || rows <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	tw, th := tiles[0].Bounds().Dx(), tiles[0].Bounds().Dy()
	cols := (len(tiles) + rows - 1) / rows
	if len(tiles) < rows {
		rows = len(tiles)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, cols*tw, rows*th))
	for i, t := range tiles {
		at := image.Pt((i/rows)*tw, (i%rows)*th)
		draw.Copy(dst, at, t, t.Bounds(), draw.Src, nil)
	}
	return dst
}

// GridRows returns the edge of the largest square grid that n tiles fill.
func GridRows(n int) int {
	r := 1
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// Rotate90 turns img a quarter counter-clockwise.
func Rotate90(img image.Image) *image.NRGBA {
	return imaging.Rotate90(img)
}
