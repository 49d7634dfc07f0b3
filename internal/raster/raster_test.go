package raster

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"a/b.PNG", "png", true},
		{"x.tif", "tiff", true},
		{".webp", "webp", true},
		{"tga", "tga", true},
		{"x.jpg", "", false},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := solid(8, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	for _, f := range Formats {
		p := filepath.Join(dir, "sub", "img."+f)
		if err := Save(p, src); err != nil {
			t.Fatalf("%s: save: %v", f, err)
		}
		got, err := Load(p)
		if err != nil {
			t.Fatalf("%s: load: %v", f, err)
		}
		if got.Bounds() != src.Bounds() {
			t.Fatalf("%s: bounds %v", f, got.Bounds())
		}
		if c := got.NRGBAAt(3, 2); c != src.NRGBAAt(3, 2) {
			t.Errorf("%s: pixel = %v, want %v", f, c, src.NRGBAAt(3, 2))
		}
	}
}

func TestEncodeUnknown(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, solid(1, 1, color.NRGBA{}), "gif"); err == nil {
		t.Error("expected error")
	}
	if _, err := Decode(&buf, "gif"); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadUsesExtension(t *testing.T) {
	dir := t.TempDir()
	src := solid(2, 2, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := Encode(&buf, src, "png"); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "a.PNG")
	os.WriteFile(good, buf.Bytes(), 0o644)
	img, err := Load(good)
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if img.NRGBAAt(1, 1) != src.NRGBAAt(1, 1) {
		t.Errorf("pixel = %v", img.NRGBAAt(1, 1))
	}

	wrong := filepath.Join(dir, "a.bmp")
	os.WriteFile(wrong, buf.Bytes(), 0o644)
	if _, err := Load(wrong); err == nil {
		t.Error("png bytes behind a .bmp name should not decode")
	}
}

func TestCombineColumnMajor(t *testing.T) {
	colors := []color.NRGBA{{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255}, {A: 255}}
	tiles := make([]image.Image, len(colors))
	for i, c := range colors {
		tiles[i] = solid(2, 2, c)
	}
	out := Combine(tiles, 2)
	if b := out.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("bounds %v", b)
	}
	// tile 1 is below tile 0, tile 2 starts the second column
	if out.NRGBAAt(0, 2) != colors[1] || out.NRGBAAt(2, 0) != colors[2] || out.NRGBAAt(3, 3) != colors[3] {
		t.Error("tiles not laid out column-major")
	}
}

func TestGridRows(t *testing.T) {
	for n, want := range map[int]int{1: 1, 4: 2, 8: 2, 256: 16, 257: 16} {
		if got := GridRows(n); got != want {
			t.Errorf("GridRows(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestRotate90(t *testing.T) {
	src := solid(4, 2, color.NRGBA{A: 255})
	src.SetNRGBA(3, 0, color.NRGBA{R: 255, A: 255})
	out := Rotate90(src)
	if b := out.Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("bounds %v", b)
	}
	// counter-clockwise: top-right corner moves to top-left
	if got := out.NRGBAAt(0, 0); got.R != 255 {
		t.Errorf("corner = %v", got)
	}
}
