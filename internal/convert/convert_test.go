package convert

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keyhom/io-scene-cgf-extras/internal/texture"
)

func writeInput(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Kind
		ok   bool
	}{
		{"levels/a/terrain/land.h32", KindHeightfield, true},
		{"cover.CTC", KindTexture, true},
		{"a/b/brush.lst", KindBrush, true},
		{"objects.lst", KindVegetation, true},
		{"x.dds", KindImage, true},
		{"readme.txt", "", false},
	}
	for _, tt := range tests {
		got, ok := KindFromPath(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("KindFromPath(%q) = %q, %v", tt.path, got, ok)
		}
	}
	if _, err := ParseKind("Brush"); err != nil {
		t.Error(err)
	}
	if _, err := ParseKind("sound"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestVegetation(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(16))
	buf.Write(make([]byte, 32))
	in := writeInput(t, dir, "objects.lst", buf.Bytes())

	out, err := Run(KindVegetation, in, Options{OutputDir: filepath.Join(dir, "out")})
	if err != nil {
		t.Fatal(err)
	}
	if out.Records != 1 || len(out.Files) != 1 {
		t.Fatalf("records %d files %v", out.Records, out.Files)
	}
	if want := filepath.Join(dir, "out", "objects.csv"); out.Files[0] != want {
		t.Errorf("wrote %s, want %s", out.Files[0], want)
	}
}

func TestHeightfield(t *testing.T) {
	dir := t.TempDir()
	// detail values 0, 5, 31, 40 give layers 0, 1 and 7
	data := []byte{1, 0, 0, 2, 0, 5, 3, 0, 31, 4, 0, 40, 0xAA}
	in := writeInput(t, dir, "land.h32", data)

	out, err := Heightfield(in, Options{Width: 2, Height: 2, Splat: true, Rotate: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Warnings) != 1 {
		t.Errorf("warnings = %v", out.Warnings)
	}
	// raw, height preview, detail, three masks
	if len(out.Files) != 6 {
		t.Fatalf("files = %v", out.Files)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "land.raw"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, []byte{1, 0, 2, 0, 3, 0, 4, 0}) {
		t.Errorf("raw = %v", raw)
	}
	if _, err := os.Stat(filepath.Join(dir, "land_s7.png")); err != nil {
		t.Error(err)
	}

	if _, err := Heightfield(in, Options{}); err == nil {
		t.Error("expected error without resolution")
	}
}

func tileContainer() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(4))
	for i := 0; i < 2; i++ {
		// 4x4, 2x2, 1x1 levels of solid white
		for lv := 0; lv < 3; lv++ {
			buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0})
		}
	}
	return buf.Bytes()
}

func TestTextureAndReencode(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "cover.ctc", tileContainer())

	out, err := Texture(in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Files) != 2 || !strings.HasSuffix(out.Files[1], "cover_1.dds") {
		t.Fatalf("files = %v", out.Files)
	}

	re, err := Reencode(out.Files[0], Options{ImageFormat: "bmp"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(re.Files[0], "cover_0.bmp") {
		t.Errorf("reencoded to %v", re.Files)
	}

	dec, err := Texture(in, Options{Texture: texture.ContainerOptions{Decode: true}})
	if err != nil {
		t.Fatal(err)
	}
	// two tiles plus the 1x1 atlas of the first
	if len(dec.Files) != 3 {
		t.Fatalf("files = %v", dec.Files)
	}
}

func TestErrorsPropagate(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "broken.geo", []byte{1, 2, 3})
	if _, err := Geometry(in, Options{}); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Run("bogus", in, Options{}); err == nil {
		t.Error("expected error for unknown kind")
	}
}
