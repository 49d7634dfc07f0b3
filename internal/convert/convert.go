// Package convert ties each decoder to its on-disk outputs. Every function
// reads one input file, decodes it, and writes its exports next to the
// input or under Options.OutputDir.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"

	"github.com/keyhom/io-scene-cgf-extras/internal/chunk"
	"github.com/keyhom/io-scene-cgf-extras/internal/geomap"
	"github.com/keyhom/io-scene-cgf-extras/internal/texture"
)

// Kind names an input format.
type Kind string

const (
	KindMap         Kind = "map"
	KindGeometry    Kind = "geometry"
	KindBrush       Kind = "brush"
	KindVegetation  Kind = "vegetation"
	KindTexture     Kind = "texture"
	KindHeightfield Kind = "heightfield"
	KindImage       Kind = "image"
)

// Kinds lists every kind Run accepts.
var Kinds = []Kind{KindMap, KindGeometry, KindBrush, KindVegetation, KindTexture, KindHeightfield, KindImage}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == strings.ToLower(s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("convert: unknown kind %q", s)
}

// KindFromPath guesses the kind from a file name.
func KindFromPath(p string) (Kind, bool) {
	base := strings.ToLower(filepath.Base(p))
	switch filepath.Ext(base) {
	case ".h32":
		return KindHeightfield, true
	case ".ctc":
		return KindTexture, true
	case ".dds", ".tga", ".bmp", ".tif", ".tiff", ".webp":
		return KindImage, true
	case ".geo", ".msh":
		return KindGeometry, true
	}
	switch {
	case strings.Contains(base, "brush"):
		return KindBrush, true
	case strings.Contains(base, "vegetation"), strings.Contains(base, "objects"):
		return KindVegetation, true
	case strings.Contains(base, "geomap"), strings.Contains(base, "geodata"):
		return KindMap, true
	}
	return "", false
}

// Options carries every setting a converter may need. Converters ignore
// fields that do not apply to them.
type Options struct {
	OutputDir   string
	ImageFormat string            // png, webp, tga, bmp or tiff
	Encoding    encoding.Encoding // charset of stored names

	// map
	Resolver    geomap.Resolver
	TerrainOnly bool

	// vegetation
	Categories []string

	// texture
	Texture texture.ContainerOptions

	// heightfield
	Width, Height int
	Unity         bool
	Splat         bool
	Rotate        bool
}

// Output reports what a converter produced.
type Output struct {
	Kind     Kind
	Input    string
	Records  int
	Files    []string
	Warnings []chunk.PartialDataWarning
}

// Run dispatches to the converter for kind.
func Run(kind Kind, path string, opts Options) (*Output, error) {
	switch kind {
	case KindMap:
		return Map(path, opts)
	case KindGeometry:
		return Geometry(path, opts)
	case KindBrush:
		return Brush(path, opts)
	case KindVegetation:
		return Vegetation(path, opts)
	case KindTexture:
		return Texture(path, opts)
	case KindHeightfield:
		return Heightfield(path, opts)
	case KindImage:
		return Reencode(path, opts)
	}
	return nil, fmt.Errorf("convert: unknown kind %q", kind)
}

func (o Options) imageFormat() string {
	if o.ImageFormat == "" {
		return "png"
	}
	return o.ImageFormat
}

// outPath returns the output path for input with its extension replaced
// by suffix.
func (o Options) outPath(input, suffix string) string {
	dir := o.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+suffix)
}

// create opens path for writing, creating parent directories.
func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("convert: mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("convert: create %s: %w", path, err)
	}
	return f, nil
}

// writeFile runs fn against a new file at path and records it in out.
func (out *Output) writeFile(path string, fn func(f *os.File) error) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("convert: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	out.Files = append(out.Files, path)
	return nil
}

func (out *Output) warn(ws []chunk.PartialDataWarning) {
	out.Warnings = append(out.Warnings, ws...)
	for _, w := range ws {
		log.Warn().Str("file", out.Input).Int("offset", w.Offset).Int("remaining", w.Remaining).Msg("unparsed trailing bytes")
	}
}
