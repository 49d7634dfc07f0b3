package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"

	"github.com/keyhom/io-scene-cgf-extras/internal/chunk"
)

// Level is one mip level of a tile. Blocks holds the compressed bytes;
// RGBA is filled only when decoding was requested.
type Level struct {
	MipLevel int
	Width    int
	Height   int
	Blocks   []byte
	RGBA     []byte
}

// Image wraps the decoded pixels. It returns nil for an undecoded level.
func (l Level) Image() *image.NRGBA {
	if l.RGBA == nil {
		return nil
	}
	return &image.NRGBA{Pix: l.RGBA, Stride: l.Width * 4, Rect: image.Rect(0, 0, l.Width, l.Height)}
}

// Tile is a full mip chain, largest level first.
type Tile struct {
	Index  int
	Levels []Level
}

// Container is a decoded tiled texture file.
type Container struct {
	Marker   int32
	TileSize int
	Format   Format
	Tiles    []Tile
	Warnings []chunk.PartialDataWarning
}

// ContainerOptions controls Parse. Zero values take the defaults: the
// tile size comes from the leading marker, the level count runs down
// to 1×1 and the format is DXT1.
type ContainerOptions struct {
	TileSize int
	Levels   int
	Format   Format
	Decode   bool
	Mode     Mode
}

// Parse splits data into tiles of back-to-back mip chains.
// A short final tile is dropped and reported as a warning.
func Parse(data []byte, opts ContainerOptions) (*Container, error) {
	r := chunk.NewReader(data)
	marker, err := r.I32()
	if err != nil {
		return nil, err
	}
	size := opts.TileSize
	if size == 0 {
		size = int(marker)
	}
	if size <= 0 || size > 1<<15 {
		return nil, chunk.Formatf(0, "bad tile size %d", size)
	}
	if opts.Format == 0 {
		opts.Format = DXT1
	}
	levels := opts.Levels
	if levels == 0 {
		levels = MipCount(size, size)
	}
	if levels < 0 || levels > MipCount(size, size) {
		return nil, fmt.Errorf("texture: %d mip levels for a %d-pixel tile", levels, size)
	}

	chain := MipChainSize(size, size, levels, opts.Format)
	c := &Container{Marker: marker, TileSize: size, Format: opts.Format}
	n := r.Remaining() / chain
	if n == 0 && r.Remaining() > 0 {
		return nil, &chunk.TruncatedError{Offset: r.Pos(), Need: chain, Have: r.Remaining()}
	}
	c.Tiles = make([]Tile, 0, n)
	for i := 0; i < n; i++ {
		t := Tile{Index: i, Levels: make([]Level, 0, levels)}
		w, h := size, size
		for m := 0; m < levels; m++ {
			blocks, err := r.Bytes(LevelSize(w, h, opts.Format))
			if err != nil {
				return nil, err
			}
			lv := Level{MipLevel: m, Width: w, Height: h, Blocks: blocks}
			if opts.Decode {
				if lv.RGBA, err = DecodeLevel(blocks, w, h, opts.Format, opts.Mode); err != nil {
					return nil, err
				}
			}
			t.Levels = append(t.Levels, lv)
			w, h = nextMip(w), nextMip(h)
		}
		c.Tiles = append(c.Tiles, t)
	}
	if w, ok := chunk.TrailingWarning(r); ok {
		c.Warnings = append(c.Warnings, w)
	}
	return c, nil
}

// Pack serializes c back into the tiled layout. Every level must carry
// its compressed blocks.
func Pack(c *Container) ([]byte, error) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, c.Marker)
	for _, t := range c.Tiles {
		for _, lv := range t.Levels {
			if want := LevelSize(lv.Width, lv.Height, c.Format); len(lv.Blocks) != want {
				return nil, fmt.Errorf("texture: tile %d level %d: have %d bytes, want %d", t.Index, lv.MipLevel, len(lv.Blocks), want)
			}
			buf.Write(lv.Blocks)
		}
	}
	return buf.Bytes(), nil
}

// ReadFile parses a tiled texture container from disk.
func ReadFile(path string, opts ContainerOptions) (*Container, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}
	return c, nil
}
