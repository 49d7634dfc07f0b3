package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/keyhom/io-scene-cgf-extras/internal/chunk"
)

const (
	ddsMagic       = 0x20534444 // "DDS "
	ddsHeaderFlags = 0x00021007 // caps | height | width | pixelformat | mipmapcount
	ddsPFFourCC    = 0x4
	ddsCaps        = 0x00401008 // complex | texture | mipmap
	maxDDSEdge     = 1 << 16
)

type ddsPixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

type ddsHeader struct {
	Magic       uint32
	Size        uint32
	Flags       uint32
	Height      uint32
	Width       uint32
	Pitch       uint32
	Depth       uint32
	MipMapCount uint32
	Reserved1   [11]uint32
	PixelFormat ddsPixelFormat
	Caps        [4]uint32
	Reserved2   uint32
}

// WriteDDS writes levels as a DDS file with a 128-byte header.
func WriteDDS(w io.Writer, levels []Level, f Format) error {
	if len(levels) == 0 {
		return fmt.Errorf("texture: dds: no levels")
	}
	h := ddsHeader{
		Magic:       ddsMagic,
		Size:        124,
		Flags:       ddsHeaderFlags,
		Height:      uint32(levels[0].Height),
		Width:       uint32(levels[0].Width),
		MipMapCount: uint32(len(levels)),
		PixelFormat: ddsPixelFormat{Size: 32, Flags: ddsPFFourCC, FourCC: f.fourCC()},
		Caps:        [4]uint32{ddsCaps},
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	for _, lv := range levels {
		if _, err := w.Write(lv.Blocks); err != nil {
			return err
		}
	}
	return nil
}

// ReadDDS parses a DXT1 or DXT5 DDS file produced by WriteDDS or by
// common tools. Levels are returned largest first, undecoded.
func ReadDDS(data []byte) ([]Level, Format, error) {
	var h ddsHeader
	if len(data) < binary.Size(h) {
		return nil, 0, &chunk.TruncatedError{Need: binary.Size(h), Have: len(data)}
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, 0, err
	}
	if h.Magic != ddsMagic || h.Size != 124 {
		return nil, 0, chunk.Formatf(0, "not a DDS file")
	}
	var f Format
	switch h.PixelFormat.FourCC {
	case DXT1.fourCC():
		f = DXT1
	case DXT5.fourCC():
		f = DXT5
	default:
		return nil, 0, chunk.Formatf(84, "unsupported fourcc %#08x", h.PixelFormat.FourCC)
	}
	if h.Width == 0 || h.Height == 0 || h.Width > maxDDSEdge || h.Height > maxDDSEdge {
		return nil, 0, chunk.Formatf(12, "bad dimensions %dx%d", h.Width, h.Height)
	}
	count := int(h.MipMapCount)
	if count == 0 {
		count = 1
	}
	if most := MipCount(int(h.Width), int(h.Height)); count > most {
		return nil, 0, chunk.Formatf(28, "mip count %d exceeds %d for %dx%d", h.MipMapCount, most, h.Width, h.Height)
	}
	r, err := chunk.NewReader(data).At(binary.Size(h))
	if err != nil {
		return nil, 0, err
	}
	w, ht := int(h.Width), int(h.Height)
	levels := make([]Level, 0, count)
	for m := 0; m < count; m++ {
		blocks, err := r.Bytes(LevelSize(w, ht, f))
		if err != nil {
			return nil, 0, err
		}
		levels = append(levels, Level{MipLevel: m, Width: w, Height: ht, Blocks: blocks})
		w, ht = nextMip(w), nextMip(ht)
	}
	return levels, f, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	return data, nil
}
