package geomap

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/encoding"

	"github.com/keyhom/io-scene-cgf-extras/internal/chunk"
)

// TerrainPrefix marks names of raw terrain geometry chunks.
const TerrainPrefix = `terrain_models\`

// Filter decides whether a record is emitted. Rejected records still count
// toward the bounding box.
type Filter func(PlacedObject) bool

// TerrainOnly keeps only terrain geometry placements.
func TerrainOnly(o PlacedObject) bool {
	return strings.HasPrefix(strings.ToLower(o.NameRef), TerrainPrefix)
}

// Options controls Decode.
type Options struct {
	Filter   Filter
	Encoding encoding.Encoding // charset of stored names, nil = raw bytes
}

// ReadFile reads and decodes a placement map from disk.
func ReadFile(path string, opts Options) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geomap: read %s: %w", path, err)
	}
	m, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("geomap: %s: %w", path, err)
	}
	return m, nil
}

// Decode parses a placement map:
// count:i32, then count × (name_len:i16, name, xyz:3×f32, rot:9×f32, tail:f32).
func Decode(data []byte, opts Options) (*Map, error) {
	r := chunk.NewReader(data)

	count, err := r.I32()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, chunk.Formatf(0, "negative record count %d", count)
	}
	// Smallest record is 2 + 13*4 bytes; reject counts the buffer cannot hold.
	if int64(count)*54 > int64(r.Remaining()) {
		return nil, &chunk.TruncatedError{Offset: r.Pos(), Need: int(count) * 54, Have: r.Remaining()}
	}

	m := &Map{Count: int(count)}
	var vals [13]float32
	for i := 0; i < int(count); i++ {
		start := r.Pos()
		nameLen, err := r.I16()
		if err != nil {
			return nil, err
		}
		if nameLen < 0 {
			return nil, chunk.Formatf(start, "record %d: negative name length %d", i, nameLen)
		}
		raw, err := r.View(int(nameLen))
		if err != nil {
			return nil, err
		}
		if err := r.F32s(vals[:]); err != nil {
			return nil, err
		}

		obj := PlacedObject{
			NameRef:  chunk.DecodeName(raw, opts.Encoding),
			Position: mgl32.Vec3{vals[0], vals[1], vals[2]},
			Tail:     vals[12],
		}
		copy(obj.Rotation[:], vals[3:12])

		m.Bounds.Extend(obj.Position)
		if opts.Filter != nil && !opts.Filter(obj) {
			continue
		}
		m.Objects = append(m.Objects, obj)
	}
	return m, nil
}
