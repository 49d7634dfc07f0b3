package convert

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/keyhom/io-scene-cgf-extras/internal/brush"
	"github.com/keyhom/io-scene-cgf-extras/internal/geomap"
	"github.com/keyhom/io-scene-cgf-extras/internal/geometry"
	"github.com/keyhom/io-scene-cgf-extras/internal/vegetation"
)

type group struct {
	Prefix  string `json:"prefix"`
	Objects []int  `json:"objects"`
}

// Map writes <name>.tsv with one row per emitted placement and
// <name>_groups.json with the objects grouped by name prefix.
func Map(path string, opts Options) (*Output, error) {
	mo := geomap.Options{Encoding: opts.Encoding}
	if opts.TerrainOnly {
		mo.Filter = geomap.TerrainOnly
	}
	m, err := geomap.ReadFile(path, mo)
	if err != nil {
		return nil, err
	}
	out := &Output{Kind: KindMap, Input: path, Records: len(m.Objects)}
	log.Debug().Str("file", path).Int("count", m.Count).Int("emitted", len(m.Objects)).
		Interface("min", m.Bounds.Min).Interface("max", m.Bounds.Max).Msg("map decoded")

	res := geomap.Resolve(m, opts.Resolver)
	resolved := 0
	for _, r := range res {
		if r.Resolved {
			resolved++
		}
	}
	if opts.Resolver != nil {
		log.Info().Str("file", path).Int("resolved", resolved).Int("total", len(res)).Msg("names resolved")
	}

	if err := out.writeFile(opts.outPath(path, ".tsv"), func(f *os.File) error {
		return geomap.WriteTable(f, m, res, '\t')
	}); err != nil {
		return nil, err
	}

	groups := geomap.GroupByPrefix(m.Objects)
	list := make([]group, 0, groups.Len())
	for _, k := range groups.Keys() {
		idx, _ := groups.Get(k)
		list = append(list, group{Prefix: k, Objects: idx})
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := out.writeFile(opts.outPath(path, "_groups.json"), func(f *os.File) error {
		_, err := f.Write(data)
		return err
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Geometry writes <name>.obj.
func Geometry(path string, opts Options) (*Output, error) {
	mesh, err := geometry.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := &Output{Kind: KindGeometry, Input: path, Records: len(mesh.Triangles)}
	log.Debug().Str("file", path).Str("name", mesh.Name).Int32("type", mesh.Type).
		Int("vertices", len(mesh.Vertices)).Int("triangles", len(mesh.Triangles)).Msg("mesh decoded")
	if err := out.writeFile(opts.outPath(path, ".obj"), func(f *os.File) error {
		return geometry.WriteOBJ(f, mesh)
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Brush writes <name>_brushes.csv and <name>_instances.csv.
func Brush(path string, opts Options) (*Output, error) {
	t, err := brush.ReadFile(path, brush.Options{Encoding: opts.Encoding})
	if err != nil {
		return nil, err
	}
	out := &Output{Kind: KindBrush, Input: path, Records: len(t.Instances)}
	out.warn(t.Warnings)
	log.Debug().Str("file", path).Int("names", len(t.Names)).Int("brushes", len(t.Brushes)).
		Int("instances", len(t.Instances)).Msg("brush table decoded")

	if err := out.writeFile(opts.outPath(path, "_brushes.csv"), func(f *os.File) error {
		return brush.WriteBrushCSV(f, t)
	}); err != nil {
		return nil, err
	}
	if err := out.writeFile(opts.outPath(path, "_instances.csv"), func(f *os.File) error {
		return brush.WriteInstanceCSV(f, t)
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Vegetation writes <name>.csv.
func Vegetation(path string, opts Options) (*Output, error) {
	t, err := vegetation.ReadFile(path, vegetation.Options{Categories: opts.Categories})
	if err != nil {
		return nil, err
	}
	out := &Output{Kind: KindVegetation, Input: path, Records: len(t.Instances)}
	log.Debug().Str("file", path).Int("record_size", t.RecordSize).Int("instances", len(t.Instances)).Msg("vegetation decoded")
	if err := out.writeFile(opts.outPath(path, ".csv"), func(f *os.File) error {
		return vegetation.WriteCSV(f, t)
	}); err != nil {
		return nil, err
	}
	return out, nil
}
