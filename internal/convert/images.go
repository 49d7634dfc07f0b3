package convert

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/keyhom/io-scene-cgf-extras/internal/heightfield"
	"github.com/keyhom/io-scene-cgf-extras/internal/raster"
	"github.com/keyhom/io-scene-cgf-extras/internal/texture"
)

func (out *Output) saveImage(path string, img image.Image) error {
	if err := raster.Save(path, img); err != nil {
		return err
	}
	out.Files = append(out.Files, path)
	return nil
}

// Texture splits a tiled container. Without decoding every tile becomes
// <name>_<i>.dds; with decoding every tile's top level becomes an image
// and the tiles are also combined into <name>.<format>.
func Texture(path string, opts Options) (*Output, error) {
	c, err := texture.ReadFile(path, opts.Texture)
	if err != nil {
		return nil, err
	}
	out := &Output{Kind: KindTexture, Input: path, Records: len(c.Tiles)}
	out.warn(c.Warnings)
	log.Debug().Str("file", path).Int32("marker", c.Marker).Int("tile_size", c.TileSize).
		Int("tiles", len(c.Tiles)).Stringer("format", c.Format).Msg("container parsed")

	format := opts.imageFormat()
	tiles := make([]image.Image, 0, len(c.Tiles))
	for _, t := range c.Tiles {
		if !opts.Texture.Decode {
			p := opts.outPath(path, fmt.Sprintf("_%d.dds", t.Index))
			if err := out.writeFile(p, func(f *os.File) error {
				return texture.WriteDDS(f, t.Levels, c.Format)
			}); err != nil {
				return nil, err
			}
			continue
		}
		img := t.Levels[0].Image()
		tiles = append(tiles, img)
		if err := out.saveImage(opts.outPath(path, fmt.Sprintf("_%d.%s", t.Index, format)), img); err != nil {
			return nil, err
		}
	}

	if len(tiles) > 0 {
		rows := raster.GridRows(len(tiles))
		atlas := raster.Combine(tiles[:rows*rows], rows)
		if err := out.saveImage(opts.outPath(path, "."+format), atlas); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Heightfield writes the raw 16-bit heights to <name>.raw, the detail
// layer to <name>.<format>, a 16-bit preview to <name>_height.tiff and,
// when Splat is set, one <name>_s<layer>.<format> per detail layer.
func Heightfield(path string, opts Options) (*Output, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("convert: heightfield %s: resolution not set", path)
	}
	f, err := heightfield.ReadFile(path, opts.Width, opts.Height, heightfield.Options{Detail: true, Unity: opts.Unity})
	if err != nil {
		return nil, err
	}
	out := &Output{Kind: KindHeightfield, Input: path, Records: len(f.Heights)}
	out.warn(f.Warnings)
	log.Debug().Str("file", path).Int("width", f.Width).Int("height", f.Height).Bool("padded", f.Padded()).Msg("height field decoded")

	if err := out.writeFile(opts.outPath(path, ".raw"), func(w *os.File) error {
		_, err := w.Write(heightfield.Encode(f))
		return err
	}); err != nil {
		return nil, err
	}
	if err := out.saveImage(opts.outPath(path, "_height.tiff"), heightfield.HeightImage(f)); err != nil {
		return nil, err
	}

	rotate := func(img *image.NRGBA) image.Image {
		if opts.Rotate {
			return raster.Rotate90(img)
		}
		return img
	}
	format := opts.imageFormat()
	detail, err := heightfield.DetailImage(f)
	if err != nil {
		return nil, err
	}
	if err := out.saveImage(opts.outPath(path, "."+format), rotate(detail)); err != nil {
		return nil, err
	}
	if !opts.Splat {
		return out, nil
	}
	masks, err := heightfield.SplatMasks(f)
	if err != nil {
		return nil, err
	}
	for _, m := range masks {
		if err := out.saveImage(opts.outPath(path, fmt.Sprintf("_s%d.%s", m.Layer, format)), rotate(m.Image)); err != nil {
			return nil, err
		}
	}
	log.Debug().Str("file", path).Int("layers", len(masks)).Msg("splat masks written")
	return out, nil
}

// Reencode converts a standalone image, DDS included, to ImageFormat.
func Reencode(path string, opts Options) (*Output, error) {
	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".dds") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("convert: read %s: %w", path, err)
		}
		levels, f, err := texture.ReadDDS(data)
		if err != nil {
			return nil, fmt.Errorf("convert: %s: %w", path, err)
		}
		top := levels[0]
		if top.RGBA, err = texture.DecodeLevel(top.Blocks, top.Width, top.Height, f, texture.ModeAuto); err != nil {
			return nil, fmt.Errorf("convert: %s: %w", path, err)
		}
		img = top.Image()
	} else {
		var err error
		if img, err = raster.Load(path); err != nil {
			return nil, err
		}
	}

	dst := opts.outPath(path, "."+opts.imageFormat())
	if filepath.Clean(dst) == filepath.Clean(path) {
		return nil, fmt.Errorf("convert: %s is already %s", path, opts.imageFormat())
	}
	out := &Output{Kind: KindImage, Input: path, Records: 1}
	if err := out.saveImage(dst, img); err != nil {
		return nil, err
	}
	return out, nil
}
