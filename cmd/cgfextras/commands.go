package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keyhom/io-scene-cgf-extras/internal/assetindex"
	"github.com/keyhom/io-scene-cgf-extras/internal/batch"
	"github.com/keyhom/io-scene-cgf-extras/internal/chunk"
	"github.com/keyhom/io-scene-cgf-extras/internal/config"
	"github.com/keyhom/io-scene-cgf-extras/internal/convert"
	"github.com/keyhom/io-scene-cgf-extras/internal/geomap"
	"github.com/keyhom/io-scene-cgf-extras/internal/raster"
	"github.com/keyhom/io-scene-cgf-extras/internal/texture"
	"github.com/keyhom/io-scene-cgf-extras/internal/vegetation"
)

// options builds converter options from the resolved configuration.
func (a *app) options() (convert.Options, error) {
	opts := convert.Options{OutputDir: a.cfg.OutputDir, Unity: a.cfg.Unity}

	enc, err := chunk.Charset(a.cfg.Charset)
	if err != nil {
		return opts, err
	}
	opts.Encoding = enc

	if opts.ImageFormat, err = raster.FormatOf(a.cfg.ImageFormat); err != nil {
		return opts, err
	}
	if opts.Width, opts.Height, err = config.ParseResolution(a.cfg.Resolution); err != nil {
		return opts, err
	}

	tf, err := texture.ParseFormat(a.cfg.TexFormat)
	if err != nil {
		return opts, err
	}
	opts.Texture = texture.ContainerOptions{TileSize: a.cfg.TileSize, Levels: a.cfg.MipLevels, Format: tf}

	if a.cfg.Categories != "" {
		f, err := os.Open(a.cfg.Categories)
		if err != nil {
			return opts, fmt.Errorf("categories: %w", err)
		}
		defer f.Close()
		if opts.Categories, err = vegetation.LoadCategories(f); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// resolver indexes the game directory for model name resolution.
func (a *app) resolver() (geomap.Resolver, error) {
	if a.cfg.GameDir == "" {
		return nil, fmt.Errorf("--resolve needs --game-dir")
	}
	idx, err := assetindex.BuildDir(a.cfg.GameDir)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", a.cfg.GameDir, err)
	}
	log.Info().Str("dir", a.cfg.GameDir).Int("files", idx.Len()).Msg("game directory indexed")
	return &geomap.HeuristicResolver{Lookup: idx, Cache: geomap.NewCache()}, nil
}

// runEach converts every argument in turn and reports the first error
// after trying them all.
func runEach(kind convert.Kind, files []string, opts convert.Options) error {
	var firstErr error
	for _, f := range files {
		out, err := convert.Run(kind, f, opts)
		if err != nil {
			log.Error().Err(err).Str("file", f).Msg("conversion failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Info().Str("file", f).Int("records", out.Records).Strs("outputs", out.Files).
			Int("warnings", len(out.Warnings)).Msgf("%s converted", kind)
	}
	return firstErr
}

func simpleCmd(a *app, kind convert.Kind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			return runEach(kind, args, opts)
		},
	}
}

func newMapCmd(a *app) *cobra.Command {
	var resolve, terrainOnly bool
	cmd := simpleCmd(a, convert.KindMap, "map FILE...", "Export object placements to TSV")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, err := a.options()
		if err != nil {
			return err
		}
		opts.TerrainOnly = terrainOnly
		if resolve {
			if opts.Resolver, err = a.resolver(); err != nil {
				return err
			}
		}
		return runEach(convert.KindMap, args, opts)
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "resolve model names against --game-dir")
	cmd.Flags().BoolVar(&terrainOnly, "terrain-only", false, "emit only terrain_models\\ placements")
	return cmd
}

func newGeometryCmd(a *app) *cobra.Command {
	return simpleCmd(a, convert.KindGeometry, "geometry FILE...", "Export raw triangle meshes to OBJ")
}

func newBrushCmd(a *app) *cobra.Command {
	return simpleCmd(a, convert.KindBrush, "brush FILE...", "Export brush and instance tables to CSV")
}

func newVegetationCmd(a *app) *cobra.Command {
	cmd := simpleCmd(a, convert.KindVegetation, "vegetation FILE...", "Export vegetation instances to CSV")
	cmd.Flags().StringVar(&a.flags.Categories, "categories", "", "one-name-per-line category table joined by type id")
	return cmd
}

func newTextureCmd(a *app) *cobra.Command {
	var decode bool
	var tileSize, levels int
	var format string
	cmd := simpleCmd(a, convert.KindTexture, "texture FILE...", "Split a tiled DXT container into DDS files or images")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("tile-size") {
			a.cfg.TileSize = tileSize
		}
		if cmd.Flags().Changed("levels") {
			a.cfg.MipLevels = levels
		}
		if format != "" {
			a.cfg.TexFormat = format
		}
		opts, err := a.options()
		if err != nil {
			return err
		}
		opts.Texture.Decode = decode
		return runEach(convert.KindTexture, args, opts)
	}
	f := cmd.Flags()
	f.BoolVar(&decode, "decode", false, "decode tiles to images instead of writing DDS files")
	f.IntVar(&tileSize, "tile-size", 0, "tile edge in pixels (default: leading marker)")
	f.IntVar(&levels, "levels", 0, "mip levels per tile (default: down to 1x1)")
	f.StringVar(&format, "format", "", "block format: dxt1 or dxt5")
	return cmd
}

func newHeightfieldCmd(a *app) *cobra.Command {
	var splat, rotate bool
	cmd := simpleCmd(a, convert.KindHeightfield, "heightfield FILE...", "Convert packed height samples to raw 16-bit heights")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, err := a.options()
		if err != nil {
			return err
		}
		opts.Splat, opts.Rotate = splat, rotate
		return runEach(convert.KindHeightfield, args, opts)
	}
	f := cmd.Flags()
	f.StringVarP(&a.flags.Resolution, "resolution", "x", "", "sample grid WxH (default: 1536x1536)")
	f.BoolVarP(&a.flags.Unity, "unity", "u", false, "pad to 2^n+1 for Unity terrain import")
	f.BoolVar(&splat, "splat", false, "write one splat mask per detail layer")
	f.BoolVar(&rotate, "rotate", false, "rotate images a quarter turn counter-clockwise")
	return cmd
}

func newReencodeCmd(a *app) *cobra.Command {
	return simpleCmd(a, convert.KindImage, "reencode FILE...", "Re-encode DDS, TGA, BMP, TIFF or WebP images")
}

func newBatchCmd(a *app) *cobra.Command {
	var kind string
	var noProgress bool
	cmd := &cobra.Command{
		Use:   "batch DIR|FILE...",
		Short: "Convert every recognized file under the given roots in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			if a.cfg.GameDir != "" {
				// one shared resolver and cache for every map in the run
				if opts.Resolver, err = a.resolver(); err != nil {
					return err
				}
			}
			cfg := batch.Config{Options: opts, Workers: a.cfg.Workers}
			if kind != "" {
				if cfg.Kind, err = convert.ParseKind(kind); err != nil {
					return err
				}
			}
			if !noProgress {
				cfg.Progress = os.Stderr
			}
			if len(args) == 1 {
				if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
					cfg.Root = args[0]
				}
			}

			files, err := batch.Collect(args)
			if err != nil {
				return err
			}
			log.Info().Int("files", len(files)).Int("workers", cfg.Workers).Msg("starting batch")
			results := batch.Run(cfg, files)

			manifestDir := opts.OutputDir
			if manifestDir == "" {
				manifestDir = "."
			}
			if err := os.MkdirAll(manifestDir, 0o755); err != nil {
				return err
			}
			mpath := filepath.Join(manifestDir, "manifest.json")
			if err := batch.WriteManifest(mpath, results); err != nil {
				return err
			}
			m := batch.NewManifest(results)
			log.Info().Int("succeeded", m.Succeeded).Int("failed", m.Failed).Str("manifest", mpath).Msg("batch done")
			if m.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", m.Failed, m.Total)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&a.flags.Workers, "workers", "w", 0, "worker goroutines (default: NumCPU)")
	cmd.Flags().StringVar(&kind, "kind", "", "force one converter for every file")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}
