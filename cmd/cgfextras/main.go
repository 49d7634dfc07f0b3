package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keyhom/io-scene-cgf-extras/internal/config"
	"github.com/keyhom/io-scene-cgf-extras/internal/logging"
	"github.com/keyhom/io-scene-cgf-extras/internal/raster"
)

// app carries the resolved configuration shared by every subcommand.
type app struct {
	configFile string
	verbose    bool
	flags      config.Flags
	cfg        config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cgfextras",
		Short: "Decode legacy engine asset files into inspectable data",
		Long: `cgfextras reads the binary placement maps, geometry, brush and vegetation
tables, tiled DXT texture containers and packed height fields written by a
legacy world editor, and exports them as TSV/CSV tables, OBJ meshes, DDS
files and images.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(a.verbose)
			return a.load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "path to config.json")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging trace")
	pf.StringVarP(&a.flags.OutputDir, "output", "o", "", "output directory (default: next to each input)")
	pf.StringVar(&a.flags.GameDir, "game-dir", "", "game root used to resolve model names")
	pf.StringVar(&a.flags.Charset, "charset", "", "charset of stored names (windows-1252, windows-1250, windows-1251, iso-8859-1)")
	pf.StringVarP(&a.flags.ImageFormat, "image-format", "f", "", "image output format: "+strings.Join(raster.Formats, ", ")+" (default: png)")

	root.AddCommand(
		newMapCmd(a),
		newGeometryCmd(a),
		newBrushCmd(a),
		newVegetationCmd(a),
		newTextureCmd(a),
		newHeightfieldCmd(a),
		newReencodeCmd(a),
		newBatchCmd(a),
	)
	return root
}

func (a *app) load() error {
	if a.configFile != "" {
		cfg, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	a.cfg.Resolve(a.flags)
	log.Debug().Interface("config", a.cfg).Msg("configuration resolved")
	return nil
}
