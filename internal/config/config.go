package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config holds paths and conversion settings.
type Config struct {
	// Paths
	GameDir    string `json:"game_dir"`
	OutputDir  string `json:"output_dir"`
	Categories string `json:"categories"`

	// Conversion settings
	Charset     string `json:"charset"`
	ImageFormat string `json:"image_format"`
	Resolution  string `json:"resolution"`
	Unity       bool   `json:"unity"`
	TileSize    int    `json:"tile_size"`
	MipLevels   int    `json:"mip_levels"`
	TexFormat   string `json:"texture_format"`
	Workers     int    `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	GameDir     string
	OutputDir   string
	Charset     string
	ImageFormat string
	Resolution  string
	Categories  string
	Unity       bool
	Workers     int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.GameDir != "" {
		c.GameDir = flags.GameDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Charset != "" {
		c.Charset = flags.Charset
	}
	if flags.ImageFormat != "" {
		c.ImageFormat = flags.ImageFormat
	}
	if flags.Resolution != "" {
		c.Resolution = flags.Resolution
	}
	if flags.Unity {
		c.Unity = true
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.OutputDir != "" && c.GameDir != "" && !filepath.IsAbs(c.OutputDir) && !strings.HasPrefix(c.OutputDir, ".") {
		c.OutputDir = filepath.Join(c.GameDir, c.OutputDir)
	}
	if c.Categories != "" && c.GameDir != "" && !filepath.IsAbs(c.Categories) {
		c.Categories = filepath.Join(c.GameDir, c.Categories)
	}
	// paths given on the command line stay relative to the working directory
	if flags.Categories != "" {
		c.Categories = flags.Categories
	}

	if c.ImageFormat == "" {
		c.ImageFormat = "png"
	}
	if c.Resolution == "" {
		c.Resolution = "1536x1536"
	}
	if c.TexFormat == "" {
		c.TexFormat = "dxt1"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// ParseResolution splits "WxH" into positive integers.
func ParseResolution(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("config: bad resolution %q", s)
	}
	w, err1 := strconv.Atoi(ws)
	h, err2 := strconv.Atoi(hs)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("config: bad resolution %q", s)
	}
	return w, h, nil
}
