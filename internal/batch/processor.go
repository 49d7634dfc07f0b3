package batch

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/zeebo/xxh3"

	"github.com/keyhom/io-scene-cgf-extras/internal/convert"
)

// Config holds all shared settings for a batch run.
type Config struct {
	Kind     convert.Kind // empty means detect per file
	Options  convert.Options
	Root     string // when set with Options.OutputDir, outputs mirror the tree under Root
	Workers  int
	Progress io.Writer // nil disables the progress bar
}

// Result holds the outcome of converting one file.
type Result struct {
	Path     string       `json:"path"`
	Kind     convert.Kind `json:"kind"`
	Digest   string       `json:"xxh3,omitempty"`
	Records  int          `json:"records"`
	Files    []string     `json:"files,omitempty"`
	Warnings int          `json:"warnings,omitempty"`
	Success  bool         `json:"success"`
	Error    string       `json:"error,omitempty"`
}

// Collect expands roots into the files whose kind can be detected.
// Explicit file arguments are kept even when their kind is unknown.
func Collect(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("batch: %w", err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if _, ok := convert.KindFromPath(p); ok {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("batch: walk %s: %w", root, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run converts all files using a worker pool. One failing file never
// stops the others.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed, failed atomic.Int64
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	var bar *progressbar.ProgressBar
	if cfg.Progress != nil {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(cfg.Progress),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
		)
	}

	start := time.Now()
	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				if !results[idx].Success {
					failed.Add(1)
				}
				processed.Add(1)
				if bar != nil {
					bar.Add(1)
				}
			}
		}()
	}

	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	if bar != nil {
		bar.Finish()
	}

	log.Info().Int64("processed", processed.Load()).Int64("failed", failed.Load()).
		Dur("elapsed", time.Since(start)).Msg("batch finished")
	return results
}

func processFile(cfg Config, path string) (res Result) {
	res = Result{Path: path, Kind: cfg.Kind}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Error = fmt.Sprintf("panic: %v", r)
			log.Error().Str("file", path).Interface("panic", r).Msg("conversion panicked")
		}
	}()

	if res.Kind == "" {
		k, ok := convert.KindFromPath(path)
		if !ok {
			res.Error = "unknown file kind"
			return res
		}
		res.Kind = k
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Digest = fmt.Sprintf("%016x", xxh3.Hash(data))

	opts := cfg.Options
	if cfg.Root != "" && opts.OutputDir != "" {
		if rel, err := filepath.Rel(cfg.Root, filepath.Dir(path)); err == nil && !strings.HasPrefix(rel, "..") {
			opts.OutputDir = filepath.Join(opts.OutputDir, rel)
		}
	}
	out, err := convert.Run(res.Kind, path, opts)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("conversion failed")
		res.Error = err.Error()
		return res
	}
	res.Records = out.Records
	res.Files = out.Files
	res.Warnings = len(out.Warnings)
	res.Success = true
	return res
}
