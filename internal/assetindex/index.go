// Package assetindex indexes a game directory case-insensitively so that
// names stored in lower case by the editor can be matched to real files.
package assetindex

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// Index maps lower-cased slash paths to their on-disk spelling. Directories
// are indexed too, with their children.
type Index struct {
	entries  map[string]string   // lower path → real path
	children map[string][]string // lower dir → real child names
	files    int
}

// Build walks fsys from root. Unreadable subtrees are skipped.
func Build(fsys fs.FS, root string) (*Index, error) {
	idx := &Index{
		entries:  make(map[string]string),
		children: make(map[string][]string),
	}
	if root == "" {
		root = "."
	}
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && p != root {
				return fs.SkipDir
			}
			return err
		}
		rel := p
		if root != "." {
			rel = strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		}
		if rel == "" || rel == "." {
			return nil
		}
		key := strings.ToLower(rel)
		if _, dup := idx.entries[key]; dup {
			return nil
		}
		idx.entries[key] = rel
		parent := strings.ToLower(path.Dir(rel))
		idx.children[parent] = append(idx.children[parent], d.Name())
		if !d.IsDir() {
			idx.files++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// BuildDir indexes a directory on the local filesystem.
func BuildDir(dir string) (*Index, error) {
	return Build(os.DirFS(dir), ".")
}

func normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(strings.ToLower(p))
	return strings.TrimPrefix(p, "./")
}

// Exists reports whether p names an indexed file or directory.
func (idx *Index) Exists(p string) bool {
	_, ok := idx.entries[normalize(p)]
	return ok
}

// Real returns the on-disk spelling of p.
func (idx *Index) Real(p string) (string, bool) {
	r, ok := idx.entries[normalize(p)]
	return r, ok
}

// List returns the real names directly under dir, sorted. An empty dir
// means the root.
func (idx *Index) List(dir string) ([]string, error) {
	key := normalize(dir)
	if key == "" {
		key = "."
	}
	names, ok := idx.children[key]
	if !ok {
		return nil, &fs.PathError{Op: "list", Path: dir, Err: fs.ErrNotExist}
	}
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out, nil
}

// Len returns the number of indexed files.
func (idx *Index) Len() int {
	return idx.files
}
