package geomap

import (
	"path"
	"strings"
)

// Resolver maps a stored name reference to an asset path. The bool is false
// when nothing better than the stored name was found.
type Resolver interface {
	Resolve(nameRef string) (string, bool)
}

// Lookup is the filesystem collaborator probed by HeuristicResolver. Paths
// are slash separated and relative to the game root.
type Lookup interface {
	Exists(p string) bool
	List(dir string) ([]string, error)
}

// Speller is implemented by case-insensitive lookups that can return the
// on-disk spelling of a matched path.
type Speller interface {
	Real(p string) (string, bool)
}

// HeuristicResolver guesses real asset paths for names whose directory
// separators were flattened into underscores. It is a best-effort fallback
// and never authoritative.
type HeuristicResolver struct {
	Lookup Lookup
	Cache  *Cache // optional, caller owned
}

// Resolve implements Resolver.
func (h *HeuristicResolver) Resolve(nameRef string) (string, bool) {
	lower := strings.ToLower(nameRef)
	if strings.HasPrefix(lower, TerrainPrefix) || strings.HasSuffix(lower, ".bin") || !strings.HasSuffix(lower, ".cgf") {
		return nameRef, false
	}
	if h.Lookup == nil {
		return nameRef, false
	}

	key := strings.TrimPrefix(strings.ReplaceAll(lower, `\`, "/"), "models/")
	if h.Cache != nil {
		if e, ok := h.Cache.get(key); ok {
			return h.result(nameRef, e)
		}
	}

	e := h.probe(key)
	if h.Cache != nil {
		e = h.Cache.put(key, e)
	}
	return h.result(nameRef, e)
}

func (h *HeuristicResolver) result(nameRef string, e cacheEntry) (string, bool) {
	if !e.resolved {
		return nameRef, false
	}
	return e.path, true
}

func (h *HeuristicResolver) probe(name string) cacheEntry {
	parent, child := "", name
	for !h.Lookup.Exists(path.Join(parent, child)) {
		prefix, rest, ok := h.splitExisting(parent, child)
		if !ok {
			break
		}
		parent = path.Join(parent, prefix)
		child = rest
	}

	candidate := path.Join(parent, child)
	if !h.Lookup.Exists(candidate) {
		candidate = h.fixBasename(candidate)
	}
	if !h.Lookup.Exists(candidate) {
		return cacheEntry{}
	}
	if sp, ok := h.Lookup.(Speller); ok {
		if disk, ok := sp.Real(candidate); ok {
			candidate = disk
		}
	}
	return cacheEntry{path: candidate, resolved: true}
}

// splitExisting finds the longest "prefix_" of child, scanning underscores
// right to left, whose prefix exists under parent.
func (h *HeuristicResolver) splitExisting(parent, child string) (string, string, bool) {
	for i := len(child) - 1; i > 0; i-- {
		if child[i] != '_' {
			continue
		}
		if i+1 >= len(child) || child[i+1] == ' ' {
			continue
		}
		prefix := child[:i]
		if h.Lookup.Exists(path.Join(parent, prefix)) {
			return prefix, child[i+1:], true
		}
	}
	return "", "", false
}

// fixBasename retries "__" runs as "_ " and then an underscore/space
// insensitive match against the directory listing.
func (h *HeuristicResolver) fixBasename(p string) string {
	dir, base := path.Split(p)
	dir = strings.TrimSuffix(dir, "/")

	if strings.Contains(base, "__") {
		alt := path.Join(dir, strings.ReplaceAll(base, "__", "_ "))
		if h.Lookup.Exists(alt) {
			return alt
		}
	}

	entries, err := h.Lookup.List(dir)
	if err != nil {
		return p
	}
	want := looseName(base)
	for _, e := range entries {
		if looseName(e) == want {
			return path.Join(dir, e)
		}
	}
	return p
}

func looseName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", " "))
}

// Resolution pairs an emitted object with its resolved path.
type Resolution struct {
	Name     string
	Path     string
	Resolved bool
}

// Resolve runs r over every emitted object of m. A nil resolver leaves every
// name unresolved.
func Resolve(m *Map, r Resolver) []Resolution {
	out := make([]Resolution, len(m.Objects))
	for i, o := range m.Objects {
		out[i] = Resolution{Name: o.NameRef, Path: o.NameRef}
		if r == nil {
			continue
		}
		out[i].Path, out[i].Resolved = r.Resolve(o.NameRef)
	}
	return out
}
