package geomap

import (
	"bytes"
	"path"
	"strings"
	"testing"
)

// memLookup is an in-memory Lookup over a set of file paths; parent
// directories exist implicitly.
type memLookup struct {
	files  map[string]bool
	probes int
}

func newMemLookup(files ...string) *memLookup {
	l := &memLookup{files: map[string]bool{}}
	for _, f := range files {
		l.files[f] = true
	}
	return l
}

func (l *memLookup) Exists(p string) bool {
	l.probes++
	if l.files[p] {
		return true
	}
	for f := range l.files {
		if strings.HasPrefix(f, p+"/") {
			return true
		}
	}
	return false
}

func (l *memLookup) List(dir string) ([]string, error) {
	var out []string
	for f := range l.files {
		if path.Dir(f) == dir {
			out = append(out, path.Base(f))
		}
	}
	return out, nil
}

func TestHeuristicResolver(t *testing.T) {
	look := newMemLookup(
		"objects/npc/tree_oak.cgf",
		"objects/rock_ big.cgf",
		"objects/Big Stone.cgf",
	)
	r := &HeuristicResolver{Lookup: look}

	tests := []struct {
		in       string
		want     string
		resolved bool
	}{
		{`models\objects_npc_tree_oak.cgf`, "objects/npc/tree_oak.cgf", true},
		{`models\objects_rock__big.cgf`, "objects/rock_ big.cgf", true},
		{`models\objects_big_stone.cgf`, "objects/Big Stone.cgf", true},
		{`models\objects_missing_thing.cgf`, `models\objects_missing_thing.cgf`, false},
		{`terrain_models\t_0_0.bin`, `terrain_models\t_0_0.bin`, false},
		{`textures\foo.dds`, `textures\foo.dds`, false},
	}
	for _, tt := range tests {
		got, ok := r.Resolve(tt.in)
		if got != tt.want || ok != tt.resolved {
			t.Fatalf("Resolve(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.resolved)
		}
	}
}

func TestHeuristicResolverCache(t *testing.T) {
	look := newMemLookup("objects/npc/tree_oak.cgf")
	cache := NewCache()
	r := &HeuristicResolver{Lookup: look, Cache: cache}

	if _, ok := r.Resolve(`models\objects_npc_tree_oak.cgf`); !ok {
		t.Fatal("expected resolution")
	}
	probes := look.probes
	got, ok := r.Resolve(`MODELS\Objects_NPC_Tree_Oak.cgf`)
	if !ok || got != "objects/npc/tree_oak.cgf" {
		t.Fatalf("cached resolve got %q, %v", got, ok)
	}
	if look.probes != probes {
		t.Fatalf("cache hit probed the lookup %d more times", look.probes-probes)
	}
	if cache.Len() != 1 {
		t.Fatalf("cache holds %d entries", cache.Len())
	}

	// misses are memoized too, and still fall back to the stored name
	if got, ok := r.Resolve(`models\nothing_here.cgf`); ok || got != `models\nothing_here.cgf` {
		t.Fatalf("miss got %q, %v", got, ok)
	}
	if cache.Len() != 2 {
		t.Fatalf("miss not cached, len %d", cache.Len())
	}
}

func TestWriteTable(t *testing.T) {
	m, err := Decode(buildMap(sampleRecords()[:2]), Options{})
	if err != nil {
		t.Fatal(err)
	}
	look := newMemLookup("objects/npc/tree.cgf")
	res := Resolve(m, &HeuristicResolver{Lookup: look})

	var buf bytes.Buffer
	if err := WriteTable(&buf, m, res, '\t'); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != strings.Join(TableHeader, "\t") {
		t.Fatalf("header %q", lines[0])
	}
	row := strings.Split(lines[2], "\t")
	if len(row) != len(TableHeader) {
		t.Fatalf("row has %d columns", len(row))
	}
	if row[0] != "1" || row[1] != "objects/npc/tree.cgf" || row[2] != "true" || row[3] != "-20" || row[7] != "1" || row[15] != "2" {
		t.Fatalf("unexpected row %v", row)
	}
	first := strings.Split(lines[1], "\t")
	if first[1] != `terrain_models\t_0_0.bin` || first[2] != "false" {
		t.Fatalf("unexpected first row %v", first)
	}
}
