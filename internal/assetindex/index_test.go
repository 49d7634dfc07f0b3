package assetindex

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/keyhom/io-scene-cgf-extras/internal/geomap"
)

var (
	_ geomap.Lookup  = (*Index)(nil)
	_ geomap.Speller = (*Index)(nil)
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"Objects/Npc/Guard_Tower.cgf":   {},
		"Objects/Npc/barrel a.cgf":      {},
		"Objects/readme.txt":            {},
		"Levels/Map01/Terrain/land.h32": {},
	}
}

func TestBuildAndExists(t *testing.T) {
	idx, err := Build(testFS(), ".")
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 4 {
		t.Errorf("Len = %d, want 4", idx.Len())
	}
	tests := []struct {
		path string
		want bool
	}{
		{"objects/npc/guard_tower.cgf", true},
		{`OBJECTS\NPC\GUARD_TOWER.CGF`, true},
		{"objects/npc", true},
		{"objects", true},
		{"objects/npc/missing.cgf", false},
	}
	for _, tt := range tests {
		if got := idx.Exists(tt.path); got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if r, ok := idx.Real("objects/npc/guard_tower.cgf"); !ok || r != "Objects/Npc/Guard_Tower.cgf" {
		t.Errorf("Real = %q, %v", r, ok)
	}
}

func TestList(t *testing.T) {
	idx, err := Build(testFS(), ".")
	if err != nil {
		t.Fatal(err)
	}
	names, err := idx.List("objects/npc")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Guard_Tower.cgf" || names[1] != "barrel a.cgf" {
		t.Errorf("List = %v", names)
	}
	root, err := idx.List("")
	if err != nil || len(root) != 2 {
		t.Errorf("root List = %v, %v", root, err)
	}
	if _, err := idx.List("nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing dir: %v", err)
	}
}

func TestBuildSubtree(t *testing.T) {
	idx, err := Build(testFS(), "Objects")
	if err != nil {
		t.Fatal(err)
	}
	if !idx.Exists("npc/barrel a.cgf") {
		t.Error("subtree paths should be relative to root")
	}
}

func TestResolverOverIndex(t *testing.T) {
	idx, err := Build(testFS(), ".")
	if err != nil {
		t.Fatal(err)
	}
	r := &geomap.HeuristicResolver{Lookup: idx, Cache: geomap.NewCache()}
	got, ok := r.Resolve(`objects_npc_barrel_a.cgf`)
	if !ok || got != "Objects/Npc/barrel a.cgf" {
		t.Fatalf("Resolve = %q, %v", got, ok)
	}
	got, ok = r.Resolve(`models\objects_npc_guard_tower.cgf`)
	if !ok || got != "Objects/Npc/Guard_Tower.cgf" {
		t.Errorf("Resolve = %q, %v", got, ok)
	}
}
