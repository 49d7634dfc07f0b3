package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestVegetationCommand(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(16))
	buf.Write(make([]byte, 48))
	in := filepath.Join(dir, "objects.lst")
	if err := os.WriteFile(in, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	cats := filepath.Join(dir, "cats.txt")
	os.WriteFile(cats, []byte("grass\n"), 0o644)

	root := newRootCmd()
	root.SetArgs([]string{"vegetation", "--categories", cats, "-o", filepath.Join(dir, "out"), in})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "objects.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("grass")) {
		t.Errorf("category not joined:\n%s", data)
	}
}

func TestBadImageFormat(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"reencode", "-f", "gif", "x.dds"})
	root.SetErr(new(bytes.Buffer))
	if err := root.Execute(); err == nil {
		t.Error("expected error for unsupported image format")
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "in", "objects.lst")
	os.MkdirAll(filepath.Dir(good), 0o755)
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(16))
	buf.Write(make([]byte, 32))
	os.WriteFile(good, buf.Bytes(), 0o644)

	out := filepath.Join(dir, "out")
	root := newRootCmd()
	root.SetArgs([]string{"batch", "--no-progress", "-w", "2", "-o", out, filepath.Join(dir, "in")})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "manifest.json")); err != nil {
		t.Error(err)
	}
	if _, err := os.Stat(filepath.Join(out, "objects.csv")); err != nil {
		t.Error(err)
	}
}

func TestBatchResolvesMapNames(t *testing.T) {
	dir := t.TempDir()
	game := filepath.Join(dir, "game")
	model := filepath.Join(game, "Objects", "Npc", "Guard_Tower.cgf")
	os.MkdirAll(filepath.Dir(model), 0o755)
	os.WriteFile(model, nil, 0o644)

	var buf bytes.Buffer
	name := `models\objects_npc_guard_tower.cgf`
	binary.Write(&buf, binary.LittleEndian, int32(1))
	binary.Write(&buf, binary.LittleEndian, int16(len(name)))
	buf.WriteString(name)
	binary.Write(&buf, binary.LittleEndian, [13]float32{1, 2, 3, 1, 0, 0, 0, 1, 0, 0, 0, 1})
	in := filepath.Join(dir, "maps", "geomap.dat")
	os.MkdirAll(filepath.Dir(in), 0o755)
	os.WriteFile(in, buf.Bytes(), 0o644)

	out := filepath.Join(dir, "out")
	root := newRootCmd()
	root.SetArgs([]string{"batch", "--no-progress", "--game-dir", game, "-o", out, filepath.Join(dir, "maps")})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	tsv, err := os.ReadFile(filepath.Join(out, "geomap.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(tsv, []byte("Objects/Npc/Guard_Tower.cgf\ttrue")) {
		t.Errorf("name not resolved in batch mode:\n%s", tsv)
	}
}
