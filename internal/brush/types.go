package brush

import "github.com/keyhom/io-scene-cgf-extras/internal/chunk"

// Brush is one entry of the metadata segment.
type Brush struct {
	Name    string     // source geometry filename
	TypeTag int32      // collision type, meaning unconfirmed
	BBox    [6]float32 // min xyz, max xyz
}

// Instance is one placed brush.
type Instance struct {
	Header     [2]int32
	BrushIndex int32 // index into Table.Brushes
	Flags      [2][4]byte
	Reserved   int32
	Transform  [12]float32 // 3×4, as stored
	IDs        [4]int32
}

// Table is a decoded brush table.
type Table struct {
	Signature string
	Header    [2]int32
	Names     []string // first segment, brush source names
	Brushes   []Brush
	Instances []Instance
	Warnings  []chunk.PartialDataWarning
}

// BrushOf returns the metadata entry an instance refers to.
func (t *Table) BrushOf(in Instance) Brush {
	return t.Brushes[in.BrushIndex]
}
