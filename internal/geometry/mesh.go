package geometry

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/keyhom/io-scene-cgf-extras/internal/chunk"
)

const nameSize = 256

// Mesh is a raw triangle chunk as stored by the world editor.
type Mesh struct {
	Name      string
	Type      int32
	Vertices  []mgl32.Vec3
	Triangles [][3]uint16 // indices into Vertices
}

// ReadFile reads and decodes a geometry chunk from disk.
func ReadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geometry: read %s: %w", path, err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("geometry: %s: %w", path, err)
	}
	return m, nil
}

// Decode parses name:256B, type:i32, vcount:i32, vcount × 3×f32,
// tricount:i32, tricount × 3×u16. The buffer must be consumed exactly.
func Decode(data []byte) (*Mesh, error) {
	r := chunk.NewReader(data)

	name, err := r.FixedString(nameSize)
	if err != nil {
		return nil, err
	}
	typ, err := r.I32()
	if err != nil {
		return nil, err
	}
	vcount, err := readCount(r, 12, "vertex")
	if err != nil {
		return nil, err
	}

	verts := make([]mgl32.Vec3, vcount)
	var v [3]float32
	for i := range verts {
		if err := r.F32s(v[:]); err != nil {
			return nil, err
		}
		verts[i] = mgl32.Vec3(v)
	}

	tcount, err := readCount(r, 6, "triangle")
	if err != nil {
		return nil, err
	}
	tris := make([][3]uint16, tcount)
	for i := range tris {
		off := r.Pos()
		for k := 0; k < 3; k++ {
			idx, err := r.U16()
			if err != nil {
				return nil, err
			}
			if int(idx) >= vcount {
				return nil, chunk.Formatf(off, "triangle %d: index %d out of range (%d vertices)", i, idx, vcount)
			}
			tris[i][k] = idx
		}
	}

	if r.Remaining() != 0 {
		return nil, chunk.Formatf(r.Pos(), "%d bytes remain after last triangle", r.Remaining())
	}

	return &Mesh{Name: name, Type: typ, Vertices: verts, Triangles: tris}, nil
}

// readCount reads an i32 element count and checks that count*size bytes are
// available before anything is allocated.
func readCount(r *chunk.Reader, size int, what string) (int, error) {
	off := r.Pos()
	n, err := r.I32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, chunk.Formatf(off, "negative %s count %d", what, n)
	}
	if int64(n)*int64(size) > int64(r.Remaining()) {
		return 0, &chunk.TruncatedError{Offset: r.Pos(), Need: int(n) * size, Have: r.Remaining()}
	}
	return int(n), nil
}

// Bounds returns the component-wise min and max vertex.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max
}

// WriteOBJ writes m as a Wavefront OBJ object.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	name := m.Name
	if name == "" {
		name = "mesh"
	}
	fmt.Fprintf(bw, "# type %d\no %s\n", m.Type, name)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X(), v.Y(), v.Z())
	}
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "f %d %d %d\n", int(t[0])+1, int(t[1])+1, int(t[2])+1)
	}
	return bw.Flush()
}
