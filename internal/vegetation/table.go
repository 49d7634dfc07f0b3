package vegetation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/keyhom/io-scene-cgf-extras/internal/chunk"
)

// WorldHalfExtent is the half size of the world the coordinates are
// quantized against.
const WorldHalfExtent = 1536.0

// recordSize is the number of meaningful bytes at the start of each slot.
const recordSize = 3*2 + 1 + 9

// Instance is one quantized vegetation placement.
type Instance struct {
	Position [3]uint16
	TypeID   uint8
	Attrs    [9]uint8
}

// Dequantize maps a stored coordinate to world units.
func Dequantize(raw uint16) float32 {
	return float32(float64(raw) / 65535.0 * 2.0 * WorldHalfExtent)
}

// World returns the dequantized position.
func (in Instance) World() mgl32.Vec3 {
	return mgl32.Vec3{Dequantize(in.Position[0]), Dequantize(in.Position[1]), Dequantize(in.Position[2])}
}

// Table is a decoded vegetation table.
type Table struct {
	RecordSize int
	Instances  []Instance
	Categories []string // per instance, set only when a side-table was joined
}

// Options controls Decode.
type Options struct {
	// Categories is indexed directly by Instance.TypeID.
	Categories []string
}

// ReadFile reads and decodes a vegetation table from disk.
func ReadFile(path string, opts Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vegetation: read %s: %w", path, err)
	}
	t, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("vegetation: %s: %w", path, err)
	}
	return t, nil
}

// Decode parses record_size:i32 followed by fixed-size slots. The final slot
// is reserved by the format and skipped.
func Decode(data []byte, opts Options) (*Table, error) {
	r := chunk.NewReader(data)
	size, err := r.I32()
	if err != nil {
		return nil, err
	}
	if size < recordSize {
		return nil, chunk.Formatf(0, "record size %d smaller than %d", size, recordSize)
	}
	body := r.Remaining()
	if body%int(size) != 0 {
		return nil, chunk.Formatf(r.Pos(), "%d bytes of records not divisible by record size %d", body, size)
	}

	slots := body / int(size)
	n := slots - 1
	if n < 0 {
		n = 0
	}
	t := &Table{RecordSize: int(size), Instances: make([]Instance, n)}
	for i := range t.Instances {
		slot, err := r.View(int(size))
		if err != nil {
			return nil, err
		}
		t.Instances[i] = decodeSlot(slot)
	}

	if opts.Categories != nil {
		t.Categories = make([]string, n)
		for i, in := range t.Instances {
			if int(in.TypeID) >= len(opts.Categories) {
				return nil, chunk.Formatf(4+i*int(size)+6, "instance %d: object type %d outside category table of %d", i, in.TypeID, len(opts.Categories))
			}
			t.Categories[i] = opts.Categories[in.TypeID]
		}
	}
	return t, nil
}

func decodeSlot(b []byte) Instance {
	var in Instance
	for k := range in.Position {
		in.Position[k] = uint16(b[k*2]) | uint16(b[k*2+1])<<8
	}
	in.TypeID = b[6]
	copy(in.Attrs[:], b[7:recordSize])
	return in
}

// LoadCategories reads a category side-table: one name per line, the line
// number being the object type id. Blank lines keep their slot.
func LoadCategories(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out = append(out, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("vegetation: categories: %w", err)
	}
	return out, nil
}
