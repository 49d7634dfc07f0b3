package vegetation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes x,y,z,id[,category],a0..a8 per instance, attributes in hex.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	header := []string{"x", "y", "z", "id"}
	if t.Categories != nil {
		header = append(header, "category")
	}
	for k := 0; k < 9; k++ {
		header = append(header, fmt.Sprintf("a%d", k))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for i, in := range t.Instances {
		row = row[:0]
		p := in.World()
		for k := 0; k < 3; k++ {
			row = append(row, strconv.FormatFloat(float64(p[k]), 'f', 6, 32))
		}
		row = append(row, strconv.Itoa(int(in.TypeID)))
		if t.Categories != nil {
			row = append(row, t.Categories[i])
		}
		for _, a := range in.Attrs {
			row = append(row, strconv.FormatUint(uint64(a), 16))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
