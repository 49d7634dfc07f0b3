package brush

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var brushHeader = []string{"#", "fileName", "collision type?", "bb_x1", "bb_y1", "bb_z1", "bb_x2", "bb_y2", "bb_z2"}

var instanceHeader = []string{
	"#", "fileName", "h0", "h1", "brush",
	"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7",
	"reserved",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9", "t10", "t11",
	"id0", "id1", "id2", "id3",
}

// WriteBrushCSV writes the metadata segment, numbered from 1.
func WriteBrushCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(brushHeader); err != nil {
		return err
	}
	for i, b := range t.Brushes {
		row := []string{strconv.Itoa(i + 1), b.Name, strconv.Itoa(int(b.TypeTag))}
		for _, f := range b.BBox {
			row = append(row, formatFloat(f))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInstanceCSV writes one row per instance with its brush filename,
// flags in hex.
func WriteInstanceCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(instanceHeader); err != nil {
		return err
	}
	row := make([]string, 0, len(instanceHeader))
	for i, in := range t.Instances {
		row = row[:0]
		row = append(row,
			strconv.Itoa(i+1),
			t.BrushOf(in).Name,
			strconv.Itoa(int(in.Header[0])),
			strconv.Itoa(int(in.Header[1])),
			strconv.Itoa(int(in.BrushIndex)),
		)
		for _, g := range in.Flags {
			for _, b := range g {
				row = append(row, fmt.Sprintf("%x", b))
			}
		}
		row = append(row, strconv.Itoa(int(in.Reserved)))
		for _, f := range in.Transform {
			row = append(row, formatFloat(f))
		}
		for _, id := range in.IDs {
			row = append(row, strconv.Itoa(int(id)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 32)
}
