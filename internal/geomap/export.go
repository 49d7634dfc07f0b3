package geomap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// TableHeader is the column order of the placement table. Downstream
// spreadsheets key on column position, so the order is fixed.
var TableHeader = []string{
	"index", "name", "resolved", "x", "y", "z",
	"m00", "m01", "m02", "m10", "m11", "m12", "m20", "m21", "m22",
	"unknown",
}

// WriteTable writes one row per emitted object. res may be nil, in which
// case stored names are written and resolved is false. comma selects the
// separator; the legacy dumps used a tab.
func WriteTable(w io.Writer, m *Map, res []Resolution, comma rune) error {
	if res != nil && len(res) != len(m.Objects) {
		return fmt.Errorf("geomap: %d resolutions for %d objects", len(res), len(m.Objects))
	}
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(TableHeader); err != nil {
		return err
	}

	row := make([]string, len(TableHeader))
	for i, o := range m.Objects {
		name, resolved := o.NameRef, false
		if res != nil {
			name, resolved = res[i].Path, res[i].Resolved
		}
		row[0] = strconv.Itoa(i)
		row[1] = name
		row[2] = strconv.FormatBool(resolved)
		for k := 0; k < 3; k++ {
			row[3+k] = formatFloat(o.Position[k])
		}
		for k := 0; k < 9; k++ {
			row[6+k] = formatFloat(o.Rotation[k])
		}
		row[15] = formatFloat(o.Tail)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
