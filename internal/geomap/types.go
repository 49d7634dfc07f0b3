package geomap

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PlacedObject is one record of a placement map.
type PlacedObject struct {
	NameRef  string     // stored reference, backslash separated
	Position mgl32.Vec3 // world position
	Rotation [9]float32 // 3×3, row-major as stored
	Tail     float32    // reserved, not interpreted
}

// Matrix returns the rotation with the stored rows as matrix rows.
func (o PlacedObject) Matrix() mgl32.Mat3 {
	r := o.Rotation
	return mgl32.Mat3FromRows(
		mgl32.Vec3{r[0], r[1], r[2]},
		mgl32.Vec3{r[3], r[4], r[5]},
		mgl32.Vec3{r[6], r[7], r[8]},
	)
}

// Transposed returns the rotation read column-major, the orientation one of
// the scene importers consumed.
func (o PlacedObject) Transposed() mgl32.Mat3 {
	return o.Matrix().Transpose()
}

// BoundingBox is an axis-aligned box accumulated over positions.
type BoundingBox struct {
	Min   mgl32.Vec3
	Max   mgl32.Vec3
	Valid bool // false until the first point is added
}

// Extend grows the box to include p.
func (b *BoundingBox) Extend(p mgl32.Vec3) {
	if !b.Valid {
		b.Min, b.Max, b.Valid = p, p, true
		return
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
}

// Contains reports whether p lies inside the box, bounds included.
func (b BoundingBox) Contains(p mgl32.Vec3) bool {
	if !b.Valid {
		return false
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Map is a decoded placement map.
type Map struct {
	Count   int            // record count from the header
	Objects []PlacedObject // records accepted by the filter
	Bounds  BoundingBox    // over all Count records
}
