// Package floorplan converts labeled 2D building-element footprints into a
// renderable GLB scene with one selectable mesh per element.
package floorplan

import (
	dvec2 "github.com/flywave/go3d/float64/vec2"
)

// Entity group names as they appear in the source data.
const (
	EntityArea      = "area"
	EntitySeparator = "separator"
	EntityOpening   = "opening"
)

// Footprint is a closed 2D ring seen from above. A duplicated closing
// point is tolerated; winding is taken as provided.
type Footprint []dvec2.T

// Ring returns the footprint without a duplicated closing point.
func (f Footprint) Ring() Footprint {
	if len(f) > 1 && f[0] == f[len(f)-1] {
		return f[:len(f)-1]
	}
	return f
}

// Valid reports whether the footprint has enough vertices to extrude.
func (f Footprint) Valid() bool {
	return len(f.Ring()) >= 3
}

// Element is one building-element row: a footprint plus vertical extent
// and the attributes carried through to the exported node unmodified.
type Element struct {
	EntityType    string
	EntitySubtype string
	Footprint     Footprint
	Elevation     float64
	Height        float64
	RoomType      string
	Zoning        string
	AreaID        *float64
	UnitID        *float64
}

// Coordinates returns the raw 2D ring for metadata export.
func (e *Element) Coordinates() [][2]float64 {
	coords := make([][2]float64, 0, len(e.Footprint))
	for _, p := range e.Footprint {
		coords = append(coords, [2]float64{p[0], p[1]})
	}
	return coords
}

// Plan groups the elements of one apartment in render order.
type Plan struct {
	ApartmentID string
	Areas       []*Element
	Separators  []*Element
	Openings    []*Element
}

// TotalElements counts the elements across all groups.
func (p *Plan) TotalElements() int {
	return len(p.Areas) + len(p.Separators) + len(p.Openings)
}
