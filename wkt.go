package floorplan

import (
	"fmt"

	dvec2 "github.com/flywave/go3d/float64/vec2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ParseFootprint parses a WKT POLYGON and returns its exterior ring,
// closing point included. Interior rings are ignored; any other geometry
// type is rejected.
func ParseFootprint(s string) (Footprint, error) {
	geom, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	poly, ok := geom.(orb.Polygon)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a polygon", ErrInvalidGeometry, geom.GeoJSONType())
	}
	if len(poly) == 0 {
		return nil, fmt.Errorf("%w: polygon has no exterior ring", ErrInvalidGeometry)
	}
	ring := make(Footprint, 0, len(poly[0]))
	for _, pt := range poly[0] {
		ring = append(ring, dvec2.T{pt[0], pt[1]})
	}
	return ring, nil
}
