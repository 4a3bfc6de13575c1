package floorplan

import (
	"fmt"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
)

// Mesh is a closed triangle mesh with one uniform vertex color.
type Mesh struct {
	Vertices []vec3.T
	Faces    [][3]uint32
	Color    RGBA
}

// BoundingBox returns [minx, miny, minz, maxx, maxy, maxz].
func (m *Mesh) BoundingBox() *[6]float64 {
	bbox := vec3d.MinBox
	for _, v := range m.Vertices {
		p := vec3d.T{float64(v[0]), float64(v[1]), float64(v[2])}
		bbox.Extend(&p)
	}
	return bbox.Array()
}

// Extrude lifts a closed 2D ring into a triangular prism between
// z = elevation and z = elevation + height. For a ring of N vertices the
// result has 2N vertices and 2(N-2)+2N faces: two fan-triangulated caps
// (the bottom one with reversed indices so its normal points down) plus
// two triangles per side edge.
//
// Fan triangulation of the caps is only correct for convex rings;
// concave footprints yield overlapping cap triangles. That limitation is
// accepted here, architectural footprints are expected to be simple
// enough.
func Extrude(footprint Footprint, elevation, height float64, color RGBA) (*Mesh, error) {
	ring := footprint.Ring()
	n := len(ring)
	if n < 3 {
		return nil, fmt.Errorf("%w: %d vertices after closing-point removal", ErrInvalidGeometry, n)
	}

	mesh := &Mesh{
		Vertices: make([]vec3.T, 0, 2*n),
		Faces:    make([][3]uint32, 0, 2*(n-2)+2*n),
		Color:    color,
	}

	// Bottom ring at the base elevation, top ring offset by n.
	for _, p := range ring {
		mesh.Vertices = append(mesh.Vertices, vec3.T{float32(p[0]), float32(p[1]), float32(elevation)})
	}
	for _, p := range ring {
		mesh.Vertices = append(mesh.Vertices, vec3.T{float32(p[0]), float32(p[1]), float32(elevation + height)})
	}

	// Bottom cap, fanned over the reversed index list so the face normal
	// points down.
	rev := make([]uint32, n)
	for i := range rev {
		rev[i] = uint32(n - 1 - i)
	}
	for i := 1; i < n-1; i++ {
		mesh.Faces = append(mesh.Faces, [3]uint32{0, rev[i+1], rev[i]})
	}

	// Top cap, fanned from the first top vertex.
	for i := 1; i < n-1; i++ {
		mesh.Faces = append(mesh.Faces, [3]uint32{uint32(n), uint32(n + i), uint32(n + i + 1)})
	}

	// Side walls, one quad split into two triangles per ring edge.
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		mesh.Faces = append(mesh.Faces,
			[3]uint32{uint32(i), uint32(next), uint32(n + i)},
			[3]uint32{uint32(next), uint32(n + next), uint32(n + i)})
	}

	return mesh, nil
}
