package floorplan

import "errors"

var (
	// ErrInvalidGeometry marks a footprint that cannot be extruded. The
	// assembler treats it as a per-element condition and skips the element.
	ErrInvalidGeometry = errors.New("floorplan: invalid geometry")

	// ErrEmptyScene is returned when no element in a plan produced a mesh.
	ErrEmptyScene = errors.New("floorplan: scene has no meshes")

	// ErrExport marks a failure while serializing the binary container.
	ErrExport = errors.New("floorplan: glb export failed")
)
