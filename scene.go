package floorplan

import (
	"errors"
	"fmt"
)

// Node is one selectable object in the exported scene: a named mesh plus
// the metadata of the element it was built from.
type Node struct {
	Name   string
	Mesh   *Mesh
	Extras map[string]interface{}
}

// Scene is an ordered collection of nodes. It is assembled once and only
// read afterwards.
type Scene struct {
	Nodes []*Node

	// Skipped counts elements dropped for invalid geometry.
	Skipped int
}

// Converter builds scenes from plans and serializes them to GLB.
type Converter struct {
	palette Palette
}

// NewConverter returns a converter using the built-in palette.
func NewConverter() *Converter {
	return &Converter{palette: DefaultPalette()}
}

// NewConverterWithPalette returns a converter with a custom category
// palette.
func NewConverterWithPalette(p Palette) *Converter {
	return &Converter{palette: p}
}

// buildNode meshes a single element. group is the entity group prefix,
// idx the element's index within its group and counter the number of
// nodes already in the scene; together with the area id they keep node
// names unique.
func (c *Converter) buildNode(group string, idx, counter int, el *Element) (*Node, error) {
	color := c.palette.Resolve(el.EntitySubtype, el.EntityType)
	mesh, err := Extrude(el.Footprint, el.Elevation, el.Height, color)
	if err != nil {
		return nil, err
	}

	subtype := el.EntitySubtype
	if subtype == "" {
		subtype = "unknown"
	}
	var name string
	if group == EntityArea && el.AreaID != nil {
		name = fmt.Sprintf("%s_%d_%s_%v", group, idx, subtype, *el.AreaID)
	} else {
		name = fmt.Sprintf("%s_%d_%s_%d", group, idx, subtype, counter)
	}

	return &Node{
		Name: name,
		Mesh: mesh,
		Extras: map[string]interface{}{
			"entity_type":    el.EntityType,
			"entity_subtype": el.EntitySubtype,
			"roomtype":       el.RoomType,
			"zoning":         el.Zoning,
			"elevation":      el.Elevation,
			"height":         el.Height,
			"area_id":        el.AreaID,
			"unit_id":        el.UnitID,
			"coordinates":    el.Coordinates(),
		},
	}, nil
}

// Assemble meshes every element of the plan in render order: areas, then
// separators, then openings. Elements whose footprint cannot be extruded
// are skipped so sparse source data does not abort the conversion; the
// scene fails only when nothing at all was produced.
func (c *Converter) Assemble(plan *Plan) (*Scene, error) {
	scene := &Scene{}
	groups := []struct {
		name     string
		elements []*Element
	}{
		{EntityArea, plan.Areas},
		{EntitySeparator, plan.Separators},
		{EntityOpening, plan.Openings},
	}
	for _, group := range groups {
		for idx, el := range group.elements {
			node, err := c.buildNode(group.name, idx, len(scene.Nodes), el)
			if err != nil {
				if errors.Is(err, ErrInvalidGeometry) {
					scene.Skipped++
					continue
				}
				return nil, err
			}
			scene.Nodes = append(scene.Nodes, node)
		}
	}
	if len(scene.Nodes) == 0 {
		return nil, fmt.Errorf("%w: %d elements skipped", ErrEmptyScene, scene.Skipped)
	}
	return scene, nil
}

// ConvertPlan assembles a plan and exports it as a GLB blob. This is the
// single entry point the HTTP layer calls.
func (c *Converter) ConvertPlan(plan *Plan) ([]byte, error) {
	scene, err := c.Assemble(plan)
	if err != nil {
		return nil, err
	}
	return ExportGLB(scene)
}

// ConvertPolygon exports one extruded footprint on its own. A nil color
// selects the palette default.
func (c *Converter) ConvertPolygon(footprint Footprint, elevation, height float64, color *RGBA) ([]byte, error) {
	cl := c.palette.Resolve("", "")
	if color != nil {
		cl = *color
	}
	mesh, err := Extrude(footprint, elevation, height, cl)
	if err != nil {
		return nil, err
	}
	return ExportGLB(&Scene{Nodes: []*Node{{Name: "polygon_0", Mesh: mesh}}})
}
