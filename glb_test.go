package floorplan

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAccessor walks an accessor's buffer view and hands each element to
// process as a typed pointer.
func readAccessor(t *testing.T, doc *gltf.Document, acc *gltf.Accessor, process func(interface{})) {
	t.Helper()
	require.NotNil(t, acc.BufferView)
	bv := doc.BufferViews[*acc.BufferView]
	buffer := doc.Buffers[bv.Buffer]
	bf := bytes.NewBuffer(buffer.Data[int(bv.ByteOffset+acc.ByteOffset):int(bv.ByteOffset+bv.ByteLength)])

	var fcs interface{}
	switch acc.Type {
	case gltf.AccessorVec3:
		fcs = &[3]float32{}
	case gltf.AccessorVec4:
		fcs = &[4]float32{}
	case gltf.AccessorScalar:
		if acc.ComponentType == gltf.ComponentUshort {
			n := uint16(0)
			fcs = &n
		} else {
			n := uint32(0)
			fcs = &n
		}
	default:
		t.Fatalf("unexpected accessor type %v", acc.Type)
	}
	for i := 0; i < int(acc.Count); i++ {
		require.NoError(t, binary.Read(bf, binary.LittleEndian, fcs))
		process(fcs)
	}
}

func readIndices(t *testing.T, doc *gltf.Document, acc *gltf.Accessor) []uint32 {
	t.Helper()
	var out []uint32
	readAccessor(t, doc, acc, func(res interface{}) {
		switch v := res.(type) {
		case *uint16:
			out = append(out, uint32(*v))
		case *uint32:
			out = append(out, *v)
		}
	})
	return out
}

func decodeGLB(t *testing.T, blob []byte) *gltf.Document {
	t.Helper()
	doc := new(gltf.Document)
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(blob)).Decode(doc))
	return doc
}

func TestExportGLBHeader(t *testing.T) {
	scene, err := NewConverter().Assemble(testPlan())
	require.NoError(t, err)
	blob, err := ExportGLB(scene)
	require.NoError(t, err)

	require.Greater(t, len(blob), 12)
	assert.Equal(t, "glTF", string(blob[:4]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(blob[4:8]))
	assert.Equal(t, uint32(len(blob)), binary.LittleEndian.Uint32(blob[8:12]))
	assert.Zero(t, len(blob)%4, "GLB chunks must be 4-byte aligned")
}

func TestExportGLBEndToEnd(t *testing.T) {
	// One square room and one door, per-object colors, 12 triangles each.
	plan := &Plan{
		ApartmentID: "ap-e2e",
		Areas: []*Element{{
			EntityType:    "area",
			EntitySubtype: "ROOM",
			Footprint:     Footprint{{0, 0}, {4, 0}, {4, 3}, {0, 3}},
			Elevation:     0,
			Height:        2.6,
		}},
		Openings: []*Element{{
			EntityType:    "opening",
			EntitySubtype: "DOOR",
			Footprint:     Footprint{{1, 0}, {1.2, 0}, {1.2, 0.1}, {1, 0.1}},
			Elevation:     0,
			Height:        2.0,
		}},
	}
	blob, err := NewConverter().ConvertPlan(plan)
	require.NoError(t, err)

	doc := decodeGLB(t, blob)
	require.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Meshes, 2)
	require.Len(t, doc.Scenes, 1)
	assert.Len(t, doc.Scenes[0].Nodes, 2)

	wantColors := []RGBA{
		{0.9, 1.0, 0.9, 1.0}, // light green room
		{0.6, 0.4, 0.2, 1.0}, // brown door
	}
	for i, mesh := range doc.Meshes {
		require.Len(t, mesh.Primitives, 1)
		prim := mesh.Primitives[0]

		idx := readIndices(t, doc, doc.Accessors[*prim.Indices])
		assert.Len(t, idx, 12*3, "2(N-2)+2N triangles for a 4-vertex ring")

		var colors [][4]float32
		readAccessor(t, doc, doc.Accessors[prim.Attributes["COLOR_0"]], func(res interface{}) {
			colors = append(colors, *res.(*[4]float32))
		})
		require.Len(t, colors, 8)
		for _, c := range colors {
			assert.Equal(t, [4]float32(wantColors[i]), c)
		}
	}
}

func TestExportGLBRoundTrip(t *testing.T) {
	scene, err := NewConverter().Assemble(testPlan())
	require.NoError(t, err)
	blob, err := ExportGLB(scene)
	require.NoError(t, err)

	doc := decodeGLB(t, blob)
	require.Len(t, doc.Nodes, len(scene.Nodes))

	for i, node := range scene.Nodes {
		gnode := doc.Nodes[i]
		assert.Equal(t, node.Name, gnode.Name)
		require.NotNil(t, gnode.Mesh)

		prim := doc.Meshes[*gnode.Mesh].Primitives[0]

		var positions [][3]float32
		readAccessor(t, doc, doc.Accessors[prim.Attributes["POSITION"]], func(res interface{}) {
			positions = append(positions, *res.(*[3]float32))
		})
		require.Len(t, positions, len(node.Mesh.Vertices))
		for j, v := range node.Mesh.Vertices {
			assert.Equal(t, [3]float32(v), positions[j])
		}

		idx := readIndices(t, doc, doc.Accessors[*prim.Indices])
		require.Len(t, idx, len(node.Mesh.Faces)*3)
		for j, f := range node.Mesh.Faces {
			assert.Equal(t, f, [3]uint32{idx[3*j], idx[3*j+1], idx[3*j+2]})
		}
	}
}

func TestExportGLBNodeExtras(t *testing.T) {
	scene, err := NewConverter().Assemble(testPlan())
	require.NoError(t, err)
	blob, err := ExportGLB(scene)
	require.NoError(t, err)

	doc := decodeGLB(t, blob)
	extras, ok := doc.Nodes[0].Extras.(map[string]interface{})
	require.True(t, ok, "node extras should decode as a JSON object")
	assert.Equal(t, "area", extras["entity_type"])
	assert.Equal(t, "BEDROOM", extras["entity_subtype"])
	assert.Equal(t, 2.6, extras["height"])
}

func TestExportGLBMaterials(t *testing.T) {
	plan := testPlan()
	plan.Openings = append(plan.Openings, &Element{
		EntityType:    "opening",
		EntitySubtype: "WINDOW",
		Footprint:     Footprint{{3, 3}, {3.8, 3}, {3.8, 3.1}, {3, 3.1}},
		Elevation:     0.9,
		Height:        1.2,
	})
	scene, err := NewConverter().Assemble(plan)
	require.NoError(t, err)
	blob, err := ExportGLB(scene)
	require.NoError(t, err)

	doc := decodeGLB(t, blob)
	require.Len(t, doc.Materials, len(scene.Nodes))

	window := doc.Materials[len(doc.Materials)-1]
	require.NotNil(t, window.PBRMetallicRoughness.BaseColorFactor)
	assert.Equal(t, gltf.AlphaBlend, window.AlphaMode)
	assert.Equal(t, [4]float32{0.7, 0.9, 1.0, 0.5}, *window.PBRMetallicRoughness.BaseColorFactor)
	require.NotNil(t, window.PBRMetallicRoughness.MetallicFactor)
	assert.Equal(t, float32(0), *window.PBRMetallicRoughness.MetallicFactor)
	require.NotNil(t, window.PBRMetallicRoughness.RoughnessFactor)
	assert.Equal(t, float32(1), *window.PBRMetallicRoughness.RoughnessFactor)

	bedroom := doc.Materials[0]
	require.NotNil(t, bedroom.PBRMetallicRoughness.BaseColorFactor)
	assert.InDelta(t, 1.0, bedroom.PBRMetallicRoughness.BaseColorFactor[3], 1e-6)
}

func TestExportGLBEmptyScene(t *testing.T) {
	_, err := ExportGLB(nil)
	assert.ErrorIs(t, err, ErrExport)
	_, err = ExportGLB(&Scene{})
	assert.ErrorIs(t, err, ErrExport)
}
