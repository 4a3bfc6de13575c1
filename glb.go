package floorplan

import (
	"bytes"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const glbGenerator = "flywave/go-floorplan"

// ExportGLB serializes the scene into a binary glTF 2.0 container. Every
// node keeps its own position, color and index buffers so a downstream
// viewer can select, hide or query one element independently; nothing is
// merged or deduplicated across nodes. Element metadata travels in the
// node extras, keyed the same way the source rows are.
func ExportGLB(scene *Scene) ([]byte, error) {
	if scene == nil || len(scene.Nodes) == 0 {
		return nil, fmt.Errorf("%w: empty scene", ErrExport)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = glbGenerator

	for _, node := range scene.Nodes {
		mesh := node.Mesh

		positions := make([][3]float32, len(mesh.Vertices))
		colors := make([][4]float32, len(mesh.Vertices))
		for i, v := range mesh.Vertices {
			positions[i] = v
			colors[i] = mesh.Color
		}
		indices := make([]uint32, 0, len(mesh.Faces)*3)
		for _, f := range mesh.Faces {
			indices = append(indices, f[0], f[1], f[2])
		}

		posAcc := modeler.WritePosition(doc, positions)
		colAcc := modeler.WriteColor(doc, colors)
		idxAcc := modeler.WriteIndices(doc, indices)

		mtlIdx := uint32(len(doc.Materials))
		doc.Materials = append(doc.Materials, materialFor(node))

		meshIdx := uint32(len(doc.Meshes))
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: node.Name,
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(idxAcc),
				Attributes: map[string]uint32{
					"POSITION": posAcc,
					"COLOR_0":  colAcc,
				},
				Material: gltf.Index(mtlIdx),
			}},
		})

		nodeIdx := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:   node.Name,
			Mesh:   gltf.Index(meshIdx),
			Extras: node.Extras,
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIdx)
	}

	// The GLB chunk length field is a uint32.
	for _, buf := range doc.Buffers {
		if uint64(len(buf.Data)) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: binary chunk exceeds uint32 length", ErrExport)
		}
	}

	var out bytes.Buffer
	if err := gltf.NewEncoder(&out).Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	return out.Bytes(), nil
}

// materialFor mirrors the node's uniform vertex color as the PBR base
// color so viewers that ignore COLOR_0 still show category colors.
// Translucent categories (windows) get alpha blending.
func materialFor(node *Node) *gltf.Material {
	c := node.Mesh.Color
	metallic, roughness := float32(0), float32(1)
	mtl := &gltf.Material{
		Name: node.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{c[0], c[1], c[2], c[3]},
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
		DoubleSided: true,
	}
	if c[3] < 1 {
		mtl.AlphaMode = gltf.AlphaBlend
	}
	return mtl
}
