// Package api exposes byte-level entry points shared by the CLI helpers and
// the wasm bridge.
package api

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/voxedit/voxel"
)

const DefaultGenerator = "voxtool"

// MeshToGLB writes m as a binary glTF. Each material group becomes one
// primitive over shared position and normal accessors, and every palette
// color gets its own material.
func MeshToGLB(m *voxel.Mesh, generator string) ([]byte, error) {
	doc := buildDocument(m, generator)
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode glb: %w", err)
	}
	return out.Bytes(), nil
}

// ModelToGLB decodes a .voxm container and exports its surface.
func ModelToGLB(model []byte, generator string) ([]byte, error) {
	g, err := voxel.Decode(model)
	if err != nil {
		return nil, err
	}
	return MeshToGLB(voxel.BuildMesh(g), generator)
}

func buildDocument(m *voxel.Mesh, generator string) *gltf.Document {
	if generator == "" {
		generator = DefaultGenerator
	}
	doc := gltf.NewDocument()
	doc.Asset.Generator = generator

	doc.Materials = make([]*gltf.Material, len(m.Palette))
	for i, c := range m.Palette {
		lin := c.Linear()
		rgba := [4]float64{float64(lin[0]), float64(lin[1]), float64(lin[2]), float64(lin[3])}
		mat := &gltf.Material{
			Name: c.Hex(),
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &rgba,
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
			AlphaMode: gltf.AlphaOpaque,
		}
		if c.A() < 0xff {
			mat.AlphaMode = gltf.AlphaBlend
		}
		doc.Materials[i] = mat
	}
	if len(m.Groups) == 0 {
		return doc
	}

	positions := make([][3]float32, len(m.Positions))
	normals := make([][3]float32, len(m.Normals))
	for i := range m.Positions {
		positions[i] = m.Positions[i]
		normals[i] = m.Normals[i]
	}
	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)

	prims := make([]*gltf.Primitive, 0, len(m.Groups))
	for _, gr := range m.Groups {
		indices := make([]uint32, gr.Count)
		for i := range indices {
			indices[i] = uint32(gr.Start + i)
		}
		indicesAccessor := modeler.WriteIndices(doc, indices)
		prims = append(prims, &gltf.Primitive{
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION: posAccessor,
				gltf.NORMAL:   normalAccessor,
			},
			Indices:  gltf.Index(indicesAccessor),
			Material: gltf.Index(gr.Material),
		})
	}
	doc.Meshes = []*gltf.Mesh{{Name: "VoxelMesh", Primitives: prims}}
	off := m.Offset
	doc.Nodes = []*gltf.Node{{
		Name: "Model",
		Mesh: gltf.Index(0),
		// keep grid origin recoverable from the centered mesh
		Extras: map[string]any{"offset": []float32{off[0], off[1], off[2]}},
	}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}
