package voxel

import "github.com/go-gl/mathgl/mgl32"

type faceSpec struct {
	offset  [3]int
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3 // counter-clockwise seen from outside
}

// faces lists the six cube faces in the order their neighbors are tested.
var faces = [6]faceSpec{
	{[3]int{0, 0, 1}, mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{[3]int{0, 0, -1}, mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
	{[3]int{0, 1, 0}, mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{[3]int{0, -1, 0}, mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{[3]int{1, 0, 0}, mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{[3]int{-1, 0, 0}, mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
}

// quadOrder splits a face into two triangles.
var quadOrder = [6]int{0, 1, 2, 0, 2, 3}

func addFace(m *Mesh, f *faceSpec, base mgl32.Vec3) {
	for _, c := range quadOrder {
		m.Positions = append(m.Positions, base.Add(f.corners[c]))
		m.Normals = append(m.Normals, f.normal)
	}
}
