package voxel_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxedit/voxel"
)

func TestBuildMesh_Empty(t *testing.T) {
	m := voxel.BuildMesh(mustGrid(t, 3, 3, 3))
	if len(m.Positions) != 0 || len(m.Groups) != 0 {
		t.Fatalf("empty grid produced %d vertices, %d groups", len(m.Positions), len(m.Groups))
	}
}

func TestBuildMesh_SingleCube(t *testing.T) {
	g := mustGrid(t, 1, 1, 1)
	g.Set(0, 0, 0, voxel.Paint(red))
	m := voxel.BuildMesh(g)
	if m.Faces() != 6 || m.Triangles() != 12 {
		t.Fatalf("faces=%d triangles=%d", m.Faces(), m.Triangles())
	}
	if len(m.Normals) != len(m.Positions) {
		t.Fatalf("normals=%d positions=%d", len(m.Normals), len(m.Positions))
	}
	lo, hi := m.Bounds()
	if lo != (mgl32.Vec3{-0.5, -0.5, -0.5}) || hi != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Fatalf("bounds %v..%v not centered", lo, hi)
	}
	if m.Offset != (mgl32.Vec3{-0.5, -0.5, -0.5}) {
		t.Fatalf("offset=%v", m.Offset)
	}
}

func TestBuildMesh_Winding(t *testing.T) {
	g := mustGrid(t, 1, 1, 1)
	g.Set(0, 0, 0, voxel.Paint(red))
	m := voxel.BuildMesh(g)
	for i := 0; i < len(m.Positions); i += 3 {
		a, b, c := m.Positions[i], m.Positions[i+1], m.Positions[i+2]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Dot(m.Normals[i]) <= 0 {
			t.Fatalf("triangle %d winds against its normal %v", i/3, m.Normals[i])
		}
	}
}

func TestBuildMesh_SharedFaceCulled(t *testing.T) {
	g := mustGrid(t, 2, 1, 1)
	g.Set(0, 0, 0, voxel.Paint(red))
	g.Set(1, 0, 0, voxel.Paint(red))
	m := voxel.BuildMesh(g)
	if m.Faces() != 10 {
		t.Fatalf("faces=%d want 10", m.Faces())
	}
	if len(m.Groups) != 1 || m.Groups[0].Count != len(m.Positions) {
		t.Fatalf("groups=%+v", m.Groups)
	}
}

func TestBuildMesh_GroupsByColor(t *testing.T) {
	blue := voxel.Color(0x0000ffff)
	g := mustGrid(t, 3, 1, 1)
	g.Set(0, 0, 0, voxel.Paint(blue))
	g.Set(1, 0, 0, voxel.Paint(red))
	g.Set(2, 0, 0, voxel.Paint(blue))
	m := voxel.BuildMesh(g)
	if len(m.Groups) != 2 {
		t.Fatalf("groups=%+v", m.Groups)
	}
	total, next := 0, 0
	for _, gr := range m.Groups {
		if gr.Start != next || gr.Count%3 != 0 {
			t.Fatalf("groups not contiguous: %+v", m.Groups)
		}
		next = gr.Start + gr.Count
		total += gr.Count
	}
	if total != len(m.Positions) {
		t.Fatalf("groups cover %d of %d vertices", total, len(m.Positions))
	}
	// faces: each end cube 5, middle 4
	if m.Faces() != 14 {
		t.Fatalf("faces=%d want 14", m.Faces())
	}
	if m.Palette[m.Groups[0].Material] != blue || m.Groups[0].Count != 10*6 {
		t.Fatalf("first group=%+v", m.Groups[0])
	}
}

func TestBuildMesh_Translucency(t *testing.T) {
	glass := voxel.Color(0x00ff0080)
	g := mustGrid(t, 2, 1, 1)
	g.Set(0, 0, 0, voxel.Paint(red))
	g.Set(1, 0, 0, voxel.Paint(glass))
	m := voxel.BuildMesh(g)
	// the opaque cube shows its face toward the glass, the glass hides its
	// face toward the opaque cube
	if m.Faces() != 11 {
		t.Fatalf("faces=%d want 11", m.Faces())
	}
	counts := map[voxel.Color]int{}
	for _, gr := range m.Groups {
		counts[m.Palette[gr.Material]] += gr.Count / 6
	}
	if counts[red] != 6 || counts[glass] != 5 {
		t.Fatalf("faces per color=%v", counts)
	}
}

func TestMeshify_Validates(t *testing.T) {
	size := voxel.Size{W: 2, H: 1, D: 1}
	palette := []voxel.Color{voxel.Transparent, red}
	if _, err := voxel.Meshify([]int{0}, palette, size); err == nil {
		t.Fatalf("short index list accepted")
	}
	if _, err := voxel.Meshify([]int{0, 2}, palette, size); err == nil {
		t.Fatalf("index outside palette accepted")
	}
	if _, err := voxel.Meshify(nil, palette, voxel.Size{}); err == nil {
		t.Fatalf("empty size accepted")
	}
	m, err := voxel.Meshify([]int{0, 1}, palette, size)
	if err != nil {
		t.Fatalf("Meshify: %v", err)
	}
	if m.Faces() != 6 {
		t.Fatalf("faces=%d", m.Faces())
	}
}
