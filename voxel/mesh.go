package voxel

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Group is a contiguous run of triangle vertices sharing one material.
// Start and Count are in vertices (three per triangle).
type Group struct {
	Start    int
	Count    int
	Material int // index into Mesh.Palette
}

// Mesh is a non-indexed triangle list grouped by material.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Groups    []Group
	Palette   []Color
	// Offset is the translation added to grid-space positions to center the
	// mesh's bounding box on the origin.
	Offset mgl32.Vec3
}

func (m *Mesh) Triangles() int { return len(m.Positions) / 3 }

func (m *Mesh) Faces() int { return len(m.Positions) / 6 }

// BuildMesh extracts the visible surface of g.
func BuildMesh(g *Grid) *Mesh {
	indices, palette := Collect(g)
	return meshify(indices, palette, g.size)
}

// Meshify builds a mesh from palette indices laid out in native linear
// order for a grid of the given size.
func Meshify(indices []int, palette []Color, size Size) (*Mesh, error) {
	if size.W < 1 || size.H < 1 || size.D < 1 {
		return nil, ErrInvalidSize
	}
	if !size.fits() {
		return nil, &TooLargeError{Size: size}
	}
	if len(indices) != size.Len() {
		return nil, fmt.Errorf("voxel: %d indices for %dx%dx%d grid", len(indices), size.W, size.H, size.D)
	}
	for i, idx := range indices {
		if idx < 0 || idx >= len(palette) {
			return nil, fmt.Errorf("voxel: index %d at voxel %d outside palette of %d", idx, i, len(palette))
		}
	}
	return meshify(indices, palette, size), nil
}

// meshify emits every face of a non-transparent voxel whose neighbor is
// strictly less opaque. Outside the grid counts as alpha 0.
func meshify(indices []int, palette []Color, size Size) *Mesh {
	order := make([]int, 0, len(indices))
	for i, idx := range indices {
		if palette[idx].A() != 0 {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(indices[a], indices[b])
	})

	m := &Mesh{Palette: palette}
	for _, i := range order {
		p := size.Point(i)
		mat := indices[i]
		alpha := palette[mat].A()
		base := mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
		for f := range faces {
			fs := &faces[f]
			nx, ny, nz := p.X+fs.offset[0], p.Y+fs.offset[1], p.Z+fs.offset[2]
			if size.Contains(nx, ny, nz) && palette[indices[size.Index(nx, ny, nz)]].A() >= alpha {
				continue
			}
			if n := len(m.Groups); n == 0 || m.Groups[n-1].Material != mat {
				m.Groups = append(m.Groups, Group{Start: len(m.Positions), Material: mat})
			}
			addFace(m, fs, base)
			m.Groups[len(m.Groups)-1].Count += len(quadOrder)
		}
	}
	m.recenter()
	return m
}

func (m *Mesh) recenter() {
	if len(m.Positions) == 0 {
		return
	}
	lo := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := lo.Mul(-1)
	for _, p := range m.Positions {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], p[a])
			hi[a] = max(hi[a], p[a])
		}
	}
	m.Offset = lo.Add(hi).Mul(-0.5)
	for i := range m.Positions {
		m.Positions[i] = m.Positions[i].Add(m.Offset)
	}
}

// Bounds returns the axis-aligned box of the mesh positions.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Positions) == 0 {
		return lo, hi
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], p[a])
			hi[a] = max(hi[a], p[a])
		}
	}
	return lo, hi
}
