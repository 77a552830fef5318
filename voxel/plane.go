package voxel

import (
	"fmt"
	"strings"
)

// Orientation selects one of the three canonical editing views.
type Orientation uint8

const (
	Front Orientation = iota
	Right
	Top
)

func (o Orientation) String() string {
	switch o {
	case Front:
		return "front"
	case Right:
		return "right"
	case Top:
		return "top"
	}
	return fmt.Sprintf("orientation(%d)", uint8(o))
}

// ParseOrientation accepts "front" (or its older name "left"), "right" and "top".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front", "left":
		return Front, nil
	case "right":
		return Right, nil
	case "top":
		return Top, nil
	}
	return 0, fmt.Errorf("unknown plane %q", s)
}

// ClearPolicy controls what ClearLayer resets besides the color.
type ClearPolicy struct {
	ResetSelection bool
}

var DefaultClearPolicy = ClearPolicy{ResetSelection: true}

// Plane is a view of a grid seen along one orientation. It holds no voxels
// and derives its shape from the grid on every call, so it stays valid after
// the grid grows.
type Plane struct {
	g *Grid
	o Orientation
}

func (g *Grid) Plane(o Orientation) *Plane {
	return &Plane{g: g, o: o}
}

func (p *Plane) Orientation() Orientation { return p.o }

// Shape returns the plane's (width, height, depth).
func (p *Plane) Shape() Size {
	s := p.g.size
	switch p.o {
	case Right:
		return Size{W: s.D, H: s.H, D: s.W}
	case Top:
		return Size{W: s.D, H: s.W, D: s.H}
	}
	return s
}

// ToModel maps plane coordinates to grid coordinates. It is defined for any
// input, including points outside the current grid.
func (p *Plane) ToModel(px, py, pz int) Point {
	s := p.g.size
	switch p.o {
	case Right:
		return Point{X: s.W - 1 - pz, Y: py, Z: px}
	case Top:
		return Point{X: s.W - 1 - py, Y: s.H - 1 - pz, Z: px}
	}
	return Point{X: px, Y: py, Z: pz}
}

// FromModel is the inverse of ToModel.
func (p *Plane) FromModel(x, y, z int) Point {
	s := p.g.size
	switch p.o {
	case Right:
		return Point{X: z, Y: y, Z: s.W - 1 - x}
	case Top:
		return Point{X: z, Y: s.W - 1 - x, Z: s.H - 1 - y}
	}
	return Point{X: x, Y: y, Z: z}
}

func (p *Plane) Get(px, py, pz int) (Voxel, error) {
	m := p.ToModel(px, py, pz)
	v, err := p.g.Get(m.X, m.Y, m.Z)
	if err != nil {
		return Voxel{}, &OutOfBoundsError{X: px, Y: py, Z: pz, Size: p.Shape()}
	}
	return v, nil
}

// Set forwards to Grid.Set and returns the plane coordinate the update
// landed on.
func (p *Plane) Set(px, py, pz int, u Update) (Point, bool) {
	m := p.ToModel(px, py, pz)
	at, ok := p.g.Set(m.X, m.Y, m.Z, u)
	if !ok {
		return Point{}, false
	}
	return p.FromModel(at.X, at.Y, at.Z), true
}

// ForEachInLayer visits layer pz row by row (px outer, py inner).
func (p *Plane) ForEachInLayer(pz int, visit func(c Cell, px, py int)) error {
	if err := p.checkLayer(pz); err != nil {
		return err
	}
	p.eachInLayer(pz, func(i, px, py int) {
		visit(Cell{g: p.g, i: i}, px, py)
	})
	return nil
}

// InsertLayer grows the grid by one layer along the plane's depth axis.
// Layers at or after pz move one step further along the plane depth and the
// new layer at pz holds default voxels. pz may equal the depth to append.
func (p *Plane) InsertLayer(pz int) error {
	if sh := p.Shape(); pz < 0 || pz > sh.D {
		return &OutOfBoundsError{Z: pz, Size: sh}
	}
	if err := p.insertLayer(pz); err != nil {
		return err
	}
	p.g.notify(ChangeLayer)
	return nil
}

func (p *Plane) insertLayer(pz int) error {
	axis, step := p.depthAxis(pz)
	k := p.ToModel(0, 0, pz).axis(axis)
	if step < 0 {
		// Plane depth runs against the grid axis: the slice after grid
		// coordinate k belongs to layer pz.
		k++
	}
	return p.g.insertSlice(axis, k)
}

// depthAxis compares ToModel(0,0,pz) with ToModel(0,0,pz+1) to find which
// grid axis the plane depth walks along and in which direction.
func (p *Plane) depthAxis(pz int) (axis, step int) {
	a := p.ToModel(0, 0, pz)
	b := p.ToModel(0, 0, pz+1)
	for axis = 0; axis < 3; axis++ {
		if d := b.axis(axis) - a.axis(axis); d != 0 {
			return axis, d
		}
	}
	panic("voxel: plane depth does not move along any axis")
}

// DuplicateLayer inserts a copy of layer pz right after it. Only colors are
// copied; the new layer starts unselected.
func (p *Plane) DuplicateLayer(pz int) error {
	if err := p.checkLayer(pz); err != nil {
		return err
	}
	if err := p.insertLayer(pz + 1); err != nil {
		return err
	}
	sh := p.Shape()
	for px := 0; px < sh.W; px++ {
		for py := 0; py < sh.H; py++ {
			src := p.index(px, py, pz)
			dst := p.index(px, py, pz+1)
			p.g.voxels[dst].Color = p.g.voxels[src].Color
		}
	}
	p.g.notify(ChangeLayer)
	return nil
}

// SwapLayers exchanges whole voxels between layers i and j.
func (p *Plane) SwapLayers(i, j int) error {
	if err := p.checkLayer(i); err != nil {
		return err
	}
	if err := p.checkLayer(j); err != nil {
		return err
	}
	if i == j {
		return nil
	}
	sh := p.Shape()
	for px := 0; px < sh.W; px++ {
		for py := 0; py < sh.H; py++ {
			a, b := p.index(px, py, i), p.index(px, py, j)
			p.g.voxels[a], p.g.voxels[b] = p.g.voxels[b], p.g.voxels[a]
		}
	}
	p.g.notify(ChangeLayer)
	return nil
}

// ClearLayer makes every voxel of layer pz transparent.
func (p *Plane) ClearLayer(pz int, policy ClearPolicy) error {
	if err := p.checkLayer(pz); err != nil {
		return err
	}
	p.eachInLayer(pz, func(i, _, _ int) {
		v := &p.g.voxels[i]
		v.Color = Transparent
		if policy.ResetSelection {
			v.Selected = false
		}
	})
	p.g.notify(ChangeLayer)
	return nil
}

func (p *Plane) checkLayer(pz int) error {
	if sh := p.Shape(); pz < 0 || pz >= sh.D {
		return &OutOfBoundsError{Z: pz, Size: sh}
	}
	return nil
}

func (p *Plane) index(px, py, pz int) int {
	m := p.ToModel(px, py, pz)
	return p.g.size.Index(m.X, m.Y, m.Z)
}

func (p *Plane) eachInLayer(pz int, fn func(i, px, py int)) {
	sh := p.Shape()
	for px := 0; px < sh.W; px++ {
		for py := 0; py < sh.H; py++ {
			fn(p.index(px, py, pz), px, py)
		}
	}
}

func (pt Point) axis(a int) int {
	switch a {
	case 0:
		return pt.X
	case 1:
		return pt.Y
	}
	return pt.Z
}

// insertSlice grows the grid by one along axis, moving every voxel whose
// coordinate on that axis is >= k one step up. The grid is left untouched
// when the larger size would exceed the voxel limit.
func (g *Grid) insertSlice(axis, k int) error {
	old := g.size
	ns := old
	switch axis {
	case 0:
		ns.W++
	case 1:
		ns.H++
	default:
		ns.D++
	}
	if !ns.fits() {
		return &TooLargeError{Size: ns}
	}
	nv := make([]Voxel, ns.Len())
	i := 0
	for x := 0; x < old.W; x++ {
		for y := 0; y < old.H; y++ {
			for z := 0; z < old.D; z++ {
				d := [3]int{x, y, z}
				if d[axis] >= k {
					d[axis]++
				}
				nv[ns.Index(d[0], d[1], d[2])] = g.voxels[i]
				i++
			}
		}
	}
	g.size = ns
	g.voxels = nv
	return nil
}
