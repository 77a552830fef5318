package voxel

import "slices"

// Size holds the grid extents. Every extent of a live grid is at least 1.
type Size struct {
	W, H, D int
}

func (s Size) Len() int { return s.W * s.H * s.D }

// fits reports whether every extent is positive and the product stays within
// maxVoxels. It never overflows.
func (s Size) fits() bool {
	if s.W < 1 || s.H < 1 || s.D < 1 {
		return false
	}
	return s.W <= maxVoxels && s.H <= maxVoxels/s.W && s.D <= maxVoxels/(s.W*s.H)
}

func (s Size) Contains(x, y, z int) bool {
	return x >= 0 && x < s.W && y >= 0 && y < s.H && z >= 0 && z < s.D
}

// Index returns the native linear index: x outer, y middle, z inner.
func (s Size) Index(x, y, z int) int {
	return (x*s.H+y)*s.D + z
}

// Point is the inverse of Index.
func (s Size) Point(i int) Point {
	return Point{X: i / s.D / s.H, Y: (i / s.D) % s.H, Z: i % s.D}
}

type Point struct {
	X, Y, Z int
}

type Voxel struct {
	Color Color
	// Selected is editor state and is never persisted.
	Selected bool
}

// Field selects which properties of an Update are merged.
type Field uint8

const (
	FieldColor Field = 1 << iota
	FieldSelected
)

// Update is a partial voxel: only the fields named in Fields are applied.
type Update struct {
	Fields   Field
	Color    Color
	Selected bool
}

func Paint(c Color) Update { return Update{Fields: FieldColor, Color: c} }

func Select(selected bool) Update { return Update{Fields: FieldSelected, Selected: selected} }

func (u Update) WithColor(c Color) Update {
	u.Fields |= FieldColor
	u.Color = c
	return u
}

func (u Update) WithSelected(selected bool) Update {
	u.Fields |= FieldSelected
	u.Selected = selected
	return u
}

// paints reports whether the update may grow the grid: it must carry a color
// that is not fully transparent.
func (u Update) paints() bool {
	return u.Fields&FieldColor != 0 && u.Color.A() != 0
}

func (u Update) apply(v *Voxel) bool {
	changed := false
	if u.Fields&FieldColor != 0 && v.Color != u.Color {
		v.Color = u.Color
		changed = true
	}
	if u.Fields&FieldSelected != 0 && v.Selected != u.Selected {
		v.Selected = u.Selected
		changed = true
	}
	return changed
}

type ChangeKind uint8

const (
	ChangeVoxel ChangeKind = iota + 1
	ChangeResize
	ChangeLayer
	ChangeReplace
)

// Change is delivered to observers after a mutation completed.
type Change struct {
	Kind ChangeKind
	Size Size
}

type observer struct {
	id int
	fn func(Change)
}

// Grid is a dense, growable 3D array of voxels. A grid has a single owner;
// it is not safe for concurrent use.
type Grid struct {
	size   Size
	voxels []Voxel

	observers []observer
	nextID    int
}

func New(w, h, d int) (*Grid, error) {
	if w < 1 || h < 1 || d < 1 {
		return nil, ErrInvalidSize
	}
	s := Size{W: w, H: h, D: d}
	if !s.fits() {
		return nil, &TooLargeError{Size: s}
	}
	return &Grid{size: s, voxels: make([]Voxel, s.Len())}, nil
}

// NewDefault returns a 1x1x1 grid holding one transparent voxel.
func NewDefault() *Grid {
	g, _ := New(1, 1, 1)
	return g
}

func (g *Grid) Size() Size { return g.size }

func (g *Grid) Len() int { return len(g.voxels) }

// Get returns the voxel at (x,y,z) or an *OutOfBoundsError.
func (g *Grid) Get(x, y, z int) (Voxel, error) {
	if !g.size.Contains(x, y, z) {
		return Voxel{}, &OutOfBoundsError{X: x, Y: y, Z: z, Size: g.size}
	}
	return g.voxels[g.size.Index(x, y, z)], nil
}

// Set merges u into the voxel at (x,y,z). Outside the grid, an update that
// paints a non-transparent color grows the grid to include the point first;
// anything else is ignored, as is a write whose growth would exceed the
// voxel limit. It returns the coordinate the update landed on (shifted when
// the grid grew below zero) and whether it was applied.
func (g *Grid) Set(x, y, z int, u Update) (Point, bool) {
	if !g.size.Contains(x, y, z) {
		if !u.paints() {
			return Point{}, false
		}
		off, err := g.expand(x, y, z)
		if err != nil {
			return Point{}, false
		}
		x, y, z = x+off.X, y+off.Y, z+off.Z
		u.apply(&g.voxels[g.size.Index(x, y, z)])
		g.notify(ChangeResize)
		return Point{X: x, Y: y, Z: z}, true
	}
	if u.apply(&g.voxels[g.size.Index(x, y, z)]) {
		g.notify(ChangeVoxel)
	}
	return Point{X: x, Y: y, Z: z}, true
}

// ExpandToInclude grows the grid to the minimal box holding both the current
// bounds and (x,y,z). Existing voxels move by the returned offset, which is
// non-zero only on axes where the point lies below zero. A box larger than
// the voxel limit fails with a *TooLargeError and leaves the grid as is.
func (g *Grid) ExpandToInclude(x, y, z int) (Point, error) {
	if g.size.Contains(x, y, z) {
		return Point{}, nil
	}
	off, err := g.expand(x, y, z)
	if err != nil {
		return Point{}, err
	}
	g.notify(ChangeResize)
	return off, nil
}

func (g *Grid) expand(x, y, z int) (Point, error) {
	for _, v := range [3]int{x, y, z} {
		// keeps hi-lo+1 below overflow on every platform
		if v <= -maxVoxels || v >= maxVoxels {
			return Point{}, &TooLargeError{Point: &Point{X: x, Y: y, Z: z}, Size: g.size}
		}
	}
	lo := Point{X: min(0, x), Y: min(0, y), Z: min(0, z)}
	hi := Point{X: max(g.size.W-1, x), Y: max(g.size.H-1, y), Z: max(g.size.D-1, z)}
	ns := Size{W: hi.X - lo.X + 1, H: hi.Y - lo.Y + 1, D: hi.Z - lo.Z + 1}
	if !ns.fits() {
		return Point{}, &TooLargeError{Point: &Point{X: x, Y: y, Z: z}, Size: ns}
	}
	off := Point{X: -lo.X, Y: -lo.Y, Z: -lo.Z}
	g.resize(ns, off)
	return off, nil
}

// resize reallocates to ns and copies every old voxel to old+off. ns must
// cover the old box shifted by off.
func (g *Grid) resize(ns Size, off Point) {
	nv := make([]Voxel, ns.Len())
	old := g.size
	for x := 0; x < old.W; x++ {
		for y := 0; y < old.H; y++ {
			src := old.Index(x, y, 0)
			dst := ns.Index(x+off.X, y+off.Y, off.Z)
			copy(nv[dst:dst+old.D], g.voxels[src:src+old.D])
		}
	}
	g.size = ns
	g.voxels = nv
}

// Cell is a live reference to one voxel of a grid.
type Cell struct {
	g *Grid
	i int
}

func (c Cell) Get() Voxel { return c.g.voxels[c.i] }

func (c Cell) Set(u Update) {
	if u.apply(&c.g.voxels[c.i]) {
		c.g.notify(ChangeVoxel)
	}
}

// ForEach visits every voxel once in native linear order. The grid must not
// grow from inside visit.
func (g *Grid) ForEach(visit func(c Cell, x, y, z int)) {
	i := 0
	for x := 0; x < g.size.W; x++ {
		for y := 0; y < g.size.H; y++ {
			for z := 0; z < g.size.D; z++ {
				visit(Cell{g: g, i: i}, x, y, z)
				i++
			}
		}
	}
}

// Clone copies extents and voxels. Observers are not copied.
func (g *Grid) Clone() *Grid {
	return &Grid{size: g.size, voxels: slices.Clone(g.voxels)}
}

// Equal compares extents and colors; selection is ignored.
func (g *Grid) Equal(o *Grid) bool {
	if g.size != o.size {
		return false
	}
	for i := range g.voxels {
		if g.voxels[i].Color != o.voxels[i].Color {
			return false
		}
	}
	return true
}

// ReplaceWith swaps in the contents of o. The grid takes ownership of o's
// buffer; o must not be used afterwards.
func (g *Grid) ReplaceWith(o *Grid) {
	g.size = o.size
	g.voxels = o.voxels
	o.voxels = nil
	g.notify(ChangeReplace)
}

// Subscribe registers fn to run synchronously after every mutation. The
// returned function removes it.
func (g *Grid) Subscribe(fn func(Change)) (cancel func()) {
	id := g.nextID
	g.nextID++
	g.observers = append(g.observers, observer{id: id, fn: fn})
	return func() {
		g.observers = slices.DeleteFunc(g.observers, func(o observer) bool { return o.id == id })
	}
}

func (g *Grid) notify(kind ChangeKind) {
	ch := Change{Kind: kind, Size: g.size}
	for _, o := range g.observers {
		o.fn(ch)
	}
}
