package voxel_test

import (
	"errors"
	"testing"

	"github.com/voxelsplace/voxedit/voxel"
)

const red = voxel.Color(0xff0000ff)

func mustGrid(t *testing.T, w, h, d int) *voxel.Grid {
	t.Helper()
	g, err := voxel.New(w, h, d)
	if err != nil {
		t.Fatalf("New(%d,%d,%d): %v", w, h, d, err)
	}
	return g
}

func mustGet(t *testing.T, g *voxel.Grid, x, y, z int) voxel.Voxel {
	t.Helper()
	v, err := g.Get(x, y, z)
	if err != nil {
		t.Fatalf("Get(%d,%d,%d): %v", x, y, z, err)
	}
	return v
}

// patterned fills g with a few colors that depend on position.
func patterned(g *voxel.Grid) {
	colors := []voxel.Color{0x00000000, 0x112233ff, 0xaabbcc80, red}
	g.ForEach(func(c voxel.Cell, x, y, z int) {
		c.Set(voxel.Paint(colors[(x+2*y+3*z)%len(colors)]))
	})
}

func TestNew_Defaults(t *testing.T) {
	g := voxel.NewDefault()
	if g.Size() != (voxel.Size{W: 1, H: 1, D: 1}) {
		t.Fatalf("default size=%v", g.Size())
	}
	if v := mustGet(t, g, 0, 0, 0); v.Color != voxel.Transparent || v.Selected {
		t.Fatalf("default voxel=%+v", v)
	}
	if _, err := voxel.New(0, 1, 1); !errors.Is(err, voxel.ErrInvalidSize) {
		t.Fatalf("New(0,1,1) err=%v", err)
	}
}

func TestSetGet_InBounds(t *testing.T) {
	g := mustGrid(t, 3, 4, 5)
	for x := 0; x < 3; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 5; z++ {
				c := voxel.Color(uint32(x<<24|y<<16|z<<8) | 0xff)
				if _, ok := g.Set(x, y, z, voxel.Paint(c)); !ok {
					t.Fatalf("Set(%d,%d,%d) not applied", x, y, z)
				}
				if got := mustGet(t, g, x, y, z).Color; got != c {
					t.Fatalf("(%d,%d,%d) color=%v want %v", x, y, z, got, c)
				}
			}
		}
	}
}

func TestSet_MergesFields(t *testing.T) {
	g := mustGrid(t, 1, 1, 1)
	g.Set(0, 0, 0, voxel.Paint(red))
	g.Set(0, 0, 0, voxel.Select(true))
	if v := mustGet(t, g, 0, 0, 0); v.Color != red || !v.Selected {
		t.Fatalf("merged voxel=%+v", v)
	}
	g.Set(0, 0, 0, voxel.Paint(voxel.Transparent))
	if v := mustGet(t, g, 0, 0, 0); v.Color != voxel.Transparent || !v.Selected {
		t.Fatalf("color-only update touched selection: %+v", v)
	}
}

func TestGet_OutOfBounds(t *testing.T) {
	g := mustGrid(t, 2, 2, 2)
	for _, p := range [][3]int{{-1, 0, 0}, {2, 0, 0}, {0, 2, 0}, {0, 0, 2}, {0, 0, -1}} {
		_, err := g.Get(p[0], p[1], p[2])
		if !errors.Is(err, voxel.ErrOutOfBounds) {
			t.Fatalf("Get%v err=%v", p, err)
		}
		var oob *voxel.OutOfBoundsError
		if !errors.As(err, &oob) || oob.X != p[0] || oob.Size != g.Size() {
			t.Fatalf("Get%v err=%#v", p, err)
		}
	}
}

func TestSet_OutOfBoundsWithoutColorIsNoop(t *testing.T) {
	g := mustGrid(t, 2, 2, 2)
	calls := 0
	g.Subscribe(func(voxel.Change) { calls++ })
	for _, u := range []voxel.Update{
		voxel.Select(true),
		voxel.Paint(voxel.Transparent),
		voxel.Paint(0x11223300), // rgb but fully transparent
	} {
		if _, ok := g.Set(5, -1, 9, u); ok {
			t.Fatalf("Set(%+v) outside bounds applied", u)
		}
	}
	if g.Size() != (voxel.Size{W: 2, H: 2, D: 2}) {
		t.Fatalf("grid grew to %v", g.Size())
	}
	if calls != 0 {
		t.Fatalf("observers called %d times", calls)
	}
}

func TestSet_GrowsPositive(t *testing.T) {
	g := mustGrid(t, 2, 2, 2)
	patterned(g)
	before := g.Clone()

	at, ok := g.Set(4, 1, 3, voxel.Paint(red))
	if !ok || at != (voxel.Point{X: 4, Y: 1, Z: 3}) {
		t.Fatalf("Set returned %v,%v", at, ok)
	}
	if g.Size() != (voxel.Size{W: 5, H: 2, D: 4}) {
		t.Fatalf("size=%v want 5x2x4", g.Size())
	}
	if got := mustGet(t, g, 4, 1, 3).Color; got != red {
		t.Fatalf("grown voxel color=%v", got)
	}
	assertShifted(t, before, g, voxel.Point{})
	if v := mustGet(t, g, 3, 0, 3); v != (voxel.Voxel{}) {
		t.Fatalf("new cell not default: %+v", v)
	}
}

func TestSet_GrowsNegative(t *testing.T) {
	g := mustGrid(t, 2, 3, 2)
	patterned(g)
	g.Set(1, 1, 1, voxel.Select(true))
	before := g.Clone()

	at, ok := g.Set(-2, 1, -1, voxel.Paint(red))
	if !ok {
		t.Fatalf("Set not applied")
	}
	if at != (voxel.Point{X: 0, Y: 1, Z: 0}) {
		t.Fatalf("landed at %v, want (0,1,0)", at)
	}
	if g.Size() != (voxel.Size{W: 4, H: 3, D: 3}) {
		t.Fatalf("size=%v want 4x3x3", g.Size())
	}
	if got := mustGet(t, g, at.X, at.Y, at.Z).Color; got != red {
		t.Fatalf("painted color=%v", got)
	}
	assertShifted(t, before, g, voxel.Point{X: 2, Y: 0, Z: 1})
	if v := mustGet(t, g, 3, 1, 2); !v.Selected {
		t.Fatalf("selection lost on growth")
	}
}

func TestExpandToInclude(t *testing.T) {
	g := mustGrid(t, 1, 1, 1)
	g.Set(0, 0, 0, voxel.Paint(red))
	off, err := g.ExpandToInclude(-1, 2, 0)
	if err != nil {
		t.Fatalf("ExpandToInclude: %v", err)
	}
	if off != (voxel.Point{X: 1}) {
		t.Fatalf("offset=%v", off)
	}
	if g.Size() != (voxel.Size{W: 2, H: 3, D: 1}) {
		t.Fatalf("size=%v", g.Size())
	}
	if mustGet(t, g, 1, 0, 0).Color != red {
		t.Fatalf("content not shifted")
	}
	if off, err := g.ExpandToInclude(0, 0, 0); err != nil || off != (voxel.Point{}) || g.Size().Len() != 6 {
		t.Fatalf("in-bounds expand changed grid: off=%v size=%v err=%v", off, g.Size(), err)
	}
}

func TestExpandToInclude_TooLarge(t *testing.T) {
	g := mustGrid(t, 2, 2, 2)
	calls := 0
	g.Subscribe(func(voxel.Change) { calls++ })
	_, err := g.ExpandToInclude(1<<20, 1<<20, 0)
	var tl *voxel.TooLargeError
	if !errors.As(err, &tl) || !errors.Is(err, voxel.ErrTooLarge) {
		t.Fatalf("err=%v", err)
	}
	if g.Size() != (voxel.Size{W: 2, H: 2, D: 2}) || calls != 0 {
		t.Fatalf("failed expand changed grid: size=%v calls=%d", g.Size(), calls)
	}
}

func TestSet_GrowthBeyondLimitIsRejected(t *testing.T) {
	g := mustGrid(t, 2, 2, 2)
	g.Set(1, 1, 1, voxel.Paint(red))
	calls := 0
	g.Subscribe(func(voxel.Change) { calls++ })
	for _, p := range []voxel.Point{
		{X: 1 << 62},
		{X: -(1 << 62)},
		{X: 1 << 32, Y: 1 << 32},
		{X: 1 << 11, Y: 1 << 11, Z: 1 << 9}, // just over the voxel limit
		{X: 1 << 30},
	} {
		if _, ok := g.Set(p.X, p.Y, p.Z, voxel.Paint(red)); ok {
			t.Fatalf("Set(%v) applied", p)
		}
	}
	if g.Size() != (voxel.Size{W: 2, H: 2, D: 2}) || calls != 0 {
		t.Fatalf("rejected writes changed grid: size=%v calls=%d", g.Size(), calls)
	}
	if mustGet(t, g, 1, 1, 1).Color != red {
		t.Fatalf("content lost")
	}
}

func TestNew_TooLarge(t *testing.T) {
	if _, err := voxel.New(1<<11, 1<<11, 1<<9); !errors.Is(err, voxel.ErrTooLarge) {
		t.Fatalf("err=%v", err)
	}
	if _, err := voxel.New(1<<40, 1, 1); !errors.Is(err, voxel.ErrTooLarge) {
		t.Fatalf("err=%v", err)
	}
}

func assertShifted(t *testing.T, before, after *voxel.Grid, off voxel.Point) {
	t.Helper()
	before.ForEach(func(c voxel.Cell, x, y, z int) {
		got := mustGet(t, after, x+off.X, y+off.Y, z+off.Z)
		if got != c.Get() {
			t.Fatalf("(%d,%d,%d) moved to %+v, was %+v", x, y, z, got, c.Get())
		}
	})
}

func TestForEach_OrderAndLiveCells(t *testing.T) {
	g := mustGrid(t, 2, 3, 4)
	i := 0
	g.ForEach(func(c voxel.Cell, x, y, z int) {
		if g.Size().Index(x, y, z) != i {
			t.Fatalf("visit %d at (%d,%d,%d)", i, x, y, z)
		}
		if p := g.Size().Point(i); p != (voxel.Point{X: x, Y: y, Z: z}) {
			t.Fatalf("Point(%d)=%v", i, p)
		}
		if z == 0 {
			c.Set(voxel.Paint(red))
		}
		i++
	})
	if i != 24 {
		t.Fatalf("visited %d cells", i)
	}
	if mustGet(t, g, 1, 2, 0).Color != red || mustGet(t, g, 1, 2, 1).Color != voxel.Transparent {
		t.Fatalf("cell writes not applied to grid")
	}
}

func TestSubscribe_NotifiesAndCancels(t *testing.T) {
	g := mustGrid(t, 2, 2, 2)
	var kinds []voxel.ChangeKind
	cancel := g.Subscribe(func(ch voxel.Change) { kinds = append(kinds, ch.Kind) })

	g.Set(0, 0, 0, voxel.Paint(red))
	g.Set(0, 0, 0, voxel.Paint(red)) // unchanged, no notification
	g.Set(3, 0, 0, voxel.Paint(red))
	g.ReplaceWith(mustGrid(t, 1, 1, 1))
	cancel()
	g.Set(0, 0, 0, voxel.Paint(red))

	want := []voxel.ChangeKind{voxel.ChangeVoxel, voxel.ChangeResize, voxel.ChangeReplace}
	if len(kinds) != len(want) {
		t.Fatalf("kinds=%v want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds=%v want %v", kinds, want)
		}
	}
}

func TestEqualIgnoresSelection(t *testing.T) {
	a := mustGrid(t, 2, 1, 1)
	patterned(a)
	b := a.Clone()
	b.Set(0, 0, 0, voxel.Select(true))
	if !a.Equal(b) {
		t.Fatalf("selection affected Equal")
	}
	b.Set(1, 0, 0, voxel.Paint(0x01020304))
	if a.Equal(b) {
		t.Fatalf("color change not detected")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]voxel.Color{
		"#fff":      0xffffffff,
		"#f008":     0xff000088,
		"00ff00":    0x00ff00ff,
		"#11223344": 0x11223344,
	}
	for in, want := range cases {
		got, err := voxel.ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseColor(%q)=%v want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "#12345", "#gggggg"} {
		if _, err := voxel.ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) accepted", bad)
		}
	}
	if h := voxel.RGBA(1, 2, 3, 4).Hex(); h != "#01020304" {
		t.Fatalf("Hex=%s", h)
	}
}
