package voxel

import "math/bits"

// Collect deduplicates the grid's colors. palette holds every distinct color
// in first-seen order over the native linear order and indices[i] is the
// palette index of voxel i.
func Collect(g *Grid) (indices []int, palette []Color) {
	indices = make([]int, len(g.voxels))
	seen := make(map[Color]int)
	for i, v := range g.voxels {
		idx, ok := seen[v.Color]
		if !ok {
			idx = len(palette)
			seen[v.Color] = idx
			palette = append(palette, v.Color)
		}
		indices[i] = idx
	}
	return indices, palette
}

// BytesPerIndex is the packed width of one palette index for a palette of n
// colors: ceil(log2 n) bits rounded up to 1, 2, 4 or 8 bytes.
func BytesPerIndex(n int) int {
	if n <= 1 {
		// log2(1) == 0, but an index still needs a byte.
		return 1
	}
	nbytes := (bits.Len(uint(n-1)) + 7) / 8
	switch {
	case nbytes <= 1:
		return 1
	case nbytes <= 2:
		return 2
	case nbytes <= 4:
		return 4
	}
	return 8
}
