package api

import (
	"fmt"

	"github.com/voxelsplace/voxedit/voxel"
)

// NewModel returns an empty .voxm container of the given extents.
func NewModel(w, h, d int, opts voxel.EncodeOptions) ([]byte, error) {
	g, err := voxel.New(w, h, d)
	if err != nil {
		return nil, err
	}
	return voxel.Encode(g, opts)
}

// Meshify builds a mesh from flat palette indices in native order.
func Meshify(indices []int, palette []voxel.Color, w, h, d int) (*voxel.Mesh, error) {
	return voxel.Meshify(indices, palette, voxel.Size{W: w, H: h, D: d})
}

// Recompress re-encodes a container with different body compression.
func Recompress(model []byte, opts voxel.EncodeOptions) ([]byte, error) {
	g, err := voxel.Decode(model)
	if err != nil {
		return nil, err
	}
	return voxel.Encode(g, opts)
}

// ModelInfo summarizes a container without keeping the grid around.
type ModelInfo struct {
	Header  voxel.Header
	Palette []voxel.Color
	Filled  int
	Faces   int
}

func (mi ModelInfo) String() string {
	h := mi.Header
	return fmt.Sprintf("%dx%dx%d, %d colors, %d-byte indices, %s body (%d bytes), %d filled voxels, %d faces",
		h.Size.W, h.Size.H, h.Size.D, h.PaletteLen, h.IndexBytes, h.Compression, h.BodyLen, mi.Filled, mi.Faces)
}

func Info(model []byte) (ModelInfo, error) {
	hdr, err := voxel.ParseHeader(model)
	if err != nil {
		return ModelInfo{}, err
	}
	g, err := voxel.Decode(model)
	if err != nil {
		return ModelInfo{}, err
	}
	indices, palette := voxel.Collect(g)
	info := ModelInfo{Header: hdr, Palette: palette}
	for _, idx := range indices {
		if palette[idx].A() != 0 {
			info.Filled++
		}
	}
	info.Faces = voxel.BuildMesh(g).Faces()
	return info, nil
}
