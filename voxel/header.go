package voxel

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Compression identifies how the .voxm body is stored on disk.
type Compression uint8

const (
	CompressNone Compression = 0
	CompressZlib Compression = 1
	CompressZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressNone:
		return "none"
	case CompressZlib:
		return "zlib"
	case CompressZstd:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressNone, nil
	case "zlib":
		return CompressZlib, nil
	case "zstd":
		return CompressZstd, nil
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}

const (
	magic         = "VOXM"
	formatVersion = 1
	// HeaderLen is the fixed size of the .voxm header in bytes.
	HeaderLen = 35

	// maxVoxels bounds the voxel count of a grid and of a decoded file.
	maxVoxels = 1 << 30
)

// Header holds the fixed fields in front of a .voxm body. All integers are
// big-endian on disk.
type Header struct {
	Version     uint8
	Compression Compression
	Size        Size
	PaletteLen  int
	IndexBytes  int
	BodyLen     int    // stored body length, after compression
	Checksum    uint64 // xxhash64 of the uncompressed body
}

// checkLimits reports whether h can be stored in the fixed-width header
// fields.
func (h Header) checkLimits() error {
	if !h.Size.fits() {
		return &TooLargeError{Size: h.Size}
	}
	if uint64(h.BodyLen) > math.MaxUint32 {
		return fmt.Errorf("voxel: body of %d bytes: %w", h.BodyLen, ErrTooLarge)
	}
	return nil
}

func (h Header) marshal() []byte {
	buf := make([]byte, 0, HeaderLen)
	buf = append(buf, magic...)
	buf = append(buf, h.Version, uint8(h.Compression))
	buf = binary.BigEndian.AppendUint32(buf, uint32(h.Size.W))
	buf = binary.BigEndian.AppendUint32(buf, uint32(h.Size.H))
	buf = binary.BigEndian.AppendUint32(buf, uint32(h.Size.D))
	buf = binary.BigEndian.AppendUint32(buf, uint32(h.PaletteLen))
	buf = append(buf, uint8(h.IndexBytes))
	buf = binary.BigEndian.AppendUint32(buf, uint32(h.BodyLen))
	buf = binary.BigEndian.AppendUint64(buf, h.Checksum)
	return buf
}

// ParseHeader validates and returns the header of a .voxm file without
// decoding the body.
func ParseHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderLen {
		return h, formatErrorf("truncated header (%d bytes)", len(data))
	}
	if string(data[:4]) != magic {
		return h, formatErrorf("missing %s tag", magic)
	}
	h.Version = data[4]
	comp := data[5]
	w := binary.BigEndian.Uint32(data[6:])
	ht := binary.BigEndian.Uint32(data[10:])
	d := binary.BigEndian.Uint32(data[14:])
	n := binary.BigEndian.Uint32(data[18:])
	width := data[22]
	blen := binary.BigEndian.Uint32(data[23:])
	h.Checksum = binary.BigEndian.Uint64(data[27:])

	if h.Version != formatVersion {
		return h, formatErrorf("unsupported version %d", h.Version)
	}
	h.Compression = Compression(comp)
	switch h.Compression {
	case CompressNone, CompressZlib, CompressZstd:
	default:
		return h, formatErrorf("unknown compression %d", comp)
	}
	if w == 0 || ht == 0 || d == 0 {
		return h, formatErrorf("zero extent %dx%dx%d", w, ht, d)
	}
	if w > maxVoxels || ht > maxVoxels || d > maxVoxels {
		return h, formatErrorf("extent %dx%dx%d too large", w, ht, d)
	}
	h.Size = Size{W: int(w), H: int(ht), D: int(d)}
	if !h.Size.fits() {
		return h, formatErrorf("extent %dx%dx%d too large", w, ht, d)
	}
	if n == 0 || uint64(n) > uint64(h.Size.Len()) {
		return h, formatErrorf("palette of %d colors for %d voxels", n, h.Size.Len())
	}
	h.PaletteLen = int(n)
	h.IndexBytes = int(width)
	if want := BytesPerIndex(h.PaletteLen); h.IndexBytes != want {
		return h, formatErrorf("index width %d, want %d for %d colors", h.IndexBytes, want, n)
	}
	h.BodyLen = int(blen)
	return h, nil
}

// rawBodyLen is the uncompressed body size implied by the header.
func (h Header) rawBodyLen() int {
	return h.PaletteLen*4 + h.Size.Len()*h.IndexBytes
}
