package voxel

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

type EncodeOptions struct {
	Compression Compression
}

// Encode serializes g into a .voxm container. Selection state is dropped.
func Encode(g *Grid, opts EncodeOptions) ([]byte, error) {
	indices, palette := Collect(g)
	width := BytesPerIndex(len(palette))

	body := make([]byte, 0, len(palette)*4+len(indices)*width)
	for _, c := range palette {
		body = binary.BigEndian.AppendUint32(body, uint32(c))
	}
	iw := newIndexWriter(body, width)
	for _, idx := range indices {
		iw.write(uint64(idx))
	}
	body = iw.bytes()

	payload, err := compressBody(body, opts.Compression)
	if err != nil {
		return nil, err
	}
	hdr := Header{
		Version:     formatVersion,
		Compression: opts.Compression,
		Size:        g.size,
		PaletteLen:  len(palette),
		IndexBytes:  width,
		BodyLen:     len(payload),
		Checksum:    xxhash.Sum64(body),
	}
	if err := hdr.checkLimits(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, HeaderLen+len(payload))
	out = append(out, hdr.marshal()...)
	out = append(out, payload...)
	return out, nil
}

// Decode parses a .voxm container into a new grid. Any inconsistency is
// reported as a *FormatError; no partially decoded grid is returned.
func Decode(data []byte) (*Grid, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	payload := data[HeaderLen:]
	if len(payload) != hdr.BodyLen {
		return nil, formatErrorf("body is %d bytes, header says %d", len(payload), hdr.BodyLen)
	}
	want := hdr.rawBodyLen()
	body, err := decompressBody(payload, hdr.Compression, want)
	if err != nil {
		return nil, err
	}
	if len(body) != want {
		return nil, formatErrorf("body holds %d bytes, want %d for %dx%dx%d with %d colors",
			len(body), want, hdr.Size.W, hdr.Size.H, hdr.Size.D, hdr.PaletteLen)
	}
	if xxhash.Sum64(body) != hdr.Checksum {
		return nil, formatErrorf("checksum mismatch")
	}

	palette := make([]Color, hdr.PaletteLen)
	for i := range palette {
		palette[i] = Color(binary.BigEndian.Uint32(body[i*4:]))
	}
	g := &Grid{size: hdr.Size, voxels: make([]Voxel, hdr.Size.Len())}
	ir := newIndexReader(body[hdr.PaletteLen*4:], hdr.IndexBytes)
	for i := range g.voxels {
		idx, err := ir.read()
		if err != nil {
			return nil, formatErrorf("index stream: %v", err)
		}
		if idx >= uint64(len(palette)) {
			return nil, formatErrorf("voxel %d references color %d of %d", i, idx, len(palette))
		}
		g.voxels[i].Color = palette[idx]
	}
	return g, nil
}

func compressBody(body []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressNone:
		return body, nil
	case CompressZlib:
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(body); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(body, make([]byte, 0, len(body)/2)), nil
	}
	return nil, fmt.Errorf("voxel: unsupported compression %d", c)
}

// decompressBody inflates at most want+1 bytes so a lying header cannot make
// us allocate more than the declared body.
func decompressBody(payload []byte, c Compression, want int) ([]byte, error) {
	var r io.Reader
	switch c {
	case CompressNone:
		return payload, nil
	case CompressZlib:
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, formatErrorf("zlib: %v", err)
		}
		defer zr.Close()
		r = zr
	case CompressZstd:
		dec, err := zstd.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, formatErrorf("zstd: %v", err)
		}
		defer dec.Close()
		r = dec
	default:
		return nil, formatErrorf("unknown compression %d", c)
	}
	body, err := io.ReadAll(io.LimitReader(r, int64(want)+1))
	if err != nil {
		return nil, formatErrorf("%s body: %v", c, err)
	}
	return body, nil
}
