package voxel

import (
	"encoding/binary"
	"io"
)

// indexWriter packs palette indices at a fixed byte width, big-endian.
type indexWriter struct {
	buf   []byte
	width int
}

func newIndexWriter(buf []byte, width int) *indexWriter {
	return &indexWriter{buf: buf, width: width}
}

func (w *indexWriter) write(v uint64) {
	switch w.width {
	case 1:
		w.buf = append(w.buf, byte(v))
	case 2:
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(v))
	case 4:
		w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v))
	default:
		w.buf = binary.BigEndian.AppendUint64(w.buf, v)
	}
}

func (w *indexWriter) bytes() []byte { return w.buf }

type indexReader struct {
	data  []byte
	width int
	pos   int
}

func newIndexReader(b []byte, width int) *indexReader {
	return &indexReader{data: b, width: width}
}

func (r *indexReader) read() (uint64, error) {
	if r.pos+r.width > len(r.data) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+r.width]
	r.pos += r.width
	switch r.width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(b)), nil
	}
	return binary.BigEndian.Uint64(b), nil
}
