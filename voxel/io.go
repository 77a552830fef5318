package voxel

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

const ioChunk = 64 << 10

// WriteTo encodes g and writes the container to w.
func WriteTo(w io.Writer, g *Grid, opts EncodeOptions) (int64, error) {
	data, err := Encode(g, opts)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), &IOError{Op: "write", Err: err}
	}
	return int64(n), nil
}

// ReadFrom reads a whole container from r and decodes it.
func ReadFrom(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	return Decode(data)
}

// SaveFile encodes g and writes it to path.
func SaveFile(ctx context.Context, path string, g *Grid, opts EncodeOptions) error {
	data, err := Encode(g, opts)
	if err != nil {
		return err
	}
	return WriteFile(ctx, path, data)
}

// WriteFile writes data next to path and renames it into place, so an
// interrupted save never leaves a truncated model behind. Cancellation is
// checked between chunks.
func WriteFile(ctx context.Context, path string, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()
	for off := 0; off < len(data); off += ioChunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(off+ioChunk, len(data))
		if _, err := f.Write(data[off:end]); err != nil {
			return &IOError{Op: "write", Path: path, Err: err}
		}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// LoadFile reads and decodes the model at path.
func LoadFile(ctx context.Context, path string) (*Grid, error) {
	data, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// ReadFile reads path, checking ctx between chunks.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	data, err := io.ReadAll(&ctxReader{ctx: ctx, r: f})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
