package voxel

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned by reads and layer operations addressing a
	// coordinate outside the current extents. Reads never clamp.
	ErrOutOfBounds = errors.New("voxel: coordinates out of bounds")
	// ErrFormat marks a malformed or unrecognized .voxm container.
	ErrFormat = errors.New("voxel: malformed model data")
	// ErrIO marks a storage failure while saving or loading.
	ErrIO = errors.New("voxel: storage failure")
	// ErrInvalidSize is returned when a grid is created with an extent < 1.
	ErrInvalidSize = errors.New("voxel: grid extents must be at least 1")
	// ErrTooLarge is returned when a grid or its encoding would exceed the
	// limits of the .voxm header.
	ErrTooLarge = errors.New("voxel: model too large")
)

type OutOfBoundsError struct {
	X, Y, Z int
	Size    Size
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("voxel: (%d,%d,%d) outside %dx%dx%d", e.X, e.Y, e.Z, e.Size.W, e.Size.H, e.Size.D)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// TooLargeError reports a grid size that cannot be held. Point is set when
// the size came from growing toward a coordinate.
type TooLargeError struct {
	Point *Point
	Size  Size
}

func (e *TooLargeError) Error() string {
	if e.Point != nil {
		return fmt.Sprintf("voxel: growing to (%d,%d,%d) exceeds %d voxels", e.Point.X, e.Point.Y, e.Point.Z, maxVoxels)
	}
	return fmt.Sprintf("voxel: %dx%dx%d exceeds %d voxels", e.Size.W, e.Size.H, e.Size.D, maxVoxels)
}

func (e *TooLargeError) Unwrap() error { return ErrTooLarge }

type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "voxel: invalid .voxm data: " + e.Reason }

func (e *FormatError) Unwrap() error { return ErrFormat }

func formatErrorf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// IOError wraps the underlying storage error. It matches both ErrIO and the
// cause with errors.Is.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("voxel: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("voxel: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
