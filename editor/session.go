// Package editor owns a model being edited and keeps its surface mesh in
// step with edits, rebuilding at most once per frame.
package editor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/voxelsplace/voxedit/config"
	"github.com/voxelsplace/voxedit/voxel"
)

// Renderer receives a freshly built mesh. Meshes handed to Render are not
// modified afterwards.
type Renderer interface {
	Render(m *voxel.Mesh)
}

type RendererFunc func(m *voxel.Mesh)

func (f RendererFunc) Render(m *voxel.Mesh) { f(m) }

// Session serializes access to one grid. All mutation goes through Edit.
type Session struct {
	mu    sync.Mutex
	grid  *voxel.Grid
	mesh  *voxel.Mesh
	stale bool

	// pending holds at most one rebuild request.
	pending chan struct{}

	cfg    config.Config
	r      Renderer
	log    *log.Logger
	cancel func()
}

// New takes ownership of g. r may be nil when only Mesh is used.
func New(g *voxel.Grid, cfg config.Config, r Renderer, logger *log.Logger) *Session {
	s := &Session{
		grid:    g,
		stale:   true,
		pending: make(chan struct{}, 1),
		cfg:     cfg,
		r:       r,
		log:     logger,
	}
	s.cancel = g.Subscribe(s.changed)
	s.invalidate()
	return s
}

// changed runs synchronously inside a grid mutation, so s.mu is held.
func (s *Session) changed(voxel.Change) {
	s.stale = true
	s.invalidate()
}

func (s *Session) invalidate() {
	select {
	case s.pending <- struct{}{}:
	default:
	}
}

// Close detaches the session from its grid.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Edit runs fn with exclusive access to the grid. fn must not keep the
// pointer after returning.
func (s *Session) Edit(fn func(g *voxel.Grid) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.grid)
}

// EditPlane is Edit through a plane view.
func (s *Session) EditPlane(o voxel.Orientation, fn func(p *voxel.Plane) error) error {
	return s.Edit(func(g *voxel.Grid) error {
		return fn(g.Plane(o))
	})
}

// ClearLayer clears a plane layer using the configured selection policy.
func (s *Session) ClearLayer(o voxel.Orientation, pz int) error {
	return s.EditPlane(o, func(p *voxel.Plane) error {
		return p.ClearLayer(pz, s.cfg.ClearPolicy())
	})
}

func (s *Session) Size() voxel.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Size()
}

// Mesh returns the mesh of the current grid, rebuilding it if an edit
// happened since the last build.
func (s *Session) Mesh() *voxel.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meshLocked()
}

func (s *Session) meshLocked() *voxel.Mesh {
	if s.stale || s.mesh == nil {
		s.mesh = voxel.BuildMesh(s.grid)
		s.stale = false
	}
	return s.mesh
}

// Frame performs one render tick. It reports whether a mesh was rendered.
func (s *Session) Frame() bool {
	select {
	case <-s.pending:
	default:
		return false
	}
	s.mu.Lock()
	m := s.meshLocked()
	s.mu.Unlock()
	if s.r != nil {
		s.r.Render(m)
	}
	return true
}

// Run calls Frame every interval until ctx is done.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = s.cfg.FrameInterval()
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Frame()
		}
	}
}

// Save encodes a snapshot of the grid and writes it to path.
func (s *Session) Save(ctx context.Context, path string) error {
	s.mu.Lock()
	data, err := voxel.Encode(s.grid, s.cfg.EncodeOptions())
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := voxel.WriteFile(ctx, path, data); err != nil {
		return err
	}
	s.log.Printf("saved %s (%d bytes)", path, len(data))
	return nil
}

// Load replaces the grid with the model at path. The grid is only touched
// once the file decoded completely.
func (s *Session) Load(ctx context.Context, path string) error {
	g, err := voxel.LoadFile(ctx, path)
	if err != nil {
		s.log.Printf("load %s: %v", path, err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.grid.ReplaceWith(g)
	size := s.grid.Size()
	s.mu.Unlock()
	s.log.Printf("loaded %s (%dx%dx%d)", path, size.W, size.H, size.D)
	return nil
}
