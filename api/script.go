package api

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/voxelsplace/voxedit/voxel"
)

//go:embed schemas/edit_script.schema.json
var editScriptSchema string

var compileEditScript = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("edit_script.schema.json", editScriptSchema)
})

// Op is one step of an edit script. Which fields are used depends on Op.
type Op struct {
	Op             string `json:"op"`
	X              int    `json:"x,omitempty"`
	Y              int    `json:"y,omitempty"`
	Z              int    `json:"z,omitempty"`
	Color          string `json:"color,omitempty"`
	Selected       bool   `json:"selected,omitempty"`
	Plane          string `json:"plane,omitempty"`
	Layer          int    `json:"layer,omitempty"`
	Layer2         int    `json:"layer2,omitempty"`
	ResetSelection *bool  `json:"reset_selection,omitempty"`
}

type Script struct {
	Ops []Op `json:"ops"`
}

// ParseScript validates data against the edit script schema and decodes it.
func ParseScript(data []byte) (*Script, error) {
	schema, err := compileEditScript()
	if err != nil {
		return nil, fmt.Errorf("edit script schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("edit script: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("edit script: %w", err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("edit script: %w", err)
	}
	return &s, nil
}

// Apply runs every op against a copy of g and swaps the result in only if
// all of them succeeded. Coordinates of set and select are plane
// coordinates when a plane is named.
func (s *Script) Apply(g *voxel.Grid, policy voxel.ClearPolicy) error {
	work := g.Clone()
	for i, op := range s.Ops {
		if err := op.apply(work, policy); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
	}
	g.ReplaceWith(work)
	return nil
}

func (op Op) apply(g *voxel.Grid, policy voxel.ClearPolicy) error {
	o := voxel.Front
	if op.Plane != "" {
		var err error
		if o, err = voxel.ParseOrientation(op.Plane); err != nil {
			return err
		}
	}
	p := g.Plane(o)
	switch op.Op {
	case "set":
		c, err := voxel.ParseColor(op.Color)
		if err != nil {
			return err
		}
		if _, ok := p.Set(op.X, op.Y, op.Z, voxel.Paint(c)); !ok && c.A() != 0 {
			return fmt.Errorf("painting (%d,%d,%d): %w", op.X, op.Y, op.Z, voxel.ErrTooLarge)
		}
		return nil
	case "select":
		// selecting never grows the grid
		if _, err := p.Get(op.X, op.Y, op.Z); err != nil {
			return err
		}
		p.Set(op.X, op.Y, op.Z, voxel.Select(op.Selected))
		return nil
	case "insert_layer":
		return p.InsertLayer(op.Layer)
	case "duplicate_layer":
		return p.DuplicateLayer(op.Layer)
	case "swap_layers":
		return p.SwapLayers(op.Layer, op.Layer2)
	case "clear_layer":
		if op.ResetSelection != nil {
			policy.ResetSelection = *op.ResetSelection
		}
		return p.ClearLayer(op.Layer, policy)
	}
	return fmt.Errorf("unknown op %q", op.Op)
}

// ApplyScript decodes a .voxm container, runs the script on it and returns
// the re-encoded model.
func ApplyScript(model, script []byte, opts voxel.EncodeOptions, policy voxel.ClearPolicy) ([]byte, error) {
	g, err := voxel.Decode(model)
	if err != nil {
		return nil, err
	}
	s, err := ParseScript(script)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(g, policy); err != nil {
		return nil, err
	}
	return voxel.Encode(g, opts)
}
