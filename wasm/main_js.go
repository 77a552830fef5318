//go:build js && wasm

package main

import (
	"encoding/binary"
	"math"
	"syscall/js"

	"github.com/voxelsplace/voxedit/api"
	"github.com/voxelsplace/voxedit/voxel"
)

func bytesArg(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func toUint8Array(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// toFloat32Array copies vectors into a JS Float32Array. Typed arrays use
// host byte order, which is little-endian on every wasm host.
func toFloat32Array(vs [][3]float32) js.Value {
	raw := make([]byte, 0, len(vs)*12)
	for _, v := range vs {
		for _, f := range v {
			raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(f))
		}
	}
	return js.Global().Get("Float32Array").New(toUint8Array(raw).Get("buffer"))
}

// meshify(indices, palette, w, h, d) -> {positions, normals, groups, offset}
func meshify(this js.Value, args []js.Value) any {
	if len(args) < 5 {
		return js.ValueOf("usage: meshify(indices, palette, w, h, d)")
	}
	indices := make([]int, args[0].Get("length").Int())
	for i := range indices {
		indices[i] = args[0].Index(i).Int()
	}
	palette := make([]voxel.Color, args[1].Get("length").Int())
	for i := range palette {
		palette[i] = voxel.Color(uint32(args[1].Index(i).Float()))
	}
	m, err := api.Meshify(indices, palette, args[2].Int(), args[3].Int(), args[4].Int())
	if err != nil {
		return js.ValueOf(err.Error())
	}
	positions := make([][3]float32, len(m.Positions))
	normals := make([][3]float32, len(m.Normals))
	for i := range m.Positions {
		positions[i] = m.Positions[i]
		normals[i] = m.Normals[i]
	}
	groups := make([]any, len(m.Groups))
	for i, g := range m.Groups {
		groups[i] = map[string]any{"start": g.Start, "count": g.Count, "material": g.Material}
	}
	result := js.Global().Get("Object").New()
	result.Set("positions", toFloat32Array(positions))
	result.Set("normals", toFloat32Array(normals))
	result.Set("groups", js.ValueOf(groups))
	result.Set("offset", js.ValueOf([]any{m.Offset[0], m.Offset[1], m.Offset[2]}))
	return result
}

func voxm2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing voxm bytes")
	}
	out, err := api.ModelToGLB(bytesArg(args[0]), api.DefaultGenerator)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

// applyScript(bytes, script) keeps the input's body compression.
func applyScript(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("usage: applyScript(voxmBytes, scriptJSON)")
	}
	model := bytesArg(args[0])
	hdr, err := voxel.ParseHeader(model)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	out, err := api.ApplyScript(model, []byte(args[1].String()),
		voxel.EncodeOptions{Compression: hdr.Compression}, voxel.DefaultClearPolicy)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func voxmInfo(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing voxm bytes")
	}
	info, err := api.Info(bytesArg(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	palette := make([]any, len(info.Palette))
	for i, c := range info.Palette {
		palette[i] = c.Hex()
	}
	h := info.Header
	return js.ValueOf(map[string]any{
		"width":       h.Size.W,
		"height":      h.Size.H,
		"depth":       h.Size.D,
		"compression": h.Compression.String(),
		"indexBytes":  h.IndexBytes,
		"palette":     palette,
		"filled":      info.Filled,
		"faces":       info.Faces,
	})
}

func main() {
	js.Global().Set("meshify", js.FuncOf(meshify))
	js.Global().Set("voxm2glb", js.FuncOf(voxm2glb))
	js.Global().Set("applyScript", js.FuncOf(applyScript))
	js.Global().Set("voxmInfo", js.FuncOf(voxmInfo))
	select {}
}
