// Package repair salvages weights from a corrupted model checkpoint. It
// walks the file's raw structure without trusting its declared
// architecture, rebuilds the correct network and re-injects whatever
// tensors can be matched by name and shape. Best-effort by design: layers
// that cannot be matched keep fresh random weights and are reported.
package repair

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ExtractedTensor is a raw weight array found during structural
// traversal, identified only by its slash-joined path in the file.
type ExtractedTensor struct {
	Path  string
	Shape []int
	Data  []float32
}

// NumElems returns the element count implied by the shape.
func (t *ExtractedTensor) NumElems() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// ExtractTensors parses raw checkpoint bytes and records every
// array-valued node under its structural path. The checkpoint's declared
// config is deliberately ignored: on a corrupted file the config is
// exactly the part that cannot be trusted. Results are sorted by path so
// matching order is deterministic.
func ExtractTensors(raw []byte) ([]ExtractedTensor, error) {
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("repair: parse checkpoint structure: %w", err)
	}

	var tensors []ExtractedTensor
	walk("", tree, &tensors)

	sort.Slice(tensors, func(i, j int) bool { return tensors[i].Path < tensors[j].Path })
	return tensors, nil
}

func walk(path string, node any, out *[]ExtractedTensor) {
	switch v := node.(type) {
	case map[string]any:
		// A {"shape": [...], "data": [...]} pair is a dataset; record it
		// and do not descend into its components.
		if t, ok := asDataset(path, v); ok {
			*out = append(*out, t)
			return
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(joinPath(path, k), v[k], out)
		}
	case []any:
		for i, elem := range v {
			walk(joinPath(path, fmt.Sprintf("%d", i)), elem, out)
		}
	}
}

func asDataset(path string, m map[string]any) (ExtractedTensor, bool) {
	shapeRaw, hasShape := m["shape"].([]any)
	dataRaw, hasData := m["data"].([]any)
	if !hasShape || !hasData {
		return ExtractedTensor{}, false
	}

	shape := make([]int, 0, len(shapeRaw))
	n := 1
	for _, s := range shapeRaw {
		f, ok := s.(float64)
		if !ok {
			return ExtractedTensor{}, false
		}
		shape = append(shape, int(f))
		n *= int(f)
	}

	data, ok := asFloats(dataRaw)
	if !ok || len(data) != n {
		return ExtractedTensor{}, false
	}
	return ExtractedTensor{Path: path, Shape: shape, Data: data}, true
}

func asFloats(v []any) ([]float32, bool) {
	if len(v) == 0 {
		return nil, false
	}
	out := make([]float32, len(v))
	for i, elem := range v {
		f, ok := elem.(float64)
		if !ok {
			return nil, false
		}
		out[i] = float32(f)
	}
	return out, true
}

func joinPath(base, elem string) string {
	if base == "" {
		return elem
	}
	return base + "/" + elem
}

// matchesFragment reports whether the tensor's path contains the legacy
// name fragment, case-insensitively.
func matchesFragment(path, fragment string) bool {
	return strings.Contains(strings.ToLower(path), strings.ToLower(fragment))
}
