// Package schema implements the per-schema-type reconstructors that sit
// on the outbound side of the reader's "per-schema reconstructor
// boundary" (§6): given a Prim's opaque PropertyMap and its decoded
// references, each produces one usd.Schema payload plus warnings. This
// package is an external collaborator from the reader's point of view —
// it is the thing ReconstructPrim<T> calls — implemented here at real
// fidelity so the module runs end to end.
package schema

import (
	"fmt"

	"github.com/usdscene/usdscene/usd"
)

// ReconstructFunc is the common shape every per-type reconstructor is
// adapted to, so the reader can dispatch by type name through one table
// (Registry) instead of a long type switch.
type ReconstructFunc func(props *usd.PropertyMap, refs []usd.Reference) (usd.Schema, []string, error)

func getProp(props *usd.PropertyMap, name string) (usd.Property, bool) {
	if props == nil {
		return usd.Property{}, false
	}
	return props.Get(name)
}

func getFloat(props *usd.PropertyMap, name string, def float64) (float64, []string) {
	p, ok := getProp(props, name)
	if !ok || p.Value == nil {
		return def, nil
	}
	f, ok := p.Value.(float64)
	if !ok {
		return def, []string{fmt.Sprintf("%s: expected a number, got %T", name, p.Value)}
	}
	return f, nil
}

func getString(props *usd.PropertyMap, name string, def string) (string, []string) {
	p, ok := getProp(props, name)
	if !ok || p.Value == nil {
		return def, nil
	}
	s, ok := p.Value.(string)
	if !ok {
		return def, []string{fmt.Sprintf("%s: expected a string, got %T", name, p.Value)}
	}
	return s, nil
}

func getBool(props *usd.PropertyMap, name string, def bool) (bool, []string) {
	p, ok := getProp(props, name)
	if !ok || p.Value == nil {
		return def, nil
	}
	b, ok := p.Value.(bool)
	if !ok {
		return def, []string{fmt.Sprintf("%s: expected a bool, got %T", name, p.Value)}
	}
	return b, nil
}

// tupleToVec3 converts a parsed "(x, y, z)" tuple ([]any of float64) into
// a Vec3. Short tuples are zero-padded; this is lenient on purpose since
// the grammar carries no static arity.
func tupleToVec3(v any) (usd.Vec3, bool) {
	list, ok := v.([]any)
	if !ok {
		return usd.Vec3{}, false
	}
	var out [3]float64
	for i := 0; i < len(list) && i < 3; i++ {
		f, ok := list[i].(float64)
		if !ok {
			return usd.Vec3{}, false
		}
		out[i] = f
	}
	return usd.Vec3{X: out[0], Y: out[1], Z: out[2]}, true
}

func tupleToQuat(v any) (usd.Quat, bool) {
	list, ok := v.([]any)
	if !ok {
		return usd.Quat{}, false
	}
	var out [4]float64
	for i := 0; i < len(list) && i < 4; i++ {
		f, ok := list[i].(float64)
		if !ok {
			return usd.Quat{}, false
		}
		out[i] = f
	}
	return usd.Quat{R: out[0], I: out[1], J: out[2], K: out[3]}, true
}

func getVec3(props *usd.PropertyMap, name string, def usd.Vec3) (usd.Vec3, []string) {
	p, ok := getProp(props, name)
	if !ok || p.Value == nil {
		return def, nil
	}
	v, ok := tupleToVec3(p.Value)
	if !ok {
		return def, []string{fmt.Sprintf("%s: expected a 3-tuple, got %T", name, p.Value)}
	}
	return v, nil
}

func getVec3Slice(props *usd.PropertyMap, name string) ([]usd.Vec3, []string) {
	p, ok := getProp(props, name)
	if !ok || p.Value == nil {
		return nil, nil
	}
	list, ok := p.Value.([]any)
	if !ok {
		return nil, []string{fmt.Sprintf("%s: expected a list, got %T", name, p.Value)}
	}
	out := make([]usd.Vec3, 0, len(list))
	var warnings []string
	for i, item := range list {
		v, ok := tupleToVec3(item)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s[%d]: expected a 3-tuple, got %T", name, i, item))
			continue
		}
		out = append(out, v)
	}
	return out, warnings
}

func getQuatSlice(props *usd.PropertyMap, name string) ([]usd.Quat, []string) {
	p, ok := getProp(props, name)
	if !ok || p.Value == nil {
		return nil, nil
	}
	list, ok := p.Value.([]any)
	if !ok {
		return nil, []string{fmt.Sprintf("%s: expected a list, got %T", name, p.Value)}
	}
	out := make([]usd.Quat, 0, len(list))
	var warnings []string
	for i, item := range list {
		q, ok := tupleToQuat(item)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s[%d]: expected a 4-tuple, got %T", name, i, item))
			continue
		}
		out = append(out, q)
	}
	return out, warnings
}

func getFloatSlice(props *usd.PropertyMap, name string) ([]float64, []string) {
	p, ok := getProp(props, name)
	if !ok || p.Value == nil {
		return nil, nil
	}
	list, ok := p.Value.([]any)
	if !ok {
		return nil, []string{fmt.Sprintf("%s: expected a list, got %T", name, p.Value)}
	}
	out := make([]float64, 0, len(list))
	var warnings []string
	for i, item := range list {
		f, ok := item.(float64)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s[%d]: expected a number, got %T", name, i, item))
			continue
		}
		out = append(out, f)
	}
	return out, warnings
}

func getIntSlice(props *usd.PropertyMap, name string) ([]int, []string) {
	fs, warnings := getFloatSlice(props, name)
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = int(f)
	}
	return out, warnings
}

func getStringSlice(props *usd.PropertyMap, name string) ([]string, []string) {
	p, ok := getProp(props, name)
	if !ok || p.Value == nil {
		return nil, nil
	}
	list, ok := p.Value.([]any)
	if !ok {
		return nil, []string{fmt.Sprintf("%s: expected a list, got %T", name, p.Value)}
	}
	out := make([]string, 0, len(list))
	var warnings []string
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s[%d]: expected a string, got %T", name, i, item))
			continue
		}
		out = append(out, s)
	}
	return out, warnings
}

// getMatrix4Slice reads a list of 4x4 matrices, each written as a
// 4-element tuple of 4-element tuples (USD's matrix4d literal shape).
func getMatrix4Slice(props *usd.PropertyMap, name string) ([]usd.Matrix4, []string) {
	p, ok := getProp(props, name)
	if !ok || p.Value == nil {
		return nil, nil
	}
	list, ok := p.Value.([]any)
	if !ok {
		return nil, []string{fmt.Sprintf("%s: expected a list, got %T", name, p.Value)}
	}
	out := make([]usd.Matrix4, 0, len(list))
	var warnings []string
	for i, item := range list {
		rows, ok := item.([]any)
		if !ok || len(rows) != 4 {
			warnings = append(warnings, fmt.Sprintf("%s[%d]: expected a 4x4 matrix tuple, got %T", name, i, item))
			continue
		}
		var m usd.Matrix4
		bad := false
		for r, rowv := range rows {
			row, ok := rowv.([]any)
			if !ok || len(row) != 4 {
				bad = true
				break
			}
			for c, cv := range row {
				f, ok := cv.(float64)
				if !ok {
					bad = true
					break
				}
				m[r][c] = f
			}
		}
		if bad {
			warnings = append(warnings, fmt.Sprintf("%s[%d]: malformed matrix row", name, i))
			continue
		}
		out = append(out, m)
	}
	return out, warnings
}

// relationshipTarget returns the first target path of a relationship
// property, if present.
func relationshipTarget(props *usd.PropertyMap, name string) (usd.Path, bool) {
	p, ok := getProp(props, name)
	if !ok || p.Kind != usd.PropertyRelationship || len(p.Targets) == 0 {
		return usd.Path{}, false
	}
	return p.Targets[0], true
}
