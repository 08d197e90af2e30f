package recipe

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"hypnagogic/internal/dmierr"
	"hypnagogic/internal/smoothing"
)

var topLevelKeys = []string{"file_prefix", "output_name", "group", "mode"}

var bitmaskSliceKeys = []string{
	"type", "icon_size", "output_icon_pos", "output_icon_size", "positions",
	"cut_position", "produce_dirs", "is_diagonal", "prefabs", "delay",
	"source_scale", "flags",
}

var cornerKindNames = map[string]smoothing.CornerKind{
	"convex":     smoothing.Convex,
	"concave":    smoothing.Concave,
	"horizontal": smoothing.Horizontal,
	"vertical":   smoothing.Vertical,
	"flat":       smoothing.Flat,
}

// decode strictly types a merged tree into a Recipe, validating required
// keys, value ranges, and rejecting anything left over. doc is the
// top-level document's own parsed Node; decode does not read it, and its
// errors name the file path but carry no line/column location.
func decode(tree map[string]any, doc *yaml.Node, path string) (Recipe, error) {
	if err := checkKeys(tree, topLevelKeys, path, "recipe"); err != nil {
		return Recipe{}, err
	}

	var r Recipe
	r.FilePrefix, _ = tree["file_prefix"].(string)
	r.OutputName, _ = tree["output_name"].(string)
	r.Group, _ = tree["group"].(string)

	modeTree, ok := tree["mode"].(map[string]any)
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %s: recipe has no mode", dmierr.ErrMissingRequiredKey, path)
	}

	modeType, _ := modeTree["type"].(string)
	switch modeType {
	case "bitmask_slice":
		bs, err := decodeBitmaskSlice(modeTree, path)
		if err != nil {
			return Recipe{}, err
		}
		r.Mode = bs
	case "":
		return Recipe{}, fmt.Errorf("%w: %s: mode.type is required", dmierr.ErrMissingRequiredKey, path)
	default:
		return Recipe{}, fmt.Errorf("%w: %s: unknown mode type %q", dmierr.ErrBadFieldValue, path, modeType)
	}

	return r, nil
}

func decodeBitmaskSlice(m map[string]any, path string) (BitmaskSlice, error) {
	if err := checkKeys(m, bitmaskSliceKeys, path, "mode"); err != nil {
		return BitmaskSlice{}, err
	}

	var b BitmaskSlice

	iconSize, err := requireDims(m, "icon_size", path)
	if err != nil {
		return BitmaskSlice{}, err
	}
	b.IconSize = iconSize
	if iconSize.W <= 0 || iconSize.H <= 0 {
		return BitmaskSlice{}, fmt.Errorf("%w: %s: icon_size must be positive, got %dx%d", dmierr.ErrBadFieldValue, path, iconSize.W, iconSize.H)
	}

	b.OutputIconPos = optionalPoint(m, "output_icon_pos")
	b.OutputIconSize = iconSize
	if outSize, ok := m["output_icon_size"]; ok {
		size, err := decodeDims(outSize, path, "output_icon_size")
		if err != nil {
			return BitmaskSlice{}, err
		}
		b.OutputIconSize = size
	}
	if b.OutputIconPos.X+b.IconSize.W > b.OutputIconSize.W || b.OutputIconPos.Y+b.IconSize.H > b.OutputIconSize.H {
		return BitmaskSlice{}, fmt.Errorf("%w: %s: output_icon_pos + icon_size must be <= output_icon_size", dmierr.ErrBadFieldValue, path)
	}

	b.IsDiagonal, _ = m["is_diagonal"].(bool)
	b.ProduceDirs, _ = m["produce_dirs"].(bool)

	positions, err := decodePositions(m, b.IsDiagonal, path)
	if err != nil {
		return BitmaskSlice{}, err
	}
	b.Positions = positions

	cut, err := requirePoint(m, "cut_position", path)
	if err != nil {
		return BitmaskSlice{}, err
	}
	if cut.X <= 0 || cut.X >= b.IconSize.W || cut.Y <= 0 || cut.Y >= b.IconSize.H {
		return BitmaskSlice{}, fmt.Errorf("%w: %s: cut_position must be interior to icon_size", dmierr.ErrBadFieldValue, path)
	}
	b.CutPosition = cut

	if pf, ok := m["prefabs"]; ok {
		prefabs, err := decodePrefabs(pf, path)
		if err != nil {
			return BitmaskSlice{}, err
		}
		b.Prefabs = prefabs
	}

	if d, ok := m["delay"]; ok {
		delay, err := decodeDelay(d, path)
		if err != nil {
			return BitmaskSlice{}, err
		}
		b.Delay = delay
	}

	b.SourceScale = 1
	if s, ok := m["source_scale"]; ok {
		f, ok := asFloat(s)
		if !ok || f <= 0 {
			return BitmaskSlice{}, fmt.Errorf("%w: %s: source_scale must be a positive number", dmierr.ErrBadFieldValue, path)
		}
		b.SourceScale = f
	}

	if fl, ok := m["flags"].(map[string]any); ok {
		b.Flags = make(map[string]bool, len(fl))
		for k, v := range fl {
			bv, _ := v.(bool)
			b.Flags[k] = bv
		}
	}

	return b, nil
}

func decodePositions(m map[string]any, isDiagonal bool, path string) (map[smoothing.CornerKind]int, error) {
	raw, ok := m["positions"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: positions is required", dmierr.ErrMissingRequiredKey, path)
	}

	required := []string{"convex", "concave", "horizontal", "vertical"}
	if isDiagonal {
		required = append(required, "flat")
	}

	out := make(map[smoothing.CornerKind]int, len(raw))
	for key, v := range raw {
		kind, ok := cornerKindNames[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s: positions has unknown key %q", dmierr.ErrUnknownRecipeKey, path, key)
		}
		idx, ok := asInt(v)
		if !ok || idx < 0 {
			return nil, fmt.Errorf("%w: %s: positions.%s must be a non-negative integer", dmierr.ErrBadFieldValue, path, key)
		}
		out[kind] = idx
	}

	for _, name := range required {
		if _, ok := out[cornerKindNames[name]]; !ok {
			return nil, fmt.Errorf("%w: %s: positions.%s is required", dmierr.ErrMissingRequiredKey, path, name)
		}
	}
	if !isDiagonal {
		delete(out, smoothing.Flat)
	}

	return out, nil
}

func decodePrefabs(v any, path string) (map[uint8]int, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: prefabs must be a mapping", dmierr.ErrBadFieldValue, path)
	}
	out := make(map[uint8]int, len(raw))
	for key, val := range raw {
		j, err := strconv.Atoi(key)
		if err != nil || j < 0 || j > 255 {
			return nil, fmt.Errorf("%w: %s: prefabs key %q must be an integer 0-255", dmierr.ErrBadFieldValue, path, key)
		}
		idx, ok := asInt(val)
		if !ok || idx < 0 {
			return nil, fmt.Errorf("%w: %s: prefabs.%s must be a non-negative integer", dmierr.ErrBadFieldValue, path, key)
		}
		out[uint8(j)] = idx
	}
	return out, nil
}

func decodeDelay(v any, path string) ([]float64, error) {
	raw, ok := v.([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s: delay must be a non-empty sequence", dmierr.ErrBadFieldValue, path)
	}
	out := make([]float64, len(raw))
	for i, item := range raw {
		f, ok := asFloat(item)
		if !ok || f <= 0 {
			return nil, fmt.Errorf("%w: %s: delay[%d] must be a positive number", dmierr.ErrBadFieldValue, path, i)
		}
		out[i] = f
	}
	return out, nil
}

func requireDims(m map[string]any, key, path string) (Dims, error) {
	v, ok := m[key]
	if !ok {
		return Dims{}, fmt.Errorf("%w: %s: %s is required", dmierr.ErrMissingRequiredKey, path, key)
	}
	return decodeDims(v, path, key)
}

func decodeDims(v any, path, key string) (Dims, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Dims{}, fmt.Errorf("%w: %s: %s must be a mapping with w, h", dmierr.ErrBadFieldValue, path, key)
	}
	w, wok := asInt(m["w"])
	h, hok := asInt(m["h"])
	if !wok || !hok {
		return Dims{}, fmt.Errorf("%w: %s: %s.w and %s.h must be integers", dmierr.ErrBadFieldValue, path, key, key)
	}
	return Dims{W: w, H: h}, nil
}

func requirePoint(m map[string]any, key, path string) (Point, error) {
	v, ok := m[key]
	if !ok {
		return Point{}, fmt.Errorf("%w: %s: %s is required", dmierr.ErrMissingRequiredKey, path, key)
	}
	pm, ok := v.(map[string]any)
	if !ok {
		return Point{}, fmt.Errorf("%w: %s: %s must be a mapping with x, y", dmierr.ErrBadFieldValue, path, key)
	}
	x, xok := asInt(pm["x"])
	y, yok := asInt(pm["y"])
	if !xok || !yok {
		return Point{}, fmt.Errorf("%w: %s: %s.x and %s.y must be integers", dmierr.ErrBadFieldValue, path, key, key)
	}
	return Point{X: x, Y: y}, nil
}

func optionalPoint(m map[string]any, key string) Point {
	v, ok := m[key]
	if !ok {
		return Point{}
	}
	pm, ok := v.(map[string]any)
	if !ok {
		return Point{}
	}
	x, _ := asInt(pm["x"])
	y, _ := asInt(pm["y"])
	return Point{X: x, Y: y}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// checkKeys fails with ErrUnknownRecipeKey if m contains any key outside allowed.
func checkKeys(m map[string]any, allowed []string, path, context string) error {
	ok := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		ok[k] = true
	}
	for k := range m {
		if !ok[k] {
			return fmt.Errorf("%w: %s: unknown %s key %q", dmierr.ErrUnknownRecipeKey, path, context, k)
		}
	}
	return nil
}
