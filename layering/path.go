package layering

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// PathSeparator delimits segments of a field path.
const PathSeparator = "."

// SplitPath breaks a dot path into its segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// JoinPath appends segment to prefix using the path separator.
func JoinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + PathSeparator + segment
}

// WalkResult describes how far a path walk got through a tree.
type WalkResult struct {
	// Value holds the node reached when Found is true.
	Value any
	// Found reports that every segment was consumed against real structure.
	Found bool
	// Blocked reports that the walk stopped on a value that cannot be
	// descended into (a scalar, nil, or an identifier the server sent in
	// place of an object).
	Blocked bool
	// Depth is the number of segments consumed before the walk ended.
	Depth int
}

// Walk descends root one segment at a time. Objects are entered by key and
// arrays by decimal index. A key missing from a traversable node ends the
// walk as not found; reaching a non-traversable node ends it as blocked.
func Walk(root map[string]any, path string) WalkResult {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return WalkResult{}
	}

	var node any = root
	for i, segment := range segments {
		value, found, traversable := child(node, segment)
		if !traversable {
			return WalkResult{Blocked: true, Depth: i}
		}
		if !found {
			return WalkResult{Depth: i}
		}
		node = value
	}
	return WalkResult{Value: node, Found: true, Depth: len(segments)}
}

func child(node any, segment string) (value any, found, traversable bool) {
	switch typed := node.(type) {
	case map[string]any:
		value, found = typed[segment]
		return value, found, true
	case []any:
		idx, ok := index(segment, len(typed))
		if !ok {
			return nil, false, true
		}
		return typed[idx], true, true
	}

	rv := reflect.ValueOf(node)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false, false
		}
		if rv.IsNil() {
			return nil, false, true
		}
		entry := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !entry.IsValid() {
			return nil, false, true
		}
		return entry.Interface(), true, true
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false, false
		}
		idx, ok := index(segment, rv.Len())
		if !ok {
			return nil, false, true
		}
		return rv.Index(idx).Interface(), true, true
	default:
		return nil, false, false
	}
}

func index(segment string, length int) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}

// Expand turns a flat dot-path map into a tree. A deeper key refines, rather
// than gets replaced by, an object written at one of its ancestors. Values are
// cloned.
func Expand(flat map[string]any) map[string]any {
	return Compose(nil, flat)
}

func shallowFirst(flat map[string]any) []string {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := strings.Count(keys[i], PathSeparator), strings.Count(keys[j], PathSeparator)
		if di != dj {
			return di < dj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// SetPath writes value into tree at path, creating intermediate objects and
// replacing non-traversable ancestors. tree is modified in place.
func SetPath(tree map[string]any, path string, value any) {
	segments := SplitPath(path)
	if tree == nil || len(segments) == 0 {
		return
	}
	setIn(tree, segments, value)
}

func setIn(node any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}
	head, rest := segments[0], segments[1:]

	switch typed := node.(type) {
	case map[string]any:
		typed[head] = setIn(typed[head], rest, value)
		return typed
	case []any:
		if idx, ok := index(head, len(typed)); ok {
			typed[idx] = setIn(typed[idx], rest, value)
			return typed
		}
	}

	return map[string]any{head: setIn(nil, rest, value)}
}
