package valuestore

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-valuestore/layering"
)

// FieldDescriptor describes a leaf path of the effective snapshot and the
// type of the value held there.
type FieldDescriptor struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Dirty bool   `json:"dirty,omitempty"`
}

// Fields enumerates the leaf paths of Snapshot in lexical order. Objects are
// descended into; arrays and scalars are reported as leaves. A descriptor is
// marked Dirty when the path or one of its ancestors has an unsent edit.
func (s *Store) Fields() []FieldDescriptor {
	fields := deriveFieldDescriptors(s.Snapshot(), "")
	for i := range fields {
		fields[i].Dirty = s.dirtyCovers(fields[i].Path)
	}
	if fields == nil {
		fields = []FieldDescriptor{}
	}
	return fields
}

func (s *Store) dirtyCovers(path string) bool {
	segments := layering.SplitPath(path)
	prefix := ""
	for _, segment := range segments {
		prefix = layering.JoinPath(prefix, segment)
		if _, ok := s.dirty[prefix]; ok {
			return true
		}
	}
	return false
}

func deriveFieldDescriptors(value any, prefix string) []FieldDescriptor {
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			if prefix == "" {
				return nil
			}
			return []FieldDescriptor{{Path: prefix, Type: "object"}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var fields []FieldDescriptor
		for _, key := range keys {
			fields = append(fields, deriveFieldDescriptors(typed[key], layering.JoinPath(prefix, key))...)
		}
		return fields
	case []any:
		elementType := "any"
		if len(typed) > 0 {
			elementType = typeName(typed[0])
		}
		return []FieldDescriptor{{Path: prefix, Type: "[]" + elementType}}
	default:
		if prefix == "" {
			return nil
		}
		return []FieldDescriptor{{Path: prefix, Type: typeName(typed)}}
	}
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}
