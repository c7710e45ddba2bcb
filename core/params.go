package core

import (
	"fmt"
	"reflect"
	"sort"
)

// lookupPath reads a nested value by successive keys. A missing key or a
// non-traversable intermediate value yields nil, never an error.
func lookupPath(params any, path []any) any {
	current := params
	for _, key := range path {
		current = lookupKey(current, key)
		if current == nil {
			return nil
		}
	}
	return current
}

// lookupKey reads one key from a map-like container. Keys of any comparable
// type are supported; common map shapes avoid reflection.
func lookupKey(container, key any) any {
	switch m := container.(type) {
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return nil
		}
		return m[k]
	case map[any]any:
		return m[key]
	}

	v := reflect.ValueOf(container)
	if !v.IsValid() || v.Kind() != reflect.Map {
		return nil
	}
	kv := reflect.ValueOf(key)
	if !kv.IsValid() || !kv.Type().AssignableTo(v.Type().Key()) {
		return nil
	}
	ev := v.MapIndex(kv)
	if !ev.IsValid() {
		return nil
	}
	return ev.Interface()
}

// checkStrict validates every key path in params against the declared param
// paths. Only plain key-value mappings are checked; opaque params values
// pass through. All offending paths are collected into one error, shallower
// paths first and keys in sorted order at each level.
func (s *Session) checkStrict(params any) error {
	v := reflect.ValueOf(params)
	if !v.IsValid() || v.Kind() != reflect.Map {
		return nil
	}

	declared := make([][]any, 0, len(s.regs))
	for _, reg := range s.regs {
		declared = append(declared, reg.path)
	}

	var offending [][]any
	collectUnknown(v, nil, declared, &offending)
	if len(offending) > 0 {
		return &UnknownParameterError{Paths: offending}
	}
	return nil
}

func collectUnknown(m reflect.Value, prefix []any, declared [][]any, out *[][]any) {
	keys := m.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%v", keys[i].Interface()) < fmt.Sprintf("%v", keys[j].Interface())
	})

	type pending struct {
		value reflect.Value
		path  []any
	}
	var deeper []pending

	for _, kv := range keys {
		key := kv.Interface()
		path := append(append([]any(nil), prefix...), key)
		value := m.MapIndex(kv)

		switch {
		case pathDeclared(path, declared):
			// Exact match; nested content under a declared path is the
			// parameter's value, not further paths.
		case pathIsPrefix(path, declared):
			child := value
			for child.Kind() == reflect.Interface {
				child = child.Elem()
			}
			if child.IsValid() && child.Kind() == reflect.Map {
				deeper = append(deeper, pending{value: child, path: path})
			} else {
				*out = append(*out, path)
			}
		default:
			*out = append(*out, path)
		}
	}

	for _, p := range deeper {
		collectUnknown(p.value, p.path, declared, out)
	}
}

func pathDeclared(path []any, declared [][]any) bool {
	for _, d := range declared {
		if len(d) == len(path) && pathHasPrefix(d, path) {
			return true
		}
	}
	return false
}

func pathIsPrefix(path []any, declared [][]any) bool {
	for _, d := range declared {
		if len(d) > len(path) && pathHasPrefix(d, path) {
			return true
		}
	}
	return false
}

func pathHasPrefix(path, prefix []any) bool {
	for i, key := range prefix {
		if !reflect.DeepEqual(path[i], key) {
			return false
		}
	}
	return true
}
