// Package normalize turns request objects into plain maps without null
// entries before they are handed to the payments platform.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Value returns v with every nil entry removed at any depth. Structs, typed
// maps and typed slices are first converted through their JSON encoding, so
// the result only contains map[string]any, []any and JSON scalars.
// Value(Value(x)) equals Value(x).
func Value(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			if n := Value(item); n != nil {
				out[k] = n
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if n := Value(item); n != nil {
				out = append(out, n)
			}
		}
		return out
	case string, bool, json.Number, float64, float32,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return t
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Value(rv.Elem().Interface())
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil
		}
	case reflect.Struct, reflect.Array:
	default:
		return v
	}

	generic, err := toGeneric(v)
	if err != nil {
		return v
	}
	return Value(generic)
}

// Map normalizes v and requires the result to be an object.
func Map(v any) (map[string]any, error) {
	n := Value(v)
	if n == nil {
		return map[string]any{}, nil
	}
	m, ok := n.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("normalize: expected object, got %T", n)
	}
	return m, nil
}

// Lookup walks nested maps along path and returns the string found there.
func Lookup(m map[string]any, path ...string) (string, bool) {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = obj[key]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
