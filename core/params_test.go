package core

import (
	"reflect"
	"testing"
)

func TestLookupPath(t *testing.T) {
	t.Run("Nested", func(t *testing.T) {
		params := map[string]any{
			"company": map[string]any{"name": "Pear"},
		}
		if got := lookupPath(params, []any{"company", "name"}); got != "Pear" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("MissingIntermediate", func(t *testing.T) {
		params := map[string]any{"a": 1}
		if got := lookupPath(params, []any{"b", "c"}); got != nil {
			t.Errorf("missing intermediate should yield nil, got %v", got)
		}
	})

	t.Run("ScalarIntermediate", func(t *testing.T) {
		params := map[string]any{"a": "scalar"}
		if got := lookupPath(params, []any{"a", "b"}); got != nil {
			t.Errorf("scalar intermediate should yield nil, got %v", got)
		}
	})

	t.Run("AnyKeyType", func(t *testing.T) {
		params := map[any]any{1: map[any]any{true: "found"}}
		if got := lookupPath(params, []any{1, true}); got != "found" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("TypedMapViaReflection", func(t *testing.T) {
		params := map[int]string{7: "seven"}
		if got := lookupPath(params, []any{7}); got != "seven" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("MismatchedKeyType", func(t *testing.T) {
		params := map[string]any{"a": 1}
		if got := lookupPath(params, []any{42}); got != nil {
			t.Errorf("mismatched key type should yield nil, got %v", got)
		}
	})

	t.Run("NonMapParams", func(t *testing.T) {
		if got := lookupPath("opaque", []any{"a"}); got != nil {
			t.Errorf("non-map params should yield nil, got %v", got)
		}
	})
}

func TestCollectUnknownOrdering(t *testing.T) {
	declared := [][]any{{"name"}, {"company", "name"}}
	params := map[string]any{
		"zz":      1,
		"company": map[string]any{"service": "IT", "name": "Pear"},
		"aa":      2,
	}

	var offending [][]any
	collectUnknown(reflect.ValueOf(params), nil, declared, &offending)

	// Shallow offenders first, keys sorted at each level.
	want := [][]any{{"aa"}, {"zz"}, {"company", "service"}}
	if !reflect.DeepEqual(offending, want) {
		t.Errorf("got %v, want %v", offending, want)
	}
}
