package core_test

import (
	"testing"

	"github.com/shrek82/sieve/core"
)

func TestAbsent(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"Nil", nil, true},
		{"EmptyString", "", true},
		{"EmptySlice", []any{}, true},
		{"EmptyStringSlice", []string{}, true},
		{"EmptyMap", map[string]any{}, true},
		{"NilPointer", (*int)(nil), true},
		{"String", "John", false},
		{"Zero", 0, false},
		{"False", false, false},
		{"Slice", []string{"a"}, false},
		{"Map", map[string]any{"k": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.Absent(tt.value); got != tt.want {
				t.Errorf("Absent(%#v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestZero(t *testing.T) {
	if !core.Zero(0) || !core.Zero("") || !core.Zero(false) || !core.Zero(nil) {
		t.Error("Zero should report zero values")
	}
	if core.Zero(1) || core.Zero("x") || core.Zero(true) {
		t.Error("Zero should not report non-zero values")
	}
}

func TestNever(t *testing.T) {
	if core.Never(nil) || core.Never("") {
		t.Error("Never must treat every value as present")
	}
}

func TestAnyOf(t *testing.T) {
	pred := core.AnyOf(core.Absent, func(v any) bool { return v == "all" })

	if !pred("") {
		t.Error("AnyOf should include Absent")
	}
	if !pred("all") {
		t.Error("AnyOf should include the custom predicate")
	}
	if pred("John") {
		t.Error("AnyOf matched a present value")
	}
}
