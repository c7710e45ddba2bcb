package core_test

import (
	"reflect"
	"testing"

	"github.com/shrek82/sieve/core"
)

func TestDependencyIdempotence(t *testing.T) {
	t.Run("DiamondGraph", func(t *testing.T) {
		counts := map[string]int{}
		dep := func(name string) func(q any) any {
			return func(q any) any { counts[name]++; return q }
		}

		// a and b both require base; two handlers require a and b.
		s := core.New().
			Dependency("base", dep("base")).
			Dependency("a", dep("a"), core.DependsOn("base")).
			Dependency("b", dep("b"), core.DependsOn("base")).
			ParamKey("first", func(q any) any { return q }, core.Requires("a", "b")).
			ParamKey("second", func(q any) any { return q }, core.Requires("b", "a", "base"))

		params := map[string]any{"first": "x", "second": "y"}
		if _, err := core.ApplyWith(s, []string{}, params); err != nil {
			t.Fatalf("apply: %v", err)
		}

		for name, n := range counts {
			if n != 1 {
				t.Errorf("dependency %s loaded %d times, want 1", name, n)
			}
		}
		if len(counts) != 3 {
			t.Errorf("expected 3 dependencies loaded, got %v", counts)
		}
	})

	t.Run("ForceRequireDuplicates", func(t *testing.T) {
		n := 0
		s := core.New().
			Dependency("a", func(q any) any { n++; return q }).
			ForceRequire("a", "a").
			ForceRequire("a").
			ParamKey("x", func(q any) any { return q }, core.Requires("a"))

		if _, err := core.ApplyWith(s, []string{}, map[string]any{"x": "v"}); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if n != 1 {
			t.Errorf("dependency loaded %d times, want 1", n)
		}
	})

	t.Run("LoadedSetIsPassScoped", func(t *testing.T) {
		n := 0
		s := core.NewBound([]string{}, map[string]any{}).
			Dependency("a", func(q any) any { n++; return q }).
			ForceRequire("a")

		if _, err := core.Apply(s); err != nil {
			t.Fatalf("first apply: %v", err)
		}
		if _, err := core.Apply(s); err != nil {
			t.Fatalf("second apply: %v", err)
		}
		if n != 2 {
			t.Errorf("loader ran %d times across two passes, want 2", n)
		}
	})
}

func TestResolverPrerequisiteChain(t *testing.T) {
	var order []string
	dep := func(name string) func(q any) any {
		return func(q any) any { order = append(order, name); return q }
	}

	s := core.New().
		Dependency("c", dep("c")).
		Dependency("b", dep("b"), core.DependsOn("c")).
		Dependency("a", dep("a"), core.DependsOn("b")).
		ParamKey("x", func(q any) any { return q }, core.Requires("a"))

	if _, err := core.ApplyWith(s, []string{}, map[string]any{"x": "v"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"c", "b", "a"}) {
		t.Errorf("prerequisites must load first: %v", order)
	}
}

func TestResolverUnknownPrerequisite(t *testing.T) {
	s := core.New().
		Dependency("a", func(q any) any { return q }, core.DependsOn("ghost")).
		ParamKey("x", func(q any) any { return q }, core.Requires("a"))

	_, err := core.ApplyWith(s, []string{}, map[string]any{"x": "v"})
	if err == nil {
		t.Fatal("expected an error for an unregistered prerequisite")
	}
}
