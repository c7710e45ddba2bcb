package dialect_test

import (
	"testing"

	"github.com/shrek82/sieve/dialect"
)

func TestRegistry(t *testing.T) {
	for _, name := range []string{"mysql", "postgres", "sqlite3", "sqlserver"} {
		d, ok := dialect.Get(name)
		if !ok {
			t.Fatalf("dialect %s not registered", name)
		}
		if d.Name() != name {
			t.Errorf("dialect %s reports name %s", name, d.Name())
		}
	}

	if _, ok := dialect.Get("oracle"); ok {
		t.Error("unexpected dialect registered for oracle")
	}
}

func TestQuoting(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"mysql", "`users`"},
		{"sqlite3", "`users`"},
		{"postgres", `"users"`},
		{"sqlserver", "[users]"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, _ := dialect.Get(tt.driver)
			if got := d.Quote("users"); got != tt.want {
				t.Errorf("Quote(users) = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		driver string
		index  int
		want   string
	}{
		{"mysql", 3, "?"},
		{"sqlite3", 1, "?"},
		{"postgres", 2, "$2"},
		{"sqlserver", 4, "@p4"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, _ := dialect.Get(tt.driver)
			if got := d.Placeholder(tt.index); got != tt.want {
				t.Errorf("Placeholder(%d) = %s, want %s", tt.index, got, tt.want)
			}
		})
	}
}
