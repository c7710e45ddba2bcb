package exec

import "context"

// Component is the base interface for exec middleware components.
type Component interface {
	Name() string
	Init(db *DB) error
	Shutdown() error
}

// Statement is a built SELECT ready to run, plus the destination the rows
// scan into.
type Statement struct {
	SQL  string
	Args []any
	Dest any // pointer to a slice of structs or of map[string]any
}

// Result represents the result of running a statement.
type Result struct {
	Data any   // the filled destination
	Rows int64 // number of rows scanned
}

// QueryFunc is the function type for the next step in the middleware chain.
type QueryFunc func(ctx context.Context, stmt *Statement) (*Result, error)

// QueryMiddleware intercepts statement execution. Middleware runs in the
// order it was registered with Use; the innermost call hits the database.
type QueryMiddleware interface {
	Component
	Process(ctx context.Context, stmt *Statement, next QueryFunc) (*Result, error)
}
