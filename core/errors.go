package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration is returned when a registration is malformed (nil or
	// unsupported handler/loader signature).
	ErrConfiguration = errors.New("invalid configuration")
	// ErrQueryNotSet is returned when a pass starts without a query value
	// bound at construction or application time.
	ErrQueryNotSet = errors.New("query not set")
	// ErrParamsNotSet is returned when a pass starts without a params value
	// bound at construction or application time.
	ErrParamsNotSet = errors.New("params not set")
	// ErrQueryAlreadyBound is returned when a query value is supplied twice.
	ErrQueryAlreadyBound = errors.New("query already provided")
	// ErrParamsAlreadyBound is returned when a params value is supplied twice.
	ErrParamsAlreadyBound = errors.New("params already provided")
	// ErrUnknownDependency is returned when a requested dependency has no
	// registration.
	ErrUnknownDependency = errors.New("unknown dependency")
	// ErrUnknownParameters is returned in strict mode when the params value
	// contains key paths no registration declares.
	ErrUnknownParameters = errors.New("unknown parameters")
)

// UnknownDependencyError reports a dependency name that was requested but
// never registered.
type UnknownDependencyError struct {
	Name string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("unknown dependency %q: register it with Dependency(%q, loader)", e.Name, e.Name)
}

func (e *UnknownDependencyError) Unwrap() error { return ErrUnknownDependency }

// UnknownParameterError reports every params key path that no registration
// declares. Paths are ordered by traversal, top-level keys first.
type UnknownParameterError struct {
	Paths [][]any
}

func (e *UnknownParameterError) Error() string {
	var sb strings.Builder
	sb.WriteString("unknown parameters: ")
	for i, path := range e.Paths {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatPath(path))
	}
	return sb.String()
}

func (e *UnknownParameterError) Unwrap() error { return ErrUnknownParameters }

func formatPath(path []any) string {
	parts := make([]string, len(path))
	for i, key := range path {
		parts[i] = fmt.Sprintf("%v", key)
	}
	return strings.Join(parts, ".")
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
