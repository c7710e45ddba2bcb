// Package sieve composes queries from request parameters: register a
// handler per parameter and a loader per shared dependency (a join, a base
// scope), then apply them all in one pass. Handlers run in registration
// order, absent parameters are skipped, and each dependency loads at most
// once per pass no matter how many handlers require it.
package sieve

import (
	"github.com/shrek82/sieve/core"
)

// Re-export core types and functions
type Session = core.Session
type Option = core.Option
type ParamOption = core.ParamOption
type DepOption = core.DepOption
type Handler = core.Handler
type ValueHandler = core.ValueHandler
type Loader = core.Loader
type ParamsLoader = core.ParamsLoader
type IgnorePredicate = core.IgnorePredicate
type UnknownDependencyError = core.UnknownDependencyError
type UnknownParameterError = core.UnknownParameterError

var (
	New       = core.New
	NewBound  = core.NewBound
	Apply     = core.Apply
	ApplyWith = core.ApplyWith

	// Session options
	Strict     = core.Strict
	IgnoreWhen = core.IgnoreWhen

	// Param options
	Ignore         = core.Ignore
	OnIgnore       = core.OnIgnore
	Requires       = core.Requires
	RequiresFunc   = core.RequiresFunc
	IgnoreRequires = core.IgnoreRequires

	// Dependency options
	DependsOn = core.DependsOn

	// Ignore predicates
	Absent = core.Absent
	Never  = core.Never
	Zero   = core.Zero
	AnyOf  = core.AnyOf
)

// Errors
var (
	ErrConfiguration      = core.ErrConfiguration
	ErrQueryNotSet        = core.ErrQueryNotSet
	ErrParamsNotSet       = core.ErrParamsNotSet
	ErrQueryAlreadyBound  = core.ErrQueryAlreadyBound
	ErrParamsAlreadyBound = core.ErrParamsAlreadyBound
	ErrUnknownDependency  = core.ErrUnknownDependency
	ErrUnknownParameters  = core.ErrUnknownParameters
)
