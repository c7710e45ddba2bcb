package core

// Handler transforms a query value.
type Handler func(query any) any

// ValueHandler transforms a query value using the parameter value read from
// the params structure.
type ValueHandler func(query, value any) any

// Loader applies a named dependency (a join, a base scope) to a query.
type Loader func(query any) any

// ParamsLoader is a Loader that also receives the full params value.
type ParamsLoader func(query, params any) any

// IgnorePredicate decides whether a parameter value counts as absent.
// Absent values skip their handler during an application pass.
type IgnorePredicate func(value any) bool

// paramRegistration is one registered param handler. The handler is
// normalized to the binary form at registration time; unary handlers are
// wrapped and simply drop the value argument.
type paramRegistration struct {
	path           []any
	handler        ValueHandler
	ignore         IgnorePredicate // nil means use the session default
	onIgnore       Handler         // nil means identity
	requires       []string
	requiresFn     func(value any) []string
	ignoreRequires []string
}

// dependency is one registered dependency loader, normalized to the binary
// form like param handlers.
type dependency struct {
	load     ParamsLoader
	requires []string
}

// Session accumulates param-handler and dependency registrations plus the
// configuration for one application pass. Registration methods return a new
// Session value, so a fully registered session can be shared as a template
// across concurrent passes.
type Session struct {
	query         any
	params        any
	regs          []paramRegistration // registration order
	deps          map[string]dependency
	forceRequired []string
	strict        bool
	ignore        IgnorePredicate
	err           error // first registration error, surfaced at Apply
}

// Option configures a new Session.
type Option func(*Session)

// Strict makes the application pass reject params key paths that no Param
// registration declares.
func Strict() Option {
	return func(s *Session) { s.strict = true }
}

// IgnoreWhen replaces the session default ignore predicate (Absent).
func IgnoreWhen(fn IgnorePredicate) Option {
	return func(s *Session) { s.ignore = fn }
}

// New creates an empty session. Query and params are bound later via
// ApplyWith.
func New(opts ...Option) *Session {
	s := &Session{
		deps:   make(map[string]dependency),
		ignore: Absent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewBound creates a session with the query and params values already bound.
// Apply runs the pass directly; supplying either value again is an error.
func NewBound(query, params any, opts ...Option) *Session {
	s := New(opts...)
	s.query = query
	s.params = params
	return s
}

// clone returns a copy safe to extend without affecting the receiver.
func (s *Session) clone() *Session {
	ns := *s
	ns.regs = make([]paramRegistration, len(s.regs), len(s.regs)+1)
	copy(ns.regs, s.regs)
	ns.deps = make(map[string]dependency, len(s.deps)+1)
	for name, dep := range s.deps {
		ns.deps[name] = dep
	}
	ns.forceRequired = append([]string(nil), s.forceRequired...)
	return &ns
}

func (s *Session) fail(err error) *Session {
	if s.err == nil {
		s.err = err
	}
	return s
}

// ParamOption configures a single Param registration.
type ParamOption func(*paramRegistration)

// Ignore overrides the session ignore predicate for this registration.
func Ignore(fn IgnorePredicate) ParamOption {
	return func(r *paramRegistration) { r.ignore = fn }
}

// OnIgnore sets a transform applied instead of the handler when the value is
// ignored. The default is identity.
func OnIgnore(fn Handler) ParamOption {
	return func(r *paramRegistration) { r.onIgnore = fn }
}

// Requires names the dependencies to load before the handler runs.
func Requires(names ...string) ParamOption {
	return func(r *paramRegistration) {
		r.requires = names
		r.requiresFn = nil
	}
}

// RequiresFunc computes the dependency names from the parameter value at
// application time. It overrides Requires.
func RequiresFunc(fn func(value any) []string) ParamOption {
	return func(r *paramRegistration) { r.requiresFn = fn }
}

// IgnoreRequires names dependencies to load even when the value is ignored.
func IgnoreRequires(names ...string) ParamOption {
	return func(r *paramRegistration) { r.ignoreRequires = names }
}

// Param registers a handler for the parameter at the given key path
// (length >= 1). The handler must be a func(query any) any or a
// func(query, value any) any; anything else is a configuration error
// surfaced at application time. Handlers apply in registration order.
func (s *Session) Param(path []any, handler any, opts ...ParamOption) *Session {
	ns := s.clone()
	if len(path) == 0 {
		return ns.fail(configErr("param path must have at least one key"))
	}
	fn, err := normalizeHandler(handler)
	if err != nil {
		return ns.fail(err)
	}
	reg := paramRegistration{
		path:    append([]any(nil), path...),
		handler: fn,
	}
	for _, opt := range opts {
		opt(&reg)
	}
	ns.regs = append(ns.regs, reg)
	return ns
}

// ParamKey registers a handler for a single top-level key.
func (s *Session) ParamKey(key any, handler any, opts ...ParamOption) *Session {
	return s.Param([]any{key}, handler, opts...)
}

// DepOption configures a single Dependency registration.
type DepOption func(*dependency)

// DependsOn names the dependencies this dependency needs loaded first.
func DependsOn(names ...string) DepOption {
	return func(d *dependency) { d.requires = names }
}

// Dependency registers a named loader. The loader must be a
// func(query any) any or a func(query, params any) any. Registering the
// same name again replaces the earlier registration.
func (s *Session) Dependency(name string, loader any, opts ...DepOption) *Session {
	ns := s.clone()
	fn, err := normalizeLoader(name, loader)
	if err != nil {
		return ns.fail(err)
	}
	dep := dependency{load: fn}
	for _, opt := range opts {
		opt(&dep)
	}
	ns.deps[name] = dep
	return ns
}

// ForceRequire marks dependencies to load at the start of every pass,
// whether or not any handler requires them. Duplicates are collapsed by the
// resolver.
func (s *Session) ForceRequire(names ...string) *Session {
	ns := s.clone()
	ns.forceRequired = append(append([]string(nil), names...), ns.forceRequired...)
	return ns
}

func normalizeHandler(handler any) (ValueHandler, error) {
	switch fn := handler.(type) {
	case nil:
		return nil, configErr("param handler is nil")
	case func(any) any:
		return func(q, _ any) any { return fn(q) }, nil
	case Handler:
		return func(q, _ any) any { return fn(q) }, nil
	case func(any, any) any:
		return fn, nil
	case ValueHandler:
		return fn, nil
	default:
		return nil, configErr("param handler must be func(query any) any or func(query, value any) any, got %T", handler)
	}
}

func normalizeLoader(name string, loader any) (ParamsLoader, error) {
	switch fn := loader.(type) {
	case nil:
		return nil, configErr("loader for dependency %q is nil", name)
	case func(any) any:
		return func(q, _ any) any { return fn(q) }, nil
	case Loader:
		return func(q, _ any) any { return fn(q) }, nil
	case func(any, any) any:
		return fn, nil
	case ParamsLoader:
		return fn, nil
	default:
		return nil, configErr("loader for dependency %q must be func(query any) any or func(query, params any) any, got %T", name, loader)
	}
}
