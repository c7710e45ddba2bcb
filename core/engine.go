package core

// Apply runs one application pass using the query and params bound at
// construction (NewBound). The session itself is not mutated, so a bound
// session can back several passes.
func Apply(s *Session) (any, error) {
	return s.run(nil, nil)
}

// ApplyWith binds query and params into the pass and runs it. Each value
// may be supplied at most once across construction and application:
// a non-nil value over an already bound one fails with
// ErrQueryAlreadyBound/ErrParamsAlreadyBound, and a pass starting with
// neither fails with ErrQueryNotSet/ErrParamsNotSet.
func ApplyWith(s *Session, query, params any) (any, error) {
	return s.run(query, params)
}

// Apply is the method form of the package-level Apply.
func (s *Session) Apply() (any, error) {
	return s.run(nil, nil)
}

// ApplyWith is the method form of the package-level ApplyWith.
func (s *Session) ApplyWith(query, params any) (any, error) {
	return s.run(query, params)
}

func (s *Session) run(query, params any) (any, error) {
	if s.err != nil {
		return nil, s.err
	}

	q, err := bindOnce(s.query, query, ErrQueryAlreadyBound, ErrQueryNotSet)
	if err != nil {
		return nil, err
	}
	p, err := bindOnce(s.params, params, ErrParamsAlreadyBound, ErrParamsNotSet)
	if err != nil {
		return nil, err
	}

	if s.strict {
		if err := s.checkStrict(p); err != nil {
			return nil, err
		}
	}

	// The loaded-set lives for exactly one pass. Force-required dependencies
	// seed it before any handler runs.
	loaded := make(map[string]bool)
	q, err = resolve(q, p, s.deps, loaded, s.forceRequired)
	if err != nil {
		return nil, err
	}

	for _, reg := range s.regs {
		value := lookupPath(p, reg.path)

		ignore := reg.ignore
		if ignore == nil {
			ignore = s.ignore
		}

		if ignore(value) {
			q, err = resolve(q, p, s.deps, loaded, reg.ignoreRequires)
			if err != nil {
				return nil, err
			}
			if reg.onIgnore != nil {
				q = reg.onIgnore(q)
			}
			continue
		}

		names := reg.requires
		if reg.requiresFn != nil {
			names = reg.requiresFn(value)
		}
		q, err = resolve(q, p, s.deps, loaded, names)
		if err != nil {
			return nil, err
		}
		q = reg.handler(q, value)
	}

	return q, nil
}

// bindOnce implements the set-once semantics shared by the query and params
// fields: a supplied nil fills nothing, a supplied value fills an empty
// field, and any other combination is an error.
func bindOnce(existing, supplied any, errBound, errNotSet error) (any, error) {
	switch {
	case supplied != nil && existing != nil:
		return nil, errBound
	case supplied == nil && existing == nil:
		return nil, errNotSet
	case supplied == nil:
		return existing, nil
	default:
		return supplied, nil
	}
}
