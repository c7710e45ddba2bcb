package core

// resolve loads every requested dependency that is not already in loaded,
// prerequisites first, and returns the query after all loaders ran. Each
// dependency loads at most once per pass: loaded is the pass-scoped
// memoization and is shared by recursive calls.
//
// The requires relation is assumed acyclic. A cyclic registration recurses
// until the stack runs out; sibling dependencies at the same level must not
// rely on their relative load order.
func resolve(query, params any, deps map[string]dependency, loaded map[string]bool, requested []string) (any, error) {
	for _, name := range requested {
		if loaded[name] {
			continue
		}
		dep, ok := deps[name]
		if !ok {
			return nil, &UnknownDependencyError{Name: name}
		}
		q, err := resolve(query, params, deps, loaded, dep.requires)
		if err != nil {
			return nil, err
		}
		query = dep.load(q, params)
		loaded[name] = true
	}
	return query, nil
}
