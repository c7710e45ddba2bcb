package dialect

// Dialect captures the database-specific syntax the query builder needs:
// identifier quoting and bind-parameter placeholders.
type Dialect interface {
	// Name returns the driver name the dialect is registered under.
	Name() string
	// Quote wraps a table or column name in database-specific quotes.
	Quote(name string) string
	// Placeholder returns the bind placeholder for a 1-based argument index.
	Placeholder(index int) string
}

var dialects = make(map[string]Dialect)

// Register registers a dialect for a given driver name.
func Register(name string, d Dialect) {
	dialects[name] = d
}

// Get retrieves a registered dialect by driver name.
func Get(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}
