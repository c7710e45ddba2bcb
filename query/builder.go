package query

import (
	"reflect"
	"strings"

	"github.com/shrek82/sieve/dialect"
)

// Builder assembles a SELECT statement from filter fragments. It is the
// concrete query value the sieve core threads through param handlers:
// handlers call Where/Joins/OrderBy and the exec layer calls BuildSelect.
type Builder struct {
	dialect    dialect.Dialect
	table      string
	alias      string
	selectCols []string
	whereExpr  string
	whereArgs  []any
	joins      []string
	joinArgs   []any
	groupBy    []string
	havingExpr string
	havingArgs []any
	orderBy    []string
	limitSet   bool
	limit      int
	offsetSet  bool
	offset     int
}

// NewBuilder creates a builder generating SQL for the given dialect.
func NewBuilder(d dialect.Dialect) *Builder {
	return &Builder{dialect: d}
}

// Clone creates a deep copy of the builder. Handlers that branch a query
// (or template sessions applied concurrently) should work on clones.
func (b *Builder) Clone() *Builder {
	nb := &Builder{
		dialect:    b.dialect,
		table:      b.table,
		alias:      b.alias,
		whereExpr:  b.whereExpr,
		havingExpr: b.havingExpr,
		limitSet:   b.limitSet,
		limit:      b.limit,
		offsetSet:  b.offsetSet,
		offset:     b.offset,
	}
	nb.selectCols = append(nb.selectCols, b.selectCols...)
	nb.whereArgs = append(nb.whereArgs, b.whereArgs...)
	nb.joins = append(nb.joins, b.joins...)
	nb.joinArgs = append(nb.joinArgs, b.joinArgs...)
	nb.groupBy = append(nb.groupBy, b.groupBy...)
	nb.havingArgs = append(nb.havingArgs, b.havingArgs...)
	nb.orderBy = append(nb.orderBy, b.orderBy...)
	return nb
}

// Table sets the target table for the statement.
func (b *Builder) Table(name string) *Builder {
	b.table = name
	return b
}

// Alias sets a table alias (e.g. "users u").
func (b *Builder) Alias(alias string) *Builder {
	b.alias = strings.TrimSpace(alias)
	return b
}

// Select specifies columns to retrieve. Without it the statement selects *.
func (b *Builder) Select(columns ...string) *Builder {
	b.selectCols = append(b.selectCols, columns...)
	return b
}

// Where adds an AND condition to the WHERE clause.
func (b *Builder) Where(cond string, args ...any) *Builder {
	if cond == "" {
		return b
	}
	if b.whereExpr == "" {
		b.whereExpr = "(" + cond + ")"
	} else {
		b.whereExpr = b.whereExpr + " AND (" + cond + ")"
	}
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

// OrWhere adds an OR condition to the WHERE clause.
func (b *Builder) OrWhere(cond string, args ...any) *Builder {
	if cond == "" {
		return b
	}
	if b.whereExpr == "" {
		b.whereExpr = "(" + cond + ")"
	} else {
		b.whereExpr = b.whereExpr + " OR (" + cond + ")"
	}
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

// WhereIn adds an IN condition for a column and a slice of values. An empty
// slice produces a never-matching condition.
func (b *Builder) WhereIn(column string, values any) *Builder {
	v := reflect.ValueOf(values)
	if !v.IsValid() {
		return b
	}
	kind := v.Kind()
	if kind != reflect.Slice && kind != reflect.Array {
		return b.Where(column+" IN (?)", values)
	}
	if v.Len() == 0 {
		return b.Where("1 = 0")
	}

	placeholders := make([]string, v.Len())
	args := make([]any, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		placeholders[i] = "?"
		args = append(args, v.Index(i).Interface())
	}
	cond := column + " IN (" + strings.Join(placeholders, ", ") + ")"
	return b.Where(cond, args...)
}

// Joins adds a raw JOIN clause. This is what dependency loaders typically
// do once per pass: sieve's loaded-set guarantees the same join is not
// appended twice.
func (b *Builder) Joins(clause string, args ...any) *Builder {
	if !isValidJoinClause(clause) {
		panic("invalid join clause: " + clause)
	}
	b.joins = append(b.joins, clause)
	b.joinArgs = append(b.joinArgs, args...)
	return b
}

// GroupBy adds columns for the GROUP BY clause.
func (b *Builder) GroupBy(columns ...string) *Builder {
	b.groupBy = append(b.groupBy, columns...)
	return b
}

// Having adds an AND condition to the HAVING clause.
func (b *Builder) Having(cond string, args ...any) *Builder {
	if cond == "" {
		return b
	}
	if b.havingExpr == "" {
		b.havingExpr = "(" + cond + ")"
	} else {
		b.havingExpr = b.havingExpr + " AND (" + cond + ")"
	}
	b.havingArgs = append(b.havingArgs, args...)
	return b
}

// OrderBy adds columns for the ORDER BY clause (e.g. "id DESC").
func (b *Builder) OrderBy(columns ...string) *Builder {
	b.orderBy = append(b.orderBy, columns...)
	return b
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(n int) *Builder {
	b.limitSet = true
	b.limit = n
	return b
}

// Offset sets the number of rows to skip.
func (b *Builder) Offset(n int) *Builder {
	b.offsetSet = true
	b.offset = n
	return b
}

func isValidJoinClause(clause string) bool {
	upper := strings.ToUpper(clause)
	forbidden := []string{";", "--", "/*", "*/"}
	for _, s := range forbidden {
		if strings.Contains(upper, s) {
			return false
		}
	}

	keywords := []string{"DROP ", "DELETE ", "UPDATE ", "INSERT ", "TRUNCATE ", "ALTER "}
	for _, k := range keywords {
		if strings.Contains(upper, k) {
			return false
		}
	}

	return strings.Contains(upper, "JOIN")
}

// BuildSelect generates the final SELECT statement and its arguments.
func (b *Builder) BuildSelect() (string, []any) {
	var sb strings.Builder

	argCount := len(b.joinArgs) + len(b.whereArgs) + len(b.havingArgs)
	if b.limitSet {
		argCount++
	}
	if b.offsetSet {
		argCount++
	}
	args := make([]any, 0, argCount)

	sb.WriteString("SELECT ")
	if len(b.selectCols) > 0 {
		sb.WriteString(strings.Join(b.selectCols, ", "))
	} else {
		sb.WriteString("*")
	}

	sb.WriteString(" FROM ")
	sb.WriteString(b.dialect.Quote(b.table))
	if b.alias != "" {
		sb.WriteString(" ")
		sb.WriteString(b.alias)
	}

	if len(b.joins) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(b.joins, " "))
		args = append(args, b.joinArgs...)
	}

	if b.whereExpr != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.whereExpr)
		args = append(args, b.whereArgs...)
	}

	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groupBy, ", "))
	}

	if b.havingExpr != "" {
		sb.WriteString(" HAVING ")
		sb.WriteString(b.havingExpr)
		args = append(args, b.havingArgs...)
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limitSet {
		sb.WriteString(" LIMIT ?")
		args = append(args, b.limit)
	}

	if b.offsetSet {
		sb.WriteString(" OFFSET ?")
		args = append(args, b.offset)
	}

	return b.replacePlaceholders(sb.String()), args
}

// replacePlaceholders rewrites ? markers into the dialect's positional
// placeholders ($1, $2 for Postgres; ? stays ? elsewhere).
func (b *Builder) replacePlaceholders(sql string) string {
	if !strings.Contains(sql, "?") {
		return sql
	}

	var sb strings.Builder
	index := 1
	for {
		idx := strings.Index(sql, "?")
		if idx == -1 {
			sb.WriteString(sql)
			break
		}
		sb.WriteString(sql[:idx])
		sb.WriteString(b.dialect.Placeholder(index))
		sql = sql[idx+1:]
		index++
	}
	return sb.String()
}
