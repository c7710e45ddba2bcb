package query_test

import (
	"strings"
	"testing"

	"github.com/shrek82/sieve/dialect"
	"github.com/shrek82/sieve/query"
)

func TestBuilder(t *testing.T) {
	d, _ := dialect.Get("sqlite3")

	t.Run("Select", func(t *testing.T) {
		b := query.NewBuilder(d)
		b.Table("users").Select("id", "name").Where("age > ?", 18).OrderBy("id DESC").Limit(10)
		sql, args := b.BuildSelect()

		expectedSQL := "SELECT id, name FROM `users` WHERE (age > ?) ORDER BY id DESC LIMIT ?"
		if sql != expectedSQL {
			t.Errorf("Expected SQL: %s\nGot: %s", expectedSQL, sql)
		}
		if len(args) != 2 || args[0] != 18 || args[1] != 10 {
			t.Errorf("Invalid args: %v", args)
		}
	})

	t.Run("Joins", func(t *testing.T) {
		b := query.NewBuilder(d)
		b.Table("orders").Alias("o").
			Select("o.id", "u.name").
			Joins("INNER JOIN users u ON u.id = o.user_id").
			Where("o.amount > ?", 100)
		sql, args := b.BuildSelect()

		if !strings.Contains(sql, "INNER JOIN users u ON u.id = o.user_id") {
			t.Errorf("Missing JOIN clause: %s", sql)
		}
		if !strings.Contains(sql, "FROM `orders` o") {
			t.Errorf("Missing table alias: %s", sql)
		}
		if args[0] != 100 {
			t.Errorf("Invalid args: %v", args)
		}
	})

	t.Run("JoinsInjection", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Expected panic for SQL injection in Joins")
			}
		}()

		b := query.NewBuilder(d)
		b.Joins("INNER JOIN users; DROP TABLE users; --")
	})

	t.Run("WhereIn", func(t *testing.T) {
		b := query.NewBuilder(d)
		b.Table("users").WhereIn("id", []int{1, 2, 3})
		sql, args := b.BuildSelect()

		if !strings.Contains(sql, "id IN (?, ?, ?)") {
			t.Errorf("Invalid WhereIn SQL: %s", sql)
		}
		if len(args) != 3 {
			t.Errorf("Invalid args length: %d", len(args))
		}
	})

	t.Run("WhereInEmpty", func(t *testing.T) {
		b := query.NewBuilder(d)
		b.Table("users").WhereIn("id", []int{})
		sql, _ := b.BuildSelect()

		if !strings.Contains(sql, "1 = 0") {
			t.Errorf("Empty IN should never match: %s", sql)
		}
	})

	t.Run("OrWhere", func(t *testing.T) {
		b := query.NewBuilder(d)
		b.Table("users").Where("a = ?", 1).OrWhere("b = ?", 2)
		sql, _ := b.BuildSelect()

		if !strings.Contains(sql, "(a = ?) OR (b = ?)") {
			t.Errorf("Invalid OR clause: %s", sql)
		}
	})

	t.Run("GroupByHaving", func(t *testing.T) {
		b := query.NewBuilder(d)
		b.Table("orders").Select("user_id", "COUNT(*)").
			GroupBy("user_id").
			Having("COUNT(*) > ?", 5)
		sql, args := b.BuildSelect()

		if !strings.Contains(sql, "GROUP BY user_id HAVING (COUNT(*) > ?)") {
			t.Errorf("Invalid GROUP BY/HAVING: %s", sql)
		}
		if len(args) != 1 || args[0] != 5 {
			t.Errorf("Invalid args: %v", args)
		}
	})

	t.Run("Clone", func(t *testing.T) {
		b := query.NewBuilder(d)
		b.Table("users").Where("age > ?", 18)

		c := b.Clone()
		c.Where("name = ?", "John")

		sql, args := b.BuildSelect()
		if strings.Contains(sql, "name = ?") {
			t.Errorf("Clone leaked into the original: %s", sql)
		}
		if len(args) != 1 {
			t.Errorf("Invalid original args: %v", args)
		}

		csql, cargs := c.BuildSelect()
		if !strings.Contains(csql, "name = ?") {
			t.Errorf("Clone lost its own condition: %s", csql)
		}
		if len(cargs) != 2 {
			t.Errorf("Invalid clone args: %v", cargs)
		}
	})
}

func TestBuilderPostgresPlaceholders(t *testing.T) {
	d, _ := dialect.Get("postgres")

	b := query.NewBuilder(d)
	b.Table("users").Where("age > ?", 18).Where("city = ?", "Oslo").Limit(5)
	sql, args := b.BuildSelect()

	expectedSQL := `SELECT * FROM "users" WHERE (age > $1) AND (city = $2) LIMIT $3`
	if sql != expectedSQL {
		t.Errorf("Expected SQL: %s\nGot: %s", expectedSQL, sql)
	}
	if len(args) != 3 {
		t.Errorf("Invalid args: %v", args)
	}
}
