package exec

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"time"

	"github.com/shrek82/sieve/model"
)

// runStatement is the innermost step of the middleware chain: it queries
// the database and scans every row into the statement's destination.
func (db *DB) runStatement(ctx context.Context, stmt *Statement) (*Result, error) {
	start := time.Now()
	rows, err := db.pool.QueryContext(ctx, stmt.SQL, stmt.Args...)
	db.logger.SQL(stmt.SQL, time.Since(start), stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	n, err := scanRows(rows, stmt.Dest)
	if err != nil {
		return nil, err
	}
	return &Result{Data: stmt.Dest, Rows: n}, nil
}

func scanRows(rows *sql.Rows, dest any) (int64, error) {
	if maps, ok := dest.(*[]map[string]any); ok {
		return scanMaps(rows, maps)
	}

	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return 0, fmt.Errorf("dest must be a pointer to a slice")
	}

	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	sliceValue := destValue.Elem()
	itemType := sliceValue.Type().Elem()

	var count int64
	for rows.Next() {
		item := reflect.New(itemType)
		if err := scanRow(rows, columns, item.Interface()); err != nil {
			return count, err
		}
		sliceValue.Set(reflect.Append(sliceValue, item.Elem()))
		count++
	}

	return count, rows.Err()
}

func scanRow(rows *sql.Rows, columns []string, dest any) error {
	m, err := model.GetModel(dest)
	if err != nil {
		return err
	}

	values := make([]any, len(columns))
	for i, col := range columns {
		if field, ok := m.FieldMap[col]; ok {
			values[i] = reflect.New(field.Type).Interface()
		} else {
			var ignore any
			values[i] = &ignore
		}
	}

	if err := rows.Scan(values...); err != nil {
		return err
	}

	destValue := reflect.ValueOf(dest).Elem()
	for i, col := range columns {
		if field, ok := m.FieldMap[col]; ok {
			destValue.Field(field.Index).Set(reflect.ValueOf(values[i]).Elem())
		}
	}

	return nil
}

func scanMaps(rows *sql.Rows, dest *[]map[string]any) (int64, error) {
	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	var count int64
	for rows.Next() {
		values := make([]any, len(columns))
		for i := range values {
			values[i] = new(any)
		}
		if err := rows.Scan(values...); err != nil {
			return count, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			v := *(values[i].(*any))
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		*dest = append(*dest, row)
		count++
	}

	return count, rows.Err()
}
