package model

import (
	"fmt"
	"reflect"
	"sync"
	"unicode"
)

// Field represents a result column mapped from a struct field.
type Field struct {
	Name   string       // Struct field name
	Column string       // Result column name
	Type   reflect.Type // Field type
	Index  int          // Struct field index for fast access
}

// Model represents the column mapping for a destination struct.
type Model struct {
	Fields   []*Field
	FieldMap map[string]*Field
}

var modelCache sync.Map

// GetModel returns the column mapping for a given struct value. Mappings
// are cached per type.
func GetModel(value any) (*Model, error) {
	if value == nil {
		return nil, fmt.Errorf("value is nil")
	}

	typ := reflect.TypeOf(value)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("value must be a struct or pointer to struct, got %s", typ.Kind())
	}

	key := typ.PkgPath() + "." + typ.Name()
	if cached, ok := modelCache.Load(key); ok {
		return cached.(*Model), nil
	}

	m := parseModel(typ)
	modelCache.Store(key, m)
	return m, nil
}

func parseModel(typ reflect.Type) *Model {
	m := &Model{
		FieldMap: make(map[string]*Field),
	}

	for i := 0; i < typ.NumField(); i++ {
		structField := typ.Field(i)
		if !structField.IsExported() {
			continue
		}

		columnName := structField.Tag.Get("sieve")
		if columnName == "-" {
			continue
		}
		if columnName == "" {
			columnName = camelToSnake(structField.Name)
		}

		field := &Field{
			Name:   structField.Name,
			Column: columnName,
			Type:   structField.Type,
			Index:  i,
		}

		m.Fields = append(m.Fields, field)
		m.FieldMap[columnName] = field
	}

	return m
}

func camelToSnake(s string) string {
	if s == "ID" {
		return "id"
	}
	var res []rune
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rune(s[i-1])) || (i+1 < len(s) && unicode.IsLower(rune(s[i+1])))) {
				res = append(res, '_')
			}
			res = append(res, unicode.ToLower(r))
		} else {
			res = append(res, r)
		}
	}
	return string(res)
}
