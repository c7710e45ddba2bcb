package core

import "reflect"

// Absent is the default ignore predicate. It reports true for nil, empty
// strings, empty slices and arrays, empty maps, and nil pointers, so a
// handler whose parameter was never supplied (or supplied blank) is skipped.
func Absent(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return Absent(v.Elem().Interface())
	}
	return false
}

// Never treats every value as present, so the handler always runs.
func Never(any) bool { return false }

// Zero reports true for the zero value of the value's type. Unlike Absent
// it also skips 0 and false.
func Zero(value any) bool {
	if value == nil {
		return true
	}
	return reflect.ValueOf(value).IsZero()
}

// AnyOf combines predicates; the value is ignored if any predicate says so.
func AnyOf(preds ...IgnorePredicate) IgnorePredicate {
	return func(value any) bool {
		for _, p := range preds {
			if p(value) {
				return true
			}
		}
		return false
	}
}
