package gate

import (
	"reflect"

	"github.com/vango-dev/gatefx/pkg/reactive"
)

// DeepEqual compares the lists element by element with reflect.DeepEqual.
// Funcs are equal only when both are nil, as with reflect.DeepEqual.
func DeepEqual(prev, next []any) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !reflect.DeepEqual(prev[i], next[i]) {
			return false
		}
	}
	return true
}

// ShallowEqual compares the lists element by element. Elements equal under
// reactive.Is are equal. Otherwise slices and arrays are equal when their
// elements are pairwise equal under reactive.Is, and maps when they hold the
// same keys with values equal under reactive.Is. Nothing is compared more
// than one level deep.
func ShallowEqual(prev, next []any) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !shallowEqual(prev[i], next[i]) {
			return false
		}
	}
	return true
}

func shallowEqual(a, b any) bool {
	if reactive.Is(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Slice, reflect.Array:
		if va.Kind() == reflect.Slice && va.IsNil() != vb.IsNil() {
			return false
		}
		if va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !reactive.Is(va.Index(i).Interface(), vb.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Map:
		if va.IsNil() != vb.IsNil() || va.Len() != vb.Len() {
			return false
		}
		iter := va.MapRange()
		for iter.Next() {
			bv := vb.MapIndex(iter.Key())
			if !bv.IsValid() || !reactive.Is(iter.Value().Interface(), bv.Interface()) {
				return false
			}
		}
		return true
	}
	return false
}
