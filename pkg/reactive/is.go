package reactive

import (
	"fmt"
	"math"
	"reflect"
)

// Is reports whether a and b are the same value. It is the equality
// UseEffect applies to each dependency.
//
//   - Values of different dynamic types are never the same.
//   - Floats and complex numbers compare by value, except that NaN is the
//     same as NaN and +0 is not the same as -0. This also holds inside
//     arrays, structs and interface values.
//   - Pointers, maps, channels and funcs compare by identity. Funcs only
//     carry a code pointer, so two closures created from the same literal
//     are the same.
//   - Slices are the same when they share backing array, length and
//     capacity; contents are not inspected.
//   - Arrays and structs are the same when every element or field is.
//   - Other comparable values use ==. Values that cannot be compared
//     (e.g. structs holding slices) are never the same.
func Is(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return isValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func isValue(va, vb reflect.Value) bool {
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		return sameFloat(va.Float(), vb.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := va.Complex(), vb.Complex()
		return sameFloat(real(ca), real(cb)) && sameFloat(imag(ca), imag(cb))
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len() && va.Cap() == vb.Cap()
	case reflect.Interface:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return isValue(va.Elem(), vb.Elem())
	}

	if !va.Comparable() || !vb.Comparable() {
		return false
	}

	switch va.Kind() {
	case reflect.Array:
		for i := 0; i < va.Len(); i++ {
			if !isValue(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < va.NumField(); i++ {
			if !isValue(va.Field(i), vb.Field(i)) {
				return false
			}
		}
		return true
	}
	return va.Equal(vb)
}

func sameFloat(x, y float64) bool {
	if math.IsNaN(x) && math.IsNaN(y) {
		return true
	}
	return x == y && math.Signbit(x) == math.Signbit(y)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
