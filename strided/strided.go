// Package strided models the "strided argument view" of spec §4.2
// (component C2): a uniform way to read *any* batched argument array --
// constant (one value broadcast to every task), densely packed, or
// columnar-with-padding -- without forcing callers to allocate contiguous
// scratch for the common cases.
//
// The C ABI this is distilled from expresses a view as (base_ptr,
// stride_bytes, count); in Go we keep the same three access patterns but
// drop raw pointer arithmetic in favor of a generic slice-backed view.
package strided

import "fmt"

// View is a read-only strided view over a slice of T. Stride is expressed in
// elements, not bytes (Go's type system already carries the element size):
//
//   - Stride == 0 and len(Values) == 1: every index reads Values[0]
//     (the "constant" pattern).
//   - Stride == 1: densely packed, View.At(i) == Values[i].
//   - Stride > 1: columnar-with-padding, View.At(i) == Values[i*Stride].
//   - Values == nil: the whole view is "absent" (mirrors a null base_ptr).
type View[T any] struct {
	Values []T
	Stride int
}

// Of builds a densely-packed view over vs (Stride == 1, or 0 if len(vs)<=1
// so that a single-element slice broadcasts like a constant).
func Of[T any](vs ...T) View[T] {
	if len(vs) <= 1 {
		return View[T]{Values: vs, Stride: 0}
	}
	return View[T]{Values: vs, Stride: 1}
}

// Const builds a view that broadcasts a single value to every index.
func Const[T any](v T) View[T] {
	return View[T]{Values: []T{v}, Stride: 0}
}

// Absent returns a view with no backing values, the strided equivalent of a
// null base pointer.
func Absent[T any]() View[T] {
	return View[T]{}
}

// IsAbsent reports whether the view has no backing values at all.
func (v View[T]) IsAbsent() bool {
	return v.Values == nil
}

// At returns the element logically at index i. When the view is absent, it
// returns the zero value of T and ok=false; when the view broadcasts a
// constant (Stride == 0), every index returns Values[0].
func (v View[T]) At(i int) (val T, ok bool) {
	if v.Values == nil {
		return val, false
	}
	if v.Stride == 0 {
		return v.Values[0], true
	}
	idx := i * v.Stride
	if idx < 0 || idx >= len(v.Values) {
		var zero T
		return zero, false
	}
	return v.Values[idx], true
}

// MustAt is At, panicking if the index is out of range for a non-absent
// view. Absent views still return the zero value (this mirrors treating a
// null base_ptr as "defaulted", not as a fatal error -- spec §4.2).
func (v View[T]) MustAt(i int) T {
	val, ok := v.At(i)
	if !ok && v.Values != nil {
		panic(fmt.Sprintf("strided: index %d out of range", i))
	}
	return val
}
