// Package gate runs an effect only when a caller-supplied comparator says
// its dependencies changed.
//
// reactive.UseEffect decides whether to re-run by comparing each dependency
// with reactive.Is. That is too strict for dependencies rebuilt on every
// render (a fresh slice with the same contents) and too loose for values
// whose meaning is not captured by identity. UseCustomCompareEffect lets the
// caller decide:
//
//	gate.UseCustomCompareEffect(func() reactive.Cleanup {
//	    return watch(filters)
//	}, []any{filters}, func(prev, next []any) bool {
//	    return sameFilters(prev[0].(Filters), next[0].(Filters))
//	})
//
// The comparator returns true when the two lists are equal. Equal means the
// effect is suppressed for this render. It is called with the baseline (the
// list from the last render in which the effect was scheduled) and the
// current list, and is not called on the first render.
package gate
