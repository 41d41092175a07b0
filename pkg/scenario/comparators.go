package scenario

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/vango-dev/gatefx/internal/errors"
	"github.com/vango-dev/gatefx/pkg/gate"
	"github.com/vango-dev/gatefx/pkg/reactive"
)

var (
	comparatorsMu sync.RWMutex
	comparators   = map[string]gate.Comparator{
		"always-equal": func(prev, next []any) bool { return true },
		"never-equal":  func(prev, next []any) bool { return false },
		"deep":         gate.DeepEqual,
		"shallow":      gate.ShallowEqual,
		"unordered":    UnorderedEqual,
		"length":       func(prev, next []any) bool { return len(prev) == len(next) },
	}
)

// Register adds or replaces a named comparator.
func Register(name string, compare gate.Comparator) {
	if compare == nil {
		panic(errors.New("G101").WithSuggestion("scenario.Register(" + name + ")").FormatCompact())
	}
	comparatorsMu.Lock()
	defer comparatorsMu.Unlock()
	comparators[name] = compare
}

// Lookup returns the named comparator.
func Lookup(name string) (gate.Comparator, error) {
	comparatorsMu.RLock()
	compare, ok := comparators[name]
	comparatorsMu.RUnlock()
	if !ok {
		return nil, errors.New("G202").
			WithSuggestion(fmt.Sprintf("use one of %v", Comparators())).
			Wrap(fmt.Errorf("%w: %q", ErrUnknownComparator, name))
	}
	return compare, nil
}

// Comparators returns the registered comparator names, sorted.
func Comparators() []string {
	comparatorsMu.RLock()
	defer comparatorsMu.RUnlock()

	names := make([]string, 0, len(comparators))
	for name := range comparators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnorderedEqual compares the lists position by position. Where both
// elements are slices or arrays they are equal when they hold the same
// elements with the same multiplicity, in any order. Other elements, and
// the members of those slices, are equal when reactive.Is or
// reflect.DeepEqual says so, so a func matches only itself.
func UnorderedEqual(prev, next []any) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !sameIgnoringOrder(prev[i], next[i]) {
			return false
		}
	}
	return true
}

func sameIgnoringOrder(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !isList(va) || !isList(vb) {
		return elementEqual(a, b)
	}
	if va.Len() != vb.Len() {
		return false
	}

	matched := make([]bool, vb.Len())
outer:
	for i := 0; i < va.Len(); i++ {
		x := va.Index(i).Interface()
		for j := 0; j < vb.Len(); j++ {
			if !matched[j] && elementEqual(x, vb.Index(j).Interface()) {
				matched[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func isList(v reflect.Value) bool {
	return v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array)
}

func elementEqual(a, b any) bool {
	return reactive.Is(a, b) || reflect.DeepEqual(a, b)
}
