package gate

import (
	"reflect"

	"github.com/vango-dev/gatefx/internal/errors"
	"github.com/vango-dev/gatefx/pkg/reactive"
)

const hookName = "UseCustomCompareEffect"

// UseCustomCompareEffect registers effect on the current Owner and runs it
// after render when compare reports that deps changed since the last run.
//
// It must be called during render, in the same position on every render.
// On the first render the effect is always scheduled. On later renders
// compare(baseline, deps) decides: true suppresses the effect and keeps the
// previous cleanup active; false schedules it, the host runs the previous
// cleanup first, and deps becomes the baseline.
//
// The host only ever sees a one-element dependency list holding the
// trigger's generation, so its own identity check follows the comparator's
// decision whatever the raw contents of deps.
//
// A nil compare panics with G101. A panicking compare is not recovered.
func UseCustomCompareEffect(effect func() reactive.Cleanup, deps []any, compare Comparator) {
	mustComparator(compare)

	owner := reactive.RequireOwner(hookName)
	owner.TrackHook(reactive.HookCompareEffect)

	t := useTrigger(owner, compare, deps)
	t.Next(deps)

	reactive.UseEffect(effect, []any{t.generation}, reactive.EffectName(hookName))
}

// useTrigger returns the Trigger stored in the current hook slot, creating
// it on the first render.
func useTrigger(owner *reactive.Owner, compare Comparator, deps []any) *Trigger {
	if slot := owner.UseHookSlot(); slot != nil {
		t, ok := slot.(*Trigger)
		if !ok {
			panic(errors.New("G003").
				WithSuggestion(hookName + " found a different hook's state in its slot").
				FormatCompact())
		}
		t.compare = compare
		return t
	}

	if reactive.DebugMode {
		warnDeps(owner, deps)
	}

	t := &Trigger{compare: compare}
	owner.SetHookSlot(t)
	return t
}

// warnDeps logs dependency lists that do not need a custom comparator.
func warnDeps(owner *reactive.Owner, deps []any) {
	log := reactive.Logger()
	if len(deps) == 0 {
		log.Warn("gatefx: "+hookName+" called without dependencies; use reactive.UseEffect instead",
			"owner", owner.ID())
		return
	}
	for _, d := range deps {
		if !isPrimitive(d) {
			return
		}
	}
	log.Warn("gatefx: "+hookName+" called with only primitive dependencies; use reactive.UseEffect instead",
		"owner", owner.ID(), "deps", len(deps))
}

func isPrimitive(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// UseDeepCompareEffect is UseCustomCompareEffect with DeepEqual.
func UseDeepCompareEffect(effect func() reactive.Cleanup, deps []any) {
	UseCustomCompareEffect(effect, deps, DeepEqual)
}

// UseShallowCompareEffect is UseCustomCompareEffect with ShallowEqual.
func UseShallowCompareEffect(effect func() reactive.Cleanup, deps []any) {
	UseCustomCompareEffect(effect, deps, ShallowEqual)
}
