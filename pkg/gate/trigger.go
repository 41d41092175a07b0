package gate

import (
	"github.com/vango-dev/gatefx/internal/errors"
)

// Comparator reports whether two dependency lists are equal.
//
// Returning true means "equal": the effect is suppressed. Returning false
// means "changed": the effect runs and next becomes the new baseline.
// prev and next may have different lengths. A Comparator must not modify
// either list and should be pure and cheap; it runs during every render.
type Comparator func(prev, next []any) bool

// State is the lifecycle state of a Trigger.
type State uint8

const (
	// Uninitialized means no baseline has been recorded yet.
	Uninitialized State = iota
	// Armed means a baseline is present and the comparator gates each cycle.
	Armed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Armed:
		return "armed"
	default:
		return "unknown"
	}
}

// Trigger is the per-instance decision behind UseCustomCompareEffect.
// It retains the baseline list and a generation number that advances every
// time the baseline is replaced. A Trigger is not safe for concurrent use;
// it belongs to a single component instance.
type Trigger struct {
	compare    Comparator
	baseline   []any
	armed      bool
	generation uint64
}

// NewTrigger returns an uninitialized Trigger. It panics with G101 when
// compare is nil.
func NewTrigger(compare Comparator) *Trigger {
	mustComparator(compare)
	return &Trigger{compare: compare}
}

// Next records one cycle and reports whether the effect should run.
//
// The first cycle always runs and records deps as the baseline. Later
// cycles call the comparator with (baseline, deps): true suppresses the
// effect and keeps the baseline; false runs it and replaces the baseline.
// If the comparator panics, the panic propagates and the Trigger is left
// exactly as it was.
func (t *Trigger) Next(deps []any) bool {
	if t.armed && t.compare(t.baseline, deps) {
		return false
	}
	t.baseline = deps
	t.armed = true
	t.generation++
	return true
}

// SetComparator replaces the comparator used by later cycles.
func (t *Trigger) SetComparator(compare Comparator) {
	mustComparator(compare)
	t.compare = compare
}

// Baseline returns the retained list and whether one is present.
func (t *Trigger) Baseline() ([]any, bool) {
	return t.baseline, t.armed
}

// Generation returns how many times the baseline has been replaced.
// It is the dependency signal handed to the host effect.
func (t *Trigger) Generation() uint64 {
	return t.generation
}

// State returns the trigger's lifecycle state.
func (t *Trigger) State() State {
	if t.armed {
		return Armed
	}
	return Uninitialized
}

func mustComparator(compare Comparator) {
	if compare == nil {
		panic(errors.New("G101").
			WithSuggestion("pass gate.DeepEqual or a func(prev, next []any) bool").
			FormatCompact())
	}
}
