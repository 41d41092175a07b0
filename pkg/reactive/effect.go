package reactive

import (
	"sync/atomic"
	"time"

	"github.com/vango-dev/gatefx/internal/errors"
)

// Cleanup is returned by an effect body and runs before the effect runs
// again or when its Owner is disposed. A nil Cleanup is allowed.
type Cleanup func()

// Effect is a side effect registered by UseEffect. It lives in one hook
// slot of its Owner and keeps the body, dependency list and cleanup of its
// most recently scheduled render.
type Effect struct {
	id uint64

	// fn is the body from the last render that scheduled the effect.
	fn func() Cleanup

	// deps is the dependency list from the last render that scheduled the
	// effect. nil means "run after every render".
	deps []any

	// cleanup is the cleanup returned by the last run.
	cleanup Cleanup

	owner *Owner

	// name labels the effect for observers.
	name string

	runs int

	// pending indicates the effect is queued on its Owner.
	pending atomic.Bool

	disposed atomic.Bool
}

// EffectOption configures an Effect when it is first created.
type EffectOption func(*Effect)

// EffectName sets the hook name reported to observers.
// Hooks built on UseEffect use it to identify themselves.
func EffectName(name string) EffectOption {
	return func(e *Effect) {
		e.name = name
	}
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has run.
func (e *Effect) Runs() int {
	return e.runs
}

// Pending reports whether the effect is queued to run at the next
// RunPendingEffects.
func (e *Effect) Pending() bool {
	return e.pending.Load()
}

func (e *Effect) info() EffectInfo {
	info := EffectInfo{EffectID: e.id, Hook: e.name, Runs: e.runs}
	if e.owner != nil {
		info.OwnerID = e.owner.id
	}
	return info
}

// schedule queues the effect once per commit.
func (e *Effect) schedule() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) {
		e.owner.scheduleEffect(e)
	}
	e.owner.effectObserver().EffectScheduled(e.info())
}

// run executes the previous cleanup and then the effect body.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)
	obs := e.owner.effectObserver()

	e.runCleanup(obs)

	start := time.Now()
	e.cleanup = e.fn()
	e.runs++
	obs.EffectRan(e.info(), time.Since(start))
}

func (e *Effect) runCleanup(obs Observer) {
	if e.cleanup == nil {
		return
	}
	cleanup := e.cleanup
	e.cleanup = nil
	cleanup()
	obs.CleanupRan(e.info())
}

// dispose runs the active cleanup. A disposed effect never runs again.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}
	e.pending.Store(false)
	e.runCleanup(e.owner.effectObserver())
}

// UseEffect registers fn as an effect of the current Owner and returns it.
// It must be called during render, in the same position on every render.
//
// On the first render the effect is always queued. On later renders deps is
// compared with the list from the last queued render: the effect is queued
// again when the lengths differ or any element differs under Is, and a nil
// deps queues it on every render. A queued render replaces the stored body
// and dependency list. An unchanged render keeps the old body and leaves the
// previous cleanup active.
//
// Queued effects run in RunPendingEffects, never during render. Before a
// re-run the previous cleanup runs exactly once.
//
//	reactive.UseEffect(func() reactive.Cleanup {
//	    sub := bus.Subscribe(topic)
//	    return sub.Close
//	}, []any{topic})
func UseEffect(fn func() Cleanup, deps []any, opts ...EffectOption) *Effect {
	owner := RequireOwner("UseEffect")
	owner.TrackHook(HookEffect)

	if slot := owner.UseHookSlot(); slot != nil {
		e, ok := slot.(*Effect)
		if !ok {
			panic(errors.New("G003").
				WithSuggestion("UseEffect found a " + typeName(slot) + " in its slot").
				FormatCompact())
		}
		e.update(fn, deps)
		return e
	}

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		deps:  deps,
		owner: owner,
		name:  "UseEffect",
	}
	for _, opt := range opts {
		opt(e)
	}

	owner.SetHookSlot(e)
	owner.registerEffect(e)
	e.schedule()

	return e
}

// update applies a re-render's body and dependency list.
func (e *Effect) update(fn func() Cleanup, deps []any) {
	if deps != nil && e.deps != nil && !DepsChanged(e.deps, deps) {
		e.owner.effectObserver().EffectSkipped(e.info())
		return
	}
	e.fn = fn
	e.deps = deps
	e.schedule()
}

// DepsChanged reports whether next differs from prev: different lengths,
// or some position whose elements differ under Is.
func DepsChanged(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if !Is(prev[i], next[i]) {
			return true
		}
	}
	return false
}
