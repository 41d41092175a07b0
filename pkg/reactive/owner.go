package reactive

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/gatefx/internal/errors"
)

// HookType identifies the type of hook call for order validation.
type HookType uint8

const (
	HookEffect HookType = iota + 1
	HookCompareEffect
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookEffect:
		return "Effect"
	case HookCompareEffect:
		return "CompareEffect"
	default:
		return "Unknown"
	}
}

// Owner represents a mounted component instance. It owns the hook slots and
// effects created while rendering it. Disposing an Owner disposes its
// children, runs every effect's active cleanup and then the functions
// registered with OnCleanup.
//
// Owners form a hierarchy mirroring the component tree.
type Owner struct {
	id uint64

	// parent is nil for a root Owner.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	// effects owned by this scope, in registration order.
	effects   []*Effect
	effectsMu sync.Mutex

	// cleanups are registered via OnCleanup.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// pendingEffects are flushed by RunPendingEffects.
	pendingEffects   []*Effect
	pendingEffectsMu sync.Mutex

	observer   Observer
	observerMu sync.RWMutex

	disposed atomic.Bool

	// Dev-mode hook order tracking (only used when DebugMode is true)
	hookOrder   []HookType // order recorded on the first render
	hookIndex   int
	renderCount int

	// Hook slot storage, always active.
	hookSlots   []any
	hookSlotIdx int
}

// NewOwner creates a new Owner. A non-nil parent registers the new Owner
// as its child.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// SetObserver attaches an Observer to this Owner. Owners without their own
// Observer use their nearest ancestor's.
func (o *Owner) SetObserver(obs Observer) {
	o.observerMu.Lock()
	defer o.observerMu.Unlock()
	o.observer = obs
}

// effectObserver resolves the Observer for effects owned by o.
func (o *Owner) effectObserver() Observer {
	for cur := o; cur != nil; cur = cur.parent {
		cur.observerMu.RLock()
		obs := cur.observer
		cur.observerMu.RUnlock()
		if obs != nil {
			return obs
		}
	}
	return NopObserver{}
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// registerEffect adds an effect so it is disposed with this Owner.
func (o *Owner) registerEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.effectsMu.Lock()
	defer o.effectsMu.Unlock()
	o.effects = append(o.effects, e)
}

// OnCleanup registers fn to run when this Owner is disposed.
// On an already disposed Owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) scheduleEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.pendingEffectsMu.Lock()
	defer o.pendingEffectsMu.Unlock()
	o.pendingEffects = append(o.pendingEffects, e)
}

// RunPendingEffects runs every effect queued by render, first on this Owner
// in the order the effects were queued, then recursively on its children.
// The server loop or test calls it after render completes.
func (o *Owner) RunPendingEffects() {
	if o.disposed.Load() {
		return
	}

	o.pendingEffectsMu.Lock()
	effects := o.pendingEffects
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()

	for _, e := range effects {
		if e.pending.Load() {
			e.run()
		}
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		child.RunPendingEffects()
	}
}

// HasPendingEffects returns true if this owner or any child has pending effects.
func (o *Owner) HasPendingEffects() bool {
	if o.disposed.Load() {
		return false
	}

	o.pendingEffectsMu.Lock()
	hasPending := len(o.pendingEffects) > 0
	o.pendingEffectsMu.Unlock()

	if hasPending {
		return true
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		if child.HasPendingEffects() {
			return true
		}
	}

	return false
}

// Dispose unmounts this Owner: children are disposed last-created first,
// then effect cleanups run, then OnCleanup functions in reverse order.
// Hook slots are released, so any state kept in them ends here.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.effectsMu.Lock()
	effects := o.effects
	o.effects = nil
	o.effectsMu.Unlock()

	for _, e := range effects {
		e.dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	o.pendingEffectsMu.Lock()
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()

	o.hookSlots = nil
}

// =============================================================================
// Render Cycle and Hook Order Validation
// =============================================================================

// StartRender is called at the beginning of a component render.
// It resets the hook slot index and, in debug mode, the order index.
func (o *Owner) StartRender() {
	o.hookSlotIdx = 0

	if DebugMode {
		o.hookIndex = 0
	}
}

// EndRender is called at the end of a component render.
// In debug mode, it validates that all expected hooks were called.
func (o *Owner) EndRender() {
	if !DebugMode {
		return
	}
	if o.renderCount == 0 {
		o.renderCount = 1
	} else if o.hookIndex < len(o.hookOrder) {
		panic(errors.New("G002").
			WithSuggestion(fmt.Sprintf("expected %d hooks, got %d", len(o.hookOrder), o.hookIndex)).
			FormatCompact())
	}
}

// TrackHook records a hook call during render. In debug mode every render
// after the first must call the same hook types in the same order; a
// mismatch panics with G002.
func (o *Owner) TrackHook(ht HookType) {
	if !DebugMode {
		return
	}

	if o.renderCount == 0 {
		o.hookOrder = append(o.hookOrder, ht)
	} else {
		if o.hookIndex >= len(o.hookOrder) {
			panic(errors.New("G002").
				WithSuggestion(fmt.Sprintf("extra %s hook at index %d", ht, o.hookIndex)).
				FormatCompact())
		}
		if expected := o.hookOrder[o.hookIndex]; expected != ht {
			panic(errors.New("G002").
				WithSuggestion(fmt.Sprintf("expected %s at index %d, got %s", expected, o.hookIndex, ht)).
				FormatCompact())
		}
	}
	o.hookIndex++
}

// =============================================================================
// Hook Slot Storage for Stable Identity
// =============================================================================

// UseHookSlot returns the value stored in the current hook slot and
// advances to the next slot. It returns nil when the slot has not been
// filled yet (first render); the caller then creates its state and stores
// it with SetHookSlot.
//
//	func useCounter(owner *reactive.Owner) *int {
//	    if slot := owner.UseHookSlot(); slot != nil {
//	        return slot.(*int)
//	    }
//	    n := new(int)
//	    owner.SetHookSlot(n)
//	    return n
//	}
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++

	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot stores a value in the slot just consumed by UseHookSlot.
func (o *Owner) SetHookSlot(value any) {
	idx := o.hookSlotIdx - 1
	if idx < 0 {
		idx = 0
	}
	for len(o.hookSlots) <= idx {
		o.hookSlots = append(o.hookSlots, nil)
	}
	o.hookSlots[idx] = value
}
