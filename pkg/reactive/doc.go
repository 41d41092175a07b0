// Package reactive is the component runtime that effect hooks run inside.
//
// An Owner is one mounted component instance. Each render of the component
// happens between Owner.StartRender and Owner.EndRender with the Owner made
// current by WithOwner. Hooks called during render get a stable slot on the
// Owner (UseHookSlot/SetHookSlot), so state survives from one render to the
// next and is dropped when the Owner is disposed.
//
// UseEffect is the effect-scheduling primitive. It compares its dependency
// list element by element with Is against the list from the last scheduled
// render. A changed list (or the first render) queues the effect; the queue is
// flushed by RunPendingEffects after render, which runs the previous cleanup
// and then the effect body. An unchanged list is a no-op and keeps the
// existing cleanup active.
//
//	owner := reactive.NewOwner(nil)
//	defer owner.Dispose()
//
//	reactive.WithOwner(owner, func() {
//	    owner.StartRender()
//	    reactive.UseEffect(func() reactive.Cleanup {
//	        conn := dial(addr)
//	        return func() { conn.Close() }
//	    }, []any{addr})
//	    owner.EndRender()
//	})
//	owner.RunPendingEffects()
//
// Rendering and effect flushing for one Owner happen on one goroutine. The
// Owner's child, effect and cleanup lists are mutex guarded so Dispose may be
// called from elsewhere.
package reactive
