package reactive

import (
	"runtime"
	"sync"

	"github.com/vango-dev/gatefx/internal/errors"
)

// trackingContext holds the per-goroutine render state.
type trackingContext struct {
	// currentOwner receives hook slots and effects created during render.
	currentOwner *Owner
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID parses the current goroutine ID from the runtime stack
// header "goroutine <id> [...]".
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// setCurrentOwner sets the current owner and returns the previous one.
// Clearing the last owner drops the goroutine's context entry.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	if o == nil {
		trackingContexts.Delete(getGoroutineID())
	}
	return old
}

// CurrentOwner returns the Owner made current by WithOwner on this
// goroutine, or nil.
func CurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

// RequireOwner returns the current Owner and panics with G001 when there is
// none. hook names the calling hook in the panic message.
func RequireOwner(hook string) *Owner {
	owner := CurrentOwner()
	if owner == nil {
		panic(errors.New("G001").
			WithSuggestion(hook + " must be called during render inside reactive.WithOwner").
			FormatCompact())
	}
	return owner
}

// WithOwner runs fn with owner as the current owner on this goroutine.
// The previous owner is restored even if fn panics.
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}
