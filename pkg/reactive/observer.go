package reactive

import "time"

// EffectInfo identifies an effect in Observer callbacks.
type EffectInfo struct {
	OwnerID  uint64
	EffectID uint64

	// Hook is the name of the hook that created the effect
	// ("UseEffect" unless set with EffectName).
	Hook string

	// Runs is the number of completed runs, including the one being
	// reported by EffectRan.
	Runs int
}

// Observer receives effect lifecycle notifications from an Owner tree.
// Methods are called synchronously on the render/commit goroutine and must
// not call back into the Owner.
type Observer interface {
	// EffectScheduled is called when a render queues the effect.
	EffectScheduled(info EffectInfo)

	// EffectSkipped is called when a render leaves the effect unchanged.
	EffectSkipped(info EffectInfo)

	// EffectRan is called after the effect body returns.
	EffectRan(info EffectInfo, d time.Duration)

	// CleanupRan is called after a cleanup returns, either before a re-run
	// or on disposal.
	CleanupRan(info EffectInfo)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) EffectScheduled(EffectInfo) {}
func (NopObserver) EffectSkipped(EffectInfo) {}
func (NopObserver) EffectRan(EffectInfo, time.Duration) {}
func (NopObserver) CleanupRan(EffectInfo) {}
