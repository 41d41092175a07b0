package telemetry

import (
	"time"

	"github.com/vango-dev/gatefx/pkg/reactive"
)

// multiObserver fans notifications out in order.
type multiObserver []reactive.Observer

// Multi returns an Observer that notifies each non-nil observer in order.
func Multi(observers ...reactive.Observer) reactive.Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) EffectScheduled(info reactive.EffectInfo) {
	for _, o := range m {
		o.EffectScheduled(info)
	}
}

func (m multiObserver) EffectSkipped(info reactive.EffectInfo) {
	for _, o := range m {
		o.EffectSkipped(info)
	}
}

func (m multiObserver) EffectRan(info reactive.EffectInfo, d time.Duration) {
	for _, o := range m {
		o.EffectRan(info, d)
	}
}

func (m multiObserver) CleanupRan(info reactive.EffectInfo) {
	for _, o := range m {
		o.CleanupRan(info)
	}
}
