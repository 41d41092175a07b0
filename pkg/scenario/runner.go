package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/gatefx/pkg/gate"
	"github.com/vango-dev/gatefx/pkg/reactive"
)

// CycleResult is the outcome of one replayed render.
type CycleResult struct {
	// Run identifies the replay the cycle belongs to, if one was set.
	Run string `json:"run,omitempty"`

	Scenario string `json:"scenario"`
	Cycle    int    `json:"cycle"`
	Deps     []any  `json:"deps"`

	// Ran reports whether the effect body ran after this render.
	Ran bool `json:"ran"`

	// CleanupRan reports whether the previous run's cleanup ran.
	CleanupRan bool `json:"cleanupRan"`

	// Baseline is the index of the cycle whose deps the trigger holds after
	// this render.
	Baseline int `json:"baseline"`

	// Fault is the comparator's panic value, if it panicked.
	Fault string `json:"fault,omitempty"`
}

// Report summarizes a replay.
type Report struct {
	Run        string        `json:"run,omitempty"`
	Scenario   string        `json:"scenario"`
	Comparator string        `json:"comparator"`
	Cycles     []CycleResult `json:"cycles"`
	Runs       int           `json:"runs"`
	Suppressed int           `json:"suppressed"`
	Cleanups   int           `json:"cleanups"` // before re-runs; unmount is not counted
}

// Option configures Run.
type Option func(*runner)

// WithObserver attaches obs to the replay's Owner.
func WithObserver(obs reactive.Observer) Option {
	return func(r *runner) {
		r.observer = obs
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		r.logger = l
	}
}

// WithRunID tags the report and every CycleResult with id.
func WithRunID(id string) Option {
	return func(r *runner) {
		r.runID = id
	}
}

// WithCycleHook calls fn after every replayed cycle, including a faulted one.
func WithCycleHook(fn func(CycleResult)) Option {
	return func(r *runner) {
		r.onCycle = fn
	}
}

type runner struct {
	observer reactive.Observer
	logger   *slog.Logger
	onCycle  func(CycleResult)
	runID    string

	runs     int
	cleanups int
}

// Run replays every cycle of sc on a fresh Owner, disposing it at the end.
//
// Each cycle renders gate.UseCustomCompareEffect with the cycle's deps and
// the scenario's comparator, then commits. A comparator panic is recovered
// here, recorded on the cycle, and ends the replay with an error wrapping
// ErrComparatorPanic; the partial report is returned with it. Any other
// panic during render or commit (an observer, hook misuse) ends the replay
// the same way with ErrRenderPanic. Cancelling
// ctx stops the replay between cycles.
func Run(ctx context.Context, sc *Scenario, opts ...Option) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	compare, err := Lookup(sc.Comparator)
	if err != nil {
		return nil, err
	}

	r := &runner{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}

	owner := reactive.NewOwner(nil)
	defer owner.Dispose()
	if r.observer != nil {
		owner.SetObserver(r.observer)
	}

	report := &Report{Run: r.runID, Scenario: sc.Name, Comparator: sc.Comparator}
	baseline := -1
	log := r.logger.With("scenario", sc.Name, "comparator", sc.Comparator)
	if r.runID != "" {
		log = log.With("run", r.runID)
	}

	for i, cyc := range sc.Cycles {
		if err := ctx.Err(); err != nil {
			report.Cleanups = r.cleanups
			return report, err
		}

		runsBefore, cleanupsBefore := r.runs, r.cleanups
		res := CycleResult{Run: r.runID, Scenario: sc.Name, Cycle: i, Deps: cyc.Deps}

		fault, isComparator := r.render(owner, cyc, i, compare)
		if fault != nil {
			res.Fault = fmt.Sprint(fault)
			res.Baseline = baseline
			report.Cycles = append(report.Cycles, res)
			r.emit(res)
			report.Cleanups = r.cleanups
			if !isComparator {
				log.Error("render panicked", "cycle", i, "fault", res.Fault)
				return report, fmt.Errorf("%w: cycle %d: %v", ErrRenderPanic, i, fault)
			}
			log.Warn("comparator panicked", "cycle", i, "fault", res.Fault)
			return report, fmt.Errorf("%w: cycle %d: %v", ErrComparatorPanic, i, fault)
		}

		res.Ran = r.runs > runsBefore
		res.CleanupRan = r.cleanups > cleanupsBefore
		if res.Ran {
			baseline = i
			report.Runs++
		} else {
			report.Suppressed++
		}
		res.Baseline = baseline

		report.Cycles = append(report.Cycles, res)
		r.emit(res)
		log.Debug("cycle replayed", "cycle", i, "ran", res.Ran, "baseline", baseline)
	}

	report.Cleanups = r.cleanups
	return report, nil
}

// comparatorFault marks a panic raised by the comparator itself.
type comparatorFault struct {
	value any
}

// render runs one render of the component and commits it. It returns the
// recovered panic value, if any, and whether the comparator raised it.
func (r *runner) render(owner *reactive.Owner, cyc Cycle, index int, compare gate.Comparator) (fault any, isComparator bool) {
	defer func() {
		v := recover()
		if cf, ok := v.(comparatorFault); ok {
			fault, isComparator = cf.value, true
			return
		}
		fault = v
	}()

	if cyc.Panic {
		compare = func(prev, next []any) bool {
			panic(fmt.Sprintf("injected comparator fault at cycle %d", index))
		}
	}

	reactive.WithOwner(owner, func() {
		owner.StartRender()
		gate.UseCustomCompareEffect(func() reactive.Cleanup {
			r.runs++
			return func() { r.cleanups++ }
		}, cyc.Deps, markFaults(compare))
		owner.EndRender()
	})
	owner.RunPendingEffects()
	return nil, false
}

// markFaults wraps compare so its panics can be told apart from other
// panics during render.
func markFaults(compare gate.Comparator) gate.Comparator {
	return func(prev, next []any) bool {
		defer func() {
			if v := recover(); v != nil {
				panic(comparatorFault{value: v})
			}
		}()
		return compare(prev, next)
	}
}

func (r *runner) emit(res CycleResult) {
	if r.onCycle != nil {
		r.onCycle(res)
	}
}
