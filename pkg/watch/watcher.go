package watch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// ErrSourceClosed is returned by Run when the event source stops before the
// context is cancelled.
var ErrSourceClosed = errors.New("watch: event source closed")

// State is the debounce state of a Watcher.
type State int32

const (
	// Idle means no regeneration is scheduled.
	Idle State = iota
	// Pending means a change was seen and the debounce timer is running.
	Pending
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// RunFunc regenerates the artifact.
type RunFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
	// OnEvent, if set, is called from the event loop for every event received.
	OnEvent func(Event)
}

// Watcher turns a stream of change events into debounced, serialized runs.
type Watcher struct {
	source   Source
	run      RunFunc
	debounce time.Duration
	onEvent  func(Event)
	logger   *zap.Logger

	state atomic.Int32
	kick  chan struct{}
}

// New creates a Watcher reading from source and calling run once per quiet period.
func New(source Source, run RunFunc, opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		source:   source,
		run:      run,
		debounce: debounce,
		onEvent:  opts.OnEvent,
		logger:   logger,
		kick:     make(chan struct{}, 1),
	}
}

// State returns the current debounce state.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

// Run consumes events until ctx is cancelled or the source closes. It returns
// nil on cancellation, after any in-flight run has finished.
func (w *Watcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	debouncer := NewDebouncer(w.debounce, w.request)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.execute(ctx)
	}()

	shutdown := func() {
		debouncer.Stop()
		w.state.Store(int32(Idle))
		cancel()
		wg.Wait()
	}

	events := w.source.Events()
	for {
		select {
		case <-ctx.Done():
			shutdown()
			return nil
		case ev, ok := <-events:
			if !ok {
				shutdown()
				return ErrSourceClosed
			}
			w.handle(ev, debouncer)
		}
	}
}

func (w *Watcher) handle(ev Event, debouncer *Debouncer) {
	if w.onEvent != nil {
		w.onEvent(ev)
	}

	if ev.Op == OpError {
		w.logger.Warn("Watch error", zap.Error(ev.Err))
		return
	}

	w.logger.Debug("File changed", zap.Stringer("op", ev.Op), zap.String("path", ev.Path))
	w.state.Store(int32(Pending))
	debouncer.Trigger()
}

// request is the debounce callback. A request made while a run is executing is
// queued once; further requests coalesce into it.
func (w *Watcher) request() {
	w.state.Store(int32(Idle))
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *Watcher) execute(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.kick:
		}
		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		if err := w.run(ctx); err != nil {
			w.logger.Error("Regeneration failed", zap.Error(err))
			continue
		}
		w.logger.Debug("Regenerated", zap.Duration("elapsed", time.Since(start)))
	}
}
