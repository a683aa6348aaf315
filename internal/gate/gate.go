package gate

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"codeberg.org/snonux/wordhover/internal/translation"
)

// DefaultTimeout is the ceiling for a single translation request
const DefaultTimeout = 4 * time.Second

// detachedCap bounds a timed-out call still running in the background, as a
// multiple of the gate timeout
const detachedCap = 10

// Outcome describes how a gated request resolved
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
	OutcomeBusy
	OutcomeTimeout
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeBusy:
		return "busy"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Result is delivered to the UI once per request
type Result struct {
	Outcome     Outcome
	Selection   Selection
	Translation translation.Result
	Err         *translation.Error // set for failure, timeout and invalid
}

// TranslateFunc performs the actual translation
type TranslateFunc func(ctx context.Context, text, targetLanguage string) (translation.Result, error)

// Gate allows one translation in flight. Requests arriving while it is
// occupied resolve to OutcomeBusy instead of queueing.
type Gate struct {
	sem      *semaphore.Weighted
	inFlight atomic.Bool
	timeout  time.Duration
	clock    clockwork.Clock
	log      *zap.Logger
}

// Option configures a Gate
type Option func(*Gate)

// WithClock replaces the real clock, mainly for tests
func WithClock(clock clockwork.Clock) Option {
	return func(g *Gate) {
		g.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(g *Gate) {
		g.log = log
	}
}

// New creates a gate with the given request ceiling
func New(timeout time.Duration, opts ...Option) *Gate {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	g := &Gate{
		sem:     semaphore.NewWeighted(1),
		timeout: timeout,
		clock:   clockwork.NewRealClock(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// InFlight reports whether a request currently holds the gate
func (g *Gate) InFlight() bool {
	return g.inFlight.Load()
}

type callResult struct {
	res translation.Result
	err error
}

// Do runs fn for sel unless another request holds the gate. A call exceeding
// the timeout resolves to OutcomeTimeout and the gate reopens at once; the
// late answer is dropped. fn is not cancelled on timeout.
func (g *Gate) Do(ctx context.Context, sel Selection, fn TranslateFunc) Result {
	return g.Run(ctx, sel, fn, nil)
}

// Run is Do with a hook called once the gate is held, before fn starts. A
// busy gate never calls started.
func (g *Gate) Run(ctx context.Context, sel Selection, fn TranslateFunc, started func()) Result {
	if !g.sem.TryAcquire(1) {
		g.log.Debug("request ignored, another translation is in progress")
		return Result{Outcome: OutcomeBusy, Selection: sel}
	}
	g.inFlight.Store(true)
	defer func() {
		g.inFlight.Store(false)
		g.sem.Release(1)
	}()

	if started != nil {
		started()
	}

	done := make(chan callResult, 1)
	go func() {
		// Outlives the timeout, bounded by detachedCap timeouts.
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), detachedCap*g.timeout)
		defer cancel()
		res, err := fn(callCtx, sel.Text, sel.TargetLanguage)
		done <- callResult{res: res, err: err}
	}()

	timer := g.clock.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			return Result{Outcome: OutcomeFailure, Selection: sel, Err: translation.Classify(r.err)}
		}
		return Result{Outcome: OutcomeSuccess, Selection: sel, Translation: r.res}

	case <-timer.Chan():
		g.log.Warn("translation timed out", zap.Duration("timeout", g.timeout))
		return Result{Outcome: OutcomeTimeout, Selection: sel, Err: translation.NewTimeoutError(context.DeadlineExceeded)}

	case <-ctx.Done():
		return Result{Outcome: OutcomeFailure, Selection: sel, Err: translation.Classify(ctx.Err())}
	}
}
