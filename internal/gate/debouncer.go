package gate

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal/translation"
)

// DefaultWindow is the quiescence period before a selection is translated
const DefaultWindow = 500 * time.Millisecond

// Point is where the selection ended on screen; the tooltip is anchored there
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Selection is a "selection changed" event
type Selection struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
	Anchor         Point  `json:"anchor"`
}

// Config wires a Debouncer to its surface
type Config struct {
	Window    time.Duration
	Clock     clockwork.Clock
	Logger    *zap.Logger
	OnPending func(Selection) // gate acquired, translation is starting ("Translating...")
	OnResult  func(Result)    // exactly once per fired selection
	OnHide    func()          // selection cleared
}

// Debouncer turns a stream of selection events into at most one gated
// translation per quiescence period
type Debouncer struct {
	gate      *Gate
	translate TranslateFunc
	cfg       Config
	ctx       context.Context
	cancel    context.CancelFunc

	mu       sync.Mutex
	timer    clockwork.Timer
	seq      uint64
	lastText string
	closed   bool
}

// NewDebouncer creates a debouncer feeding gate with translate
func NewDebouncer(ctx context.Context, gate *Gate, translate TranslateFunc, cfg Config) *Debouncer {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.OnPending == nil {
		cfg.OnPending = func(Selection) {}
	}
	if cfg.OnResult == nil {
		cfg.OnResult = func(Result) {}
	}
	if cfg.OnHide == nil {
		cfg.OnHide = func() {}
	}

	dctx, cancel := context.WithCancel(ctx)
	return &Debouncer{
		gate:      gate,
		translate: translate,
		cfg:       cfg,
		ctx:       dctx,
		cancel:    cancel,
	}
}

// Submit handles a selection event
func (d *Debouncer) Submit(sel Selection) {
	sel.Text = strings.TrimSpace(sel.Text)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	if sel.Text == "" {
		d.stopLocked()
		d.lastText = ""
		d.mu.Unlock()
		d.cfg.OnHide()
		return
	}

	if sel.Text == d.lastText {
		d.mu.Unlock()
		return
	}
	d.lastText = sel.Text

	if err := translation.Validate(sel.Text); err != nil {
		d.stopLocked()
		d.mu.Unlock()

		terr := translation.Classify(err)
		d.cfg.Logger.Debug("selection rejected", zap.String("reason", terr.Title))
		d.cfg.OnResult(Result{Outcome: OutcomeInvalid, Selection: sel, Err: terr})
		return
	}

	d.stopLocked()
	d.seq++
	seq := d.seq
	d.timer = d.cfg.Clock.AfterFunc(d.cfg.Window, func() {
		d.fire(seq, sel)
	})
	d.mu.Unlock()
}

// Hide is called for clicks and scrolling; it cancels a pending selection
func (d *Debouncer) Hide() {
	d.Submit(Selection{})
}

// Close stops the pending timer; no further results are delivered
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	d.stopLocked()
	d.mu.Unlock()
	d.cancel()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// Invalidates a timer callback that already started.
	d.seq++
}

func (d *Debouncer) fire(seq uint64, sel Selection) {
	d.mu.Lock()
	if seq != d.seq || d.closed {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	res := d.gate.Run(d.ctx, sel, d.translate, func() {
		d.cfg.OnPending(sel)
	})
	d.cfg.Logger.Debug("selection resolved",
		zap.String("outcome", res.Outcome.String()),
		zap.Int("length", len(sel.Text)))

	d.mu.Lock()
	closed := d.closed
	// A dropped selection may be selected again.
	if res.Outcome == OutcomeBusy && d.lastText == sel.Text {
		d.lastText = ""
	}
	d.mu.Unlock()
	if closed {
		return
	}
	d.cfg.OnResult(res)
}
