package engine

import (
	"context"
	"time"

	"github.com/okian/romp/internal/domain/model"
)

// Result is the verdict of one verification tick. It is ephemeral and
// recomputed from scratch every tick.
type Result struct {
	Completed   bool    `json:"completed"`
	Performance float64 `json:"performance"` // [0,1] progress or quality score
}

// Engine verifies the active challenge against live sensor samples.
type Engine struct {
	st       state
	now      func() time.Time
	notifier Notifier
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock sets the time source used for hold timing. Tests pass a fake
// clock to make hold durations deterministic.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithNotifier sets the sink for discrete detection events.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// New constructs an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		notifier: NopNotifier{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Verify runs one verification tick for the given challenge and sample.
// A nil challenge or sample yields a neutral, side-effect-free result;
// missing data must never end a challenge or raise.
func (e *Engine) Verify(ctx context.Context, t *model.Template, s *model.SensorSample, th Thresholds) Result {
	if t == nil || s == nil {
		return Result{}
	}
	switch t.Kind {
	case model.KindRun:
		return e.verifyRun(ctx, t, s, th)
	case model.KindRotate:
		return e.verifyRotate(t, s, th)
	case model.KindTilt:
		return e.verifyTilt(ctx, t, s, th)
	case model.KindDirection:
		return e.verifyDirection(ctx, t, s, th)
	default:
		return e.verifyShake(s)
	}
}
