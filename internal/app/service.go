// Package service provides the core business service that drives challenge
// rounds: it owns the verification poll, the countdown, and session
// aggregation, and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/okian/romp/internal/adapters/repository"
	"github.com/okian/romp/internal/adapters/sensors"
	"github.com/okian/romp/internal/domain/catalog"
	"github.com/okian/romp/internal/domain/engine"
	"github.com/okian/romp/internal/domain/model"
	"github.com/okian/romp/internal/domain/session"
	"github.com/okian/romp/pkg/logger"
	"github.com/okian/romp/pkg/metrics"
)

// Default round timing.
const (
	defaultPollInterval     = 100 * time.Millisecond
	defaultChallengeTimeout = 30 * time.Second
	scorePerChallenge       = 100
)

// Service orchestrates challenge rounds over a sensor source.
type Service struct {
	mu sync.Mutex

	// Core components.
	source   sensors.Source
	catalog  *catalog.Catalog
	engine   *engine.Engine
	store    repository.Store
	notifier engine.Notifier

	// Configuration.
	pollInterval     time.Duration
	challengeTimeout time.Duration
	sensitivity      float64
	base             engine.Thresholds
	now              func() time.Time

	// Round state. The poll goroutine is the only writer of detector
	// state; everything here is guarded by mu.
	session *session.Aggregator
	active  *activeChallenge
	started bool

	logger logger.Logger
}

// activeChallenge tracks one running challenge. Its cancel function tears
// down the poll and the countdown together; there is no path where one
// outlives the other.
type activeChallenge struct {
	template  model.Template
	startedAt time.Time
	deadline  time.Time
	cancel    context.CancelFunc
	done      chan struct{}
	last      engine.Result
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the sensor source the poll loop reads from.
func WithSource(src sensors.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore sets the session history store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog sets the challenge catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithNotifier sets the sink for discrete game events.
func WithNotifier(n engine.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithPollInterval sets the verification tick cadence.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithChallengeTimeout sets how long a challenge may run before failing.
func WithChallengeTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.challengeTimeout = d
		}
	}
}

// WithDifficulty sets the sensitivity multiplier from a difficulty name.
func WithDifficulty(difficulty string) Option {
	return func(s *Service) {
		s.sensitivity = engine.SensitivityFor(difficulty)
	}
}

// WithBaseThresholds overrides the base detection thresholds.
func WithBaseThresholds(t engine.Thresholds) Option {
	return func(s *Service) {
		s.base = t
	}
}

// WithClock sets the time source. Tests pass a fake clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		pollInterval:     defaultPollInterval,
		challengeTimeout: defaultChallengeTimeout,
		sensitivity:      engine.SensitivityMedium,
		base:             engine.DefaultThresholds(),
		now:              time.Now,
		notifier:         engine.NopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		s.source = sensors.NewFeed()
	}
	if s.catalog == nil {
		s.catalog = catalog.New()
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory session store")
	}
	s.engine = engine.New(
		engine.WithClock(s.now),
		engine.WithNotifier(s.meteredNotifier()),
	)
	s.started = true
	s.logger.Info(ctx, "challenge service started",
		logger.Duration("pollInterval", s.pollInterval),
		logger.Duration("challengeTimeout", s.challengeTimeout),
		logger.Float64("sensitivity", s.sensitivity),
	)
	return nil
}

// Stop ends any running challenge and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	ac := s.active
	s.mu.Unlock()

	if ac != nil {
		ac.cancel()
		<-ac.done
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		_ = s.store.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "challenge service stopped")
}

// meteredNotifier forwards engine events to the configured sink and keeps
// the detection counters. It must stay non-blocking.
func (s *Service) meteredNotifier() engine.Notifier {
	return engine.NotifierFunc(func(ctx context.Context, e engine.Event) {
		switch e {
		case engine.EventStepDetected:
			metrics.RecordStepDetected()
		case engine.EventTiltDetected:
			metrics.RecordTiltTransition()
		case engine.EventDirectionMatched:
			metrics.RecordDirectionMatch()
		}
		s.notifier.Notify(ctx, e)
	})
}

// StartSession opens a new session, ending any previous one first.
func (s *Service) StartSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return "", ErrNotStarted
	}
	prev := s.session
	s.mu.Unlock()

	if prev != nil {
		if _, err := s.EndSession(ctx); err != nil && err != ErrNoSession {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session.New(session.WithStart(s.now()))
	s.logger.Info(ctx, "session started", logger.String("sessionID", s.session.ID()))
	return s.session.ID(), nil
}

// EndSession seals the current session, persists its record and returns it.
// A running challenge is recorded as skipped first.
func (s *Service) EndSession(ctx context.Context) (model.SessionRecord, error) {
	if err := s.SkipChallenge(ctx); err != nil && err != ErrNoActive {
		return model.SessionRecord{}, err
	}

	s.mu.Lock()
	agg := s.session
	s.session = nil
	s.mu.Unlock()
	if agg == nil {
		return model.SessionRecord{}, ErrNoSession
	}

	rec := agg.Finish()
	if err := s.store.SaveSession(ctx, rec); err != nil {
		// The record is still returned; history is best-effort and must
		// not lose the player's result screen.
		s.logger.Error(ctx, "persisting session failed",
			logger.String("sessionID", rec.ID), logger.Error(err))
		return rec, err
	}
	s.logger.Info(ctx, "session persisted",
		logger.String("sessionID", rec.ID),
		logger.Int("score", rec.Score),
		logger.Int("challenges", rec.TotalChallenges),
	)
	return rec, nil
}

// StartChallenge generates a challenge for the available sensors and
// begins verifying it. Any previous challenge is skipped first.
func (s *Service) StartChallenge(ctx context.Context) (model.Template, error) {
	if err := s.SkipChallenge(ctx); err != nil && err != ErrNoActive {
		return model.Template{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return model.Template{}, ErrNotStarted
	}
	if s.session == nil {
		return model.Template{}, ErrNoSession
	}

	tpl := s.catalog.Generate(s.source.Availability(ctx))
	s.engine.Reset()

	// The run context is detached from the request: the poll must outlive
	// the HTTP call that started it, and cancelling it stops the poll and
	// the countdown as one unit.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ac := &activeChallenge{
		template:  tpl,
		startedAt: s.now(),
		deadline:  s.now().Add(s.challengeTimeout),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	s.active = ac

	s.notifier.Notify(ctx, engine.EventChallengeStart)
	metrics.RecordChallengeStarted(tpl.Kind.String())
	s.logger.Info(ctx, "challenge started",
		logger.Stringer("kind", tpl.Kind),
		logger.String("instruction", tpl.Instruction),
	)

	go s.runChallenge(runCtx, ac)
	return tpl, nil
}

// runChallenge is the verification poll. Detector state is shared with
// Status snapshots, so each Verify runs under the service lock.
func (s *Service) runChallenge(ctx context.Context, ac *activeChallenge) {
	defer close(ac.done)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	countdown := time.NewTimer(s.challengeTimeout)
	defer countdown.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-countdown.C:
			s.finishChallenge(ctx, ac, engine.Result{})
			return
		case <-ticker.C:
			sample := s.source.Snapshot(ctx)
			thresholds := s.base.Adjust(s.sensitivity)

			s.mu.Lock()
			res := s.engine.Verify(ctx, &ac.template, &sample, thresholds)
			ac.last = res
			s.mu.Unlock()
			metrics.RecordVerificationTick()

			if res.Completed {
				s.finishChallenge(ctx, ac, res)
				return
			}
		}
	}
}

// finishChallenge records the outcome for a completed or timed-out
// challenge. Only the first finisher wins; a concurrent skip that already
// detached the challenge makes this a no-op.
func (s *Service) finishChallenge(ctx context.Context, ac *activeChallenge, res engine.Result) {
	s.mu.Lock()
	if s.active != ac {
		s.mu.Unlock()
		return
	}
	s.active = nil
	agg := s.session
	timeLeft := max(0, ac.deadline.Sub(s.now()))
	s.mu.Unlock()

	ac.cancel()

	outcome := model.Outcome{
		Template:  ac.template,
		Completed: res.Completed,
		TimeLeft:  timeLeft,
	}
	if res.Completed {
		outcome.Score = int(math.Round(res.Performance * scorePerChallenge))
		s.notifier.Notify(ctx, engine.EventChallengeComplete)
		metrics.RecordChallengeCompleted(ac.template.Kind.String(), s.now().Sub(ac.startedAt).Seconds())
	} else {
		s.notifier.Notify(ctx, engine.EventChallengeFail)
		metrics.RecordChallengeFailed(ac.template.Kind.String())
	}

	if agg != nil {
		if err := agg.Append(outcome); err != nil {
			s.logger.Warn(ctx, "dropping outcome for finished session", logger.Error(err))
		}
	}
	s.logger.Info(ctx, "challenge finished",
		logger.Stringer("kind", ac.template.Kind),
		logger.Bool("completed", res.Completed),
		logger.Int("score", outcome.Score),
		logger.Duration("timeLeft", timeLeft),
	)
}

// SkipChallenge ends the running challenge as skipped.
func (s *Service) SkipChallenge(ctx context.Context) error {
	s.mu.Lock()
	ac := s.active
	if ac == nil {
		s.mu.Unlock()
		return ErrNoActive
	}
	s.active = nil
	agg := s.session
	timeLeft := max(0, ac.deadline.Sub(s.now()))
	s.mu.Unlock()

	ac.cancel()
	<-ac.done

	// Skipping is the one player-initiated action the engine sees.
	s.notifier.Notify(ctx, engine.EventUIClick)
	metrics.RecordChallengeSkipped(ac.template.Kind.String())
	if agg != nil {
		outcome := model.Outcome{
			Template: ac.template,
			Skipped:  true,
			TimeLeft: timeLeft,
		}
		if err := agg.Append(outcome); err != nil {
			s.logger.Warn(ctx, "dropping skipped outcome for finished session", logger.Error(err))
		}
	}
	s.logger.Info(ctx, "challenge skipped", logger.Stringer("kind", ac.template.Kind))
	return nil
}

// Status is a point-in-time view of the round for the API and the stream.
type Status struct {
	SessionID       string           `json:"session_id,omitempty"`
	SessionScore    int              `json:"session_score"`
	Challenges      int              `json:"challenges"`
	ChallengeActive bool             `json:"challenge_active"`
	Kind            string           `json:"kind,omitempty"`
	Instruction     string           `json:"instruction,omitempty"`
	Hint            string           `json:"hint,omitempty"`
	Performance     float64          `json:"performance"`
	TimeLeft        time.Duration    `json:"time_left"`
	State           engine.StateView `json:"state"`
}

// Status reports the current round state.
func (s *Service) Status(ctx context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Status
	if s.session != nil {
		st.SessionID = s.session.ID()
		st.SessionScore = s.session.Score()
		st.Challenges = s.session.Count()
	}
	if s.active != nil {
		st.ChallengeActive = true
		st.Kind = s.active.template.Kind.String()
		st.Instruction = s.active.template.Instruction
		st.Hint = s.active.template.Hint
		st.Performance = s.active.last.Performance
		st.TimeLeft = max(0, s.active.deadline.Sub(s.now()))
		st.State = s.engine.Snapshot()
	}
	return st
}

// Sessions returns persisted session history, newest first.
func (s *Service) Sessions(ctx context.Context, limit int) ([]model.SessionRecord, error) {
	return s.store.Sessions(ctx, limit)
}

// TotalScore sums all persisted session scores.
func (s *Service) TotalScore(ctx context.Context) (int, error) {
	return s.store.TotalScore(ctx)
}

// SessionCount returns the number of persisted sessions.
func (s *Service) SessionCount(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
