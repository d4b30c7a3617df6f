// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
//
// The service owns the session registry: it mints session ids, routes each
// API call to the owning flow controller, and folds completed sessions into
// the aggregate style tally.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/analytics"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/repository"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/sched"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/storage"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/catalog"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/scoring"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/types"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/flow"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/logger"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/metrics"
)

// Service implements the API dependencies for the quiz system.
type Service struct {
	mu sync.RWMutex

	// Core components
	cat       *catalog.Catalog
	store     storage.Store
	tally     repository.Tally
	emitter   analytics.Emitter
	scheduler sched.Scheduler
	engine    *scoring.Engine

	// Sessions keyed by id.
	sessions map[string]*flow.Controller

	// Configuration
	autoAdvanceDelay time.Duration
	maxSecondary     int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the session key/value store.
func WithStore(s storage.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithTally sets the aggregate style tally.
func WithTally(t repository.Tally) Option {
	return func(svc *Service) {
		if t != nil {
			svc.tally = t
		}
	}
}

// WithEmitter sets the analytics emitter shared by all sessions.
func WithEmitter(e analytics.Emitter) Option {
	return func(svc *Service) {
		if e != nil {
			svc.emitter = e
		}
	}
}

// WithScheduler sets the auto-advance scheduler shared by all sessions.
func WithScheduler(s sched.Scheduler) Option {
	return func(svc *Service) {
		if s != nil {
			svc.scheduler = s
		}
	}
}

// WithAutoAdvanceDelay sets the per-question auto-advance pause.
func WithAutoAdvanceDelay(d time.Duration) Option {
	return func(svc *Service) {
		if d >= 0 {
			svc.autoAdvanceDelay = d
		}
	}
}

// WithMaxSecondary caps the secondary styles of a scoring result.
func WithMaxSecondary(n int) Option {
	return func(svc *Service) {
		if n >= 0 {
			svc.maxSecondary = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a new Service for the given catalog with default
// configuration.
func New(cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		cat:              cat,
		sessions:         make(map[string]*flow.Controller),
		autoAdvanceDelay: -1, // flow default unless configured
		maxSecondary:     3,
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
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting quiz service...")

	if s.store == nil {
		s.store = storage.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory session store")
	}
	if s.tally == nil {
		s.tally = repository.NewMemTally()
	}
	if s.scheduler == nil {
		s.scheduler = sched.NewTimerScheduler()
	}
	if s.engine == nil {
		s.engine = scoring.NewEngine(scoring.WithMaxSecondary(s.maxSecondary))
	}

	s.started = true
	s.logger.Info(ctx, "quiz service started",
		logger.Int("normalQuestions", s.cat.NormalCount()),
		logger.Int("strategicQuestions", s.cat.StrategicCount()),
	)

	return nil
}

// Stop gracefully shuts down the service: every live session's timer is
// cancelled and the store is closed.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping quiz service...")

	for _, c := range s.sessions {
		c.Close()
	}
	s.sessions = make(map[string]*flow.Controller)
	metrics.UpdateActiveSessions(0)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "closing session store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "quiz service stopped")
}

// CreateSession mints a new session, submits the visitor's name and returns
// the initial view of the first question.
func (s *Service) CreateSession(ctx context.Context, userName string) (flow.Snapshot, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return flow.Snapshot{}, ErrNotStarted
	}

	id := uuid.NewString()
	c := flow.New(id, s.cat,
		flow.WithStore(s.store),
		flow.WithEmitter(s.emitter),
		flow.WithScheduler(s.scheduler),
		flow.WithEngine(s.engine),
		flow.WithLogger(s.logger.Named("flow")),
		flow.WithAutoAdvanceDelay(s.autoAdvanceDelay),
	)
	s.sessions[id] = c
	metrics.UpdateActiveSessions(len(s.sessions))
	s.mu.Unlock()

	if err := c.Begin(ctx, userName); err != nil {
		s.mu.Lock()
		delete(s.sessions, id)
		metrics.UpdateActiveSessions(len(s.sessions))
		s.mu.Unlock()
		return flow.Snapshot{}, err
	}

	s.logger.Info(ctx, "session created", logger.String("session", id))
	return c.Snapshot(), nil
}

// Select toggles an option on the session's active question.
func (s *Service) Select(ctx context.Context, sessionID, questionID, optionID string) (flow.SelectResult, error) {
	c, err := s.session(sessionID)
	if err != nil {
		return flow.SelectResult{}, err
	}
	return c.Select(ctx, questionID, optionID)
}

// Next advances the session past its active question.
func (s *Service) Next(ctx context.Context, sessionID string) (flow.Snapshot, error) {
	c, err := s.session(sessionID)
	if err != nil {
		return flow.Snapshot{}, err
	}
	if err := c.Next(ctx); err != nil {
		return flow.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// Previous steps the session back one question within its phase.
func (s *Service) Previous(ctx context.Context, sessionID string) (flow.Snapshot, error) {
	c, err := s.session(sessionID)
	if err != nil {
		return flow.Snapshot{}, err
	}
	if err := c.Previous(ctx); err != nil {
		return flow.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// ConfirmMain acknowledges the main transition screen.
func (s *Service) ConfirmMain(ctx context.Context, sessionID string) (flow.Snapshot, error) {
	c, err := s.session(sessionID)
	if err != nil {
		return flow.Snapshot{}, err
	}
	if err := c.ConfirmMain(ctx); err != nil {
		return flow.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// SeeResult finishes the session. A defined primary style is folded into the
// aggregate tally; the undefined-style outcome completes the session without
// a classification and is surfaced to the caller unchanged.
func (s *Service) SeeResult(ctx context.Context, sessionID string) (model.ScoringResult, error) {
	c, err := s.session(sessionID)
	if err != nil {
		return model.ScoringResult{}, err
	}

	result, err := c.SeeResult(ctx)
	if err != nil {
		return model.ScoringResult{}, err
	}

	if terr := s.tally.RecordPrimary(ctx, result.PrimaryStyle.Category); terr != nil {
		// The visitor has their result; the dashboard just missed a count.
		s.logger.Warn(ctx, "recording primary style",
			logger.String("session", sessionID),
			logger.String("category", result.PrimaryStyle.Category),
			logger.Error(terr),
		)
	}

	return result, nil
}

// Result returns the terminal classification of a completed session.
func (s *Service) Result(_ context.Context, sessionID string) (model.ScoringResult, bool, error) {
	c, err := s.session(sessionID)
	if err != nil {
		return model.ScoringResult{}, false, err
	}
	return c.Result()
}

// Session returns the current view of a session.
func (s *Service) Session(_ context.Context, sessionID string) (flow.Snapshot, error) {
	c, err := s.session(sessionID)
	if err != nil {
		return flow.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// TopStyles returns the top N aggregate style counts.
func (s *Service) TopStyles(ctx context.Context, n int) ([]types.StyleCount, error) {
	s.mu.RLock()
	started, tally := s.started, s.tally
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	return tally.TopN(ctx, n)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.ServiceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.ServiceStats{
		Started:            s.started,
		ActiveSessions:     len(s.sessions),
		NormalQuestions:    s.cat.NormalCount(),
		StrategicQuestions: s.cat.StrategicCount(),
	}
	if s.started {
		stats.TrackedStyles = s.tally.Count(context.Background())
	}
	return stats
}

func (s *Service) session(id string) (*flow.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	c, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return c, nil
}
