// Package flow implements the quiz session state machine.
//
// A Controller owns one visitor's session: it applies validated selection
// toggles, drives the linear phase sequence, arms and cancels the
// auto-advance timer, and hands derived scoring and progress values to the
// outside. All mutations go through the controller's mutex; the scheduler
// callback re-validates under the same lock, so a stale timer can never
// advance a question the visitor has since altered.
package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/analytics"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/sched"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/storage"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/catalog"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/model"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/progress"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/scoring"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/selection"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/logger"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/metrics"
)

const defaultAutoAdvanceDelay = 40 * time.Millisecond

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithStore sets the durable key/value store.
func WithStore(s storage.Store) Option {
	return func(c *Controller) {
		if s != nil {
			c.store = s
		}
	}
}

// WithEmitter sets the analytics emitter.
func WithEmitter(e analytics.Emitter) Option {
	return func(c *Controller) {
		if e != nil {
			c.emitter = e
		}
	}
}

// WithScheduler sets the auto-advance scheduler.
func WithScheduler(s sched.Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithEngine sets the scoring engine.
func WithEngine(e *scoring.Engine) Option {
	return func(c *Controller) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithAutoAdvanceDelay sets the pause before a completed default-sized
// normal question advances on its own.
func WithAutoAdvanceDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.autoAdvanceDelay = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller is the per-session state machine.
type Controller struct {
	mu sync.Mutex

	id  string
	cat *catalog.Catalog

	store            storage.Store
	emitter          analytics.Emitter
	scheduler        sched.Scheduler
	engine           *scoring.Engine
	log              logger.Logger
	now              func() time.Time
	autoAdvanceDelay time.Duration

	phase          model.Phase
	userName       string
	normalIndex    int
	strategicIndex int
	answers        map[string]model.Answer

	result    *model.ScoringResult
	undefined bool

	// pending is the armed auto-advance; armGen invalidates callbacks of
	// handles that were cancelled or superseded.
	pending sched.Handle
	armGen  uint64
}

// New creates a controller at the intro phase.
func New(id string, cat *catalog.Catalog, opts ...Option) *Controller {
	c := &Controller{
		id:               id,
		cat:              cat,
		store:            storage.NewMemoryStore(),
		scheduler:        sched.NewTimerScheduler(),
		engine:           scoring.NewEngine(),
		now:              time.Now,
		autoAdvanceDelay: defaultAutoAdvanceDelay,
		phase:            model.PhaseIntro,
		answers:          make(map[string]model.Answer),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("flow")
	}
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// Begin starts the quiz: intro -> normal. The name is required; submitting
// it is the "quiz started" moment.
func (c *Controller) Begin(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != model.PhaseIntro {
		return fmt.Errorf("%w: begin in %s", ErrInvalidPhase, c.phase)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	c.userName = name
	c.phase = model.PhaseNormal
	c.normalIndex = 0

	c.persist(ctx, storage.KeyUserName, name)
	c.persist(ctx, storage.KeyQuizStartTime, strconv.FormatInt(c.now().UnixMilli(), 10))
	c.emit(ctx, analytics.EventQuizStart, map[string]string{"userName": name})
	metrics.RecordSessionStarted()

	return nil
}

// SelectResult reports the outcome of one selection toggle.
type SelectResult struct {
	// Selection is the question's selection after the toggle.
	Selection []string `json:"selection"`
	// Complete reports whether the question meets its requirement.
	Complete bool `json:"complete"`
	// Rejected is true when the toggle was refused; Reason says why.
	Rejected bool             `json:"rejected,omitempty"`
	Reason   selection.Reason `json:"reason,omitempty"`
	// AutoAdvance is true when an advance timer was armed by this toggle.
	AutoAdvance bool `json:"auto_advance,omitempty"`
	// DisplayThreshold is the presentation-only affordance threshold; it
	// may diverge from the real completion gate.
	DisplayThreshold int `json:"display_threshold"`
}

// Select toggles optionID on the currently active question. A toggle for any
// other question is a stale answer: dropped and reported, never retried.
func (c *Controller) Select(ctx context.Context, questionID, optionID string) (SelectResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase.Terminal() {
		return SelectResult{}, ErrSessionComplete
	}
	if c.phase != model.PhaseNormal && c.phase != model.PhaseStrategic {
		return SelectResult{}, fmt.Errorf("%w: select in %s", ErrInvalidPhase, c.phase)
	}

	q, ok := c.activeQuestionLocked()
	if !ok {
		return SelectResult{}, ErrUnknownQuestion
	}
	if q.ID != questionID {
		metrics.RecordStaleAnswer()
		c.log.Warn(ctx, "stale answer dropped",
			logger.String("session", c.id),
			logger.String("got", questionID),
			logger.String("active", q.ID),
		)
		return SelectResult{}, ErrStaleAnswer
	}

	current := c.answers[q.ID].SelectedOptionIDs
	d := selection.Apply(q, current, optionID)

	res := SelectResult{
		Selection:        d.Next,
		Complete:         d.Complete,
		Rejected:         d.Rejected,
		Reason:           d.Reason,
		DisplayThreshold: selection.DisplayThreshold(q),
	}

	if d.Rejected {
		// The selection did not change, so a pending advance stays armed.
		metrics.RecordAnswerRejected(string(d.Reason))
		return res, nil
	}

	// An accepted toggle invalidates a previously armed advance.
	c.cancelPendingLocked()

	c.answers[q.ID] = model.Answer{
		QuestionID:        q.ID,
		SelectedOptionIDs: d.Next,
		RecordedAt:        c.now().UTC(),
	}
	metrics.RecordAnswerRecorded()

	if d.Complete {
		c.emit(ctx, analytics.EventQuizAnswer, map[string]string{
			"questionId": q.ID,
			"selected":   strings.Join(d.Next, ","),
		})
		if c.phase == model.PhaseNormal && q.RequiredSelections() == model.DefaultSelectionCount {
			c.armAutoAdvanceLocked(ctx)
			res.AutoAdvance = true
		}
	}

	return res, nil
}

// Next advances past the active question. Within normal the last question
// crosses into the main transition; within strategic the last question
// crosses into the final transition and snapshots the strategic answers.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case model.PhaseNormal, model.PhaseStrategic:
	default:
		if c.phase.Terminal() {
			return ErrSessionComplete
		}
		return fmt.Errorf("%w: next in %s", ErrInvalidPhase, c.phase)
	}

	q, ok := c.activeQuestionLocked()
	if !ok {
		return ErrUnknownQuestion
	}
	if len(c.answers[q.ID].SelectedOptionIDs) != q.RequiredSelections() {
		return fmt.Errorf("%w: question %s", ErrIncomplete, q.ID)
	}

	c.cancelPendingLocked()
	if c.phase == model.PhaseNormal {
		c.advanceNormalLocked(ctx)
		return nil
	}
	c.advanceStrategicLocked(ctx)
	return nil
}

// Previous steps back one question inside the current phase, floored at the
// phase's first question. Phase boundaries are never re-crossed.
func (c *Controller) Previous(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case model.PhaseNormal:
		c.cancelPendingLocked()
		if c.normalIndex > 0 {
			c.normalIndex--
		}
		return nil
	case model.PhaseStrategic:
		c.cancelPendingLocked()
		if c.strategicIndex > 0 {
			c.strategicIndex--
		}
		return nil
	default:
		if c.phase.Terminal() {
			return ErrSessionComplete
		}
		return fmt.Errorf("%w: previous in %s", ErrInvalidPhase, c.phase)
	}
}

// ConfirmMain acknowledges the main transition screen and enters the
// strategic pool.
func (c *Controller) ConfirmMain(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != model.PhaseMainTransition {
		if c.phase.Terminal() {
			return ErrSessionComplete
		}
		return fmt.Errorf("%w: confirm in %s", ErrInvalidPhase, c.phase)
	}
	c.phase = model.PhaseStrategic
	c.strategicIndex = 0
	return nil
}

// SeeResult runs the scoring engine once, persists the terminal snapshot and
// enters the result phase. With no scorable answers the session still
// completes, but the caller receives scoring.ErrEmptyScore and must render
// the "undefined style" fallback.
func (c *Controller) SeeResult(ctx context.Context) (model.ScoringResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != model.PhaseFinalTransition {
		if c.phase.Terminal() {
			return model.ScoringResult{}, ErrSessionComplete
		}
		return model.ScoringResult{}, fmt.Errorf("%w: result in %s", ErrInvalidPhase, c.phase)
	}

	c.cancelPendingLocked()
	c.phase = model.PhaseResult
	c.persist(ctx, storage.KeyQuizCompletedAt, strconv.FormatInt(c.now().UnixMilli(), 10))
	metrics.RecordSessionCompleted()
	c.emit(ctx, analytics.EventQuizComplete, nil)

	result, err := c.engine.Score(ctx, c.answers, c.cat)
	if err != nil {
		if errors.Is(err, scoring.ErrEmptyScore) {
			c.undefined = true
			metrics.RecordUndefinedStyle()
			c.emit(ctx, analytics.EventResultView, map[string]string{"primary": "undefined"})
			return model.ScoringResult{}, err
		}
		return model.ScoringResult{}, fmt.Errorf("score session %s: %w", c.id, err)
	}

	c.result = &result
	if data, merr := json.Marshal(result); merr == nil {
		c.persist(ctx, storage.KeyResult, string(data))
	}
	c.emit(ctx, analytics.EventResultView, map[string]string{"primary": result.PrimaryStyle.Category})

	return result, nil
}

// Result returns the terminal classification once the session is complete.
// undefined is true when the session finished without scorable answers.
func (c *Controller) Result() (result model.ScoringResult, undefined bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != model.PhaseResult {
		return model.ScoringResult{}, false, fmt.Errorf("%w: result not ready in %s", ErrInvalidPhase, c.phase)
	}
	if c.undefined {
		return model.ScoringResult{}, true, nil
	}
	return *c.result, false, nil
}

// Progress derives the 0-100 indicator for the current position.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	ID                string          `json:"id"`
	UserName          string          `json:"user_name,omitempty"`
	Phase             model.Phase     `json:"phase"`
	Progress          int             `json:"progress"`
	ActiveQuestion    *model.Question `json:"active_question,omitempty"`
	Selection         []string        `json:"selection,omitempty"`
	Complete          bool            `json:"complete"`
	DisplayThreshold  int             `json:"display_threshold,omitempty"`
	ThresholdMismatch bool            `json:"threshold_mismatch,omitempty"`
}

// Snapshot returns the current view of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		ID:       c.id,
		UserName: c.userName,
		Phase:    c.phase,
		Progress: c.progressLocked(),
	}
	if q, ok := c.activeQuestionLocked(); ok && (c.phase == model.PhaseNormal || c.phase == model.PhaseStrategic) {
		qq := q
		s.ActiveQuestion = &qq
		s.Selection = c.answers[q.ID].SelectedOptionIDs
		s.Complete = len(s.Selection) == q.RequiredSelections()
		s.DisplayThreshold = selection.DisplayThreshold(q)
		s.ThresholdMismatch = selection.ThresholdMismatch(q)
	}
	return s
}

// Close cancels any armed timer; the controller accepts no further use.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
}

// --- internals (callers hold c.mu) ---

func (c *Controller) activeQuestionLocked() (model.Question, bool) {
	switch c.phase {
	case model.PhaseNormal:
		return c.cat.NormalAt(c.normalIndex)
	case model.PhaseStrategic:
		return c.cat.StrategicAt(c.strategicIndex)
	default:
		return model.Question{}, false
	}
}

func (c *Controller) progressLocked() int {
	return progress.Percent(c.phase, c.normalIndex, c.strategicIndex, c.cat.NormalCount(), c.cat.StrategicCount())
}

func (c *Controller) advanceNormalLocked(ctx context.Context) {
	if c.normalIndex >= c.cat.NormalCount()-1 {
		c.phase = model.PhaseMainTransition
		c.emit(ctx, analytics.EventMainComplete, nil)
		return
	}
	c.normalIndex++
}

func (c *Controller) advanceStrategicLocked(ctx context.Context) {
	if c.strategicIndex >= c.cat.StrategicCount()-1 {
		c.phase = model.PhaseFinalTransition
		c.persistStrategicLocked(ctx)
		return
	}
	c.strategicIndex++
}

// armAutoAdvanceLocked schedules the delayed advance for the active normal
// question. The callback re-checks the arming generation and the question's
// completeness under the lock before moving.
func (c *Controller) armAutoAdvanceLocked(ctx context.Context) {
	c.cancelPendingLocked()

	c.armGen++
	gen := c.armGen
	qid := ""
	if q, ok := c.activeQuestionLocked(); ok {
		qid = q.ID
	}

	c.pending = c.scheduler.Schedule(c.autoAdvanceDelay, func() {
		c.fireAutoAdvance(ctx, gen, qid)
	})
	metrics.RecordAutoAdvanceArmed()
}

func (c *Controller) fireAutoAdvance(ctx context.Context, gen uint64, questionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The session may have moved on between the timer firing and the lock
	// being acquired.
	if gen != c.armGen || c.phase != model.PhaseNormal {
		return
	}
	q, ok := c.activeQuestionLocked()
	if !ok || q.ID != questionID {
		return
	}
	if len(c.answers[q.ID].SelectedOptionIDs) != q.RequiredSelections() {
		return
	}

	c.pending = nil
	metrics.RecordAutoAdvanceFired()
	c.advanceNormalLocked(ctx)
}

func (c *Controller) cancelPendingLocked() {
	if c.pending == nil {
		return
	}
	if c.pending.Cancel() {
		metrics.RecordAutoAdvanceCancelled()
	}
	c.pending = nil
	c.armGen++
}

func (c *Controller) persistStrategicLocked(ctx context.Context) {
	snapshot := make(map[string][]string)
	for _, q := range c.cat.Strategic() {
		if a, ok := c.answers[q.ID]; ok {
			snapshot[q.ID] = a.SelectedOptionIDs
		}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		c.log.Error(ctx, "marshal strategic answers", logger.String("session", c.id), logger.Error(err))
		return
	}
	c.persist(ctx, storage.KeyStrategicAnswers, string(data))
}

// persist writes one key best-effort: a failed write degrades durability,
// never the session.
func (c *Controller) persist(ctx context.Context, key, value string) {
	if err := c.store.Set(ctx, c.id, key, value); err != nil {
		metrics.RecordStorageError("set")
		c.log.Warn(ctx, "persist failed; continuing in memory",
			logger.String("session", c.id),
			logger.String("key", key),
			logger.Error(err),
		)
	}
}

func (c *Controller) emit(ctx context.Context, name string, fields map[string]string) {
	if c.emitter == nil {
		return
	}
	c.emitter.Emit(ctx, analytics.Event{Name: name, Fields: fields, At: c.now().UTC()})
}
