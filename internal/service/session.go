package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
	"github.com/aliskhannn/amagambo-bot/internal/repository"
	"github.com/aliskhannn/amagambo-bot/internal/srs"
)

// SessionConfig holds per-session learning quotas.
type SessionConfig struct {
	LearnCount      int // facts per learning session for named identities
	GuestLearnCount int // facts per learning session for anonymous identities
}

// DefaultSessionConfig mirrors the defaults in config.Load.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{LearnCount: 5, GuestLearnCount: 3}
}

// View is a read-only snapshot of the session for the presentation layer.
type View struct {
	Identity entities.Identity
	Status   entities.SessionStatus
	Mode     entities.SessionMode
	Current  entities.QueuedFact // zero unless Status is active
	Position int                 // 1-based position of Current
	Total    int
	Flipped  bool
}

// Summary reports per-level progress of the active identity.
type Summary struct {
	Identity entities.Identity
	Levels   []srs.LevelStats
}

// ticket identifies one content request. A response is applied only while
// both counters still match the session.
type ticket struct {
	generation uint64
	epoch      uint64
}

// Session drives one learner through review and learning sessions.
// It owns the learner's SchedulerState and persists it after every change.
// Methods are safe for concurrent use; the lock is never held while waiting
// for the content generator.
type Session struct {
	mu sync.Mutex

	scheduler *srs.Scheduler
	states    StateRepository
	content   *ContentSource
	cfg       SessionConfig
	logger    *zap.Logger

	identity entities.Identity
	state    *entities.SchedulerState
	status   entities.SessionStatus
	queue    *entities.SessionQueue
	quiz     *entities.Quiz

	epoch      uint64 // bumped when the identity changes or the session is abandoned
	generation uint64 // bumped for every content request
	pending    uint64 // generation of the outstanding request, 0 if none
}

func NewSession(
	scheduler *srs.Scheduler,
	states StateRepository,
	content *ContentSource,
	cfg SessionConfig,
	logger *zap.Logger,
) *Session {
	return &Session{
		scheduler: scheduler,
		states:    states,
		content:   content,
		cfg:       cfg,
		logger:    logger,
		status:    entities.StatusIdle,
	}
}

// SwitchIdentity makes id the active identity. Any queued cards are dropped
// and an outstanding content request will be discarded when it returns.
// Named identities load their stored state; a missing, unreadable or
// malformed state starts the identity from scratch.
func (s *Session) SwitchIdentity(ctx context.Context, id entities.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abandon()
	s.identity = id
	s.state = s.loadState(ctx, id)
}

func (s *Session) loadState(ctx context.Context, id entities.Identity) *entities.SchedulerState {
	if id.Anonymous {
		return entities.NewSchedulerState(id.DisplayName)
	}

	state, err := s.states.Load(ctx, id.Name, s.scheduler.Today())
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStateNotFound):
		s.logger.Debug("no saved state", zap.String("identity", id.Name))
		return entities.NewSchedulerState(id.DisplayName)
	default:
		s.logger.Warn("failed to load state, starting fresh",
			zap.String("identity", id.Name),
			zap.Error(err),
		)
		return entities.NewSchedulerState(id.DisplayName)
	}

	if state.DisplayName == "" {
		state.DisplayName = id.DisplayName
	}
	return state
}

// Identity returns the active identity.
func (s *Session) Identity() entities.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// StartReview queues every fact that is due today. Nothing is requested from
// the generator when the due set is empty.
func (s *Session) StartReview(ctx context.Context) (View, error) {
	s.mu.Lock()
	if err := s.checkCanStart(); err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	if s.identity.Anonymous {
		s.mu.Unlock()
		return View{}, ErrReviewUnavailable
	}

	due := srs.DueSet(s.state, s.scheduler.Today())
	if len(due) == 0 {
		s.mu.Unlock()
		return View{}, ErrNothingDue
	}

	ids := make([]string, 0, len(due))
	seen := make(map[string]bool, len(due))
	for _, d := range due {
		if !seen[d.FactID] {
			seen[d.FactID] = true
			ids = append(ids, d.FactID)
		}
	}

	t := s.begin()
	s.mu.Unlock()

	facts := s.content.ByIDs(ctx, ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finish(t) {
		return View{}, ErrStaleResponse
	}

	items := reviewItems(due, facts)
	if len(items) == 0 {
		return View{}, ErrNoFacts
	}
	if len(items) < len(due) {
		s.logger.Info("generator returned fewer facts than due",
			zap.String("identity", s.identity.Name),
			zap.Int("due", len(due)),
			zap.Int("queued", len(items)),
		)
	}

	s.queue = entities.NewSessionQueue(entities.ModeReview, "", items)
	s.quiz = nil
	s.status = entities.StatusActive
	return s.view(), nil
}

// reviewItems keeps the generator's order and pairs every returned fact with
// the due records carrying its id. Facts that were not asked for are dropped.
func reviewItems(due []srs.DueItem, facts []entities.Fact) []entities.QueuedFact {
	levels := make(map[string][]entities.Level, len(due))
	for _, d := range due {
		levels[d.FactID] = append(levels[d.FactID], d.Level)
	}

	items := make([]entities.QueuedFact, 0, len(due))
	for _, f := range facts {
		for _, level := range levels[f.ID] {
			items = append(items, entities.QueuedFact{Fact: f, Level: level})
		}
		delete(levels, f.ID)
	}
	return items
}

// StartLearning queues new facts of a level that the identity has not seen yet.
func (s *Session) StartLearning(ctx context.Context, level entities.Level) (View, error) {
	s.mu.Lock()
	if err := s.checkCanStart(); err != nil {
		s.mu.Unlock()
		return View{}, err
	}

	count := s.cfg.LearnCount
	if s.identity.Anonymous {
		count = s.cfg.GuestLearnCount
	}
	if count <= 0 {
		s.mu.Unlock()
		return View{}, ErrNoFacts
	}

	exclude := s.state.FactIDs(level)
	t := s.begin()
	s.mu.Unlock()

	facts := s.content.ByLevel(ctx, level, count, exclude)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finish(t) {
		return View{}, ErrStaleResponse
	}

	items := s.learningItems(level, facts, count)
	if len(items) == 0 {
		return View{}, ErrNoFacts
	}

	s.queue = entities.NewSessionQueue(entities.ModeLearning, level, items)
	s.quiz = nil
	s.status = entities.StatusActive
	return s.view(), nil
}

// learningItems drops facts the identity already knows, duplicates and
// anything beyond count; generators do not always honour the exclusion list.
func (s *Session) learningItems(level entities.Level, facts []entities.Fact, count int) []entities.QueuedFact {
	items := make([]entities.QueuedFact, 0, min(len(facts), count))
	seen := make(map[string]bool, len(facts))
	for _, f := range facts {
		if len(items) == count {
			break
		}
		if f.ID == "" || seen[f.ID] {
			continue
		}
		if _, known := s.state.Record(level, f.ID); known {
			continue
		}
		seen[f.ID] = true
		items = append(items, entities.QueuedFact{Fact: f, Level: level})
	}
	return items
}

// Flip reveals the answer of the current card. In a learning session the
// first flip introduces the fact to the learner.
func (s *Session) Flip(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return View{}, err
	}
	s.queue.Flipped = true

	if s.queue.Mode != entities.ModeLearning || s.identity.Anonymous {
		return s.view(), nil
	}

	if _, created := srs.Introduce(s.state, cur.Level, cur.Fact.ID, s.scheduler.Today()); created {
		if err := s.persist(ctx); err != nil {
			return s.view(), err
		}
	}
	return s.view(), nil
}

// Rate applies the learner's outcome to the current card and moves on.
// The card must have been flipped first. Outcomes of anonymous identities are
// not recorded.
func (s *Session) Rate(ctx context.Context, outcome entities.Outcome) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return View{}, err
	}
	if !s.queue.Flipped {
		return s.view(), ErrNotFlipped
	}
	if _, err := entities.ParseOutcome(string(outcome)); err != nil {
		return s.view(), err
	}

	var saveErr error
	if !s.identity.Anonymous {
		var existing *entities.ReviewRecord
		if r, ok := s.state.Record(cur.Level, cur.Fact.ID); ok {
			existing = &r
		}
		next := srs.ApplyOutcome(existing, outcome, s.scheduler.Today())
		s.state.Put(cur.Level, cur.Fact.ID, next)
		saveErr = s.persist(ctx)
	}

	if !s.queue.Advance() {
		s.status = entities.StatusComplete
	}
	return s.view(), saveErr
}

// Cancel abandons the current queue and quiz. Outcomes already applied stay applied.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandon()
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Summary reports learned and due counts per level for the active identity.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Identity: s.identity,
		Levels:   srs.Stats(s.state, s.scheduler.Today()),
	}
}

func (s *Session) checkCanStart() error {
	if s.identity.Name == "" {
		return ErrNoIdentity
	}
	if s.pending != 0 {
		return ErrGenerationInFlight
	}
	return nil
}

func (s *Session) begin() ticket {
	s.generation++
	s.pending = s.generation
	return ticket{generation: s.generation, epoch: s.epoch}
}

// finish releases the single-flight slot and reports whether the response
// still belongs to the current identity and session.
func (s *Session) finish(t ticket) bool {
	if s.pending == t.generation {
		s.pending = 0
	}
	return t.epoch == s.epoch && t.generation == s.generation
}

func (s *Session) abandon() {
	s.epoch++
	s.pending = 0
	s.queue = nil
	s.quiz = nil
	s.status = entities.StatusIdle
}

func (s *Session) current() (entities.QueuedFact, error) {
	if s.status != entities.StatusActive {
		return entities.QueuedFact{}, ErrNoActiveSession
	}
	cur, ok := s.queue.Current()
	if !ok {
		return entities.QueuedFact{}, ErrNoActiveSession
	}
	return cur, nil
}

func (s *Session) persist(ctx context.Context) error {
	if err := s.states.Save(ctx, s.identity.Name, s.state); err != nil {
		s.logger.Error("failed to persist state",
			zap.String("identity", s.identity.Name),
			zap.Error(err),
		)
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

func (s *Session) view() View {
	v := View{
		Identity: s.identity,
		Status:   s.status,
	}
	if s.queue == nil {
		return v
	}

	v.Mode = s.queue.Mode
	v.Total = s.queue.Len()
	if s.status == entities.StatusActive {
		v.Current, _ = s.queue.Current()
		v.Position = s.queue.Cursor + 1
		v.Flipped = s.queue.Flipped
	}
	return v
}
