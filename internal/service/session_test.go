package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
	"github.com/aliskhannn/amagambo-bot/internal/repository"
	"github.com/aliskhannn/amagambo-bot/internal/srs"
	"github.com/aliskhannn/amagambo-bot/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testDay = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func dayN(n int) time.Time {
	return srs.Date(testDay).AddDate(0, 0, n)
}

var catalog = map[string]entities.Fact{
	"muraho":  entities.NewFact("muraho", "hello", "Muraho, amakuru?", "Hello, how are you?"),
	"amakuru": entities.NewFact("amakuru", "news; how are you", "Amakuru yawe?", "How are you?"),
	"amazi":   entities.NewFact("amazi", "water", "Ndashaka amazi.", "I want water."),
	"inzu":    entities.NewFact("inzu", "house", "Inzu yanjye ni nini.", "My house is big."),
}

// fakeGenerator serves facts from catalog. When gate is set every call
// signals started and then waits for gate to be closed.
type fakeGenerator struct {
	mu      sync.Mutex
	byLevel []string
	err     error
	calls   int

	started chan struct{}
	gate    chan struct{}
}

func (g *fakeGenerator) wait(ctx context.Context) {
	g.mu.Lock()
	g.calls++
	started, gate := g.started, g.gate
	g.mu.Unlock()

	if gate == nil {
		return
	}
	started <- struct{}{}
	select {
	case <-gate:
	case <-ctx.Done():
	}
}

func (g *fakeGenerator) GenerateByLevel(ctx context.Context, _ entities.Level, count int, _ []string) ([]entities.Fact, error) {
	g.wait(ctx)
	if g.err != nil {
		return nil, g.err
	}
	var out []entities.Fact
	for _, id := range g.byLevel {
		out = append(out, catalog[id])
	}
	return out, nil
}

func (g *fakeGenerator) GenerateByIDs(ctx context.Context, ids []string) ([]entities.Fact, error) {
	g.wait(ctx)
	if g.err != nil {
		return nil, g.err
	}
	var out []entities.Fact
	for _, id := range ids {
		if f, ok := catalog[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// countingRepo records every Save.
type countingRepo struct {
	mu     sync.Mutex
	states map[string]*entities.SchedulerState
	saves  int
}

func newCountingRepo() *countingRepo {
	return &countingRepo{states: make(map[string]*entities.SchedulerState)}
}

func (r *countingRepo) Load(_ context.Context, name string, _ time.Time) (*entities.SchedulerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[name]
	if !ok {
		return nil, repository.ErrStateNotFound
	}
	return s.Clone(), nil
}

func (r *countingRepo) Save(_ context.Context, name string, state *entities.SchedulerState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.states[name] = state.Clone()
	return nil
}

func (r *countingRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, name)
	return nil
}

func (r *countingRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *countingRepo) stored(name string) *entities.SchedulerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[name]
}

func newTestSession(t *testing.T, gen FactGenerator, repo StateRepository, now *time.Time) *Session {
	t.Helper()
	sched := srs.New(time.UTC, srs.WithClock(func() time.Time { return *now }))
	content := NewContentSource(gen, time.Second, zap.NewNop())
	return NewSession(sched, repo, content, DefaultSessionConfig(), zap.NewNop())
}

func TestStartRequiresIdentity(t *testing.T) {
	now := testDay
	s := newTestSession(t, &fakeGenerator{}, newCountingRepo(), &now)

	_, err := s.StartLearning(context.Background(), entities.LevelBasic)
	assert.ErrorIs(t, err, ErrNoIdentity)

	_, err = s.StartReview(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestAnonymousIdentityNeverSaves(t *testing.T) {
	ctx := context.Background()
	now := testDay
	gen := &fakeGenerator{byLevel: []string{"muraho", "amakuru", "amazi", "inzu"}}
	repo := newCountingRepo()
	s := newTestSession(t, gen, repo, &now)

	s.SwitchIdentity(ctx, entities.NewAnonymousIdentity())

	v, err := s.StartLearning(ctx, entities.LevelBasic)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Total)

	for v.Status == entities.StatusActive {
		_, err = s.Flip(ctx)
		require.NoError(t, err)
		v, err = s.Rate(ctx, entities.OutcomeGood)
		require.NoError(t, err)
	}

	assert.Equal(t, entities.StatusComplete, v.Status)
	assert.Zero(t, repo.saveCount())

	_, err = s.StartReview(ctx)
	assert.ErrorIs(t, err, ErrReviewUnavailable)
}

func TestLearningIntroducesOnFlipThenRates(t *testing.T) {
	ctx := context.Background()
	now := testDay
	gen := &fakeGenerator{byLevel: []string{"muraho"}}
	repo := newCountingRepo()
	s := newTestSession(t, gen, repo, &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", "Alice"))

	v, err := s.StartLearning(ctx, entities.LevelBasic)
	require.NoError(t, err)
	require.Equal(t, entities.StatusActive, v.Status)
	assert.Equal(t, "muraho", v.Current.Fact.ID)
	assert.Equal(t, 1, v.Position)
	assert.False(t, v.Flipped)

	v, err = s.Flip(ctx)
	require.NoError(t, err)
	assert.True(t, v.Flipped)
	require.Equal(t, 1, repo.saveCount())

	r, ok := repo.stored("alice").Record(entities.LevelBasic, "muraho")
	require.True(t, ok)
	assert.Equal(t, entities.ReviewRecord{NextReviewDue: dayN(1), IntervalDays: 1, EaseFactor: 2.5}, r)

	// A second flip does not introduce again.
	_, err = s.Flip(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saveCount())

	v, err = s.Rate(ctx, entities.OutcomeGood)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusComplete, v.Status)
	assert.Equal(t, 2, repo.saveCount())

	r, _ = repo.stored("alice").Record(entities.LevelBasic, "muraho")
	assert.Equal(t, entities.ReviewRecord{NextReviewDue: dayN(3), IntervalDays: 3, EaseFactor: 2.5, Repetitions: 1}, r)
}

func TestLearningSkipsKnownAndDuplicateFacts(t *testing.T) {
	ctx := context.Background()
	now := testDay
	repo := newCountingRepo()
	known := entities.NewSchedulerState("Alice")
	known.Put(entities.LevelBasic, "muraho", srs.NewRecord(dayN(-3)))
	repo.states["alice"] = known

	gen := &fakeGenerator{byLevel: []string{"muraho", "amazi", "amazi", "inzu"}}
	s := newTestSession(t, gen, repo, &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", "Alice"))

	v, err := s.StartLearning(ctx, entities.LevelBasic)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, "amazi", v.Current.Fact.ID)
}

func TestRateRequiresFlip(t *testing.T) {
	ctx := context.Background()
	now := testDay
	repo := newCountingRepo()
	s := newTestSession(t, &fakeGenerator{byLevel: []string{"amazi"}}, repo, &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", ""))

	_, err := s.Rate(ctx, entities.OutcomeGood)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = s.StartLearning(ctx, entities.LevelMedium)
	require.NoError(t, err)

	v, err := s.Rate(ctx, entities.OutcomeGood)
	assert.ErrorIs(t, err, ErrNotFlipped)
	assert.Equal(t, entities.StatusActive, v.Status)
	assert.Zero(t, repo.saveCount())
}

func TestRateRejectsUnknownOutcome(t *testing.T) {
	ctx := context.Background()
	now := testDay
	s := newTestSession(t, &fakeGenerator{byLevel: []string{"amazi"}}, newCountingRepo(), &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", ""))

	_, err := s.StartLearning(ctx, entities.LevelBasic)
	require.NoError(t, err)
	_, err = s.Flip(ctx)
	require.NoError(t, err)

	_, err = s.Rate(ctx, entities.Outcome("perfect"))
	assert.ErrorIs(t, err, entities.ErrUnknownOutcome)
	assert.Equal(t, entities.StatusActive, s.View().Status)
}

func TestReviewWithNothingDueSkipsGenerator(t *testing.T) {
	ctx := context.Background()
	now := testDay
	repo := newCountingRepo()
	state := entities.NewSchedulerState("Alice")
	state.Put(entities.LevelBasic, "muraho", srs.NewRecord(dayN(0)))
	repo.states["alice"] = state

	gen := &fakeGenerator{}
	s := newTestSession(t, gen, repo, &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", ""))

	_, err := s.StartReview(ctx)
	assert.ErrorIs(t, err, ErrNothingDue)
	assert.Zero(t, gen.callCount())
	assert.Equal(t, entities.StatusIdle, s.View().Status)
}

func TestReviewRunsToCompletion(t *testing.T) {
	ctx := context.Background()
	now := testDay
	repo := newCountingRepo()
	state := entities.NewSchedulerState("Alice")
	state.Put(entities.LevelBasic, "muraho", srs.NewRecord(dayN(-2)))
	state.Put(entities.LevelMedium, "amazi", entities.ReviewRecord{
		NextReviewDue: dayN(0), IntervalDays: 3, EaseFactor: 2.5, Repetitions: 1,
	})
	state.Put(entities.LevelMedium, "inzu", srs.NewRecord(dayN(5)))
	repo.states["alice"] = state

	gen := &fakeGenerator{}
	s := newTestSession(t, gen, repo, &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", ""))

	v, err := s.StartReview(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.ModeReview, v.Mode)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, "muraho", v.Current.Fact.ID)
	assert.Equal(t, entities.LevelBasic, v.Current.Level)

	_, err = s.Flip(ctx)
	require.NoError(t, err)
	assert.Zero(t, repo.saveCount(), "flipping a review card changes nothing")

	v, err = s.Rate(ctx, entities.OutcomeAgain)
	require.NoError(t, err)
	assert.Equal(t, "amazi", v.Current.Fact.ID)
	assert.Equal(t, 2, v.Position)

	_, err = s.Flip(ctx)
	require.NoError(t, err)
	v, err = s.Rate(ctx, entities.OutcomeEasy)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusComplete, v.Status)

	stored := repo.stored("alice")
	r, _ := stored.Record(entities.LevelBasic, "muraho")
	assert.Equal(t, 0, r.Repetitions)
	assert.Equal(t, dayN(1), r.NextReviewDue)

	r, _ = stored.Record(entities.LevelMedium, "amazi")
	assert.Equal(t, 10, r.IntervalDays) // ceil(3 * 2.5 * 1.3) = ceil(9.75)
	assert.InDelta(t, 2.65, r.EaseFactor, 1e-9)

	_, err = s.StartReview(ctx)
	assert.ErrorIs(t, err, ErrNothingDue)
}

func TestGeneratorFailureYieldsNoFacts(t *testing.T) {
	ctx := context.Background()
	now := testDay
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	s := newTestSession(t, gen, newCountingRepo(), &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", ""))

	_, err := s.StartLearning(ctx, entities.LevelAdvanced)
	assert.ErrorIs(t, err, ErrNoFacts)

	// The failed request does not block the next one.
	gen.err = nil
	gen.byLevel = []string{"inzu"}
	_, err = s.StartLearning(ctx, entities.LevelAdvanced)
	assert.NoError(t, err)
}

func TestSingleFlightGeneration(t *testing.T) {
	ctx := context.Background()
	now := testDay
	gen := &fakeGenerator{
		byLevel: []string{"amazi"},
		started: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	s := newTestSession(t, gen, newCountingRepo(), &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", ""))

	done := make(chan error, 1)
	go func() {
		_, err := s.StartLearning(ctx, entities.LevelBasic)
		done <- err
	}()
	<-gen.started

	_, err := s.StartLearning(ctx, entities.LevelMedium)
	assert.ErrorIs(t, err, ErrGenerationInFlight)
	assert.Equal(t, 1, gen.callCount())

	close(gen.gate)
	require.NoError(t, <-done)
	assert.Equal(t, entities.StatusActive, s.View().Status)
}

func TestResponseAfterIdentitySwitchIsDiscarded(t *testing.T) {
	ctx := context.Background()
	now := testDay
	gen := &fakeGenerator{
		byLevel: []string{"amazi"},
		started: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	repo := newCountingRepo()
	s := newTestSession(t, gen, repo, &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", ""))

	done := make(chan error, 1)
	go func() {
		_, err := s.StartLearning(ctx, entities.LevelBasic)
		done <- err
	}()
	<-gen.started

	bob := entities.NewNamedIdentity("bob", "Bob")
	s.SwitchIdentity(ctx, bob)
	close(gen.gate)

	assert.ErrorIs(t, <-done, ErrStaleResponse)

	v := s.View()
	assert.Equal(t, bob, v.Identity)
	assert.Equal(t, entities.StatusIdle, v.Status)
	assert.Zero(t, repo.saveCount())

	// Bob is free to start right away.
	gen.gate = nil
	_, err := s.StartLearning(ctx, entities.LevelBasic)
	assert.NoError(t, err)
}

func TestResponseAfterCancelIsDiscarded(t *testing.T) {
	ctx := context.Background()
	now := testDay
	gen := &fakeGenerator{
		byLevel: []string{"amazi"},
		started: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	s := newTestSession(t, gen, newCountingRepo(), &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", ""))

	done := make(chan error, 1)
	go func() {
		_, err := s.StartLearning(ctx, entities.LevelBasic)
		done <- err
	}()
	<-gen.started

	s.Cancel()
	close(gen.gate)

	assert.ErrorIs(t, <-done, ErrStaleResponse)
	assert.Equal(t, entities.StatusIdle, s.View().Status)
}

func TestCancelKeepsAppliedOutcomes(t *testing.T) {
	ctx := context.Background()
	now := testDay
	repo := newCountingRepo()
	s := newTestSession(t, &fakeGenerator{byLevel: []string{"amazi", "inzu"}}, repo, &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", ""))

	_, err := s.StartLearning(ctx, entities.LevelBasic)
	require.NoError(t, err)
	_, err = s.Flip(ctx)
	require.NoError(t, err)
	_, err = s.Rate(ctx, entities.OutcomeGood)
	require.NoError(t, err)

	s.Cancel()

	assert.Equal(t, entities.StatusIdle, s.View().Status)
	_, err = s.Flip(ctx)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	assert.Equal(t, 1, repo.stored("alice").Count(entities.LevelBasic))
}

func TestLegacyStateIsMigratedOnSwitch(t *testing.T) {
	ctx := context.Background()
	now := testDay
	store := storage.NewMemoryStateStore()
	legacy := `{"username":"Guest","learnedWords":{"Basic":["amakuru"],"Medium":[],"Advanced":[]}}`
	require.NoError(t, store.Save(ctx, "guest", []byte(legacy)))

	repo := repository.NewStateRepository(store, zap.NewNop())
	gen := &fakeGenerator{}
	s := newTestSession(t, gen, repo, &now)

	s.SwitchIdentity(ctx, entities.NewNamedIdentity("guest", ""))

	sum := s.Summary()
	assert.Equal(t, []srs.LevelStats{
		{Level: entities.LevelBasic, Learned: 1},
		{Level: entities.LevelMedium},
		{Level: entities.LevelAdvanced},
	}, sum.Levels)

	doc, err := store.Load(ctx, "guest")
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"version":2`)

	_, err = s.StartReview(ctx)
	assert.ErrorIs(t, err, ErrNothingDue)

	now = testDay.Add(24 * time.Hour)
	v, err := s.StartReview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "amakuru", v.Current.Fact.ID)
}

func TestUnreadableStateStartsFresh(t *testing.T) {
	ctx := context.Background()
	now := testDay
	store := storage.NewMemoryStateStore()
	require.NoError(t, store.Save(ctx, "alice", []byte(`{"version":`)))

	s := newTestSession(t, &fakeGenerator{}, repository.NewStateRepository(store, zap.NewNop()), &now)
	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", "Alice"))

	for _, ls := range s.Summary().Levels {
		assert.Zero(t, ls.Learned)
	}
}

func TestResetForgetsProgress(t *testing.T) {
	ctx := context.Background()
	now := testDay
	gen := &fakeGenerator{byLevel: []string{"muraho", "amazi"}}
	repo := newCountingRepo()
	s := newTestSession(t, gen, repo, &now)

	assert.ErrorIs(t, s.Reset(ctx), ErrNoIdentity)

	s.SwitchIdentity(ctx, entities.NewNamedIdentity("alice", "Alice"))
	_, err := s.StartLearning(ctx, entities.LevelBasic)
	require.NoError(t, err)
	_, err = s.Flip(ctx)
	require.NoError(t, err)
	require.NotNil(t, repo.stored("alice"))

	require.NoError(t, s.Reset(ctx))

	assert.Nil(t, repo.stored("alice"))
	assert.Equal(t, entities.StatusIdle, s.View().Status)
	for _, ls := range s.Summary().Levels {
		assert.Zero(t, ls.Learned)
	}

	// Known facts are offered again.
	v, err := s.StartLearning(ctx, entities.LevelBasic)
	require.NoError(t, err)
	assert.Equal(t, "muraho", v.Current.Fact.ID)
}
