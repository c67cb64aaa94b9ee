package progress

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saadjs/kalki/internal/event"
	"github.com/saadjs/kalki/internal/model"
)

const (
	DefaultMinRefreshInterval = 5 * time.Second
	DefaultRefreshInterval    = time.Minute

	exerciseFetchLimit = 4
)

// FoodSource is the food log as the tracker sees it: a read-only snapshot
// and a change feed.
type FoodSource interface {
	Foods() []model.FoodEntry
	Changes() (<-chan struct{}, func())
}

type GoalSource interface {
	Goals() (model.Goals, error)
}

type ExerciseProvider interface {
	Summary(ctx context.Context, day time.Time, goals model.Goals) (model.ExerciseSummary, error)
}

// PlaceholderSummary is the exercise summary used when no provider data is
// available: nothing burned yet against the configured goals.
func PlaceholderSummary(goals model.Goals) model.ExerciseSummary {
	return model.ExerciseSummary{
		ActiveCalorieGoal: goals.Exercise,
		MinutesGoal:       goals.ExerciseMinutes,
	}
}

// Snapshot is one complete recompute. It is never mutated after commit.
type Snapshot struct {
	Days       Map
	Goals      model.Goals
	Generation uint64
	ComputedAt time.Time
}

type Options struct {
	RetentionDays      int
	MinRefreshInterval time.Duration
	RefreshInterval    time.Duration
	Now                func() time.Time
	Logger             *slog.Logger
}

// Tracker owns the aggregate map. Each Refresh takes a new generation and
// only the newest generation may commit; older recomputes notice and give
// up between days. Readers always get a whole snapshot.
type Tracker struct {
	foods    FoodSource
	goals    GoalSource
	exercise ExerciseProvider
	log      *slog.Logger

	retentionDays   int
	minInterval     time.Duration
	refreshInterval time.Duration
	now             func() time.Time

	generation atomic.Uint64
	current    atomic.Pointer[Snapshot]

	commitMu    sync.Mutex
	lastCommit  time.Time
	broadcaster event.Broadcaster
}

func NewTracker(foods FoodSource, goals GoalSource, exercise ExerciseProvider, opts Options) *Tracker {
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = DefaultRetentionDays
	}
	if opts.MinRefreshInterval <= 0 {
		opts.MinRefreshInterval = DefaultMinRefreshInterval
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	t := &Tracker{
		foods:           foods,
		goals:           goals,
		exercise:        exercise,
		log:             opts.Logger.With(slog.String("component", "progress")),
		retentionDays:   opts.RetentionDays,
		minInterval:     opts.MinRefreshInterval,
		refreshInterval: opts.RefreshInterval,
		now:             opts.Now,
	}
	t.current.Store(&Snapshot{Days: Map{}, Goals: model.DefaultGoals()})
	return t
}

// Refresh recomputes the aggregate map. A non-forced refresh within the
// minimum interval of the last commit does nothing. It reports whether this
// call committed; a recompute overtaken by a newer one returns false, nil.
func (t *Tracker) Refresh(ctx context.Context, force bool) (bool, error) {
	if !force && t.throttled() {
		return false, nil
	}
	gen := t.generation.Add(1)
	superseded := func() bool {
		return t.generation.Load() != gen || ctx.Err() != nil
	}
	log := t.log.With(slog.Uint64("generation", gen))
	log.Debug("recompute started", slog.Bool("forced", force))

	goals := model.DefaultGoals()
	if t.goals != nil {
		loaded, err := t.goals.Goals()
		if err != nil {
			log.Warn("load goals, using defaults", slog.String("error", err.Error()))
		} else {
			goals = loaded
		}
	}
	ref := t.now()
	days, ok := aggregate(t.foods.Foods(), ref, t.retentionDays, superseded)
	if !ok {
		return t.abandon(ctx, log)
	}
	if err := t.fillExercise(ctx, days, goals, superseded); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return t.abandon(ctx, log)
	}

	next := &Snapshot{Days: days, Goals: goals, Generation: gen, ComputedAt: ref}

	t.commitMu.Lock()
	if t.generation.Load() != gen {
		t.commitMu.Unlock()
		return t.abandon(ctx, log)
	}
	t.current.Store(next)
	t.lastCommit = t.now()
	t.commitMu.Unlock()

	log.Debug("recompute committed", slog.Int("days", len(days)))
	t.broadcaster.Publish()
	return true, nil
}

func (t *Tracker) abandon(ctx context.Context, log *slog.Logger) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	log.Debug("recompute superseded")
	return false, nil
}

func (t *Tracker) throttled() bool {
	t.commitMu.Lock()
	defer t.commitMu.Unlock()
	if t.lastCommit.IsZero() {
		return false
	}
	return t.now().Sub(t.lastCommit) < t.minInterval
}

// supersededError unwinds the exercise fan-out; it never leaves Refresh.
type supersededError struct{}

func (supersededError) Error() string { return "recompute superseded" }

func (t *Tracker) fillExercise(ctx context.Context, days Map, goals model.Goals, superseded func() bool) error {
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	summaries := make([]model.ExerciseSummary, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exerciseFetchLimit)
	for i, k := range keys {
		if superseded() {
			break
		}
		day := days[k].Day
		g.Go(func() error {
			if superseded() {
				return supersededError{}
			}
			summaries[i] = t.exerciseFor(gctx, day, goals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if superseded() {
		return supersededError{}
	}
	for i, k := range keys {
		agg := days[k]
		agg.Exercise = summaries[i]
		days[k] = agg
	}
	return nil
}

func (t *Tracker) exerciseFor(ctx context.Context, day time.Time, goals model.Goals) model.ExerciseSummary {
	if t.exercise == nil {
		return PlaceholderSummary(goals)
	}
	s, err := t.exercise.Summary(ctx, day, goals)
	if err != nil {
		t.log.Warn("fetch exercise summary, using placeholder",
			slog.String("day", Key(day)),
			slog.String("error", err.Error()),
		)
		return PlaceholderSummary(goals)
	}
	if s.ActiveCalories < 0 {
		s.ActiveCalories = 0
	}
	if s.ActiveMinutes < 0 {
		s.ActiveMinutes = 0
	}
	return s
}

func (t *Tracker) Snapshot() *Snapshot {
	return t.current.Load()
}

func (t *Tracker) Get(day time.Time) (model.DailyAggregate, bool) {
	return t.Snapshot().Days.Get(day)
}

func (t *Tracker) CurrentStreak(today time.Time) int {
	s := t.Snapshot()
	return CurrentStreak(s.Days, s.Goals.Calories, today)
}

func (t *Tracker) MonthStats(month, today time.Time) MonthStats {
	s := t.Snapshot()
	return MonthStatsFor(s.Days, s.Goals.Calories, month, today)
}

func (t *Tracker) IsPartOfStreak(day, today time.Time) bool {
	s := t.Snapshot()
	return IsPartOfStreak(day, s.Days, s.Goals.Calories, today)
}

// Subscribe returns a channel that receives a signal after each commit.
// Signals coalesce; callers re-query rather than expect one per commit.
func (t *Tracker) Subscribe() (<-chan struct{}, func()) {
	return t.broadcaster.Subscribe()
}

// Run refreshes once, then on every food log change (forced) and on every
// tick of the refresh interval (throttled). Each trigger starts its own
// recompute so a newer one supersedes whatever is still running.
func (t *Tracker) Run(ctx context.Context) error {
	changes, stop := t.foods.Changes()
	defer stop()

	ticker := time.NewTicker(t.refreshInterval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	refresh := func(force bool) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := t.Refresh(ctx, force); err != nil && ctx.Err() == nil {
				t.log.Error("refresh progress", slog.String("error", err.Error()))
			}
		}()
	}

	refresh(true)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			refresh(true)
		case <-ticker.C:
			refresh(false)
		}
	}
}
