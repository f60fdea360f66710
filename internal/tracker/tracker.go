// ABOUTME: Active-workout editor: applies set edits in memory and saves them debounced.
// ABOUTME: Reads see pending edits; Finish and Close write through immediately.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/autosave"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/rs/zerolog"
)

// Store is the slice of storage the tracker needs.
type Store interface {
	GetWorkout(idOrPrefix string) (*models.Workout, error)
	UpdateWorkout(w *models.Workout) error
}

type active struct {
	workout *models.Workout
	saver   *autosave.Debouncer[*models.Workout]
}

// Tracker holds the workouts currently being edited.
type Tracker struct {
	store  Store
	delay  time.Duration
	logger zerolog.Logger

	mu     sync.Mutex
	active map[uuid.UUID]*active
}

// New creates a tracker. A zero delay uses autosave.DefaultDelay.
func New(store Store, delay time.Duration, logger zerolog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		delay:  delay,
		logger: logger.With().Str("component", "tracker").Logger(),
		active: make(map[uuid.UUID]*active),
	}
}

// load returns the in-memory copy of a workout, reading it from the store
// on first use. Callers hold t.mu.
func (t *Tracker) load(idOrPrefix string) (*active, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		if a, ok := t.active[id]; ok {
			return a, nil
		}
	}
	w, err := t.store.GetWorkout(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if a, ok := t.active[w.ID]; ok {
		return a, nil
	}

	a := &active{workout: w}
	id := w.ID
	a.saver = autosave.New(
		func(_ context.Context, w *models.Workout) error { return t.store.UpdateWorkout(w) },
		autosave.WithDelay[*models.Workout](t.delay),
		autosave.WithErrorHandler[*models.Workout](func(err error) {
			t.logger.Error().Err(err).Str("workout_id", id.String()).Msg("autosave failed")
		}),
	)
	t.active[w.ID] = a
	return a, nil
}

// edit applies fn to the workout and schedules a save of the result.
func (t *Tracker) edit(idOrPrefix string, fn func(w *models.Workout) error) (*models.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, err := t.load(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if err := fn(a.workout); err != nil {
		return nil, err
	}
	a.saver.Schedule(a.workout.Clone())
	t.logger.Debug().Str("workout_id", a.workout.ID.String()).Msg("edit scheduled")
	return a.workout.Clone(), nil
}

// Get returns the workout including any unsaved edits.
func (t *Tracker) Get(idOrPrefix string) (*models.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, err := uuid.Parse(idOrPrefix); err == nil {
		if a, ok := t.active[id]; ok {
			return a.workout.Clone(), nil
		}
	}
	return t.store.GetWorkout(idOrPrefix)
}

// AddExercise appends an exercise to the workout.
func (t *Tracker) AddExercise(idOrPrefix string, ref models.ExerciseRef) (*models.Workout, error) {
	return t.edit(idOrPrefix, func(w *models.Workout) error {
		return w.AddExercise(ref.Collapse())
	})
}

// AddSet appends a set to one of the workout's exercises.
func (t *Tracker) AddSet(idOrPrefix string, exIdx int, set models.WorkoutSet) (*models.Workout, error) {
	return t.edit(idOrPrefix, func(w *models.Workout) error {
		return w.AddSet(exIdx, set)
	})
}

// UpdateSet changes a set's reps and weight.
func (t *Tracker) UpdateSet(idOrPrefix string, exIdx, setIdx, reps int, weightKg float64) (*models.Workout, error) {
	return t.edit(idOrPrefix, func(w *models.Workout) error {
		return w.UpdateSet(exIdx, setIdx, reps, weightKg)
	})
}

// ToggleSet flips a set between done and not done.
func (t *Tracker) ToggleSet(idOrPrefix string, exIdx, setIdx int, now time.Time) (*models.Workout, error) {
	return t.edit(idOrPrefix, func(w *models.Workout) error {
		return w.ToggleSet(exIdx, setIdx, now)
	})
}

// Finish ends the workout and saves it immediately. If the save fails the
// workout stays active and unfinished so the caller can retry.
func (t *Tracker) Finish(ctx context.Context, idOrPrefix string, now time.Time) (*models.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, err := t.load(idOrPrefix)
	if err != nil {
		return nil, err
	}
	done := a.workout.Clone()
	if err := done.Finish(now); err != nil {
		return nil, err
	}
	a.saver.Schedule(done.Clone())
	if err := a.saver.Flush(ctx); err != nil {
		// Keep the unsaved edits queued.
		a.saver.Schedule(a.workout.Clone())
		return nil, fmt.Errorf("save finished workout: %w", err)
	}
	if err := a.saver.Close(ctx); err != nil {
		return nil, fmt.Errorf("save finished workout: %w", err)
	}
	a.workout = done
	delete(t.active, done.ID)
	t.logger.Info().Str("workout_id", done.ID.String()).Msg("workout finished")
	return done.Clone(), nil
}

// Flush writes every pending edit now.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	for _, a := range t.active {
		if err := a.saver.Flush(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flush workout %s: %w", a.workout.ID, err)
		}
	}
	return firstErr
}

// Close flushes pending edits and forgets every active workout.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	for id, a := range t.active {
		if err := a.saver.Close(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close workout %s: %w", id, err)
		}
		delete(t.active, id)
	}
	return firstErr
}

// Active reports how many workouts have in-memory state.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}
