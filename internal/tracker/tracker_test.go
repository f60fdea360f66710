// ABOUTME: Tests for the active-workout tracker.
// ABOUTME: Uses an in-memory store to count persistence writes.
package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("not found")

type memStore struct {
	mu      sync.Mutex
	data    map[uuid.UUID]*models.Workout
	updates int
	fail    error

	// slow delays every write; started is signalled as each write begins.
	slow    time.Duration
	started chan struct{}
}

func newMemStore(ws ...*models.Workout) *memStore {
	s := &memStore{data: make(map[uuid.UUID]*models.Workout)}
	for _, w := range ws {
		s.data[w.ID] = w.Clone()
	}
	return s
}

func (s *memStore) GetWorkout(idOrPrefix string) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := uuid.Parse(idOrPrefix)
	if err != nil {
		return nil, errMissing
	}
	w, ok := s.data[id]
	if !ok {
		return nil, errMissing
	}
	return w.Clone(), nil
}

func (s *memStore) UpdateWorkout(w *models.Workout) error {
	if s.started != nil {
		select {
		case s.started <- struct{}{}:
		default:
		}
	}
	time.Sleep(s.slow)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.updates++
	s.data[w.ID] = w.Clone()
	return nil
}

func (s *memStore) stored(id uuid.UUID) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[id].Clone()
}

func (s *memStore) setFail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *memStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

func liveWorkout(t *testing.T) *models.Workout {
	t.Helper()
	w := models.NewWorkout(uuid.New(), "Push")
	require.NoError(t, w.AddExercise(models.Reference[models.Exercise](uuid.New())))
	for i := 0; i < 3; i++ {
		require.NoError(t, w.AddSet(0, models.WorkoutSet{Reps: 8, WeightKg: 60}))
	}
	return w
}

func TestEditsCollapseIntoOneWrite(t *testing.T) {
	w := liveWorkout(t)
	store := newMemStore(w)
	tr := New(store, 30*time.Millisecond, zerolog.Nop())
	now := time.Now()

	for i := 0; i < 3; i++ {
		_, err := tr.ToggleSet(w.ID.String(), 0, i, now)
		require.NoError(t, err)
	}
	_, err := tr.UpdateSet(w.ID.String(), 0, 2, 6, 70)
	require.NoError(t, err)

	// Reads see the pending state before anything is written.
	got, err := tr.Get(w.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Exercises[0].Sets[2].IsCompleted())
	assert.Equal(t, 0, store.writes())

	assert.Eventually(t, func() bool { return store.writes() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, store.writes())

	saved := store.stored(w.ID)
	assert.Equal(t, 70.0, saved.Exercises[0].Sets[2].WeightKg)
	for _, s := range saved.Exercises[0].Sets {
		assert.True(t, s.IsCompleted())
	}
}

func TestFinishWritesImmediately(t *testing.T) {
	w := liveWorkout(t)
	store := newMemStore(w)
	tr := New(store, time.Hour, zerolog.Nop())

	_, err := tr.ToggleSet(w.ID.String(), 0, 0, time.Now())
	require.NoError(t, err)

	done, err := tr.Finish(context.Background(), w.ID.String(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.StateFinished, done.State())
	assert.Equal(t, 1, store.writes())
	assert.Equal(t, models.StateFinished, store.stored(w.ID).State())
	assert.Equal(t, 0, tr.Active())

	_, err = tr.ToggleSet(w.ID.String(), 0, 1, time.Now())
	assert.ErrorIs(t, err, models.ErrWorkoutFinished)
}

func TestCloseFlushesPending(t *testing.T) {
	w := liveWorkout(t)
	store := newMemStore(w)
	tr := New(store, time.Hour, zerolog.Nop())

	_, err := tr.AddSet(w.ID.String(), 0, models.WorkoutSet{Reps: 5, WeightKg: 80})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Active())

	require.NoError(t, tr.Close(context.Background()))
	assert.Equal(t, 1, store.writes())
	assert.Len(t, store.stored(w.ID).Exercises[0].Sets, 4)
	assert.Equal(t, 0, tr.Active())
}

func TestStateErrorsAreNotSaved(t *testing.T) {
	tmpl := models.NewTemplate(uuid.New(), "Template")
	require.NoError(t, tmpl.AddExercise(models.Reference[models.Exercise](uuid.New())))
	require.NoError(t, tmpl.AddSet(0, models.WorkoutSet{Reps: 5}))
	store := newMemStore(tmpl)
	tr := New(store, time.Hour, zerolog.Nop())

	_, err := tr.ToggleSet(tmpl.ID.String(), 0, 0, time.Now())
	assert.ErrorIs(t, err, models.ErrIsTemplate)

	_, err = tr.ToggleSet(tmpl.ID.String(), 4, 0, time.Now())
	assert.ErrorIs(t, err, models.ErrIndexOutOfRange)

	require.NoError(t, tr.Flush(context.Background()))
	assert.Equal(t, 0, store.writes())
}

func TestUnknownWorkout(t *testing.T) {
	tr := New(newMemStore(), 0, zerolog.Nop())
	_, err := tr.ToggleSet(uuid.New().String(), 0, 0, time.Now())
	assert.ErrorIs(t, err, errMissing)
}

func TestFinishSaveFailureCanRetry(t *testing.T) {
	w := liveWorkout(t)
	store := newMemStore(w)
	tr := New(store, time.Hour, zerolog.Nop())

	_, err := tr.ToggleSet(w.ID.String(), 0, 0, time.Now())
	require.NoError(t, err)

	store.setFail(errors.New("disk full"))
	_, err = tr.Finish(context.Background(), w.ID.String(), time.Now())
	require.Error(t, err)

	got, err := tr.Get(w.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.StateInProgress, got.State())
	assert.Equal(t, models.StateInProgress, store.stored(w.ID).State())
	assert.Equal(t, 1, tr.Active())

	// Still editable after the failed save.
	_, err = tr.ToggleSet(w.ID.String(), 0, 1, time.Now())
	require.NoError(t, err)

	store.setFail(nil)
	done, err := tr.Finish(context.Background(), w.ID.String(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.StateFinished, done.State())

	saved := store.stored(w.ID)
	assert.Equal(t, models.StateFinished, saved.State())
	assert.True(t, saved.Exercises[0].Sets[0].IsCompleted())
	assert.True(t, saved.Exercises[0].Sets[1].IsCompleted())
	assert.Equal(t, 0, tr.Active())
}

func TestFinishLandsAfterRunningAutosave(t *testing.T) {
	w := liveWorkout(t)
	store := newMemStore(w)
	store.slow = 50 * time.Millisecond
	store.started = make(chan struct{}, 1)
	tr := New(store, 5*time.Millisecond, zerolog.Nop())

	_, err := tr.ToggleSet(w.ID.String(), 0, 0, time.Now())
	require.NoError(t, err)

	select {
	case <-store.started:
	case <-time.After(time.Second):
		t.Fatal("autosave never started")
	}

	_, err = tr.Finish(context.Background(), w.ID.String(), time.Now())
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, models.StateFinished, store.stored(w.ID).State())
	assert.Equal(t, 2, store.writes())
}
