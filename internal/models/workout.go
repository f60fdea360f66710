// ABOUTME: Workout sessions, templates, exercises and sets, plus the session state machine.
// ABOUTME: Draft -> InProgress -> Finished; templates sit in a separate terminal state.
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// WorkoutState is the lifecycle position of a workout.
type WorkoutState string

const (
	StateDraft      WorkoutState = "draft"
	StateInProgress WorkoutState = "in_progress"
	StateFinished   WorkoutState = "finished"
	StateTemplate   WorkoutState = "template"
)

var (
	ErrWorkoutFinished = errors.New("workout is already finished")
	ErrNotInProgress   = errors.New("workout has no exercises yet")
	ErrIsTemplate      = errors.New("operation not allowed on a template")
	ErrNotTemplate     = errors.New("workout is not a template")
	ErrIndexOutOfRange = errors.New("exercise or set index out of range")
)

// WorkoutSet is one set of an exercise.
type WorkoutSet struct {
	SetNumber   int        `json:"set_number"`
	Reps        int        `json:"reps" validate:"gte=0"`
	WeightKg    float64    `json:"weight_kg" validate:"gte=0"`
	DurationS   *int       `json:"duration_s,omitempty" validate:"omitempty,gte=0"`
	DistanceM   *float64   `json:"distance_m,omitempty" validate:"omitempty,gte=0"`
	IsWarmup    bool       `json:"is_warmup"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsCompleted reports whether the set has been ticked off.
func (s WorkoutSet) IsCompleted() bool {
	return s.CompletedAt != nil
}

// IsWorking reports whether the set counts toward volume and streaks:
// completed and not a warmup.
func (s WorkoutSet) IsWorking() bool {
	return s.IsCompleted() && !s.IsWarmup
}

// WorkoutExercise is an exercise slot within a workout.
type WorkoutExercise struct {
	Exercise   ExerciseRef  `json:"exercise_id"`
	OrderIndex int          `json:"order_index"`
	Sets       []WorkoutSet `json:"sets"`
	Notes      string       `json:"notes,omitempty"`
}

// Workout is a logged session or, with IsTemplate set, a reusable template.
type Workout struct {
	ID         uuid.UUID         `json:"_id"`
	UserID     uuid.UUID         `json:"user_id"`
	Name       string            `json:"name" validate:"required"`
	StartedAt  time.Time         `json:"started_at"`
	EndedAt    *time.Time        `json:"ended_at,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
	IsTemplate bool              `json:"is_template"`
	TemplateID *uuid.UUID        `json:"template_id,omitempty"`
	Exercises  []WorkoutExercise `json:"exercises"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewWorkout creates an empty draft session starting now.
func NewWorkout(userID uuid.UUID, name string) *Workout {
	now := time.Now()
	return &Workout{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTemplate creates an empty workout template.
func NewTemplate(userID uuid.UUID, name string) *Workout {
	w := NewWorkout(userID, name)
	w.IsTemplate = true
	return w
}

// WithStartedAt sets a custom start timestamp.
func (w *Workout) WithStartedAt(t time.Time) *Workout {
	w.StartedAt = t
	return w
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = &notes
	return w
}

// State derives the lifecycle state from the workout's fields.
func (w *Workout) State() WorkoutState {
	switch {
	case w.IsTemplate:
		return StateTemplate
	case w.EndedAt != nil:
		return StateFinished
	case len(w.Exercises) > 0:
		return StateInProgress
	default:
		return StateDraft
	}
}

// AddExercise appends an exercise slot. Templates accept exercises too.
func (w *Workout) AddExercise(ref ExerciseRef) error {
	if w.State() == StateFinished {
		return ErrWorkoutFinished
	}
	w.Exercises = append(w.Exercises, WorkoutExercise{
		Exercise:   ref,
		OrderIndex: len(w.Exercises),
		Sets:       []WorkoutSet{},
	})
	return nil
}

// AddSet appends a set to an exercise and numbers it.
func (w *Workout) AddSet(exIdx int, set WorkoutSet) error {
	if w.State() == StateFinished {
		return ErrWorkoutFinished
	}
	if exIdx < 0 || exIdx >= len(w.Exercises) {
		return ErrIndexOutOfRange
	}
	if w.IsTemplate {
		set.CompletedAt = nil
	}
	ex := &w.Exercises[exIdx]
	set.SetNumber = len(ex.Sets) + 1
	ex.Sets = append(ex.Sets, set)
	return nil
}

// UpdateSet replaces reps and weight on an existing set.
func (w *Workout) UpdateSet(exIdx, setIdx, reps int, weightKg float64) error {
	set, err := w.set(exIdx, setIdx)
	if err != nil {
		return err
	}
	set.Reps = reps
	set.WeightKg = weightKg
	return nil
}

// ToggleSet marks an incomplete set complete at now, or clears a completed one.
func (w *Workout) ToggleSet(exIdx, setIdx int, now time.Time) error {
	if w.IsTemplate {
		return ErrIsTemplate
	}
	set, err := w.set(exIdx, setIdx)
	if err != nil {
		return err
	}
	if set.CompletedAt != nil {
		set.CompletedAt = nil
	} else {
		t := now
		set.CompletedAt = &t
	}
	return nil
}

// Finish ends an in-progress session. There is no way back.
func (w *Workout) Finish(now time.Time) error {
	switch w.State() {
	case StateTemplate:
		return ErrIsTemplate
	case StateFinished:
		return ErrWorkoutFinished
	case StateDraft:
		return ErrNotInProgress
	}
	t := now
	w.EndedAt = &t
	return nil
}

// StartFromTemplate creates a new session that clones the template's exercises
// with every set reset to incomplete.
func StartFromTemplate(tmpl *Workout, now time.Time) (*Workout, error) {
	if !tmpl.IsTemplate {
		return nil, ErrNotTemplate
	}
	w := NewWorkout(tmpl.UserID, tmpl.Name).WithStartedAt(now)
	id := tmpl.ID
	w.TemplateID = &id
	w.Exercises = cloneExercises(tmpl.Exercises)
	return w, nil
}

// SaveAsTemplate copies a session's exercise plan into a new template.
func (w *Workout) SaveAsTemplate(name string) *Workout {
	tmpl := NewTemplate(w.UserID, name)
	tmpl.Exercises = cloneExercises(w.Exercises)
	return tmpl
}

func (w *Workout) set(exIdx, setIdx int) (*WorkoutSet, error) {
	if w.State() == StateFinished {
		return nil, ErrWorkoutFinished
	}
	if exIdx < 0 || exIdx >= len(w.Exercises) {
		return nil, ErrIndexOutOfRange
	}
	sets := w.Exercises[exIdx].Sets
	if setIdx < 0 || setIdx >= len(sets) {
		return nil, ErrIndexOutOfRange
	}
	return &sets[setIdx], nil
}

// cloneExercises deep-copies exercises with sets reset to incomplete.
func cloneExercises(src []WorkoutExercise) []WorkoutExercise {
	out := make([]WorkoutExercise, len(src))
	for i, ex := range src {
		sets := make([]WorkoutSet, len(ex.Sets))
		for j, s := range ex.Sets {
			s.CompletedAt = nil
			sets[j] = s
		}
		out[i] = WorkoutExercise{
			Exercise:   ex.Exercise,
			OrderIndex: i,
			Sets:       sets,
			Notes:      ex.Notes,
		}
	}
	return out
}

// Clone returns a deep copy that shares no slices with w.
func (w *Workout) Clone() *Workout {
	c := *w
	c.Exercises = make([]WorkoutExercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		sets := make([]WorkoutSet, len(ex.Sets))
		copy(sets, ex.Sets)
		ex.Sets = sets
		c.Exercises[i] = ex
	}
	return &c
}
