// ABOUTME: Exercise catalogue model.
// ABOUTME: Workouts refer to exercises through ExerciseRef.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseCategory separates strength movements from cardio.
type ExerciseCategory string

const (
	CategoryStrength ExerciseCategory = "strength"
	CategoryCardio   ExerciseCategory = "cardio"
)

// Exercise is a movement that can be added to a workout.
type Exercise struct {
	ID           uuid.UUID        `json:"_id"`
	Name         string           `json:"name" validate:"required"`
	Category     ExerciseCategory `json:"category" validate:"oneof=strength cardio"`
	MuscleGroups []string         `json:"muscle_groups" validate:"min=1"`
	Equipment    string           `json:"equipment,omitempty"`
	CreatedBy    *uuid.UUID       `json:"created_by,omitempty"`
	IsCustom     bool             `json:"is_custom"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewExercise creates an Exercise with generated UUID.
func NewExercise(name string, category ExerciseCategory, muscleGroups ...string) *Exercise {
	return &Exercise{
		ID:           uuid.New(),
		Name:         name,
		Category:     category,
		MuscleGroups: muscleGroups,
		CreatedAt:    time.Now(),
	}
}

// RecordID implements Identified.
func (e *Exercise) RecordID() uuid.UUID { return e.ID }
