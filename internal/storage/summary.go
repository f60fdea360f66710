// ABOUTME: Read helpers that load a user's records and hand them to the stats package.
// ABOUTME: Shared by the CLI, the REST API and the MCP server.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/stats"
)

// Summarize loads everything logged on day and summarises it against the
// user's current goal, if any.
func Summarize(r Repository, userID uuid.UUID, day time.Time) (stats.DaySummary, error) {
	rng := DayRange(day)
	goal, err := r.GetGoal(userID)
	if errors.Is(err, ErrNotFound) {
		goal = nil
	} else if err != nil {
		return stats.DaySummary{}, fmt.Errorf("get goal: %w", err)
	}
	meals, err := r.ListMeals(userID, rng)
	if err != nil {
		return stats.DaySummary{}, fmt.Errorf("list meals: %w", err)
	}
	water, err := r.ListWater(userID, rng)
	if err != nil {
		return stats.DaySummary{}, fmt.Errorf("list water logs: %w", err)
	}
	steps, err := r.ListSteps(userID, rng)
	if err != nil {
		return stats.DaySummary{}, fmt.Errorf("list steps: %w", err)
	}
	return stats.Summarize(day, goal, meals, water, steps), nil
}

// WorkoutStats computes streak and weekly volume over the user's sessions.
func WorkoutStats(r Repository, userID uuid.UUID, now time.Time) (stats.WorkoutStats, error) {
	sessions, err := r.ListWorkouts(userID, WorkoutFilter{})
	if err != nil {
		return stats.WorkoutStats{}, fmt.Errorf("list workouts: %w", err)
	}
	return stats.ComputeWorkoutStats(sessions, now), nil
}

// LastPerformed finds the most recent session started from template and
// labels it relative to now ("Never" when there is none).
func LastPerformed(r Repository, template *models.Workout, now time.Time) (*models.Workout, string, error) {
	id := template.ID
	sessions, err := r.ListWorkouts(template.UserID, WorkoutFilter{TemplateID: &id})
	if err != nil {
		return nil, "", fmt.Errorf("list workouts: %w", err)
	}
	last, _ := stats.LastPerformed(template, sessions)
	return last, stats.LastPerformedLabel(template, sessions, now), nil
}
