// ABOUTME: Nutrition goal model plus the ActivityLevel and GoalType enums.
// ABOUTME: One current goal per user; saving a new goal replaces the old one.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLevel describes how active a user is day to day.
type ActivityLevel string

const (
	ActivitySedentary   ActivityLevel = "sedentary"
	ActivityLight       ActivityLevel = "light"
	ActivityModerate    ActivityLevel = "moderate"
	ActivityVeryActive  ActivityLevel = "very_active"
	ActivityExtraActive ActivityLevel = "extra_active"
)

// AllActivityLevels lists activity levels from least to most active.
var AllActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLight, ActivityModerate, ActivityVeryActive, ActivityExtraActive,
}

// IsValidActivityLevel checks if a string names a known activity level.
func IsValidActivityLevel(s string) bool {
	for _, l := range AllActivityLevels {
		if string(l) == s {
			return true
		}
	}
	return false
}

// GoalType is the direction of the user's weight goal.
type GoalType string

const (
	GoalLose     GoalType = "lose"
	GoalMaintain GoalType = "maintain"
	GoalGain     GoalType = "gain"
)

// IsValidGoalType checks if a string names a known goal type.
func IsValidGoalType(s string) bool {
	switch GoalType(s) {
	case GoalLose, GoalMaintain, GoalGain:
		return true
	}
	return false
}

// Goal is a user's current calorie and macro targets.
type Goal struct {
	ID            uuid.UUID     `json:"_id"`
	UserID        uuid.UUID     `json:"user_id"`
	GoalType      GoalType      `json:"goal_type" validate:"oneof=lose maintain gain"`
	CalorieTarget int           `json:"calorie_target" validate:"gte=0"`
	ProteinG      int           `json:"protein_g" validate:"gte=0"`
	CarbsG        int           `json:"carbs_g" validate:"gte=0"`
	FatG          int           `json:"fat_g" validate:"gte=0"`
	WeightGoalKg  *float64      `json:"weight_goal_kg,omitempty" validate:"omitempty,gte=20,lte=500"`
	ActivityLevel ActivityLevel `json:"activity_level" validate:"oneof=sedentary light moderate very_active extra_active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewGoal creates a Goal for a user with generated UUID and timestamps.
func NewGoal(userID uuid.UUID, goalType GoalType, level ActivityLevel) *Goal {
	now := time.Now()
	return &Goal{
		ID:            uuid.New(),
		UserID:        userID,
		GoalType:      goalType,
		ActivityLevel: level,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
