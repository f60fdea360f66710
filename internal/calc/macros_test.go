// ABOUTME: Tests for the goal-type calorie adjustment and macro split.
// ABOUTME: Includes the lose-from-2400 reference case and rounding bounds.
package calc

import (
	"math"
	"testing"
	"time"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMacros(t *testing.T) {
	tests := []struct {
		goal     models.GoalType
		calories int
		want     MacroGrams
	}{
		{models.GoalLose, 2040, MacroGrams{179, 179, 68}},
		{models.GoalMaintain, 2000, MacroGrams{150, 200, 67}},
		{models.GoalGain, 2640, MacroGrams{198, 297, 73}},
		{models.GoalType("bulk"), 2000, MacroGrams{150, 200, 67}},
		{models.GoalLose, 0, MacroGrams{}},
		{models.GoalLose, -500, MacroGrams{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.goal), func(t *testing.T) {
			assert.Equal(t, tt.want, Macros(tt.goal, tt.calories))
		})
	}
}

func TestMacrosCalorieEquivalent(t *testing.T) {
	// Each gram value is off by at most half a gram.
	const bound = 0.5*kcalPerGramProtein + 0.5*kcalPerGramCarbs + 0.5*kcalPerGramFat
	for _, g := range []models.GoalType{models.GoalLose, models.GoalMaintain, models.GoalGain} {
		for cal := 1200; cal <= 4000; cal += 7 {
			m := Macros(g, cal)
			if m.ProteinG < 0 || m.CarbsG < 0 || m.FatG < 0 {
				t.Fatalf("negative macros for %s/%d: %+v", g, cal, m)
			}
			kcal := m.ProteinG*4 + m.CarbsG*4 + m.FatG*9
			if diff := math.Abs(float64(kcal - cal)); diff > bound {
				t.Fatalf("%s/%d: macros sum to %d kcal", g, cal, kcal)
			}
		}
	}
}

func TestPlanGoalLoseFrom2400(t *testing.T) {
	p := PlanGoal(models.GoalLose, models.ActivityModerate, 2400)

	assert.Equal(t, 2400, p.TDEE)
	assert.Equal(t, 2040, p.CalorieTarget)
	assert.Equal(t, MacroGrams{ProteinG: 179, CarbsG: 179, FatG: 68}, p.MacroGrams)
}

func TestAdjustCalories(t *testing.T) {
	assert.Equal(t, 2040, AdjustCalories(models.GoalLose, 2400))
	assert.Equal(t, 2400, AdjustCalories(models.GoalMaintain, 2400))
	assert.Equal(t, 2640, AdjustCalories(models.GoalGain, 2400))
	assert.Equal(t, 2400, AdjustCalories(models.GoalType("other"), 2400))
}

func TestWithCaloriesDoesNotReadjust(t *testing.T) {
	p := PlanGoal(models.GoalLose, models.ActivityLight, 2400).WithCalories(1800)

	assert.Equal(t, 1800, p.CalorieTarget)
	assert.Equal(t, Macros(models.GoalLose, 1800), p.MacroGrams)
	assert.Equal(t, 2400, p.TDEE)
}

func TestApplyTo(t *testing.T) {
	g := &models.Goal{}
	PlanGoal(models.GoalGain, models.ActivityVeryActive, 2400).ApplyTo(g)

	assert.Equal(t, models.GoalGain, g.GoalType)
	assert.Equal(t, models.ActivityVeryActive, g.ActivityLevel)
	assert.Equal(t, 2640, g.CalorieTarget)
	assert.Equal(t, 198, g.ProteinG)
}

func TestMacroShares(t *testing.T) {
	s := MacroShares(PlanGoal(models.GoalMaintain, models.ActivityModerate, 2000))
	assert.Equal(t, Shares{ProteinPct: 30, CarbsPct: 40, FatPct: 30}, s)

	assert.Equal(t, Shares{}, MacroShares(Plan{}))
}

func TestPlanForProfile(t *testing.T) {
	now := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

	p := PlanForProfile(models.Profile{}, models.GoalLose, models.ActivityModerate, now)
	assert.Equal(t, FallbackTDEE, p.TDEE)
	assert.Equal(t, 2040, p.CalorieTarget)
}
