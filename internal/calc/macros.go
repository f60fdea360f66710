// ABOUTME: Goal-type calorie adjustment and macro split.
// ABOUTME: Turns a TDEE into a calorie target with protein/carb/fat grams.
package calc

import (
	"math"
	"time"

	"github.com/harperreed/fitlog/internal/models"
)

const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

type split struct{ protein, carbs, fat float64 }

var macroSplits = map[models.GoalType]split{
	models.GoalLose:     {0.35, 0.35, 0.30},
	models.GoalMaintain: {0.30, 0.40, 0.30},
	models.GoalGain:     {0.30, 0.45, 0.25},
}

var calorieAdjust = map[models.GoalType]float64{
	models.GoalLose:     0.85,
	models.GoalMaintain: 1.0,
	models.GoalGain:     1.10,
}

func splitFor(goalType models.GoalType) split {
	if s, ok := macroSplits[goalType]; ok {
		return s
	}
	return macroSplits[models.GoalMaintain]
}

// MacroGrams is a macro target in grams.
type MacroGrams struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// Macros splits calories by the goal type's ratios. Unknown goal types use
// the maintain split; negative calories count as zero.
func Macros(goalType models.GoalType, calories int) MacroGrams {
	c := float64(max(calories, 0))
	s := splitFor(goalType)
	return MacroGrams{
		ProteinG: int(math.Round(c * s.protein / kcalPerGramProtein)),
		CarbsG:   int(math.Round(c * s.carbs / kcalPerGramCarbs)),
		FatG:     int(math.Round(c * s.fat / kcalPerGramFat)),
	}
}

// AdjustCalories applies the goal type's deficit or surplus to tdee.
func AdjustCalories(goalType models.GoalType, tdee int) int {
	f, ok := calorieAdjust[goalType]
	if !ok {
		f = 1.0
	}
	return int(math.Round(float64(max(tdee, 0)) * f))
}

// Plan is a derived nutrition goal.
type Plan struct {
	GoalType      models.GoalType      `json:"goal_type"`
	ActivityLevel models.ActivityLevel `json:"activity_level"`
	TDEE          int                  `json:"tdee"`
	CalorieTarget int                  `json:"calorie_target"`
	MacroGrams
}

// PlanGoal derives a plan from tdee. The goal type's adjustment is
// applied here, once.
func PlanGoal(goalType models.GoalType, level models.ActivityLevel, tdee int) Plan {
	cal := AdjustCalories(goalType, tdee)
	return Plan{
		GoalType:      goalType,
		ActivityLevel: level,
		TDEE:          tdee,
		CalorieTarget: cal,
		MacroGrams:    Macros(goalType, cal),
	}
}

// WithCalories returns the plan re-split at a hand-picked calorie target.
// The target is taken as-is.
func (p Plan) WithCalories(calories int) Plan {
	p.CalorieTarget = max(calories, 0)
	p.MacroGrams = Macros(p.GoalType, p.CalorieTarget)
	return p
}

// ApplyTo copies the plan onto a stored goal.
func (p Plan) ApplyTo(g *models.Goal) {
	g.GoalType = p.GoalType
	g.ActivityLevel = p.ActivityLevel
	g.CalorieTarget = p.CalorieTarget
	g.ProteinG = p.ProteinG
	g.CarbsG = p.CarbsG
	g.FatG = p.FatG
}

// Shares is the percentage of calories each macro contributes.
type Shares struct {
	ProteinPct int `json:"protein_pct"`
	CarbsPct   int `json:"carbs_pct"`
	FatPct     int `json:"fat_pct"`
}

// MacroShares reports each macro's share of the plan's calorie target.
func MacroShares(p Plan) Shares {
	if p.CalorieTarget <= 0 {
		return Shares{}
	}
	pct := func(g, kcal int) int {
		return int(math.Round(float64(g*kcal) / float64(p.CalorieTarget) * 100))
	}
	return Shares{
		ProteinPct: pct(p.ProteinG, kcalPerGramProtein),
		CarbsPct:   pct(p.CarbsG, kcalPerGramCarbs),
		FatPct:     pct(p.FatG, kcalPerGramFat),
	}
}

// PlanForProfile derives a plan from the profile's TDEE at level.
func PlanForProfile(p models.Profile, goalType models.GoalType, level models.ActivityLevel, now time.Time) Plan {
	return PlanGoal(goalType, level, TDEE(p, level, now))
}
