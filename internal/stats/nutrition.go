// ABOUTME: Daily nutrition, water and step totals plus percent-of-goal.
// ABOUTME: Bad numbers in the inputs count as zero; nothing here fails.
package stats

import (
	"math"
	"time"

	"github.com/harperreed/fitlog/internal/models"
)

// clean maps NaN, infinities and negatives to zero.
func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func cleanNutrition(n models.Nutrition) models.Nutrition {
	return models.Nutrition{
		Calories: clean(n.Calories),
		ProteinG: clean(n.ProteinG),
		CarbsG:   clean(n.CarbsG),
		FatG:     clean(n.FatG),
	}
}

// MealNutrition returns a meal's nutrition. Composite meals use the sum
// of their items.
func MealNutrition(m *models.MealLog) models.Nutrition {
	if len(m.Items) == 0 {
		return cleanNutrition(m.Nutrition)
	}
	var sum models.Nutrition
	for _, it := range m.Items {
		sum = sum.Add(cleanNutrition(it.Nutrition))
	}
	return sum
}

// DailyTotals sums the nutrition of meals logged on day's calendar date.
func DailyTotals(meals []*models.MealLog, day time.Time) models.Nutrition {
	var total models.Nutrition
	for _, m := range meals {
		if m == nil || !SameDay(m.Date, day, day.Location()) {
			continue
		}
		total = total.Add(MealNutrition(m))
	}
	return total
}

// WaterTotal sums millilitres drunk on day's calendar date.
func WaterTotal(logs []*models.WaterLog, day time.Time) int {
	total := 0
	for _, l := range logs {
		if l != nil && l.AmountMl > 0 && SameDay(l.Date, day, day.Location()) {
			total += l.AmountMl
		}
	}
	return total
}

// StepTotal returns the steps recorded for day's calendar date.
func StepTotal(logs []*models.StepLog, day time.Time) int {
	total := 0
	for _, l := range logs {
		if l != nil && l.Steps > 0 && SameDay(l.Date, day, day.Location()) {
			total += l.Steps
		}
	}
	return total
}

// PercentOf returns value as a whole-number percentage of target. It is
// not capped at 100; a non-positive target gives 0.
func PercentOf(value, target float64) int {
	value, target = clean(value), clean(target)
	if target == 0 {
		return 0
	}
	return int(math.Round(value / target * 100))
}

// DaySummary is a day's intake measured against the current goal.
type DaySummary struct {
	Date      string           `json:"date"`
	Consumed  models.Nutrition `json:"consumed"`
	WaterMl   int              `json:"water_ml"`
	Steps     int              `json:"steps"`
	Target    *models.Goal     `json:"target,omitempty"`
	Remaining int              `json:"remaining_calories"`
	Percent   map[string]int   `json:"percent_of_goal,omitempty"`
}

// Summarize builds the summary for day. goal may be nil.
func Summarize(day time.Time, goal *models.Goal, meals []*models.MealLog, water []*models.WaterLog, steps []*models.StepLog) DaySummary {
	s := DaySummary{
		Date:     day.Format("2006-01-02"),
		Consumed: DailyTotals(meals, day),
		WaterMl:  WaterTotal(water, day),
		Steps:    StepTotal(steps, day),
		Target:   goal,
	}
	if goal != nil {
		s.Remaining = goal.CalorieTarget - int(math.Round(s.Consumed.Calories))
		s.Percent = map[string]int{
			"calories": PercentOf(s.Consumed.Calories, float64(goal.CalorieTarget)),
			"protein":  PercentOf(s.Consumed.ProteinG, float64(goal.ProteinG)),
			"carbs":    PercentOf(s.Consumed.CarbsG, float64(goal.CarbsG)),
			"fat":      PercentOf(s.Consumed.FatG, float64(goal.FatG)),
		}
	}
	return s
}
