// ABOUTME: Unit conversion helpers and food serving snapshots.
// ABOUTME: Everything is stored metric; imperial only matters at the edges.
package calc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

const (
	lbPerKg = 2.20462
	cmPerIn = 2.54
	gPerOz  = 28.3495
	gPerLb  = 453.592
)

// AgeOn returns whole years between dob and now, minus one if the
// birthday has not come round yet this year.
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// KgToLb converts kilograms to pounds.
func KgToLb(kg float64) float64 { return kg * lbPerKg }

// LbToKg converts pounds to kilograms.
func LbToKg(lb float64) float64 { return lb / lbPerKg }

// CmToIn converts centimetres to inches.
func CmToIn(cm float64) float64 { return cm / cmPerIn }

// InToCm converts inches to centimetres.
func InToCm(in float64) float64 { return in * cmPerIn }

// FeetInchesToCm converts a height like 5'11" to centimetres.
func FeetInchesToCm(feet, inches float64) float64 {
	return InToCm(feet*12 + inches)
}

// ToGrams converts an amount in unit to grams. Mass units are built in;
// any other unit must be one of the food's serving sizes.
func ToGrams(amount float64, unit string, food *models.Food) (float64, error) {
	switch strings.ToLower(unit) {
	case "g", "gram", "grams":
		return amount, nil
	case "kg":
		return amount * 1000, nil
	case "mg":
		return amount / 1000, nil
	case "oz":
		return amount * gPerOz, nil
	case "lb", "lbs":
		return amount * gPerLb, nil
	}
	if food != nil {
		for _, s := range food.ServingSizes {
			if strings.EqualFold(s.Unit, unit) {
				return amount * s.Grams, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown serving unit %q", unit)
}

// SnapshotFood computes the nutrition of a serving of food, rounded to
// one decimal place. The result is stored on the meal log as-is.
func SnapshotFood(food *models.Food, size float64, unit string) (models.Nutrition, error) {
	grams, err := ToGrams(size, unit, food)
	if err != nil {
		return models.Nutrition{}, err
	}
	f := grams / 100
	return models.Nutrition{
		Calories: round1(food.CaloriesPer100g * f),
		ProteinG: round1(food.ProteinPer100g * f),
		CarbsG:   round1(food.CarbsPer100g * f),
		FatG:     round1(food.FatPer100g * f),
	}, nil
}

// LogServing builds a meal log for a serving of food eaten at at, with
// the nutrition snapshotted now.
func LogServing(userID uuid.UUID, mealType models.MealType, food *models.Food, size float64, unit string, at time.Time) (*models.MealLog, error) {
	n, err := SnapshotFood(food, size, unit)
	if err != nil {
		return nil, err
	}
	ref := models.Expanded(food.ID, food)
	return models.NewMealLog(userID, mealType, ref, size, unit, n).WithDate(at), nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
