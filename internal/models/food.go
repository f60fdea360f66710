// ABOUTME: Food catalogue and meal log models.
// ABOUTME: Meal logs snapshot nutrition at log time and never recompute it from the food.
package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodSource records where a food definition came from.
type FoodSource string

const (
	FoodSourceUSDA          FoodSource = "usda"
	FoodSourceOpenFoodFacts FoodSource = "open_food_facts"
	FoodSourceCustom        FoodSource = "custom"
)

// ServingSize maps a named serving to its weight in grams.
type ServingSize struct {
	Unit  string  `json:"unit" validate:"required"`
	Grams float64 `json:"grams" validate:"gt=0"`
	Label string  `json:"label,omitempty"`
}

// Food holds per-100g nutrition for a food.
type Food struct {
	ID              uuid.UUID     `json:"_id"`
	Name            string        `json:"name" validate:"required"`
	Brand           string        `json:"brand,omitempty"`
	Barcode         string        `json:"barcode,omitempty"`
	CaloriesPer100g float64       `json:"calories_per_100g" validate:"gte=0"`
	ProteinPer100g  float64       `json:"protein_per_100g" validate:"gte=0"`
	CarbsPer100g    float64       `json:"carbs_per_100g" validate:"gte=0"`
	FatPer100g      float64       `json:"fat_per_100g" validate:"gte=0"`
	ServingSizes    []ServingSize `json:"serving_sizes,omitempty" validate:"dive"`
	Source          FoodSource    `json:"source" validate:"oneof=usda open_food_facts custom"`
	UserID          *uuid.UUID    `json:"user_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// VisibleTo reports whether userID may use the food. Foods without an
// owner are shared.
func (f *Food) VisibleTo(userID uuid.UUID) bool {
	return f.UserID == nil || *f.UserID == userID
}

// NewFood creates a custom Food with generated UUID.
func NewFood(name string, calories, protein, carbs, fat float64) *Food {
	return &Food{
		ID:              uuid.New(),
		Name:            name,
		CaloriesPer100g: calories,
		ProteinPer100g:  protein,
		CarbsPer100g:    carbs,
		FatPer100g:      fat,
		Source:          FoodSourceCustom,
		CreatedAt:       time.Now(),
	}
}

// RecordID implements Identified.
func (f *Food) RecordID() uuid.UUID { return f.ID }

// MealType is the slot of the day a meal belongs to.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// IsValidMealType checks if a string names a meal slot.
func IsValidMealType(s string) bool {
	switch MealType(s) {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Nutrition is a calorie and macro snapshot.
type Nutrition struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	ProteinG float64 `json:"protein_g" validate:"gte=0"`
	CarbsG   float64 `json:"carbs_g" validate:"gte=0"`
	FatG     float64 `json:"fat_g" validate:"gte=0"`
}

// Add returns the element-wise sum of two snapshots.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		ProteinG: n.ProteinG + o.ProteinG,
		CarbsG:   n.CarbsG + o.CarbsG,
		FatG:     n.FatG + o.FatG,
	}
}

// MealItem is one component of a composite meal.
type MealItem struct {
	Name string `json:"name"`
	Nutrition
}

// MealLog is a logged serving of a food.
type MealLog struct {
	ID          uuid.UUID  `json:"_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Date        time.Time  `json:"date"`
	MealType    MealType   `json:"meal_type" validate:"oneof=breakfast lunch dinner snack"`
	Food        FoodRef    `json:"food_id"`
	ServingSize float64    `json:"serving_size" validate:"gte=0.01"`
	ServingUnit string     `json:"serving_unit" validate:"required"`
	Items       []MealItem `json:"items,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Nutrition
}

// NewMealLog creates a meal log with the given nutrition snapshot.
func NewMealLog(userID uuid.UUID, mealType MealType, food FoodRef, size float64, unit string, n Nutrition) *MealLog {
	now := time.Now()
	return &MealLog{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        now,
		MealType:    mealType,
		Food:        food,
		ServingSize: size,
		ServingUnit: unit,
		Nutrition:   n,
		CreatedAt:   now,
	}
}

// WithDate sets the day the meal is logged against.
func (m *MealLog) WithDate(t time.Time) *MealLog {
	m.Date = t
	return m
}
