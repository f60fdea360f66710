// ABOUTME: Daily activity logs: steps, water intake, and body measurements.
// ABOUTME: Step logs are one per user per day; water and body logs accumulate.
package models

import (
	"time"

	"github.com/google/uuid"
)

// StepSource records how a step count was captured.
type StepSource string

const (
	StepsManual StepSource = "manual"
	StepsDevice StepSource = "device"
	StepsSynced StepSource = "synced"
)

// StepLog is the step count for one day.
type StepLog struct {
	ID             uuid.UUID  `json:"_id"`
	UserID         uuid.UUID  `json:"user_id"`
	Date           time.Time  `json:"date"`
	Steps          int        `json:"steps" validate:"gte=0"`
	DistanceKm     *float64   `json:"distance_km,omitempty" validate:"omitempty,gte=0"`
	CaloriesBurned *float64   `json:"calories_burned,omitempty" validate:"omitempty,gte=0"`
	Source         StepSource `json:"source" validate:"oneof=manual device synced"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewStepLog creates a manual step log for the given day.
func NewStepLog(userID uuid.UUID, day time.Time, steps int) *StepLog {
	now := time.Now()
	return &StepLog{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      day,
		Steps:     steps,
		Source:    StepsManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WaterLog is a single drink.
type WaterLog struct {
	ID        uuid.UUID `json:"_id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      time.Time `json:"date"`
	AmountMl  int       `json:"amount_ml" validate:"gte=1,lte=10000"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWaterLog creates a water log recorded now.
func NewWaterLog(userID uuid.UUID, amountMl int) *WaterLog {
	now := time.Now()
	return &WaterLog{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      now,
		AmountMl:  amountMl,
		CreatedAt: now,
	}
}

// BodyMetrics is a body measurement snapshot.
type BodyMetrics struct {
	ID         uuid.UUID `json:"_id"`
	UserID     uuid.UUID `json:"user_id"`
	RecordedAt time.Time `json:"recorded_at"`
	WeightKg   float64   `json:"weight_kg" validate:"gte=20,lte=500"`
	BodyFatPct *float64  `json:"body_fat_pct,omitempty" validate:"omitempty,gte=0,lte=100"`
	WaistCm    *float64  `json:"waist_cm,omitempty" validate:"omitempty,gte=0"`
	ChestCm    *float64  `json:"chest_cm,omitempty" validate:"omitempty,gte=0"`
	ArmsCm     *float64  `json:"arms_cm,omitempty" validate:"omitempty,gte=0"`
	Notes      *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewBodyMetrics creates a body measurement recorded now.
func NewBodyMetrics(userID uuid.UUID, weightKg float64) *BodyMetrics {
	now := time.Now()
	return &BodyMetrics{
		ID:         uuid.New(),
		UserID:     userID,
		RecordedAt: now,
		WeightKg:   weightKg,
		CreatedAt:  now,
	}
}

// WithNotes sets notes on the measurement.
func (b *BodyMetrics) WithNotes(notes string) *BodyMetrics {
	b.Notes = &notes
	return b
}
