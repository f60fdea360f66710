// ABOUTME: Mifflin-St Jeor BMR and activity-scaled TDEE.
// ABOUTME: Incomplete or nonsensical profiles fall back to a fixed 2400 kcal.
package calc

import (
	"math"
	"time"

	"github.com/harperreed/fitlog/internal/models"
)

// FallbackTDEE is returned when the profile can't produce a real estimate.
const FallbackTDEE = 2400

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:   1.2,
	models.ActivityLight:       1.375,
	models.ActivityModerate:    1.55,
	models.ActivityVeryActive:  1.725,
	models.ActivityExtraActive: 1.9,
}

// Multiplier returns the TDEE multiplier for level. Unknown levels are
// treated as moderate.
func Multiplier(level models.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[models.ActivityModerate]
}

// BMR returns basal metabolic rate in kcal/day. ok is false when the
// profile is incomplete.
func BMR(p models.Profile, now time.Time) (bmr float64, ok bool) {
	if !p.Complete() {
		return 0, false
	}
	age := AgeOn(p.DateOfBirth, now)
	if age < 0 {
		return 0, false
	}
	bmr = 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(age)
	if p.Gender == models.GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr, true
}

// TDEE returns round(BMR × activity multiplier), or FallbackTDEE when the
// profile is incomplete or yields a non-positive BMR.
func TDEE(p models.Profile, level models.ActivityLevel, now time.Time) int {
	bmr, ok := BMR(p, now)
	if !ok || bmr <= 0 {
		return FallbackTDEE
	}
	return int(math.Round(bmr * Multiplier(level)))
}
