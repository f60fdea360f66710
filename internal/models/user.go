// ABOUTME: User model and the Profile projection used by the energy calculator.
// ABOUTME: Heights and weights are stored metric; Units only drives display and input.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the self-reported gender used by the BMR equation.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// UnitSystem selects how heights and weights are entered and displayed.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// User is an account together with its body profile.
type User struct {
	ID                  uuid.UUID  `json:"_id"`
	Email               string     `json:"email" validate:"omitempty,email"`
	Name                string     `json:"name"`
	HeightCm            *float64   `json:"height,omitempty" validate:"omitempty,gte=50,lte=300"`
	WeightKg            *float64   `json:"weight_kg,omitempty" validate:"omitempty,gte=20,lte=500"`
	DateOfBirth         *time.Time `json:"date_of_birth,omitempty"`
	Gender              *Gender    `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Units               UnitSystem `json:"units" validate:"oneof=metric imperial"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewUser creates a User with a generated UUID and metric units.
func NewUser(name string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Name:      name,
		Units:     UnitsMetric,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithHeight sets the height in centimetres.
func (u *User) WithHeight(cm float64) *User {
	u.HeightCm = &cm
	return u
}

// WithWeight sets the body weight in kilograms.
func (u *User) WithWeight(kg float64) *User {
	u.WeightKg = &kg
	return u
}

// WithDateOfBirth sets the date of birth.
func (u *User) WithDateOfBirth(dob time.Time) *User {
	u.DateOfBirth = &dob
	return u
}

// WithGender sets the gender.
func (u *User) WithGender(g Gender) *User {
	u.Gender = &g
	return u
}

// Profile is the calculator's view of a user.
// Zero values mean "not provided".
type Profile struct {
	HeightCm    float64
	WeightKg    float64
	DateOfBirth time.Time
	Gender      Gender
	Units       UnitSystem
}

// Complete reports whether all four calculator inputs are present.
func (p Profile) Complete() bool {
	return p.HeightCm > 0 && p.WeightKg > 0 && !p.DateOfBirth.IsZero() && p.Gender != ""
}

// Profile projects the user onto calculator input.
func (u *User) Profile() Profile {
	p := Profile{Units: u.Units}
	if u.HeightCm != nil {
		p.HeightCm = *u.HeightCm
	}
	if u.WeightKg != nil {
		p.WeightKg = *u.WeightKg
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = *u.DateOfBirth
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	return p
}
