// ABOUTME: Profile and nutrition goal handlers.
// ABOUTME: Goals are derived from the stored profile unless targets are given explicitly.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/harperreed/fitlog/internal/calc"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/session"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/validation"
)

type profileView struct {
	User     *models.User `json:"user"`
	Complete bool         `json:"profile_complete"`
	Age      *int         `json:"age,omitempty"`
	BMR      *int         `json:"bmr,omitempty"`
}

type profileRequest struct {
	Name                *string            `json:"name"`
	Email               *string            `json:"email"`
	HeightCm            *float64           `json:"height_cm"`
	WeightKg            *float64           `json:"weight_kg"`
	HeightIn            *float64           `json:"height_in"`
	WeightLb            *float64           `json:"weight_lb"`
	DateOfBirth         *string            `json:"date_of_birth"`
	Gender              *models.Gender     `json:"gender"`
	Units               *models.UnitSystem `json:"units"`
	OnboardingCompleted *bool              `json:"onboarding_completed"`
}

// apply copies the provided fields onto u, converting imperial inputs.
func (p profileRequest) apply(u *models.User) error {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.HeightCm != nil {
		u.WithHeight(*p.HeightCm)
	}
	if p.HeightIn != nil {
		u.WithHeight(calc.InToCm(*p.HeightIn))
	}
	if p.WeightKg != nil {
		u.WithWeight(*p.WeightKg)
	}
	if p.WeightLb != nil {
		u.WithWeight(calc.LbToKg(*p.WeightLb))
	}
	if p.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *p.DateOfBirth)
		if err != nil {
			return badRequestf("invalid date_of_birth %q, want YYYY-MM-DD", *p.DateOfBirth)
		}
		u.WithDateOfBirth(dob)
	}
	if p.Gender != nil {
		u.WithGender(*p.Gender)
	}
	if p.Units != nil {
		u.Units = *p.Units
	}
	if p.OnboardingCompleted != nil {
		u.OnboardingCompleted = *p.OnboardingCompleted
	}
	return nil
}

func newProfileView(u *models.User, now time.Time) profileView {
	v := profileView{User: u, Complete: u.Profile().Complete()}
	if u.DateOfBirth != nil {
		age := calc.AgeOn(*u.DateOfBirth, now)
		v.Age = &age
	}
	if bmr, ok := calc.BMR(u.Profile(), now); ok {
		rounded := int(bmr + 0.5)
		v.BMR = &rounded
	}
	return v
}

// profile returns the session user's calculator input. A user with no
// stored record gets an empty profile, which yields the fallback TDEE.
func (s *Server) profile(sess session.Session) (models.Profile, error) {
	u, err := s.repo.GetUser(sess.UserID.String())
	if errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, nil
	}
	if err != nil {
		return models.Profile{}, err
	}
	return u.Profile(), nil
}

// ensureUser creates an empty user record for the session if none exists.
func (s *Server) ensureUser(sess session.Session) error {
	_, err := s.repo.GetUser(sess.UserID.String())
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	u := models.NewUser("")
	u.ID = sess.UserID
	return s.repo.CreateUser(u)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	u, err := s.repo.GetUser(sess.UserID.String())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileView(u, sess.Now()))
}

// handleUpdateProfile updates the profile, creating the user record for
// the token's subject on first use.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req profileRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	u, err := s.repo.GetUser(sess.UserID.String())
	created := false
	switch {
	case errors.Is(err, storage.ErrNotFound):
		u = models.NewUser("")
		u.ID = sess.UserID
		created = true
	case err != nil:
		s.fail(w, r, err)
		return
	}

	if err := req.apply(u); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validation.Struct(u); err != nil {
		s.fail(w, r, err)
		return
	}
	u.UpdatedAt = sess.Now()

	if created {
		err = s.repo.CreateUser(u)
	} else {
		err = s.repo.UpdateUser(u)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileView(u, sess.Now()))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.repo.GetGoal(sessionFrom(r).UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type calculateRequest struct {
	GoalType      models.GoalType      `json:"goal_type" validate:"oneof=lose maintain gain"`
	ActivityLevel models.ActivityLevel `json:"activity_level" validate:"oneof=sedentary light moderate very_active extra_active"`
	CalorieTarget *int                 `json:"calorie_target" validate:"omitempty,gte=0"`
}

type planView struct {
	calc.Plan
	Shares calc.Shares `json:"macro_shares"`
}

func (s *Server) plan(sess session.Session, req calculateRequest) (calc.Plan, error) {
	p, err := s.profile(sess)
	if err != nil {
		return calc.Plan{}, err
	}
	plan := calc.PlanForProfile(p, req.GoalType, req.ActivityLevel, sess.Now())
	if req.CalorieTarget != nil {
		plan = plan.WithCalories(*req.CalorieTarget)
	}
	return plan, nil
}

func (s *Server) handleCalculateGoal(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	plan, err := s.plan(sessionFrom(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planView{Plan: plan, Shares: calc.MacroShares(plan)})
}

type goalRequest struct {
	calculateRequest
	ProteinG     *int     `json:"protein_g" validate:"omitempty,gte=0"`
	CarbsG       *int     `json:"carbs_g" validate:"omitempty,gte=0"`
	FatG         *int     `json:"fat_g" validate:"omitempty,gte=0"`
	WeightGoalKg *float64 `json:"weight_goal_kg" validate:"omitempty,gte=20,lte=500"`
}

// handleSetGoal derives and stores the user's goal. Explicit macro grams
// override the derived split only when all three are given.
func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req goalRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	plan, err := s.plan(sess, req.calculateRequest)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.ProteinG != nil && req.CarbsG != nil && req.FatG != nil {
		plan.MacroGrams = calc.MacroGrams{ProteinG: *req.ProteinG, CarbsG: *req.CarbsG, FatG: *req.FatG}
	}

	if err := s.ensureUser(sess); err != nil {
		s.fail(w, r, err)
		return
	}
	g, err := s.repo.GetGoal(sess.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		g = models.NewGoal(sess.UserID, plan.GoalType, plan.ActivityLevel)
	} else if err != nil {
		s.fail(w, r, err)
		return
	}
	plan.ApplyTo(g)
	g.WeightGoalKg = req.WeightGoalKg
	g.UpdatedAt = sess.Now()

	if err := s.repo.SaveGoal(g); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
