// ABOUTME: Food, meal, daily summary, water, step and body measurement handlers.
// ABOUTME: Meal nutrition is snapshotted from the food when the meal is logged.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/harperreed/fitlog/internal/calc"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/session"
	"github.com/harperreed/fitlog/internal/stats"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/validation"
)

// timeField parses an RFC 3339 timestamp or a bare YYYY-MM-DD date in the
// session's zone. Empty means now.
func timeField(raw string, sess session.Session) (time.Time, error) {
	if raw == "" {
		return sess.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, sess.Now().Location())
	if err != nil {
		return time.Time{}, badRequestf("invalid date %q", raw)
	}
	return t, nil
}

type foodRequest struct {
	Name            string               `json:"name" validate:"required"`
	Brand           string               `json:"brand"`
	Barcode         string               `json:"barcode"`
	CaloriesPer100g float64              `json:"calories_per_100g" validate:"gte=0"`
	ProteinPer100g  float64              `json:"protein_per_100g" validate:"gte=0"`
	CarbsPer100g    float64              `json:"carbs_per_100g" validate:"gte=0"`
	FatPer100g      float64              `json:"fat_per_100g" validate:"gte=0"`
	ServingSizes    []models.ServingSize `json:"serving_sizes" validate:"dive"`
}

func (s *Server) handleSearchFoods(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	foods, err := s.repo.SearchFoods(sess.UserID, r.URL.Query().Get("q"), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if foods == nil {
		foods = []*models.Food{}
	}
	writeJSON(w, http.StatusOK, foods)
}

func (s *Server) handleCreateFood(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req foodRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	f := models.NewFood(req.Name, req.CaloriesPer100g, req.ProteinPer100g, req.CarbsPer100g, req.FatPer100g)
	f.Brand = req.Brand
	f.Barcode = req.Barcode
	f.ServingSizes = req.ServingSizes
	owner := sess.UserID
	f.UserID = &owner

	if err := s.repo.CreateFood(f); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

type mealRequest struct {
	FoodID      string            `json:"food_id"`
	MealType    models.MealType   `json:"meal_type" validate:"oneof=breakfast lunch dinner snack"`
	ServingSize float64           `json:"serving_size"`
	ServingUnit string            `json:"serving_unit"`
	Items       []models.MealItem `json:"items"`
	Date        string            `json:"date"`
}

// build turns the request into a meal log. A meal either references a
// food or lists its items; composite meals carry the sum of their items.
func (req mealRequest) build(repo storage.Repository, sess session.Session) (*models.MealLog, error) {
	at, err := timeField(req.Date, sess)
	if err != nil {
		return nil, err
	}

	if req.FoodID == "" {
		if len(req.Items) == 0 {
			return nil, badRequestf("food_id or items is required")
		}
		var total models.Nutrition
		for _, it := range req.Items {
			total = total.Add(it.Nutrition)
		}
		m := models.NewMealLog(sess.UserID, req.MealType, models.Reference[models.Food](uuid.Nil), 1, "serving", total).WithDate(at)
		m.Items = req.Items
		return m, nil
	}

	food, err := repo.GetFood(req.FoodID)
	if err != nil {
		return nil, err
	}
	if !food.VisibleTo(sess.UserID) {
		return nil, fmt.Errorf("food %w: %s", storage.ErrNotFound, req.FoodID)
	}
	m, err := calc.LogServing(sess.UserID, req.MealType, food, req.ServingSize, req.ServingUnit, at)
	if err != nil {
		return nil, badRequestf("%v", err)
	}
	return m, nil
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	day, err := dayParam(r, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	meals, err := s.repo.ListMeals(sess.UserID, storage.DayRange(day))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if meals == nil {
		meals = []*models.MealLog{}
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req mealRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := req.build(s.repo, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validation.Struct(m); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.CreateMeal(m); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	m, err := s.repo.GetMeal(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if m.UserID != sess.UserID {
		s.fail(w, r, storage.ErrNotFound)
		return
	}
	if err := s.repo.DeleteMeal(m.ID.String()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": m.ID.String()})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	day, err := dayParam(r, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, err := storage.Summarize(s.repo, sess.UserID, day)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type waterView struct {
	Logs    []*models.WaterLog `json:"logs"`
	TotalMl int                `json:"total_ml"`
}

func (s *Server) handleListWater(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	day, err := dayParam(r, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logs, err := s.repo.ListWater(sess.UserID, storage.DayRange(day))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if logs == nil {
		logs = []*models.WaterLog{}
	}
	writeJSON(w, http.StatusOK, waterView{Logs: logs, TotalMl: stats.WaterTotal(logs, day)})
}

type waterRequest struct {
	AmountMl int    `json:"amount_ml" validate:"gte=1,lte=10000"`
	Date     string `json:"date"`
}

func (s *Server) handleLogWater(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req waterRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	at, err := timeField(req.Date, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l := models.NewWaterLog(sess.UserID, req.AmountMl)
	l.Date = at
	if err := s.repo.CreateWater(l); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleListSteps(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	days, err := intParam(r, "days", 7)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	today := sess.Today()
	rng := storage.Range{From: today.AddDate(0, 0, 1-max(days, 1)), To: today.AddDate(0, 0, 1)}
	logs, err := s.repo.ListSteps(sess.UserID, rng)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if logs == nil {
		logs = []*models.StepLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type stepsRequest struct {
	Steps          int               `json:"steps" validate:"gte=0"`
	Date           string            `json:"date"`
	DistanceKm     *float64          `json:"distance_km" validate:"omitempty,gte=0"`
	CaloriesBurned *float64          `json:"calories_burned" validate:"omitempty,gte=0"`
	Source         models.StepSource `json:"source" validate:"omitempty,oneof=manual device synced"`
}

// handleLogSteps records the day's step count, replacing any earlier
// count for the same day.
func (s *Server) handleLogSteps(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req stepsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	at, err := timeField(req.Date, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l := models.NewStepLog(sess.UserID, sess.Day(at), req.Steps)
	l.DistanceKm = req.DistanceKm
	l.CaloriesBurned = req.CaloriesBurned
	if req.Source != "" {
		l.Source = req.Source
	}
	if err := s.repo.SaveSteps(l); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleListBody(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 30)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logs, err := s.repo.ListBodyMetrics(sessionFrom(r).UserID, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if logs == nil {
		logs = []*models.BodyMetrics{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type bodyRequest struct {
	WeightKg   *float64 `json:"weight_kg"`
	WeightLb   *float64 `json:"weight_lb"`
	BodyFatPct *float64 `json:"body_fat_pct"`
	WaistCm    *float64 `json:"waist_cm"`
	ChestCm    *float64 `json:"chest_cm"`
	ArmsCm     *float64 `json:"arms_cm"`
	Notes      *string  `json:"notes"`
	RecordedAt string   `json:"recorded_at"`
}

func (s *Server) handleLogBody(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req bodyRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	var kg float64
	switch {
	case req.WeightKg != nil:
		kg = *req.WeightKg
	case req.WeightLb != nil:
		kg = calc.LbToKg(*req.WeightLb)
	default:
		s.fail(w, r, badRequestf("weight_kg or weight_lb is required"))
		return
	}
	at, err := timeField(req.RecordedAt, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	b := models.NewBodyMetrics(sess.UserID, kg)
	b.RecordedAt = at
	b.BodyFatPct = req.BodyFatPct
	b.WaistCm = req.WaistCm
	b.ChestCm = req.ChestCm
	b.ArmsCm = req.ArmsCm
	b.Notes = req.Notes
	if err := validation.Struct(b); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.CreateBodyMetrics(b); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}
