// ABOUTME: MCP tool implementations for fitlog.
// ABOUTME: Exposes the calculators, daily logging, workout tracking and stats.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/harperreed/fitlog/internal/calc"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/stats"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/validation"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// calculate_tdee
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "calculate_tdee",
		Description: "Calculate BMR and daily energy expenditure from the stored profile or the given measurements",
	}, s.handleCalculateTDEE)

	// plan_goal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "plan_goal",
		Description: "Preview calorie and macro targets for a goal type without saving",
	}, s.handlePlanGoal)

	// set_goal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_goal",
		Description: "Derive and save the current nutrition goal",
	}, s.handleSetGoal)

	// log_meal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_meal",
		Description: "Log a serving of a food; nutrition is snapshotted from the food",
	}, s.handleLogMeal)

	// daily_summary
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "daily_summary",
		Description: "Totals for a day (calories, macros, water, steps) against the current goal",
	}, s.handleDailySummary)

	// log_water
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_water",
		Description: "Record water intake in millilitres",
	}, s.handleLogWater)

	// log_steps
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_steps",
		Description: "Set the step count for a day, replacing any earlier count",
	}, s.handleLogSteps)

	// log_body_metrics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_body_metrics",
		Description: "Record body weight and optional measurements",
	}, s.handleLogBodyMetrics)

	// start_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start a workout session, empty or from a template",
	}, s.handleStartWorkout)

	// add_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to a workout or template",
	}, s.handleAddExercise)

	// add_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_set",
		Description: "Add a set to one of a workout's exercises",
	}, s.handleAddSet)

	// toggle_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_set",
		Description: "Mark a set done, or undo it",
	}, s.handleToggleSet)

	// finish_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_workout",
		Description: "Finish a workout session; finished sessions cannot be edited",
	}, s.handleFinishWorkout)

	// workout_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "workout_stats",
		Description: "Workout streak and this week's lifted volume by day",
	}, s.handleWorkoutStats)

	// last_performed
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "last_performed",
		Description: "When a template was last completed",
	}, s.handleLastPerformed)
}

// Tool input/output types

type calculateTDEEInput struct {
	HeightCm      float64 `json:"height_cm,omitempty" jsonschema:"Height in centimetres; defaults to the stored profile"`
	WeightKg      float64 `json:"weight_kg,omitempty" jsonschema:"Weight in kilograms; defaults to the stored profile"`
	DateOfBirth   string  `json:"date_of_birth,omitempty" jsonschema:"Date of birth (YYYY-MM-DD); defaults to the stored profile"`
	Gender        string  `json:"gender,omitempty" jsonschema:"male, female or other; defaults to the stored profile"`
	ActivityLevel string  `json:"activity_level,omitempty" jsonschema:"sedentary, light, moderate, very_active or extra_active (default moderate)"`
}

type tdeeOutput struct {
	BMR             int     `json:"bmr"`
	TDEE            int     `json:"tdee"`
	Multiplier      float64 `json:"multiplier"`
	ProfileComplete bool    `json:"profile_complete"`
	Message         string  `json:"message"`
}

type planGoalInput struct {
	GoalType      string `json:"goal_type" jsonschema:"lose, maintain or gain"`
	ActivityLevel string `json:"activity_level,omitempty" jsonschema:"sedentary, light, moderate, very_active or extra_active (default moderate)"`
	CalorieTarget int    `json:"calorie_target,omitempty" jsonschema:"Use this calorie target instead of the derived one"`
}

type planOutput struct {
	GoalType      string      `json:"goal_type"`
	ActivityLevel string      `json:"activity_level"`
	TDEE          int         `json:"tdee"`
	CalorieTarget int         `json:"calorie_target"`
	ProteinG      int         `json:"protein_g"`
	CarbsG        int         `json:"carbs_g"`
	FatG          int         `json:"fat_g"`
	Shares        calc.Shares `json:"macro_shares"`
	Message       string      `json:"message"`
}

type setGoalInput struct {
	GoalType      string  `json:"goal_type" jsonschema:"lose, maintain or gain"`
	ActivityLevel string  `json:"activity_level,omitempty" jsonschema:"sedentary, light, moderate, very_active or extra_active (default moderate)"`
	CalorieTarget int     `json:"calorie_target,omitempty" jsonschema:"Use this calorie target instead of the derived one"`
	WeightGoalKg  float64 `json:"weight_goal_kg,omitempty" jsonschema:"Target body weight in kilograms"`
}

type logMealInput struct {
	Food        string  `json:"food" jsonschema:"Food ID, ID prefix or name"`
	MealType    string  `json:"meal_type" jsonschema:"breakfast, lunch, dinner or snack"`
	ServingSize float64 `json:"serving_size" jsonschema:"Amount eaten"`
	ServingUnit string  `json:"serving_unit,omitempty" jsonschema:"g, kg, oz, lb or a serving unit the food defines (default g)"`
	Date        string  `json:"date,omitempty" jsonschema:"When it was eaten (ISO 8601 or YYYY-MM-DD), defaults to now"`
}

type mealOutput struct {
	ID       string           `json:"id"`
	Food     string           `json:"food"`
	Snapshot models.Nutrition `json:"nutrition"`
	Message  string           `json:"message"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day to report (YYYY-MM-DD), defaults to today"`
}

type logWaterInput struct {
	AmountMl int `json:"amount_ml" jsonschema:"Millilitres drunk (1 to 10000)"`
}

type logStepsInput struct {
	Steps int    `json:"steps" jsonschema:"Step count for the day"`
	Date  string `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
}

type logBodyInput struct {
	WeightKg   float64 `json:"weight_kg" jsonschema:"Body weight in kilograms"`
	BodyFatPct float64 `json:"body_fat_pct,omitempty" jsonschema:"Body fat percentage"`
	WaistCm    float64 `json:"waist_cm,omitempty" jsonschema:"Waist circumference in centimetres"`
	Notes      string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type simpleOutput struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

type startWorkoutInput struct {
	Template string `json:"template,omitempty" jsonschema:"Template ID or prefix to start from"`
	Name     string `json:"name,omitempty" jsonschema:"Name for an empty session"`
}

type addExerciseInput struct {
	WorkoutID string `json:"workout_id" jsonschema:"Workout or template ID or prefix"`
	Exercise  string `json:"exercise" jsonschema:"Exercise name or ID"`
}

type addSetInput struct {
	WorkoutID     string  `json:"workout_id" jsonschema:"Workout or template ID or prefix"`
	ExerciseIndex int     `json:"exercise_index" jsonschema:"Zero-based exercise position"`
	Reps          int     `json:"reps" jsonschema:"Repetitions"`
	WeightKg      float64 `json:"weight_kg,omitempty" jsonschema:"Load in kilograms"`
	IsWarmup      bool    `json:"is_warmup,omitempty" jsonschema:"Warmup sets do not count toward volume"`
}

type toggleSetInput struct {
	WorkoutID     string `json:"workout_id" jsonschema:"Workout ID or prefix"`
	ExerciseIndex int    `json:"exercise_index" jsonschema:"Zero-based exercise position"`
	SetIndex      int    `json:"set_index" jsonschema:"Zero-based set position"`
}

type workoutIDInput struct {
	WorkoutID string `json:"workout_id" jsonschema:"Workout ID or prefix"`
}

type templateIDInput struct {
	TemplateID string `json:"template_id" jsonschema:"Template ID or prefix"`
}

type lastPerformedOutput struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
	Label      string `json:"label"`
	EndedAt    string `json:"ended_at,omitempty"`
}

// Helpers

func levelOrDefault(level string) (models.ActivityLevel, error) {
	if level == "" {
		return models.ActivityModerate, nil
	}
	if !models.IsValidActivityLevel(level) {
		return "", fmt.Errorf("unknown activity level: %s", level)
	}
	return models.ActivityLevel(level), nil
}

// storedProfile returns the acting user's profile, empty if there is no
// user record yet.
func (s *Server) storedProfile() (models.Profile, error) {
	u, err := s.repo.GetUser(s.sess.UserID.String())
	if errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, nil
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return u.Profile(), nil
}

// parseWhen accepts RFC 3339 or YYYY-MM-DD in the session's zone; empty
// means now.
func (s *Server) parseWhen(raw string) (time.Time, error) {
	if raw == "" {
		return s.sess.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, s.sess.Now().Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s", raw)
	}
	return t, nil
}

func (s *Server) plan(input planGoalInput) (calc.Plan, error) {
	if !models.IsValidGoalType(input.GoalType) {
		return calc.Plan{}, fmt.Errorf("unknown goal type: %s", input.GoalType)
	}
	level, err := levelOrDefault(input.ActivityLevel)
	if err != nil {
		return calc.Plan{}, err
	}
	p, err := s.storedProfile()
	if err != nil {
		return calc.Plan{}, err
	}
	plan := calc.PlanForProfile(p, models.GoalType(input.GoalType), level, s.sess.Now())
	if input.CalorieTarget > 0 {
		plan = plan.WithCalories(input.CalorieTarget)
	}
	return plan, nil
}

// owned fetches a workout, with unsaved edits, belonging to the acting user.
func (s *Server) owned(idOrPrefix string) (*models.Workout, error) {
	w, err := s.tracker.Get(idOrPrefix)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("workout not found: %s", idOrPrefix)
	case err != nil:
		return nil, fmt.Errorf("failed to load workout %s: %w", idOrPrefix, err)
	case w.UserID != s.sess.UserID:
		return nil, fmt.Errorf("workout not found: %s", idOrPrefix)
	}
	return w, nil
}

func describeSets(w *models.Workout) string {
	total, done := 0, 0
	for _, ex := range w.Exercises {
		for _, set := range ex.Sets {
			total++
			if set.IsCompleted() {
				done++
			}
		}
	}
	return fmt.Sprintf("%d/%d sets done", done, total)
}

// Tool handlers

func (s *Server) handleCalculateTDEE(ctx context.Context, req *mcp.CallToolRequest, input calculateTDEEInput) (*mcp.CallToolResult, tdeeOutput, error) {
	level, err := levelOrDefault(input.ActivityLevel)
	if err != nil {
		return nil, tdeeOutput{}, err
	}
	p, err := s.storedProfile()
	if err != nil {
		return nil, tdeeOutput{}, err
	}
	if input.HeightCm > 0 {
		p.HeightCm = input.HeightCm
	}
	if input.WeightKg > 0 {
		p.WeightKg = input.WeightKg
	}
	if input.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			return nil, tdeeOutput{}, fmt.Errorf("invalid date_of_birth: %s", input.DateOfBirth)
		}
		p.DateOfBirth = dob
	}
	if input.Gender != "" {
		p.Gender = models.Gender(input.Gender)
	}

	now := s.sess.Now()
	tdee := calc.TDEE(p, level, now)
	out := tdeeOutput{
		TDEE:            tdee,
		Multiplier:      calc.Multiplier(level),
		ProfileComplete: p.Complete(),
		Message:         fmt.Sprintf("TDEE %d kcal/day at %s activity", tdee, level),
	}
	bmr, ok := calc.BMR(p, now)
	switch {
	case !p.Complete():
		out.Message += fmt.Sprintf(" (profile incomplete, using the %d kcal default)", calc.FallbackTDEE)
	case !ok || bmr <= 0:
		out.Message += fmt.Sprintf(" (profile gives no usable BMR, using the %d kcal default)", calc.FallbackTDEE)
	default:
		out.BMR = int(math.Round(bmr))
	}
	return nil, out, nil
}

func (s *Server) handlePlanGoal(ctx context.Context, req *mcp.CallToolRequest, input planGoalInput) (*mcp.CallToolResult, planOutput, error) {
	plan, err := s.plan(input)
	if err != nil {
		return nil, planOutput{}, err
	}
	return nil, planOutput{
		GoalType:      string(plan.GoalType),
		ActivityLevel: string(plan.ActivityLevel),
		TDEE:          plan.TDEE,
		CalorieTarget: plan.CalorieTarget,
		ProteinG:      plan.ProteinG,
		CarbsG:        plan.CarbsG,
		FatG:          plan.FatG,
		Shares:        calc.MacroShares(plan),
		Message: fmt.Sprintf("%s: %d kcal, %dg protein, %dg carbs, %dg fat",
			plan.GoalType, plan.CalorieTarget, plan.ProteinG, plan.CarbsG, plan.FatG),
	}, nil
}

func (s *Server) handleSetGoal(ctx context.Context, req *mcp.CallToolRequest, input setGoalInput) (*mcp.CallToolResult, any, error) {
	plan, err := s.plan(planGoalInput{
		GoalType:      input.GoalType,
		ActivityLevel: input.ActivityLevel,
		CalorieTarget: input.CalorieTarget,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := s.ensureUser(); err != nil {
		return nil, nil, err
	}

	g, err := s.repo.GetGoal(s.sess.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		g = models.NewGoal(s.sess.UserID, plan.GoalType, plan.ActivityLevel)
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to load goal: %w", err)
	}
	plan.ApplyTo(g)
	g.WeightGoalKg = nil
	if input.WeightGoalKg > 0 {
		kg := input.WeightGoalKg
		g.WeightGoalKg = &kg
	}
	g.UpdatedAt = s.sess.Now()
	if err := validation.Struct(g); err != nil {
		return nil, nil, err
	}
	if err := s.repo.SaveGoal(g); err != nil {
		return nil, nil, fmt.Errorf("failed to save goal: %w", err)
	}
	return nil, g, nil
}

// ensureUser creates the acting user's record on first write.
func (s *Server) ensureUser() error {
	_, err := s.repo.GetUser(s.sess.UserID.String())
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	u := models.NewUser("")
	u.ID = s.sess.UserID
	if err := s.repo.CreateUser(u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Server) handleLogMeal(ctx context.Context, req *mcp.CallToolRequest, input logMealInput) (*mcp.CallToolResult, mealOutput, error) {
	if !models.IsValidMealType(input.MealType) {
		return nil, mealOutput{}, fmt.Errorf("unknown meal type: %s", input.MealType)
	}
	food, err := storage.FindFood(s.repo, s.sess.UserID, input.Food)
	if err != nil {
		return nil, mealOutput{}, err
	}
	at, err := s.parseWhen(input.Date)
	if err != nil {
		return nil, mealOutput{}, err
	}
	unit := input.ServingUnit
	if unit == "" {
		unit = "g"
	}

	m, err := calc.LogServing(s.sess.UserID, models.MealType(input.MealType), food, input.ServingSize, unit, at)
	if err != nil {
		return nil, mealOutput{}, err
	}
	if err := validation.Struct(m); err != nil {
		return nil, mealOutput{}, err
	}
	if err := s.repo.CreateMeal(m); err != nil {
		return nil, mealOutput{}, fmt.Errorf("failed to log meal: %w", err)
	}

	return nil, mealOutput{
		ID:       m.ID.String()[:8],
		Food:     food.Name,
		Snapshot: m.Nutrition,
		Message: fmt.Sprintf("Logged %g %s %s for %s: %.0f kcal (ID: %s)",
			input.ServingSize, unit, food.Name, input.MealType, m.Calories, m.ID.String()[:8]),
	}, nil
}

func (s *Server) handleDailySummary(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	day := s.sess.Today()
	if input.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", input.Date, s.sess.Now().Location())
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", input.Date)
		}
		day = t
	}
	summary, err := storage.Summarize(s.repo, s.sess.UserID, day)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to summarize day: %w", err)
	}
	return nil, summary, nil
}

func (s *Server) handleLogWater(ctx context.Context, req *mcp.CallToolRequest, input logWaterInput) (*mcp.CallToolResult, simpleOutput, error) {
	l := models.NewWaterLog(s.sess.UserID, input.AmountMl)
	l.Date = s.sess.Now()
	if err := validation.Struct(l); err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.CreateWater(l); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to log water: %w", err)
	}

	today, err := s.repo.ListWater(s.sess.UserID, storage.DayRange(s.sess.Today()))
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to list water logs: %w", err)
	}
	return nil, simpleOutput{
		ID:      l.ID.String()[:8],
		Message: fmt.Sprintf("Logged %d ml (%d ml today)", l.AmountMl, stats.WaterTotal(today, s.sess.Today())),
	}, nil
}

func (s *Server) handleLogSteps(ctx context.Context, req *mcp.CallToolRequest, input logStepsInput) (*mcp.CallToolResult, simpleOutput, error) {
	at, err := s.parseWhen(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	l := models.NewStepLog(s.sess.UserID, s.sess.Day(at), input.Steps)
	if err := validation.Struct(l); err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.SaveSteps(l); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to log steps: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Set %s to %d steps", l.Date.Format("2006-01-02"), l.Steps),
	}, nil
}

func (s *Server) handleLogBodyMetrics(ctx context.Context, req *mcp.CallToolRequest, input logBodyInput) (*mcp.CallToolResult, simpleOutput, error) {
	b := models.NewBodyMetrics(s.sess.UserID, input.WeightKg)
	b.RecordedAt = s.sess.Now()
	if input.BodyFatPct > 0 {
		pct := input.BodyFatPct
		b.BodyFatPct = &pct
	}
	if input.WaistCm > 0 {
		cm := input.WaistCm
		b.WaistCm = &cm
	}
	if input.Notes != "" {
		b.WithNotes(input.Notes)
	}
	if err := validation.Struct(b); err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.CreateBodyMetrics(b); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to log body metrics: %w", err)
	}
	return nil, simpleOutput{
		ID:      b.ID.String()[:8],
		Message: fmt.Sprintf("Recorded %.1f kg (ID: %s)", b.WeightKg, b.ID.String()[:8]),
	}, nil
}

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input startWorkoutInput) (*mcp.CallToolResult, simpleOutput, error) {
	var w *models.Workout
	if input.Template != "" {
		tmpl, err := s.owned(input.Template)
		if err != nil {
			return nil, simpleOutput{}, err
		}
		if w, err = models.StartFromTemplate(tmpl, s.sess.Now()); err != nil {
			return nil, simpleOutput{}, err
		}
	} else {
		name := input.Name
		if name == "" {
			name = "Workout"
		}
		w = models.NewWorkout(s.sess.UserID, name).WithStartedAt(s.sess.Now())
	}

	if err := s.repo.CreateWorkout(w); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to create workout: %w", err)
	}
	return nil, simpleOutput{
		ID:      w.ID.String()[:8],
		Message: fmt.Sprintf("Started %s with %d exercises (ID: %s)", w.Name, len(w.Exercises), w.ID.String()[:8]),
	}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.owned(input.WorkoutID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	ex, err := s.repo.FindExercise(input.Exercise)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("exercise not found: %s", input.Exercise)
	}
	w, err = s.tracker.AddExercise(w.ID.String(), models.Reference[models.Exercise](ex.ID))
	if err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{
		ID:      w.ID.String()[:8],
		Message: fmt.Sprintf("Added %s as exercise %d", ex.Name, len(w.Exercises)-1),
	}, nil
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input addSetInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.owned(input.WorkoutID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	set := models.WorkoutSet{Reps: input.Reps, WeightKg: input.WeightKg, IsWarmup: input.IsWarmup}
	if err := validation.Struct(set); err != nil {
		return nil, simpleOutput{}, err
	}
	w, err = s.tracker.AddSet(w.ID.String(), input.ExerciseIndex, set)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{
		ID:      w.ID.String()[:8],
		Message: fmt.Sprintf("Added %d x %g kg (%s)", input.Reps, input.WeightKg, describeSets(w)),
	}, nil
}

func (s *Server) handleToggleSet(ctx context.Context, req *mcp.CallToolRequest, input toggleSetInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.owned(input.WorkoutID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	w, err = s.tracker.ToggleSet(w.ID.String(), input.ExerciseIndex, input.SetIndex, s.sess.Now())
	if err != nil {
		return nil, simpleOutput{}, err
	}
	state := "not done"
	if w.Exercises[input.ExerciseIndex].Sets[input.SetIndex].IsCompleted() {
		state = "done"
	}
	return nil, simpleOutput{
		ID:      w.ID.String()[:8],
		Message: fmt.Sprintf("Set %d of exercise %d marked %s (%s)", input.SetIndex, input.ExerciseIndex, state, describeSets(w)),
	}, nil
}

func (s *Server) handleFinishWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.owned(input.WorkoutID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	w, err = s.tracker.Finish(ctx, w.ID.String(), s.sess.Now())
	if err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{
		ID: w.ID.String()[:8],
		Message: fmt.Sprintf("Finished %s: %s, %.0f kg lifted",
			w.Name, describeSets(w), stats.SessionVolume(w)),
	}, nil
}

func (s *Server) handleWorkoutStats(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, stats.WorkoutStats, error) {
	if err := s.tracker.Flush(ctx); err != nil {
		return nil, stats.WorkoutStats{}, fmt.Errorf("failed to save pending edits: %w", err)
	}
	st, err := storage.WorkoutStats(s.repo, s.sess.UserID, s.sess.Now())
	if err != nil {
		return nil, stats.WorkoutStats{}, err
	}
	return nil, st, nil
}

func (s *Server) handleLastPerformed(ctx context.Context, req *mcp.CallToolRequest, input templateIDInput) (*mcp.CallToolResult, lastPerformedOutput, error) {
	tmpl, err := s.owned(input.TemplateID)
	if err != nil {
		return nil, lastPerformedOutput{}, err
	}
	if !tmpl.IsTemplate {
		return nil, lastPerformedOutput{}, models.ErrNotTemplate
	}
	if err := s.tracker.Flush(ctx); err != nil {
		return nil, lastPerformedOutput{}, fmt.Errorf("failed to save pending edits: %w", err)
	}
	last, label, err := storage.LastPerformed(s.repo, tmpl, s.sess.Now())
	if err != nil {
		return nil, lastPerformedOutput{}, err
	}
	out := lastPerformedOutput{TemplateID: tmpl.ID.String()[:8], Name: tmpl.Name, Label: label}
	if last != nil {
		out.EndedAt = last.EndedAt.Format(time.RFC3339)
	}
	return nil, out, nil
}
