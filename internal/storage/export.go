// ABOUTME: Export and import functionality for fitlog data.
// ABOUTME: Supports a full-fidelity JSON format and a readable YAML summary.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is bumped whenever ExportData changes shape.
const ExportVersion = "1.0"

// ExportData represents the full export format for fitlog data.
type ExportData struct {
	Version     string                `json:"version"`
	ExportedAt  time.Time             `json:"exported_at"`
	Tool        string                `json:"tool"`
	Users       []*models.User        `json:"users"`
	Goals       []*models.Goal        `json:"goals"`
	Foods       []*models.Food        `json:"foods"`
	Exercises   []*models.Exercise    `json:"exercises"`
	Meals       []*models.MealLog     `json:"meals"`
	Workouts    []*models.Workout     `json:"workouts"`
	Steps       []*models.StepLog     `json:"steps"`
	Water       []*models.WaterLog    `json:"water"`
	BodyMetrics []*models.BodyMetrics `json:"body_metrics"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "fitlog",
	}

	var err error
	if data.Foods, err = d.SearchFoods(uuid.Nil, "", 0); err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	if data.Exercises, err = d.ListExercises(nil); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if data.Users, err = d.ListUsers(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for _, u := range data.Users {
		if err := d.collectUser(data, u.ID); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (d *DB) collectUser(data *ExportData, userID uuid.UUID) error {
	goal, err := d.GetGoal(userID)
	switch {
	case err == nil:
		data.Goals = append(data.Goals, goal)
	case !isNotFound(err):
		return fmt.Errorf("get goal: %w", err)
	}

	meals, err := d.ListMeals(userID, Range{})
	if err != nil {
		return fmt.Errorf("list meals: %w", err)
	}
	data.Meals = append(data.Meals, meals...)

	for _, templates := range []bool{true, false} {
		ws, err := d.ListWorkouts(userID, WorkoutFilter{Templates: templates})
		if err != nil {
			return fmt.Errorf("list workouts: %w", err)
		}
		data.Workouts = append(data.Workouts, ws...)
	}

	steps, err := d.ListSteps(userID, Range{})
	if err != nil {
		return fmt.Errorf("list steps: %w", err)
	}
	data.Steps = append(data.Steps, steps...)

	water, err := d.ListWater(userID, Range{})
	if err != nil {
		return fmt.Errorf("list water logs: %w", err)
	}
	data.Water = append(data.Water, water...)

	body, err := d.ListBodyMetrics(userID, 0)
	if err != nil {
		return fmt.Errorf("list body metrics: %w", err)
	}
	data.BodyMetrics = append(data.BodyMetrics, body...)
	return nil
}

// ImportData imports data from an export file. Records are inserted in
// dependency order; users are imported before the goals that reference
// them.
func (d *DB) ImportData(data *ExportData) error {
	for _, u := range data.Users {
		if err := d.CreateUser(u); err != nil {
			return fmt.Errorf("import user: %w", err)
		}
	}
	for _, g := range data.Goals {
		if err := d.SaveGoal(g); err != nil {
			return fmt.Errorf("import goal: %w", err)
		}
	}
	for _, f := range data.Foods {
		if err := d.CreateFood(f); err != nil {
			return fmt.Errorf("import food: %w", err)
		}
	}
	for _, e := range data.Exercises {
		if err := d.CreateExercise(e); err != nil {
			return fmt.Errorf("import exercise: %w", err)
		}
	}
	for _, m := range data.Meals {
		if err := d.CreateMeal(m); err != nil {
			return fmt.Errorf("import meal: %w", err)
		}
	}
	for _, w := range data.Workouts {
		if err := d.CreateWorkout(w); err != nil {
			return fmt.Errorf("import workout: %w", err)
		}
	}
	for _, s := range data.Steps {
		if err := d.SaveSteps(s); err != nil {
			return fmt.Errorf("import steps: %w", err)
		}
	}
	for _, w := range data.Water {
		if err := d.CreateWater(w); err != nil {
			return fmt.Errorf("import water log: %w", err)
		}
	}
	for _, b := range data.BodyMetrics {
		if err := d.CreateBodyMetrics(b); err != nil {
			return fmt.Errorf("import body metrics: %w", err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(&exportData)
}

// ExportYAML exports a readable per-user summary as YAML. It is not
// meant to be imported back.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}

	exerciseNames := make(map[uuid.UUID]string, len(data.Exercises))
	for _, e := range data.Exercises {
		exerciseNames[e.ID] = e.Name
	}

	out := yamlExport{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
	}

	users := make(map[uuid.UUID]*yamlUser, len(data.Users))
	for _, u := range data.Users {
		yu := &yamlUser{ID: shortID(u.ID), Name: u.Name}
		users[u.ID] = yu
	}
	for _, g := range data.Goals {
		if yu, ok := users[g.UserID]; ok {
			yu.Goal = &yamlGoal{
				Type:          string(g.GoalType),
				ActivityLevel: string(g.ActivityLevel),
				Calories:      g.CalorieTarget,
				ProteinG:      g.ProteinG,
				CarbsG:        g.CarbsG,
				FatG:          g.FatG,
			}
		}
	}
	for _, m := range data.Meals {
		if yu, ok := users[m.UserID]; ok {
			yu.Meals = append(yu.Meals, yamlMeal{
				ID:       shortID(m.ID),
				Date:     m.Date.Format(time.RFC3339),
				MealType: string(m.MealType),
				Serving:  fmt.Sprintf("%g %s", m.ServingSize, m.ServingUnit),
				Calories: m.Calories,
			})
		}
	}
	for _, w := range data.Workouts {
		yu, ok := users[w.UserID]
		if !ok {
			continue
		}
		yw := yamlWorkout{
			ID:        shortID(w.ID),
			Name:      w.Name,
			StartedAt: w.StartedAt.Format(time.RFC3339),
			State:     string(w.State()),
		}
		for _, ex := range w.Exercises {
			name := exerciseNames[ex.Exercise.ID()]
			if name == "" {
				name = shortID(ex.Exercise.ID())
			}
			ye := yamlExercise{Name: name}
			for _, s := range ex.Sets {
				ye.Sets = append(ye.Sets, yamlSet{
					Reps:      s.Reps,
					WeightKg:  s.WeightKg,
					Warmup:    s.IsWarmup,
					Completed: s.IsCompleted(),
				})
			}
			yw.Exercises = append(yw.Exercises, ye)
		}
		if w.IsTemplate {
			yu.Templates = append(yu.Templates, yw)
		} else {
			yu.Workouts = append(yu.Workouts, yw)
		}
	}
	for _, b := range data.BodyMetrics {
		if yu, ok := users[b.UserID]; ok {
			yu.Weight = append(yu.Weight, yamlWeight{
				RecordedAt: b.RecordedAt.Format(time.RFC3339),
				WeightKg:   b.WeightKg,
			})
		}
	}
	for _, u := range data.Users {
		out.Users = append(out.Users, *users[u.ID])
	}

	return yaml.Marshal(out)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

type yamlExport struct {
	Version    string     `yaml:"version"`
	ExportedAt string     `yaml:"exported_at"`
	Tool       string     `yaml:"tool"`
	Users      []yamlUser `yaml:"users"`
}

type yamlUser struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Goal      *yamlGoal     `yaml:"goal,omitempty"`
	Meals     []yamlMeal    `yaml:"meals,omitempty"`
	Workouts  []yamlWorkout `yaml:"workouts,omitempty"`
	Templates []yamlWorkout `yaml:"templates,omitempty"`
	Weight    []yamlWeight  `yaml:"weight,omitempty"`
}

type yamlGoal struct {
	Type          string `yaml:"type"`
	ActivityLevel string `yaml:"activity_level"`
	Calories      int    `yaml:"calories"`
	ProteinG      int    `yaml:"protein_g"`
	CarbsG        int    `yaml:"carbs_g"`
	FatG          int    `yaml:"fat_g"`
}

type yamlMeal struct {
	ID       string  `yaml:"id"`
	Date     string  `yaml:"date"`
	MealType string  `yaml:"meal_type"`
	Serving  string  `yaml:"serving"`
	Calories float64 `yaml:"calories"`
}

type yamlWorkout struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	StartedAt string         `yaml:"started_at"`
	State     string         `yaml:"state"`
	Exercises []yamlExercise `yaml:"exercises,omitempty"`
}

type yamlExercise struct {
	Name string    `yaml:"name"`
	Sets []yamlSet `yaml:"sets,omitempty"`
}

type yamlSet struct {
	Reps      int     `yaml:"reps"`
	WeightKg  float64 `yaml:"weight_kg"`
	Warmup    bool    `yaml:"warmup,omitempty"`
	Completed bool    `yaml:"completed"`
}

type yamlWeight struct {
	RecordedAt string  `yaml:"recorded_at"`
	WeightKg   float64 `yaml:"weight_kg"`
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
