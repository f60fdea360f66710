// ABOUTME: Repository interface for fitlog storage.
// ABOUTME: Defines the persistence contract shared by the CLI, API and MCP server.
package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

var (
	// ErrNotFound means no record matched the id or prefix.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous means an id prefix matched more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
)

// Range is a half-open time window [From, To). Zero bounds are open.
type Range struct {
	From time.Time
	To   time.Time
}

// DayRange returns the range covering day's calendar date.
func DayRange(day time.Time) Range {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return Range{From: start, To: start.AddDate(0, 0, 1)}
}

// WorkoutFilter narrows ListWorkouts.
type WorkoutFilter struct {
	Templates  bool
	TemplateID *uuid.UUID
	Range      Range
	Limit      int
}

// Repository defines the storage interface for fitlog data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Users and goals
	CreateUser(u *models.User) error
	GetUser(idOrPrefix string) (*models.User, error)
	UpdateUser(u *models.User) error
	ListUsers() ([]*models.User, error)
	SaveGoal(g *models.Goal) error
	GetGoal(userID uuid.UUID) (*models.Goal, error)

	// Catalogue
	CreateFood(f *models.Food) error
	GetFood(idOrPrefix string) (*models.Food, error)
	SearchFoods(userID uuid.UUID, query string, limit int) ([]*models.Food, error)
	CreateExercise(e *models.Exercise) error
	GetExercise(idOrPrefix string) (*models.Exercise, error)
	FindExercise(nameOrID string) (*models.Exercise, error)
	ListExercises(category *models.ExerciseCategory) ([]*models.Exercise, error)

	// Meals
	CreateMeal(m *models.MealLog) error
	GetMeal(idOrPrefix string) (*models.MealLog, error)
	ListMeals(userID uuid.UUID, r Range) ([]*models.MealLog, error)
	DeleteMeal(idOrPrefix string) error

	// Workouts and templates
	CreateWorkout(w *models.Workout) error
	GetWorkout(idOrPrefix string) (*models.Workout, error)
	UpdateWorkout(w *models.Workout) error
	ListWorkouts(userID uuid.UUID, f WorkoutFilter) ([]*models.Workout, error)
	DeleteWorkout(idOrPrefix string) error

	// Daily logs
	SaveSteps(s *models.StepLog) error
	ListSteps(userID uuid.UUID, r Range) ([]*models.StepLog, error)
	CreateWater(w *models.WaterLog) error
	ListWater(userID uuid.UUID, r Range) ([]*models.WaterLog, error)
	CreateBodyMetrics(b *models.BodyMetrics) error
	ListBodyMetrics(userID uuid.UUID, limit int) ([]*models.BodyMetrics, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
