// ABOUTME: Tests for the SQLite Repository: users, goals, catalogue and meals.
// ABOUTME: Also covers prefix resolution and the not-found/ambiguous errors.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fitlog-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "fitlog.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// createTestUser stores a user with a complete profile.
func createTestUser(t *testing.T, db *DB) *models.User {
	t.Helper()
	u := models.NewUser("Sam").
		WithHeight(180).
		WithWeight(80).
		WithGender(models.GenderMale).
		WithDateOfBirth(time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := db.CreateUser(u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

func TestCreateAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db)

	got, err := db.GetUser(u.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, u.ID)
	}
	if got.HeightCm == nil || *got.HeightCm != 180 {
		t.Errorf("HeightCm mismatch: got %v", got.HeightCm)
	}
	if got.Gender == nil || *got.Gender != models.GenderMale {
		t.Errorf("Gender mismatch: got %v", got.Gender)
	}
	if got.DateOfBirth == nil || !got.DateOfBirth.Equal(*u.DateOfBirth) {
		t.Errorf("DateOfBirth mismatch: got %v", got.DateOfBirth)
	}
	if got.Units != models.UnitsMetric {
		t.Errorf("Units = %s, want metric", got.Units)
	}
	if !got.Profile().Complete() {
		t.Error("expected stored profile to be complete")
	}
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db)

	u.WithWeight(78.5)
	u.Name = "Samantha"
	u.OnboardingCompleted = true
	if err := db.UpdateUser(u); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got, err := db.GetUser(u.ID.String())
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Name != "Samantha" || *got.WeightKg != 78.5 || !got.OnboardingCompleted {
		t.Errorf("update not persisted: %+v", got)
	}

	missing := models.NewUser("ghost")
	if err := db.UpdateUser(missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateUser missing: got %v, want ErrNotFound", err)
	}
}

func TestSaveGoalReplacesPrevious(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db)

	if _, err := db.GetGoal(u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetGoal before save: got %v, want ErrNotFound", err)
	}

	g1 := models.NewGoal(u.ID, models.GoalLose, models.ActivityModerate)
	g1.CalorieTarget, g1.ProteinG, g1.CarbsG, g1.FatG = 2040, 179, 179, 68
	if err := db.SaveGoal(g1); err != nil {
		t.Fatalf("SaveGoal failed: %v", err)
	}

	g2 := models.NewGoal(u.ID, models.GoalGain, models.ActivityLight)
	g2.CalorieTarget = 2900
	if err := db.SaveGoal(g2); err != nil {
		t.Fatalf("SaveGoal failed: %v", err)
	}

	got, err := db.GetGoal(u.ID)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if got.GoalType != models.GoalGain || got.CalorieTarget != 2900 {
		t.Errorf("expected latest goal to win, got %+v", got)
	}
	if got.ActivityLevel != models.ActivityLight {
		t.Errorf("ActivityLevel = %s, want light", got.ActivityLevel)
	}
}

func TestFoodsSearchAndServings(t *testing.T) {
	db := setupTestDB(t)

	oats := models.NewFood("Rolled Oats", 389, 16.9, 66.3, 6.9)
	oats.Brand = "Quaker"
	oats.ServingSizes = []models.ServingSize{{Unit: "cup", Grams: 81, Label: "1 cup"}}
	rice := models.NewFood("White Rice", 130, 2.7, 28, 0.3)
	rice.Barcode = "0123456789"
	for _, f := range []*models.Food{oats, rice} {
		if err := db.CreateFood(f); err != nil {
			t.Fatalf("CreateFood failed: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"oat", 1},
		{"quaker", 1},
		{"0123456789", 1},
		{"pizza", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.SearchFoods(uuid.Nil, tt.query, 0)
			if err != nil {
				t.Fatalf("SearchFoods failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("SearchFoods(%q) returned %d foods, want %d", tt.query, len(got), tt.want)
			}
		})
	}

	got, err := db.GetFood(oats.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetFood failed: %v", err)
	}
	if len(got.ServingSizes) != 1 || got.ServingSizes[0].Grams != 81 {
		t.Errorf("ServingSizes not round-tripped: %+v", got.ServingSizes)
	}
}

func TestFoodsScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	alice, bob := uuid.New(), uuid.New()

	shared := models.NewFood("Banana", 89, 1.1, 22.8, 0.3)
	shared.Source = models.FoodSourceUSDA
	mine := models.NewFood("Alice's granola", 450, 10, 60, 18)
	mine.UserID = &alice
	theirs := models.NewFood("Bob's protein bar", 380, 30, 40, 10)
	theirs.UserID = &bob
	for _, f := range []*models.Food{shared, mine, theirs} {
		if err := db.CreateFood(f); err != nil {
			t.Fatalf("CreateFood failed: %v", err)
		}
	}

	got, err := db.SearchFoods(alice, "", 0)
	if err != nil {
		t.Fatalf("SearchFoods failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("alice sees %d foods, want 2", len(got))
	}
	for _, f := range got {
		if f.ID == theirs.ID {
			t.Error("alice can see bob's food")
		}
	}

	all, _ := db.SearchFoods(uuid.Nil, "", 0)
	if len(all) != 3 {
		t.Errorf("unscoped search returned %d foods, want 3", len(all))
	}

	tests := []struct {
		query   string
		want    uuid.UUID
		missing bool
	}{
		{query: "granola", want: mine.ID},
		{query: mine.ID.String()[:8], want: mine.ID},
		{query: shared.ID.String(), want: shared.ID},
		{query: "protein bar", missing: true},
		{query: theirs.ID.String()[:8], missing: true},
	}
	for _, tt := range tests {
		f, err := FindFood(db, alice, tt.query)
		if tt.missing {
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("FindFood(%q) err = %v, want ErrNotFound", tt.query, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("FindFood(%q) failed: %v", tt.query, err)
			continue
		}
		if f.ID != tt.want {
			t.Errorf("FindFood(%q) = %s, want %s", tt.query, f.Name, tt.want)
		}
	}
}

func TestExercises(t *testing.T) {
	db := setupTestDB(t)

	bench := models.NewExercise("Bench Press", models.CategoryStrength, "chest", "triceps")
	row := models.NewExercise("Rowing", models.CategoryCardio, "back")
	for _, e := range []*models.Exercise{bench, row} {
		if err := db.CreateExercise(e); err != nil {
			t.Fatalf("CreateExercise failed: %v", err)
		}
	}

	cat := models.CategoryStrength
	strength, err := db.ListExercises(&cat)
	if err != nil {
		t.Fatalf("ListExercises failed: %v", err)
	}
	if len(strength) != 1 || strength[0].Name != "Bench Press" {
		t.Errorf("unexpected strength exercises: %+v", strength)
	}
	if len(strength[0].MuscleGroups) != 2 {
		t.Errorf("MuscleGroups = %v, want 2 entries", strength[0].MuscleGroups)
	}

	byName, err := db.FindExercise("bench press")
	if err != nil {
		t.Fatalf("FindExercise by name failed: %v", err)
	}
	if byName.ID != bench.ID {
		t.Errorf("FindExercise returned %v, want %v", byName.ID, bench.ID)
	}

	byPrefix, err := db.FindExercise(row.ID.String()[:8])
	if err != nil {
		t.Fatalf("FindExercise by prefix failed: %v", err)
	}
	if byPrefix.ID != row.ID {
		t.Errorf("FindExercise returned %v, want %v", byPrefix.ID, row.ID)
	}
}

func TestMealsByDay(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db)
	food := models.NewFood("Egg", 155, 13, 1.1, 11)
	if err := db.CreateFood(food); err != nil {
		t.Fatalf("CreateFood failed: %v", err)
	}

	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.Local)
	n := models.Nutrition{Calories: 155, ProteinG: 13, CarbsG: 1.1, FatG: 11}
	ref := models.Reference[models.Food](food.ID)

	breakfast := models.NewMealLog(u.ID, models.MealBreakfast, ref, 100, "g", n).WithDate(day.Add(8 * time.Hour))
	dinner := models.NewMealLog(u.ID, models.MealDinner, ref, 200, "g", n).WithDate(day.Add(19 * time.Hour))
	yesterday := models.NewMealLog(u.ID, models.MealSnack, ref, 50, "g", n).WithDate(day.Add(-2 * time.Hour))
	dinner.Items = []models.MealItem{{Name: "egg", Nutrition: n}}

	for _, m := range []*models.MealLog{breakfast, dinner, yesterday} {
		if err := db.CreateMeal(m); err != nil {
			t.Fatalf("CreateMeal failed: %v", err)
		}
	}

	meals, err := db.ListMeals(u.ID, DayRange(day))
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("expected 2 meals on the day, got %d", len(meals))
	}
	if meals[0].ID != breakfast.ID {
		t.Errorf("expected breakfast first, got %v", meals[0].MealType)
	}
	if meals[0].Food.ID() != food.ID {
		t.Errorf("Food ref = %v, want %v", meals[0].Food.ID(), food.ID)
	}
	if len(meals[1].Items) != 1 {
		t.Errorf("expected dinner items to round-trip, got %d", len(meals[1].Items))
	}

	if err := db.DeleteMeal(breakfast.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteMeal failed: %v", err)
	}
	if _, err := db.GetMeal(breakfast.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMeal after delete: got %v, want ErrNotFound", err)
	}
	if err := db.DeleteMeal(breakfast.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteMeal: got %v, want ErrNotFound", err)
	}
}

func TestAmbiguousPrefixError(t *testing.T) {
	db := setupTestDB(t)

	for _, id := range []string{
		"abcd0000-0000-4000-8000-000000000001",
		"abcd0000-0000-4000-8000-000000000002",
	} {
		u := models.NewUser("twin")
		u.ID = uuid.MustParse(id)
		if err := db.CreateUser(u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	if _, err := db.GetUser("abcd"); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("GetUser ambiguous: got %v, want ErrAmbiguous", err)
	}
	if _, err := db.GetUser("abcd0000-0000-4000-8000-00000000000"); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("GetUser long ambiguous prefix: got %v, want ErrAmbiguous", err)
	}
	if _, err := db.GetUser("ffff"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser unknown: got %v, want ErrNotFound", err)
	}
}

func TestGetByFullUUIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	id := uuid.New().String()

	if _, err := db.GetFood(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFood: got %v, want ErrNotFound", err)
	}
	if _, err := db.GetWorkout(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetWorkout: got %v, want ErrNotFound", err)
	}
	if _, err := db.GetExercise(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetExercise: got %v, want ErrNotFound", err)
	}
}

func TestDBCloseNilDB(t *testing.T) {
	d := &DB{db: nil}
	if err := d.Close(); err != nil {
		t.Errorf("Close on nil db should not error: %v", err)
	}
}
