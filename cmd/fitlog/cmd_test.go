// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands in-process against a temp SQLite store.
package main

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "date and time with space", input: "2025-01-31 08:30"},
		{name: "date and time with T", input: "2025-01-31T08:30"},
		{name: "date only", input: "2025-01-31"},
		{name: "RFC3339", input: "2025-01-31T08:30:00Z"},
		{name: "RFC3339 with offset", input: "2025-01-31T08:30:00+05:00"},
		{name: "invalid format", input: "31-01-2025", wantErr: true},
		{name: "invalid random string", input: "not a date", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("parseTime(%q) unexpected error: %v", tt.input, err)
				return
			}
			if result.IsZero() {
				t.Errorf("parseTime(%q) returned zero time", tt.input)
			}
		})
	}
}

func TestParseTimeIsLocal(t *testing.T) {
	result, err := parseTime("2025-06-15 07:45")
	if err != nil {
		t.Fatalf("parseTime failed: %v", err)
	}
	if result.Location() != time.Local {
		t.Errorf("location = %v, want Local", result.Location())
	}
	if result.Hour() != 7 || result.Minute() != 45 {
		t.Errorf("parseTime returned wrong time: got %v", result)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world this is a long string", 10, "hello w..."},
		{"abcdefghij", 6, "abc..."},
		{"", 10, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 6, "abcdef"},
		{"abcdefgh", 6, "abcdefgh"},
		{"", 3, "   "},
	}
	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestParseServing(t *testing.T) {
	tests := []struct {
		input   string
		want    models.ServingSize
		wantErr bool
	}{
		{input: "cup=80", want: models.ServingSize{Unit: "cup", Grams: 80}},
		{input: " slice = 28.5 ", want: models.ServingSize{Unit: "slice", Grams: 28.5}},
		{input: "cup", wantErr: true},
		{input: "=80", wantErr: true},
		{input: "cup=zero", wantErr: true},
		{input: "cup=-5", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseServing(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseServing(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseServing(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseServing(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "fitlog" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "fitlog")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}

	want := []string{"profile", "goal", "food", "meal", "summary", "water", "steps", "body",
		"exercise", "workout", "export", "import", "token", "serve", "mcp"}
	registered := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("Expected %s command to be registered", name)
		}
	}
}

func TestWorkoutCmdSubcommands(t *testing.T) {
	want := map[string]bool{
		"template": false, "add-exercise": false, "add-set": false, "start": false, "toggle": false,
		"finish": false, "list": false, "show": false, "stats": false, "last": false,
	}
	for _, cmd := range workoutCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected workout subcommand %q", name)
		}
	}

	found := false
	for _, alias := range workoutCmd.Aliases {
		if alias == "w" {
			found = true
		}
	}
	if !found {
		t.Error("Expected 'w' alias for workoutCmd")
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	expected := map[string]bool{"json": false, "yaml": false}
	for _, arg := range exportCmd.ValidArgs {
		if _, ok := expected[arg]; ok {
			expected[arg] = true
		}
	}
	for arg, found := range expected {
		if !found {
			t.Errorf("Expected valid arg %q for exportCmd", arg)
		}
	}
	if exportCmd.Flags().Lookup("output") == nil {
		t.Error("Expected --output flag on export command")
	}
}

// setupTestCLI points the XDG data and config directories at a temp dir
// and returns a second handle on the database the commands will open.
func setupTestCLI(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fitlog-cli-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	t.Setenv("XDG_DATA_HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range []string{"FITLOG_DATA_DIR", "FITLOG_USER_ID", "FITLOG_JWT_SECRET", "FITLOG_AUTOSAVE_DELAY_MS"} {
		t.Setenv(key, "")
	}

	testDB, err := storage.Open(filepath.Join(tmpDir, "fitlog", "fitlog.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open database: %v", err)
	}

	t.Cleanup(func() {
		if db != nil {
			db.Close()
			db = nil
		}
		tracked = nil
		testDB.Close()
		os.RemoveAll(tmpDir)
	})
	return testDB
}

// resetFlags restores every flag to its default so values don't leak
// between in-process runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI in-process.
func run(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	// PersistentPostRunE is skipped when RunE fails.
	if db != nil {
		db.Close()
		db = nil
	}
	tracked = nil
	return err
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := run(t, args...); err != nil {
		t.Fatalf("%s failed: %v", strings.Join(args, " "), err)
	}
}

func onlyUser(t *testing.T, testDB *storage.DB) *models.User {
	t.Helper()
	users, err := testDB.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(users))
	}
	return users[0]
}

func TestProfileSet(t *testing.T) {
	testDB := setupTestCLI(t)

	mustRun(t, "profile", "set", "--name", "Sam", "--height-cm", "180", "--weight-lb", "176.37",
		"--dob", "1995-03-07", "--gender", "male")

	u := onlyUser(t, testDB)
	if u.Name != "Sam" {
		t.Errorf("Name = %q, want Sam", u.Name)
	}
	if u.HeightCm == nil || *u.HeightCm != 180 {
		t.Errorf("HeightCm = %v, want 180", u.HeightCm)
	}
	if u.WeightKg == nil || math.Abs(*u.WeightKg-80) > 0.01 {
		t.Errorf("WeightKg = %v, want 80", u.WeightKg)
	}
	if !u.OnboardingCompleted {
		t.Error("Expected onboarding to be complete with a full profile")
	}

	// Only the passed flag changes.
	mustRun(t, "profile", "set", "--weight-kg", "78")
	u = onlyUser(t, testDB)
	if *u.WeightKg != 78 || *u.HeightCm != 180 || u.Name != "Sam" {
		t.Errorf("unexpected profile after partial update: %+v", u)
	}

	mustRun(t, "profile", "show")
}

func TestProfileSetInvalid(t *testing.T) {
	setupTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad gender", []string{"profile", "set", "--gender", "robot"}},
		{"bad date", []string{"profile", "set", "--dob", "07/03/1995"}},
		{"too short", []string{"profile", "set", "--height-cm", "20"}},
		{"both height units", []string{"profile", "set", "--height-cm", "180", "--height-in", "70"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, tt.args...); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestGoalSetFallsBackWithoutProfile(t *testing.T) {
	testDB := setupTestCLI(t)

	mustRun(t, "goal", "calc", "lose")
	u := onlyUser(t, testDB)
	if _, err := testDB.GetGoal(u.ID); err == nil {
		t.Error("goal calc should not save a goal")
	}

	mustRun(t, "goal", "set", "lose")
	g, err := testDB.GetGoal(u.ID)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if g.CalorieTarget != 2040 {
		t.Errorf("CalorieTarget = %d, want 2040", g.CalorieTarget)
	}
	if g.ProteinG != 179 || g.CarbsG != 179 || g.FatG != 68 {
		t.Errorf("macros = %d/%d/%d, want 179/179/68", g.ProteinG, g.CarbsG, g.FatG)
	}
	if g.ActivityLevel != models.ActivityModerate {
		t.Errorf("ActivityLevel = %s, want moderate", g.ActivityLevel)
	}

	mustRun(t, "goal", "show")
}

func TestGoalSetWithCalories(t *testing.T) {
	testDB := setupTestCLI(t)

	mustRun(t, "goal", "set", "maintain", "--calories", "2000", "--activity", "light", "--weight-goal-lb", "165")
	g, err := testDB.GetGoal(onlyUser(t, testDB).ID)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if g.CalorieTarget != 2000 {
		t.Errorf("CalorieTarget = %d, want 2000 unadjusted", g.CalorieTarget)
	}
	if g.ActivityLevel != models.ActivityLight {
		t.Errorf("ActivityLevel = %s, want light", g.ActivityLevel)
	}
	if g.WeightGoalKg == nil || math.Abs(*g.WeightGoalKg-74.84) > 0.01 {
		t.Errorf("WeightGoalKg = %v, want about 74.84", g.WeightGoalKg)
	}

	if err := run(t, "goal", "set", "bulk"); err == nil {
		t.Error("Expected error for unknown goal type")
	}
	if err := run(t, "goal", "set", "lose", "--activity", "couch"); err == nil {
		t.Error("Expected error for unknown activity level")
	}
}

func TestFoodAndMeals(t *testing.T) {
	testDB := setupTestCLI(t)

	mustRun(t, "food", "add", "Oats", "--calories", "389", "--protein", "16.9", "--carbs", "66.3", "--fat", "6.9",
		"--serving", "cup=80")
	foods, err := testDB.SearchFoods(uuid.Nil, "oats", 0)
	if err != nil || len(foods) != 1 {
		t.Fatalf("SearchFoods = %v, %v", foods, err)
	}
	if len(foods[0].ServingSizes) != 1 || foods[0].ServingSizes[0].Grams != 80 {
		t.Errorf("ServingSizes = %+v", foods[0].ServingSizes)
	}

	mustRun(t, "meal", "log", "oats", "1", "cup", "--type", "breakfast")
	mustRun(t, "meal", "log", foods[0].ID.String()[:8], "50")

	u := onlyUser(t, testDB)
	meals, err := testDB.ListMeals(u.ID, storage.DayRange(time.Now()))
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("Expected 2 meals, got %d", len(meals))
	}
	total := meals[0].Calories + meals[1].Calories
	if math.Abs(total-505.7) > 0.01 {
		t.Errorf("total calories = %v, want 505.7", total)
	}

	mustRun(t, "meal", "list")
	mustRun(t, "summary")

	mustRun(t, "meal", "rm", meals[0].ID.String()[:8])
	meals, _ = testDB.ListMeals(u.ID, storage.DayRange(time.Now()))
	if len(meals) != 1 {
		t.Errorf("Expected 1 meal after delete, got %d", len(meals))
	}
}

func TestMealErrors(t *testing.T) {
	testDB := setupTestCLI(t)
	mustRun(t, "food", "add", "Rice", "--calories", "130", "--carbs", "28")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown unit", []string{"meal", "log", "rice", "1", "bowl"}},
		{"unknown meal type", []string{"meal", "log", "rice", "100", "--type", "brunch"}},
		{"unknown food", []string{"meal", "log", "tofu", "100"}},
		{"bad amount", []string{"meal", "log", "rice", "lots"}},
		{"zero amount", []string{"meal", "log", "rice", "0"}},
		{"bad date", []string{"meal", "list", "--date", "yesterday"}},
		{"missing meal", []string{"meal", "rm", "ffffffff"}},
		{"bad serving", []string{"food", "add", "Bread", "--serving", "slice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, tt.args...); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	meals, _ := testDB.ListMeals(onlyUser(t, testDB).ID, storage.Range{})
	if len(meals) != 0 {
		t.Errorf("Expected no meals, got %d", len(meals))
	}
}

func TestDailyLogs(t *testing.T) {
	testDB := setupTestCLI(t)

	mustRun(t, "water", "add", "500")
	mustRun(t, "water", "add", "250")
	if err := run(t, "water", "add", "20000"); err == nil {
		t.Error("Expected error for 20 litres")
	}

	mustRun(t, "steps", "set", "9000")
	mustRun(t, "steps", "set", "10000", "--distance", "7.5")
	mustRun(t, "steps", "set", "4000", "--date", "2025-03-01")

	mustRun(t, "body", "add", "176.37", "--lb", "--body-fat", "18")
	if err := run(t, "body", "add", "5"); err == nil {
		t.Error("Expected error for 5 kg")
	}

	u := onlyUser(t, testDB)
	today := storage.DayRange(time.Now())

	water, _ := testDB.ListWater(u.ID, today)
	if len(water) != 2 {
		t.Errorf("Expected 2 water logs, got %d", len(water))
	}

	steps, _ := testDB.ListSteps(u.ID, today)
	if len(steps) != 1 || steps[0].Steps != 10000 {
		t.Errorf("Expected one 10000 step log today, got %+v", steps)
	}
	if steps[0].DistanceKm == nil || *steps[0].DistanceKm != 7.5 {
		t.Errorf("DistanceKm = %v, want 7.5", steps[0].DistanceKm)
	}

	body, _ := testDB.ListBodyMetrics(u.ID, 0)
	if len(body) != 1 || math.Abs(body[0].WeightKg-80) > 0.01 {
		t.Errorf("Expected one 80 kg measurement, got %+v", body)
	}

	mustRun(t, "water", "list")
	mustRun(t, "steps", "list", "--days", "30")
	mustRun(t, "body", "list")
}

func TestWorkoutFlow(t *testing.T) {
	testDB := setupTestCLI(t)

	mustRun(t, "exercise", "add", "Squat", "legs", "glutes")
	exercises, _ := testDB.ListExercises(nil)
	if len(exercises) != 1 || exercises[0].Category != models.CategoryStrength {
		t.Fatalf("unexpected exercises: %+v", exercises)
	}

	mustRun(t, "workout", "template", "Leg Day")
	u := onlyUser(t, testDB)
	templates, _ := testDB.ListWorkouts(u.ID, storage.WorkoutFilter{Templates: true})
	if len(templates) != 1 {
		t.Fatalf("Expected 1 template, got %d", len(templates))
	}
	tmplID := templates[0].ID.String()[:8]

	mustRun(t, "workout", "add-exercise", tmplID, "squat")
	mustRun(t, "workout", "add-set", tmplID, "0", "5", "100")
	mustRun(t, "workout", "add-set", tmplID, "0", "5", "100")
	mustRun(t, "workout", "add-set", tmplID, "0", "10", "40", "--warmup")

	tmpl, err := testDB.GetWorkout(tmplID)
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if len(tmpl.Exercises) != 1 || len(tmpl.Exercises[0].Sets) != 3 {
		t.Fatalf("template edits not saved: %+v", tmpl.Exercises)
	}

	mustRun(t, "workout", "last", tmplID)
	mustRun(t, "workout", "start", tmplID)

	sessions, _ := testDB.ListWorkouts(u.ID, storage.WorkoutFilter{})
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	sessionID := sessions[0].ID.String()[:8]

	mustRun(t, "workout", "toggle", sessionID, "0", "0")
	mustRun(t, "workout", "toggle", sessionID, "0", "2")
	if err := run(t, "workout", "toggle", sessionID, "0", "9"); err == nil {
		t.Error("Expected error toggling a missing set")
	}
	if err := run(t, "workout", "toggle", tmplID, "0", "0"); err == nil {
		t.Error("Expected error toggling a template set")
	}

	mustRun(t, "workout", "finish", sessionID)
	if err := run(t, "workout", "finish", sessionID); err == nil {
		t.Error("Expected error finishing twice")
	}

	w, err := testDB.GetWorkout(sessionID)
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if w.EndedAt == nil {
		t.Error("Expected session to be finished")
	}
	sets := w.Exercises[0].Sets
	if !sets[0].IsCompleted() || sets[1].IsCompleted() || !sets[2].IsCompleted() {
		t.Errorf("unexpected set completion: %+v", sets)
	}
	if w.TemplateID == nil || w.TemplateID.String()[:8] != tmplID {
		t.Errorf("TemplateID = %v, want %s", w.TemplateID, tmplID)
	}

	mustRun(t, "workout", "list")
	mustRun(t, "workout", "list", "--templates")
	mustRun(t, "workout", "show", sessionID)
	mustRun(t, "workout", "stats")
	mustRun(t, "workout", "last", tmplID)
	if err := run(t, "workout", "last", sessionID); err == nil {
		t.Error("Expected error asking last-performed of a session")
	}
}

func TestEmptyWorkoutCannotFinish(t *testing.T) {
	testDB := setupTestCLI(t)

	mustRun(t, "workout", "start", "--name", "Push")
	sessions, _ := testDB.ListWorkouts(onlyUser(t, testDB).ID, storage.WorkoutFilter{})
	if len(sessions) != 1 || sessions[0].Name != "Push" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
	if err := run(t, "workout", "finish", sessions[0].ID.String()[:8]); err == nil {
		t.Error("Expected error finishing a workout with no exercises")
	}
}

func TestWorkoutBelongsToUser(t *testing.T) {
	testDB := setupTestCLI(t)

	mustRun(t, "water", "add", "100")
	me := onlyUser(t, testDB)
	stranger := models.NewUser("other")
	if err := testDB.CreateUser(stranger); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	t.Setenv("FITLOG_USER_ID", me.ID.String())
	other := models.NewWorkout(stranger.ID, "Not mine")
	if err := testDB.CreateWorkout(other); err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}

	err := run(t, "workout", "show", other.ID.String()[:8])
	if err == nil || !strings.Contains(err.Error(), "workout not found") {
		t.Errorf("err = %v, want workout not found", err)
	}
}

func TestWorkoutLookupErrors(t *testing.T) {
	testDB := setupTestCLI(t)

	mustRun(t, "water", "add", "100")
	me := onlyUser(t, testDB)
	for _, id := range []string{
		"aaaaaaaa-0000-4000-8000-000000000001",
		"aaaaaaaa-0000-4000-8000-000000000002",
	} {
		w := models.NewWorkout(me.ID, "Twin")
		w.ID = uuid.MustParse(id)
		if err := testDB.CreateWorkout(w); err != nil {
			t.Fatalf("CreateWorkout failed: %v", err)
		}
	}

	err := run(t, "workout", "show", "aaaaaaaa")
	if !errors.Is(err, storage.ErrAmbiguous) {
		t.Errorf("ambiguous prefix: err = %v, want ErrAmbiguous", err)
	}
	if err != nil && strings.Contains(err.Error(), "workout not found") {
		t.Errorf("ambiguous prefix reported as missing: %v", err)
	}

	err = run(t, "workout", "show", "ffffffff")
	if err == nil || !strings.Contains(err.Error(), "workout not found") {
		t.Errorf("unknown prefix: err = %v, want workout not found", err)
	}

	mustRun(t, "workout", "show", "aaaaaaaa-0000-4000-8000-000000000002")
}

func TestSeveralProfilesNeedUserID(t *testing.T) {
	testDB := setupTestCLI(t)

	a, b := models.NewUser("a"), models.NewUser("b")
	for _, u := range []*models.User{a, b} {
		if err := testDB.CreateUser(u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	err := run(t, "water", "add", "250")
	if err == nil || !strings.Contains(err.Error(), "profiles found") {
		t.Fatalf("err = %v, want profiles found", err)
	}

	t.Setenv("FITLOG_USER_ID", b.ID.String())
	mustRun(t, "water", "add", "250")
	water, _ := testDB.ListWater(b.ID, storage.Range{})
	if len(water) != 1 {
		t.Errorf("Expected water logged for b, got %d", len(water))
	}
}

func TestExportImport(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "food", "add", "Oats", "--calories", "389")
	mustRun(t, "water", "add", "300")

	out := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, "export", "json", "-o", out)
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"Oats"`) {
		t.Error("Expected export to contain the food")
	}
	mustRun(t, "export", "yaml")
	if err := run(t, "export", "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}

	// Importing into a fresh store restores the records.
	fresh := setupTestCLI(t)
	mustRun(t, "import", out)
	foods, _ := fresh.SearchFoods(uuid.Nil, "Oats", 0)
	if len(foods) != 1 {
		t.Errorf("Expected imported food, got %d", len(foods))
	}
	if err := run(t, "import", out); err == nil {
		t.Error("Expected error importing duplicates")
	}
}

func TestToken(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "token"); err == nil {
		t.Error("Expected error without a jwt secret")
	}

	t.Setenv("FITLOG_JWT_SECRET", "test-secret")
	mustRun(t, "token", "--ttl", "1h")
}

func TestServeRequiresSecret(t *testing.T) {
	setupTestCLI(t)

	err := run(t, "serve", "--addr", "127.0.0.1:0")
	if err == nil || !strings.Contains(err.Error(), "jwt secret") {
		t.Errorf("err = %v, want jwt secret error", err)
	}
}
