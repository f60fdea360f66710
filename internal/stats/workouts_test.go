// ABOUTME: Tests for weekly volume, streaks and last-performed labels.
// ABOUTME: Includes the reference streak and Wednesday-volume cases.
package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday 2025-03-07, 18:00.
var friday = time.Date(2025, 3, 7, 18, 0, 0, 0, time.UTC)

func session(t *testing.T, start time.Time, sets ...models.WorkoutSet) *models.Workout {
	t.Helper()
	w := models.NewWorkout(uuid.New(), "session").WithStartedAt(start)
	require.NoError(t, w.AddExercise(models.Reference[models.Exercise](uuid.New())))
	for _, s := range sets {
		require.NoError(t, w.AddSet(0, s))
	}
	return w
}

func done(at time.Time, kg float64, reps int) models.WorkoutSet {
	return models.WorkoutSet{WeightKg: kg, Reps: reps, CompletedAt: &at}
}

func finished(t *testing.T, start time.Time) *models.Workout {
	t.Helper()
	w := session(t, start, done(start, 50, 5))
	require.NoError(t, w.Finish(start.Add(time.Hour)))
	return w
}

func TestStartOfWeek(t *testing.T) {
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), StartOfWeek(friday))

	sunday := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))

	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, StartOfWeek(monday))
}

func TestWeeklyVolume(t *testing.T) {
	wednesday := time.Date(2025, 3, 5, 18, 0, 0, 0, time.UTC)

	w := session(t, wednesday,
		done(wednesday, 80, 8),
		models.WorkoutSet{WeightKg: 80, Reps: 8},
		models.WorkoutSet{WeightKg: 40, Reps: 10, IsWarmup: true, CompletedAt: &wednesday},
	)
	lastWeek := session(t, wednesday.AddDate(0, 0, -7), done(wednesday, 100, 5))
	tmpl := models.NewTemplate(uuid.New(), "tmpl").WithStartedAt(wednesday)

	got := WeeklyVolume([]*models.Workout{w, lastWeek, tmpl, nil}, friday)
	assert.Equal(t, [7]float64{0, 0, 640, 0, 0, 0, 0}, got)
}

func TestWeeklyVolumeWarmupOnly(t *testing.T) {
	wednesday := time.Date(2025, 3, 5, 18, 0, 0, 0, time.UTC)
	w := session(t, wednesday, models.WorkoutSet{WeightKg: 80, Reps: 8, IsWarmup: true, CompletedAt: &wednesday})

	assert.Equal(t, [7]float64{}, WeeklyVolume([]*models.Workout{w}, friday))
}

func TestStreak(t *testing.T) {
	offsets := func(days ...int) []*models.Workout {
		var out []*models.Workout
		for _, d := range days {
			out = append(out, finished(t, friday.AddDate(0, 0, -d)))
		}
		return out
	}

	tests := []struct {
		name     string
		sessions []*models.Workout
		want     int
	}{
		{"gap after three", offsets(0, 1, 2, 4), 3},
		{"unordered input", offsets(2, 0, 4, 1), 3},
		{"none today", offsets(1, 2), 0},
		{"empty", nil, 0},
		{"same-day duplicates absorbed", offsets(0, 0, 1, 1, 2), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.sessions, friday))
		})
	}
}

func TestStreakIgnoresIncompleteSessions(t *testing.T) {
	empty := session(t, friday, models.WorkoutSet{WeightKg: 60, Reps: 5})
	tmpl := models.NewTemplate(uuid.New(), "tmpl").WithStartedAt(friday)
	assert.Equal(t, 0, Streak([]*models.Workout{empty, tmpl}, friday))

	// A completed working set counts even before the session is finished.
	live := session(t, friday, done(friday, 60, 5))
	assert.Equal(t, 1, Streak([]*models.Workout{live}, friday))
}

func TestTimeAgo(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "Today"},
		{23 * time.Hour, "Today"},
		{24 * time.Hour, "Yesterday"},
		{3 * 24 * time.Hour, "3 days ago"},
		{7 * 24 * time.Hour, "1 week ago"},
		{8 * 24 * time.Hour, "1 week ago"},
		{15 * 24 * time.Hour, "2 weeks ago"},
		{30 * 24 * time.Hour, "1 month ago"},
		{75 * 24 * time.Hour, "2 months ago"},
		{-time.Hour, "Today"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(friday.Add(-tt.ago), friday))
		})
	}
}

func TestLastPerformed(t *testing.T) {
	tmpl := models.NewTemplate(uuid.New(), "Push")
	require.NoError(t, tmpl.AddExercise(models.Reference[models.Exercise](uuid.New())))

	assert.Equal(t, "Never", LastPerformedLabel(tmpl, nil, friday))

	start := func(at time.Time) *models.Workout {
		w, err := models.StartFromTemplate(tmpl, at)
		require.NoError(t, err)
		return w
	}

	old := start(friday.AddDate(0, 0, -20))
	require.NoError(t, old.Finish(friday.AddDate(0, 0, -20)))
	recent := start(friday.AddDate(0, 0, -8))
	require.NoError(t, recent.Finish(friday.AddDate(0, 0, -8)))
	unfinished := start(friday)
	other := finished(t, friday)

	sessions := []*models.Workout{old, unfinished, recent, other}
	got, ok := LastPerformed(tmpl, sessions)
	require.True(t, ok)
	assert.Equal(t, recent.ID, got.ID)
	assert.Equal(t, "1 week ago", LastPerformedLabel(tmpl, sessions, friday))
}

func TestComputeWorkoutStats(t *testing.T) {
	wed := finished(t, time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC))
	fri := finished(t, friday)

	st := ComputeWorkoutStats([]*models.Workout{wed, fri}, friday)
	assert.Equal(t, 1, st.Streak)
	assert.Equal(t, 2, st.WorkoutsThisWeek)
	assert.Equal(t, 500.0, st.WeekTotal)
}
