// ABOUTME: Workout aggregation: weekly lifted volume, streaks and last-performed labels.
// ABOUTME: Only completed non-warmup sets of real sessions ever count.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/fitlog/internal/models"
)

// StartOfWeek returns the most recent Monday at 00:00 in now's location.
func StartOfWeek(now time.Time) time.Time {
	day := StartOfDay(now, now.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// weekdayIndex maps Monday to 0 through Sunday to 6.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// SessionVolume sums weight × reps over a workout's working sets.
func SessionVolume(w *models.Workout) float64 {
	total := 0.0
	for _, ex := range w.Exercises {
		for _, s := range ex.Sets {
			if !s.IsWorking() {
				continue
			}
			total += clean(s.WeightKg) * float64(max(s.Reps, 0))
		}
	}
	return total
}

// WeeklyVolume buckets this week's lifted volume by weekday, Monday first.
func WeeklyVolume(sessions []*models.Workout, now time.Time) [7]float64 {
	var buckets [7]float64
	start := StartOfWeek(now)
	end := start.AddDate(0, 0, 7)
	for _, w := range sessions {
		if w == nil || w.IsTemplate {
			continue
		}
		started := w.StartedAt.In(now.Location())
		if started.Before(start) || !started.Before(end) {
			continue
		}
		buckets[weekdayIndex(started)] += SessionVolume(w)
	}
	return buckets
}

// counts reports whether a session is a completed workout for streaks.
func counts(w *models.Workout) bool {
	if w == nil || w.IsTemplate {
		return false
	}
	if w.EndedAt != nil {
		return true
	}
	for _, ex := range w.Exercises {
		for _, s := range ex.Sets {
			if s.IsWorking() {
				return true
			}
		}
	}
	return false
}

// Streak counts consecutive days with a workout, walking back from today.
// Extra sessions on an already-counted day are skipped without extending
// the streak; the first gap ends it.
func Streak(sessions []*models.Workout, now time.Time) int {
	loc := now.Location()
	var days []int64
	for _, w := range sessions {
		if counts(w) {
			days = append(days, civilDay(w.StartedAt, loc))
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })

	today := civilDay(now, loc)
	counter := 0
	for _, d := range days {
		diff := int(today - d)
		if diff > counter {
			break
		}
		if diff == counter {
			counter++
		}
	}
	return counter
}

// LastPerformed finds the most recently finished session started from
// template.
func LastPerformed(template *models.Workout, sessions []*models.Workout) (*models.Workout, bool) {
	var best *models.Workout
	for _, w := range sessions {
		if w == nil || w.TemplateID == nil || *w.TemplateID != template.ID || w.EndedAt == nil {
			continue
		}
		if best == nil || w.EndedAt.After(*best.EndedAt) {
			best = w
		}
	}
	return best, best != nil
}

// LastPerformedLabel is the "time ago" label for a template, or "Never".
func LastPerformedLabel(template *models.Workout, sessions []*models.Workout, now time.Time) string {
	w, ok := LastPerformed(template, sessions)
	if !ok {
		return "Never"
	}
	return TimeAgo(*w.EndedAt, now)
}

// TimeAgo renders the whole days between t and now.
func TimeAgo(t, now time.Time) string {
	days := int(now.Sub(t) / (24 * time.Hour))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return plural(days/7, "week")
	default:
		return plural(days/30, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// WorkoutStats is the dashboard view of recent training.
type WorkoutStats struct {
	Streak           int        `json:"streak"`
	WeeklyVolume     [7]float64 `json:"weekly_volume"`
	WeekTotal        float64    `json:"week_total_volume"`
	WorkoutsThisWeek int        `json:"workouts_this_week"`
}

// ComputeWorkoutStats gathers streak and weekly volume for sessions.
func ComputeWorkoutStats(sessions []*models.Workout, now time.Time) WorkoutStats {
	st := WorkoutStats{
		Streak:       Streak(sessions, now),
		WeeklyVolume: WeeklyVolume(sessions, now),
	}
	for _, v := range st.WeeklyVolume {
		st.WeekTotal += v
	}
	start := StartOfWeek(now)
	end := start.AddDate(0, 0, 7)
	for _, w := range sessions {
		if counts(w) && !w.StartedAt.Before(start) && w.StartedAt.Before(end) {
			st.WorkoutsThisWeek++
		}
	}
	return st
}
