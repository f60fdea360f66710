// ABOUTME: CLI commands for workout templates and sessions.
// ABOUTME: Edits go through the autosave tracker; stats and last-performed read the store.
package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/calc"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/stats"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/validation"
	"github.com/spf13/cobra"
)

var (
	workoutNotes     string
	workoutName      string
	workoutWarmup    bool
	workoutLb        bool
	workoutTemplates bool
	workoutLimit     int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts and templates",
	Long: `Track strength sessions set by set.

A template is a reusable plan: exercises with target sets. Starting a
session from a template copies its sets, all marked not done. Tick sets off
as you go, then finish the session. Finished sessions can't be edited.

WORKFLOW:

  1. Create a template:    fitlog workout template "Leg Day"
  2. Add an exercise:      fitlog workout add-exercise abc123 squat
  3. Add target sets:      fitlog workout add-set abc123 0 5 100
  4. Start a session:      fitlog workout start abc123
  5. Tick off a set:       fitlog workout toggle def456 0 0
  6. Finish:               fitlog workout finish def456

Only completed, non-warmup sets count toward volume and streaks.`,
}

var workoutTemplateCmd = &cobra.Command{
	Use:   "template <name>",
	Short: "Create a workout template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		tmpl := models.NewTemplate(sess.UserID, args[0])
		if workoutNotes != "" {
			tmpl.WithNotes(workoutNotes)
		}
		if err := validation.Struct(tmpl); err != nil {
			return err
		}
		if err := db.CreateWorkout(tmpl); err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}

		color.Green("✓ Created template %s", tmpl.Name)
		fmt.Printf("  ID: %s\n", tmpl.ID.String()[:8])
		return nil
	},
}

var workoutAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise <workout-id> <exercise>",
	Short: "Add an exercise to a workout or template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		w, err := ownedWorkout(sess, args[0])
		if err != nil {
			return err
		}
		ex, err := db.FindExercise(args[1])
		if err != nil {
			return fmt.Errorf("exercise not found: %s", args[1])
		}
		w, err = workouts().AddExercise(w.ID.String(), models.Reference[models.Exercise](ex.ID))
		if err != nil {
			return err
		}

		color.Green("✓ Added %s", ex.Name)
		fmt.Printf("  exercise %d in %s\n", len(w.Exercises)-1, w.Name)
		return nil
	},
}

var workoutAddSetCmd = &cobra.Command{
	Use:   "add-set <workout-id> <exercise-index> <reps> [weight]",
	Short: "Add a set to an exercise",
	Long: `Add a set to the exercise at the given zero-based position.
Weight is in kilograms, or pounds with --lb.

Examples:
  fitlog workout add-set abc123 0 5 100
  fitlog workout add-set abc123 0 10 40 --warmup`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		exIdx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid exercise index: %s", args[1])
		}
		reps, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[2])
		}
		weight := 0.0
		if len(args) > 3 {
			if weight, err = strconv.ParseFloat(args[3], 64); err != nil {
				return fmt.Errorf("invalid weight: %s", args[3])
			}
		}
		if workoutLb {
			weight = calc.LbToKg(weight)
		}

		sess, err := currentSession()
		if err != nil {
			return err
		}
		w, err := ownedWorkout(sess, args[0])
		if err != nil {
			return err
		}
		set := models.WorkoutSet{Reps: reps, WeightKg: weight, IsWarmup: workoutWarmup}
		if err := validation.Struct(set); err != nil {
			return err
		}
		w, err = workouts().AddSet(w.ID.String(), exIdx, set)
		if err != nil {
			return err
		}

		sets := w.Exercises[exIdx].Sets
		color.Green("✓ Added set %d", sets[len(sets)-1].SetNumber)
		fmt.Printf("  %d x %g kg\n", reps, weight)
		return nil
	},
}

var workoutStartCmd = &cobra.Command{
	Use:   "start [template-id]",
	Short: "Start a session, empty or from a template",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}

		var w *models.Workout
		if len(args) > 0 {
			tmpl, err := ownedWorkout(sess, args[0])
			if err != nil {
				return err
			}
			if w, err = models.StartFromTemplate(tmpl, time.Now()); err != nil {
				return err
			}
		} else {
			name := workoutName
			if name == "" {
				name = "Workout"
			}
			w = models.NewWorkout(sess.UserID, name)
		}
		if workoutNotes != "" {
			w.WithNotes(workoutNotes)
		}
		if err := db.CreateWorkout(w); err != nil {
			return fmt.Errorf("failed to start workout: %w", err)
		}

		color.Green("✓ Started %s", w.Name)
		fmt.Printf("  ID: %s\n", w.ID.String()[:8])
		fmt.Printf("  %d exercises, %d sets\n", len(w.Exercises), countSets(w))
		return nil
	},
}

var workoutToggleCmd = &cobra.Command{
	Use:   "toggle <workout-id> <exercise-index> <set-index>",
	Short: "Mark a set done, or undo it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		exIdx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid exercise index: %s", args[1])
		}
		setIdx, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid set index: %s", args[2])
		}
		sess, err := currentSession()
		if err != nil {
			return err
		}
		w, err := ownedWorkout(sess, args[0])
		if err != nil {
			return err
		}
		w, err = workouts().ToggleSet(w.ID.String(), exIdx, setIdx, time.Now())
		if err != nil {
			return err
		}

		set := w.Exercises[exIdx].Sets[setIdx]
		if set.IsCompleted() {
			color.Green("✓ Set %d done", set.SetNumber)
		} else {
			color.Yellow("✗ Set %d not done", set.SetNumber)
		}
		return nil
	},
}

var workoutFinishCmd = &cobra.Command{
	Use:   "finish <workout-id>",
	Short: "Finish a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		w, err := ownedWorkout(sess, args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		w, err = workouts().Finish(ctx, w.ID.String(), time.Now())
		if err != nil {
			return err
		}

		color.Green("✓ Finished %s", w.Name)
		fmt.Printf("  Duration: %s\n", w.EndedAt.Sub(w.StartedAt).Round(time.Minute))
		fmt.Printf("  Volume: %.0f kg\n", stats.SessionVolume(w))
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions or templates",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		list, err := db.ListWorkouts(sess.UserID, storage.WorkoutFilter{Templates: workoutTemplates, Limit: workoutLimit})
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range list {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(w.ID.String()[:8]),
				faint.Sprint(w.StartedAt.Format("2006-01-02 15:04")),
				padRight(truncate(w.Name, 24), 24),
				w.State())
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <workout-id>",
	Short: "Show a workout with its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		w, err := ownedWorkout(sess, args[0])
		if err != nil {
			return err
		}
		if err := storage.ExpandExercises(db, w); err != nil {
			return err
		}

		fmt.Printf("Workout: %s\n", w.ID.String()[:8])
		fmt.Printf("Name: %s\n", w.Name)
		fmt.Printf("State: %s\n", w.State())
		if !w.IsTemplate {
			fmt.Printf("Started: %s\n", w.StartedAt.Format("2006-01-02 15:04"))
		}
		if w.EndedAt != nil {
			fmt.Printf("Ended: %s\n", w.EndedAt.Format("2006-01-02 15:04"))
		}
		if w.Notes != nil {
			fmt.Printf("Notes: %s\n", *w.Notes)
		}

		faint := color.New(color.Faint)
		for i, ex := range w.Exercises {
			name := ex.Exercise.ID().String()[:8]
			if e, ok := ex.Exercise.Record(); ok {
				name = e.Name
			}
			fmt.Printf("\n%d. %s\n", i, name)
			for j, s := range ex.Sets {
				mark := "[ ]"
				if s.IsCompleted() {
					mark = "[x]"
				}
				warmup := ""
				if s.IsWarmup {
					warmup = faint.Sprint(" warmup")
				}
				fmt.Printf("   %d %s %d x %g kg%s\n", j, mark, s.Reps, s.WeightKg, warmup)
			}
		}
		if !w.IsTemplate {
			fmt.Printf("\nVolume: %.0f kg\n", stats.SessionVolume(w))
		}
		return nil
	},
}

var workoutStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your streak and this week's volume",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		st, err := storage.WorkoutStats(db, sess.UserID, sess.Now())
		if err != nil {
			return err
		}

		fmt.Printf("Streak: %d days\n", st.Streak)
		fmt.Printf("This week: %d workouts, %.0f kg\n", st.WorkoutsThisWeek, st.WeekTotal)
		days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
		for i, v := range st.WeeklyVolume {
			fmt.Printf("  %s %8.0f kg\n", days[i], v)
		}
		return nil
	},
}

var workoutLastCmd = &cobra.Command{
	Use:   "last <template-id>",
	Short: "When a template was last completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		tmpl, err := ownedWorkout(sess, args[0])
		if err != nil {
			return err
		}
		if !tmpl.IsTemplate {
			return models.ErrNotTemplate
		}
		_, label, err := storage.LastPerformed(db, tmpl, sess.Now())
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", tmpl.Name, label)
		return nil
	},
}

func countSets(w *models.Workout) int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}

func init() {
	workoutTemplateCmd.Flags().StringVar(&workoutNotes, "notes", "", "notes")
	workoutStartCmd.Flags().StringVar(&workoutNotes, "notes", "", "notes")
	workoutStartCmd.Flags().StringVar(&workoutName, "name", "", "name for an empty session")
	workoutAddSetCmd.Flags().BoolVar(&workoutWarmup, "warmup", false, "warmup set (not counted in volume)")
	workoutAddSetCmd.Flags().BoolVar(&workoutLb, "lb", false, "weight is in pounds")
	workoutListCmd.Flags().BoolVar(&workoutTemplates, "templates", false, "list templates instead of sessions")
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")

	workoutCmd.AddCommand(workoutTemplateCmd)
	workoutCmd.AddCommand(workoutAddExerciseCmd)
	workoutCmd.AddCommand(workoutAddSetCmd)
	workoutCmd.AddCommand(workoutStartCmd)
	workoutCmd.AddCommand(workoutToggleCmd)
	workoutCmd.AddCommand(workoutFinishCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutStatsCmd)
	workoutCmd.AddCommand(workoutLastCmd)
	rootCmd.AddCommand(workoutCmd)
}
