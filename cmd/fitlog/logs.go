// ABOUTME: CLI commands for daily logs: water, steps and body measurements.
// ABOUTME: Also manages the exercise catalogue used by workouts.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/calc"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/stats"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/validation"
	"github.com/spf13/cobra"
)

var (
	waterAt   string
	waterDate string

	stepsDate     string
	stepsDistance float64
	stepsDays     int

	bodyLb      bool
	bodyFat     float64
	bodyWaist   float64
	bodyChest   float64
	bodyArms    float64
	bodyNotes   string
	bodyAt      string
	bodyLimit   int
	exCategory  string
	exEquipment string
)

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Log water intake",
}

var waterAddCmd = &cobra.Command{
	Use:   "add <ml>",
	Short: "Record a drink in millilitres",
	Long: `Record a drink. Amounts run from 1 to 10000 ml.

Examples:
  fitlog water add 500
  fitlog water add 250 --at "2025-03-07 09:30"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ml, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount: %s", args[0])
		}
		sess, err := currentSession()
		if err != nil {
			return err
		}

		l := models.NewWaterLog(sess.UserID, ml)
		if waterAt != "" {
			if l.Date, err = parseTime(waterAt); err != nil {
				return fmt.Errorf("invalid timestamp: %s", waterAt)
			}
		}
		if err := validation.Struct(l); err != nil {
			return err
		}
		if err := db.CreateWater(l); err != nil {
			return fmt.Errorf("failed to log water: %w", err)
		}

		day := sess.Day(l.Date)
		logs, err := db.ListWater(sess.UserID, storage.DayRange(day))
		if err != nil {
			return fmt.Errorf("failed to list water: %w", err)
		}
		color.Green("✓ Added %d ml", l.AmountMl)
		fmt.Printf("  %s %d ml on %s\n",
			color.New(color.Faint).Sprint(l.ID.String()[:8]),
			stats.WaterTotal(logs, day), day.Format("2006-01-02"))
		return nil
	},
}

var waterListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a day's drinks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		day, err := dayFlag(sess, waterDate)
		if err != nil {
			return err
		}
		logs, err := db.ListWater(sess.UserID, storage.DayRange(day))
		if err != nil {
			return fmt.Errorf("failed to list water: %w", err)
		}
		if len(logs) == 0 {
			fmt.Println("No water logged.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, l := range logs {
			fmt.Printf("%s %s %d ml\n",
				faint.Sprint(l.ID.String()[:8]),
				faint.Sprint(l.Date.Format("15:04")),
				l.AmountMl)
		}
		fmt.Printf("Total: %d ml\n", stats.WaterTotal(logs, day))
		return nil
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Record daily step counts",
	Long:  `One count per day. Setting a day again replaces its count.`,
}

var stepsSetCmd = &cobra.Command{
	Use:   "set <count>",
	Short: "Set a day's step count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count: %s", args[0])
		}
		sess, err := currentSession()
		if err != nil {
			return err
		}
		day, err := dayFlag(sess, stepsDate)
		if err != nil {
			return err
		}

		l := models.NewStepLog(sess.UserID, day, n)
		if stepsDistance > 0 {
			km := stepsDistance
			l.DistanceKm = &km
		}
		if err := validation.Struct(l); err != nil {
			return err
		}
		if err := db.SaveSteps(l); err != nil {
			return fmt.Errorf("failed to save steps: %w", err)
		}

		color.Green("✓ %s: %d steps", day.Format("2006-01-02"), n)
		return nil
	},
}

var stepsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent step counts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		today := sess.Today()
		r := storage.Range{From: today.AddDate(0, 0, -(stepsDays - 1)), To: today.AddDate(0, 0, 1)}
		logs, err := db.ListSteps(sess.UserID, r)
		if err != nil {
			return fmt.Errorf("failed to list steps: %w", err)
		}
		if len(logs) == 0 {
			fmt.Println("No steps recorded.")
			return nil
		}

		for _, l := range logs {
			distance := ""
			if l.DistanceKm != nil {
				distance = fmt.Sprintf("%.1f km", *l.DistanceKm)
			}
			fmt.Printf("%s %s %s\n",
				color.New(color.Faint).Sprint(l.Date.Format("2006-01-02")),
				padRight(strconv.Itoa(l.Steps), 8),
				distance)
		}
		return nil
	},
}

var bodyCmd = &cobra.Command{
	Use:   "body",
	Short: "Record body weight and measurements",
}

var bodyAddCmd = &cobra.Command{
	Use:   "add <weight>",
	Short: "Record body weight",
	Long: `Record body weight in kilograms, or pounds with --lb.

Examples:
  fitlog body add 79.6
  fitlog body add 175.5 --lb --body-fat 18 --waist 84`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[0])
		}
		if bodyLb {
			weight = calc.LbToKg(weight)
		}
		sess, err := currentSession()
		if err != nil {
			return err
		}

		b := models.NewBodyMetrics(sess.UserID, weight)
		if bodyAt != "" {
			if b.RecordedAt, err = parseTime(bodyAt); err != nil {
				return fmt.Errorf("invalid timestamp: %s", bodyAt)
			}
		}
		b.BodyFatPct = optional(bodyFat)
		b.WaistCm = optional(bodyWaist)
		b.ChestCm = optional(bodyChest)
		b.ArmsCm = optional(bodyArms)
		if bodyNotes != "" {
			b.WithNotes(bodyNotes)
		}
		if err := validation.Struct(b); err != nil {
			return err
		}
		if err := db.CreateBodyMetrics(b); err != nil {
			return fmt.Errorf("failed to record body metrics: %w", err)
		}

		color.Green("✓ Recorded %.1f kg", b.WeightKg)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(b.ID.String()[:8]),
			b.RecordedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

func optional(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

var bodyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent measurements",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		logs, err := db.ListBodyMetrics(sess.UserID, bodyLimit)
		if err != nil {
			return fmt.Errorf("failed to list body metrics: %w", err)
		}
		if len(logs) == 0 {
			fmt.Println("No measurements recorded.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, b := range logs {
			extra := ""
			if b.BodyFatPct != nil {
				extra += fmt.Sprintf(" %.1f%% fat", *b.BodyFatPct)
			}
			if b.WaistCm != nil {
				extra += fmt.Sprintf(" waist %.1f cm", *b.WaistCm)
			}
			if b.Notes != nil && *b.Notes != "" {
				extra += faint.Sprintf(" (%s)", truncate(*b.Notes, 30))
			}
			fmt.Printf("%s %s %6.1f kg%s\n",
				faint.Sprint(b.ID.String()[:8]),
				faint.Sprint(b.RecordedAt.Format("2006-01-02 15:04")),
				b.WeightKg,
				extra)
		}
		return nil
	},
}

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise catalogue",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name> <muscle-group>...",
	Short: "Add a custom exercise",
	Long: `Add a custom exercise with one or more muscle groups.

Examples:
  fitlog exercise add "Bulgarian Split Squat" legs glutes
  fitlog exercise add "Rowing" back --category cardio --equipment erg`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		category := models.CategoryStrength
		if exCategory != "" {
			category = models.ExerciseCategory(exCategory)
		}
		e := models.NewExercise(args[0], category, args[1:]...)
		e.Equipment = exEquipment
		e.IsCustom = true
		creator := sess.UserID
		e.CreatedBy = &creator
		if err := validation.Struct(e); err != nil {
			return err
		}
		if err := db.CreateExercise(e); err != nil {
			return fmt.Errorf("failed to create exercise: %w", err)
		}

		color.Green("✓ Added %s", e.Name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(e.ID.String()[:8]), strings.Join(e.MuscleGroups, ", "))
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var category *models.ExerciseCategory
		if exCategory != "" {
			c := models.ExerciseCategory(exCategory)
			category = &c
		}
		exercises, err := db.ListExercises(category)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range exercises {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(e.ID.String()[:8]),
				padRight(truncate(e.Name, 28), 28),
				padRight(string(e.Category), 9),
				faint.Sprint(strings.Join(e.MuscleGroups, ", ")))
		}
		return nil
	},
}

func init() {
	waterAddCmd.Flags().StringVar(&waterAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	waterListCmd.Flags().StringVarP(&waterDate, "date", "d", "", "day to list (YYYY-MM-DD)")
	waterCmd.AddCommand(waterAddCmd)
	waterCmd.AddCommand(waterListCmd)
	rootCmd.AddCommand(waterCmd)

	stepsSetCmd.Flags().StringVarP(&stepsDate, "date", "d", "", "day (YYYY-MM-DD), default today")
	stepsSetCmd.Flags().Float64Var(&stepsDistance, "distance", 0, "distance in km")
	stepsListCmd.Flags().IntVar(&stepsDays, "days", 7, "number of days to show")
	stepsCmd.AddCommand(stepsSetCmd)
	stepsCmd.AddCommand(stepsListCmd)
	rootCmd.AddCommand(stepsCmd)

	f := bodyAddCmd.Flags()
	f.BoolVar(&bodyLb, "lb", false, "weight is in pounds")
	f.Float64Var(&bodyFat, "body-fat", 0, "body fat percentage")
	f.Float64Var(&bodyWaist, "waist", 0, "waist in cm")
	f.Float64Var(&bodyChest, "chest", 0, "chest in cm")
	f.Float64Var(&bodyArms, "arms", 0, "arms in cm")
	f.StringVar(&bodyNotes, "notes", "", "notes")
	f.StringVar(&bodyAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	bodyListCmd.Flags().IntVarP(&bodyLimit, "limit", "n", 20, "max number of results")
	bodyCmd.AddCommand(bodyAddCmd)
	bodyCmd.AddCommand(bodyListCmd)
	rootCmd.AddCommand(bodyCmd)

	exerciseCmd.PersistentFlags().StringVarP(&exCategory, "category", "c", "", "strength or cardio")
	exerciseAddCmd.Flags().StringVar(&exEquipment, "equipment", "", "equipment used")
	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	rootCmd.AddCommand(exerciseCmd)
}
