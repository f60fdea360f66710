// ABOUTME: CLI commands for the food catalogue and meal logging.
// ABOUTME: food add|search, meal log|list|rm, and the daily summary.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/calc"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/session"
	"github.com/harperreed/fitlog/internal/stats"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/validation"
	"github.com/spf13/cobra"
)

var (
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
	foodBrand    string
	foodBarcode  string
	foodServings []string
	foodLimit    int

	mealType string
	mealAt   string
	mealDate string

	summaryDate string
)

var foodCmd = &cobra.Command{
	Use:     "food",
	Aliases: []string{"f"},
	Short:   "Manage the food catalogue",
	Long: `Foods store nutrition per 100 g. Named servings (cup, slice, scoop)
map to a weight in grams so meals can be logged in them.`,
}

var foodAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom food",
	Long: `Add a custom food with nutrition per 100 g.

Examples:
  fitlog food add "Chicken breast" --calories 165 --protein 31 --fat 3.6
  fitlog food add "Oats" --calories 389 --protein 16.9 --carbs 66.3 --fat 6.9 --serving cup=80`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}

		f := models.NewFood(args[0], foodCalories, foodProtein, foodCarbs, foodFat)
		f.Brand = foodBrand
		f.Barcode = foodBarcode
		owner := sess.UserID
		f.UserID = &owner
		for _, raw := range foodServings {
			s, err := parseServing(raw)
			if err != nil {
				return err
			}
			f.ServingSizes = append(f.ServingSizes, s)
		}

		if err := validation.Struct(f); err != nil {
			return err
		}
		if err := db.CreateFood(f); err != nil {
			return fmt.Errorf("failed to create food: %w", err)
		}

		color.Green("✓ Added %s", f.Name)
		fmt.Printf("  %s %.0f kcal per 100 g\n", color.New(color.Faint).Sprint(f.ID.String()[:8]), f.CaloriesPer100g)
		return nil
	},
}

// parseServing reads unit=grams, e.g. cup=80.
func parseServing(raw string) (models.ServingSize, error) {
	unit, grams, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(unit) == "" {
		return models.ServingSize{}, fmt.Errorf("invalid serving %q (use unit=grams)", raw)
	}
	g, err := strconv.ParseFloat(strings.TrimSpace(grams), 64)
	if err != nil || g <= 0 {
		return models.ServingSize{}, fmt.Errorf("invalid serving weight in %q", raw)
	}
	return models.ServingSize{Unit: strings.TrimSpace(unit), Grams: g}, nil
}

var foodSearchCmd = &cobra.Command{
	Use:     "search [query]",
	Aliases: []string{"ls"},
	Short:   "Search foods by name, brand or barcode",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		sess, err := currentSession()
		if err != nil {
			return err
		}
		foods, err := db.SearchFoods(sess.UserID, query, foodLimit)
		if err != nil {
			return fmt.Errorf("failed to search foods: %w", err)
		}
		if len(foods) == 0 {
			fmt.Println("No foods found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, f := range foods {
			var units []string
			for _, s := range f.ServingSizes {
				units = append(units, fmt.Sprintf("%s=%gg", s.Unit, s.Grams))
			}
			fmt.Printf("%s %s %5.0f kcal  P %.1f  C %.1f  F %.1f %s\n",
				faint.Sprint(f.ID.String()[:8]),
				padRight(truncate(f.Name, 24), 24),
				f.CaloriesPer100g, f.ProteinPer100g, f.CarbsPer100g, f.FatPer100g,
				faint.Sprint(strings.Join(units, " ")))
		}
		return nil
	},
}

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"m"},
	Short:   "Log and review meals",
	Long: `Meals snapshot the food's nutrition when logged. Editing a food later
never changes meals already logged.`,
}

var mealLogCmd = &cobra.Command{
	Use:   "log <food> <amount> [unit]",
	Short: "Log a serving of a food",
	Long: `Log a serving. The unit defaults to grams; kg, oz, lb and any serving
the food defines also work.

Examples:
  fitlog meal log chicken 150 --type lunch
  fitlog meal log oats 1 cup --type breakfast
  fitlog meal log abc12345 2 slice --at "2025-03-07 08:00"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidMealType(mealType) {
			return fmt.Errorf("unknown meal type: %s (use breakfast, lunch, dinner or snack)", mealType)
		}
		size, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %s", args[1])
		}
		unit := "g"
		if len(args) > 2 {
			unit = args[2]
		}
		at := time.Now()
		if mealAt != "" {
			if at, err = parseTime(mealAt); err != nil {
				return fmt.Errorf("invalid timestamp: %s", mealAt)
			}
		}

		sess, err := currentSession()
		if err != nil {
			return err
		}
		food, err := storage.FindFood(db, sess.UserID, args[0])
		if err != nil {
			return err
		}
		m, err := calc.LogServing(sess.UserID, models.MealType(mealType), food, size, unit, at)
		if err != nil {
			return err
		}
		if err := validation.Struct(m); err != nil {
			return err
		}
		if err := db.CreateMeal(m); err != nil {
			return fmt.Errorf("failed to log meal: %w", err)
		}

		color.Green("✓ Logged %s", food.Name)
		fmt.Printf("  %s %g %s  %.0f kcal  P %.1f  C %.1f  F %.1f\n",
			color.New(color.Faint).Sprint(m.ID.String()[:8]),
			size, unit, m.Calories, m.ProteinG, m.CarbsG, m.FatG)
		return nil
	},
}

var mealListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a day's meals",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		day, err := dayFlag(sess, mealDate)
		if err != nil {
			return err
		}
		meals, err := db.ListMeals(sess.UserID, storage.DayRange(day))
		if err != nil {
			return fmt.Errorf("failed to list meals: %w", err)
		}
		if len(meals) == 0 {
			fmt.Println("No meals logged.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, m := range meals {
			expandFood(m)
			n := stats.MealNutrition(m)
			fmt.Printf("%s %s %s %s %5.0f kcal\n",
				faint.Sprint(m.ID.String()[:8]),
				faint.Sprint(m.Date.Format("15:04")),
				padRight(string(m.MealType), 10),
				padRight(truncate(mealLabel(m), 28), 28),
				n.Calories)
		}
		fmt.Printf("Total: %.0f kcal\n", stats.DailyTotals(meals, day).Calories)
		return nil
	},
}

// expandFood attaches the catalogue record so the meal can show its name.
// A food deleted since logging leaves the bare reference.
func expandFood(m *models.MealLog) {
	if m.Food.ID() == uuid.Nil || m.Food.IsExpanded() {
		return
	}
	if f, err := db.GetFood(m.Food.ID().String()); err == nil {
		m.Food = models.Expanded(f.ID, f)
	}
}

func mealLabel(m *models.MealLog) string {
	if f, ok := m.Food.Record(); ok {
		return fmt.Sprintf("%s %g%s", f.Name, m.ServingSize, m.ServingUnit)
	}
	if len(m.Items) > 0 {
		return fmt.Sprintf("%d items", len(m.Items))
	}
	return fmt.Sprintf("%g %s", m.ServingSize, m.ServingUnit)
}

var mealRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a logged meal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		m, err := db.GetMeal(args[0])
		if err != nil || m.UserID != sess.UserID {
			return fmt.Errorf("meal not found: %s", args[0])
		}
		if err := db.DeleteMeal(m.ID.String()); err != nil {
			return fmt.Errorf("failed to delete meal: %w", err)
		}

		color.Yellow("✗ Deleted %s", m.MealType)
		fmt.Printf("  %s %.0f kcal\n", color.New(color.Faint).Sprint(m.ID.String()[:8]), m.Calories)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"today"},
	Short:   "Show a day's totals against your goal",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			return err
		}
		day, err := dayFlag(sess, summaryDate)
		if err != nil {
			return err
		}
		s, err := storage.Summarize(db, sess.UserID, day)
		if err != nil {
			return fmt.Errorf("failed to summarize: %w", err)
		}
		printSummary(s)
		return nil
	},
}

func printSummary(s stats.DaySummary) {
	fmt.Printf("Summary for %s\n", s.Date)
	if s.Target == nil {
		fmt.Printf("  Calories: %.0f kcal\n", s.Consumed.Calories)
		fmt.Printf("  Protein:  %.1fg\n", s.Consumed.ProteinG)
		fmt.Printf("  Carbs:    %.1fg\n", s.Consumed.CarbsG)
		fmt.Printf("  Fat:      %.1fg\n", s.Consumed.FatG)
		color.New(color.Faint).Println("  No goal set")
	} else {
		fmt.Printf("  Calories: %.0f / %d kcal (%d%%)\n", s.Consumed.Calories, s.Target.CalorieTarget, s.Percent["calories"])
		fmt.Printf("  Protein:  %.1f / %dg (%d%%)\n", s.Consumed.ProteinG, s.Target.ProteinG, s.Percent["protein"])
		fmt.Printf("  Carbs:    %.1f / %dg (%d%%)\n", s.Consumed.CarbsG, s.Target.CarbsG, s.Percent["carbs"])
		fmt.Printf("  Fat:      %.1f / %dg (%d%%)\n", s.Consumed.FatG, s.Target.FatG, s.Percent["fat"])
		if s.Remaining >= 0 {
			color.Green("  %d kcal remaining", s.Remaining)
		} else {
			color.Yellow("  %d kcal over", -s.Remaining)
		}
	}
	fmt.Printf("  Water:    %d ml\n", s.WaterMl)
	fmt.Printf("  Steps:    %d\n", s.Steps)
}

// dayFlag parses an optional YYYY-MM-DD flag, defaulting to today.
func dayFlag(sess session.Session, raw string) (time.Time, error) {
	if raw == "" {
		return sess.Today(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, sess.Now().Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", raw)
	}
	return t, nil
}

func init() {
	f := foodAddCmd.Flags()
	f.Float64Var(&foodCalories, "calories", 0, "kcal per 100 g")
	f.Float64Var(&foodProtein, "protein", 0, "protein grams per 100 g")
	f.Float64Var(&foodCarbs, "carbs", 0, "carb grams per 100 g")
	f.Float64Var(&foodFat, "fat", 0, "fat grams per 100 g")
	f.StringVar(&foodBrand, "brand", "", "brand name")
	f.StringVar(&foodBarcode, "barcode", "", "barcode")
	f.StringSliceVar(&foodServings, "serving", nil, "named serving as unit=grams (repeatable)")
	foodSearchCmd.Flags().IntVarP(&foodLimit, "limit", "n", 20, "max number of results")

	foodCmd.AddCommand(foodAddCmd)
	foodCmd.AddCommand(foodSearchCmd)
	rootCmd.AddCommand(foodCmd)

	mealLogCmd.Flags().StringVarP(&mealType, "type", "t", string(models.MealSnack), "breakfast, lunch, dinner or snack")
	mealLogCmd.Flags().StringVar(&mealAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	mealListCmd.Flags().StringVarP(&mealDate, "date", "d", "", "day to list (YYYY-MM-DD)")

	mealCmd.AddCommand(mealLogCmd)
	mealCmd.AddCommand(mealListCmd)
	mealCmd.AddCommand(mealRmCmd)
	rootCmd.AddCommand(mealCmd)

	summaryCmd.Flags().StringVarP(&summaryDate, "date", "d", "", "day to summarize (YYYY-MM-DD)")
	rootCmd.AddCommand(summaryCmd)
}
