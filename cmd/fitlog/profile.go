// ABOUTME: CLI commands for the body profile and nutrition goal.
// ABOUTME: profile show|set and goal calc|set|show.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/calc"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/validation"
	"github.com/spf13/cobra"
)

var (
	profileName     string
	profileEmail    string
	profileHeightCm float64
	profileHeightIn float64
	profileWeightKg float64
	profileWeightLb float64
	profileDOB      string
	profileGender   string
	profileUnits    string

	goalActivity string
	goalCalories int
	goalWeightKg float64
	goalWeightLb float64
)

const activityLevels = "sedentary, light, moderate, very_active, extra_active"

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p"},
	Short:   "Show or update your body profile",
	Long: `Your profile drives the energy calculator: height, weight, date of birth
and gender. Until all four are set, targets fall back to 2400 kcal/day.

Heights and weights are stored metric. Imperial flags are converted.`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile and energy estimate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}
		printProfile(u, time.Now())
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Long: `Update one or more profile fields. Only the flags you pass are changed.

Examples:
  fitlog profile set --height-cm 180 --weight-kg 80 --dob 1995-03-07 --gender male
  fitlog profile set --weight-lb 176 --units imperial`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			u.Name = profileName
		}
		if flags.Changed("email") {
			u.Email = profileEmail
		}
		if flags.Changed("height-cm") {
			u.WithHeight(profileHeightCm)
		}
		if flags.Changed("height-in") {
			u.WithHeight(calc.InToCm(profileHeightIn))
		}
		if flags.Changed("weight-kg") {
			u.WithWeight(profileWeightKg)
		}
		if flags.Changed("weight-lb") {
			u.WithWeight(calc.LbToKg(profileWeightLb))
		}
		if flags.Changed("dob") {
			dob, err := time.Parse("2006-01-02", profileDOB)
			if err != nil {
				return fmt.Errorf("invalid date of birth: %s (use YYYY-MM-DD)", profileDOB)
			}
			u.WithDateOfBirth(dob)
		}
		if flags.Changed("gender") {
			u.WithGender(models.Gender(profileGender))
		}
		if flags.Changed("units") {
			u.Units = models.UnitSystem(profileUnits)
		}
		u.OnboardingCompleted = u.Profile().Complete()
		u.UpdatedAt = time.Now()

		if err := validation.Struct(u); err != nil {
			return err
		}
		if err := db.UpdateUser(u); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		color.Green("✓ Updated profile")
		printProfile(u, time.Now())
		return nil
	},
}

func printProfile(u *models.User, now time.Time) {
	faint := color.New(color.Faint)
	p := u.Profile()

	fmt.Printf("%s %s\n", faint.Sprint(u.ID.String()[:8]), u.Name)
	if u.HeightCm != nil {
		if u.Units == models.UnitsImperial {
			fmt.Printf("  Height: %.1f in\n", calc.CmToIn(*u.HeightCm))
		} else {
			fmt.Printf("  Height: %.1f cm\n", *u.HeightCm)
		}
	}
	if u.WeightKg != nil {
		if u.Units == models.UnitsImperial {
			fmt.Printf("  Weight: %.1f lb\n", calc.KgToLb(*u.WeightKg))
		} else {
			fmt.Printf("  Weight: %.1f kg\n", *u.WeightKg)
		}
	}
	if u.DateOfBirth != nil {
		fmt.Printf("  Age: %d\n", calc.AgeOn(*u.DateOfBirth, now))
	}
	if u.Gender != nil {
		fmt.Printf("  Gender: %s\n", *u.Gender)
	}

	if bmr, ok := calc.BMR(p, now); ok {
		fmt.Printf("  BMR: %.0f kcal/day\n", bmr)
		fmt.Printf("  TDEE (moderate): %d kcal/day\n", calc.TDEE(p, models.ActivityModerate, now))
	} else {
		color.Yellow("  Profile incomplete: targets use %d kcal/day", calc.FallbackTDEE)
	}
}

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"g"},
	Short:   "Calculate and set calorie and macro targets",
	Long: `Targets come from your TDEE scaled by goal:

  lose      TDEE x 0.85, 35% protein / 35% carbs / 30% fat
  maintain  TDEE,        30% protein / 40% carbs / 30% fat
  gain      TDEE x 1.10, 30% protein / 45% carbs / 25% fat

Pass --calories to use your own calorie target; macros follow the same split.`,
}

var goalCalcCmd = &cobra.Command{
	Use:       "calc <lose|maintain|gain>",
	Short:     "Preview targets without saving",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"lose", "maintain", "gain"},
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := planFor(args[0])
		if err != nil {
			return err
		}
		printPlan(plan)
		return nil
	},
}

var goalSetCmd = &cobra.Command{
	Use:       "set <lose|maintain|gain>",
	Short:     "Derive and save your targets",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"lose", "maintain", "gain"},
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := planFor(args[0])
		if err != nil {
			return err
		}
		u, err := currentUser()
		if err != nil {
			return err
		}

		g, err := db.GetGoal(u.ID)
		if errors.Is(err, storage.ErrNotFound) {
			g = models.NewGoal(u.ID, plan.GoalType, plan.ActivityLevel)
		} else if err != nil {
			return fmt.Errorf("failed to load goal: %w", err)
		}
		plan.ApplyTo(g)
		g.WeightGoalKg = nil
		if goalWeightKg > 0 {
			kg := goalWeightKg
			g.WeightGoalKg = &kg
		}
		if goalWeightLb > 0 {
			kg := calc.LbToKg(goalWeightLb)
			g.WeightGoalKg = &kg
		}
		g.UpdatedAt = time.Now()

		if err := validation.Struct(g); err != nil {
			return err
		}
		if err := db.SaveGoal(g); err != nil {
			return fmt.Errorf("failed to save goal: %w", err)
		}

		color.Green("✓ Goal set")
		printPlan(plan)
		return nil
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your current targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}
		g, err := db.GetGoal(u.ID)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("No goal set. Try 'fitlog goal set maintain'.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load goal: %w", err)
		}

		fmt.Printf("Goal: %s (%s activity)\n", g.GoalType, g.ActivityLevel)
		fmt.Printf("  Calories: %d kcal\n", g.CalorieTarget)
		fmt.Printf("  Protein:  %dg\n", g.ProteinG)
		fmt.Printf("  Carbs:    %dg\n", g.CarbsG)
		fmt.Printf("  Fat:      %dg\n", g.FatG)
		if g.WeightGoalKg != nil {
			fmt.Printf("  Target weight: %.1f kg\n", *g.WeightGoalKg)
		}
		fmt.Printf("  %s\n", color.New(color.Faint).Sprintf("updated %s", g.UpdatedAt.Format("2006-01-02 15:04")))
		return nil
	},
}

// planFor derives targets for goalType from the current user's profile.
func planFor(goalType string) (calc.Plan, error) {
	if !models.IsValidGoalType(goalType) {
		return calc.Plan{}, fmt.Errorf("unknown goal type: %s (use lose, maintain or gain)", goalType)
	}
	if !models.IsValidActivityLevel(goalActivity) {
		return calc.Plan{}, fmt.Errorf("unknown activity level: %s\nValid levels: %s", goalActivity, activityLevels)
	}
	u, err := currentUser()
	if err != nil {
		return calc.Plan{}, err
	}
	plan := calc.PlanForProfile(u.Profile(), models.GoalType(goalType), models.ActivityLevel(goalActivity), time.Now())
	if goalCalories > 0 {
		plan = plan.WithCalories(goalCalories)
	}
	return plan, nil
}

func printPlan(plan calc.Plan) {
	shares := calc.MacroShares(plan)
	fmt.Printf("  %s at %s activity (TDEE %d kcal)\n", plan.GoalType, plan.ActivityLevel, plan.TDEE)
	fmt.Printf("  Calories: %d kcal\n", plan.CalorieTarget)
	fmt.Printf("  Protein:  %dg (%d%%)\n", plan.ProteinG, shares.ProteinPct)
	fmt.Printf("  Carbs:    %dg (%d%%)\n", plan.CarbsG, shares.CarbsPct)
	fmt.Printf("  Fat:      %dg (%d%%)\n", plan.FatG, shares.FatPct)
}

func init() {
	f := profileSetCmd.Flags()
	f.StringVar(&profileName, "name", "", "display name")
	f.StringVar(&profileEmail, "email", "", "email address")
	f.Float64Var(&profileHeightCm, "height-cm", 0, "height in centimetres")
	f.Float64Var(&profileHeightIn, "height-in", 0, "height in inches")
	f.Float64Var(&profileWeightKg, "weight-kg", 0, "weight in kilograms")
	f.Float64Var(&profileWeightLb, "weight-lb", 0, "weight in pounds")
	f.StringVar(&profileDOB, "dob", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&profileGender, "gender", "", "male, female or other")
	f.StringVar(&profileUnits, "units", "", "metric or imperial")
	profileSetCmd.MarkFlagsMutuallyExclusive("height-cm", "height-in")
	profileSetCmd.MarkFlagsMutuallyExclusive("weight-kg", "weight-lb")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)

	for _, c := range []*cobra.Command{goalCalcCmd, goalSetCmd} {
		c.Flags().StringVarP(&goalActivity, "activity", "a", string(models.ActivityModerate), "activity level: "+activityLevels)
		c.Flags().IntVar(&goalCalories, "calories", 0, "use this calorie target instead of the derived one")
	}
	goalSetCmd.Flags().Float64Var(&goalWeightKg, "weight-goal-kg", 0, "target body weight in kilograms")
	goalSetCmd.Flags().Float64Var(&goalWeightLb, "weight-goal-lb", 0, "target body weight in pounds")

	goalCmd.AddCommand(goalCalcCmd)
	goalCmd.AddCommand(goalSetCmd)
	goalCmd.AddCommand(goalShowCmd)
	rootCmd.AddCommand(goalCmd)
}
