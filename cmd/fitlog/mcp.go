// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server acting as the current user.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitlog/internal/mcp"
	"github.com/harperreed/fitlog/internal/session"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to log meals and workouts and read your
targets through a standardized protocol. The server communicates via
stdin/stdout; logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "fitlog": {
        "command": "fitlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  calculate_tdee     BMR and TDEE from your profile or given measurements
  plan_goal          Preview calorie and macro targets
  set_goal           Save calorie and macro targets
  log_meal           Log a serving of a food
  daily_summary      A day's totals against your goal
  log_water          Record a drink
  log_steps          Set a day's step count
  log_body_metrics   Record body weight
  start_workout      Start a session, empty or from a template
  add_exercise       Add an exercise to a workout or template
  add_set            Add a set to an exercise
  toggle_set         Mark a set done or not done
  finish_workout     Finish a session
  workout_stats      Streak and this week's volume
  last_performed     When a template was last completed

AVAILABLE RESOURCES:

  fitlog://today     Everything logged today
  fitlog://summary   Profile, goal, training stats and recent weight`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}
		server, err := mcp.NewServer(db, workouts(), session.New(u.ID))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
