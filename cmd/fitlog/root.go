// ABOUTME: Root Cobra command for fitlog CLI.
// ABOUTME: Loads config and opens the SQLite store via PersistentPre/PostRunE.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/logging"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/session"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/tracker"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	db      *storage.DB
	tracked *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "fitlog",
	Short: "Nutrition and workout tracker",
	Long: `Fitlog tracks what you eat and how you train, and works out your targets.

NUTRITION:

  $ fitlog profile set --height-cm 180 --weight-kg 80 --dob 1995-03-07 --gender male
  $ fitlog goal set lose --activity moderate   # Derive calorie and macro targets
  $ fitlog food add "Oats" --calories 389 --protein 16.9 --carbs 66.3 --fat 6.9 --serving cup=80
  $ fitlog meal log oats 1 cup --type breakfast
  $ fitlog summary                             # Today against your goal

DAILY LOGS:

  $ fitlog water add 500
  $ fitlog steps set 9000
  $ fitlog body add 79.6 --body-fat 18

WORKOUTS:

  $ fitlog workout template "Leg Day"          # Build a reusable plan
  $ fitlog workout start abc123                # Start a session from it
  $ fitlog workout toggle def456 0 0           # Tick off a set
  $ fitlog workout finish def456
  $ fitlog workout stats                       # Streak and weekly volume

SERVERS:

  fitlog serve   REST API with bearer tokens (see 'fitlog token')
  fitlog mcp     Model Context Protocol server on stdio

DATA STORAGE:

  Data lives in SQLite at ~/.local/share/fitlog/fitlog.db unless data_dir
  is set in ~/.config/fitlog/config.json or FITLOG_DATA_DIR.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		db, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if tracked != nil {
			err = tracked.Close(context.Background())
			tracked = nil
		}
		if db != nil {
			if cerr := db.Close(); cerr != nil && err == nil {
				err = cerr
			}
			db = nil
		}
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger() zerolog.Logger {
	return logging.New(cfg.Logging())
}

// currentUser returns the configured user, falling back to the only user in
// the store, and creates one on first use.
func currentUser() (*models.User, error) {
	id, ok, err := cfg.CurrentUser()
	if err != nil {
		return nil, err
	}
	if ok {
		u, err := db.GetUser(id.String())
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		u = models.NewUser("")
		u.ID = id
		if err := db.CreateUser(u); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return u, nil
	}

	users, err := db.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	switch len(users) {
	case 0:
		u := models.NewUser("")
		if err := db.CreateUser(u); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return u, nil
	case 1:
		return users[0], nil
	default:
		return nil, fmt.Errorf("%d profiles found; set user_id in %s or FITLOG_USER_ID", len(users), config.GetConfigPath())
	}
}

func currentSession() (session.Session, error) {
	u, err := currentUser()
	if err != nil {
		return session.Session{}, err
	}
	return session.New(u.ID), nil
}

// workouts returns the tracker for this invocation. Pending edits are
// written when the command finishes.
func workouts() *tracker.Tracker {
	if tracked == nil {
		tracked = tracker.New(db, cfg.AutosaveDelay(), newLogger())
	}
	return tracked
}

// ownedWorkout loads a workout, with unsaved edits, that belongs to sess.
func ownedWorkout(sess session.Session, idOrPrefix string) (*models.Workout, error) {
	w, err := workouts().Get(idOrPrefix)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("workout not found: %s", idOrPrefix)
	case err != nil:
		return nil, fmt.Errorf("failed to load workout %s: %w", idOrPrefix, err)
	case w.UserID != sess.UserID:
		return nil, fmt.Errorf("workout not found: %s", idOrPrefix)
	}
	return w, nil
}
