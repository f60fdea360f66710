// ABOUTME: CLI commands for the REST API server and its bearer tokens.
// ABOUTME: serve runs until SIGINT/SIGTERM; token mints a JWT for the current user.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/fitlog/internal/api"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	tokenTTL  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the REST API server.

Every route under /api except /api/health needs a bearer token signed with
server.jwt_secret (or FITLOG_JWT_SECRET). Mint one with 'fitlog token'.
Prometheus metrics are served at /metrics.

CONFIGURATION:

  server.addr             listen address (default 127.0.0.1:8080)
  server.jwt_secret       HS256 signing secret (required)
  server.allowed_origins  CORS origins (default *)
  log.level, log.format   structured log settings (json or console)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		srv, err := api.New(db, workouts(), api.Options{
			JWTSecret:      cfg.Server.JWTSecret,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         logger,
		})
		if err != nil {
			return err
		}

		addr := cfg.GetAddr()
		if serveAddr != "" {
			addr = serveAddr
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

		return srv.ListenAndServe(ctx, addr)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API token for the current user",
	Long: `Print a bearer token for the REST API, signed with the configured
jwt_secret and valid for --ttl (default 30 days).

  $ curl -H "Authorization: Bearer $(fitlog token)" localhost:8080/api/profile`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Server.JWTSecret == "" {
			return errors.New("no jwt_secret configured; set server.jwt_secret or FITLOG_JWT_SECRET")
		}
		u, err := currentUser()
		if err != nil {
			return err
		}
		token, err := api.GenerateToken(u.ID, cfg.Server.JWTSecret, tokenTTL, time.Now())
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", api.DefaultTokenTTL, "token lifetime")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
}
