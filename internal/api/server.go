// ABOUTME: REST API server exposing fitlog over HTTP.
// ABOUTME: Wires the mux router, CORS, bearer auth and request metrics around the handlers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/harperreed/fitlog/internal/session"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/tracker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Logger         zerolog.Logger
	// Clock and Location default to the wall clock in the local zone.
	Clock    session.Clock
	Location *time.Location
}

// Server serves the REST API.
type Server struct {
	repo    storage.Repository
	tracker *tracker.Tracker
	secret  []byte
	origins []string
	logger  zerolog.Logger
	clock   session.Clock
	loc     *time.Location
	metrics *metrics
}

// New creates a Server over repo. Set edits go through tr so that rapid
// toggles are coalesced into debounced writes.
func New(repo storage.Repository, tr *tracker.Tracker, opts Options) (*Server, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	s := &Server{
		repo:    repo,
		tracker: tr,
		secret:  []byte(opts.JWTSecret),
		origins: opts.AllowedOrigins,
		logger:  opts.Logger.With().Str("component", "api").Logger(),
		clock:   opts.Clock,
		loc:     opts.Location,
		metrics: newMetrics(),
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	return s, nil
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.metrics.middleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authenticate)

	api.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	api.HandleFunc("/metrics/goals", s.handleGetGoal).Methods(http.MethodGet)
	api.HandleFunc("/metrics/goals/current", s.handleGetGoal).Methods(http.MethodGet)
	api.HandleFunc("/metrics/goals", s.handleSetGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/calculate", s.handleCalculateGoal).Methods(http.MethodPost)

	api.HandleFunc("/foods", s.handleSearchFoods).Methods(http.MethodGet)
	api.HandleFunc("/foods", s.handleCreateFood).Methods(http.MethodPost)
	api.HandleFunc("/meals", s.handleListMeals).Methods(http.MethodGet)
	api.HandleFunc("/meals", s.handleLogMeal).Methods(http.MethodPost)
	api.HandleFunc("/meals/{id}", s.handleDeleteMeal).Methods(http.MethodDelete)
	api.HandleFunc("/nutrition/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/water", s.handleListWater).Methods(http.MethodGet)
	api.HandleFunc("/water", s.handleLogWater).Methods(http.MethodPost)
	api.HandleFunc("/steps", s.handleListSteps).Methods(http.MethodGet)
	api.HandleFunc("/steps", s.handleLogSteps).Methods(http.MethodPost)
	api.HandleFunc("/body", s.handleListBody).Methods(http.MethodGet)
	api.HandleFunc("/body", s.handleLogBody).Methods(http.MethodPost)

	api.HandleFunc("/exercises", s.handleListExercises).Methods(http.MethodGet)
	api.HandleFunc("/workouts", s.handleListWorkouts).Methods(http.MethodGet)
	api.HandleFunc("/workouts", s.handleCreateWorkout).Methods(http.MethodPost)
	api.HandleFunc("/workouts/stats", s.handleWorkoutStats).Methods(http.MethodGet)
	api.HandleFunc("/workouts/{id}", s.handleGetWorkout).Methods(http.MethodGet)
	api.HandleFunc("/workouts/{id}/start", s.handleStartWorkout).Methods(http.MethodPost)
	api.HandleFunc("/workouts/{id}/exercises", s.handleAddExercise).Methods(http.MethodPost)
	api.HandleFunc("/workouts/{id}/exercises/{ex}/sets", s.handleAddSet).Methods(http.MethodPost)
	api.HandleFunc("/workouts/{id}/exercises/{ex}/sets/{set}", s.handleEditSet).Methods(http.MethodPatch)
	api.HandleFunc("/workouts/{id}/finish", s.handleFinishWorkout).Methods(http.MethodPost)
	api.HandleFunc("/templates/{id}/last", s.handleLastPerformed).Methods(http.MethodGet)

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// and flushes pending workout edits.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info().Msg("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := s.tracker.Close(shutdownCtx); err != nil {
		return fmt.Errorf("flush workouts: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
