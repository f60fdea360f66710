// ABOUTME: Exercise, workout, template and workout stats handlers.
// ABOUTME: Set edits go through the tracker and reach the store after the autosave delay.
package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/session"
	"github.com/harperreed/fitlog/internal/storage"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	var category *models.ExerciseCategory
	if c := r.URL.Query().Get("category"); c != "" {
		cat := models.ExerciseCategory(c)
		category = &cat
	}
	exercises, err := s.repo.ListExercises(category)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if exercises == nil {
		exercises = []*models.Exercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	limit, err := intParam(r, "limit", 50)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	templates, _ := strconv.ParseBool(r.URL.Query().Get("templates"))
	if err := s.tracker.Flush(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	workouts, err := s.repo.ListWorkouts(sess.UserID, storage.WorkoutFilter{Templates: templates, Limit: limit})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if workouts == nil {
		workouts = []*models.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

type workoutRequest struct {
	Name       string `json:"name"`
	IsTemplate bool   `json:"is_template"`
	TemplateID string `json:"template_id"`
	StartedAt  string `json:"started_at"`
	Notes      string `json:"notes"`
}

// handleCreateWorkout creates an empty session or template, or starts a
// session from template_id.
func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req workoutRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.TemplateID != "" {
		s.startFromTemplate(w, r, sess, req.TemplateID)
		return
	}
	if req.Name == "" {
		s.fail(w, r, badRequestf("name is required"))
		return
	}
	at, err := timeField(req.StartedAt, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var wo *models.Workout
	if req.IsTemplate {
		wo = models.NewTemplate(sess.UserID, req.Name)
	} else {
		wo = models.NewWorkout(sess.UserID, req.Name).WithStartedAt(at)
	}
	if req.Notes != "" {
		wo.WithNotes(req.Notes)
	}
	if err := s.repo.CreateWorkout(wo); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wo)
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	s.startFromTemplate(w, r, sessionFrom(r), mux.Vars(r)["id"])
}

func (s *Server) startFromTemplate(w http.ResponseWriter, r *http.Request, sess session.Session, templateID string) {
	tmpl, err := s.owned(sess, templateID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	wo, err := models.StartFromTemplate(tmpl, sess.Now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.CreateWorkout(wo); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondWorkout(w, r, http.StatusCreated, wo)
}

// owned returns the workout, with unsaved edits, if it belongs to the
// session user. Other users' workouts are reported as not found.
func (s *Server) owned(sess session.Session, idOrPrefix string) (*models.Workout, error) {
	wo, err := s.tracker.Get(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if wo.UserID != sess.UserID {
		return nil, storage.ErrNotFound
	}
	return wo, nil
}

// respondWorkout writes the workout with exercise records expanded.
func (s *Server) respondWorkout(w http.ResponseWriter, r *http.Request, status int, wo *models.Workout) {
	if err := storage.ExpandExercises(s.repo, wo); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, status, wo)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	wo, err := s.owned(sessionFrom(r), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondWorkout(w, r, http.StatusOK, wo)
}

type addExerciseRequest struct {
	Exercise string `json:"exercise" validate:"required"`
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req addExerciseRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	wo, err := s.owned(sess, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ex, err := s.repo.FindExercise(req.Exercise)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	wo, err = s.tracker.AddExercise(wo.ID.String(), models.Reference[models.Exercise](ex.ID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondWorkout(w, r, http.StatusOK, wo)
}

type setRequest struct {
	Reps      int      `json:"reps" validate:"gte=0"`
	WeightKg  float64  `json:"weight_kg" validate:"gte=0"`
	DurationS *int     `json:"duration_s" validate:"omitempty,gte=0"`
	DistanceM *float64 `json:"distance_m" validate:"omitempty,gte=0"`
	IsWarmup  bool     `json:"is_warmup"`
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	exIdx, err := indexVar(r, "ex")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req setRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	wo, err := s.owned(sess, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	set := models.WorkoutSet{
		Reps:      req.Reps,
		WeightKg:  req.WeightKg,
		DurationS: req.DurationS,
		DistanceM: req.DistanceM,
		IsWarmup:  req.IsWarmup,
	}
	wo, err = s.tracker.AddSet(wo.ID.String(), exIdx, set)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondWorkout(w, r, http.StatusOK, wo)
}

type editSetRequest struct {
	Reps      *int     `json:"reps" validate:"omitempty,gte=0"`
	WeightKg  *float64 `json:"weight_kg" validate:"omitempty,gte=0"`
	Completed *bool    `json:"completed"`
}

// handleEditSet changes reps or weight and ticks the set on or off. The
// change is visible immediately and persisted by the autosave.
func (s *Server) handleEditSet(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	exIdx, err := indexVar(r, "ex")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setIdx, err := indexVar(r, "set")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req editSetRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	wo, err := s.owned(sess, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if exIdx >= len(wo.Exercises) || setIdx >= len(wo.Exercises[exIdx].Sets) {
		s.fail(w, r, models.ErrIndexOutOfRange)
		return
	}
	id := wo.ID.String()
	current := wo.Exercises[exIdx].Sets[setIdx]

	if req.Reps != nil || req.WeightKg != nil {
		reps, kg := current.Reps, current.WeightKg
		if req.Reps != nil {
			reps = *req.Reps
		}
		if req.WeightKg != nil {
			kg = *req.WeightKg
		}
		if wo, err = s.tracker.UpdateSet(id, exIdx, setIdx, reps, kg); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if req.Completed != nil && *req.Completed != current.IsCompleted() {
		if wo, err = s.tracker.ToggleSet(id, exIdx, setIdx, sess.Now()); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	s.respondWorkout(w, r, http.StatusOK, wo)
}

func (s *Server) handleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	wo, err := s.owned(sess, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	wo, err = s.tracker.Finish(r.Context(), wo.ID.String(), sess.Now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondWorkout(w, r, http.StatusOK, wo)
}

func (s *Server) handleWorkoutStats(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.tracker.Flush(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := storage.WorkoutStats(s.repo, sess.UserID, sess.Now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type lastPerformedView struct {
	TemplateID uuid.UUID       `json:"template_id"`
	Label      string          `json:"label"`
	Workout    *models.Workout `json:"workout,omitempty"`
}

func (s *Server) handleLastPerformed(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	tmpl, err := s.owned(sess, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !tmpl.IsTemplate {
		s.fail(w, r, models.ErrNotTemplate)
		return
	}
	if err := s.tracker.Flush(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	last, label, err := storage.LastPerformed(s.repo, tmpl, sess.Now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lastPerformedView{TemplateID: tmpl.ID, Label: label, Workout: last})
}
