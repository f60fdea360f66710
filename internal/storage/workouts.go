// ABOUTME: Workout session and template persistence.
// ABOUTME: Exercises and sets are stored as one JSON column with exercise references collapsed to IDs.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

const workoutColumns = `id, user_id, name, started_at, ended_at, notes, is_template, template_id, exercises, created_at, updated_at`

func encodeExercises(exs []models.WorkoutExercise) (string, error) {
	collapsed := make([]models.WorkoutExercise, len(exs))
	for i, ex := range exs {
		ex.Exercise = ex.Exercise.Collapse()
		collapsed[i] = ex
	}
	b, err := json.Marshal(collapsed)
	if err != nil {
		return "", fmt.Errorf("encode workout exercises: %w", err)
	}
	return string(b), nil
}

// CreateWorkout stores a new workout or template.
func (d *DB) CreateWorkout(w *models.Workout) error {
	exercises, err := encodeExercises(w.Exercises)
	if err != nil {
		return err
	}
	query := `INSERT INTO workouts (` + workoutColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = d.db.Exec(query,
		w.ID.String(),
		w.UserID.String(),
		w.Name,
		formatTime(w.StartedAt),
		formatTimePtr(w.EndedAt),
		w.Notes,
		w.IsTemplate,
		uuidArg(w.TemplateID),
		exercises,
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create workout: %w", err)
	}
	return nil
}

// UpdateWorkout overwrites a workout. The stored copy is replaced whole.
func (d *DB) UpdateWorkout(w *models.Workout) error {
	exercises, err := encodeExercises(w.Exercises)
	if err != nil {
		return err
	}
	w.UpdatedAt = time.Now()
	query := `
		UPDATE workouts SET name = ?, started_at = ?, ended_at = ?, notes = ?, is_template = ?,
			template_id = ?, exercises = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := d.db.Exec(query,
		w.Name,
		formatTime(w.StartedAt),
		formatTimePtr(w.EndedAt),
		w.Notes,
		w.IsTemplate,
		uuidArg(w.TemplateID),
		exercises,
		formatTime(w.UpdatedAt),
		w.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update workout: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("update workout: %w: %s", ErrNotFound, w.ID)
	}
	return nil
}

// GetWorkout retrieves a workout by ID or ID prefix.
func (d *DB) GetWorkout(idOrPrefix string) (*models.Workout, error) {
	id, err := d.resolveID("workouts", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return d.scanWorkout(d.db.QueryRow(`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id))
}

// ListWorkouts retrieves a user's sessions, or templates when
// f.Templates is set. Results are sorted by StartedAt descending
// (most recent first).
func (d *DB) ListWorkouts(userID uuid.UUID, f WorkoutFilter) ([]*models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id = ? AND is_template = ?`
	args := []any{userID.String(), f.Templates}
	if f.TemplateID != nil {
		query += ` AND template_id = ?`
		args = append(args, f.TemplateID.String())
	}
	query, args = rangeClause("started_at", f.Range, query, args)
	query += ` ORDER BY started_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*models.Workout
	for rows.Next() {
		w, err := d.scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// DeleteWorkout removes a workout or template by ID or prefix.
func (d *DB) DeleteWorkout(idOrPrefix string) error {
	if err := d.deleteByID("workouts", idOrPrefix); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	return nil
}

// ExpandExercises replaces each exercise reference in w with the stored
// record. References to missing exercises are left as IDs.
func ExpandExercises(r Repository, w *models.Workout) error {
	for i := range w.Exercises {
		ref := w.Exercises[i].Exercise
		if ref.IsExpanded() {
			continue
		}
		e, err := r.GetExercise(ref.ID().String())
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("expand exercise: %w", err)
		}
		w.Exercises[i].Exercise = models.Expanded(e.ID, e)
	}
	return nil
}

func (d *DB) scanWorkout(row scanner) (*models.Workout, error) {
	var (
		w                          models.Workout
		idStr, userStr, startedAt  string
		exercises, createdAt, upAt string
		endedAt, notes, templateID sql.NullString
	)
	err := row.Scan(&idStr, &userStr, &w.Name, &startedAt, &endedAt, &notes, &w.IsTemplate,
		&templateID, &exercises, &createdAt, &upAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan workout: %w", err)
	}

	if w.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse workout ID: %w", err)
	}
	if w.UserID, err = uuid.Parse(userStr); err != nil {
		return nil, fmt.Errorf("parse user ID: %w", err)
	}
	if w.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if w.EndedAt, err = parseTimePtr(endedAt); err != nil {
		return nil, fmt.Errorf("parse ended_at: %w", err)
	}
	w.Notes = stringPtr(notes)
	if w.TemplateID, err = uuidPtr(templateID); err != nil {
		return nil, fmt.Errorf("parse template ID: %w", err)
	}
	if err := json.Unmarshal([]byte(exercises), &w.Exercises); err != nil {
		return nil, fmt.Errorf("decode workout exercises: %w", err)
	}
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if w.UpdatedAt, err = parseTime(upAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &w, nil
}
