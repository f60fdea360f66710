// ABOUTME: Step, water and body-metric log persistence.
// ABOUTME: Step logs are one per user per calendar day and upsert on save.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

// SaveSteps stores s as the step count for its day, replacing any
// earlier count for the same user and day. On replace, s takes the stored
// row's ID and creation time.
func (d *DB) SaveSteps(s *models.StepLog) error {
	s.UpdatedAt = time.Now()
	source := s.Source
	if source == "" {
		source = models.StepsManual
	}
	query := `
		INSERT INTO step_logs (id, user_id, day, date, steps, distance_km, calories_burned, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET
			steps = excluded.steps,
			distance_km = excluded.distance_km,
			calories_burned = excluded.calories_burned,
			source = excluded.source,
			updated_at = excluded.updated_at
		RETURNING id, created_at
	`
	var idStr, createdAt string
	err := d.db.QueryRow(query,
		s.ID.String(),
		s.UserID.String(),
		s.Date.Format("2006-01-02"),
		formatTime(s.Date),
		s.Steps,
		s.DistanceKm,
		s.CaloriesBurned,
		string(source),
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	).Scan(&idStr, &createdAt)
	if err != nil {
		return fmt.Errorf("save steps: %w", err)
	}

	if s.ID, err = uuid.Parse(idStr); err != nil {
		return fmt.Errorf("parse step log id: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return fmt.Errorf("parse step log created_at: %w", err)
	}
	s.Source = source
	return nil
}

// ListSteps returns a user's step logs within r, oldest first.
func (d *DB) ListSteps(userID uuid.UUID, r Range) ([]*models.StepLog, error) {
	query, args := rangeClause("date", r, `
		SELECT id, user_id, date, steps, distance_km, calories_burned, source, created_at, updated_at
		FROM step_logs WHERE user_id = ?`, []any{userID.String()})
	query += ` ORDER BY date ASC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var out []*models.StepLog
	for rows.Next() {
		var (
			s                        models.StepLog
			idStr, userStr, date     string
			source, createdAt, upAt  string
			distance, caloriesBurned sql.NullFloat64
		)
		if err := rows.Scan(&idStr, &userStr, &date, &s.Steps, &distance, &caloriesBurned,
			&source, &createdAt, &upAt); err != nil {
			return nil, fmt.Errorf("scan steps: %w", err)
		}
		if s.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse step log ID: %w", err)
		}
		if s.UserID, err = uuid.Parse(userStr); err != nil {
			return nil, fmt.Errorf("parse user ID: %w", err)
		}
		if s.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		s.DistanceKm = floatPtr(distance)
		s.CaloriesBurned = floatPtr(caloriesBurned)
		s.Source = models.StepSource(source)
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		if s.UpdatedAt, err = parseTime(upAt); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// CreateWater stores a water log.
func (d *DB) CreateWater(w *models.WaterLog) error {
	_, err := d.db.Exec(`INSERT INTO water_logs (id, user_id, date, amount_ml, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.ID.String(), w.UserID.String(), formatTime(w.Date), w.AmountMl, formatTime(w.CreatedAt))
	if err != nil {
		return fmt.Errorf("create water log: %w", err)
	}
	return nil
}

// ListWater returns a user's water logs within r, oldest first.
func (d *DB) ListWater(userID uuid.UUID, r Range) ([]*models.WaterLog, error) {
	query, args := rangeClause("date",
		r, `SELECT id, user_id, date, amount_ml, created_at FROM water_logs WHERE user_id = ?`,
		[]any{userID.String()})
	query += ` ORDER BY date ASC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list water logs: %w", err)
	}
	defer rows.Close()

	var out []*models.WaterLog
	for rows.Next() {
		var (
			w                               models.WaterLog
			idStr, userStr, date, createdAt string
		)
		if err := rows.Scan(&idStr, &userStr, &date, &w.AmountMl, &createdAt); err != nil {
			return nil, fmt.Errorf("scan water log: %w", err)
		}
		if w.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse water log ID: %w", err)
		}
		if w.UserID, err = uuid.Parse(userStr); err != nil {
			return nil, fmt.Errorf("parse user ID: %w", err)
		}
		if w.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		if w.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// CreateBodyMetrics stores a body measurement.
func (d *DB) CreateBodyMetrics(b *models.BodyMetrics) error {
	query := `
		INSERT INTO body_metrics (id, user_id, recorded_at, weight_kg, body_fat_pct, waist_cm, chest_cm, arms_cm, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		b.ID.String(),
		b.UserID.String(),
		formatTime(b.RecordedAt),
		b.WeightKg,
		b.BodyFatPct,
		b.WaistCm,
		b.ChestCm,
		b.ArmsCm,
		b.Notes,
		formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create body metrics: %w", err)
	}
	return nil
}

// ListBodyMetrics returns a user's measurements, most recent first.
func (d *DB) ListBodyMetrics(userID uuid.UUID, limit int) ([]*models.BodyMetrics, error) {
	query := `
		SELECT id, user_id, recorded_at, weight_kg, body_fat_pct, waist_cm, chest_cm, arms_cm, notes, created_at
		FROM body_metrics WHERE user_id = ?
		ORDER BY recorded_at DESC
	`
	args := []any{userID.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list body metrics: %w", err)
	}
	defer rows.Close()

	var out []*models.BodyMetrics
	for rows.Next() {
		b, err := scanBodyMetrics(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBodyMetrics(row scanner) (*models.BodyMetrics, error) {
	var (
		b                            models.BodyMetrics
		idStr, userStr, recorded, at string
		fat, waist, chest, arms      sql.NullFloat64
		notes                        sql.NullString
	)
	err := row.Scan(&idStr, &userStr, &recorded, &b.WeightKg, &fat, &waist, &chest, &arms, &notes, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan body metrics: %w", err)
	}
	if b.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse body metrics ID: %w", err)
	}
	if b.UserID, err = uuid.Parse(userStr); err != nil {
		return nil, fmt.Errorf("parse user ID: %w", err)
	}
	if b.RecordedAt, err = parseTime(recorded); err != nil {
		return nil, fmt.Errorf("parse recorded_at: %w", err)
	}
	b.BodyFatPct = floatPtr(fat)
	b.WaistCm = floatPtr(waist)
	b.ChestCm = floatPtr(chest)
	b.ArmsCm = floatPtr(arms)
	b.Notes = stringPtr(notes)
	if b.CreatedAt, err = parseTime(at); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &b, nil
}
