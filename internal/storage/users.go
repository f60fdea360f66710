// ABOUTME: User profile and nutrition goal persistence.
// ABOUTME: Each user has at most one goal; saving replaces it.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

const userColumns = `id, email, name, height_cm, weight_kg, date_of_birth, gender, units, onboarding_completed, created_at, updated_at`

// CreateUser stores a new user.
func (d *DB) CreateUser(u *models.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query, d.userArgs(u)...)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateUser overwrites a user's profile.
func (d *DB) UpdateUser(u *models.User) error {
	u.UpdatedAt = time.Now()
	query := `
		UPDATE users SET email = ?, name = ?, height_cm = ?, weight_kg = ?, date_of_birth = ?,
			gender = ?, units = ?, onboarding_completed = ?, updated_at = ?
		WHERE id = ?
	`
	a := d.userArgs(u)
	result, err := d.db.Exec(query, a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8], a[10], a[0])
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("update user: %w: %s", ErrNotFound, u.ID)
	}
	return nil
}

func (d *DB) userArgs(u *models.User) []any {
	var gender any
	if u.Gender != nil {
		gender = string(*u.Gender)
	}
	units := u.Units
	if units == "" {
		units = models.UnitsMetric
	}
	return []any{
		u.ID.String(),
		u.Email,
		u.Name,
		u.HeightCm,
		u.WeightKg,
		formatTimePtr(u.DateOfBirth),
		gender,
		string(units),
		u.OnboardingCompleted,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	}
}

// GetUser retrieves a user by ID or ID prefix.
func (d *DB) GetUser(idOrPrefix string) (*models.User, error) {
	id, err := d.resolveID("users", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return d.scanUser(d.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// ListUsers returns every user, oldest first.
func (d *DB) ListUsers() ([]*models.User, error) {
	rows, err := d.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := d.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (d *DB) scanUser(row scanner) (*models.User, error) {
	var (
		u                    models.User
		idStr, units         string
		email, dob, gender   sql.NullString
		height, weight       sql.NullFloat64
		createdAt, updatedAt string
	)
	err := row.Scan(&idStr, &email, &u.Name, &height, &weight, &dob, &gender, &units,
		&u.OnboardingCompleted, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if u.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse user ID: %w", err)
	}
	u.Email = email.String
	u.HeightCm = floatPtr(height)
	u.WeightKg = floatPtr(weight)
	if u.DateOfBirth, err = parseTimePtr(dob); err != nil {
		return nil, fmt.Errorf("parse date of birth: %w", err)
	}
	if gender.Valid {
		g := models.Gender(gender.String)
		u.Gender = &g
	}
	u.Units = models.UnitSystem(units)
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &u, nil
}

// SaveGoal stores g as the user's current goal, replacing any previous one.
func (d *DB) SaveGoal(g *models.Goal) error {
	g.UpdatedAt = time.Now()
	query := `
		INSERT INTO goals (id, user_id, goal_type, calorie_target, protein_g, carbs_g, fat_g,
			weight_goal_kg, activity_level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			goal_type = excluded.goal_type,
			calorie_target = excluded.calorie_target,
			protein_g = excluded.protein_g,
			carbs_g = excluded.carbs_g,
			fat_g = excluded.fat_g,
			weight_goal_kg = excluded.weight_goal_kg,
			activity_level = excluded.activity_level,
			updated_at = excluded.updated_at
	`
	_, err := d.db.Exec(query,
		g.ID.String(),
		g.UserID.String(),
		string(g.GoalType),
		g.CalorieTarget,
		g.ProteinG,
		g.CarbsG,
		g.FatG,
		g.WeightGoalKg,
		string(g.ActivityLevel),
		formatTime(g.CreatedAt),
		formatTime(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

// GetGoal returns the user's current goal or ErrNotFound.
func (d *DB) GetGoal(userID uuid.UUID) (*models.Goal, error) {
	query := `
		SELECT id, user_id, goal_type, calorie_target, protein_g, carbs_g, fat_g,
			weight_goal_kg, activity_level, created_at, updated_at
		FROM goals WHERE user_id = ?
	`
	var (
		g                         models.Goal
		idStr, userStr, gt, level string
		weightGoal                sql.NullFloat64
		createdAt, updatedAt      string
	)
	err := d.db.QueryRow(query, userID.String()).Scan(&idStr, &userStr, &gt, &g.CalorieTarget,
		&g.ProteinG, &g.CarbsG, &g.FatG, &weightGoal, &level, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}

	if g.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse goal ID: %w", err)
	}
	if g.UserID, err = uuid.Parse(userStr); err != nil {
		return nil, fmt.Errorf("parse user ID: %w", err)
	}
	g.GoalType = models.GoalType(gt)
	g.ActivityLevel = models.ActivityLevel(level)
	g.WeightGoalKg = floatPtr(weightGoal)
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &g, nil
}
