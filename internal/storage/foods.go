// ABOUTME: Food and exercise catalogue persistence.
// ABOUTME: Serving sizes and muscle groups are stored as JSON columns.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

const foodColumns = `id, name, brand, barcode, calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g, serving_sizes, source, user_id, created_at`

// CreateFood stores a new food.
func (d *DB) CreateFood(f *models.Food) error {
	servings, err := json.Marshal(f.ServingSizes)
	if err != nil {
		return fmt.Errorf("encode serving sizes: %w", err)
	}
	source := f.Source
	if source == "" {
		source = models.FoodSourceCustom
	}
	query := `INSERT INTO foods (` + foodColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = d.db.Exec(query,
		f.ID.String(),
		f.Name,
		f.Brand,
		f.Barcode,
		f.CaloriesPer100g,
		f.ProteinPer100g,
		f.CarbsPer100g,
		f.FatPer100g,
		string(servings),
		string(source),
		uuidArg(f.UserID),
		formatTime(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create food: %w", err)
	}
	return nil
}

// GetFood retrieves a food by ID or ID prefix.
func (d *DB) GetFood(idOrPrefix string) (*models.Food, error) {
	id, err := d.resolveID("foods", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return d.scanFood(d.db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id))
}

// SearchFoods matches query against name, brand and barcode among the
// shared foods and userID's own. An empty query lists everything visible;
// uuid.Nil lifts the owner filter.
func (d *DB) SearchFoods(userID uuid.UUID, query string, limit int) ([]*models.Food, error) {
	q := `SELECT ` + foodColumns + ` FROM foods WHERE 1 = 1`
	var args []any
	if userID != uuid.Nil {
		q += ` AND (user_id IS NULL OR user_id = ?)`
		args = append(args, userID.String())
	}
	if query = strings.TrimSpace(query); query != "" {
		q += ` AND (name LIKE ? OR brand LIKE ? OR barcode = ?)`
		like := "%" + query + "%"
		args = append(args, like, like, query)
	}
	q += ` ORDER BY name ASC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("search foods: %w", err)
	}
	defer rows.Close()

	var foods []*models.Food
	for rows.Next() {
		f, err := d.scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func (d *DB) scanFood(row scanner) (*models.Food, error) {
	var (
		f                   models.Food
		idStr, servings     string
		source, createdAt   string
		brand, barcode, uid sql.NullString
	)
	err := row.Scan(&idStr, &f.Name, &brand, &barcode, &f.CaloriesPer100g, &f.ProteinPer100g,
		&f.CarbsPer100g, &f.FatPer100g, &servings, &source, &uid, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan food: %w", err)
	}

	if f.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse food ID: %w", err)
	}
	f.Brand = brand.String
	f.Barcode = barcode.String
	if err := json.Unmarshal([]byte(servings), &f.ServingSizes); err != nil {
		return nil, fmt.Errorf("decode serving sizes: %w", err)
	}
	f.Source = models.FoodSource(source)
	if f.UserID, err = uuidPtr(uid); err != nil {
		return nil, fmt.Errorf("parse food owner: %w", err)
	}
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &f, nil
}

const exerciseColumns = `id, name, category, muscle_groups, equipment, is_custom, created_by, created_at`

// CreateExercise stores a new exercise.
func (d *DB) CreateExercise(e *models.Exercise) error {
	groups, err := json.Marshal(e.MuscleGroups)
	if err != nil {
		return fmt.Errorf("encode muscle groups: %w", err)
	}
	query := `INSERT INTO exercises (` + exerciseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = d.db.Exec(query,
		e.ID.String(),
		e.Name,
		string(e.Category),
		string(groups),
		e.Equipment,
		e.IsCustom,
		uuidArg(e.CreatedBy),
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	return nil
}

// GetExercise retrieves an exercise by ID or ID prefix.
func (d *DB) GetExercise(idOrPrefix string) (*models.Exercise, error) {
	id, err := d.resolveID("exercises", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return d.scanExercise(d.db.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id))
}

// FindExercise looks an exercise up by exact name (case-insensitive),
// then by ID prefix.
func (d *DB) FindExercise(nameOrID string) (*models.Exercise, error) {
	row := d.db.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE LOWER(name) = LOWER(?) LIMIT 1`, nameOrID)
	e, err := d.scanExercise(row)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return d.GetExercise(nameOrID)
}

// ListExercises returns exercises, optionally of one category, by name.
func (d *DB) ListExercises(category *models.ExerciseCategory) ([]*models.Exercise, error) {
	q := `SELECT ` + exerciseColumns + ` FROM exercises`
	var args []any
	if category != nil {
		q += ` WHERE category = ?`
		args = append(args, string(*category))
	}
	q += ` ORDER BY name ASC`

	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var out []*models.Exercise
	for rows.Next() {
		e, err := d.scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) scanExercise(row scanner) (*models.Exercise, error) {
	var (
		e                           models.Exercise
		idStr, category, groups, at string
		equipment, createdBy        sql.NullString
	)
	err := row.Scan(&idStr, &e.Name, &category, &groups, &equipment, &e.IsCustom, &createdBy, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan exercise: %w", err)
	}

	if e.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse exercise ID: %w", err)
	}
	e.Category = models.ExerciseCategory(category)
	if err := json.Unmarshal([]byte(groups), &e.MuscleGroups); err != nil {
		return nil, fmt.Errorf("decode muscle groups: %w", err)
	}
	e.Equipment = equipment.String
	if e.CreatedBy, err = uuidPtr(createdBy); err != nil {
		return nil, fmt.Errorf("parse exercise owner: %w", err)
	}
	if e.CreatedAt, err = parseTime(at); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &e, nil
}

// FindFood resolves an ID or prefix first, then the best name match,
// among the foods userID can see.
func FindFood(r Repository, userID uuid.UUID, query string) (*models.Food, error) {
	if f, err := r.GetFood(query); err == nil && f.VisibleTo(userID) {
		return f, nil
	}
	foods, err := r.SearchFoods(userID, query, 1)
	if err != nil {
		return nil, fmt.Errorf("search foods: %w", err)
	}
	if len(foods) == 0 {
		return nil, fmt.Errorf("food %w: %s", ErrNotFound, query)
	}
	return foods[0], nil
}
