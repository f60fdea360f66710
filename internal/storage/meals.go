// ABOUTME: Meal log persistence.
// ABOUTME: Stores the nutrition snapshot taken at log time; the food is kept as a reference.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
)

const mealColumns = `id, user_id, date, meal_type, food_id, serving_size, serving_unit, calories, protein_g, carbs_g, fat_g, items, created_at`

// CreateMeal stores a new meal log.
func (d *DB) CreateMeal(m *models.MealLog) error {
	var items any
	if len(m.Items) > 0 {
		b, err := json.Marshal(m.Items)
		if err != nil {
			return fmt.Errorf("encode meal items: %w", err)
		}
		items = string(b)
	}
	query := `INSERT INTO meals (` + mealColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query,
		m.ID.String(),
		m.UserID.String(),
		formatTime(m.Date),
		string(m.MealType),
		m.Food.ID().String(),
		m.ServingSize,
		m.ServingUnit,
		m.Calories,
		m.ProteinG,
		m.CarbsG,
		m.FatG,
		items,
		formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

// GetMeal retrieves a meal by ID or ID prefix.
func (d *DB) GetMeal(idOrPrefix string) (*models.MealLog, error) {
	id, err := d.resolveID("meals", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return d.scanMeal(d.db.QueryRow(`SELECT `+mealColumns+` FROM meals WHERE id = ?`, id))
}

// ListMeals returns a user's meals within r, oldest first.
func (d *DB) ListMeals(userID uuid.UUID, r Range) ([]*models.MealLog, error) {
	query, args := rangeClause("date", r,
		`SELECT `+mealColumns+` FROM meals WHERE user_id = ?`, []any{userID.String()})
	query += ` ORDER BY date ASC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []*models.MealLog
	for rows.Next() {
		m, err := d.scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// DeleteMeal removes a meal by ID or prefix.
func (d *DB) DeleteMeal(idOrPrefix string) error {
	if err := d.deleteByID("meals", idOrPrefix); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

func (d *DB) scanMeal(row scanner) (*models.MealLog, error) {
	var (
		m                         models.MealLog
		idStr, userStr, foodStr   string
		date, mealType, createdAt string
		items                     sql.NullString
	)
	err := row.Scan(&idStr, &userStr, &date, &mealType, &foodStr, &m.ServingSize, &m.ServingUnit,
		&m.Calories, &m.ProteinG, &m.CarbsG, &m.FatG, &items, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan meal: %w", err)
	}

	if m.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse meal ID: %w", err)
	}
	if m.UserID, err = uuid.Parse(userStr); err != nil {
		return nil, fmt.Errorf("parse user ID: %w", err)
	}
	foodID, err := uuid.Parse(foodStr)
	if err != nil {
		return nil, fmt.Errorf("parse food ID: %w", err)
	}
	m.Food = models.Reference[models.Food](foodID)
	m.MealType = models.MealType(mealType)
	if items.Valid && items.String != "" {
		if err := json.Unmarshal([]byte(items.String), &m.Items); err != nil {
			return nil, fmt.Errorf("decode meal items: %w", err)
		}
	}
	if m.Date, err = parseTime(date); err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &m, nil
}
