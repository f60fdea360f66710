// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One table per record type; workout exercises and meal items live in JSON columns.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT,
		name TEXT NOT NULL,
		height_cm REAL,
		weight_kg REAL,
		date_of_birth TEXT,
		gender TEXT,
		units TEXT NOT NULL DEFAULT 'metric',
		onboarding_completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		goal_type TEXT NOT NULL,
		calorie_target INTEGER NOT NULL,
		protein_g INTEGER NOT NULL,
		carbs_g INTEGER NOT NULL,
		fat_g INTEGER NOT NULL,
		weight_goal_kg REAL,
		activity_level TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS foods (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT,
		barcode TEXT,
		calories_per_100g REAL NOT NULL,
		protein_per_100g REAL NOT NULL,
		carbs_per_100g REAL NOT NULL,
		fat_per_100g REAL NOT NULL,
		serving_sizes TEXT NOT NULL DEFAULT '[]',
		source TEXT NOT NULL,
		user_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		muscle_groups TEXT NOT NULL DEFAULT '[]',
		equipment TEXT,
		is_custom INTEGER NOT NULL DEFAULT 0,
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		meal_type TEXT NOT NULL,
		food_id TEXT NOT NULL,
		serving_size REAL NOT NULL,
		serving_unit TEXT NOT NULL,
		calories REAL NOT NULL,
		protein_g REAL NOT NULL,
		carbs_g REAL NOT NULL,
		fat_g REAL NOT NULL,
		items TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT,
		notes TEXT,
		is_template INTEGER NOT NULL DEFAULT 0,
		template_id TEXT,
		exercises TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS step_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		day TEXT NOT NULL,
		date TEXT NOT NULL,
		steps INTEGER NOT NULL,
		distance_km REAL,
		calories_burned REAL,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (user_id, day)
	);

	CREATE TABLE IF NOT EXISTS water_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		amount_ml INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS body_metrics (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		weight_kg REAL NOT NULL,
		body_fat_pct REAL,
		waist_cm REAL,
		chest_cm REAL,
		arms_cm REAL,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name);
	CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_workouts_user_started ON workouts(user_id, started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_workouts_template ON workouts(template_id);
	CREATE INDEX IF NOT EXISTS idx_water_user_date ON water_logs(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_body_user_recorded ON body_metrics(user_id, recorded_at DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
