package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS plans (
			name       TEXT PRIMARY KEY,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS plan_rows (
			plan_name TEXT NOT NULL REFERENCES plans(name) ON DELETE CASCADE,
			id        TEXT NOT NULL,
			name      TEXT NOT NULL,
			position  INTEGER NOT NULL,
			PRIMARY KEY (plan_name, id)
		);

		CREATE TABLE IF NOT EXISTS plan_cards (
			plan_name TEXT NOT NULL REFERENCES plans(name) ON DELETE CASCADE,
			id        TEXT NOT NULL,
			row_id    TEXT,
			position  INTEGER NOT NULL,
			x         REAL NOT NULL,
			y         REAL NOT NULL,
			text      TEXT NOT NULL,
			type      TEXT NOT NULL,
			PRIMARY KEY (plan_name, id)
		);

		CREATE TABLE IF NOT EXISTS courses (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			room        TEXT NOT NULL DEFAULT '',
			course_date DATE NOT NULL,
			start_time  TIME NOT NULL,
			end_time    TIME NOT NULL,
			type        TEXT NOT NULL CHECK(type IN ('LECTURE', 'LAB', 'SEMINAR', 'EXAM', 'TUTORING')),
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_plan_cards_row ON plan_cards(plan_name, row_id);
		CREATE INDEX IF NOT EXISTS idx_courses_date ON courses(course_date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
