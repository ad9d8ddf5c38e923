// Package db provides SQLite storage for seating plans and timetable courses.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/pupitre/internal/dateutil"
	"github.com/javiermolinar/pupitre/internal/planner"
	"github.com/javiermolinar/pupitre/internal/timeline"
)

// SQLite implements planner.Repository and timeline.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var (
	_ planner.Repository  = (*SQLite)(nil)
	_ timeline.Repository = (*SQLite)(nil)
)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ============================================================================
// Plans
// ============================================================================

// SavePlan replaces the stored plan with snap in a single transaction.
// Saving the same snapshot twice leaves the same rows behind.
func (s *SQLite) SavePlan(ctx context.Context, name string, snap planner.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
	`, name)
	if err != nil {
		return fmt.Errorf("upserting plan: %w", err)
	}

	for _, table := range []string{"plan_cards", "plan_rows"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE plan_name = ?", name); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	insertCard := `
		INSERT INTO plan_cards (plan_name, id, row_id, position, x, y, text, type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	rowPos := 0
	for i, c := range snap.Cards {
		if _, err := tx.ExecContext(ctx, insertCard,
			name, c.ID, nil, i, c.Coordinates.X, c.Coordinates.Y, c.Text, c.Type,
		); err != nil {
			return fmt.Errorf("inserting card %s: %w", c.ID, err)
		}
		if !c.IsRow() {
			continue
		}

		row, ok := snap.RowsData[c.ID]
		if !ok {
			row = planner.Row{ID: c.ID, Name: c.Text}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plan_rows (plan_name, id, name, position) VALUES (?, ?, ?, ?)`,
			name, c.ID, row.Name, rowPos,
		); err != nil {
			return fmt.Errorf("inserting row %s: %w", c.ID, err)
		}
		rowPos++

		for j, child := range row.Cards {
			if _, err := tx.ExecContext(ctx, insertCard,
				name, child.ID, c.ID, j, child.Coordinates.X, child.Coordinates.Y, child.Text, child.Type,
			); err != nil {
				return fmt.Errorf("inserting card %s in row %s: %w", child.ID, c.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadPlan returns the stored snapshot of a plan.
// Returns planner.ErrPlanNotFound if no plan has that name.
func (s *SQLite) LoadPlan(ctx context.Context, name string) (*planner.Snapshot, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM plans WHERE name = ?`, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", planner.ErrPlanNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}

	snap := &planner.Snapshot{
		Cards:    []planner.Card{},
		RowsData: make(map[string]planner.Row),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM plan_rows WHERE plan_name = ? ORDER BY position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	for rows.Next() {
		var r planner.Row
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Cards = []planner.Card{}
		snap.RowsData[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	_ = rows.Close()

	cards, err := s.db.QueryContext(ctx, `
		SELECT id, row_id, x, y, text, type
		FROM plan_cards
		WHERE plan_name = ?
		ORDER BY row_id IS NOT NULL, row_id, position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer func() { _ = cards.Close() }()

	for cards.Next() {
		var (
			c     planner.Card
			rowID sql.NullString
		)
		if err := cards.Scan(&c.ID, &rowID, &c.Coordinates.X, &c.Coordinates.Y, &c.Text, &c.Type); err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		if !rowID.Valid {
			snap.Cards = append(snap.Cards, c)
			continue
		}
		row, ok := snap.RowsData[rowID.String]
		if !ok {
			return nil, fmt.Errorf("%w: card %s references missing row %s", planner.ErrContainment, c.ID, rowID.String)
		}
		row.Cards = append(row.Cards, c)
		snap.RowsData[rowID.String] = row
	}
	if err := cards.Err(); err != nil {
		return nil, fmt.Errorf("iterating cards: %w", err)
	}

	return snap, nil
}

// ListPlans returns the names of all stored plans, alphabetically.
func (s *SQLite) ListPlans(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM plans ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ============================================================================
// Courses
// ============================================================================

// CreateCourse adds a new course.
// Returns timeline.ErrOverlap if it overlaps another course on the same date.
func (s *SQLite) CreateCourse(ctx context.Context, c timeline.Block) error {
	if c.IsPlaceholder() {
		return fmt.Errorf("%w: placeholders are not stored", timeline.ErrInvalidType)
	}
	if err := checkOverlap(ctx, s.db, c); err != nil {
		return err
	}
	if err := insertCourse(ctx, s.db, c); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

// ListCourses returns the courses starting on dates in [from, to), ordered by
// date and start time.
func (s *SQLite) ListCourses(ctx context.Context, from, to time.Time) ([]timeline.Block, error) {
	query := `
		SELECT id, name, room, course_date, start_time, end_time, type
		FROM courses
		WHERE course_date >= ? AND course_date < ?
		ORDER BY course_date, start_time
	`

	rows, err := s.db.QueryContext(ctx, query, dateutil.FormatDate(from), dateutil.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var courses []timeline.Block
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}
	return courses, nil
}

// SaveCourses replaces the courses stored on the given days of week with
// courses, atomically. Placeholders are skipped.
func (s *SQLite) SaveCourses(ctx context.Context, week timeline.Week, days []string, courses []timeline.Block) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, day := range days {
		date, err := week.DayDate(day)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE course_date = ?`, dateutil.FormatDate(date)); err != nil {
			return fmt.Errorf("clearing %s: %w", day, err)
		}
	}

	for _, c := range courses {
		if c.IsPlaceholder() {
			continue
		}
		// A course moved in from a day that was not cleared.
		if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, c.ID); err != nil {
			return fmt.Errorf("clearing course %s: %w", c.ID, err)
		}
		if err := insertCourse(ctx, tx, c); err != nil {
			return fmt.Errorf("inserting course %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertCourse(ctx context.Context, db execer, c timeline.Block) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO courses (id, name, room, course_date, start_time, end_time, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		c.Name,
		c.Room,
		dateutil.FormatDate(c.Start),
		c.StartClock(),
		c.EndClock(),
		string(c.Type),
	)
	return err
}

// checkOverlap checks if a course overlaps another course on the same date.
// Two time ranges overlap if: start1 < end2 AND start2 < end1
func checkOverlap(ctx context.Context, db execer, c timeline.Block) error {
	query := `
		SELECT name, start_time, end_time FROM courses
		WHERE course_date = ? AND id != ? AND start_time < ? AND end_time > ?
		LIMIT 1
	`
	var name, start, end string
	err := db.QueryRowContext(ctx, query,
		dateutil.FormatDate(c.Start), c.ID, c.EndClock(), c.StartClock(),
	).Scan(&name, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking overlap: %w", err)
	}
	return fmt.Errorf("%w: %s %s-%s", timeline.ErrOverlap, name, start, end)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (timeline.Block, error) {
	var (
		c          timeline.Block
		courseDate string
		start, end string
		typ        string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Room, &courseDate, &start, &end, &typ); err != nil {
		return timeline.Block{}, fmt.Errorf("scanning course: %w", err)
	}

	date, err := parseDate(courseDate)
	if err != nil {
		return timeline.Block{}, fmt.Errorf("parsing course date: %w", err)
	}
	startMin, err := dateutil.ParseClock(start)
	if err != nil {
		return timeline.Block{}, fmt.Errorf("parsing start time: %w", err)
	}
	endMin, err := dateutil.ParseClock(end)
	if err != nil {
		return timeline.Block{}, fmt.Errorf("parsing end time: %w", err)
	}

	c.Start = dateutil.At(date, startMin)
	c.End = dateutil.At(date, endMin)
	c.Day, c.Month, c.Year = date.Day(), int(date.Month()), date.Year()
	c.Type = timeline.BlockType(typ)
	return c, nil
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values (midnight) are parsed in local timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}

	// SQLite returns DATE columns as "2006-01-02T00:00:00Z"; keep the date, drop the zone.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
