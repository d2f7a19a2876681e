package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Tiliavir/daily-work-report/internal/model"
)

// SQLiteStore keeps all employees in a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating directories: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	zap.L().Debug("database initialized", zap.String("path", path))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			name TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			employee TEXT NOT NULL,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			job_number TEXT NOT NULL DEFAULT '',
			project_name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			external_id TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (employee, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_employee_position ON entries(employee, position)`,
		`CREATE TABLE IF NOT EXISTS selections (
			employee TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			date_from TEXT NOT NULL DEFAULT '',
			date_to TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			month INTEGER NOT NULL DEFAULT 0,
			week TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}
	return nil
}

// Load returns the employee's entries in insertion order and the stored
// selection.
func (s *SQLiteStore) Load(employee string) (model.EmployeeFile, error) {
	if err := ValidateEmployee(employee); err != nil {
		return model.EmployeeFile{}, err
	}
	f := emptyFile(employee)

	rows, err := s.db.Query(`
		SELECT id, date, start_time, end_time, job_number, project_name, description, source, external_id
		FROM entries WHERE employee = ? ORDER BY position`, employee)
	if err != nil {
		return model.EmployeeFile{}, fmt.Errorf("storage error querying entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e model.TimeEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.StartTime, &e.EndTime,
			&e.JobNumber, &e.ProjectName, &e.Description, &e.Source, &e.ExternalID); err != nil {
			return model.EmployeeFile{}, fmt.Errorf("storage error scanning entry: %w", err)
		}
		f.Entries = append(f.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return model.EmployeeFile{}, fmt.Errorf("storage error reading entries: %w", err)
	}

	var sel model.Selection
	err = s.db.QueryRow(`
		SELECT mode, date_from, date_to, year, month, week
		FROM selections WHERE employee = ?`, employee).
		Scan(&sel.Mode, &sel.DateFrom, &sel.DateTo, &sel.Year, &sel.Month, &sel.Week)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return model.EmployeeFile{}, fmt.Errorf("storage error reading selection: %w", err)
	default:
		f.Selection = &sel
	}
	return f, nil
}

// Save replaces the employee's entries and selection in one transaction.
func (s *SQLiteStore) Save(f model.EmployeeFile) error {
	if err := ValidateEmployee(f.Employee); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO employees(name) VALUES (?)`, f.Employee); err != nil {
		return fmt.Errorf("storage error saving employee: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM entries WHERE employee = ?`, f.Employee); err != nil {
		return fmt.Errorf("storage error clearing entries: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries (employee, id, position, date, start_time, end_time,
			job_number, project_name, description, source, external_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage error preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range f.Entries {
		if _, err := stmt.Exec(f.Employee, e.ID, i, e.Date, e.StartTime, e.EndTime,
			e.JobNumber, e.ProjectName, e.Description, e.Source, e.ExternalID); err != nil {
			return fmt.Errorf("storage error inserting entry %s: %w", e.ID, err)
		}
	}

	if f.Selection == nil {
		if _, err := tx.Exec(`DELETE FROM selections WHERE employee = ?`, f.Employee); err != nil {
			return fmt.Errorf("storage error clearing selection: %w", err)
		}
	} else {
		sel := f.Selection
		if _, err := tx.Exec(`
			INSERT INTO selections (employee, mode, date_from, date_to, year, month, week)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(employee) DO UPDATE SET
				mode = excluded.mode, date_from = excluded.date_from, date_to = excluded.date_to,
				year = excluded.year, month = excluded.month, week = excluded.week`,
			f.Employee, sel.Mode, sel.DateFrom, sel.DateTo, sel.Year, sel.Month, sel.Week); err != nil {
			return fmt.Errorf("storage error saving selection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage error committing: %w", err)
	}
	return nil
}

// Employees lists every employee that has been saved.
func (s *SQLiteStore) Employees() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("storage error listing employees: %w", err)
	}
	defer rows.Close()

	employees := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage error scanning employee: %w", err)
		}
		employees = append(employees, name)
	}
	return employees, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
