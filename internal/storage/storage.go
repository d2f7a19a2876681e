package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tiliavir/daily-work-report/internal/model"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

var (
	// ErrNotFound is returned when an entry id does not exist for the employee.
	ErrNotFound = errors.New("entry not found")
	// ErrInvalidEmployee is returned for empty or path-like employee ids.
	ErrInvalidEmployee = errors.New("invalid employee id")
	// ErrDuplicate is returned when creating an entry whose id is taken.
	ErrDuplicate = errors.New("entry already exists")
)

// Store persists each employee's entry set and report selection. Entry
// sets are read and written back wholesale.
type Store interface {
	// Load returns the employee's file, or an empty one if nothing is stored.
	Load(employee string) (model.EmployeeFile, error)
	// Save replaces everything stored for f.Employee.
	Save(f model.EmployeeFile) error
	// Employees lists the employees that have stored data, sorted.
	Employees() ([]string, error)
	Close() error
}

// BaseDir returns the root data directory: $DWR_HOME, or ~/.dwr.
func BaseDir() (string, error) {
	if dir := os.Getenv("DWR_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".dwr"), nil
}

// Open returns the store for the given backend. dir is the entries
// directory for the JSON backend; dbPath is the database file for SQLite.
func Open(backend, dir, dbPath string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", BackendJSON:
		return NewFileStore(dir), nil
	case BackendSQLite:
		return NewSQLiteStore(dbPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", backend, BackendJSON, BackendSQLite)
	}
}

// ValidateEmployee rejects ids that cannot safely name a file.
func ValidateEmployee(employee string) error {
	if strings.TrimSpace(employee) == "" ||
		strings.ContainsAny(employee, `/\`) ||
		employee == "." || employee == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidEmployee, employee)
	}
	return nil
}

func emptyFile(employee string) model.EmployeeFile {
	return model.EmployeeFile{Employee: employee, Entries: []model.TimeEntry{}}
}

// ListEntries returns the employee's entries in insertion order.
func ListEntries(s Store, employee string) ([]model.TimeEntry, error) {
	f, err := s.Load(employee)
	if err != nil {
		return nil, err
	}
	return f.Entries, nil
}

// GetEntry returns a single entry.
func GetEntry(s Store, employee, id string) (model.TimeEntry, error) {
	f, err := s.Load(employee)
	if err != nil {
		return model.TimeEntry{}, err
	}
	e := f.Find(id)
	if e == nil {
		return model.TimeEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *e, nil
}

// CreateEntry appends a new entry. The entry must carry its ID.
func CreateEntry(s Store, employee string, e model.TimeEntry) error {
	f, err := s.Load(employee)
	if err != nil {
		return err
	}
	if f.Find(e.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicate, e.ID)
	}
	f.Entries = append(f.Entries, e)
	return s.Save(f)
}

// UpdateEntry replaces an existing entry, keeping its position.
func UpdateEntry(s Store, employee string, e model.TimeEntry) error {
	f, err := s.Load(employee)
	if err != nil {
		return err
	}
	if f.Find(e.ID) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, e.ID)
	}
	f.Upsert(e)
	return s.Save(f)
}

// DeleteEntry removes an entry.
func DeleteEntry(s Store, employee, id string) error {
	f, err := s.Load(employee)
	if err != nil {
		return err
	}
	if !f.Remove(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Save(f)
}

// SaveSelection stores the employee's report selector inputs.
func SaveSelection(s Store, employee string, sel model.Selection) error {
	f, err := s.Load(employee)
	if err != nil {
		return err
	}
	f.Selection = &sel
	return s.Save(f)
}

// LoadSelection returns the stored selection, or nil if none was saved.
func LoadSelection(s Store, employee string) (*model.Selection, error) {
	f, err := s.Load(employee)
	if err != nil {
		return nil, err
	}
	return f.Selection, nil
}
