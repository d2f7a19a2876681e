package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Tiliavir/daily-work-report/internal/model"
)

// FileStore keeps one JSON file per employee under dir.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// employeeFilePath returns the path for the given employee's JSON file.
func (s *FileStore) employeeFilePath(employee string) string {
	return filepath.Join(s.dir, employee+".json")
}

// Load loads the employee's file. Returns an empty file if not found.
func (s *FileStore) Load(employee string) (model.EmployeeFile, error) {
	if err := ValidateEmployee(employee); err != nil {
		return model.EmployeeFile{}, err
	}
	path := s.employeeFilePath(employee)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return emptyFile(employee), nil
	}
	if err != nil {
		return model.EmployeeFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var f model.EmployeeFile
	if err := json.Unmarshal(data, &f); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.EmployeeFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	f.Employee = employee
	if f.Entries == nil {
		f.Entries = []model.TimeEntry{}
	}
	return f, nil
}

// Save atomically writes the employee's file.
func (s *FileStore) Save(f model.EmployeeFile) error {
	if err := ValidateEmployee(f.Employee); err != nil {
		return err
	}
	if f.Entries == nil {
		f.Entries = []model.TimeEntry{}
	}
	path := s.employeeFilePath(f.Employee)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Employees lists employees with a stored file.
func (s *FileStore) Employees() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error listing %s: %w", s.dir, err)
	}
	employees := []string{}
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		employees = append(employees, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(employees)
	return employees, nil
}

// Close is a no-op; files are not held open between calls.
func (s *FileStore) Close() error { return nil }
