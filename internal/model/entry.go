package model

// SourceManual marks entries typed in by the employee.
const SourceManual = "manual"

// TimeEntry is one unit of work logged by an employee on a calendar day.
// Date is "2006-01-02"; StartTime and EndTime are "15:04" wall-clock times
// on that date.
type TimeEntry struct {
	ID          string `json:"id" yaml:"id"`
	Date        string `json:"date" yaml:"date"`
	StartTime   string `json:"start_time" yaml:"start_time"`
	EndTime     string `json:"end_time" yaml:"end_time"`
	JobNumber   string `json:"job_number" yaml:"job_number"`
	ProjectName string `json:"project_name" yaml:"project_name"`
	Description string `json:"description" yaml:"description"`
	Source      string `json:"source" yaml:"source"`
	ExternalID  string `json:"external_id,omitempty" yaml:"external_id,omitempty"`
}

// EmployeeFile is the persisted entry set of a single employee, together
// with the report selector inputs last used by that employee.
type EmployeeFile struct {
	Employee  string      `json:"employee"`
	Entries   []TimeEntry `json:"entries"`
	Selection *Selection  `json:"selection,omitempty"`
}

// Find returns a pointer to the entry with the given id, or nil.
func (f *EmployeeFile) Find(id string) *TimeEntry {
	for i := range f.Entries {
		if f.Entries[i].ID == id {
			return &f.Entries[i]
		}
	}
	return nil
}

// FindByExternalID returns a pointer to the entry imported from the given
// external event, or nil.
func (f *EmployeeFile) FindByExternalID(externalID string) *TimeEntry {
	if externalID == "" {
		return nil
	}
	for i := range f.Entries {
		if f.Entries[i].ExternalID == externalID {
			return &f.Entries[i]
		}
	}
	return nil
}

// Upsert replaces the entry with the same ID or appends it.
func (f *EmployeeFile) Upsert(e TimeEntry) {
	if existing := f.Find(e.ID); existing != nil {
		*existing = e
		return
	}
	f.Entries = append(f.Entries, e)
}

// Remove deletes the entry with the given id and reports whether it existed.
func (f *EmployeeFile) Remove(id string) bool {
	for i := range f.Entries {
		if f.Entries[i].ID == id {
			f.Entries = append(f.Entries[:i], f.Entries[i+1:]...)
			return true
		}
	}
	return false
}
