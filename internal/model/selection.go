package model

// Selection modes.
const (
	ModeCustom = "custom"
	ModeMonth  = "month"
)

// WeekAll selects every day of the month.
const WeekAll = "all"

// Selection holds the report window selector inputs exactly as the user
// entered them. Values are kept as strings so that half-filled or stale
// state can be stored and later degrade to an empty window.
type Selection struct {
	Mode     string `json:"mode" yaml:"mode"`
	DateFrom string `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty" yaml:"date_to,omitempty"`
	Year     int    `json:"year,omitempty" yaml:"year,omitempty"`
	Month    int    `json:"month,omitempty" yaml:"month,omitempty"`
	Week     string `json:"week,omitempty" yaml:"week,omitempty"`
}

// CustomRange returns a selection for the inclusive range [from, to].
func CustomRange(from, to string) Selection {
	return Selection{Mode: ModeCustom, DateFrom: from, DateTo: to}
}

// MonthWeek returns a selection for a month, narrowed to week ("1".."5")
// unless week is WeekAll or empty.
func MonthWeek(year, month int, week string) Selection {
	if week == "" {
		week = WeekAll
	}
	return Selection{Mode: ModeMonth, Year: year, Month: month, Week: week}
}
