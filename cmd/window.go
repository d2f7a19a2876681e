package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/period"
)

// windowFlags are the report selector flags shared by list, report, export
// and select.
type windowFlags struct {
	from  string
	to    string
	year  int
	month int
	week  string
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "First day of a custom range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Last day of a custom range (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Year of a month selection (default: current year)")
	cmd.Flags().IntVar(&f.month, "month", 0, "Month of a month selection, 1-12 (default: current month)")
	cmd.Flags().StringVar(&f.week, "week", "", `Week of the month, 1-5 or "all"`)
}

func (f windowFlags) custom() bool { return f.from != "" || f.to != "" }

func (f windowFlags) monthly() bool { return f.year != 0 || f.month != 0 || f.week != "" }

// given reports whether any selector flag was passed.
func (f windowFlags) given() bool { return f.custom() || f.monthly() }

// selection resolves the flags into selector inputs. Custom range flags win
// over month flags; without any flag the stored selection is used, and
// without a stored one the current month.
func (f windowFlags) selection(stored *model.Selection, now time.Time) model.Selection {
	switch {
	case f.custom():
		return model.CustomRange(f.from, f.to)
	case f.monthly():
		year, month := f.year, f.month
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = int(now.Month())
		}
		return model.MonthWeek(year, month, f.week)
	case stored != nil:
		return *stored
	default:
		return period.CurrentMonth(now)
	}
}
