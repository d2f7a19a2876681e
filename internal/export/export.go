// Package export renders reports as CSV, JSON, YAML or Markdown.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/daily-work-report/internal/report"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatMD   = "md"
)

// Formats lists the supported formats.
var Formats = []string{FormatCSV, FormatJSON, FormatYAML, FormatMD}

// Write renders r to w in the given format.
func Write(w io.Writer, r report.Report, format string) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return writeCSV(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(r))
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(r)); err != nil {
			return err
		}
		return enc.Close()
	case FormatMD, "":
		return writeMarkdown(w, r)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// writeCSV writes one row per entry.
func writeCSV(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"date", "start", "end", "job_number", "project_name", "description", "source", "duration_minutes"})
	for _, d := range r.Days {
		for _, e := range d.Entries {
			_ = cw.Write([]string{
				e.Date,
				e.StartTime,
				e.EndTime,
				e.JobNumber,
				e.ProjectName,
				e.Description,
				e.Source,
				strconv.Itoa(int(report.EntryDuration(e))),
			})
		}
	}
	cw.Flush()
	return cw.Error()
}

// mdEscape keeps cell text on one line and away from the column separator.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func writeMarkdown(w io.Writer, r report.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Work Report – %s\n\n", r.Employee)
	if week, ok := r.Window.WeekLabel(); ok {
		fmt.Fprintf(&b, "Period: %s (%s)\n\n", r.Window.Label(), week)
	} else {
		fmt.Fprintf(&b, "Period: %s\n\n", r.Window.Label())
	}

	if r.Window.Empty() {
		fmt.Fprintf(&b, "No days selected (%s).\n", r.Window.Reason)
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, d := range r.Days {
		fmt.Fprintf(&b, "## %s %s – %s\n\n", timecalc.FormatDate(d.Date), d.Date.Weekday().String()[:3], d.Total)
		if len(d.Entries) == 0 {
			b.WriteString("No entries.\n\n")
			continue
		}
		b.WriteString("| Start | End | Job | Project | Description | Hours |\n")
		b.WriteString("|---|---|---|---|---|---:|\n")
		for _, e := range d.Entries {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				mdEscape(e.StartTime), mdEscape(e.EndTime), mdEscape(e.JobNumber),
				mdEscape(e.ProjectName), mdEscape(e.Description), report.EntryDuration(e))
		}
		b.WriteString("\n")
	}

	jobs := r.ByJob()
	if len(jobs) > 0 {
		b.WriteString("## By job\n\n")
		b.WriteString("| Job | Project | Hours |\n")
		b.WriteString("|---|---|---:|\n")
		for _, j := range jobs {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", mdEscape(j.JobNumber), mdEscape(j.ProjectName), j.Total)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Total: %s**\n", r.Total)
	_, err := io.WriteString(w, b.String())
	return err
}
