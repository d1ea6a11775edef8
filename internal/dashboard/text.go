package dashboard

import (
	"fmt"
	"io"
	"math"

	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/voltrack-cli/internal/stats"
)

// WriteText renders the dashboard as terminal tables.
func (d *Dashboard) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Reference year: %d\n", d.ReferenceYear)

	if len(d.Tracking.Registrations) > 0 {
		fmt.Fprintln(w, "\nRegistrations per month")
		t := tablewriter.NewWriter(w)
		t.SetHeader([]string{"Month", "Registrations"})
		for _, m := range d.Tracking.Registrations {
			t.Append([]string{m.Label, fmt.Sprintf("%d", m.Count)})
		}
		t.Render()
	}
	if r := d.Tracking.Retention; r != nil {
		fmt.Fprintf(w, "\nRetention: %.1f%% (%d / %d)\n", r.Rate, r.Individuals, r.Registrations)
	}

	sections := []struct {
		title string
		f     stats.FrequencyTable
	}{
		{"Gender", d.Volunteers.Gender},
		{"Age brackets", d.Volunteers.AgeBrackets},
		{"Education", d.Volunteers.Education},
		{"Employment", d.Volunteers.Employment},
		{"Residence", d.Volunteers.Residence},
		{"Accident types", d.Accidents.Types},
		{"Accident locations", d.Accidents.Locations},
		{"Severity", d.Accidents.Severity},
		{"Accident age brackets", d.Accidents.AgeBrackets},
		{"BMI brackets", d.RiskFactors.BMIBrackets},
		{"Alcohol", d.RiskFactors.Alcohol},
		{"Tobacco", d.RiskFactors.Tobacco},
		{"Cannabis", d.RiskFactors.Cannabis},
		{"Habitat", d.RiskFactors.Habitat},
	}
	for _, s := range sections {
		if len(s.f) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", s.title)
		total := s.f.Total()
		t := tablewriter.NewWriter(w)
		t.SetHeader([]string{"Category", "Count", "Share"})
		t.SetAutoWrapText(false)
		for _, c := range s.f {
			t.Append([]string{safeName(c.Label), fmt.Sprintf("%d", c.Count), fmt.Sprintf("%.1f%%", float64(c.Count)*100/float64(total))})
		}
		t.Render()
	}

	if m := d.Correlation; m != nil && len(m.Columns) > 1 {
		fmt.Fprintln(w, "\nCorrelations")
		t := tablewriter.NewWriter(w)
		t.SetHeader([]string{"A", "B", "r"})
		t.SetAutoWrapText(false)
		for i := range m.Columns {
			for j := i + 1; j < len(m.Columns); j++ {
				r := m.Values[i][j]
				cell := "n/a"
				if !math.IsNaN(r) {
					cell = fmt.Sprintf("%.3f", r)
				}
				t.Append([]string{safeName(m.Columns[i]), safeName(m.Columns[j]), cell})
			}
		}
		t.Render()
	}

	if len(d.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings")
		t := tablewriter.NewWriter(w)
		t.SetHeader([]string{"Metric", "Code", "Message"})
		t.SetAutoWrapText(false)
		for _, wn := range d.Warnings {
			t.Append([]string{wn.Metric, wn.Code, wn.Message})
		}
		t.Render()
	}
	return nil
}
