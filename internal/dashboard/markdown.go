package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/voltrack-cli/internal/stats"
)

// Markdown renders the dashboard as a bracketed-section report.
func (d *Dashboard) Markdown() string {
	var b strings.Builder
	b.WriteString("[DASHBOARD]\n")
	b.WriteString(fmt.Sprintf("Reference year: %d\n", d.ReferenceYear))
	if d.Options.CollapseThreshold > 0 {
		b.WriteString(fmt.Sprintf("Accident types below %d merged into %s\n", d.Options.CollapseThreshold, stats.OtherLabel))
	}

	b.WriteString("\n[REGISTRATIONS]\n")
	for _, m := range d.Tracking.Registrations {
		b.WriteString(fmt.Sprintf("- %s: %d\n", m.Label, m.Count))
	}
	if r := d.Tracking.Retention; r != nil {
		b.WriteString(fmt.Sprintf("Retention: %.1f%% (%d individuals / %d registrations, %d matched)\n",
			r.Rate, r.Individuals, r.Registrations, r.Matched))
	}
	if a := d.Tracking.RegistrationAge; a != nil {
		s := a.Summary
		b.WriteString(fmt.Sprintf("Age at registration: n=%d, mean %.1f, median %.1f, min %.0f, max %.0f\n",
			s.Count, s.Mean, s.Median, s.Min, s.Max))
	}

	writeFreq(&b, "GENDER", d.Volunteers.Gender)
	writeFreq(&b, "AGE BRACKETS", d.Volunteers.AgeBrackets)
	writeFreq(&b, "EDUCATION", d.Volunteers.Education)
	writeFreq(&b, "EMPLOYMENT", d.Volunteers.Employment)
	writeFreq(&b, "RESIDENCE", d.Volunteers.Residence)

	writeFreq(&b, "ACCIDENT TYPES", d.Accidents.Types)
	writeFreq(&b, "ACCIDENT LOCATIONS", d.Accidents.Locations)
	writeFreq(&b, "SEVERITY", d.Accidents.Severity)
	writeFreq(&b, "ACCIDENT AGE BRACKETS", d.Accidents.AgeBrackets)

	writeFreq(&b, "BMI BRACKETS", d.RiskFactors.BMIBrackets)
	alcohol := "ALCOHOL"
	if d.RiskFactors.AlcoholEncoded {
		alcohol = "ALCOHOL (ORDINAL CODES)"
	}
	writeFreq(&b, alcohol, d.RiskFactors.Alcohol)
	writeFreq(&b, "TOBACCO", d.RiskFactors.Tobacco)
	writeFreq(&b, "CANNABIS", d.RiskFactors.Cannabis)
	writeFreq(&b, "HABITAT", d.RiskFactors.Habitat)
	for _, s := range []*Series{d.RiskFactors.PhysicalMental, d.RiskFactors.LivingConditions} {
		if s == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\n[SCATTER %s]\n", strings.ToUpper(s.Name)))
		b.WriteString(fmt.Sprintf("- x: %s\n- y: %s\n", safeName(s.XField), safeName(s.YField)))
		if s.ColorField != "" {
			b.WriteString(fmt.Sprintf("- color: %s\n", safeName(s.ColorField)))
		}
		if s.SizeField != "" {
			b.WriteString(fmt.Sprintf("- size: %s\n", safeName(s.SizeField)))
		}
		b.WriteString(fmt.Sprintf("- points: %d\n", len(s.Points)))
	}

	if m := d.Correlation; m != nil && len(m.Columns) > 1 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pair struct {
			A, B string
			R    float64
		}
		var pairs []pair
		for i := range m.Columns {
			for j := i + 1; j < len(m.Columns); j++ {
				if r := m.Values[i][j]; !math.IsNaN(r) {
					pairs = append(pairs, pair{m.Columns[i], m.Columns[j], r})
				}
			}
		}
		sort.SliceStable(pairs, func(i, j int) bool { return math.Abs(pairs[i].R) > math.Abs(pairs[j].R) })
		for i := 0; i < len(pairs) && i < 10; i++ {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", safeName(pairs[i].A), safeName(pairs[i].B), pairs[i].R))
		}
	}

	if len(d.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range d.Warnings {
			b.WriteString(fmt.Sprintf("- %s (%s): %s\n", w.Metric, w.Code, w.Message))
		}
	}
	return b.String()
}

func writeFreq(b *strings.Builder, title string, f stats.FrequencyTable) {
	if len(f) == 0 {
		return
	}
	total := f.Total()
	b.WriteString(fmt.Sprintf("\n[%s]\n", title))
	for _, c := range f {
		pct := 0.0
		if total > 0 {
			pct = float64(c.Count) * 100 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeName(c.Label), c.Count, pct))
	}
}

func safeName(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	if r := []rune(s); len(r) > 80 {
		return string(r[:77]) + "..."
	}
	return s
}
