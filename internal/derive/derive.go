// Package derive computes per-record attributes from raw survey columns: age
// from free-text birth years, age and BMI brackets, accident severity and
// ordinal encodings of survey answers. Every function is pure; the reference
// year is always passed in.
package derive

import (
	"math"
	"regexp"
	"strconv"

	"github.com/KaramelBytes/voltrack-cli/internal/table"
)

// NullInt is an integer that may be missing.
type NullInt struct {
	Int   int
	Valid bool
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// BirthYear extracts the first run of four digits from a free-text field.
func BirthYear(text string) (int, bool) {
	m := yearPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// Age returns referenceYear minus the extracted birth year. The result is not
// clamped and may be negative for malformed input.
func Age(birthText string, referenceYear int) NullInt {
	y, ok := BirthYear(birthText)
	if !ok {
		return NullInt{}
	}
	return NullInt{Int: referenceYear - y, Valid: true}
}

// Ages derives the AGE column of tbl from a free-text birth-year column.
func Ages(tbl *table.Table, birthColumn string, referenceYear int) ([]NullInt, error) {
	vals, err := tbl.Column(birthColumn)
	if err != nil {
		return nil, err
	}
	out := make([]NullInt, len(vals))
	for i, v := range vals {
		out[i] = Age(v, referenceYear)
	}
	return out, nil
}

// BMI is weight in kilograms over height in metres squared. It is missing when
// either input is NaN or the height is zero.
func BMI(weightKg, heightCm float64) (float64, bool) {
	if math.IsNaN(weightKg) || math.IsNaN(heightCm) || heightCm == 0 {
		return 0, false
	}
	m := heightCm / 100
	return weightKg / (m * m), true
}

// BMIs derives a BMI per row from weight (kg) and height (cm) columns. Missing
// values are NaN.
func BMIs(tbl *table.Table, weightColumn, heightColumn string) ([]float64, error) {
	if err := tbl.Require(weightColumn, heightColumn); err != nil {
		return nil, err
	}
	w, _ := tbl.Numbers(weightColumn)
	h, _ := tbl.Numbers(heightColumn)
	out := make([]float64, len(w))
	for i := range w {
		if v, ok := BMI(w[i], h[i]); ok {
			out[i] = v
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// Severity labels accidents by hospitalisation length.
const (
	SeveritySevere = "Severe"
	SeverityMinor  = "Minor"
)

// Severity is Severe when the stay lasted more than three days.
func Severity(days float64) string {
	if days > 3 {
		return SeveritySevere
	}
	return SeverityMinor
}

// Severities labels every row with hospitalisation data; rows without it are
// left out rather than defaulted.
func Severities(tbl *table.Table, daysColumn string) ([]string, error) {
	days, err := tbl.Numbers(daysColumn)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		if math.IsNaN(d) {
			continue
		}
		out = append(out, Severity(d))
	}
	return out, nil
}
