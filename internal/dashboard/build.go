package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/voltrack-cli/internal/derive"
	"github.com/KaramelBytes/voltrack-cli/internal/logging"
	"github.com/KaramelBytes/voltrack-cli/internal/stats"
	"github.com/KaramelBytes/voltrack-cli/internal/table"
)

// Build runs every metric once over the datasets. Metrics are independent: a
// missing column or dataset skips only the metrics that need it and is
// recorded in Dashboard.Warnings. Build never mutates the input tables.
func Build(ds Datasets, opt Options, cols Columns) *Dashboard {
	cols = cols.WithDefaults()
	if opt.AlcoholScale == nil {
		opt.AlcoholScale = derive.DefaultAlcoholScale
	}
	if opt.HistogramBins <= 0 {
		opt.HistogramBins = 20
	}
	b := &builder{ds: ds, opt: opt, cols: cols, d: &Dashboard{ReferenceYear: opt.ReferenceYear, Options: opt}}

	b.tracking()
	b.volunteers()
	b.accidents()
	b.riskFactors()
	b.correlation()

	logging.Debug().Int("warnings", len(b.d.Warnings)).Int("reference_year", opt.ReferenceYear).Msg("dashboard built")
	return b.d
}

type builder struct {
	ds   Datasets
	opt  Options
	cols Columns
	d    *Dashboard
}

// need checks that the role's table is present and has the columns.
func (b *builder) need(metric, role string, columns ...string) (*table.Table, bool) {
	tbl := b.ds.ByRole(role)
	if tbl == nil {
		b.warn(Warning{
			Code:    CodeMissingDataset,
			Metric:  metric,
			Dataset: role,
			Message: fmt.Sprintf("%s dataset is not available", role),
		})
		return nil, false
	}
	if err := tbl.Require(columns...); err != nil {
		b.fail(metric, role, err)
		return nil, false
	}
	return tbl, true
}

func (b *builder) fail(metric, role string, err error) {
	w := Warning{Metric: metric, Dataset: role, Message: err.Error()}
	var mc *table.MissingColumnError
	switch {
	case errors.As(err, &mc):
		w.Code = CodeMissingColumn
		w.Column = mc.Column
		w.Message = fmt.Sprintf("column %q is missing from the %s dataset", mc.Column, role)
	case errors.Is(err, stats.ErrNoRegistrations):
		w.Code = CodeDivisionByZero
	default:
		w.Code = "error"
	}
	b.warn(w)
}

func (b *builder) warn(w Warning) {
	logging.Debug().Str("code", w.Code).Str("metric", w.Metric).Str("dataset", w.Dataset).Msg(w.Message)
	b.d.Warnings = append(b.d.Warnings, w)
}

// frequencies counts a categorical column, dropping empty cells.
func (b *builder) frequencies(metric, role, column string) stats.FrequencyTable {
	tbl, ok := b.need(metric, role, column)
	if !ok {
		return nil
	}
	vals, _ := tbl.Column(column)
	return stats.Frequencies(vals)
}

func (b *builder) ageBrackets(metric, role, column string) stats.FrequencyTable {
	tbl, ok := b.need(metric, role, column)
	if !ok {
		return nil
	}
	ages, _ := derive.Ages(tbl, column, b.opt.ReferenceYear)
	return stats.Frequencies(derive.AgeBracketLabels(ages))
}

func (b *builder) tracking() {
	c := b.cols
	if tbl, ok := b.need("registrations_per_month", RoleRegistrations, c.RegistrationDate); ok {
		vals, _ := tbl.Column(c.RegistrationDate)
		b.d.Tracking.Registrations = stats.MonthlyCounts(vals, b.opt.DateOrder)
	}

	reg, okReg := b.need("retention", RoleRegistrations, c.Identifier)
	if okReg {
		if ind, ok := b.need("retention", RoleIndividuals, c.Identifier); ok {
			regIDs, _ := reg.Column(c.Identifier)
			indIDs, _ := ind.Column(c.Identifier)
			r, err := stats.ComputeRetention(indIDs, regIDs)
			if err != nil {
				b.fail("retention", RoleRegistrations, err)
			} else {
				b.d.Tracking.Retention = &r
			}
		}
	}

	if tbl, ok := b.need("registration_age", RoleRegistrations, c.RegistrationBirthYear); ok {
		ages, _ := derive.Ages(tbl, c.RegistrationBirthYear, b.opt.ReferenceYear)
		vals := make([]float64, 0, len(ages))
		for _, a := range ages {
			if a.Valid {
				vals = append(vals, float64(a.Int))
			}
		}
		if s, ok := stats.Describe(vals); ok {
			b.d.Tracking.RegistrationAge = &AgeDistribution{Summary: s, Bins: stats.Histogram(vals, b.opt.HistogramBins)}
		}
	}
}

func (b *builder) volunteers() {
	c := b.cols
	v := &b.d.Volunteers
	v.Gender = b.frequencies("gender", RoleIndividuals, c.Gender)
	v.AgeBrackets = b.ageBrackets("age_brackets", RoleIndividuals, c.BirthYear)
	v.Education = b.frequencies("education", RoleIndividuals, c.Education)
	v.Employment = b.frequencies("employment", RoleIndividuals, c.Employment)
	v.Residence = b.frequencies("residence", RoleHouseholds, c.Residence)
}

func (b *builder) accidents() {
	c := b.cols
	a := &b.d.Accidents
	a.Types = b.frequencies("accident_types", RoleAccidents, c.AccidentType)
	if a.Types != nil && b.opt.CollapseThreshold > 0 {
		a.Types = stats.Collapse(a.Types, b.opt.CollapseThreshold)
	}
	a.Locations = b.frequencies("accident_locations", RoleAccidents, c.AccidentLocation)
	if tbl, ok := b.need("severity", RoleAccidents, c.HospitalDays); ok {
		sev, _ := derive.Severities(tbl, c.HospitalDays)
		a.Severity = stats.Frequencies(sev)
	}
	a.AgeBrackets = b.ageBrackets("accident_age_brackets", RoleAccidents, c.AccidentBirthYear)
}

func (b *builder) riskFactors() {
	c := b.cols
	r := &b.d.RiskFactors
	if tbl, ok := b.need("bmi_brackets", RoleIndividuals, c.Weight, c.Height); ok {
		bmis, _ := derive.BMIs(tbl, c.Weight, c.Height)
		r.BMIBrackets = stats.Frequencies(derive.BMIBracketLabels(bmis))
	}
	if b.opt.EncodeOrdinals {
		r.Alcohol = b.alcoholCodes()
		r.AlcoholEncoded = r.Alcohol != nil
	} else {
		r.Alcohol = b.frequencies("alcohol", RoleIndividuals, c.Alcohol)
	}
	r.Tobacco = b.frequencies("tobacco", RoleIndividuals, c.Tobacco)
	r.Cannabis = b.frequencies("cannabis", RoleIndividuals, c.Cannabis)
	r.Habitat = b.frequencies("habitat", RoleHouseholds, c.Habitat)
	r.PhysicalMental = b.scatter("physical_mental", RoleIndividuals, c.PhysicalScore, c.MentalScore, c.HadAccident, "")
	r.LivingConditions = b.scatter("living_conditions", RoleHouseholds, c.Income, c.HouseholdSize, c.Pets, c.DwellingArea)
}

// alcoholCodes counts ordinal codes in ascending code order; answers outside
// the scale are left out.
func (b *builder) alcoholCodes() stats.FrequencyTable {
	tbl, ok := b.need("alcohol", RoleIndividuals, b.cols.Alcohol)
	if !ok {
		return nil
	}
	vals, _ := tbl.Column(b.cols.Alcohol)
	counts := map[int]int{}
	for _, code := range b.opt.AlcoholScale.Encode(vals) {
		if code.Valid {
			counts[code.Int]++
		}
	}
	codes := make([]int, 0, len(counts))
	for k := range counts {
		codes = append(codes, k)
	}
	sort.Ints(codes)
	out := make(stats.FrequencyTable, 0, len(codes))
	for _, k := range codes {
		out = append(out, stats.CategoryCount{Label: strconv.Itoa(k), Count: counts[k]})
	}
	return out
}

func (b *builder) correlation() {
	tbl, ok := b.need("correlation", RoleAccidents)
	if !ok {
		return
	}
	// identifiers and birth-year text are not numeric attributes even when digits
	cols := tbl.NumericColumns(b.cols.Identifier, b.cols.AccidentBirthYear)
	m, err := stats.Correlate(tbl, cols)
	if err != nil {
		b.fail("correlation", RoleAccidents, err)
		return
	}
	b.d.Correlation = m
}
