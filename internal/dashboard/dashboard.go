// Package dashboard runs the derivation and aggregation pass over the four
// study datasets and assembles the structured results consumed by renderers
// and the HTTP API.
package dashboard

import (
	"github.com/KaramelBytes/voltrack-cli/internal/derive"
	"github.com/KaramelBytes/voltrack-cli/internal/stats"
	"github.com/KaramelBytes/voltrack-cli/internal/table"
)

// Dataset roles.
const (
	RoleRegistrations = "registrations"
	RoleHouseholds    = "households"
	RoleIndividuals   = "individuals"
	RoleAccidents     = "accidents"
)

// Roles lists dataset roles in pipeline order.
var Roles = []string{RoleRegistrations, RoleHouseholds, RoleIndividuals, RoleAccidents}

// Datasets are the four source tables of one pass. A nil table is reported as
// a missing dataset for the metrics that need it.
type Datasets struct {
	Registrations *table.Table
	Households    *table.Table
	Individuals   *table.Table
	Accidents     *table.Table
}

// ByRole returns the table for a role.
func (d Datasets) ByRole(role string) *table.Table {
	switch role {
	case RoleRegistrations:
		return d.Registrations
	case RoleHouseholds:
		return d.Households
	case RoleIndividuals:
		return d.Individuals
	case RoleAccidents:
		return d.Accidents
	}
	return nil
}

// Options parameterize the pass.
type Options struct {
	// ReferenceYear is subtracted from birth years to derive ages.
	ReferenceYear int `json:"reference_year" yaml:"reference_year"`
	// CollapseThreshold merges accident types seen fewer times into Other.
	// Zero or negative disables collapsing.
	CollapseThreshold int `json:"collapse_threshold" yaml:"collapse_threshold"`
	// EncodeOrdinals reports alcohol frequency as ordinal codes instead of raw answers.
	EncodeOrdinals bool `json:"encode_ordinals" yaml:"encode_ordinals"`
	// AlcoholScale is the lookup used when EncodeOrdinals is set.
	AlcoholScale derive.OrdinalScale `json:"-" yaml:"-"`
	// DateOrder decides how ambiguous slash dates are read.
	DateOrder stats.DateOrder `json:"date_order" yaml:"date_order"`
	// HistogramBins is the bin count of the age-at-registration histogram.
	HistogramBins int `json:"histogram_bins" yaml:"histogram_bins"`
}

// DefaultOptions returns the options of the standard dashboard.
func DefaultOptions(referenceYear int) Options {
	return Options{
		ReferenceYear:     referenceYear,
		CollapseThreshold: stats.DefaultCollapseThreshold,
		AlcoholScale:      derive.DefaultAlcoholScale,
		DateOrder:         stats.DayFirst,
		HistogramBins:     20,
	}
}

// Warning codes.
const (
	CodeMissingColumn  = "missing_column"
	CodeMissingDataset = "missing_dataset"
	CodeDivisionByZero = "division_by_zero"
	CodeLoadFailed     = "load_failed"
)

// Warning is a non-fatal signal about a metric that could not be computed.
type Warning struct {
	Code    string `json:"code" yaml:"code"`
	Metric  string `json:"metric,omitempty" yaml:"metric,omitempty"`
	Dataset string `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	Column  string `json:"column,omitempty" yaml:"column,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// Dashboard is the result of one pass.
type Dashboard struct {
	ReferenceYear int               `json:"reference_year" yaml:"reference_year"`
	Options       Options           `json:"options" yaml:"options"`
	Tracking      Tracking          `json:"tracking" yaml:"tracking"`
	Volunteers    Volunteers        `json:"volunteers" yaml:"volunteers"`
	Accidents     Accidents         `json:"accidents" yaml:"accidents"`
	RiskFactors   RiskFactors       `json:"risk_factors" yaml:"risk_factors"`
	Correlation   *stats.CorrMatrix `json:"correlation,omitempty" yaml:"correlation,omitempty"`
	Warnings      []Warning         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Tracking follows registrations over time.
type Tracking struct {
	Registrations   []stats.MonthCount `json:"registrations_per_month,omitempty" yaml:"registrations_per_month,omitempty"`
	Retention       *stats.Retention   `json:"retention,omitempty" yaml:"retention,omitempty"`
	RegistrationAge *AgeDistribution   `json:"registration_age,omitempty" yaml:"registration_age,omitempty"`
}

// AgeDistribution describes ages at registration.
type AgeDistribution struct {
	Summary stats.Summary `json:"summary" yaml:"summary"`
	Bins    []stats.Bin   `json:"bins" yaml:"bins"`
}

// Volunteers breaks the individual survey down by profile.
type Volunteers struct {
	Gender      stats.FrequencyTable `json:"gender,omitempty" yaml:"gender,omitempty"`
	AgeBrackets stats.FrequencyTable `json:"age_brackets,omitempty" yaml:"age_brackets,omitempty"`
	Education   stats.FrequencyTable `json:"education,omitempty" yaml:"education,omitempty"`
	Employment  stats.FrequencyTable `json:"employment,omitempty" yaml:"employment,omitempty"`
	Residence   stats.FrequencyTable `json:"residence,omitempty" yaml:"residence,omitempty"`
}

// Accidents summarises the accident reports.
type Accidents struct {
	Types       stats.FrequencyTable `json:"types,omitempty" yaml:"types,omitempty"`
	Locations   stats.FrequencyTable `json:"locations,omitempty" yaml:"locations,omitempty"`
	Severity    stats.FrequencyTable `json:"severity,omitempty" yaml:"severity,omitempty"`
	AgeBrackets stats.FrequencyTable `json:"age_brackets,omitempty" yaml:"age_brackets,omitempty"`
}

// RiskFactors covers lifestyle and living conditions.
type RiskFactors struct {
	BMIBrackets      stats.FrequencyTable `json:"bmi_brackets,omitempty" yaml:"bmi_brackets,omitempty"`
	Alcohol          stats.FrequencyTable `json:"alcohol,omitempty" yaml:"alcohol,omitempty"`
	AlcoholEncoded   bool                 `json:"alcohol_encoded" yaml:"alcohol_encoded"`
	Tobacco          stats.FrequencyTable `json:"tobacco,omitempty" yaml:"tobacco,omitempty"`
	Cannabis         stats.FrequencyTable `json:"cannabis,omitempty" yaml:"cannabis,omitempty"`
	Habitat          stats.FrequencyTable `json:"habitat,omitempty" yaml:"habitat,omitempty"`
	PhysicalMental   *Series              `json:"physical_mental,omitempty" yaml:"physical_mental,omitempty"`
	LivingConditions *Series              `json:"living_conditions,omitempty" yaml:"living_conditions,omitempty"`
}
