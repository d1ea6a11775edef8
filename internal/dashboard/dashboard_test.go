package dashboard

import (
	"bytes"
	"strings"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/voltrack-cli/internal/stats"
	"github.com/KaramelBytes/voltrack-cli/internal/table"
)

func testColumns() Columns {
	return Columns{
		Identifier:            "id",
		RegistrationDate:      "date",
		RegistrationBirthYear: "birth",
		Residence:             "residence",
		Income:                "income",
		HouseholdSize:         "size",
		Habitat:               "habitat",
		Pets:                  "pets",
		DwellingArea:          "area",
		Gender:                "gender",
		BirthYear:             "birth",
		Education:             "education",
		Employment:            "employment",
		Weight:                "weight",
		Height:                "height",
		Alcohol:               "alcohol",
		Tobacco:               "tobacco",
		Cannabis:              "cannabis",
		PhysicalScore:         "physical",
		MentalScore:           "mental",
		HadAccident:           "accident",
		AccidentType:          "type",
		AccidentLocation:      "location",
		HospitalDays:          "days",
		AccidentBirthYear:     "birth",
	}
}

func testDatasets() Datasets {
	reg := table.New("registrations", []string{"id", "date", "birth"}, [][]string{
		{"1", "2023-01-05", "1990"},
		{"2", "2023-01-20", "1985"},
		{"3", "2023-02-02", "2001"},
		{"4", "not a date", "1970"},
	})
	ind := table.New("individuals",
		[]string{"id", "gender", "birth", "education", "employment", "weight", "height", "alcohol", "tobacco", "cannabis", "physical", "mental", "accident"},
		[][]string{
			{"1", "F", "1990", "Master", "Employed", "70", "175", "Jamais", "0", "Non", "7", "8", "Non"},
			{"2", "M", "1985", "Bac", "Employed", "90", "180", "2 à 3 fois par semaine", "5", "Non", "6", "5", "Oui"},
			{"3", "F", "2001", "Master", "Student", "", "165", "Unknown answer", "0", "Oui", "9", "9", "Non"},
		})
	hh := table.New("households",
		[]string{"id", "residence", "income", "size", "habitat", "pets", "area"},
		[][]string{
			{"1", "Ile-de-France", "1500 - 2000", "2", "Urbain", "Oui", "60"},
			{"2", "Bretagne", "Moins de 1000", "1", "Rural", "Non", ""},
			{"3", "Ile-de-France", "3000 - 4000", "4", "Urbain", "Oui", "120"},
		})
	acc := table.New("accidents",
		[]string{"id", "type", "location", "days", "birth", "score"},
		[][]string{
			{"1", "Chute", "Domicile", "0", "1990", "0"},
			{"2", "Chute", "Domicile", "5", "1985", "10"},
			{"3", "Chute", "Travail", "", "2001", "3"},
			{"4", "Chute", "Domicile", "1", "1970", "2"},
			{"5", "Chute", "Sport", "10", "1990", "20"},
			{"6", "Chute", "Domicile", "2", "1960", "4"},
			{"7", "Brulure", "Domicile", "0", "1990", "0"},
			{"8", "Brulure", "Travail", "4", "1980", "8"},
			{"9", "Coupure", "Domicile", "1", "2000", "2"},
		})
	return Datasets{Registrations: reg, Households: hh, Individuals: ind, Accidents: acc}
}

func TestBuildComputesEverySection(t *testing.T) {
	d := Build(testDatasets(), DefaultOptions(2024), testColumns())
	require.NotNil(t, d)
	assert.Empty(t, d.Warnings)

	months := d.Tracking.Registrations
	require.Len(t, months, 2)
	assert.Equal(t, "2023-01", months[0].Label)
	assert.Equal(t, 2, months[0].Count)
	assert.Equal(t, "2023-02", months[1].Label)
	assert.Equal(t, 1, months[1].Count)

	require.NotNil(t, d.Tracking.Retention)
	assert.InDelta(t, 75.0, d.Tracking.Retention.Rate, 1e-9)
	require.NotNil(t, d.Tracking.RegistrationAge)
	assert.Equal(t, 4, d.Tracking.RegistrationAge.Summary.Count)

	assert.Equal(t, 2, d.Volunteers.Gender.Count("F"))
	assert.Equal(t, 2, d.Volunteers.AgeBrackets.Count("30-39"))
	assert.Equal(t, 1, d.Volunteers.AgeBrackets.Count("18-29"))
	assert.Equal(t, 2, d.Volunteers.Residence.Count("Ile-de-France"))

	assert.Equal(t, stats.FrequencyTable{{Label: "Chute", Count: 6}, {Label: stats.OtherLabel, Count: 3}}, d.Accidents.Types)
	assert.Equal(t, 3, d.Accidents.Severity.Count("Severe"))
	assert.Equal(t, 5, d.Accidents.Severity.Count("Minor"))
	assert.Equal(t, 5, d.Accidents.Locations.Count("Domicile"))

	assert.Equal(t, 1, d.RiskFactors.BMIBrackets.Count("Normal"))
	assert.Equal(t, 1, d.RiskFactors.BMIBrackets.Count("Overweight"))
	assert.Equal(t, 2, d.RiskFactors.BMIBrackets.Total())
	assert.False(t, d.RiskFactors.AlcoholEncoded)
	assert.Equal(t, 3, d.RiskFactors.Alcohol.Total())

	require.NotNil(t, d.Correlation)
	assert.Equal(t, []string{"days", "score"}, d.Correlation.Columns)
	r, ok := d.Correlation.At("days", "score")
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)
}

func TestBuildWithoutCollapse(t *testing.T) {
	opt := DefaultOptions(2024)
	opt.CollapseThreshold = 0
	d := Build(testDatasets(), opt, testColumns())
	assert.Len(t, d.Accidents.Types, 3)
	assert.Equal(t, 0, d.Accidents.Types.Count(stats.OtherLabel))
}

func TestBuildEncodesAlcohol(t *testing.T) {
	opt := DefaultOptions(2024)
	opt.EncodeOrdinals = true
	d := Build(testDatasets(), opt, testColumns())
	assert.True(t, d.RiskFactors.AlcoholEncoded)
	assert.Equal(t, stats.FrequencyTable{{Label: "0", Count: 1}, {Label: "3", Count: 1}}, d.RiskFactors.Alcohol)
}

func TestMissingColumnOnlySkipsItsMetric(t *testing.T) {
	ds := testDatasets()
	ds.Individuals = table.New("individuals", []string{"id", "education"}, [][]string{{"1", "Master"}, {"2", "Bac"}})
	d := Build(ds, DefaultOptions(2024), testColumns())

	assert.Nil(t, d.Volunteers.Gender)
	assert.Equal(t, 1, d.Volunteers.Education.Count("Master"))
	require.NotNil(t, d.Tracking.Retention)

	var gender *Warning
	for i := range d.Warnings {
		if d.Warnings[i].Metric == "gender" {
			gender = &d.Warnings[i]
		}
	}
	require.NotNil(t, gender)
	assert.Equal(t, CodeMissingColumn, gender.Code)
	assert.Equal(t, "gender", gender.Column)
	assert.Equal(t, RoleIndividuals, gender.Dataset)
}

func TestMissingDataset(t *testing.T) {
	ds := testDatasets()
	ds.Accidents = nil
	d := Build(ds, DefaultOptions(2024), testColumns())
	assert.Nil(t, d.Accidents.Types)
	assert.Nil(t, d.Correlation)
	assert.NotNil(t, d.Volunteers.Gender)
	codes := map[string]bool{}
	for _, w := range d.Warnings {
		codes[w.Code] = true
	}
	assert.True(t, codes[CodeMissingDataset])
}

func TestZeroRegistrationsIsAWarning(t *testing.T) {
	ds := testDatasets()
	ds.Registrations = table.New("registrations", []string{"id", "date", "birth"}, nil)
	d := Build(ds, DefaultOptions(2024), testColumns())
	assert.Nil(t, d.Tracking.Retention)
	assert.Empty(t, d.Tracking.Registrations)

	found := false
	for _, w := range d.Warnings {
		if w.Metric == "retention" && w.Code == CodeDivisionByZero {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScatterSeries(t *testing.T) {
	d := Build(testDatasets(), DefaultOptions(2024), testColumns())

	pm := d.RiskFactors.PhysicalMental
	require.NotNil(t, pm)
	require.Len(t, pm.Points, 3)
	assert.Empty(t, pm.Categories)
	assert.Equal(t, 7.0, pm.Points[0].X)
	assert.Equal(t, 8.0, pm.Points[0].Y)
	assert.Equal(t, "Oui", pm.Points[1].Color)

	lc := d.RiskFactors.LivingConditions
	require.NotNil(t, lc)
	assert.Equal(t, []string{"Moins de 1000", "1500 - 2000", "3000 - 4000"}, lc.Categories)
	require.Len(t, lc.Points, 3)
	assert.Equal(t, 1.0, lc.Points[0].X)
	assert.Equal(t, "1500 - 2000", lc.Points[0].XLabel)
	require.NotNil(t, lc.Points[0].Size)
	assert.Equal(t, 60.0, *lc.Points[0].Size)
	assert.Nil(t, lc.Points[1].Size)
}

func TestScatterOptionalColumnWarns(t *testing.T) {
	ds := testDatasets()
	ds.Households = table.New("households", []string{"income", "size"}, [][]string{{"1200", "2"}, {"", "3"}, {"2500", "x"}})
	d := Build(ds, DefaultOptions(2024), testColumns())

	lc := d.RiskFactors.LivingConditions
	require.NotNil(t, lc)
	assert.Len(t, lc.Points, 1)
	assert.Empty(t, lc.ColorField)
	assert.Empty(t, lc.SizeField)

	missing := map[string]bool{}
	for _, w := range d.Warnings {
		if w.Metric == "living_conditions" {
			missing[w.Column] = true
		}
	}
	assert.True(t, missing["pets"])
	assert.True(t, missing["area"])
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	ds := testDatasets()
	before, _ := ds.Accidents.Column("type")
	header := ds.Accidents.Header()

	Build(ds, DefaultOptions(2024), testColumns())

	after, _ := ds.Accidents.Column("type")
	assert.Equal(t, before, after)
	assert.Equal(t, header, ds.Accidents.Header())
	assert.Equal(t, 9, ds.Accidents.Len())
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build(testDatasets(), DefaultOptions(2024), testColumns()).JSON()
	require.NoError(t, err)
	b, err := Build(testDatasets(), DefaultOptions(2024), testColumns()).JSON()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRenderFormats(t *testing.T) {
	d := Build(testDatasets(), DefaultOptions(2024), testColumns())

	var md bytes.Buffer
	require.NoError(t, d.Render(&md, FormatMarkdown))
	assert.Contains(t, md.String(), "[ACCIDENT TYPES]")
	assert.Contains(t, md.String(), "- Chute: 6 (66.7%)")
	assert.Contains(t, md.String(), "Retention: 75.0%")

	var txt bytes.Buffer
	require.NoError(t, d.Render(&txt, FormatText))
	assert.Contains(t, txt.String(), "Accident types")
	assert.Contains(t, strings.ToUpper(txt.String()), "CATEGORY")

	var js bytes.Buffer
	require.NoError(t, d.Render(&js, FormatJSON))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Contains(t, decoded, "tracking")
	assert.Contains(t, decoded, "correlation")

	var y bytes.Buffer
	require.NoError(t, d.Render(&y, FormatYAML))
	assert.Contains(t, y.String(), "reference_year: 2024")

	assert.Error(t, d.Render(&bytes.Buffer{}, "pdf"))
}

func TestColumnsWithDefaultsAndFields(t *testing.T) {
	c := Columns{Gender: "Sexe"}.WithDefaults()
	assert.Equal(t, "Sexe", c.Gender)
	assert.Equal(t, DefaultColumns().AccidentType, c.AccidentType)

	p, ok := c.Field("hospital_days")
	require.True(t, ok)
	*p = "Jours"
	assert.Equal(t, "Jours", c.HospitalDays)
	_, ok = c.Field("shoe_size")
	assert.False(t, ok)

	for _, role := range Roles {
		for _, key := range ForRole(role) {
			_, ok := c.Field(key)
			assert.True(t, ok, "%s/%s", role, key)
		}
	}
}

func TestMonthlyRegistrationsFromXLSXDates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"id", "date", "birth"},
		{"1", time.Date(2023, 1, 15, 13, 45, 0, 0, time.UTC), 1990},
		{"2", time.Date(2023, 1, 28, 9, 0, 0, 0, time.UTC), 1985},
		{"3", time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC), 2001},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "inscriptions.xlsx")
	require.NoError(t, f.SaveAs(path))

	reg, err := table.Load(path, table.LoadOptions{})
	require.NoError(t, err)
	d := Build(Datasets{Registrations: reg}, DefaultOptions(2024), testColumns())

	months := d.Tracking.Registrations
	require.Len(t, months, 2)
	assert.Equal(t, "2023-01", months[0].Label)
	assert.Equal(t, 2, months[0].Count)
	assert.Equal(t, "2023-03", months[1].Label)
	assert.Equal(t, 1, months[1].Count)
}

func TestDateOrderOption(t *testing.T) {
	ds := Datasets{Registrations: table.New("registrations", []string{"id", "date", "birth"}, [][]string{
		{"1", "03/04/2023", "1990"},
		{"2", "03/05/2023", "1991"},
	})}
	opt := DefaultOptions(2024)
	d := Build(ds, opt, testColumns())
	require.Len(t, d.Tracking.Registrations, 2)
	assert.Equal(t, "2023-04", d.Tracking.Registrations[0].Label)

	opt.DateOrder = stats.MonthFirst
	d = Build(ds, opt, testColumns())
	require.Len(t, d.Tracking.Registrations, 1)
	assert.Equal(t, "2023-03", d.Tracking.Registrations[0].Label)
	assert.Equal(t, 2, d.Tracking.Registrations[0].Count)
}
