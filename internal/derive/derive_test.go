package derive

import (
	"errors"
	"math"
	"testing"

	"github.com/KaramelBytes/voltrack-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBirthYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1985", 1985, true},
		{"née en 1990", 1990, true},
		{"12/03/1978", 1978, true},
		{"1985-1986", 1985, true},
		{"85", 0, false},
		{"", 0, false},
		{"inconnue", 0, false},
	}
	for _, tt := range tests {
		got, ok := BirthYear(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BirthYear(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAgesUsesReferenceYear(t *testing.T) {
	tbl := table.New("individus", []string{"ANNEE DE NAISSANCE"}, [][]string{{"1990"}, {"?"}, {"2030"}})
	ages, err := Ages(tbl, "ANNEE DE NAISSANCE", 2024)
	require.NoError(t, err)
	assert.Equal(t, []NullInt{{Int: 34, Valid: true}, {}, {Int: -6, Valid: true}}, ages)

	_, err = Ages(tbl, "BIRTH", 2024)
	assert.True(t, errors.Is(err, table.ErrMissingColumn))
}

func TestAgeBracketBoundaries(t *testing.T) {
	tests := []struct {
		age  int
		want string
		ok   bool
	}{
		{0, "0-17", true},
		{17, "0-17", true},
		{18, "18-29", true},
		{29, "18-29", true},
		{30, "30-39", true},
		{79, "70-79", true},
		{80, "80+", true},
		{100, "80+", true},
		{-1, "", false},
		{101, "", false},
	}
	for _, tt := range tests {
		got, ok := AgeBracket(tt.age)
		if got != tt.want || ok != tt.ok {
			t.Errorf("AgeBracket(%d) = %q, %v; want %q, %v", tt.age, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAgeBracketTotalAndExclusive(t *testing.T) {
	for age := 0; age <= 100; age++ {
		matches := 0
		for i := 1; i < len(AgeBrackets.Bounds); i++ {
			lo, hi := AgeBrackets.Bounds[i-1], AgeBrackets.Bounds[i]
			last := i == len(AgeBrackets.Bounds)-1
			if float64(age) >= lo && (float64(age) < hi || (last && float64(age) == hi)) {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("age %d falls in %d brackets", age, matches)
		}
		if _, ok := AgeBracket(age); !ok {
			t.Fatalf("age %d not classified", age)
		}
	}
}

func TestAgeBracketLabelsDropsInvalid(t *testing.T) {
	ages := []NullInt{{Int: 25, Valid: true}, {}, {Int: -3, Valid: true}, {Int: 120, Valid: true}, {Int: 85, Valid: true}}
	assert.Equal(t, []string{"18-29", "80+"}, AgeBracketLabels(ages))
}

func TestBMI(t *testing.T) {
	v, ok := BMI(70, 175)
	require.True(t, ok)
	assert.InDelta(t, 22.857, v, 0.001)

	label, ok := BMIBracket(v)
	require.True(t, ok)
	assert.Equal(t, "Normal", label)

	_, ok = BMI(70, 0)
	assert.False(t, ok)
	_, ok = BMI(math.NaN(), 170)
	assert.False(t, ok)
}

func TestBMIBrackets(t *testing.T) {
	tests := map[float64]string{
		10:   "Underweight",
		18.5: "Normal",
		24.9: "Normal",
		25:   "Overweight",
		30:   "Obese I",
		35:   "Obese II",
		40:   "Obese III",
		50:   "Obese III",
	}
	for v, want := range tests {
		got, ok := BMIBracket(v)
		if !ok || got != want {
			t.Errorf("BMIBracket(%v) = %q, %v; want %q", v, got, ok, want)
		}
	}
	_, ok := BMIBracket(55)
	assert.False(t, ok)
	_, ok = BMIBracket(math.NaN())
	assert.False(t, ok)
}

func TestBMIs(t *testing.T) {
	tbl := table.New("individus",
		[]string{"poids", "taille"},
		[][]string{{"70", "175"}, {"", "180"}, {"80", "0"}, {"90", "180"}})
	got, err := BMIs(tbl, "poids", "taille")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.InDelta(t, 22.857, got[0], 0.001)
	assert.True(t, math.IsNaN(got[1]))
	assert.True(t, math.IsNaN(got[2]))
	assert.Equal(t, []string{"Normal", "Overweight"}, BMIBracketLabels(got))

	_, err = BMIs(tbl, "poids", "height")
	assert.True(t, errors.Is(err, table.ErrMissingColumn))
}

func TestSeverities(t *testing.T) {
	tbl := table.New("accidents", []string{"jours"}, [][]string{{"0"}, {"3"}, {"4"}, {""}, {"n/a"}})
	got, err := Severities(tbl, "jours")
	require.NoError(t, err)
	assert.Equal(t, []string{SeverityMinor, SeverityMinor, SeveritySevere}, got)
}

func TestOrdinalScale(t *testing.T) {
	c, ok := DefaultAlcoholScale.Code("  2 à 4 fois   par mois ")
	require.True(t, ok)
	assert.Equal(t, 2, c)

	c, ok = DefaultAlcoholScale.Code("never")
	require.True(t, ok)
	assert.Equal(t, 0, c)

	_, ok = DefaultAlcoholScale.Code("tous les jours")
	assert.False(t, ok)

	enc := DefaultAlcoholScale.Encode([]string{"Jamais", "", "4 fois ou plus par semaine", "?"})
	assert.Equal(t, []NullInt{{Int: 0, Valid: true}, {}, {Int: 4, Valid: true}, {}}, enc)
}
