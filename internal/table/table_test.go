package table

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var accidentRows = []string{
	"VOLONTAIRE N°;Type;Jours;Gravité (score);Note",
	"V1;Chute;2;1,5;first",
	"V2;Brûlure;5;3,0;",
	"V3;Chute;;2,0;third",
	"V4;Coupure;1;abc;fourth",
}

func writeCSV(t *testing.T, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadCSVSniffsDelimiter(t *testing.T) {
	path := writeCSV(t, "accidents.csv", accidentRows)
	tbl, err := Load(path, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "accidents.csv", tbl.Name)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"VOLONTAIRE N°", "Type", "Jours", "Gravité (score)", "Note"}, tbl.Header())

	types, err := tbl.Column("Type")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chute", "Brûlure", "Chute", "Coupure"}, types)
}

func TestLoadCSVMaxRows(t *testing.T) {
	path := writeCSV(t, "accidents.csv", accidentRows)
	tbl, err := Load(path, LoadOptions{MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestLoadUnsupported(t *testing.T) {
	path := writeCSV(t, "notes.txt", []string{"a"})
	_, err := Load(path, LoadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.False(t, Supported(path))
	assert.True(t, Supported("survey.TSV"))
	assert.True(t, Supported("survey.xlsx"))
}

func TestMissingColumn(t *testing.T) {
	tbl := New("individus", []string{"GENRE"}, [][]string{{"F"}})
	_, err := tbl.Column("ANNEE DE NAISSANCE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))

	var mc *MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "individus", mc.Dataset)
	assert.Equal(t, "ANNEE DE NAISSANCE", mc.Column)

	assert.Error(t, tbl.Require("GENRE", "POIDS"))
	assert.NoError(t, tbl.Require("GENRE"))
}

func TestNumbersAndNumericColumns(t *testing.T) {
	path := writeCSV(t, "accidents.csv", accidentRows)
	tbl, err := Load(path, LoadOptions{})
	require.NoError(t, err)

	days, err := tbl.Numbers("Jours")
	require.NoError(t, err)
	assert.Equal(t, 2.0, days[0])
	assert.Equal(t, 5.0, days[1])
	assert.True(t, math.IsNaN(days[2]))

	// "Gravité (score)" holds "abc", so it is not numeric.
	assert.Equal(t, []string{"Jours"}, tbl.NumericColumns("VOLONTAIRE N°"))
}

func TestNewCopiesInput(t *testing.T) {
	rows := [][]string{{"a", "1"}, {"b"}}
	tbl := New("t", []string{"k", "v"}, rows)
	rows[0][0] = "mutated"

	col, err := tbl.Column("k")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, col)

	v, err := tbl.Column("v")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", ""}, v)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"70", 70, true},
		{"1,5", 1.5, true},
		{"1.000,5", 1000.5, true},
		{"1,000.5", 1000.5, true},
		{"12%", 12, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"2023-01-15", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if ok != tt.ok || (ok && math.Abs(got-tt.want) > 1e-9) {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	rows := [][]any{
		{"VOLONTAIRE N°", "DATE DE REMPLISSAGE"},
		{"V1", "2023-01-15"},
		{"V2", "2023-02-01"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Data", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "inscriptions.xlsx")
	require.NoError(t, f.SaveAs(path))

	byName, err := Load(path, LoadOptions{SheetName: "data"})
	require.NoError(t, err)
	assert.Equal(t, 2, byName.Len())
	ids, err := byName.Column("VOLONTAIRE N°")
	require.NoError(t, err)
	assert.Equal(t, []string{"V1", "V2"}, ids)

	byIndex, err := Load(path, LoadOptions{SheetIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, byIndex.Len())

	first, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Len())

	_, err = Load(path, LoadOptions{SheetName: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available sheets: Sheet1, Data")
}

func TestLoadXLSXKeepsDateCellsAsSerials(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "DATE DE REMPLISSAGE"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", time.Date(2023, 1, 15, 13, 45, 0, 0, time.UTC)))
	path := filepath.Join(t.TempDir(), "inscriptions.xlsx")
	require.NoError(t, f.SaveAs(path))

	tbl, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	vals, err := tbl.Column("DATE DE REMPLISSAGE")
	require.NoError(t, err)
	require.Len(t, vals, 1)

	serial, ok := ParseNumber(vals[0])
	require.True(t, ok, vals[0])
	got, err := excelize.ExcelDateToTime(serial, false)
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 15, got.Day())
}
