package stats

import (
	"math"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/voltrack-cli/internal/table"
)

// CorrMatrix is a symmetric Pearson correlation matrix. Undefined entries
// (fewer than two complete pairs, or a constant column) are NaN.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// At returns corr(a, b) and whether it is defined.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	v := m.Values[i][j]
	return v, !math.IsNaN(v)
}

func (m *CorrMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

type corrView struct {
	Columns []string     `json:"columns" yaml:"columns"`
	Values  [][]*float64 `json:"values" yaml:"values"`
}

func (m CorrMatrix) view() corrView {
	v := corrView{Columns: m.Columns, Values: make([][]*float64, len(m.Values))}
	for i, row := range m.Values {
		v.Values[i] = make([]*float64, len(row))
		for j, x := range row {
			if !math.IsNaN(x) {
				x := x
				v.Values[i][j] = &x
			}
		}
	}
	return v
}

// MarshalJSON writes undefined entries as null.
func (m CorrMatrix) MarshalJSON() ([]byte, error) { return json.Marshal(m.view()) }

// MarshalYAML writes undefined entries as null.
func (m CorrMatrix) MarshalYAML() (any, error) { return m.view(), nil }

// Pearson computes the correlation of x and y over the rows where both are
// present. It returns NaN when fewer than two such rows exist or either side
// has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return math.NaN()
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}

// Correlate builds the matrix for the given columns of tbl. Missing values are
// handled pairwise: each entry uses only the rows where both columns are present.
func Correlate(tbl *table.Table, columns []string) (*CorrMatrix, error) {
	data := make([][]float64, len(columns))
	for i, c := range columns {
		vals, err := tbl.Numbers(c)
		if err != nil {
			return nil, err
		}
		data[i] = vals
	}
	n := len(columns)
	m := &CorrMatrix{Columns: append([]string(nil), columns...), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := Pearson(data[i], data[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}
