package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a numeric distribution.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Q25    float64 `json:"q25" yaml:"q25"`
	Median float64 `json:"median" yaml:"median"`
	Q75    float64 `json:"q75" yaml:"q75"`
	Max    float64 `json:"max" yaml:"max"`
}

// Bin is one histogram bucket covering [Lower, Upper).
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// Describe summarises the non-NaN values. It returns false when there are none.
func Describe(values []float64) (Summary, bool) {
	data := finite(values)
	if len(data) == 0 {
		return Summary{}, false
	}
	s := Summary{Count: len(data)}
	s.Mean, _ = mstats.Mean(data)
	if len(data) > 1 {
		s.StdDev, _ = mstats.StandardDeviationSample(data)
	}
	s.Min, _ = mstats.Min(data)
	s.Max, _ = mstats.Max(data)
	s.Median, _ = mstats.Median(data)
	s.Q25, _ = mstats.Percentile(data, 25)
	s.Q75, _ = mstats.Percentile(data, 75)
	return s, true
}

// Histogram splits the non-NaN values into equal-width bins spanning their
// range. A constant sample yields a single bin.
func Histogram(values []float64, bins int) []Bin {
	data := finite(values)
	if len(data) == 0 || bins <= 0 {
		return nil
	}
	sort.Float64s(data)
	lo, hi := data[0], data[len(data)-1]
	if lo == hi {
		return []Bin{{Lower: lo, Upper: lo + 1, Count: len(data)}}
	}
	width := (hi - lo) / float64(bins)
	dividers := make([]float64, bins+1)
	for i := range dividers {
		dividers[i] = lo + float64(i)*width
	}
	// the top divider is exclusive in gonum; nudge it past the maximum
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, data, nil)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Upper = hi
	return out
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
