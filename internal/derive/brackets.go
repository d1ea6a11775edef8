package derive

import "math"

// Brackets partitions a range into labeled intervals [b[i], b[i+1]); the last
// interval also includes its upper bound. Values outside the range are not
// classifiable.
type Brackets struct {
	Bounds []float64
	Labels []string
}

// AgeBrackets are the age groups reported on the dashboard.
var AgeBrackets = Brackets{
	Bounds: []float64{0, 18, 30, 40, 50, 60, 70, 80, 100},
	Labels: []string{"0-17", "18-29", "30-39", "40-49", "50-59", "60-69", "70-79", "80+"},
}

// BMIBrackets follow the WHO classes.
var BMIBrackets = Brackets{
	Bounds: []float64{0, 18.5, 25, 30, 35, 40, 50},
	Labels: []string{"Underweight", "Normal", "Overweight", "Obese I", "Obese II", "Obese III"},
}

// Assign returns the label of the interval containing v.
func (b Brackets) Assign(v float64) (string, bool) {
	n := len(b.Bounds)
	if n < 2 || math.IsNaN(v) {
		return "", false
	}
	if v < b.Bounds[0] || v > b.Bounds[n-1] {
		return "", false
	}
	for i := 1; i < n; i++ {
		if v < b.Bounds[i] {
			return b.Labels[i-1], true
		}
	}
	return b.Labels[n-2], true
}

// AgeBracket classifies an age.
func AgeBracket(age int) (string, bool) {
	return AgeBrackets.Assign(float64(age))
}

// BMIBracket classifies a BMI value.
func BMIBracket(bmi float64) (string, bool) {
	return BMIBrackets.Assign(bmi)
}

// AgeBracketLabels buckets valid ages; missing and out-of-range ages are dropped.
func AgeBracketLabels(ages []NullInt) []string {
	out := make([]string, 0, len(ages))
	for _, a := range ages {
		if !a.Valid {
			continue
		}
		if l, ok := AgeBracket(a.Int); ok {
			out = append(out, l)
		}
	}
	return out
}

// BMIBracketLabels buckets BMI values; NaN and out-of-range values are dropped.
func BMIBracketLabels(bmis []float64) []string {
	out := make([]string, 0, len(bmis))
	for _, v := range bmis {
		if l, ok := BMIBracket(v); ok {
			out = append(out, l)
		}
	}
	return out
}
