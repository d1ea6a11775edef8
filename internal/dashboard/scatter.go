package dashboard

import (
	"math"
	"sort"

	"github.com/KaramelBytes/voltrack-cli/internal/table"
)

// Series is the data behind a scatter chart. When the X column is not numeric
// its values are treated as ordered categories: X holds the category index
// and XLabel the original text.
type Series struct {
	Name       string   `json:"name" yaml:"name"`
	XField     string   `json:"x_field" yaml:"x_field"`
	YField     string   `json:"y_field" yaml:"y_field"`
	ColorField string   `json:"color_field,omitempty" yaml:"color_field,omitempty"`
	SizeField  string   `json:"size_field,omitempty" yaml:"size_field,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Points     []Point  `json:"points" yaml:"points"`
}

// Point is one plotted row.
type Point struct {
	X      float64  `json:"x" yaml:"x"`
	Y      float64  `json:"y" yaml:"y"`
	XLabel string   `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	Color  string   `json:"color,omitempty" yaml:"color,omitempty"`
	Size   *float64 `json:"size,omitempty" yaml:"size,omitempty"`
}

// scatter pairs two columns of one dataset. X and Y are required; the color
// and size columns are optional and only produce a warning when absent.
// Rows missing X or Y are dropped.
func (b *builder) scatter(metric, role, xCol, yCol, colorCol, sizeCol string) *Series {
	tbl, ok := b.need(metric, role, xCol, yCol)
	if !ok {
		return nil
	}
	s := &Series{Name: metric, XField: xCol, YField: yCol}

	var colors []string
	if colorCol != "" {
		if tbl.Has(colorCol) {
			colors, _ = tbl.Column(colorCol)
			s.ColorField = colorCol
		} else {
			b.fail(metric, role, tbl.Require(colorCol))
		}
	}
	var sizes []float64
	if sizeCol != "" {
		if tbl.Has(sizeCol) {
			sizes, _ = tbl.Numbers(sizeCol)
			s.SizeField = sizeCol
		} else {
			b.fail(metric, role, tbl.Require(sizeCol))
		}
	}

	ys, _ := tbl.Numbers(yCol)
	xText, _ := tbl.Column(xCol)
	xs, _ := tbl.Numbers(xCol)
	categorical := !tbl.IsNumeric(xCol)
	catIndex := map[string]int{}
	if categorical {
		s.Categories = orderedCategories(xText)
		for i, c := range s.Categories {
			catIndex[c] = i
		}
	}

	s.Points = make([]Point, 0, len(ys))
	for i := range ys {
		if math.IsNaN(ys[i]) || xText[i] == "" {
			continue
		}
		p := Point{Y: ys[i]}
		if categorical {
			p.X = float64(catIndex[xText[i]])
			p.XLabel = xText[i]
		} else {
			if math.IsNaN(xs[i]) {
				continue
			}
			p.X = xs[i]
		}
		if colors != nil {
			p.Color = colors[i]
		}
		if sizes != nil && !math.IsNaN(sizes[i]) {
			v := sizes[i]
			p.Size = &v
		}
		s.Points = append(s.Points, p)
	}
	return s
}

// orderedCategories returns distinct non-empty values. Values with a leading
// number (income bands such as "1500 - 2000") sort by that number, the rest
// keep first-seen order after them.
func orderedCategories(values []string) []string {
	type cat struct {
		label string
		key   float64
		num   bool
		seen  int
	}
	var cats []cat
	idx := map[string]bool{}
	for _, v := range values {
		if v == "" || idx[v] {
			continue
		}
		idx[v] = true
		c := cat{label: v, seen: len(cats)}
		if f, ok := leadingNumber(v); ok {
			c.key, c.num = f, true
		}
		cats = append(cats, c)
	}
	sort.SliceStable(cats, func(i, j int) bool {
		a, b := cats[i], cats[j]
		switch {
		case a.num && b.num:
			if a.key != b.key {
				return a.key < b.key
			}
			return a.seen < b.seen
		case a.num != b.num:
			return a.num
		}
		return a.seen < b.seen
	})
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.label
	}
	return out
}

// leadingNumber parses the first run of digits in s, ignoring thousand
// separators written as spaces.
func leadingNumber(s string) (float64, bool) {
	start := -1
	end := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			end = i + 1
			continue
		}
		if start >= 0 && (r == ' ' || r == '\u00a0' || r == '\u202f') {
			continue
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0, false
	}
	digits := make([]byte, 0, end-start)
	for i := start; i < end; i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	return table.ParseNumber(string(digits))
}
