package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// MonthCount is the number of registrations in one calendar month.
type MonthCount struct {
	Month time.Time `json:"month" yaml:"month"`
	Label string    `json:"label" yaml:"label"`
	Count int       `json:"count" yaml:"count"`
}

// DateOrder decides how ambiguous slash dates such as 03/04/2023 are read.
type DateOrder string

const (
	DayFirst   DateOrder = "day_first"
	MonthFirst DateOrder = "month_first"
)

// ParseDateOrder accepts day_first, month_first and their short forms dmy and
// mdy. Empty selects DayFirst.
func ParseDateOrder(s string) (DateOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day_first", "dmy":
		return DayFirst, nil
	case "month_first", "mdy":
		return MonthFirst, nil
	}
	return "", fmt.Errorf("invalid date order %q (use day_first or month_first)", s)
}

var isoLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05",
}

var dayFirstLayouts = []string{
	"02/01/2006", "02/01/2006 15:04", "02/01/2006 15:04:05", "2/1/2006", "2/1/2006 15:04",
	"2/1/06", "2/1/06 15:04",
}

// Month-first covers the m/d/yy hh:mm display format Excel applies to date-time cells.
var monthFirstLayouts = []string{
	"01/02/2006", "1/2/2006", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"01-02-06", "1/2/06", "1/2/06 15:04", "1/2/06 15:04:05",
}

func layouts(order DateOrder) [][]string {
	if order == MonthFirst {
		return [][]string{isoLayouts, monthFirstLayouts, dayFirstLayouts}
	}
	return [][]string{isoLayouts, dayFirstLayouts, monthFirstLayouts}
}

// Excel serial day numbers accepted as dates (1954-10 to 2119-01).
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

// ParseTimestamp parses a registration timestamp. ISO layouts win, then the
// slash layouts of the given order, then those of the other order, then Excel
// serial numbers with an optional time fraction.
func ParseTimestamp(s string, order DateOrder) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, group := range layouts(order) {
		for _, l := range group {
			if t, err := time.Parse(l, s); err == nil {
				return t, true
			}
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= minExcelSerial && f <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthlyCounts buckets timestamps into calendar months. Unparsable values are
// skipped and months without registrations are not emitted. The result is in
// ascending order.
func MonthlyCounts(timestamps []string, order DateOrder) []MonthCount {
	counts := map[time.Time]int{}
	for _, s := range timestamps {
		t, ok := ParseTimestamp(s, order)
		if !ok {
			continue
		}
		m := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[m]++
	}
	out := make([]MonthCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, MonthCount{Month: m, Label: m.Format("2006-01"), Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}
