package derive

import (
	"strings"
)

// OrdinalScale maps survey answers to ordinal codes. Lookups ignore case and
// surrounding whitespace.
type OrdinalScale map[string]int

// DefaultAlcoholScale encodes drinking frequency from never (0) to four or
// more times a week (4). French answers from the questionnaire are listed
// with their English equivalents.
var DefaultAlcoholScale = OrdinalScale{
	"Jamais":                     0,
	"Never":                      0,
	"Une fois par mois ou moins": 1,
	"Monthly or less":            1,
	"2 à 4 fois par mois":        2,
	"2 to 4 times a month":       2,
	"2 à 3 fois par semaine":     3,
	"2 to 3 times a week":        3,
	"4 fois ou plus par semaine": 4,
	"4 or more times a week":     4,
}

// Code returns the ordinal code of an answer. Unknown answers are missing.
func (s OrdinalScale) Code(answer string) (int, bool) {
	key := normalizeAnswer(answer)
	if key == "" {
		return 0, false
	}
	for k, v := range s {
		if normalizeAnswer(k) == key {
			return v, true
		}
	}
	return 0, false
}

// Encode maps a column of answers to codes.
func (s OrdinalScale) Encode(answers []string) []NullInt {
	out := make([]NullInt, len(answers))
	for i, a := range answers {
		if c, ok := s.Code(a); ok {
			out[i] = NullInt{Int: c, Valid: true}
		}
	}
	return out
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
