package app

import (
	"strconv"
	"strings"

	"dinestay/internal/engine"
)

// SurveyResponse is the raw questionnaire payload: question id -> list of
// answers, values loosely typed (strings from option buttons, numbers from
// sliders).
type SurveyResponse struct {
	ID        int64            `json:"id"`
	Timestamp string           `json:"timestamp"`
	Answers   map[string][]any `json:"answers"`
}

// Question-id aliases. The questionnaire uses bare numeric ids; named keys
// are accepted for clients that send something more descriptive.
var surveyAliases = map[string][]string{
	"city":     {"1", "city"},
	"distance": {"2", "distance", "radius"},
	"cuisines": {"4", "cuisines", "cuisine"},
	"rating":   {"5", "rating"},
	"price":    {"6", "price", "budget"},
}

const metersPerMile = 1600.0

// ShapePreferences turns survey answers into a preference input, leaving
// unanswered questions nil so the normalizer fills its defaults. The
// shaping is best-effort: malformed answers degrade to "unanswered".
// The rating question is parsed nowhere: the rating criterion is
// data-driven, not a filter, so that answer carries no engine field.
func ShapePreferences(sr SurveyResponse) (*engine.PreferencesInput, string) {
	in := &engine.PreferencesInput{}

	city := firstAnswerString(sr, "city")

	if miles, ok := firstAnswerFloat(sr, "distance"); ok && miles > 0 {
		m := miles * metersPerMile
		in.RadiusM = &m
	}

	if vals := answersFor(sr, "cuisines"); len(vals) > 0 {
		cuisines := make([]string, 0, len(vals))
		for _, v := range vals {
			if s, ok := v.(string); ok {
				s = strings.ToLower(strings.TrimSpace(s))
				if s != "" {
					cuisines = append(cuisines, s)
				}
			}
		}
		if len(cuisines) > 0 {
			in.LikedCuisines = cuisines
		}
	}

	// A single price answer ("$$" or "2") reads as a budget ceiling:
	// everything up to the chosen tier is acceptable.
	if raw := firstAnswerString(sr, "price"); raw != "" {
		if ceiling, ok := priceCeiling(raw); ok {
			levels := make([]int, 0, ceiling)
			for lv := 1; lv <= ceiling; lv++ {
				levels = append(levels, lv)
			}
			in.PriceLevels = levels
		}
	}

	return in, city
}

func priceCeiling(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	symbols := strings.Count(raw, "$")
	if symbols > 0 && symbols == len(raw) {
		if symbols > 4 {
			symbols = 4
		}
		return symbols, true
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= 4 {
		return n, true
	}
	return 0, false
}

func answersFor(sr SurveyResponse, key string) []any {
	for _, id := range surveyAliases[key] {
		if vals, ok := sr.Answers[id]; ok && len(vals) > 0 {
			return vals
		}
	}
	return nil
}

func firstAnswerString(sr SurveyResponse, key string) string {
	for _, v := range answersFor(sr, key) {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstAnswerFloat(sr SurveyResponse, key string) (float64, bool) {
	for _, v := range answersFor(sr, key) {
		switch t := v.(type) {
		case float64:
			return t, true
		case int:
			return float64(t), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
