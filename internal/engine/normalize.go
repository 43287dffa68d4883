package engine

import (
	"encoding/json"
	"strconv"
	"strings"

	"dinestay/internal/domain"
)

// Provenance tags how a normalized field value was obtained, so silent
// degradation stays observable downstream (logs, counters) without ever
// failing the batch.
type Provenance uint8

const (
	Parsed    Provenance = iota // taken from the source record
	Defaulted                   // absent or unparseable, neutral value used
)

// PriceUnknown is the sentinel level for a price that could not be read.
const PriceUnknown = 0

// Fields is one restaurant record after coercion: categories lower-cased
// and trimmed, price as an integer tier 1..4 (or PriceUnknown), distance a
// non-negative float.
type Fields struct {
	Categories     []string
	CategoriesFrom Provenance
	PriceLevel     int
	PriceFrom      Provenance
	DistanceM      float64
	DistanceFrom   Provenance
}

// NormalizeFields coerces one raw restaurant into typed values. Every
// malformed input degrades to a neutral default; this stage never errors.
func NormalizeFields(r domain.Restaurant) Fields {
	var f Fields
	f.Categories, f.CategoriesFrom = normalizeCategories(r)
	f.PriceLevel, f.PriceFrom = normalizePrice(r.PriceRaw)
	f.DistanceM, f.DistanceFrom = normalizeDistance(r.DistanceM)
	return f
}

func normalizeCategories(r domain.Restaurant) ([]string, Provenance) {
	if len(r.Categories) > 0 {
		return cleanCategories(r.Categories), Parsed
	}
	raw := strings.TrimSpace(r.CategoriesRaw)
	if raw == "" {
		return nil, Defaulted
	}

	// A textual list encoding: JSON first, then the single-quoted
	// python-style export some upstream cleaners emit.
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var arr []string
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return cleanCategories(arr), Parsed
		}
		inner := strings.Trim(raw, "[]")
		parts := splitDelimited(inner)
		for i, p := range parts {
			parts[i] = strings.Trim(p, `'" `)
		}
		if out := cleanCategories(parts); len(out) > 0 {
			return out, Parsed
		}
		return nil, Defaulted
	}

	if out := cleanCategories(splitDelimited(raw)); len(out) > 0 {
		return out, Parsed
	}
	return nil, Defaulted
}

func splitDelimited(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
}

func cleanCategories(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// currencyGlyphs are the symbols a price tier may be spelled with.
var currencyGlyphs = map[rune]struct{}{'$': {}, '€': {}, '£': {}, '¥': {}}

func normalizePrice(raw string) (int, Provenance) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PriceUnknown, Defaulted
	}

	// Symbol run: "$$" -> 2, "€€€€€" clamps to 4.
	glyphs := 0
	onlyGlyphs := true
	for _, r := range raw {
		if _, ok := currencyGlyphs[r]; ok {
			glyphs++
		} else {
			onlyGlyphs = false
			break
		}
	}
	if onlyGlyphs && glyphs > 0 {
		if glyphs > 4 {
			glyphs = 4
		}
		return glyphs, Parsed
	}

	// Numeric form. Outside 1..4 is unknown, not clamped: a numeric tier
	// out of range signals bad data rather than an expensive venue.
	if f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64); err == nil {
		lv := int(f)
		if float64(lv) == f && lv >= 1 && lv <= 4 {
			return lv, Parsed
		}
	}
	return PriceUnknown, Defaulted
}

func normalizeDistance(d *float64) (float64, Provenance) {
	if d == nil || *d < 0 {
		return 0.0, Defaulted
	}
	return *d, Parsed
}

// DefaultedCount reports how many of the three fields fell back to their
// neutral value. Fed into run stats for diagnostics.
func (f Fields) DefaultedCount() int {
	n := 0
	if f.CategoriesFrom == Defaulted {
		n++
	}
	if f.PriceFrom == Defaulted {
		n++
	}
	if f.DistanceFrom == Defaulted {
		n++
	}
	return n
}
