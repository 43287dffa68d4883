package app_test

import (
	"reflect"
	"testing"

	"dinestay/internal/app"
)

func surveyWith(answers map[string][]any) app.SurveyResponse {
	return app.SurveyResponse{ID: 7, Timestamp: "2026-08-01T10:00:00Z", Answers: answers}
}

func TestShapePreferences_FullSurvey(t *testing.T) {
	sr := surveyWith(map[string][]any{
		"1": {"New York"},
		"2": {float64(0.5)},
		"4": {"Thai", " Japanese ", ""},
		"5": {"4"},
		"6": {"$$"},
	})

	in, city := app.ShapePreferences(sr)
	if city != "New York" {
		t.Fatalf("city = %q", city)
	}
	if in.RadiusM == nil || *in.RadiusM != 800 {
		t.Fatalf("radius = %v, want 800 (0.5 miles)", in.RadiusM)
	}
	if !reflect.DeepEqual(in.LikedCuisines, []string{"thai", "japanese"}) {
		t.Fatalf("cuisines = %v", in.LikedCuisines)
	}
	if !reflect.DeepEqual(in.PriceLevels, []int{1, 2}) {
		t.Fatalf("price levels = %v", in.PriceLevels)
	}
	// The rating answer steers nothing.
	if in.Weights != nil || in.TopK != nil {
		t.Fatalf("unexpected fields set: %+v", in)
	}
}

func TestShapePreferences_NamedKeysAndNumericPrice(t *testing.T) {
	sr := surveyWith(map[string][]any{
		"distance": {"2.5"},
		"budget":   {"3"},
	})

	in, city := app.ShapePreferences(sr)
	if city != "" {
		t.Fatalf("city = %q", city)
	}
	if in.RadiusM == nil || *in.RadiusM != 4000 {
		t.Fatalf("radius = %v, want 4000", in.RadiusM)
	}
	if !reflect.DeepEqual(in.PriceLevels, []int{1, 2, 3}) {
		t.Fatalf("price levels = %v", in.PriceLevels)
	}
}

func TestShapePreferences_UnansweredStaysNil(t *testing.T) {
	in, _ := app.ShapePreferences(surveyWith(nil))
	if in.RadiusM != nil || in.LikedCuisines != nil || in.PriceLevels != nil {
		t.Fatalf("empty survey produced fields: %+v", in)
	}
}

func TestShapePreferences_MalformedAnswersDegrade(t *testing.T) {
	sr := surveyWith(map[string][]any{
		"2": {"close by"},
		"4": {42, ""},
		"6": {"$2"},
	})
	in, _ := app.ShapePreferences(sr)
	if in.RadiusM != nil {
		t.Fatalf("radius parsed from junk: %v", *in.RadiusM)
	}
	if in.LikedCuisines != nil {
		t.Fatalf("cuisines parsed from junk: %v", in.LikedCuisines)
	}
	if in.PriceLevels != nil {
		t.Fatalf("price parsed from mixed token: %v", in.PriceLevels)
	}
}

func TestPriceCeilingClamp(t *testing.T) {
	sr := surveyWith(map[string][]any{"6": {"$$$$$"}})
	in, _ := app.ShapePreferences(sr)
	if !reflect.DeepEqual(in.PriceLevels, []int{1, 2, 3, 4}) {
		t.Fatalf("price levels = %v", in.PriceLevels)
	}
}
