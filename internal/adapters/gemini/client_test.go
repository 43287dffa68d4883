package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"dinestay/internal/adapters/gemini"
	"dinestay/internal/domain"
)

func narrativeRequest() domain.NarrativeRequest {
	return domain.NarrativeRequest{
		City:          "NYC",
		LikedCuisines: []string{"thai", "italian"},
		PriceLevels:   []int{1, 2, 3},
		RadiusM:       800,
		Hotels: []domain.HotelRow{
			{HotelName: "A", Score: 0.78, TopRestaurants: []domain.TopRestaurant{{Name: "R1"}, {Name: "R2"}}},
			{HotelName: "B", Score: 0.65},
			{HotelName: "C", Score: 0.51},
		},
	}
}

func reply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestClient_Summarize_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			_ = json.NewEncoder(w).Encode(reply("Book hotel A."))
		}
	}))
	defer ts.Close()

	cl, err := gemini.New(ts.URL, "gemini-2.5-flash", "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.Summarize(ctx, narrativeRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "Book hotel A." {
		t.Fatalf("unexpected narrative: %q", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_Summarize_PromptCarriesPrefsAndHotels(t *testing.T) {
	var prompt string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		if len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
			prompt = body.Contents[0].Parts[0].Text
		}
		_ = json.NewEncoder(w).Encode(reply("ok"))
	}))
	defer ts.Close()

	cl, err := gemini.New(ts.URL, "", "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := cl.Summarize(context.Background(), narrativeRequest()); err != nil {
		t.Fatalf("summarize: %v", err)
	}

	for _, want := range []string{"thai, italian", "0.5 miles", "1. A (Score: 78/100)", "Top matches: R1, R2"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestClient_Summarize_EmptyReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer ts.Close()

	cl, err := gemini.New(ts.URL, "", "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := cl.Summarize(context.Background(), narrativeRequest()); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := gemini.New("http://x", "m", "", 5); err == nil {
		t.Fatal("expected error for missing key")
	}
}
