package app_test

import (
	"context"
	"errors"
	"testing"

	"dinestay/internal/app"
	"dinestay/internal/domain"
)

type fakeNarrator struct {
	got  domain.NarrativeRequest
	text string
	err  error
}

func (f *fakeNarrator) Summarize(ctx context.Context, req domain.NarrativeRequest) (string, error) {
	f.got = req
	return f.text, f.err
}

func rankedHotels(n int) []domain.HotelRow {
	out := make([]domain.HotelRow, n)
	for i := range out {
		out[i] = domain.HotelRow{HotelName: string(rune('A' + i)), Score: 0.9 - float64(i)*0.1}
	}
	return out
}

func TestNarrate_TruncatesToTopThree(t *testing.T) {
	fn := &fakeNarrator{text: "a fine comparison"}
	svc := app.NewNarrativeService(fn)

	out, err := svc.Narrate(context.Background(), domain.NarrativeRequest{
		City: "New York", Hotels: rankedHotels(5),
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out != "a fine comparison" {
		t.Fatalf("out = %q", out)
	}
	if len(fn.got.Hotels) != 3 {
		t.Fatalf("client saw %d hotels, want 3", len(fn.got.Hotels))
	}
	if fn.got.Hotels[0].HotelName != "A" || fn.got.Hotels[2].HotelName != "C" {
		t.Fatalf("wrong hotels kept: %+v", fn.got.Hotels)
	}
}

func TestNarrate_NeedsThreeHotels(t *testing.T) {
	svc := app.NewNarrativeService(&fakeNarrator{})
	if _, err := svc.Narrate(context.Background(), domain.NarrativeRequest{Hotels: rankedHotels(2)}); err == nil {
		t.Fatal("accepted a two-hotel comparison")
	}
}

func TestNarrate_NoClientConfigured(t *testing.T) {
	svc := app.NewNarrativeService(nil)
	_, err := svc.Narrate(context.Background(), domain.NarrativeRequest{Hotels: rankedHotels(3)})
	if !errors.Is(err, app.ErrNarrativeUnavailable) {
		t.Fatalf("want ErrNarrativeUnavailable, got %v", err)
	}
}
