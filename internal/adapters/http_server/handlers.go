package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"dinestay/internal/app"
	"dinestay/internal/domain"
	"dinestay/internal/engine"
)

type Handlers struct {
	R *app.RecommendationService
	N *app.NarrativeService

	// DefaultCity labels narratives when the survey carries no city answer.
	DefaultCity string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/recommendations", h.recommend)
	s.mux.Post("/v1/recommendations/narrative", h.narrative)
	s.mux.Post("/v1/surveys", h.submitSurvey)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeEngineError maps the two distinguished engine error kinds onto
// problem+json responses, keeping the attempted configuration in the logs
// for diagnostics.
func writeEngineError(w http.ResponseWriter, err error, in *engine.PreferencesInput) {
	var ce *engine.ConfigurationError
	switch {
	case errors.As(err, &ce):
		log.Warn().Err(err).Interface("preferences", in).Msg("rejected preference configuration")
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Preferences", ce.Error())
	case errors.Is(err, domain.ErrDataUnavailable):
		log.Error().Err(err).Msg("dataset unavailable")
		writeProblem(w, http.StatusServiceUnavailable, "Dataset Unavailable", "required input collections could not be loaded")
	default:
		log.Error().Err(err).Msg("recommendation failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
// The engine is deterministic, so equal inputs produce equal tags.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	var in engine.PreferencesInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a preference configuration")
		return
	}
	out, err := h.R.Recommend(r.Context(), &in)
	if err != nil {
		writeEngineError(w, err, &in)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) submitSurvey(w http.ResponseWriter, r *http.Request) {
	var sr app.SurveyResponse
	if err := json.NewDecoder(r.Body).Decode(&sr); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a survey response")
		return
	}
	in, city := app.ShapePreferences(sr)
	if city == "" {
		city = h.DefaultCity
	}
	out, err := h.R.Recommend(r.Context(), in)
	if err != nil {
		writeEngineError(w, err, in)
		return
	}
	// Echo the shaped preferences so survey clients can see what their
	// answers turned into.
	writeJSON(w, r, struct {
		ID          int64                    `json:"id"`
		City        string                   `json:"city"`
		Preferences *engine.PreferencesInput `json:"preferences"`
		Results     domain.ResultSet         `json:"results"`
	}{sr.ID, city, in, out})
}

func (h *Handlers) narrative(w http.ResponseWriter, r *http.Request) {
	var in engine.PreferencesInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a preference configuration")
		return
	}
	out, err := h.R.Recommend(r.Context(), &in)
	if err != nil {
		writeEngineError(w, err, &in)
		return
	}

	if len(out.Hotels) < 3 {
		writeProblem(w, http.StatusUnprocessableEntity, "Not Enough Hotels",
			"the comparison needs at least 3 ranked hotels")
		return
	}

	prefs, err := engine.NormalizePreferences(&in)
	if err != nil { // unreachable after Recommend succeeded, but keep the guard
		writeEngineError(w, err, &in)
		return
	}
	text, err := h.N.Narrate(r.Context(), domain.NarrativeRequest{
		City:          h.DefaultCity,
		LikedCuisines: prefs.LikedCuisines,
		PriceLevels:   prefs.PriceLevels,
		RadiusM:       prefs.RadiusM,
		Hotels:        out.Hotels,
	})
	if err != nil {
		if errors.Is(err, app.ErrNarrativeUnavailable) {
			writeProblem(w, http.StatusServiceUnavailable, "Narrative Unavailable", "no generative-language client is configured")
			return
		}
		log.Error().Err(err).Msg("narrative generation failed")
		writeProblem(w, http.StatusBadGateway, "Narrative Failed", err.Error())
		return
	}
	writeJSON(w, r, struct {
		Narrative string            `json:"narrative"`
		Hotels    []domain.HotelRow `json:"hotels"`
	}{text, out.Hotels})
}
