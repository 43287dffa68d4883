package gemini

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"dinestay/internal/adapters/observability"
	"dinestay/internal/domain"
)

const systemInstruction = "You are a travel concierge specializing in hotel recommendations in NYC."

// Client talks to the Generative Language API. Outbound calls are
// client-side rate limited and retried on 429/transient 5xx, honoring
// Retry-After when the server provides it.
type Client struct {
	base  string
	model string
	key   string
	hc    *http.Client
	rl    *rate.Limiter
}

func New(base, model, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		model: model,
		key:   key,
		hc:    &http.Client{Timeout: 30 * time.Second},
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrUnauthorized = errors.New("gemini: unauthorized")
	ErrForbidden    = errors.New("gemini: forbidden")
	ErrEmptyReply   = errors.New("gemini: empty reply")
)

// ---- request/response wire types ----

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Summarize builds the traveler-facing comparison prompt and returns the
// model's narrative text.
func (c *Client) Summarize(ctx context.Context, req domain.NarrativeRequest) (string, error) {
	body := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Parts: []part{{Text: buildPrompt(req)}}}},
		GenerationConfig:  generationConfig{Temperature: 0.5},
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.base, c.model)

	var out generateResponse
	if err := c.post(ctx, url, body, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyReply
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// buildPrompt mirrors the concierge framing travelers respond to: prefs
// first, then the top options with their evidence, then the ask. Scores
// are shown on a /100 scale and the radius in miles.
func buildPrompt(req domain.NarrativeRequest) string {
	city := req.City
	if city == "" {
		city = "NYC"
	}
	purpose := req.Purpose
	if purpose == "" {
		purpose = "leisure"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A traveler is choosing between hotels in %s.\n\n", city)
	b.WriteString("Their preferences:\n")
	fmt.Fprintf(&b, "- Cuisines: %s\n", strings.Join(req.LikedCuisines, ", "))
	fmt.Fprintf(&b, "- Budget levels: %v\n", req.PriceLevels)
	fmt.Fprintf(&b, "- Radius: %.1f miles\n", req.RadiusM/1600)
	fmt.Fprintf(&b, "- Purpose: %s\n\n", purpose)
	b.WriteString("Hotel Options:\n")

	for i, h := range req.Hotels {
		fmt.Fprintf(&b, "%d. %s (Score: %.0f/100)\n", i+1, h.HotelName, h.Score*100)
		fmt.Fprintf(&b, "   - %d matching restaurants nearby\n", len(h.TopRestaurants))
		names := make([]string, 0, 3)
		for _, r := range h.TopRestaurants {
			if len(names) == 3 {
				break
			}
			names = append(names, r.Name)
		}
		fmt.Fprintf(&b, "   - Top matches: %s\n", strings.Join(names, ", "))
	}

	b.WriteString(`
Write a short but compelling recommendation explaining:
1. Which hotel is best for THIS traveler
2. Why (specific restaurants and experiences)
3. What makes it better than the other options
4. One unique dining experience they'll love

Be enthusiastic, specific, and professional. Make them excited to book.`)
	return b.String()
}

// post performs a POST with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx.
func (c *Client) post(ctx context.Context, url string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Goog-Api-Key", c.key)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("gemini", "generateContent", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
