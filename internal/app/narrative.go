package app

import (
	"context"
	"errors"
	"fmt"

	"dinestay/internal/domain"
)

// ErrNarrativeUnavailable means no generative-language client is
// configured; the endpoint reports it as a service limitation, not a bug.
var ErrNarrativeUnavailable = errors.New("narrative generation unavailable")

// narrativeHotelCount is how many ranked hotels the comparison covers.
const narrativeHotelCount = 3

type NarrativeService struct {
	client domain.NarrativeClient
}

func NewNarrativeService(c domain.NarrativeClient) *NarrativeService {
	return &NarrativeService{client: c}
}

// Narrate produces the traveler-facing comparison text for the top ranked
// hotels. The comparison needs at least three options to be meaningful.
func (s *NarrativeService) Narrate(ctx context.Context, req domain.NarrativeRequest) (string, error) {
	if s.client == nil {
		return "", ErrNarrativeUnavailable
	}
	if len(req.Hotels) < narrativeHotelCount {
		return "", fmt.Errorf("need at least %d ranked hotels to generate a comparison, got %d",
			narrativeHotelCount, len(req.Hotels))
	}
	req.Hotels = req.Hotels[:narrativeHotelCount]
	return s.client.Summarize(ctx, req)
}
