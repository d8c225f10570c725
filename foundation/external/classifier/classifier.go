// Package classifier talks to one channel's external emotion model over
// HTTP. The model receives a feature frame and answers with a probability
// vector over the five emotion classes.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	apiTimeout    = 15
	healthTimeout = 5
)

type Scorer struct {
	endpoint string
	apiKey   string
}

// New probes the model's health endpoint before handing out a scorer, so a
// model that failed to load is caught at startup rather than on the first
// frame.
func New(endpoint string, apiKey string) (*Scorer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/health", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("api-key", apiKey)

	client := http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier[%s] unreachable: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier[%s] health check returned %d", endpoint, resp.StatusCode)
	}

	return &Scorer{
		endpoint: endpoint,
		apiKey:   apiKey,
	}, nil
}

// Score posts one frame and returns the model's probability vector.
func (s *Scorer) Score(ctx context.Context, payload any) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout*time.Second)
	defer cancel()

	body, err := json.Marshal(Request{Frame: payload})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("api-key", s.apiKey)

	client := http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusInternalServerError {
		return nil, fmt.Errorf("internal server error 500: %s", string(bytes))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(string(bytes))
	}

	var r Result
	if err := json.Unmarshal(bytes, &r); err != nil {
		return nil, err
	}

	if r.Error.Message != "" {
		return nil, errors.New(r.Error.Message)
	}

	return r.Scores, nil
}
