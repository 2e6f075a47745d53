package score

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is the classification for one headline.
type Result struct {
	Label      string  // "positive", "negative", or "neutral"
	Confidence float64 // [0, 1]
}

// SignedScore folds label and confidence into one signed score: positive
// headlines score +confidence, negative -confidence, neutral 0.
func (r Result) SignedScore() float64 {
	switch strings.ToLower(r.Label) {
	case "positive":
		return r.Confidence
	case "negative":
		return -r.Confidence
	default:
		return 0.0
	}
}

// Scorer classifies a batch of headlines. Implementations must return one
// result per input, in input order.
type Scorer interface {
	Score(ctx context.Context, headlines []string) ([]Result, error)
	IsConfigured() bool
}

// FinBERTClient scores headlines against a FinBERT text-classification
// endpoint (a local inference server speaking the HF pipeline JSON shape).
type FinBERTClient struct {
	BaseURL string
	client  *http.Client
}

// NewFinBERTClient creates a scoring client for the given endpoint.
func NewFinBERTClient(baseURL string) *FinBERTClient {
	return &FinBERTClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// IsConfigured checks whether the inference endpoint is reachable.
func (c *FinBERTClient) IsConfigured() bool {
	if c.BaseURL == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Score classifies a batch of headlines in one call. The endpoint returns,
// per input, the candidate labels sorted by score; the top one is kept.
func (c *FinBERTClient) Score(ctx context.Context, headlines []string) ([]Result, error) {
	if len(headlines) == 0 {
		return nil, nil
	}

	body := map[string]any{"inputs": headlines}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/classify", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scoring API returned %d: %s", resp.StatusCode, string(respBody))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	results, err := parseClassification(raw)
	if err != nil {
		return nil, err
	}
	if len(results) != len(headlines) {
		return nil, fmt.Errorf("scoring API returned %d results for %d headlines", len(results), len(headlines))
	}
	return results, nil
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// parseClassification accepts both response shapes the pipeline emits: a
// nested list of candidate labels per input, or a flat list with only the
// top label per input.
func parseClassification(raw []byte) ([]Result, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		results := make([]Result, 0, len(nested))
		for i, candidates := range nested {
			if len(candidates) == 0 {
				return nil, fmt.Errorf("empty candidate list at index %d", i)
			}
			top := candidates[0]
			for _, c := range candidates[1:] {
				if c.Score > top.Score {
					top = c
				}
			}
			results = append(results, Result{Label: top.Label, Confidence: top.Score})
		}
		return results, nil
	}

	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decoding classification response: %w", err)
	}
	results := make([]Result, 0, len(flat))
	for _, ls := range flat {
		results = append(results, Result{Label: ls.Label, Confidence: ls.Score})
	}
	return results, nil
}
