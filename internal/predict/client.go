package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Prediction is the opaque output of the externally hosted match predictor.
type Prediction struct {
	Winner    string `json:"winner"`
	Odds      string `json:"odds"`
	Reasoning string `json:"reasoning"`
}

// Client calls the hosted LLM prediction flow. The league core neither calls
// nor is called by it; the web layer exposes it as a passthrough.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) PredictMatch(ctx context.Context, player1Name, player2Name string) (*Prediction, error) {
	payload, err := json.Marshal(map[string]string{
		"player1Name": player1Name,
		"player2Name": player2Name,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}

	var prediction Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return &prediction, nil
}
