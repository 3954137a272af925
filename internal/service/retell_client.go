package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"callpulse/internal/model"
)

// RetellClient wraps the voice provider's conversation-detail API. Used only
// for enrichment when a webhook arrives without transcript or summary.
type RetellClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRetellClient creates a new Retell API client.
func NewRetellClient(baseURL, apiKey string) *RetellClient {
	return &RetellClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsEnabled reports whether an API key is configured.
func (c *RetellClient) IsEnabled() bool {
	return c.apiKey != ""
}

// CallDetail is the subset of the provider's call object the engine uses.
type CallDetail struct {
	Transcript   string
	Summary      string
	RecordingURL string
}

type retellCallResponse struct {
	CallID       string          `json:"call_id"`
	Transcript   json.RawMessage `json:"transcript"`
	RecordingURL string          `json:"recording_url"`
	CallAnalysis struct {
		CallSummary string `json:"call_summary"`
	} `json:"call_analysis"`
}

// GetCallDetail fetches transcript and summary for a call. Callers treat any
// failure here as non-fatal.
func (c *RetellClient) GetCallDetail(ctx context.Context, callID string) (*CallDetail, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("retell client disabled: no API key")
	}

	url := fmt.Sprintf("%s/v2/get-call/%s", c.baseURL, callID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("retell get-call %s: status %d: %s", callID, resp.StatusCode, string(body))
	}

	var call retellCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return nil, fmt.Errorf("retell get-call %s: decode: %w", callID, err)
	}

	return &CallDetail{
		Transcript:   model.FlattenTranscript(call.Transcript),
		Summary:      call.CallAnalysis.CallSummary,
		RecordingURL: call.RecordingURL,
	}, nil
}
