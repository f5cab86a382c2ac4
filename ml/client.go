// Package ml calls the external image classification endpoint.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"civic-report-service/apperrors"
	"civic-report-service/models"
)

// Result is a classification outcome: what the issue is and how urgent
type Result struct {
	IssueType string `json:"issueType"`
	Severity  int    `json:"severity"`
}

// DefaultResult is the static classification used when no endpoint is
// configured. It uses the first declared issue type.
func DefaultResult() Result {
	return Result{IssueType: models.IssueTypes[0], Severity: 50}
}

// Client is an HTTP client for the classifier endpoint
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a classifier client. An empty baseURL disables the
// endpoint entirely: Analyze then answers with DefaultResult without any I/O.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an endpoint is set
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type analyzeRequest struct {
	ImageURL string `json:"imageUrl"`
}

// Severity is decoded loosely: the endpoint has been seen returning strings
// and nulls, and a garbage severity must not sink an otherwise usable answer.
type analyzeResponse struct {
	IssueType string      `json:"issueType"`
	Severity  interface{} `json:"severity"`
}

// Analyze classifies the image behind the given data URL. Each response field
// is validated independently: an unknown issue type or non-numeric severity is
// replaced by its default while the other field is kept as returned. Transport
// failures, timeouts and non-2xx statuses come back as an InferenceError.
func (c *Client) Analyze(ctx context.Context, imageDataURL string) (Result, error) {
	if !c.Configured() {
		return DefaultResult(), nil
	}

	payload, err := json.Marshal(analyzeRequest{ImageURL: imageDataURL})
	if err != nil {
		return Result{}, apperrors.Inference(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewBuffer(payload))
	if err != nil {
		return Result{}, apperrors.Inference(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, apperrors.Inference(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, apperrors.Inference(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, apperrors.Inference(fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body)))
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, apperrors.Inference(fmt.Errorf("failed to parse response: %w", err))
	}

	fallback := DefaultResult()
	result := Result{IssueType: parsed.IssueType, Severity: fallback.Severity}

	if !models.ValidIssueType(parsed.IssueType) {
		result.IssueType = fallback.IssueType
	}
	if sev, ok := parsed.Severity.(float64); ok {
		result.Severity = int(sev)
	}

	return result, nil
}
