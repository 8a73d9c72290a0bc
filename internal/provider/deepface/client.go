package deepface

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

// Config holds the configuration for the DeepFace client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Model      string
	Detector   string
	RetryCount int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:5005",
		Timeout:    30 * time.Second,
		Model:      "Facenet",
		Detector:   "retinaface",
		RetryCount: 3,
	}
}

// Client fala com o sidecar DeepFace. Toda a API exposta é POST com JSON.
type Client struct {
	http *http.Client
	cfg  Config
}

func NewClient(cfg Config) *Client {
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

// Represent calls POST /represent to generate face embeddings
func (c *Client) Represent(ctx context.Context, imageBase64 string) (*RepresentResponse, error) {
	var resp RepresentResponse
	err := c.postWithRetry(ctx, "/represent", RepresentRequest{
		Img:      imageBase64,
		Model:    c.cfg.Model,
		Detector: c.cfg.Detector,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analyze calls POST /analyze to detect faces in image
func (c *Client) Analyze(ctx context.Context, imageBase64 string) (*AnalyzeResponse, error) {
	var resp AnalyzeResponse
	err := c.postWithRetry(ctx, "/analyze", AnalyzeRequest{
		Img:      imageBase64,
		Actions:  []string{}, // vazio = só detecção
		Detector: c.cfg.Detector,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// maxBackoff is the maximum backoff duration for retries
const maxBackoff = 30 * time.Second

// calculateBackoff returns the exponential backoff for a given attempt:
// 1s, 2s, 4s, 8s, capped at maxBackoff.
func calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	seconds := 1
	for i := 1; i < attempt && i < 6; i++ {
		seconds *= 2
	}
	d := time.Duration(seconds) * time.Second
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// statusError carries the HTTP status of a failed request so retry
// logic can distinguish client errors from server errors.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("deepface returned status %d: %s", e.status, e.body)
}

// postWithRetry repete a chamada com backoff exponencial. Erros 4xx nunca
// são repetidos; só 5xx e falhas de transporte.
func (c *Client) postWithRetry(ctx context.Context, path string, body, result interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(attempt)):
			}
		}

		lastErr = c.post(ctx, path, body, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var se *statusError
		if errors.As(lastErr, &se) && se.status < http.StatusInternalServerError {
			return lastErr
		}
	}

	return fmt.Errorf("%w: %v", ErrDeepFaceUnavailable, lastErr)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call deepface: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &statusError{status: resp.StatusCode, body: string(raw)}
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return nil
}
