// Package gateway formats reconstructed errors into requests for a remote
// reasoning service and parses its structured replies. Every call produces
// a defined AnalysisOutcome variant; the gateway never panics the stream
// and never propagates a raw failure as if it were a verdict.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harrison/bootwatch/internal/models"
)

// DefaultTimeout bounds one remote call. A call that exceeds it surfaces as
// a failed outcome; its rate-window slot stays consumed.
const DefaultTimeout = 60 * time.Second

// defaultConfidence substitutes for replies that omit a numeric confidence.
const defaultConfidence = 0.5

// Config holds the gateway's connection settings.
type Config struct {
	// Endpoint is the messages URL of the reasoning service.
	Endpoint string

	// Model names the model to request.
	Model string

	// APIKey is the credential. Empty means the gateway is not configured
	// and every Analyze call short-circuits to an unavailable outcome.
	APIKey string

	// RateCeiling is the maximum number of call attempts per rolling
	// minute. 0 disables rate limiting.
	RateCeiling int

	// Timeout bounds one call; 0 means DefaultTimeout.
	Timeout time.Duration
}

// Gateway is a reusable client for remote error analysis. Create once, use
// from any number of goroutines; the rate window is the only shared mutable
// state and is internally synchronized.
type Gateway struct {
	cfg     Config
	limiter *RateLimiter
	client  *http.Client
}

// New creates a Gateway from config.
func New(cfg Config) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Gateway{
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RateCeiling),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether a credential is set.
func (g *Gateway) Configured() bool {
	return g.cfg.APIKey != ""
}

// apiRequest is the wire shape of a messages call.
type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// apiResponse is the subset of the reply envelope the gateway reads.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// analysisReply is the structured verdict the service is instructed to
// return. Confidence is a pointer so an omitted value can be told apart
// from an explicit zero.
type analysisReply struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remediation string   `json:"remediation"`
	Confidence  *float64 `json:"confidence"`
}

// Analyze sends one error record, optionally enriched with code windows, to
// the remote service. It may block for up to the configured timeout and is
// safe to call concurrently; it must not be called from the line-ingestion
// path.
func (g *Gateway) Analyze(ctx context.Context, rec *models.ErrorRecord, windows []models.CodeWindow) models.AnalysisOutcome {
	if !g.Configured() {
		return models.AnalysisOutcome{
			RecordID: rec.ID,
			Status:   models.AnalysisUnavailable,
			Reason:   "no API key configured",
		}
	}
	if !g.limiter.TryAcquire() {
		return models.AnalysisOutcome{
			RecordID: rec.ID,
			Status:   models.AnalysisRateLimited,
			Reason:   fmt.Sprintf("rate ceiling of %d calls/minute reached", g.cfg.RateCeiling),
		}
	}

	reply, err := g.call(ctx, buildPrompt(rec, windows))
	if err != nil {
		return models.AnalysisOutcome{
			RecordID: rec.ID,
			Status:   models.AnalysisFailed,
			Reason:   err.Error(),
		}
	}

	confidence := defaultConfidence
	if reply.Confidence != nil {
		confidence = *reply.Confidence
	}
	return models.AnalysisOutcome{
		RecordID: rec.ID,
		Status:   models.AnalysisAnalyzed,
		Verdict: models.ClassificationVerdict{
			Matched:     true,
			Rule:        "remote-analysis",
			Title:       reply.Title,
			Description: reply.Description,
			Remediation: reply.Remediation,
			Confidence:  confidence,
		},
	}
}

// call performs the HTTP round trip and parses the structured reply.
func (g *Gateway) call(ctx context.Context, prompt string) (*analysisReply, error) {
	body, err := json.Marshal(apiRequest{
		Model:     g.cfg.Model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages:  []apiMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed reply envelope: %w", err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("service error: %s: %s", envelope.Error.Type, envelope.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service returned status %d", resp.StatusCode)
	}

	text := ""
	for _, c := range envelope.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	if text == "" {
		return nil, errors.New("reply contained no text content")
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(stripFences(text)), &reply); err != nil {
		return nil, fmt.Errorf("malformed analysis reply: %w", err)
	}
	if reply.Title == "" && reply.Description == "" {
		return nil, errors.New("analysis reply missing title and description")
	}
	return &reply, nil
}
