package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/bootwatch/internal/models"
)

func sampleRecord() *models.ErrorRecord {
	return &models.ErrorRecord{
		ID:        7,
		StreamID:  "test-stream",
		Timestamp: "2024-01-15 10:30:00.123",
		Severity:  models.SeverityError,
		Logger:    "c.e.service.UserService",
		Thread:    "http-nio-8080-exec-1",
		Message:   "Unexpected failure while loading user",
		FrameLines: []string{
			"java.lang.NullPointerException: user was null",
			"\tat com.example.service.UserService.findUser(UserService.java:42)",
		},
	}
}

// textEnvelope wraps a reply body in the messages-API envelope.
func textEnvelope(text string) string {
	out := struct {
		Content []map[string]string `json:"content"`
	}{
		Content: []map[string]string{{"type": "text", "text": text}},
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func TestAnalyzeSuccess(t *testing.T) {
	var sawAuth, sawVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("x-api-key")
		sawVersion = r.Header.Get("anthropic-version")
		fmt.Fprint(w, textEnvelope(`{"title":"Null user lookup","description":"findUser dereferences a null user.","remediation":"Guard the lookup result.","confidence":0.85}`))
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, Model: "test-model", APIKey: "key-123"})
	out := g.Analyze(context.Background(), sampleRecord(), nil)

	require.Equal(t, models.AnalysisAnalyzed, out.Status, "reason: %s", out.Reason)
	assert.Equal(t, int64(7), out.RecordID)
	assert.True(t, out.Verdict.Matched)
	assert.Equal(t, "remote-analysis", out.Verdict.Rule)
	assert.Equal(t, "Null user lookup", out.Verdict.Title)
	assert.Equal(t, 0.85, out.Verdict.Confidence)
	assert.Equal(t, "key-123", sawAuth)
	assert.Equal(t, "2023-06-01", sawVersion)
}

// A reply wrapped in markdown code fences must still parse.
func TestAnalyzeStripsCodeFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fenced := "```json\n{\"title\":\"Fenced\",\"description\":\"d\",\"remediation\":\"r\",\"confidence\":0.7}\n```"
		fmt.Fprint(w, textEnvelope(fenced))
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, APIKey: "k"})
	out := g.Analyze(context.Background(), sampleRecord(), nil)
	require.Equal(t, models.AnalysisAnalyzed, out.Status, "reason: %s", out.Reason)
	assert.Equal(t, "Fenced", out.Verdict.Title)
}

// An omitted confidence field falls back to the default, distinct from an
// explicit zero.
func TestAnalyzeDefaultConfidence(t *testing.T) {
	send := `{"title":"T","description":"D","remediation":"R"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textEnvelope(send))
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, APIKey: "k"})
	out := g.Analyze(context.Background(), sampleRecord(), nil)
	require.Equal(t, models.AnalysisAnalyzed, out.Status)
	assert.Equal(t, defaultConfidence, out.Verdict.Confidence)

	send = `{"title":"T","description":"D","remediation":"R","confidence":0}`
	out = g.Analyze(context.Background(), sampleRecord(), nil)
	require.Equal(t, models.AnalysisAnalyzed, out.Status)
	assert.Equal(t, 0.0, out.Verdict.Confidence, "explicit zero must not be replaced")
}

func TestAnalyzeUnavailableWithoutKey(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL})
	out := g.Analyze(context.Background(), sampleRecord(), nil)

	assert.Equal(t, models.AnalysisUnavailable, out.Status)
	assert.Equal(t, int32(0), calls.Load(), "unconfigured gateway must not touch the network")
}

func TestAnalyzeRateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, textEnvelope(`{"title":"T","description":"D"}`))
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, APIKey: "k", RateCeiling: 2})
	for i := 0; i < 2; i++ {
		out := g.Analyze(context.Background(), sampleRecord(), nil)
		require.Equal(t, models.AnalysisAnalyzed, out.Status)
	}
	out := g.Analyze(context.Background(), sampleRecord(), nil)
	assert.Equal(t, models.AnalysisRateLimited, out.Status)
	assert.Contains(t, out.Reason, "2 calls/minute")
	assert.Equal(t, int32(2), calls.Load(), "rate-limited call must short-circuit before the network")
}

// A failing call still consumes its rate-window slot.
func TestAnalyzeFailureConsumesSlot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not json")
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, APIKey: "k", RateCeiling: 1})
	out := g.Analyze(context.Background(), sampleRecord(), nil)
	assert.Equal(t, models.AnalysisFailed, out.Status)

	out = g.Analyze(context.Background(), sampleRecord(), nil)
	assert.Equal(t, models.AnalysisRateLimited, out.Status)
}

func TestAnalyzeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"type":"rate_limit_error","message":"try later"}}`)
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, APIKey: "k"})
	out := g.Analyze(context.Background(), sampleRecord(), nil)
	assert.Equal(t, models.AnalysisFailed, out.Status)
	assert.Contains(t, out.Reason, "rate_limit_error")
}

func TestAnalyzeRejectsEmptyVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textEnvelope(`{"confidence":0.9}`))
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, APIKey: "k"})
	out := g.Analyze(context.Background(), sampleRecord(), nil)
	assert.Equal(t, models.AnalysisFailed, out.Status)
	assert.Contains(t, out.Reason, "missing title and description")
}

func TestAnalyzeContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(Config{Endpoint: srv.URL, APIKey: "k"})
	out := g.Analyze(ctx, sampleRecord(), nil)
	assert.Equal(t, models.AnalysisFailed, out.Status)
}

func TestBuildPromptIncludesWindows(t *testing.T) {
	rec := sampleRecord()
	windows := []models.CodeWindow{{
		ClassName:  "com.example.service.UserService",
		MethodName: "findUser",
		FileName:   "UserService.java",
		Line:       42,
		Snippet:    ">   42: User user = repo.byID(id);\n",
	}}

	prompt := buildPrompt(rec, windows)
	assert.Contains(t, prompt, "Message: Unexpected failure while loading user")
	assert.Contains(t, prompt, "UserService.java:42")
	assert.Contains(t, prompt, "User user = repo.byID(id);")
}

func TestBuildPromptTruncatesLongTraces(t *testing.T) {
	rec := sampleRecord()
	rec.FrameLines = nil
	for i := 0; i < maxPromptFrameLines+25; i++ {
		rec.FrameLines = append(rec.FrameLines,
			fmt.Sprintf("\tat com.example.Deep.call%d(Deep.java:%d)", i, i+1))
	}

	prompt := buildPrompt(rec, nil)
	assert.Contains(t, prompt, "call0(")
	assert.Contains(t, prompt, fmt.Sprintf("call%d(", maxPromptFrameLines-1))
	assert.NotContains(t, prompt, fmt.Sprintf("call%d(", maxPromptFrameLines))
	assert.Contains(t, prompt, "25 more lines omitted")
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfiguredReflectsKey(t *testing.T) {
	assert.False(t, New(Config{}).Configured())
	assert.True(t, New(Config{APIKey: "k"}).Configured())
}
