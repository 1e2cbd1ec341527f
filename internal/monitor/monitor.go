// Package monitor wires the reconstruction pipeline for one stream: raw
// lines in, classified error records and analysis outcomes out, with a
// bounded retained history for observers that attach late.
package monitor

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/harrison/bootwatch/internal/gateway"
	"github.com/harrison/bootwatch/internal/logparse"
	"github.com/harrison/bootwatch/internal/models"
	"github.com/harrison/bootwatch/internal/patterns"
	"github.com/harrison/bootwatch/internal/source"
)

// ClassifiedError pairs an emitted error record with its local verdict.
type ClassifiedError struct {
	Record  models.ErrorRecord           `json:"record"`
	Verdict models.ClassificationVerdict `json:"verdict"`
}

// Subscriber receives the monitor's push outputs. OnLogRecord and OnError
// are called synchronously from the line-ingestion path and must return
// quickly; OnAnalysis is called from the goroutine running the remote call.
type Subscriber interface {
	OnLogRecord(rec models.LogRecord)
	OnError(ce ClassifiedError)
	OnAnalysis(outcome models.AnalysisOutcome)
}

// Options configures a Monitor.
type Options struct {
	// StreamID identifies the stream; empty means a generated uuid.
	StreamID string

	// Library is the local classification table (required).
	Library *patterns.Library

	// Gateway is the remote analysis client; nil disables Analyze.
	Gateway *gateway.Gateway

	// Resolver extracts source windows for analysis requests; may be nil.
	Resolver *source.Resolver

	// LineHistory is the retained raw-line count (default 1000).
	LineHistory int

	// ErrorHistory is the retained error/verdict and outcome count
	// (default 100).
	ErrorHistory int
}

// Monitor owns one stream's pipeline. Feed and Flush must be called from a
// single goroutine; the snapshot accessors and Analyze are safe from any
// goroutine.
type Monitor struct {
	streamID string
	recon    *logparse.Reconstructor
	library  *patterns.Library
	gw       *gateway.Gateway
	resolver *source.Resolver

	mu       sync.Mutex
	lines    *ring[string]
	errs     *ring[ClassifiedError]
	outcomes *ring[models.AnalysisOutcome]
	subs     []Subscriber

	analyses sync.WaitGroup
}

// New creates a monitor for one stream.
func New(opts Options) *Monitor {
	if opts.StreamID == "" {
		opts.StreamID = uuid.NewString()
	}
	if opts.LineHistory <= 0 {
		opts.LineHistory = 1000
	}
	if opts.ErrorHistory <= 0 {
		opts.ErrorHistory = 100
	}
	m := &Monitor{
		streamID: opts.StreamID,
		library:  opts.Library,
		gw:       opts.Gateway,
		resolver: opts.Resolver,
		lines:    newRing[string](opts.LineHistory),
		errs:     newRing[ClassifiedError](opts.ErrorHistory),
		outcomes: newRing[models.AnalysisOutcome](opts.ErrorHistory),
	}
	m.recon = logparse.NewReconstructor(opts.StreamID, parserSink{m})
	return m
}

// parserSink adapts the monitor to the reconstructor's Sink without
// exposing the callbacks on Monitor's public surface.
type parserSink struct{ m *Monitor }

func (s parserSink) OnLogRecord(rec models.LogRecord)     { s.m.handleLogRecord(rec) }
func (s parserSink) OnErrorRecord(rec models.ErrorRecord) { s.m.handleErrorRecord(rec) }

// StreamID returns the stream's identifier.
func (m *Monitor) StreamID() string {
	return m.streamID
}

// Subscribe registers a subscriber for push outputs.
func (m *Monitor) Subscribe(sub Subscriber) {
	m.mu.Lock()
	m.subs = append(m.subs, sub)
	m.mu.Unlock()
}

// Feed processes one raw line. The line is fully handled, including any
// record emission and classification, before Feed returns.
func (m *Monitor) Feed(line string) {
	m.mu.Lock()
	m.lines.push(line)
	m.mu.Unlock()
	m.recon.Consume(line)
}

// Flush finalizes any open error record. Call when the monitored process
// exits or the stream is stopped.
func (m *Monitor) Flush() {
	m.recon.Flush()
}

// Wait blocks until all in-flight remote analyses have completed.
func (m *Monitor) Wait() {
	m.analyses.Wait()
}

func (m *Monitor) handleLogRecord(rec models.LogRecord) {
	for _, sub := range m.subscribers() {
		sub.OnLogRecord(rec)
	}
}

func (m *Monitor) handleErrorRecord(rec models.ErrorRecord) {
	ce := ClassifiedError{Record: rec, Verdict: m.library.Classify(&rec)}

	m.mu.Lock()
	m.errs.push(ce)
	m.mu.Unlock()

	for _, sub := range m.subscribers() {
		sub.OnError(ce)
	}
}

// Analyze invokes the remote gateway for a record on its own goroutine and
// returns immediately. The outcome is recorded in history and pushed to
// subscribers. With no gateway configured the request is ignored.
func (m *Monitor) Analyze(ctx context.Context, rec models.ErrorRecord) {
	if m.gw == nil {
		return
	}
	m.analyses.Add(1)
	go func() {
		defer m.analyses.Done()
		m.recordOutcome(m.AnalyzeSync(ctx, rec))
	}()
}

// AnalyzeSync performs the remote call on the calling goroutine and returns
// its outcome without touching history. Callers that want the outcome
// retained and fanned out should use Analyze.
func (m *Monitor) AnalyzeSync(ctx context.Context, rec models.ErrorRecord) models.AnalysisOutcome {
	if m.gw == nil {
		return models.AnalysisOutcome{
			RecordID: rec.ID,
			Status:   models.AnalysisUnavailable,
			Reason:   "no gateway configured",
		}
	}
	var windows []models.CodeWindow
	if m.resolver != nil {
		windows = m.resolver.Extract(rec.FrameLines)
	}
	return m.gw.Analyze(ctx, &rec, windows)
}

func (m *Monitor) recordOutcome(outcome models.AnalysisOutcome) {
	m.mu.Lock()
	m.outcomes.push(outcome)
	m.mu.Unlock()

	for _, sub := range m.subscribers() {
		sub.OnAnalysis(outcome)
	}
}

func (m *Monitor) subscribers() []Subscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := make([]Subscriber, len(m.subs))
	copy(subs, m.subs)
	return subs
}

// RecentLines returns the retained raw lines, oldest first.
func (m *Monitor) RecentLines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lines.snapshot()
}

// RecentErrors returns the retained classified errors, oldest first.
func (m *Monitor) RecentErrors() []ClassifiedError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs.snapshot()
}

// RecentOutcomes returns the retained analysis outcomes, oldest first.
func (m *Monitor) RecentOutcomes() []models.AnalysisOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes.snapshot()
}
