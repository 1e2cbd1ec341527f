// Package logparse implements the incremental log-to-error reconstruction
// pipeline. A Reconstructor consumes the raw text stream of a monitored
// process one line at a time and emits structured LogRecords for ordinary
// lines and completed ErrorRecords for multi-line error blocks.
//
// Each line is seen exactly once, in order. There is no backtracking over
// the stream: a line either resolves immediately or is appended to the at
// most one record that is currently accumulating.
package logparse

import (
	"strings"

	"github.com/harrison/bootwatch/internal/models"
)

// escapedNewline is the literal two-character token some appenders emit in
// place of real line breaks when an event is delivered as a single line.
const escapedNewline = `\n`

// blankMessagePlaceholder is substituted when a finalized record has stack
// content but no usable message text.
const blankMessagePlaceholder = "error - see details"

// contextJoinSeparator joins synthesized context lines into a one-line
// message.
const contextJoinSeparator = " | "

// Sink receives the reconstructor's emissions. Implementations must not
// retain references into mutable parser state; emitted records are final.
type Sink interface {
	// OnLogRecord is called once for every structured non-error line.
	OnLogRecord(rec models.LogRecord)

	// OnErrorRecord is called once for every completed error block.
	OnErrorRecord(rec models.ErrorRecord)
}

// continuation is one non-header line collected into the open record.
type continuation struct {
	text  string
	frame bool
}

// Reconstructor is the incremental parser for a single stream. It is not
// safe for concurrent use: the stream feed is the only writer, and each
// line must be fully processed before the next is consumed.
type Reconstructor struct {
	streamID string
	sink     Sink
	nextID   int64

	open  bool
	head  header
	conts []continuation
	raw   []string
}

// NewReconstructor creates a parser for one stream. Record identifiers are
// assigned per reconstructor, strictly increasing from 1.
func NewReconstructor(streamID string, sink Sink) *Reconstructor {
	return &Reconstructor{streamID: streamID, sink: sink}
}

// Open reports whether an error record is currently accumulating.
func (r *Reconstructor) Open() bool {
	return r.open
}

// Consume processes one delivered line. Embedded escaped-newline tokens are
// expanded first; only the first resulting sub-line is tested as a header,
// the rest are classified as continuations immediately.
func (r *Reconstructor) Consume(line string) {
	if !strings.Contains(line, escapedNewline) {
		r.processLine(line)
		return
	}
	sub := strings.Split(line, escapedNewline)
	r.processLine(sub[0])
	for _, s := range sub[1:] {
		if r.open {
			r.appendContinuation(s)
		}
		// Sub-lines after a non-error header are orphaned output and carry
		// no structure of their own.
	}
}

// Flush finalizes and emits any open record. Call at stream end or when the
// monitored process stops.
func (r *Reconstructor) Flush() {
	if r.open {
		r.finalize()
	}
}

func (r *Reconstructor) processLine(line string) {
	h, ok := parseHeader(line)
	if !ok {
		if r.open {
			r.appendContinuation(line)
		}
		// Orphan top-level output (pre-init banners etc.) stays
		// unstructured.
		return
	}

	if r.open {
		r.finalize()
	}

	if h.Severity == models.SeverityError ||
		(h.Severity == models.SeverityWarn && shouldPromoteWarn(h.Message)) {
		r.openRecord(h, line)
		return
	}

	r.sink.OnLogRecord(models.LogRecord{
		Timestamp: h.Timestamp,
		Severity:  h.Severity,
		PID:       h.PID,
		Thread:    h.Thread,
		Logger:    h.Logger,
		Message:   h.Message,
		Raw:       line,
	})
}

func (r *Reconstructor) openRecord(h header, line string) {
	r.nextID++
	r.open = true
	r.head = h
	r.conts = r.conts[:0]
	r.raw = append(r.raw[:0], line)
}

func (r *Reconstructor) appendContinuation(line string) {
	r.conts = append(r.conts, continuation{text: line, frame: isFrameLine(line)})
	r.raw = append(r.raw, line)
}

// finalize closes the open record and emits it unless it is contentless.
// A blank primary message is synthesized from non-decorative context lines;
// if there is no context but the record carries stack content, a fixed
// placeholder is used. A record with neither message nor content is
// suppressed (its identifier is not reused).
func (r *Reconstructor) finalize() {
	msg := strings.TrimSpace(r.head.Message)
	if msg == "" {
		msg = r.synthesizeMessage()
	}

	frames := r.mergeFrames()
	if msg == "" && r.hasFrameLine() {
		msg = blankMessagePlaceholder
	}

	if msg != "" {
		rawLines := make([]string, len(r.raw))
		copy(rawLines, r.raw)
		r.sink.OnErrorRecord(models.ErrorRecord{
			ID:         r.nextID,
			StreamID:   r.streamID,
			Timestamp:  r.head.Timestamp,
			Severity:   r.head.Severity,
			Logger:     r.head.Logger,
			Thread:     r.head.Thread,
			Message:    msg,
			FrameLines: frames,
			RawLines:   rawLines,
		})
	}

	r.open = false
	r.head = header{}
	r.conts = r.conts[:0]
	r.raw = r.raw[:0]
}

// hasFrameLine reports whether any continuation was recognized as a stack
// frame. Decorative banners alone do not count as content.
func (r *Reconstructor) hasFrameLine() bool {
	for _, c := range r.conts {
		if c.frame {
			return true
		}
	}
	return false
}

// synthesizeMessage joins the non-decorative free-text context lines into a
// single message line.
func (r *Reconstructor) synthesizeMessage() string {
	var parts []string
	for _, c := range r.conts {
		if c.frame || isDecorative(c.text) {
			continue
		}
		parts = append(parts, strings.TrimSpace(c.text))
	}
	return strings.Join(parts, contextJoinSeparator)
}

// mergeFrames builds the final stack-frame sequence: recognized frame lines
// plus non-blank context lines, in arrival order. Context lines are kept so
// the classifier and source resolver can match failure-analysis banners
// that are not literal frames.
func (r *Reconstructor) mergeFrames() []string {
	var frames []string
	for _, c := range r.conts {
		if c.frame || strings.TrimSpace(c.text) != "" {
			frames = append(frames, c.text)
		}
	}
	return frames
}
