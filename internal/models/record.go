// Package models defines the data types shared across the bootwatch
// pipeline: parsed log records, reconstructed error blocks, classification
// verdicts, remote analysis outcomes, and source code windows.
package models

import "strings"

// LogRecord is a single recognized structured log line. Records are
// constructed per line and emitted immediately; they are never retained or
// mutated by the parser.
type LogRecord struct {
	// Timestamp is the stamp text exactly as it appeared in the source line.
	Timestamp string `json:"timestamp"`

	// Severity is the parsed level token.
	Severity Severity `json:"severity"`

	// PID is the process id field of the header.
	PID string `json:"pid"`

	// Thread is the thread label (bracket contents, trimmed).
	Thread string `json:"thread"`

	// Logger is the logger/category name.
	Logger string `json:"logger"`

	// Message is the text after the logger separator.
	Message string `json:"message"`

	// Raw is the original line, unmodified.
	Raw string `json:"raw"`
}

// ErrorRecord is a reconstructed multi-line error block: one ERROR (or
// promoted WARN) header line plus every continuation line that followed it
// before the next structured header.
//
// A record is owned by the stream that is accumulating it. After emission it
// is immutable; callers may copy it freely.
type ErrorRecord struct {
	// ID is a per-stream counter, strictly increasing from 1.
	ID int64 `json:"id"`

	// StreamID identifies the monitored stream that produced the record.
	StreamID string `json:"stream_id"`

	// Timestamp is the header line's stamp text, source format preserved.
	Timestamp string `json:"timestamp"`

	// Severity is ERROR, or WARN for promoted warnings.
	Severity Severity `json:"severity"`

	// Logger is the logger/category name from the header.
	Logger string `json:"logger"`

	// Thread is the thread label from the header.
	Thread string `json:"thread"`

	// Message is the primary message line. When the header message was blank
	// it is synthesized from the context lines at finalization.
	Message string `json:"message"`

	// FrameLines holds the final stack trace: recognized frame lines merged
	// with non-blank context lines, in arrival order.
	FrameLines []string `json:"frame_lines"`

	// RawLines holds every line belonging to this block, including blank
	// lines, for faithful redisplay.
	RawLines []string `json:"raw_lines"`
}

// SearchText returns the message and all frame lines joined into the single
// text the classifier and rule signatures match against.
func (r *ErrorRecord) SearchText() string {
	if len(r.FrameLines) == 0 {
		return r.Message
	}
	parts := make([]string, 0, len(r.FrameLines)+1)
	parts = append(parts, r.Message)
	parts = append(parts, r.FrameLines...)
	return strings.Join(parts, "\n")
}

// RawText reassembles the original text block exactly as received.
func (r *ErrorRecord) RawText() string {
	return strings.Join(r.RawLines, "\n")
}
