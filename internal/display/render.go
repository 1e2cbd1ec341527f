// Package display renders classified errors and analysis outcomes for the
// terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/bootwatch/internal/models"
	"github.com/harrison/bootwatch/internal/monitor"
)

// Renderer writes human-readable output for records, verdicts, and
// outcomes. Color is used only when the writer is a TTY.
type Renderer struct {
	writer   io.Writer
	useColor bool
}

// NewRenderer creates a renderer for the given writer.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{writer: w, useColor: writerIsTTY(w)}
}

func writerIsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LogRecord prints one structured non-error line.
func (r *Renderer) LogRecord(rec models.LogRecord) {
	level := rec.Severity.String()
	if r.useColor {
		switch rec.Severity {
		case models.SeverityWarn:
			level = color.New(color.FgYellow).Sprint(level)
		case models.SeverityDebug, models.SeverityTrace:
			level = color.New(color.FgHiBlack).Sprint(level)
		default:
			level = color.New(color.FgBlue).Sprint(level)
		}
	}
	fmt.Fprintf(r.writer, "%s %-5s %s : %s\n", rec.Timestamp, level, rec.Logger, rec.Message)
}

// Error prints a reconstructed error block with its local verdict.
func (r *Renderer) Error(ce monitor.ClassifiedError) {
	rec := ce.Record

	head := fmt.Sprintf("── error #%d  %s  [%s] %s", rec.ID, rec.Timestamp, rec.Thread, rec.Logger)
	if r.useColor {
		head = color.New(color.FgRed, color.Bold).Sprint(head)
	}
	fmt.Fprintln(r.writer, head)
	fmt.Fprintln(r.writer, rec.RawText())

	if ce.Verdict.Matched {
		r.Verdict(ce.Verdict)
	} else {
		msg := "no local match - run with --analyze or use the analyze command for a remote diagnosis"
		if r.useColor {
			msg = color.New(color.FgHiBlack).Sprint(msg)
		}
		fmt.Fprintln(r.writer, msg)
	}
	fmt.Fprintln(r.writer)
}

// Verdict prints a local classification verdict.
func (r *Renderer) Verdict(v models.ClassificationVerdict) {
	title := fmt.Sprintf("✗ %s (%s, confidence %.2f)", v.Title, v.Rule, v.Confidence)
	if r.useColor {
		title = color.New(color.FgYellow, color.Bold).Sprint(title)
	}
	fmt.Fprintln(r.writer, title)
	if v.Description != "" {
		fmt.Fprintf(r.writer, "  %s\n", v.Description)
	}
	if v.Remediation != "" {
		fmt.Fprintf(r.writer, "  fix: %s\n", indentContinuation(renderMarkdown(v.Remediation)))
	}
}

// Outcome prints a remote analysis outcome. Failure variants show their
// specific reason rather than a generic error.
func (r *Renderer) Outcome(outcome models.AnalysisOutcome) {
	switch outcome.Status {
	case models.AnalysisAnalyzed:
		head := fmt.Sprintf("◆ remote analysis for error #%d", outcome.RecordID)
		if r.useColor {
			head = color.New(color.FgCyan, color.Bold).Sprint(head)
		}
		fmt.Fprintln(r.writer, head)
		v := outcome.Verdict
		fmt.Fprintf(r.writer, "  %s (confidence %.2f)\n", v.Title, v.Confidence)
		if v.Description != "" {
			fmt.Fprintf(r.writer, "  %s\n", indentContinuation(renderMarkdown(v.Description)))
		}
		if v.Remediation != "" {
			fmt.Fprintf(r.writer, "  fix: %s\n", indentContinuation(renderMarkdown(v.Remediation)))
		}
	case models.AnalysisUnavailable:
		fmt.Fprintf(r.writer, "◇ remote analysis unavailable for error #%d: %s\n", outcome.RecordID, outcome.Reason)
	case models.AnalysisRateLimited:
		fmt.Fprintf(r.writer, "◇ remote analysis rate-limited for error #%d: %s\n", outcome.RecordID, outcome.Reason)
	default:
		msg := fmt.Sprintf("◇ remote analysis failed for error #%d: %s", outcome.RecordID, outcome.Reason)
		if r.useColor {
			msg = color.New(color.FgRed).Sprint(msg)
		}
		fmt.Fprintln(r.writer, msg)
	}
}

// Rules prints the effective pattern table in declaration order.
func (r *Renderer) Rules(rules []RuleRow) {
	for i, row := range rules {
		name := row.Name
		if r.useColor {
			name = color.New(color.Bold).Sprint(name)
		}
		fmt.Fprintf(r.writer, "%3d. %s (confidence %.2f)\n     %s\n     signature: %s\n",
			i+1, name, row.Confidence, row.Title, row.Signature)
	}
}

// RuleRow is the display shape of one pattern rule.
type RuleRow struct {
	Name       string
	Title      string
	Signature  string
	Confidence float64
}

// indentContinuation keeps multi-line rendered text aligned under its label.
func indentContinuation(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
