package gateway

import (
	"fmt"
	"strings"

	"github.com/harrison/bootwatch/internal/models"
)

// maxPromptFrameLines caps how much of the stack trace is serialized into a
// request, to bound payload size.
const maxPromptFrameLines = 50

// systemPrompt pins the reply shape. The service must answer with a single
// JSON object; everything else is treated as a malformed reply.
const systemPrompt = `You are an expert at diagnosing failures in JVM server applications from their log output. Analyze the error the user provides and respond with ONLY a JSON object of this exact shape, no markdown, no code fences, no prose:
{"title": "<short summary of the failure>", "description": "<what went wrong and why, 2-4 sentences>", "remediation": "<concrete steps to fix it>", "confidence": <number between 0.0 and 1.0>}`

// buildPrompt serializes an error record, and any resolved code windows,
// into the analysis request body.
func buildPrompt(rec *models.ErrorRecord, windows []models.CodeWindow) string {
	var b strings.Builder

	b.WriteString("A server process logged the following error.\n\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", rec.Timestamp)
	fmt.Fprintf(&b, "Logger: %s\n", rec.Logger)
	fmt.Fprintf(&b, "Thread: %s\n", rec.Thread)
	fmt.Fprintf(&b, "Message: %s\n", rec.Message)

	if len(rec.FrameLines) > 0 {
		b.WriteString("\nStack trace:\n")
		frames := rec.FrameLines
		truncated := false
		if len(frames) > maxPromptFrameLines {
			frames = frames[:maxPromptFrameLines]
			truncated = true
		}
		for _, f := range frames {
			b.WriteString(f)
			b.WriteByte('\n')
		}
		if truncated {
			fmt.Fprintf(&b, "... (%d more lines omitted)\n", len(rec.FrameLines)-maxPromptFrameLines)
		}
	}

	for _, w := range windows {
		fmt.Fprintf(&b, "\nRelevant source, %s:\n", w.Label())
		b.WriteString(w.Snippet)
	}

	return b.String()
}

// stripFences removes decorative code-fence markers from a reply before
// structural parsing.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
