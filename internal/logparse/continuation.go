package logparse

import (
	"regexp"
	"strings"
)

// framePattern matches continuation lines that belong to a call-stack trace:
// indented "at ..." frames, "Caused by:" and "Suppressed:" markers, frame
// elision markers ("... 12 more"), and lines that are themselves a typed
// exception header ("java.lang.IllegalStateException: boom").
var framePattern = regexp.MustCompile(
	`^\s+at\s+\S` +
		`|^\s*Caused by:` +
		`|^\s*Suppressed:` +
		`|^\s*\.\.\.\s+\d+\s+(?:more|common frames omitted)` +
		`|^\s*(?:[\w$]+\.)+[\w$]+(?:Exception|Error)(?::|$)`,
)

// decorationPattern matches banner lines made only of punctuation and
// whitespace ("****", "-----", "====="). Such lines carry no message content
// and are skipped when synthesizing a message from context lines.
var decorationPattern = regexp.MustCompile(`^[\s\p{P}\p{S}]*$`)

// isFrameLine reports whether a continuation line is part of a stack trace.
func isFrameLine(line string) bool {
	return framePattern.MatchString(line)
}

// isDecorative reports whether a line is blank or pure banner decoration.
func isDecorative(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	return decorationPattern.MatchString(line)
}
