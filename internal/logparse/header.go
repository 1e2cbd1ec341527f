package logparse

import (
	"regexp"
	"strings"

	"github.com/harrison/bootwatch/internal/models"
)

// headerPattern recognizes a structured log header line:
//
//	<timestamp> <severity> <pid> --- [<context-label>] [<thread>] <logger> : <message>
//
// Two timestamp variants are accepted: the legacy space-separated form with
// fractional seconds ("2024-01-15 10:30:00.123") and the ISO form with a "T"
// separator and offset suffix ("2024-01-15T10:30:00.123+01:00"). The
// context-label bracket segment is optional; when a single bracket segment is
// present it is the thread label.
//
// This grammar is the wire contract with the monitored process. It decides
// the ERROR/WARN split everything downstream depends on, so changes here
// need a version flag.
var headerPattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}\.\d+(?:Z|[+-]\d{2}:\d{2})?)` + // timestamp
		`\s+(TRACE|DEBUG|INFO|WARN|ERROR)` + // severity
		`\s+(\d+)` + // pid
		`\s+---` +
		`(?:\s+\[([^\]]*)\])?` + // optional context label
		`\s+\[([^\]]*)\]` + // thread label
		`\s+(\S+)` + // logger
		`\s*:\s?(.*)$`, // message (may be empty)
)

// header holds the parsed fields of a structured header line.
type header struct {
	Timestamp string
	Severity  models.Severity
	PID       string
	Context   string
	Thread    string
	Logger    string
	Message   string
}

// parseHeader tests a line against the structured header grammar.
// Returns the parsed fields and true on a match.
func parseHeader(line string) (header, bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return header{}, false
	}
	sev, ok := models.ParseSeverity(m[2])
	if !ok {
		return header{}, false
	}
	return header{
		Timestamp: m[1],
		Severity:  sev,
		PID:       m[3],
		Context:   strings.TrimSpace(m[4]),
		Thread:    strings.TrimSpace(m[5]),
		Logger:    m[6],
		Message:   m[7],
	}, true
}
