package models

import "strings"

// Severity represents the level token of a structured log line.
type Severity int

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
)

// String returns the canonical upper-case token for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityTrace:
		return "TRACE"
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity maps a log level token to its Severity.
// Returns SeverityInfo and false for unrecognized tokens.
func ParseSeverity(token string) (Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "TRACE":
		return SeverityTrace, true
	case "DEBUG":
		return SeverityDebug, true
	case "INFO":
		return SeverityInfo, true
	case "WARN", "WARNING":
		return SeverityWarn, true
	case "ERROR":
		return SeverityError, true
	default:
		return SeverityInfo, false
	}
}
