package models

// ClassificationVerdict is the result of matching an ErrorRecord against the
// pattern library. It is derived data: recomputing it for the same record
// always yields the same verdict.
type ClassificationVerdict struct {
	// Matched reports whether any rule matched. When false the remaining
	// fields are zero values.
	Matched bool `json:"matched"`

	// Rule is the name of the matching rule.
	Rule string `json:"rule,omitempty"`

	// Title is a short human-readable summary of the failure.
	Title string `json:"title,omitempty"`

	// Description explains what the failure means.
	Description string `json:"description,omitempty"`

	// Remediation is actionable guidance for fixing the failure.
	Remediation string `json:"remediation,omitempty"`

	// Confidence is the rule's fixed confidence score in [0.0, 1.0].
	Confidence float64 `json:"confidence,omitempty"`
}

// Unmatched is the verdict returned when no rule matches. Absence of a match
// is a normal outcome, not an error.
var Unmatched = ClassificationVerdict{Matched: false}
