package models

// AnalysisStatus enumerates the possible results of a remote analysis call.
// Every gateway call produces exactly one of these; failures are modeled as
// data, never as panics or propagated errors.
type AnalysisStatus int

const (
	// AnalysisAnalyzed means the remote service returned a usable verdict.
	AnalysisAnalyzed AnalysisStatus = iota

	// AnalysisUnavailable means no credential is configured; the call was
	// never attempted.
	AnalysisUnavailable

	// AnalysisRateLimited means the per-minute call ceiling was reached; the
	// call was never attempted.
	AnalysisRateLimited

	// AnalysisFailed means the call was attempted but did not produce a
	// parseable reply (network failure, timeout, malformed response).
	AnalysisFailed
)

// String returns the status name for display and logging.
func (s AnalysisStatus) String() string {
	switch s {
	case AnalysisAnalyzed:
		return "analyzed"
	case AnalysisUnavailable:
		return "unavailable"
	case AnalysisRateLimited:
		return "rate_limited"
	case AnalysisFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AnalysisOutcome is the result of one remote analysis call, paired with the
// originating ErrorRecord's identifier.
type AnalysisOutcome struct {
	// RecordID is the ID of the ErrorRecord that was analyzed.
	RecordID int64 `json:"record_id"`

	// Status is the outcome variant.
	Status AnalysisStatus `json:"status"`

	// Verdict holds the remote verdict when Status is AnalysisAnalyzed.
	Verdict ClassificationVerdict `json:"verdict,omitempty"`

	// Reason carries the human-readable explanation for non-analyzed
	// statuses (missing credential, ceiling reached, failure cause).
	Reason string `json:"reason,omitempty"`
}
