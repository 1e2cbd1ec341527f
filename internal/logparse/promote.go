package logparse

import "regexp"

// warnPromotionPattern decides whether a WARN header is error-worthy. It
// matches typed exception names (NullPointerException, OutOfMemoryError) and
// validation/SQL failure vocabulary. Bare "error" and "exception" words are
// deliberately excluded: they appear in routine log chatter ("error handler
// registered") and would promote far too many warnings.
//
// The promotion test applies only after the header grammar has matched; it
// is kept separate from headerPattern because the two evolve independently.
var warnPromotionPattern = regexp.MustCompile(
	`\b[A-Z][A-Za-z0-9]*(?:Exception|Error)\b` +
		`|(?i:\brolled back\b` +
		`|\brollback\b` +
		`|\bconstraint violation\b` +
		`|\bvalidation fail` +
		`|\bbad sql\b` +
		`|\bsqlstate\b` +
		`|\bsql state\b` +
		`|\bdeadlock\b` +
		`|\btimed out\b` +
		`|\bconnection refused\b` +
		`|\bfailed to\b` +
		`|\bunable to\b` +
		`|\bcould not\b)`,
)

// shouldPromoteWarn reports whether a WARN message warrants reconstruction
// as an error record.
func shouldPromoteWarn(message string) bool {
	return warnPromotionPattern.MatchString(message)
}
