// Package patterns implements local error classification: an ordered table
// of failure signatures and a first-match classifier over reconstructed
// error records.
//
// Rule order is load-bearing. Rules are tried in declaration order and the
// first match wins; authors must place more-specific signatures before
// more-general ones. This is a deliberate determinism trade-off over any
// kind of best-match scoring.
package patterns

import (
	"fmt"
	"regexp"

	"github.com/harrison/bootwatch/internal/models"
)

// Rule is one failure signature with its explanation. Signatures are
// regular expressions matched case-insensitively against the concatenation
// of an error record's message and stack-frame lines.
type Rule struct {
	Name        string  `yaml:"name"`
	Signature   string  `yaml:"signature"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Remediation string  `yaml:"remediation"`
	Confidence  float64 `yaml:"confidence"`

	re *regexp.Regexp
}

// warnLogger receives diagnostics about rules skipped at load time.
type warnLogger interface {
	LogWarn(message string)
}

// Library is an ordered, immutable set of compiled rules. It is read-only
// after construction and safe for unsynchronized concurrent reads.
type Library struct {
	rules []Rule
}

// NewLibrary validates and compiles rules in declaration order. A rule with
// an empty signature, an empty title, or a signature that does not compile
// is logged and skipped; a bad entry never aborts loading of the rest.
// Confidence values outside [0, 1] are clamped. The logger may be nil.
func NewLibrary(rules []Rule, log warnLogger) *Library {
	compiled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if err := compileRule(&r); err != nil {
			if log != nil {
				log.LogWarn(fmt.Sprintf("skipping pattern rule %q: %v", r.Name, err))
			}
			continue
		}
		compiled = append(compiled, r)
	}
	return &Library{rules: compiled}
}

func compileRule(r *Rule) error {
	if r.Signature == "" {
		return fmt.Errorf("empty signature")
	}
	if r.Title == "" {
		return fmt.Errorf("empty title")
	}
	re, err := regexp.Compile("(?i)" + r.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
	r.re = re
	return nil
}

// Len returns the number of usable rules.
func (l *Library) Len() int {
	return len(l.rules)
}

// Rules returns a copy of the compiled rule table for display.
func (l *Library) Rules() []Rule {
	out := make([]Rule, len(l.rules))
	copy(out, l.rules)
	return out
}

// Classify matches a record against the table and returns the first
// matching rule's verdict, or models.Unmatched when nothing matches.
// Pure function of (record, table): no I/O, no hidden state.
func (l *Library) Classify(rec *models.ErrorRecord) models.ClassificationVerdict {
	text := rec.SearchText()
	for i := range l.rules {
		r := &l.rules[i]
		if r.re.MatchString(text) {
			return models.ClassificationVerdict{
				Matched:     true,
				Rule:        r.Name,
				Title:       r.Title,
				Description: r.Description,
				Remediation: r.Remediation,
				Confidence:  r.Confidence,
			}
		}
	}
	return models.Unmatched
}

// CanClassify reports whether any rule matches the record. It short-circuits
// at the first match without building a verdict.
func (l *Library) CanClassify(rec *models.ErrorRecord) bool {
	text := rec.SearchText()
	for i := range l.rules {
		if l.rules[i].re.MatchString(text) {
			return true
		}
	}
	return false
}
