package patterns

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadRulesFile verifies custom rules load in file order.
func TestLoadRulesFile(t *testing.T) {
	path := writeRulesFile(t, `
rules:
  - name: payment-declined
    signature: PaymentDeclinedException
    title: Payment declined by provider
    description: The payment provider rejected the charge.
    remediation: Check the decline code in the provider dashboard.
    confidence: 0.95
  - name: feature-flag
    signature: unknown feature flag
    title: Unknown feature flag
    confidence: 0.8
`)

	rules, err := LoadRulesFile(path)
	if err != nil {
		t.Fatalf("LoadRulesFile: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Name != "payment-declined" || rules[1].Name != "feature-flag" {
		t.Errorf("rule order = %q, %q", rules[0].Name, rules[1].Name)
	}
	if rules[0].Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", rules[0].Confidence)
	}
}

// TestLoadRulesFileMissing verifies a missing file yields no rules and no
// error.
func TestLoadRulesFileMissing(t *testing.T) {
	rules, err := LoadRulesFile(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("LoadRulesFile: %v", err)
	}
	if rules != nil {
		t.Errorf("got %v, want nil", rules)
	}
}

// TestLoadRulesFileEmptyPath verifies an unconfigured path is a no-op.
func TestLoadRulesFileEmptyPath(t *testing.T) {
	rules, err := LoadRulesFile("")
	if err != nil || rules != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", rules, err)
	}
}

// TestLoadRulesFileMalformed verifies unparseable YAML is an error.
func TestLoadRulesFileMalformed(t *testing.T) {
	path := writeRulesFile(t, "rules: [unclosed")
	if _, err := LoadRulesFile(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

// TestDefaultLibraryCustomRulesShadowBuiltins verifies the merge order:
// custom rules are tried before the built-in table.
func TestDefaultLibraryCustomRulesShadowBuiltins(t *testing.T) {
	path := writeRulesFile(t, `
rules:
  - name: our-npe
    signature: NullPointerException
    title: Known NPE in the checkout flow
    remediation: See runbook page for checkout NPEs.
    confidence: 1.0
`)

	lib, err := DefaultLibrary(path, nil)
	if err != nil {
		t.Fatalf("DefaultLibrary: %v", err)
	}
	if lib.Len() != len(BuiltinRules())+1 {
		t.Errorf("Len() = %d, want %d", lib.Len(), len(BuiltinRules())+1)
	}

	v := lib.Classify(record("java.lang.NullPointerException: boom"))
	if v.Rule != "our-npe" {
		t.Errorf("Rule = %q, want custom rule to shadow the builtin", v.Rule)
	}
}

// TestDefaultLibrarySkipsBadCustomEntries verifies a malformed custom entry
// does not abort loading: the rest of the table still works.
func TestDefaultLibrarySkipsBadCustomEntries(t *testing.T) {
	path := writeRulesFile(t, `
rules:
  - name: broken
    signature: "(["
    title: Broken
  - name: usable
    signature: WidgetOverflowException
    title: Widget overflow
    confidence: 0.9
`)

	log := &collectingLogger{}
	lib, err := DefaultLibrary(path, log)
	if err != nil {
		t.Fatalf("DefaultLibrary: %v", err)
	}
	if len(log.warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(log.warnings), log.warnings)
	}
	if v := lib.Classify(record("com.example.WidgetOverflowException: too many widgets")); v.Rule != "usable" {
		t.Errorf("Rule = %q, want usable", v.Rule)
	}
}
