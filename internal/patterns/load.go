package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rulesFile is the YAML shape of a custom rules file:
//
//	rules:
//	  - name: my-rule
//	    signature: MyServiceException
//	    title: ...
//	    description: ...
//	    remediation: ...
//	    confidence: 0.9
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRulesFile reads extra pattern rules from a YAML file. The entries are
// returned in file order, unvalidated; NewLibrary applies the same
// validate-and-skip policy to them as to the built-ins.
//
// A missing path is not an error and yields no rules.
func LoadRulesFile(path string) ([]Rule, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	return rf.Rules, nil
}

// DefaultLibrary builds the effective rule table: custom rules first (so
// user signatures can shadow the built-ins), then BuiltinRules. Malformed
// entries are logged through log and skipped.
func DefaultLibrary(customRulesPath string, log warnLogger) (*Library, error) {
	custom, err := LoadRulesFile(customRulesPath)
	if err != nil {
		return nil, err
	}
	return NewLibrary(append(custom, BuiltinRules()...), log), nil
}
