package tier

import (
	"strings"
)

// Classifier maps command strings to safety tiers using a rule table loaded
// once at construction. It is safe for concurrent use.
type Classifier struct {
	rules   RuleTable
	source  Source
	loadErr error
}

// NewClassifier loads the rule resource at path. Any read or parse failure,
// including an empty path, falls back to DefaultRules; the two sources are
// never merged.
func NewClassifier(path string) *Classifier {
	if path == "" {
		return &Classifier{rules: DefaultRules(), source: SourceBuiltin}
	}
	rules, err := LoadRules(path)
	if err != nil {
		return &Classifier{rules: DefaultRules(), source: SourceBuiltin, loadErr: err}
	}
	return &Classifier{rules: rules, source: SourceFile}
}

// NewClassifierFromTable wraps an already built table.
func NewClassifierFromTable(rules RuleTable) *Classifier {
	return &Classifier{rules: rules, source: SourceFile}
}

// Source reports which table the classifier uses.
func (c *Classifier) Source() Source {
	return c.source
}

// LoadError returns the error that caused the fallback to the built-in
// table, or nil.
func (c *Classifier) LoadError() error {
	return c.loadErr
}

// Rules returns the active rule table.
func (c *Classifier) Rules() RuleTable {
	return c.rules
}

// Classify returns the tier of command. Empty input and unknown base
// commands resolve to Validate.
func (c *Classifier) Classify(command string) Tier {
	base := BaseCommand(command)
	if base == "" {
		return Validate
	}
	if t, ok := c.rules.Lookup(base); ok {
		return t
	}
	return Validate
}

// IsSafe reports whether command is tier 2 or lower.
func (c *Classifier) IsSafe(command string) bool {
	return c.Classify(command) <= Safe
}

// RequiresConfirmation reports whether command is exactly tier 2.5.
func (c *Classifier) RequiresConfirmation(command string) bool {
	return c.Classify(command) == Confirm
}

// RequiresValidation reports whether command is tier 3 or higher.
func (c *Classifier) RequiresValidation(command string) bool {
	return c.Classify(command) >= Validate
}

// BaseCommand returns the first whitespace-delimited token of command,
// lower-cased.
func BaseCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
