package tier

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier is the safety classification of a shell command. Lower is less risky.
type Tier float64

const (
	Instant  Tier = 1
	Safe     Tier = 2
	Confirm  Tier = 2.5
	Validate Tier = 3
	Lockdown Tier = 4
)

// All lists the valid tiers in ascending order. Rule tables are scanned in
// this order.
var All = []Tier{Instant, Safe, Confirm, Validate, Lockdown}

// ParseTier converts a rule-file label into a Tier. Only the labels "1",
// "2", "2.5", "3" and "4" are accepted; surrounding whitespace is ignored.
func ParseTier(label string) (Tier, error) {
	trimmed := strings.TrimSpace(label)
	for _, t := range All {
		if trimmed == t.String() {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", label)
}

// Valid reports whether t is one of the five known tiers.
func (t Tier) Valid() bool {
	switch t {
	case Instant, Safe, Confirm, Validate, Lockdown:
		return true
	default:
		return false
	}
}

// String returns the rule-file label for t.
func (t Tier) String() string {
	return strconv.FormatFloat(float64(t), 'f', -1, 64)
}

// Name returns the human name of the tier.
func (t Tier) Name() string {
	switch t {
	case Instant:
		return "instant"
	case Safe:
		return "safe"
	case Confirm:
		return "confirm"
	case Validate:
		return "validate"
	case Lockdown:
		return "lockdown"
	default:
		return "unknown"
	}
}

// Source identifies where a classifier's rule table came from.
type Source string

const (
	SourceFile    Source = "file"
	SourceBuiltin Source = "builtin"
)
