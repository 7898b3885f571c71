package tier

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleTable maps each tier to the base-command aliases that belong to it.
// A table is never modified after construction.
type RuleTable struct {
	aliases map[Tier][]string
}

// NewRuleTable builds a table from a tier -> aliases mapping. Aliases are
// copied; empty aliases are rejected.
func NewRuleTable(m map[Tier][]string) (RuleTable, error) {
	if len(m) == 0 {
		return RuleTable{}, errors.New("rule table is empty")
	}
	aliases := make(map[Tier][]string, len(m))
	for t, list := range m {
		if !t.Valid() {
			return RuleTable{}, fmt.Errorf("unknown tier %s", t)
		}
		cp := make([]string, 0, len(list))
		for _, a := range list {
			a = strings.TrimSpace(a)
			if a == "" {
				return RuleTable{}, fmt.Errorf("tier %s: empty alias", t)
			}
			cp = append(cp, a)
		}
		aliases[t] = cp
	}
	return RuleTable{aliases: aliases}, nil
}

// Aliases returns a copy of the aliases registered for t.
func (r RuleTable) Aliases(t Tier) []string {
	list := r.aliases[t]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Lookup returns the first tier, scanning in ascending order, whose aliases
// contain base case-insensitively. Overlapping aliases therefore resolve to
// the lowest tier that lists them.
func (r RuleTable) Lookup(base string) (Tier, bool) {
	for _, t := range All {
		for _, alias := range r.aliases[t] {
			if strings.EqualFold(alias, base) {
				return t, true
			}
		}
	}
	return 0, false
}

// Len returns the total number of aliases in the table.
func (r RuleTable) Len() int {
	n := 0
	for _, list := range r.aliases {
		n += len(list)
	}
	return n
}

// LoadRules reads a rule resource: a YAML (or JSON) mapping of tier label to
// a list of aliases, for example
//
//	"1": [ls, pwd]
//	"2.5": [find, sed]
func LoadRules(path string) (RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleTable{}, err
	}
	return ParseRules(data)
}

// ParseRules parses rule resource content. See LoadRules for the format.
func ParseRules(data []byte) (RuleTable, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RuleTable{}, fmt.Errorf("parse rules: %w", err)
	}

	m := make(map[Tier][]string, len(raw))
	for label, list := range raw {
		t, err := ParseTier(label)
		if err != nil {
			return RuleTable{}, err
		}
		m[t] = append(m[t], list...)
	}
	return NewRuleTable(m)
}

// Marshal encodes the table in the rule resource format.
func (r RuleTable) Marshal() ([]byte, error) {
	raw := make(map[string][]string, len(r.aliases))
	for t, list := range r.aliases {
		raw[t.String()] = list
	}
	return yaml.Marshal(raw)
}

// DefaultRules returns the built-in table used whenever the rule resource
// cannot be read or parsed.
func DefaultRules() RuleTable {
	return RuleTable{aliases: map[Tier][]string{
		Instant: {
			"ls", "cd", "clear", "cls", "pwd", "echo", "cat", "type",
			"Get-ChildItem", "Set-Location", "Get-Location",
		},
		Safe: {
			"grep", "Select-String", "head", "tail", "sort", "uniq",
		},
		Confirm: {
			"find", "sed", "awk", "Where-Object", "ForEach-Object",
		},
		Validate: {
			"cp", "mv", "git", "npm", "pip", "reset",
			"Copy-Item", "Move-Item", "New-Item", "Remove-Item",
		},
		Lockdown: {
			"rm", "del", "format", "dd", "Remove-Item", "Format-Volume", "Clear-Disk",
		},
	}}
}
