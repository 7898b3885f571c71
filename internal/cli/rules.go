package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isaac-sh/isaac/internal/tier"
)

var rulesInit bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the active tier rule table",
	Long: `Print the tier rule table in use and where it was loaded from.

  isaac rules
  isaac rules --init     # write the built-in table to the rules path`,
	RunE: rulesCommand,
}

func init() {
	rulesCmd.Flags().BoolVar(&rulesInit, "init", false, "Write the built-in rule table to the rules path if no file exists")
	rootCmd.AddCommand(rulesCmd)
}

func rulesCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if rulesInit {
		if err := writeDefaultRules(cfg.RulesPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote built-in tier rules to %s\n", cfg.RulesPath)
	}

	printRules(cmd.OutOrStdout(), loadClassifier(cfg), cfg.RulesPath)
	return nil
}

func writeDefaultRules(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("rules file %s already exists", path)
	}
	data, err := tier.DefaultRules().Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write rules: %w", err)
	}
	return nil
}

func printRules(w io.Writer, c *tier.Classifier, path string) {
	rules := c.Rules()
	switch c.Source() {
	case tier.SourceFile:
		fmt.Fprintf(w, "Source: %s (%d aliases)\n", path, rules.Len())
	default:
		fmt.Fprintf(w, "Source: built-in (%d aliases)\n", rules.Len())
	}
	for _, t := range tier.All {
		aliases := rules.Aliases(t)
		if len(aliases) == 0 {
			continue
		}
		fmt.Fprintf(w, "  Tier %-4s %-9s %s\n", t, t.Name(), strings.Join(aliases, ", "))
	}
	fmt.Fprintln(w, "  Anything else resolves to tier 3 (validate).")
}
