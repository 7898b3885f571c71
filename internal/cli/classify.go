package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isaac-sh/isaac/internal/tier"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <command...>",
	Short: "Show the safety tier of a command without running it",
	Long: `Classify a shell command against the active tier rules. Nothing is executed.

Example:
  isaac classify git push origin main
  isaac classify --rules ./tiers.yaml -- rm -rf build/`,
	Args: cobra.MinimumNArgs(1),
	RunE: classifyCommand,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func classifyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	printClassification(cmd.OutOrStdout(), loadClassifier(cfg), strings.Join(args, " "))
	return nil
}

func printClassification(w io.Writer, c *tier.Classifier, command string) {
	t := c.Classify(command)
	fmt.Fprintf(w, "Command:   %s\n", command)
	fmt.Fprintf(w, "Base:      %s\n", tier.BaseCommand(command))
	fmt.Fprintf(w, "Tier:      %s (%s)\n", t, t.Name())
	fmt.Fprintf(w, "Safe:      %v\n", c.IsSafe(command))
	fmt.Fprintf(w, "Confirm:   %v\n", c.RequiresConfirmation(command))
	fmt.Fprintf(w, "Validate:  %v\n", c.RequiresValidation(command))
	fmt.Fprintf(w, "Rules:     %s\n", c.Source())
}
