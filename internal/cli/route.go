package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isaac-sh/isaac/internal/router"
)

var routeCmd = &cobra.Command{
	Use:   "route [flags] -- <input...>",
	Short: "Route a single line through Isaac",
	Long: `Route one line of input exactly as the interactive shell would, print the
result and exit with its exit code. The input should be provided after --.

Example:
  isaac route -- ls -la
  isaac route -- "/config set editor vim"
  isaac route -- "rm -rf /"     # blocked, exits non-zero`,
	RunE: routeCommand,
}

func init() {
	rootCmd.AddCommand(routeCmd)
}

func routeCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no input provided. Usage: isaac route -- <input...>")
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	result := a.router.Route(strings.Join(args, " "))
	printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result)
	a.Close()

	if code := exitCodeFor(result); code != 0 {
		os.Exit(code)
	}
	return nil
}

// exitCodeFor maps a result onto a process exit status. Negative codes
// (blocked or not runnable) become 1.
func exitCodeFor(result router.CommandResult) int {
	switch {
	case result.ExitCode > 0:
		return result.ExitCode
	case !result.Success:
		return 1
	default:
		return 0
	}
}
