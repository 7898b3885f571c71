package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isaac-sh/isaac/internal/approval"
	"github.com/isaac-sh/isaac/internal/router"
	"github.com/isaac-sh/isaac/internal/tier"
)

var confirmTiers bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive Isaac shell",
	Long: `Read commands line by line and route each one. The prompt is only shown
when stdin is a terminal, so the shell can also be fed from a pipe:

  isaac shell
  printf 'ls\n/status\n' | isaac shell
  isaac shell --confirm     # ask before running tier 2.5+ shell commands`,
	RunE: shellCommand,
}

func registerShellFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&confirmTiers, "confirm", false, "Ask before running tier 2.5 and tier 3 shell commands (interactive only)")
}

func init() {
	registerShellFlags(shellCmd)
	rootCmd.AddCommand(shellCmd)
}

func shellCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	interactive := approval.IsInteractive(os.Stdin)
	r := &repl{
		router:      a.router,
		classifier:  a.classifier,
		prompt:      func() string { return "isaac:" + a.shell.Dir() + "> " },
		confirm:     confirmTiers && interactive,
		interactive: interactive,
		in:          bufio.NewReader(cmd.InOrStdin()),
		out:         cmd.OutOrStdout(),
		errOut:      cmd.ErrOrStderr(),
	}
	return r.run()
}

// repl reads one line at a time and routes it until EOF or an exit command.
type repl struct {
	router      *router.Router
	classifier  *tier.Classifier
	prompt      func() string
	confirm     bool
	interactive bool
	in          *bufio.Reader
	out         io.Writer
	errOut      io.Writer
}

func (r *repl) run() error {
	if r.interactive {
		fmt.Fprintln(r.out, "Isaac shell - type /help for commands, exit to quit")
	}

	for {
		if r.interactive {
			fmt.Fprint(r.out, r.prompt())
		}

		raw, readErr := r.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read input: %w", readErr)
		}

		line := strings.TrimSpace(raw)
		if line != "" {
			if r.approved(line) {
				printResult(r.out, r.errOut, r.router.Route(line))
			}
			if router.IsExitCommand(line) {
				return nil
			}
		}

		if readErr != nil {
			if r.interactive {
				fmt.Fprintln(r.out)
			}
			return nil
		}
	}
}

// approved asks for confirmation when the line would run through the tier
// strategy at tier 2.5 or 3. Lockdown commands are refused by the router.
func (r *repl) approved(line string) bool {
	if !r.confirm {
		return true
	}
	s := r.router.Match(line)
	if s == nil || s.Name() != "tier" {
		return true
	}
	t := r.classifier.Classify(line)
	if t < tier.Confirm || t >= tier.Lockdown {
		return true
	}

	res := approval.Ask(approval.Prompt{Command: line, Tier: t}, r.in, r.errOut)
	if !res.Approved {
		fmt.Fprintln(r.errOut, "Isaac > Command skipped")
	}
	return res.Approved
}

func printResult(out, errOut io.Writer, result router.CommandResult) {
	if result.Output == "" {
		return
	}
	w := out
	if !result.Success {
		w = errOut
	}
	fmt.Fprint(w, result.Output)
	if !strings.HasSuffix(result.Output, "\n") {
		fmt.Fprintln(w)
	}
}
