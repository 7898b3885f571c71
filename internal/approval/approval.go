// Package approval asks the operator to confirm a command before the shell
// REPL routes it.
package approval

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/isaac-sh/isaac/internal/tier"
)

type Result struct {
	Approved   bool
	UserAction string
}

type Prompt struct {
	Command string
	Tier    tier.Tier
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Ask prints p to out and reads the answer from in. A read error or EOF
// denies the command.
func Ask(p Prompt, in *bufio.Reader, out io.Writer) Result {
	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "Isaac > Tier %s (%s) command: %s\n", p.Tier, p.Tier.Name(), p.Command)
	fmt.Fprintln(out, "  [a] Approve once - execute this command")
	fmt.Fprintln(out, "  [d] Deny - skip this command")

	for {
		fmt.Fprint(out, "Your choice [a/d]: ")
		input, err := in.ReadString('\n')
		if err != nil && input == "" {
			return Result{
				Approved:   false,
				UserAction: "error_reading_input",
			}
		}

		input = strings.TrimSpace(strings.ToLower(input))

		switch input {
		case "a", "approve", "yes", "y":
			return Result{
				Approved:   true,
				UserAction: "approve_once",
			}
		case "d", "deny", "no", "n":
			return Result{
				Approved:   false,
				UserAction: "deny",
			}
		default:
			if err != nil {
				return Result{Approved: false, UserAction: "error_reading_input"}
			}
			fmt.Fprintln(out, "Invalid input. Please enter 'a' to approve or 'd' to deny.")
		}
	}
}
