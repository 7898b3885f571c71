package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/isaac-sh/isaac/internal/router"
	"github.com/isaac-sh/isaac/internal/session"
	"github.com/isaac-sh/isaac/internal/settings"
	"github.com/isaac-sh/isaac/internal/shell"
	"github.com/isaac-sh/isaac/internal/tier"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Self-test - verify routing and tier enforcement with the active rules",
	Long: `Run a quick diagnostic that routes a set of known inputs through a router
built with the active tier rules. No commands are actually executed: a dry-run
shell records what would have been run.

  isaac scan`,
	RunE: scanCommand,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

type scanCase struct {
	label    string
	input    string
	strategy string
	// reaches reports whether the input must reach the shell.
	reaches bool
}

var scanCases = []scanCase{
	{"Destructive rm", "rm -rf /", "tier", false},
	{"Disk wipe", "dd if=/dev/zero of=/dev/sda", "tier", false},
	{"Windows delete", "del C:\\Windows", "tier", false},
	{"Safe listing", "ls -la", "tier", true},
	{"Unknown command", "some-unknown-tool --flag", "tier", true},
	{"Pipeline", "cat go.mod | wc -l", "pipe", true},
	{"Change directory", "cd /tmp", "cd", true},
	{"Forced command", "!echo forced", "force", true},
	{"Config", "/config set scan yes", "config", false},
	{"Meta", "/status", "meta", false},
	{"Exit", "exit", "exit", false},
	{"Task mode", "isaac task: write tests", "task", false},
}

// dryRun records commands instead of running them.
type dryRun struct {
	mu    sync.Mutex
	calls []string
}

func (d *dryRun) Execute(command string) shell.Result {
	return d.ExecuteWithTimeout(command, shell.DefaultTimeout)
}

func (d *dryRun) ExecuteWithTimeout(command string, _ time.Duration) shell.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, command)
	return shell.Ok("")
}

func (d *dryRun) reset() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.calls)
	d.calls = nil
	return n
}

func scanCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if failed := runScan(cmd.OutOrStdout(), loadClassifier(cfg)); failed > 0 {
		os.Exit(1)
	}
	return nil
}

// runScan prints one line per case and returns the number of failures.
func runScan(w io.Writer, c *tier.Classifier) int {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, "  Isaac Self-Test")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  Rules: %s\n\n", c.Source())

	sh := &dryRun{}
	r := router.New(session.NewWithUser("scan"), sh,
		router.WithClassifier(c),
		router.WithConfigStore(settings.New(nil)),
	)

	pass, fail := 0, 0
	for _, tc := range scanCases {
		s := r.Match(tc.input)
		r.Route(tc.input)
		reached := sh.reset() > 0

		ok := s != nil && s.Name() == tc.strategy && reached == tc.reaches
		icon := "\xe2\x9c\x85" // check mark
		if !ok {
			icon = "\xe2\x9d\x8c" // cross mark
			fail++
		} else {
			pass++
		}

		name := "<none>"
		if s != nil {
			name = s.Name()
		}
		fmt.Fprintf(w, "  %s  %-18s  %-30s -> %s (tier %s, shell=%v)\n",
			icon, tc.label, tc.input, name, c.Classify(tc.input), reached)
	}

	fmt.Fprintf(w, "\n  %d/%d passed\n", pass, len(scanCases))
	if fail > 0 {
		fmt.Fprintln(w, "  Some checks failed: review your tier rules file.")
	}
	return fail
}
