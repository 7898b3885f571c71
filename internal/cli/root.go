package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	rulesPath    string
	logPath      string
	shellTimeout time.Duration
	noAudit      bool
)

var rootCmd = &cobra.Command{
	Use:   "isaac",
	Short: "Isaac - command router with safety tiers",
	Long: `Isaac routes each line you type to the right handler: shell pipelines,
directory changes, configuration, device routing, AI task and agent modes,
and plain shell commands. Shell commands are classified into safety tiers
first; lockdown-tier commands are never executed.

Run without a subcommand to start the interactive shell.`,
	SilenceUsage: true,
	RunE:         shellCommand,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to tier rules YAML file (default: ~/.isaac/tier_defaults.yaml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to audit log file (default: ~/.isaac/audit.jsonl)")
	rootCmd.PersistentFlags().DurationVar(&shellTimeout, "timeout", 0, "Shell command timeout (default: 30s)")
	rootCmd.PersistentFlags().BoolVar(&noAudit, "no-audit", false, "Do not write routed commands to the audit log")
	registerShellFlags(rootCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
