package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/isaac-sh/isaac/internal/config"
	"github.com/isaac-sh/isaac/internal/shell"
	"github.com/isaac-sh/isaac/internal/tier"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Isaac status - config, tier rules, shell and audit log",
	Long: `Check how Isaac is set up: which config file and tier rules are in use,
which shell interpreter runs commands, and whether the audit log exists.

  isaac status`,
	RunE: statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), cfg, loadClassifier(cfg), shell.NewAdapter(shell.WithTimeout(cfg.ShellTimeout)))
	return nil
}

func printStatus(w io.Writer, cfg *config.Config, c *tier.Classifier, sh *shell.Adapter) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, "  Isaac Status")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}
	fmt.Fprintf(w, "  Binary:    %s (%s)\n", binPath, Version)
	fmt.Fprintf(w, "  Config:    %s\n", cfg.ConfigDir)
	if cfg.ConfigFile != "" {
		fmt.Fprintf(w, "  File:      %s\n", cfg.ConfigFile)
	} else {
		fmt.Fprintln(w, "  File:      none (defaults and ISAAC_* environment)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "─── Tier Rules ────────────────────────────────────────")
	switch {
	case c.Source() == tier.SourceFile:
		fmt.Fprintf(w, "  ✅ %s (%d aliases)\n", cfg.RulesPath, c.Rules().Len())
	case c.LoadError() != nil && !os.IsNotExist(c.LoadError()):
		fmt.Fprintf(w, "  ⚠  %s unusable, built-in rules active: %v\n", cfg.RulesPath, c.LoadError())
	default:
		fmt.Fprintf(w, "  ⬚  %s not found, built-in rules active\n", cfg.RulesPath)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "─── Shell ─────────────────────────────────────────────")
	if sh.IsAvailable() {
		fmt.Fprintf(w, "  ✅ %s (timeout %s)\n", sh.Name(), cfg.ShellTimeout)
	} else {
		fmt.Fprintf(w, "  ❌ %s not found on PATH\n", sh.Name())
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "─── Audit Log ─────────────────────────────────────────")
	checkAuditLog(w, cfg)
	fmt.Fprintln(w)
}

func checkAuditLog(w io.Writer, cfg *config.Config) {
	if !cfg.Audit {
		fmt.Fprintln(w, "  ⬚  disabled")
		return
	}
	info, err := os.Stat(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(w, "  ⬚  %s: no entries yet\n", cfg.LogPath)
		return
	}
	fmt.Fprintf(w, "  ✅ %s (%.1f KB)\n", cfg.LogPath, float64(info.Size())/1024)
}
