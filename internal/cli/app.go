package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/isaac-sh/isaac/internal/assist"
	"github.com/isaac-sh/isaac/internal/config"
	"github.com/isaac-sh/isaac/internal/devices"
	"github.com/isaac-sh/isaac/internal/logger"
	"github.com/isaac-sh/isaac/internal/router"
	"github.com/isaac-sh/isaac/internal/session"
	"github.com/isaac-sh/isaac/internal/settings"
	"github.com/isaac-sh/isaac/internal/shell"
	"github.com/isaac-sh/isaac/internal/tier"
)

// app holds everything a routing command needs.
type app struct {
	cfg        *config.Config
	session    *session.Manager
	shell      *shell.Adapter
	classifier *tier.Classifier
	devices    *devices.Router
	audit      *logger.AuditLogger
	router     *router.Router
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Overrides{
		RulesPath:    rulesPath,
		LogPath:      logPath,
		ShellTimeout: shellTimeout,
		NoAudit:      noAudit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadClassifier builds the classifier and warns when an existing rule file
// could not be used. A missing file is the normal case and stays silent.
func loadClassifier(cfg *config.Config) *tier.Classifier {
	c := tier.NewClassifier(cfg.RulesPath)
	if err := c.LoadError(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load tier rules from %s: %v (using built-in rules)\n", cfg.RulesPath, err)
	}
	return c
}

func newApp(opts ...router.Option) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		session:    session.New(),
		shell:      shell.NewAdapter(shell.WithTimeout(cfg.ShellTimeout)),
		classifier: loadClassifier(cfg),
	}
	a.devices = devices.NewRouter(a.shell)

	if cfg.Audit {
		a.audit, err = logger.New(cfg.LogPath, logger.WithIdentity(a.session.UserID(), a.session.ID()))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit logger: %w", err)
		}
	}

	var offline assist.Offline
	base := []router.Option{
		router.WithClassifier(a.classifier),
		router.WithConfigStore(settings.New(cfg.Settings)),
		router.WithDeviceRouter(a.devices),
		router.WithTaskPlanner(offline),
		router.WithAgentRunner(offline),
		router.WithAssistant(offline),
	}
	if a.audit != nil {
		base = append(base, router.WithObserver(a.audit))
	}
	a.router = router.New(a.session, a.shell, append(base, opts...)...)
	return a, nil
}

func (a *app) Close() {
	if a.audit != nil {
		_ = a.audit.Close()
	}
}
