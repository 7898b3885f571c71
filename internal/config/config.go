package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".isaac"
	DefaultRulesFile  = "tier_defaults.yaml"
	DefaultLogFile    = "audit.jsonl"
	DefaultConfigName = "config"

	DefaultShellTimeout = 30 * time.Second

	envPrefix = "ISAAC"
)

type Config struct {
	RulesPath    string
	LogPath      string
	ConfigDir    string
	ConfigFile   string
	ShellTimeout time.Duration
	Audit        bool
	// Settings seeds the /config store.
	Settings map[string]any
}

// Overrides carries command-line values. Empty fields leave the file and
// environment values in place.
type Overrides struct {
	RulesPath    string
	LogPath      string
	ShellTimeout time.Duration
	NoAudit      bool
}

// Load resolves ~/.isaac, reads the optional config.yaml there (or the file
// named by ISAAC_CONFIG), applies ISAAC_* environment variables and finally
// the command-line overrides.
func Load(o Overrides) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := ensureDir(configDir); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	v := viper.New()
	v.SetDefault("rules", filepath.Join(configDir, DefaultRulesFile))
	v.SetDefault("log", filepath.Join(configDir, DefaultLogFile))
	v.SetDefault("shell_timeout", DefaultShellTimeout.String())
	v.SetDefault("audit", true)

	v.SetConfigType("yaml")
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(configDir)
		v.SetConfigName(DefaultConfigName)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	timeout := v.GetDuration("shell_timeout")
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid shell_timeout %q: must be a positive duration", v.GetString("shell_timeout"))
	}

	cfg := &Config{
		RulesPath:    expandHome(v.GetString("rules"), homeDir),
		LogPath:      expandHome(v.GetString("log"), homeDir),
		ConfigDir:    configDir,
		ConfigFile:   v.ConfigFileUsed(),
		ShellTimeout: timeout,
		Audit:        v.GetBool("audit"),
		Settings:     v.GetStringMap("settings"),
	}

	if o.RulesPath != "" {
		cfg.RulesPath = o.RulesPath
	}
	if o.LogPath != "" {
		cfg.LogPath = o.LogPath
	}
	if o.ShellTimeout > 0 {
		cfg.ShellTimeout = o.ShellTimeout
	}
	if o.NoAudit {
		cfg.Audit = false
	}

	return cfg, nil
}

func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
