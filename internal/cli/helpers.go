package cli

import (
	"fmt"

	"github.com/packentu/gumarchive/internal/logger"
	"github.com/packentu/gumarchive/pkg/config"
	"github.com/packentu/gumarchive/pkg/download"
	"github.com/packentu/gumarchive/pkg/errors"
	"github.com/packentu/gumarchive/pkg/fetch"
	"github.com/packentu/gumarchive/pkg/orchestrator"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
)

// loadConfig loads the configuration, overlays the session cookies from the
// environment and applies the CLI flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		defaultPath, pathErr := config.GetDefaultConfigPath()
		if pathErr != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", pathErr)
		}
		cfg, err = config.LoadConfig(defaultPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.LoadSessionFromEnv()

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel)

	return cfg, nil
}

// buildOrchestrator creates the fetch client, the download engine and the
// orchestrator from the configuration.
func buildOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	if !cfg.HasSession() {
		return nil, fmt.Errorf("set %s and %s from your browser cookies: %w",
			config.EnvAppSession, config.EnvGUID, errors.ErrMissingSession)
	}

	client, err := fetch.NewClient(cfg.Session.AppSession, cfg.Session.GUID,
		cfg.Settings.UserAgent, cfg.Settings.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	engine := download.NewManager(client)
	return orchestrator.New(client, engine), nil
}

// resolveOutputDir picks the output directory from the flag or the config.
func resolveOutputDir(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Settings.OutputDir != "" {
		return cfg.Settings.OutputDir, nil
	}
	return "", fmt.Errorf("no output directory configured, pass --output or set settings.output_dir: %w",
		errors.ErrInvalidPath)
}
