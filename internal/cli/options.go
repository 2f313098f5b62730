package cli

import (
	"github.com/packentu/gumarchive/pkg/config"
	"github.com/packentu/gumarchive/pkg/orchestrator"
)

// orchestratorOptions maps the configuration onto run options.
func orchestratorOptions(cfg *config.Config, outputDir string) orchestrator.Options {
	return orchestrator.Options{
		OutputDir:  outputDir,
		LibraryURL: cfg.Platform.LibraryURL,
		BaseURL:    cfg.Platform.BaseURL,
		Domain:     cfg.Platform.Domain,
	}
}
