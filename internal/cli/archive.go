package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packentu/gumarchive/internal/logger"
)

// NewArchiveCmd creates the archive command.
func NewArchiveCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive all purchased products",
		Long: `Archive every purchased product of the configured library into the
output directory. Runs are idempotent: files whose size still matches the
remote are skipped, so a rerun only transfers what changed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runArchive(cmd, outputDir)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory (defaults to config)")

	return cmd
}

func runArchive(cmd *cobra.Command, outputDir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outputDir, err = resolveOutputDir(outputDir, cfg)
	if err != nil {
		return err
	}

	orch, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}

	counters, err := orch.Run(cmd.Context(), orchestratorOptions(cfg, outputDir))
	if err != nil {
		return fmt.Errorf("archive run failed: %w", err)
	}

	logger.Infof("Total downloads: %d files, %d bytes", counters.FilesDownloaded, counters.BytesRead)
	logger.Infof("Total skipped: %d files, %d bytes", counters.FilesSkipped, counters.BytesSkipped)
	return nil
}
