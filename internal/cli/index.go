package cli

import (
	"github.com/spf13/cobra"

	"github.com/packentu/gumarchive/internal/logger"
	"github.com/packentu/gumarchive/pkg/indexgen"
)

// NewIndexCmd creates the index command.
func NewIndexCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Generate a browsable index.html over an archived library",
		Long: `Generate index.html in the output directory from the metadata persisted
by a previous archive run. Works entirely offline.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runIndex(outputDir)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory (defaults to config)")

	return cmd
}

func runIndex(outputDir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outputDir, err = resolveOutputDir(outputDir, cfg)
	if err != nil {
		return err
	}

	if err := indexgen.New().Generate(outputDir); err != nil {
		return err
	}
	logger.Success("Index generated", logger.Fields{"dir": outputDir})
	return nil
}
