package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"montage/config"
	"montage/project"
)

var (
	configPath string
	cfg        config.Config
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "montage",
	Short: "Inspect, edit and export timeline projects",
	Long: `Montage works with timeline project files: multi-track edits of media clips
with markers and snapping. It can inspect and verify project files, export them
to FCPXML for Final Cut Pro and keep saved snapshots in a local database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = cfg.Logger()
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// documentOptions applies the loaded configuration to opened projects.
func documentOptions() []project.Option {
	return []project.Option{
		project.WithLogger(logger),
		project.WithLegacySoundOverlap(cfg.Timeline.LegacySoundOverlap),
	}
}

func loadDocument(path string) (*project.Document, error) {
	doc, err := project.Load(path, documentOptions()...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("loaded project", "path", path, "tracks", doc.Tracks.Len(), "clips", len(doc.Clips()))
	return doc, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML, or TOML with a .toml extension)")

	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(fcpCmd)
	rootCmd.AddCommand(storeCmd)
}
