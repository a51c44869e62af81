package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"montage/fcp"
)

var fcpCmd = &cobra.Command{
	Use:   "fcp",
	Short: "FCPXML export tools",
	Long: `FCPXML tools for moving projects into Final Cut Pro.

Use 'montage fcp --help' to see all available subcommands.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when called without subcommands
		cmd.Help()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <project.xml>",
	Short: "Export a project as FCPXML",
	Long: `Export a project to an FCPXML 1.11 file. The first video track becomes the
primary storyline; the other tracks are connected clips on their own lanes.`,
	Args: cobra.ExactArgs(1),
	RunE: runExportCommand,
}

var describeCmd = &cobra.Command{
	Use:   "describe <file.fcpxml>",
	Short: "Summarize an FCPXML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ml, err := fcp.ParseFCPXML(args[0])
		if err != nil {
			return err
		}
		fcp.Describe(cmd.OutOrStdout(), ml)
		return nil
	},
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output filename (defaults to the project name with .fcpxml)")

	fcpCmd.AddCommand(exportCmd)
	fcpCmd.AddCommand(describeCmd)
}

func runExportCommand(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	filename := exportOutput
	if filename == "" {
		filename = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".fcpxml") {
		filename += ".fcpxml"
	}

	ml, err := fcp.Export(doc)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := fcp.WriteToFile(ml, filename); err != nil {
		return err
	}
	logger.Info("exported project", "project", doc.Name, "output", filename, "assets", len(ml.Resources.Assets))
	fmt.Fprintf(cmd.OutOrStdout(), "Generated FCPXML: %s\n", filename)
	return nil
}
