package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"montage/project"
	"montage/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Project snapshot database",
	Long:  "Save project files as snapshots in the database at db.path and get them back.",
}

var saveCmd = &cobra.Command{
	Use:   "save <project.xml>",
	Short: "Save a project as a new snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSaveCommand,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runListCommand,
}

var loadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Write the newest snapshot of a project to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoadCommand,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <snapshot-id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteCommand,
}

var (
	saveName   string
	loadOutput string
)

func init() {
	storeCmd.AddCommand(saveCmd)
	storeCmd.AddCommand(listCmd)
	storeCmd.AddCommand(loadCmd)
	storeCmd.AddCommand(deleteCmd)

	saveCmd.Flags().StringVarP(&saveName, "name", "n", "", "Snapshot name (defaults to the project name)")
	loadCmd.Flags().StringVarP(&loadOutput, "output", "o", "", "Output filename (defaults to <name>.xml)")
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	s, err := store.Open(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(cmd.Context()); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func runSaveCommand(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	name := saveName
	if name == "" {
		name = doc.Name
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Save(cmd.Context(), name, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s as %s\n", name, snap.ID)
	return nil
}

func runListCommand(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	snaps, err := s.List(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshots")
		return nil
	}
	for _, snap := range snaps {
		fmt.Fprintf(out, "%s  %-20s %8d bytes  %s\n", snap.ID, snap.Name, snap.Size, snap.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func runLoadCommand(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.Latest(cmd.Context(), args[0], documentOptions()...)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	filename := loadOutput
	if filename == "" {
		filename = args[0]
	}
	if !strings.EqualFold(filepath.Ext(filename), ".xml") {
		filename += ".xml"
	}
	if err := project.Save(doc, filename); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filename)
	return nil
}

func runDeleteCommand(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
