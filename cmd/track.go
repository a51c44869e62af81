package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"montage/project"
	"montage/timeline"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Project file and track commands",
	Long:  "Commands for creating, inspecting and verifying timeline project files.",
}

var newCmd = &cobra.Command{
	Use:   "new <project.xml>",
	Short: "Create an empty project file",
	Long:  "Create a project with one video and one sound track at the configured frame rate.",
	Args:  cobra.ExactArgs(1),
	RunE:  runNewCommand,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <project.xml>",
	Short: "List tracks and clips of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspectCommand,
}

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <project.xml>",
	Short: "Check that a project survives a save and reload",
	Long: `Load a project, write it back out, load the result again and compare the
two. With --output the rewritten project is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoundtripCommand,
}

var snapsCmd = &cobra.Command{
	Use:   "snaps <project.xml>",
	Short: "Print the snap points of a project",
	Long: `Print every snap point in frames. With --at, print the snap point nearest to
that frame within the configured tolerance.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapsCommand,
}

var (
	newName         string
	roundtripOutput string
	snapAt          int
)

func init() {
	trackCmd.AddCommand(newCmd)
	trackCmd.AddCommand(inspectCmd)
	trackCmd.AddCommand(roundtripCmd)
	trackCmd.AddCommand(snapsCmd)

	newCmd.Flags().StringVarP(&newName, "name", "n", "", "Project name (defaults to the file name)")
	roundtripCmd.Flags().StringVarP(&roundtripOutput, "output", "o", "", "Write the rewritten project here")
	snapsCmd.Flags().IntVar(&snapAt, "at", -1, "Frame to snap")
}

func runNewCommand(cmd *cobra.Command, args []string) error {
	path := args[0]
	name := newName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	rate, err := cfg.Rate()
	if err != nil {
		return err
	}

	doc := project.New(name, rate, documentOptions()...)
	doc.AddTrack(timeline.KindVideo)
	doc.AddTrack(timeline.KindSound)
	if err := project.Save(doc, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s fps)\n", path, rate)
	return nil
}

func runInspectCommand(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Project: %s\n", doc.Name)
	fmt.Fprintf(out, "Frame rate: %s\n", doc.FramesPerSecond())
	fmt.Fprintf(out, "Length: %s\n", doc.Length())
	fmt.Fprintf(out, "Media: %d\n", doc.Media.Len())
	fmt.Fprintf(out, "Markers: %d\n", doc.Markers.Len())

	for i, t := range doc.Tracks.Tracks() {
		fmt.Fprintf(out, "Track %d (%s): %d clips, length %s\n", i, t.Kind(), t.NumClips(), t.Length())
		for c := range t.All() {
			mark := " "
			if t.IsSelected(c) {
				mark = "*"
			}
			fmt.Fprintf(out, "  %s %s %s [%s, %s) crop %s+%s\n",
				mark, c.ID(), c.Media().ID, c.TrackStart(), c.TrackEnd(), c.CropStart(), c.CropDuration())
		}
	}
	return nil
}

func runRoundtripCommand(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	data, err := project.Marshal(doc)
	if err != nil {
		return err
	}
	reloaded, err := project.Unmarshal(data, documentOptions()...)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if !reloaded.MatchesXML(doc.ToXML()) {
		return fmt.Errorf("%s does not survive a round trip", args[0])
	}

	if roundtripOutput != "" {
		if err := project.Save(reloaded, roundtripOutput); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d tracks, %d clips\n", doc.Tracks.Len(), len(doc.Clips()))
	return nil
}

func runSnapsCommand(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if snapAt >= 0 {
		frame, ok := doc.NearestSnap(snapAt, cfg.Snap.Tolerance)
		if !ok {
			fmt.Fprintf(out, "No snap point within %d frames of %d\n", cfg.Snap.Tolerance, snapAt)
			return nil
		}
		fmt.Fprintf(out, "%d\n", frame)
		return nil
	}

	points := doc.Snaps.Points()
	strs := make([]string, len(points))
	for i, p := range points {
		strs[i] = fmt.Sprint(p)
	}
	fmt.Fprintln(out, strings.Join(strs, " "))
	return nil
}
