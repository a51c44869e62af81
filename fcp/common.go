package fcp

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Marshal encodes ml with the XML header and the FCPXML doctype.
func Marshal(ml *FCPXML) ([]byte, error) {
	output, err := xml.MarshalIndent(ml, "", "    ")
	if err != nil {
		return nil, err
	}
	xmlContent := xml.Header + "<!DOCTYPE fcpxml>\n" + string(output) + "\n"
	return []byte(xmlContent), nil
}

// WriteToFile marshals ml and writes it to path.
func WriteToFile(ml *FCPXML, path string) error {
	data, err := Marshal(ml)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Parse decodes an FCPXML document.
func Parse(data []byte) (*FCPXML, error) {
	var fcpxml FCPXML
	if err := xml.Unmarshal(data, &fcpxml); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return &fcpxml, nil
}

func ParseFCPXML(filePath string) (*FCPXML, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Describe writes a readable summary of fcpxml to w.
func Describe(w io.Writer, fcpxml *FCPXML) {
	fmt.Fprintf(w, "=== FCPXML File Analysis ===\n")
	fmt.Fprintf(w, "Version: %s\n\n", fcpxml.Version)

	fmt.Fprintf(w, "=== Resources ===\n")
	fmt.Fprintf(w, "Formats: %d\n", len(fcpxml.Resources.Formats))
	for i, format := range fcpxml.Resources.Formats {
		fmt.Fprintf(w, "  Format %d: %s (%s)\n", i+1, format.Name, format.ID)
		fmt.Fprintf(w, "    Resolution: %sx%s\n", format.Width, format.Height)
		fmt.Fprintf(w, "    Frame Duration: %s\n", format.FrameDuration)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Assets: %d\n", len(fcpxml.Resources.Assets))
	for i, asset := range fcpxml.Resources.Assets {
		fmt.Fprintf(w, "  Asset %d: %s (%s)\n", i+1, asset.Name, asset.ID)
		fmt.Fprintf(w, "    Duration: %s\n", asset.Duration)
		fmt.Fprintf(w, "    Type: %s\n", assetType(asset))
		fmt.Fprintf(w, "    Source: %s\n", asset.MediaRep.Src)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Effects: %d\n", len(fcpxml.Resources.Effects))
	for i, effect := range fcpxml.Resources.Effects {
		fmt.Fprintf(w, "  Effect %d: %s (%s)\n", i+1, effect.Name, effect.ID)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "=== Library Structure ===\n")
	for _, event := range fcpxml.Library.Events {
		fmt.Fprintf(w, "Event: %s\n", event.Name)
		for _, project := range event.Projects {
			fmt.Fprintf(w, "  Project: %s\n", project.Name)
			for _, sequence := range project.Sequences {
				fmt.Fprintf(w, "    Sequence: %s, format %s\n", sequence.Duration, sequence.Format)
				describeSpine(w, sequence.Spine, "      ")
			}
		}
	}
}

func assetType(asset Asset) string {
	var kinds []string
	if asset.HasVideo == "1" {
		kinds = append(kinds, "Video")
	}
	if asset.HasAudio == "1" {
		kinds = append(kinds, fmt.Sprintf("Audio (%s ch)", asset.AudioChannels))
	}
	if len(kinds) == 0 {
		return "none"
	}
	return strings.Join(kinds, " + ")
}

func describeSpine(w io.Writer, spine Spine, indent string) {
	for _, clip := range spine.AssetClips {
		describeClip(w, clip, indent)
	}
	for _, gap := range spine.Gaps {
		fmt.Fprintf(w, "%sGap: offset %s, duration %s\n", indent, gap.Offset, gap.Duration)
		for _, connected := range gap.Clips {
			describeClip(w, connected, indent+"  ")
		}
	}
}

func describeClip(w io.Writer, clip AssetClip, indent string) {
	if clip.Lane != "" {
		fmt.Fprintf(w, "%sAsset Clip (lane %s): %s\n", indent, clip.Lane, clip.Name)
	} else {
		fmt.Fprintf(w, "%sAsset Clip: %s\n", indent, clip.Name)
	}
	fmt.Fprintf(w, "%s  Reference: %s\n", indent, clip.Ref)
	fmt.Fprintf(w, "%s  Timeline: offset %s, duration %s\n", indent, clip.Offset, clip.Duration)
	if clip.Start != "" {
		fmt.Fprintf(w, "%s  Source start: %s\n", indent, clip.Start)
	}
	for _, filter := range clip.FilterVideos {
		fmt.Fprintf(w, "%s  Filter: %s\n", indent, filter.Name)
	}
	for _, connected := range clip.Clips {
		describeClip(w, connected, indent+"  ")
	}
}
