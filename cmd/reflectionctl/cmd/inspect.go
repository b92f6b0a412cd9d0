package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/holmberd/go-reflectionstore/reflection"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Decode an encoded reflection file",
		Long: `Decode a file holding one encoded reflection and print its fields.

Example:
  reflectionctl inspect refl.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := readReflection(args[0])
			if err != nil {
				return err
			}
			return printReflection(cmd.OutOrStdout(), r)
		},
	}
}

func readReflection(path string) (*reflection.Reflection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := reflection.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return r, nil
}

func printReflection(out io.Writer, r *reflection.Reflection) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	rows := []struct {
		name  string
		value any
	}{
		{"miller_index", r.MillerIndex},
		{"status", fmt.Sprintf("%#x", int(r.Status))},
		{"entering", r.Entering},
		{"rotation_angle", r.RotationAngle},
		{"beam_vector", r.BeamVector},
		{"image_coord_px", r.ImageCoordPx},
		{"image_coord_mm", r.ImageCoordMm},
		{"frame_number", r.FrameNumber},
		{"panel_number", r.PanelNumber},
		{"bounding_box", r.BoundingBox},
		{"centroid_position", r.CentroidPosition},
		{"centroid_variance", r.CentroidVariance},
		{"centroid_sq_width", r.CentroidSqWidth},
		{"intensity", r.Intensity},
		{"intensity_variance", r.IntensityVariance},
		{"corrected_intensity", r.CorrectedIntensity},
		{"corrected_intensity_variance", r.CorrectedIntensityVariance},
		{"shoebox", r.Shoebox.Shape()},
		{"shoebox_mask", r.ShoeboxMask.Shape()},
		{"shoebox_background", r.ShoeboxBackground.Shape()},
		{"transformed_shoebox", r.TransformedShoebox.Shape()},
		{"encoded_size", reflection.EncodedSize(r)},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%v\n", row.name, row.value)
	}
	return w.Flush()
}
