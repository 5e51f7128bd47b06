package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rawdng/rawdng/internal/rawlog"
)

// newRootCommand builds the makedng command: input/output paths, metadata
// overrides, and the calibration/linearization flags spec.md §6 names.
// Flags are bound through viper so the same values can come from
// MAKEDNG_*-prefixed environment variables, matching ma-tf-meta1v's
// cobra-plus-viper wiring.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "makedng",
		Short: "Assemble a DNG file from one or more raw/preview/thumbnail/exif/xmp inputs",
		Long: `makedng sniffs each --input file, decodes it with the format it is tagged
with (raw, preview, thumbnail, exif, xmp), and writes a single DNG file
combining them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd)
		},
		RunE: runMakeDNG,
	}

	flags := cmd.Flags()
	flags.StringArray("input", nil, `input file, formatted "path" or "path:usage" (usage one of raw, preview, thumbnail, exif, xmp; default raw)`)
	flags.String("output", "", "output DNG path (required)")
	flags.Bool("override", false, "let explicit metadata flags replace values derived from decoded inputs")

	flags.String("artist", "", "Artist tag value")
	flags.String("make", "", "Make tag value (replaces the decoded camera make only with --override)")
	flags.String("model", "", "Model tag value (replaces the decoded camera model only with --override)")
	flags.String("unique_camera_model", "", "UniqueCameraModel tag value")

	flags.String("dng_backward_version", "1.4", "DNGBackwardVersion, one of 1.0..1.6")
	flags.String("colorimetric_reference", "scene", "one of scene, output")

	flags.String("matrix1", "", "comma-separated 9-value ColorMatrix1 (row-major 3x3)")
	flags.Int("illuminant1", 0, "CalibrationIlluminant1 code")
	flags.String("matrix2", "", "comma-separated 9-value ColorMatrix2")
	flags.Int("illuminant2", 0, "CalibrationIlluminant2 code")
	flags.String("matrix3", "", "comma-separated 9-value ColorMatrix3 (backward version >= 1.6 only)")
	flags.Int("illuminant3", 0, "CalibrationIlluminant3 code")

	flags.String("as_shot_neutral", "", "comma-separated camera-space R,G,B neutral coefficients")
	flags.String("as_shot_white_xy", "", "comma-separated CIE xy chromaticity of the as-shot white point")

	flags.String("linearization", "", `named curve (identity, srgb, gammaN.N) or a comma-separated custom lookup table`)

	flags.Bool("compressed", true, "write the raw plane as tiled LJPEG instead of uncompressed strips")
	flags.Int("predictor", 1, "LJPEG predictor (1-8), consulted only when --compressed")

	flags.Bool("verbose", false, "enable debug logging")

	return cmd
}

func bindFlags(cmd *cobra.Command) error {
	viper.SetEnvPrefix("MAKEDNG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("makedng: failed to bind flags: %w", err)
	}

	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	rawlog.SetOutput(os.Stderr, level)
	return nil
}
