package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rawdng/rawdng/camera"
	"github.com/rawdng/rawdng/decode"
	"github.com/rawdng/rawdng/dngwriter"
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/rawlog"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// taggedInput is one --input flag's parsed path:usage pair.
type taggedInput struct {
	path  string
	usage string
}

func parseInputs(specs []string) ([]taggedInput, error) {
	inputs := make([]taggedInput, 0, len(specs))
	for _, r := range specs {
		path, usage, found := strings.Cut(r, ":")
		if !found {
			usage = "raw"
		}
		switch usage {
		case "raw", "preview", "thumbnail", "exif", "xmp":
		default:
			return nil, fmt.Errorf("makedng: unknown input usage %q (want raw, preview, thumbnail, exif or xmp)", usage)
		}
		inputs = append(inputs, taggedInput{path: path, usage: usage})
	}
	return inputs, nil
}

func backwardVersion(s string) (dngwriter.Version, error) {
	switch s {
	case "1.0":
		return dngwriter.Version1_0, nil
	case "1.1":
		return dngwriter.Version1_1, nil
	case "1.2":
		return dngwriter.Version1_2, nil
	case "1.3":
		return dngwriter.Version1_3, nil
	case "1.4":
		return dngwriter.Version1_4, nil
	case "1.5":
		return dngwriter.Version1_5, nil
	case "1.6":
		return dngwriter.Version1_6, nil
	default:
		return dngwriter.Version{}, fmt.Errorf("makedng: invalid --dng_backward_version %q", s)
	}
}

func openSource(path string) (*os.File, *bytesio.FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("makedng: failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("makedng: failed to stat %s: %w", path, err)
	}
	return f, bytesio.NewFileSource(f, int(info.Size())), nil
}

func runMakeDNG(_ *cobra.Command, _ []string) error {
	rawInputs := viper.GetStringSlice("input")
	output := viper.GetString("output")
	if output == "" {
		return fmt.Errorf("makedng: --output is required")
	}
	inputs, err := parseInputs(rawInputs)
	if err != nil {
		return err
	}

	backward, err := backwardVersion(viper.GetString("dng_backward_version"))
	if err != nil {
		return err
	}

	pool := workpool.New(0)
	reg, err := camera.Default()
	if err != nil {
		return fmt.Errorf("makedng: failed to load camera registry: %w", err)
	}

	w := dngwriter.NewWriter(backward, pool)
	override := viper.GetBool("override")

	var img *raw.RawImage
	var meta *raw.RawMetadata

	for _, in := range inputs {
		if cerr := applyInput(w, in, decode.Params{Pool: pool, Corr: 0}, reg, &img, &meta); cerr != nil {
			_ = os.Remove(output)
			return cerr
		}
	}

	if img == nil {
		_ = os.Remove(output)
		return rawerr.New(rawerr.General, "makedng: no --input tagged \"raw\" was given")
	}

	applyMetadataOverrides(w, img, meta, override)

	if cerr := applyCalibrationFlags(w, img); cerr != nil {
		_ = os.Remove(output)
		return cerr
	}

	if table, lerr := buildLinearizationTable(viper.GetString("linearization"), img.BitDepth); lerr != nil {
		_ = os.Remove(output)
		return lerr
	} else if table != nil {
		w.SetLinearizationTable(table)
	}

	compressed := viper.GetBool("compressed")
	predictor := viper.GetInt("predictor")
	if aerr := w.AddRawImage(img, compressed, predictor); aerr != nil {
		_ = os.Remove(output)
		return fmt.Errorf("makedng: failed to build raw SubIFD: %w", aerr)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("makedng: failed to create %s: %w", output, err)
	}
	if werr := w.Close(out); werr != nil {
		out.Close()
		_ = os.Remove(output)
		return fmt.Errorf("makedng: failed to write DNG: %w", werr)
	}
	return out.Close()
}

// applyInput decodes or reads one tagged input and feeds it into w. img and
// meta accumulate the decoded raw plane and its metadata across inputs, so
// a later "exif" input can refine the metadata a "raw" input produced.
func applyInput(w *dngwriter.Writer, in taggedInput, p decode.Params, reg *camera.Registry, img **raw.RawImage, meta **raw.RawMetadata) error {
	switch in.usage {
	case "raw":
		f, src, err := openSource(in.path)
		if err != nil {
			return err
		}
		defer f.Close()

		dec, err := decode.Dispatch(src, reg)
		if err != nil {
			return fmt.Errorf("makedng: failed to recognize %s: %w", in.path, err)
		}
		decoded, err := dec.RawImage(src, p, false)
		if err != nil {
			return fmt.Errorf("makedng: failed to decode raw plane of %s: %w", in.path, err)
		}
		*img = decoded

		if m, merr := dec.RawMetadata(src, p); merr != nil {
			rawlog.Warnf("makedng: failed to read metadata from %s: %v", in.path, merr)
		} else {
			*meta = m
		}
		if xmp, xerr := dec.XPacket(src, p); xerr == nil && len(xmp) > 0 {
			w.SetXMP(xmp)
		}
		return nil

	case "preview":
		data, err := os.ReadFile(in.path)
		if err != nil {
			return fmt.Errorf("makedng: failed to read preview %s: %w", in.path, err)
		}
		width, height, err := jpegDimensions(data)
		if err != nil {
			return fmt.Errorf("makedng: failed to read preview dimensions from %s: %w", in.path, err)
		}
		w.AddPreview(data, width, height)
		return nil

	case "thumbnail":
		data, err := os.ReadFile(in.path)
		if err != nil {
			return fmt.Errorf("makedng: failed to read thumbnail %s: %w", in.path, err)
		}
		width, height, err := jpegDimensions(data)
		if err != nil {
			return fmt.Errorf("makedng: failed to read thumbnail dimensions from %s: %w", in.path, err)
		}
		w.AddThumbnail(data, width, height)
		return nil

	case "exif":
		f, src, err := openSource(in.path)
		if err != nil {
			return err
		}
		defer f.Close()

		dec, err := decode.Dispatch(src, reg)
		if err != nil {
			return fmt.Errorf("makedng: failed to recognize exif source %s: %w", in.path, err)
		}
		m, merr := dec.RawMetadata(src, p)
		if merr != nil {
			return fmt.Errorf("makedng: failed to read metadata from %s: %w", in.path, merr)
		}
		*meta = m
		return nil

	case "xmp":
		data, err := os.ReadFile(in.path)
		if err != nil {
			return fmt.Errorf("makedng: failed to read xmp packet %s: %w", in.path, err)
		}
		w.SetXMP(data)
		return nil
	}
	return fmt.Errorf("makedng: unhandled input usage %q", in.usage)
}

func jpegDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func applyMetadataOverrides(w *dngwriter.Writer, img *raw.RawImage, meta *raw.RawMetadata, override bool) {
	applyString(w.SetMake, img.Make, viper.GetString("make"), override)
	applyString(w.SetModel, img.Model, viper.GetString("model"), override)
	applyString(w.SetUniqueCameraModel, img.CleanModel, viper.GetString("unique_camera_model"), override)
	if artist := viper.GetString("artist"); artist != "" {
		w.SetArtist(artist)
	}
	if meta != nil {
		w.SetExifMetadata(meta)
	}
}

// applyString writes decoded unless override is set and flagVal is
// non-empty, in which case flagVal wins; decoded wins over flagVal when
// override is false and decoded is non-empty; otherwise flagVal is used as
// a fallback for values the decoder left blank.
func applyString(set func(string), decoded, flagVal string, override bool) {
	switch {
	case override && flagVal != "":
		set(flagVal)
	case decoded != "":
		set(decoded)
	case flagVal != "":
		set(flagVal)
	}
}

func applyCalibrationFlags(w *dngwriter.Writer, img *raw.RawImage) error {
	matrices, err := calibrationFromFlags()
	if err != nil {
		return err
	}
	if matrices == nil {
		matrices = img.ColorMatrices
	}

	wb := img.WhiteBalance
	if s := viper.GetString("as_shot_neutral"); s != "" {
		parsed, perr := parseFloats(s, 3)
		if perr != nil {
			return fmt.Errorf("makedng: invalid --as_shot_neutral: %w", perr)
		}
		// SetCalibration takes multipliers and writes their reciprocal as
		// AsShotNeutral, so invert the neutral here.
		for i := range parsed {
			if parsed[i] != 0 {
				parsed[i] = 1 / parsed[i]
			}
		}
		wb = [4]float64{parsed[0], parsed[1], parsed[2], parsed[2]}
	} else if s := viper.GetString("as_shot_white_xy"); s != "" {
		parsed, perr := parseFloats(s, 2)
		if perr != nil {
			return fmt.Errorf("makedng: invalid --as_shot_white_xy: %w", perr)
		}
		var matrix []float64
		if len(matrices) > 0 {
			matrix = matrices[0].Flat
		}
		wb = neutralFromChromaticity(parsed[0], parsed[1], matrix)
	}

	w.SetCalibration(matrices, wb)
	return nil
}

func calibrationFromFlags() ([]raw.ColorMatrix, error) {
	var matrices []raw.ColorMatrix
	specs := []struct {
		matrixFlag, illuminantFlag string
	}{
		{"matrix1", "illuminant1"},
		{"matrix2", "illuminant2"},
		{"matrix3", "illuminant3"},
	}
	for _, s := range specs {
		v := viper.GetString(s.matrixFlag)
		if v == "" {
			continue
		}
		flat, err := parseFloats(v, 9)
		if err != nil {
			return nil, fmt.Errorf("makedng: invalid --%s: %w", s.matrixFlag, err)
		}
		matrices = append(matrices, raw.ColorMatrix{
			Illuminant: raw.Illuminant(viper.GetInt(s.illuminantFlag)),
			Flat:       flat,
			Columns:    3,
		})
	}
	return matrices, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
