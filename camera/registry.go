package camera

import (
	"bytes"
	"io"
	"math"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// Registry is the process-wide, read-only table of Camera descriptors,
// built once at initialization from a configuration blob.
type Registry struct {
	byKey  map[key]*Camera
	bySize map[int][]*Camera // naked-decoder lookup index
}

type key struct{ make, model, mode string }

var (
	once     sync.Once
	instance *Registry
	initErr  error
)

// Default returns the process-wide registry, built on first use from the
// embedded default configuration.
func Default() (*Registry, error) {
	once.Do(func() {
		instance, initErr = Load(bytes.NewReader([]byte(defaultConfigTOML)))
	})
	return instance, initErr
}

// Load builds a Registry from a TOML configuration blob of [[cameras]]
// rows, using viper the way a layered application config gets bound.
func Load(r io.Reader) (*Registry, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(r); err != nil {
		return nil, errors.Wrap(err, "camera: failed to parse registry config")
	}

	var rows []cameraRow
	if err := v.UnmarshalKey("cameras", &rows); err != nil {
		return nil, errors.Wrap(err, "camera: failed to decode registry config")
	}

	reg := &Registry{
		byKey:  make(map[key]*Camera),
		bySize: make(map[int][]*Camera),
	}

	for _, row := range rows {
		base := row.toCamera()
		cams := []*Camera{base}
		for _, alias := range row.Aliases {
			a := row.toCamera()
			a.Make = alias.Make
			a.Model = alias.Model
			cams = append(cams, a)
		}
		for _, cam := range cams {
			modes := row.Modes
			if len(modes) == 0 {
				modes = []modeRow{{}}
			}
			for _, m := range modes {
				withMode := *cam
				withMode.Mode = m.Mode
				if m.FileSize != 0 {
					withMode.FileSize = m.FileSize
				}
				c := withMode
				reg.byKey[key{c.Make, c.Model, c.Mode}] = &c
				if c.FileSize != 0 {
					reg.bySize[c.FileSize] = append(reg.bySize[c.FileSize], &c)
				}
			}
		}
	}

	return reg, nil
}

// Lookup finds a camera by (make, model, mode). It first tries an exact
// match; a non-empty mode with no exact match falls back to the mode-less
// row.
func (r *Registry) Lookup(make, model, mode string) (*Camera, error) {
	if c, ok := r.byKey[key{make, model, mode}]; ok {
		return c, nil
	}
	if mode != "" {
		if c, ok := r.byKey[key{make, model, ""}]; ok {
			return c, nil
		}
	}
	return nil, rawerr.Newf(rawerr.Unsupported, "camera: no entry for make=%q model=%q mode=%q", make, model, mode)
}

// IsUnsupported reports whether err is the rawerr.Unsupported error Lookup
// returns for an unregistered camera.
func IsUnsupported(err error) bool {
	return rawerr.Is(err, rawerr.Unsupported)
}

// BySize returns the cameras registered for the "naked" decoder path whose
// expected file size matches size exactly.
func (r *Registry) BySize(size int) []*Camera {
	return r.bySize[size]
}

type cameraRow struct {
	Make, Model         string
	CleanMake           string `mapstructure:"clean_make"`
	CleanModel          string `mapstructure:"clean_model"`
	WhitePoint          int    `mapstructure:"whitepoint"`
	BlackPoint          int    `mapstructure:"blackpoint"`
	BlackAreaH          [2]int `mapstructure:"blackareah"`
	BlackAreaV          [2]int `mapstructure:"blackareav"`
	ColorMatrix         []float64 `mapstructure:"color_matrix"`
	Illuminant          int    `mapstructure:"illuminant"`
	Crops               [4]int
	ColorPattern        string `mapstructure:"color_pattern"`
	BitsPerSample       int    `mapstructure:"bps"`
	WBOffset            int    `mapstructure:"wb_offset"`
	BLOffset            int    `mapstructure:"bl_offset"`
	WLOffset            int    `mapstructure:"wl_offset"`
	FileSize            int    `mapstructure:"filesize"`
	RawWidth            int    `mapstructure:"raw_width"`
	RawHeight           int    `mapstructure:"raw_height"`
	HighresWidth        int    `mapstructure:"highres_width"`
	Hints               []string
	Aliases             []aliasRow
	Modes               []modeRow
}

type aliasRow struct {
	Make, Model string
}

type modeRow struct {
	Mode     string
	FileSize int `mapstructure:"filesize"`
}

func (row cameraRow) toCamera() *Camera {
	c := &Camera{
		Make:          row.Make,
		Model:         row.Model,
		CleanMake:     row.CleanMake,
		CleanModel:    row.CleanModel,
		FileSize:      row.FileSize,
		RawWidth:      row.RawWidth,
		RawHeight:     row.RawHeight,
		BlackAreaH:    row.BlackAreaH,
		BlackAreaV:    row.BlackAreaV,
		Crops:         row.Crops,
		CFAPattern:    row.ColorPattern,
		BitsPerSample: row.BitsPerSample,
		WBOffset:      row.WBOffset,
		BLOffset:      row.BLOffset,
		WLOffset:      row.WLOffset,
		HighresWidth:  row.HighresWidth,
		Hints:         make(map[string]bool, len(row.Hints)),
	}
	if c.HighresWidth == 0 {
		c.HighresWidth = math.MaxInt32
	}
	if row.WhitePoint != 0 {
		w := uint16(row.WhitePoint)
		c.WhiteLevels = [4]uint16{w, w, w, w}
	}
	if row.BlackPoint != 0 {
		b := uint16(row.BlackPoint)
		c.BlackLevels = [4]uint16{b, b, b, b}
	}
	if len(row.ColorMatrix) > 0 {
		c.ColorMatrices = []raw.ColorMatrix{{
			Illuminant: raw.Illuminant(row.Illuminant),
			Flat:       row.ColorMatrix,
			Columns:    3,
		}}
	}
	for _, h := range row.Hints {
		c.Hints[h] = true
	}
	return c
}
