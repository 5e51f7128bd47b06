// Package camera holds the static per-model configuration consulted by
// every format decoder: CFA pattern, black/white levels, color matrices,
// crop rectangles, and the free-form "hints" vocabulary.
package camera

import "github.com/rawdng/rawdng/raw"

// Camera is one row of the registry: a (make, model, mode) tuple plus the
// static configuration a decoder needs to interpret that sensor's raw
// data. Immutable after construction.
type Camera struct {
	Make, Model, Mode           string
	CleanMake, CleanModel       string
	FileSize                    int // expected size for the "naked" lookup path
	RawWidth, RawHeight         int
	Orientation                 raw.Orientation

	WhiteLevels [4]uint16
	BlackLevels [4]uint16

	BlackAreaH [2]int
	BlackAreaV [2]int

	ColorMatrices []raw.ColorMatrix

	CFAPattern string

	// Crops is (top, left, bottom, right) relative to RawWidth/RawHeight,
	// matching the DNG ActiveArea tag order.
	Crops [4]int

	BitsPerSample int

	// WBOffset/BLOffset/WLOffset are byte offsets into vendor-specific
	// metadata blocks some decoders must follow to find white balance or
	// black/white level overrides.
	WBOffset, BLOffset, WLOffset int

	HighresWidth int // defaults to "no limit" (see Registry construction)

	Hints map[string]bool
}

// Hint vocabulary recognized by downstream decoders.
const (
	HintLinearization        = "linearization"
	HintInterlaced           = "interlaced"
	HintNoCinfo2             = "nocinfo2"
	HintNoLowBits            = "nolowbits"
	HintWBMangle             = "wb_mangle"
	Hint40DYUV               = "40d_yuv"
	HintSwappedWB            = "swapped_wb"
	HintCoolpixSplit         = "coolpixsplit"
	HintMSB32                = "msb32"
	HintUnpacked             = "unpacked"
	HintNoWB                 = "nowb"
	HintDoubleWidth          = "double_width"
	HintJPEG32               = "jpeg32"
	HintFujiRotation         = "fuji_rotation"
	HintFujiRotationAlt      = "fuji_rotation_alt"
	HintLittleEndian         = "little_endian"
	HintDoubleLine           = "double_line"
	Hint12LE16BitAligned     = "12le_16bitaligned"
	HintEasyshareOffsetHack  = "easyshare_offset_hack"
)

// FindHint reports whether the named hint is set for this camera.
func (c *Camera) FindHint(name string) bool {
	return c.Hints[name]
}

// CFA expands the camera's configured pattern string, returning nil if the
// camera has no CFA (e.g. Foveon/linear-RGB sensors).
func (c *Camera) CFA() (*raw.CFA, error) {
	if c.CFAPattern == "" {
		return nil, nil
	}
	return raw.NewCFA(c.CFAPattern)
}

// ActiveArea returns the camera's configured crop rectangle.
func (c *Camera) ActiveArea() raw.Rect {
	return raw.Rect{Top: c.Crops[0], Left: c.Crops[1], Bottom: c.Crops[2], Right: c.Crops[3]}
}
