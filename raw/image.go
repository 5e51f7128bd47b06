// Package raw defines the central data model produced by the decode
// front-end and consumed by the DNG writer.
package raw

import "math/big"

// PixelData is the sensor-plane storage for a RawImage. It is one of two
// concrete variants: PlaneU16 (the common case) or PlaneF32 (linear
// floating-point, e.g. some debayered-at-capture formats). The writer
// rejects PlaneF32 with rawerr.General on both its compressed (LJPEG) and
// uncompressed paths.
type PixelData interface {
	isPixelData()
	Len() int
}

// PlaneU16 is a row-major u16 sensor plane.
type PlaneU16 []uint16

func (PlaneU16) isPixelData()    {}
func (p PlaneU16) Len() int      { return len(p) }

// PlaneF32 is a row-major linear float32 sensor plane.
type PlaneF32 []float32

func (PlaneF32) isPixelData()  {}
func (p PlaneF32) Len() int    { return len(p) }

// Rect is a TIFF-style rectangle: Top, Left, Bottom, Right.
type Rect struct {
	Top, Left, Bottom, Right int
}

// Width returns Right - Left.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() int { return r.Bottom - r.Top }

// BlackLevel is a repeating rectangle of per-sample black levels: Height x
// Width x CPP rationals, tiled across the sensor plane.
type BlackLevel struct {
	Height, Width int
	Levels        []*big.Rat // len == Height*Width*CPP
}

// ShiftOrigin realigns the repeat grid after a crop to (x, y), so the
// sample-to-level alignment established before cropping is preserved.
func (b BlackLevel) ShiftOrigin(cpp, x, y int) BlackLevel {
	if b.Height == 0 || b.Width == 0 {
		return b
	}
	sx := x % b.Width
	sy := y % b.Height
	shifted := make([]*big.Rat, len(b.Levels))
	for row := 0; row < b.Height; row++ {
		srcRow := ((row+sy)%b.Height + b.Height) % b.Height
		for col := 0; col < b.Width; col++ {
			srcCol := ((col+sx)%b.Width + b.Width) % b.Width
			for ch := 0; ch < cpp; ch++ {
				shifted[(row*b.Width+col)*cpp+ch] = b.Levels[(srcRow*b.Width+srcCol)*cpp+ch]
			}
		}
	}
	return BlackLevel{Height: b.Height, Width: b.Width, Levels: shifted}
}

// Illuminant is a standard light source label identified by its TIFF
// CalibrationIlluminant code.
type Illuminant uint16

// Illuminant codes from the EXIF/DNG LightSource tag.
const (
	IlluminantUnknown     Illuminant = 0
	IlluminantDaylight    Illuminant = 1
	IlluminantTungsten    Illuminant = 3
	IlluminantFlash       Illuminant = 4
	IlluminantFineWeather Illuminant = 9
	IlluminantCloudy      Illuminant = 10
	IlluminantShade       Illuminant = 11
	IlluminantD50         Illuminant = 23
	IlluminantD55         Illuminant = 20
	IlluminantD65         Illuminant = 21
	IlluminantD75         Illuminant = 22
)

// Code returns the TIFF numeric code for the illuminant, satisfying the
// round-trip property u16(Illuminant::from(c)) == c.
func (i Illuminant) Code() uint16 { return uint16(i) }

// ColorMatrix maps sensor-space samples to a reference color space for a
// given illuminant. Flat is row-major, n columns wide (n == CPP of the
// camera's native color channels, almost always 3).
type ColorMatrix struct {
	Illuminant Illuminant
	Flat       []float64
	Columns    int
}

// Orientation mirrors the EXIF Orientation tag's eight values, expressed
// as flip/rotate flags so Orientation::from_flips(to_flips(o)) == o for
// every named value.
type Orientation int

const (
	OrientationNormal Orientation = iota + 1
	OrientationMirrorHorizontal
	OrientationRotate180
	OrientationMirrorVertical
	OrientationMirrorHorizontalRotate270CW
	OrientationRotate90CW
	OrientationMirrorHorizontalRotate90CW
	OrientationRotate270CW
)

// Flips is the (flipH, flipV, transpose) decomposition of an orientation.
type Flips struct {
	FlipH, FlipV, Transpose bool
}

// ToFlips decomposes o into its flip/transpose flags.
func (o Orientation) ToFlips() Flips {
	switch o {
	case OrientationNormal:
		return Flips{}
	case OrientationMirrorHorizontal:
		return Flips{FlipH: true}
	case OrientationRotate180:
		return Flips{FlipH: true, FlipV: true}
	case OrientationMirrorVertical:
		return Flips{FlipV: true}
	case OrientationMirrorHorizontalRotate270CW:
		return Flips{FlipH: true, Transpose: true}
	case OrientationRotate90CW:
		return Flips{Transpose: true, FlipV: true}
	case OrientationMirrorHorizontalRotate90CW:
		return Flips{FlipH: true, FlipV: true, Transpose: true}
	case OrientationRotate270CW:
		return Flips{Transpose: true}
	default:
		return Flips{}
	}
}

// OrientationFromFlips is the inverse of ToFlips.
func OrientationFromFlips(f Flips) Orientation {
	for _, o := range []Orientation{
		OrientationNormal, OrientationMirrorHorizontal, OrientationRotate180,
		OrientationMirrorVertical, OrientationMirrorHorizontalRotate270CW,
		OrientationRotate90CW, OrientationMirrorHorizontalRotate90CW, OrientationRotate270CW,
	} {
		if o.ToFlips() == f {
			return o
		}
	}
	return OrientationNormal
}

// RawImage is the central value produced by the decode front-end and
// consumed by the DNG writer.
type RawImage struct {
	// Camera identity.
	Make, Model           string
	CleanMake, CleanModel string

	// Full sensor dimensions.
	Width, Height int
	// CPP is 1 for CFA mosaic data, 3 for linear RGB or debayered
	// YUV-to-RGB data.
	CPP int

	Data PixelData

	// WhiteBalance is the RGB(G2) coefficient tuple in camera space.
	WhiteBalance [4]f64OrNaN

	WhiteLevel [4]uint16
	BlackLevel BlackLevel

	MaskedAreas []Rect
	ActiveArea  Rect
	CropOrigin  [2]int // x, y
	CropSize    [2]int // width, height

	CFA *CFA

	ColorMatrices []ColorMatrix

	BitDepth int

	Orientation Orientation

	// DNGTags is an opaque passthrough map of raw-only DNG tags some
	// decoders populate before hand-off.
	DNGTags map[uint16]interface{}
}

// f64OrNaN marks WhiteBalance slots as float64 values that the writer
// treats as unset when they are zero or NaN; a slot no decoder filled
// reads as zero.
type f64OrNaN = float64
