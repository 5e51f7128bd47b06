package raw

import (
	"math/big"
	"time"
)

// RawMetadata is normalized EXIF + GPS data, plus an optionally resolved
// lens description. The writer pushes a subset of these fields into the
// EXIF IFD (see dngwriter.Writer.SetExifMetadata).
type RawMetadata struct {
	CaptureTime time.Time

	ExposureTime    *big.Rat
	FNumber         *big.Rat
	ISO             int
	ExposureBias    *big.Rat
	FocalLength     *big.Rat
	FocalLength35mm int

	LensSpec  [4]*big.Rat // min/max focal length, min/max aperture
	LensMake  string
	LensModel string

	GPSLatitude, GPSLongitude      *big.Rat
	GPSLatitudeRef, GPSLongitudeRef string
	GPSAltitude                     *big.Rat
	GPSTimestamp                    time.Time
}
