// Package tiff parses the TIFF/IFD tree shared by almost every raw
// container (CR2, NEF, ARW, ORF, PEF, SRW, DNG itself) and by the DNG file
// the writer package produces. It is adapted from a general-purpose TIFF
// reader: the directory-walking and entry-typing logic is unchanged in
// spirit, but entries now carry their full typed value instead of being
// narrowed to uint/double at parse time, and offsets can be corrected by a
// caller-provided signed base so the same code parses relocated makernotes
// and decrypted SR2 sub-streams.
package tiff

const (
	LEHeader = "II\x2A\x00" // Header for little-endian files.
	BEHeader = "MM\x00\x2A" // Header for big-endian files.

	entryLen = 12 // Length of an IFD entry in bytes.

	// maxEntries and maxChainDepth bound pathological inputs.
	maxEntries    = 4000
	maxChainDepth = 16
)

// Data types (TIFF spec p. 14-16), extended with the sbyte/sshort/slong
// signed variants and the float/double IEEE variants DNG requires.
const (
	DTByte      uint16 = 1
	DTASCII     uint16 = 2
	DTShort     uint16 = 3
	DTLong      uint16 = 4
	DTRational  uint16 = 5
	DTSByte     uint16 = 6
	DTUndefined uint16 = 7
	DTSShort    uint16 = 8
	DTSLong     uint16 = 9
	DTSRational uint16 = 10
	DTFloat     uint16 = 11
	DTDouble    uint16 = 12
)

// typeLengths is the byte length of one instance of each data type, index
// matching the DT* constants above (0 is unused).
var typeLengths = [...]int{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

func init() {
	if len(typeLengths) != int(DTDouble)+1 {
		panic("tiff: typeLengths table out of sync with DT* constants")
	}
}

// Well-known tags used directly by the raw-decode and DNG-write core.
// Vendor makernote tags are looked up per-decoder and are not enumerated
// here.
const (
	TagXMLPacket                uint16 = 700
	TagNewSubFileType           uint16 = 254
	TagImageWidth               uint16 = 256
	TagImageLength               uint16 = 257
	TagBitsPerSample            uint16 = 258
	TagCompression              uint16 = 259
	TagPhotometricInterpretation uint16 = 262
	TagMake                     uint16 = 271
	TagModel                    uint16 = 272
	TagStripOffsets             uint16 = 273
	TagOrientation              uint16 = 274
	TagSamplesPerPixel          uint16 = 277
	TagRowsPerStrip             uint16 = 278
	TagStripByteCounts          uint16 = 279
	TagPlanarConfiguration      uint16 = 284
	TagArtist                   uint16 = 315
	TagSoftware                 uint16 = 305
	TagPredictor                uint16 = 317
	TagWhitePoint               uint16 = 318
	TagTileWidth                uint16 = 322
	TagTileLength               uint16 = 323
	TagTileOffsets              uint16 = 324
	TagTileByteCounts           uint16 = 325
	TagSubIFDs                  uint16 = 330
	TagExtraSamples             uint16 = 338
	TagSampleFormat             uint16 = 339
	TagJPEGInterchangeFormat    uint16 = 513
	TagJPEGInterchangeFormatLen uint16 = 514
	TagCFARepeatPatternDim      uint16 = 33421
	TagCFAPattern               uint16 = 33422
	TagCopyright                uint16 = 33432
	TagExifIFD                  uint16 = 34665
	TagGPSIFD                   uint16 = 34853
	TagCFAPlaneColor            uint16 = 50710
	TagCFALayout                uint16 = 50711
	TagLinearizationTable       uint16 = 50712
	TagBlackLevelRepeatDim      uint16 = 50713
	TagBlackLevel               uint16 = 50714
	TagWhiteLevel               uint16 = 50717
	TagDefaultScale             uint16 = 50718
	TagDefaultCropOrigin        uint16 = 50719
	TagDefaultCropSize          uint16 = 50720
	TagColorMatrix1             uint16 = 50721
	TagColorMatrix2             uint16 = 50722
	TagCameraCalibration1       uint16 = 50723
	TagCameraCalibration2       uint16 = 50724
	TagAnalogBalance            uint16 = 50727
	TagAsShotNeutral            uint16 = 50728
	TagAsShotWhiteXY            uint16 = 50729
	TagBaselineExposure         uint16 = 50730
	TagCalibrationIlluminant1   uint16 = 50778
	TagCalibrationIlluminant2   uint16 = 50779
	TagDNGVersion               uint16 = 50706
	TagDNGBackwardVersion       uint16 = 50707
	TagUniqueCameraModel        uint16 = 50708
	TagOriginalRawFileName      uint16 = 50827
	TagOriginalRawFileData      uint16 = 50828
	TagActiveArea               uint16 = 50829
	TagMaskedAreas              uint16 = 50830
	TagAsShotICCProfile         uint16 = 50831
	TagOriginalRawFileDigest    uint16 = 50973
	TagCalibrationIlluminant3   uint16 = 50981
	TagCameraCalibration3       uint16 = 50982
	TagColorMatrix3             uint16 = 50983
	TagNewRawImageDigest        uint16 = 51111
)

// EXIF/GPS tags consulted when building RawMetadata. These share the
// TIFF tag numberspace but only ever appear inside an ExifIFD or GPSIFD
// sub-directory.
const (
	TagExifVersion          uint16 = 36864
	TagDateTimeOriginal     uint16 = 36867
	TagExposureTime         uint16 = 33434
	TagFNumber              uint16 = 33437
	TagISOSpeedRatings      uint16 = 34855
	TagExposureBiasValue    uint16 = 37380
	TagFocalLength          uint16 = 37386
	TagFocalLengthIn35mm    uint16 = 41989
	TagLensSpecification    uint16 = 42034
	TagLensMake             uint16 = 42035
	TagLensModel            uint16 = 42036

	TagGPSLatitudeRef  uint16 = 1
	TagGPSLatitude     uint16 = 2
	TagGPSLongitudeRef uint16 = 3
	TagGPSLongitude    uint16 = 4
	TagGPSAltitude     uint16 = 6
	TagGPSTimeStamp    uint16 = 7
)

// Compression values (TIFF spec + Adobe DNG supplements).
const (
	CNone       = 1
	CLZW        = 5
	CJPEGOld    = 6
	CJPEG       = 7
	CDeflate    = 8
	CPackBits   = 32773
	CDeflateOld = 32946
)

// Photometric interpretation values relevant to raw/DNG.
const (
	PWhiteIsZero       = 0
	PBlackIsZero       = 1
	PRGB               = 2
	PYCbCr             = 6
	PColorFilterArray  = 32803
	PLinearRaw         = 34892
)

// NewSubFileType values.
const (
	SFTPrimaryImage = 0
	SFTThumbnail    = 1
)
