// Package dngwriter assembles a DNG file from a raw.RawImage and optional
// preview/thumbnail/original-file payloads. It performs the two-pass IFD
// layout internal/container/tiff reads back: out-of-line values and
// sub-IFDs are flushed to the stream before the directory that references
// them, and the root directory's own offset is patched into the file
// header only once every other byte has been written.
package dngwriter

import (
	"io"
	"math/big"

	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// Version is a 4-byte DNG version tag value (major, minor, 0, 0).
type Version [4]byte

var (
	Version1_0 = Version{1, 0, 0, 0}
	Version1_1 = Version{1, 1, 0, 0}
	Version1_2 = Version{1, 2, 0, 0}
	Version1_3 = Version{1, 3, 0, 0}
	Version1_4 = Version{1, 4, 0, 0}
	Version1_5 = Version{1, 5, 0, 0}
	Version1_6 = Version{1, 6, 0, 0}
)

// currentVersion is the DNGVersion this writer always declares, regardless
// of the backward-compatibility version the caller targets.
var currentVersion = Version1_6

// ColorimetricReference selects the reference space ColorMatrix values are
// relative to.
type ColorimetricReference int

const (
	ColorimetricSceneReferred ColorimetricReference = iota
	ColorimetricOutputReferred
)

// Writer accumulates a DNG's root, raw, preview and Exif directories and
// assembles the final byte stream on Close.
type Writer struct {
	backward Version
	order    endianLike
	magic    string
	pool     *workpool.Pool

	root    *ifd
	exif    *ifd
	gps     *ifd
	rawSub  *ifd
	prevSub *ifd

	hasRaw, hasPreview, hasGPS bool

	rawPixels     []byte
	rawTiles      [][]byte
	rawCompressed bool
	rawTileSize   [2]uint32

	previewJPEG []byte
	previewW    int
	previewH    int

	thumbJPEG []byte

	linearization []uint16

	originalJob *originalEmbed
}

// NewWriter creates a Writer targeting the given DNGBackwardVersion. Pool
// is used for LJPEG tile encoding and original-file compression; a nil
// pool gets a default-sized one.
func NewWriter(backward Version, pool *workpool.Pool) *Writer {
	if pool == nil {
		pool = workpool.New(0)
	}
	return &Writer{
		backward: backward,
		order:    littleEndian{},
		magic:    tiff.LEHeader,
		pool:     pool,
		root:     newIFD(),
		exif:     newIFD(),
	}
}

// SetBigEndian switches the writer to MM-header byte order. DNG files are
// little-endian by default.
func (w *Writer) SetBigEndian() {
	w.order = bigEndian{}
	w.magic = tiff.BEHeader
}

func (w *Writer) SetArtist(s string) { w.root.setASCII(tiff.TagArtist, s) }
func (w *Writer) SetMake(s string)   { w.root.setASCII(tiff.TagMake, s) }
func (w *Writer) SetModel(s string)  { w.root.setASCII(tiff.TagModel, s) }
func (w *Writer) SetSoftware(s string) { w.root.setASCII(tiff.TagSoftware, s) }
func (w *Writer) SetUniqueCameraModel(s string) {
	w.root.setASCII(tiff.TagUniqueCameraModel, s)
}

func (w *Writer) SetLens(make_, model string) {
	if make_ != "" {
		w.exif.setASCII(tiff.TagLensMake, make_)
	}
	if model != "" {
		w.exif.setASCII(tiff.TagLensModel, model)
	}
}

// SetExifMetadata copies exposure/lens/GPS fields from a decoded
// raw.RawMetadata onto the writer's Exif (and, if any GPS field is set, a
// GPS) sub-IFD. Zero-value fields (nil rationals, zero ISO, zero time)
// are left unwritten rather than forcing a tag with a meaningless value.
func (w *Writer) SetExifMetadata(meta *raw.RawMetadata) {
	if meta == nil {
		return
	}
	if !meta.CaptureTime.IsZero() {
		w.exif.setASCII(tiff.TagDateTimeOriginal, meta.CaptureTime.Format("2006:01:02 15:04:05"))
	}
	if meta.ExposureTime != nil {
		w.exif.setRational(tiff.TagExposureTime, w.order, meta.ExposureTime)
	}
	if meta.FNumber != nil {
		w.exif.setRational(tiff.TagFNumber, w.order, meta.FNumber)
	}
	if meta.ISO > 0 {
		w.exif.setShort(tiff.TagISOSpeedRatings, w.order, uint16(meta.ISO))
	}
	if meta.ExposureBias != nil {
		w.exif.setSRational(tiff.TagExposureBiasValue, w.order, meta.ExposureBias)
	}
	if meta.FocalLength != nil {
		w.exif.setRational(tiff.TagFocalLength, w.order, meta.FocalLength)
	}
	if meta.FocalLength35mm > 0 {
		w.exif.setShort(tiff.TagFocalLengthIn35mm, w.order, uint16(meta.FocalLength35mm))
	}
	if meta.LensSpec[0] != nil && meta.LensSpec[1] != nil && meta.LensSpec[2] != nil && meta.LensSpec[3] != nil {
		w.exif.setRational(tiff.TagLensSpecification, w.order, meta.LensSpec[0], meta.LensSpec[1], meta.LensSpec[2], meta.LensSpec[3])
	}
	w.SetLens(meta.LensMake, meta.LensModel)

	if meta.GPSLatitude != nil && meta.GPSLongitude != nil {
		if w.gps == nil {
			w.gps = newIFD()
		}
		w.gps.setASCII(tiff.TagGPSLatitudeRef, meta.GPSLatitudeRef)
		w.gps.setRational(tiff.TagGPSLatitude, w.order, meta.GPSLatitude)
		w.gps.setASCII(tiff.TagGPSLongitudeRef, meta.GPSLongitudeRef)
		w.gps.setRational(tiff.TagGPSLongitude, w.order, meta.GPSLongitude)
		if meta.GPSAltitude != nil {
			w.gps.setRational(tiff.TagGPSAltitude, w.order, meta.GPSAltitude)
		}
		w.hasGPS = true
	}
}

// SetXMP embeds a raw XMP packet verbatim under the TIFF XMLPacket tag.
func (w *Writer) SetXMP(packet []byte) {
	w.root.setUndefined(tiff.TagXMLPacket, packet)
}

// SetColorimetricReference accepts whether the written ColorMatrix values
// are scene- or output-referred. The value is not stored, and no
// ColorimetricReference tag (50879) is written.
func (w *Writer) SetColorimetricReference(ColorimetricReference) {}

// SetCalibration writes up to three ColorMatrix/CalibrationIlluminant
// pairs and an AsShotNeutral derived from wb (per-channel white-balance
// multipliers, whose reciprocals are written as rationals quantized to
// 1/100000 per spec.md's §4.7 convention).
func (w *Writer) SetCalibration(matrices []raw.ColorMatrix, wb [4]float64) {
	illuminantTags := [3]uint16{tiff.TagCalibrationIlluminant1, tiff.TagCalibrationIlluminant2, tiff.TagCalibrationIlluminant3}
	matrixTags := [3]uint16{tiff.TagColorMatrix1, tiff.TagColorMatrix2, tiff.TagColorMatrix3}
	for i, m := range matrices {
		if i >= 3 {
			break
		}
		w.root.setShort(illuminantTags[i], w.order, m.Illuminant.Code())
		rats := make([]*big.Rat, len(m.Flat))
		for j, f := range m.Flat {
			rats[j] = big.NewRat(int64(f*1000000), 1000000)
		}
		w.root.setSRational(matrixTags[i], w.order, rats...)
	}

	neutral := make([]*big.Rat, 0, 3)
	for i := 0; i < 3; i++ {
		v := wb[i]
		if v != v || v == 0 { // NaN or unset
			return
		}
		neutral = append(neutral, big.NewRat(int64(100000.0/v), 100000))
	}
	w.root.setRational(tiff.TagAsShotNeutral, w.order, neutral...)
}

// SetLinearizationTable records a LinearizationTable lookup applied to
// every raw sample before black/white level normalization. table is
// written to the raw SubIFD by AddRawImage, so it must be set before
// AddRawImage; a table set afterwards is not written.
func (w *Writer) SetLinearizationTable(table []uint16) {
	w.linearization = table
}

// AddRawImage encodes img's pixel plane and builds the raw SubIFD.
// compressed selects LJPEG-92 tiled encoding over plain strips; predictor
// is only consulted when compressed is true.
func (w *Writer) AddRawImage(img *raw.RawImage, compressed bool, predictor int) error {
	sub := newIFD()
	sub.setLong(tiff.TagNewSubFileType, w.order, 0)
	sub.setLong(tiff.TagImageWidth, w.order, uint32(img.Width))
	sub.setLong(tiff.TagImageLength, w.order, uint32(img.Height))

	bps := make([]uint16, img.CPP)
	for i := range bps {
		bps[i] = uint16(img.BitDepth)
	}
	sub.setShort(tiff.TagBitsPerSample, w.order, bps...)
	sub.setShort(tiff.TagSamplesPerPixel, w.order, uint16(img.CPP))

	photometric := uint16(tiff.PColorFilterArray)
	if img.CPP == 3 {
		photometric = tiff.PLinearRaw
	}
	sub.setShort(tiff.TagPhotometricInterpretation, w.order, photometric)

	sub.setLong(tiff.TagActiveArea, w.order,
		uint32(img.ActiveArea.Top), uint32(img.ActiveArea.Left),
		uint32(img.ActiveArea.Bottom), uint32(img.ActiveArea.Right))

	if img.CropSize[0] > 0 && img.CropSize[1] > 0 {
		sub.setRational(tiff.TagDefaultCropOrigin, w.order,
			big.NewRat(int64(img.CropOrigin[0]), 1), big.NewRat(int64(img.CropOrigin[1]), 1))
		sub.setRational(tiff.TagDefaultCropSize, w.order,
			big.NewRat(int64(img.CropSize[0]), 1), big.NewRat(int64(img.CropSize[1]), 1))
	}
	sub.setRational(tiff.TagDefaultScale, w.order, big.NewRat(1, 1), big.NewRat(1, 1))

	bl := img.BlackLevel
	if img.ActiveArea.Left != 0 || img.ActiveArea.Top != 0 {
		bl = bl.ShiftOrigin(img.CPP, img.ActiveArea.Left, img.ActiveArea.Top)
	}
	writeBlackLevel(sub, w.order, bl, img.CPP)

	if len(w.linearization) > 0 {
		sub.setShort(tiff.TagLinearizationTable, w.order, w.linearization...)
	}

	wl := make([]uint32, img.CPP)
	for i := range wl {
		wl[i] = uint32(img.WhiteLevel[i%4])
	}
	sub.setLong(tiff.TagWhiteLevel, w.order, wl...)

	if len(img.MaskedAreas) > 0 {
		flat := make([]uint32, 0, len(img.MaskedAreas)*4)
		for _, r := range img.MaskedAreas {
			flat = append(flat, uint32(r.Top), uint32(r.Left), uint32(r.Bottom), uint32(r.Right))
		}
		sub.setLong(tiff.TagMaskedAreas, w.order, flat...)
	}

	if img.CFA != nil {
		sub.setShort(tiff.TagCFARepeatPatternDim, w.order, 2, 2)
		sub.setByte(tiff.TagCFAPattern,
			byte(img.CFA.ColorAt(0, 0)), byte(img.CFA.ColorAt(0, 1)),
			byte(img.CFA.ColorAt(1, 0)), byte(img.CFA.ColorAt(1, 1)))
	}

	samples, ok := img.Data.(raw.PlaneU16)
	if !ok {
		return rawerr.New(rawerr.General, "dngwriter: only PlaneU16 sensor planes are supported")
	}

	if compressed {
		if predictor < 1 || predictor > 8 {
			predictor = 1
		}
		sub.setShort(tiff.TagCompression, w.order, tiff.CJPEG)
		sub.setShort(tiff.TagPredictor, w.order, uint16(predictor))
	} else {
		sub.setShort(tiff.TagCompression, w.order, tiff.CNone)
	}

	w.hasRaw = true
	w.rawSub = sub
	w.rawCompressed = compressed

	if compressed {
		tiles, tw, th, err := encodeLJPEGTiles(w.pool, []uint16(samples), img.Width, img.Height, img.CPP, img.BitDepth, predictor)
		if err != nil {
			return err
		}
		sub.setLong(tiff.TagTileWidth, w.order, uint32(tw))
		sub.setLong(tiff.TagTileLength, w.order, uint32(th))
		w.rawTileSize = [2]uint32{uint32(tw), uint32(th)}
		w.rawPixels = nil
		w.rawTiles = tiles
	} else {
		w.rawPixels = encodeUncompressedStrips(samples, w.order)
		sub.setLong(tiff.TagRowsPerStrip, w.order, uint32(stripRows(img.Height)))
	}
	return nil
}

func writeBlackLevel(sub *ifd, order endianLike, bl raw.BlackLevel, cpp int) {
	h, wdt := bl.Height, bl.Width
	if h <= 0 || wdt <= 0 {
		h, wdt = 1, 1
	}
	sub.setShort(tiff.TagBlackLevelRepeatDim, order, uint16(h), uint16(wdt))
	if len(bl.Levels) == h*wdt*cpp {
		sub.setRational(tiff.TagBlackLevel, order, bl.Levels...)
	} else {
		sub.setRational(tiff.TagBlackLevel, order, big.NewRat(0, 1))
	}
}

func stripRows(height int) int {
	rows := (height + 7) / 8
	if rows < 1 {
		return height
	}
	return rows
}

// AddPreview embeds a pre-encoded JPEG preview (caller-resized to spec's
// 1024x768 maximum) as the preview SubIFD (NewSubFileType = 1).
func (w *Writer) AddPreview(jpeg []byte, width, height int) {
	sub := newIFD()
	sub.setLong(tiff.TagNewSubFileType, w.order, 1)
	sub.setLong(tiff.TagImageWidth, w.order, uint32(width))
	sub.setLong(tiff.TagImageLength, w.order, uint32(height))
	sub.setShort(tiff.TagPhotometricInterpretation, w.order, tiff.PYCbCr)
	sub.setShort(tiff.TagCompression, w.order, tiff.CJPEGOld)
	sub.setShort(tiff.TagSamplesPerPixel, w.order, 3)

	w.hasPreview = true
	w.prevSub = sub
	w.previewJPEG = jpeg
	w.previewW, w.previewH = width, height
}

// AddThumbnail embeds a small JPEG directly on the root IFD via the
// classic JPEGInterchangeFormat/Length tag pair.
func (w *Writer) AddThumbnail(jpeg []byte, width, height int) {
	w.root.setLong(tiff.TagImageWidth, w.order, uint32(width))
	w.root.setLong(tiff.TagImageLength, w.order, uint32(height))
	w.root.setShort(tiff.TagPhotometricInterpretation, w.order, tiff.PYCbCr)
	w.root.setShort(tiff.TagCompression, w.order, tiff.CJPEGOld)
	w.root.setShort(tiff.TagSamplesPerPixel, w.order, 3)
	w.thumbJPEG = jpeg
}

// EmbedOriginal schedules the source bytes for embedding as
// OriginalRawFileData/Name/Digest. Compression runs on the writer's pool
// immediately so it overlaps with the caller's own decode work; Close
// joins it before writing the root directory.
func (w *Writer) EmbedOriginal(name string, data []byte) {
	w.originalJob = startOriginalEmbed(w.pool, name, data)
}

// Close assembles and writes the final DNG byte stream to out.
func (w *Writer) Close(out io.Writer) error {
	buf := &buffer{}
	buf.write([]byte(w.magic))
	placeholder := make([]byte, 4)
	buf.write(placeholder)

	var subIFDOffsets []uint32

	if w.hasRaw {
		buf.align(4)
		if w.rawCompressed {
			offsets := make([]uint32, len(w.rawTiles))
			counts := make([]uint32, len(w.rawTiles))
			for i, t := range w.rawTiles {
				buf.align(4)
				offsets[i] = uint32(buf.len())
				counts[i] = uint32(len(t))
				buf.write(t)
			}
			offU32 := make([]uint32, len(offsets))
			copy(offU32, offsets)
			w.rawSub.setLong(tiff.TagTileOffsets, w.order, offU32...)
			w.rawSub.setLong(tiff.TagTileByteCounts, w.order, counts...)
		} else {
			off := uint32(buf.len())
			buf.write(w.rawPixels)
			w.rawSub.setLong(tiff.TagStripOffsets, w.order, off)
			w.rawSub.setLong(tiff.TagStripByteCounts, w.order, uint32(len(w.rawPixels)))
		}
		rawOff, err := w.rawSub.flush(buf, w.order, 0)
		if err != nil {
			return err
		}
		subIFDOffsets = append(subIFDOffsets, rawOff)
	}

	if w.hasPreview {
		buf.align(4)
		off := uint32(buf.len())
		buf.write(w.previewJPEG)
		w.prevSub.setLong(tiff.TagJPEGInterchangeFormat, w.order, off)
		w.prevSub.setLong(tiff.TagJPEGInterchangeFormatLen, w.order, uint32(len(w.previewJPEG)))
		prevOff, err := w.prevSub.flush(buf, w.order, 0)
		if err != nil {
			return err
		}
		subIFDOffsets = append(subIFDOffsets, prevOff)
	}

	if len(subIFDOffsets) > 0 {
		w.root.setLong(tiff.TagSubIFDs, w.order, subIFDOffsets...)
	}

	if w.thumbJPEG != nil {
		buf.align(4)
		off := uint32(buf.len())
		buf.write(w.thumbJPEG)
		w.root.setLong(tiff.TagJPEGInterchangeFormat, w.order, off)
		w.root.setLong(tiff.TagJPEGInterchangeFormatLen, w.order, uint32(len(w.thumbJPEG)))
	}

	if w.originalJob != nil {
		blob, digest, err := w.originalJob.wait()
		if err != nil {
			return err
		}
		buf.align(4)
		off := uint32(buf.len())
		buf.write(blob)
		w.root.setLong(tiff.TagOriginalRawFileData, w.order, off)
		w.root.setASCII(tiff.TagOriginalRawFileName, w.originalJob.name)
		w.root.setUndefined(tiff.TagOriginalRawFileDigest, digest[:])
	}

	// The Exif IFD is always present (even if empty beyond ExifVersion)
	// so the root can always carry an ExifIFDPointer, matching the
	// minimal-DNG reference layout.
	if _, ok := w.exif.entries[tiff.TagExifVersion]; !ok {
		w.exif.setUndefined(tiff.TagExifVersion, []byte("0220"))
	}
	exifOff, err := w.exif.flush(buf, w.order, 0)
	if err != nil {
		return err
	}
	w.root.setLong(tiff.TagExifIFD, w.order, exifOff)

	if w.hasGPS {
		gpsOff, err := w.gps.flush(buf, w.order, 0)
		if err != nil {
			return err
		}
		w.root.setLong(tiff.TagGPSIFD, w.order, gpsOff)
	}

	w.root.setByte(tiff.TagDNGVersion, currentVersion[:]...)
	w.root.setByte(tiff.TagDNGBackwardVersion, w.backward[:]...)

	rootOff, err := w.root.flush(buf, w.order, 0)
	if err != nil {
		return err
	}

	body := buf.bytes()
	w.order.put32(body, 4, rootOff)

	_, err = out.Write(body)
	return err
}
