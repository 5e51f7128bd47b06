package decode

import (
	"bytes"
	"io"
	"math/big"

	"golang.org/x/image/tiff/lzw"

	"github.com/rawdng/rawdng/camera"
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/codec/ljpeg"
	"github.com/rawdng/rawdng/internal/codec/packed"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// tiffDecoder is the generic TIFF-rooted raw decoder every representative
// vendor decoder embeds, overriding only the unpack hook when its format
// needs vendor-specific unpacking. Used directly (via newTIFFDecoder) for the vendors whose files
// need nothing beyond generic TIFF/EXIF handling.
type tiffDecoder struct {
	// src is the source the reader/chain were parsed from. Entry offsets
	// stored in the chain's directories are only meaningful against this
	// exact source (it may be an embedded sub-buffer, e.g. an MRW file's
	// TTW block, rather than the top-level file), so every read goes
	// through it instead of whatever source a caller happens to pass to a
	// Decoder method.
	src    bytesio.RawSource
	reader *tiff.Reader
	chain  *tiff.Chain
	root   *tiff.IFD
	rawDir *tiff.IFD
	cam    *camera.Camera
	hint   FormatHint

	// unpack overrides the generic packed/LJPEG dispatch in RawImage when
	// a vendor needs its own codec (ARW1/ARW2, Panasonic RW2, CR2/NEF
	// LJPEG, ...).
	unpack func(src bytesio.RawSource, p Params, dir *tiff.IFD, g geometry) ([]uint16, error)
}

func newTIFFDecoder(src bytesio.RawSource, reader *tiff.Reader, chain *tiff.Chain, hint FormatHint) *tiffDecoder {
	root := rootIFD(chain)
	return &tiffDecoder{src: src, reader: reader, chain: chain, root: root, rawDir: findRawIFD(root), hint: hint}
}

func (d *tiffDecoder) FormatHint() FormatHint { return d.hint }

func (d *tiffDecoder) IFD(wellKnown uint16) (*tiff.IFD, error) {
	if d.root == nil {
		return nil, rawerr.New(rawerr.Unsupported, "decode: no root directory")
	}
	if subs := d.root.Sub[wellKnown]; len(subs) > 0 {
		return subs[0], nil
	}
	return nil, rawerr.Newf(rawerr.Unsupported, "decode: no sub-IFD for tag %d", wellKnown)
}

func (d *tiffDecoder) RawMetadata(_ bytesio.RawSource, p Params) (*raw.RawMetadata, error) {
	return buildMetadata(d.root), nil
}

func (d *tiffDecoder) XPacket(_ bytesio.RawSource, p Params) ([]byte, error) {
	return readXPacket(d.src, d.root)
}

func (d *tiffDecoder) ThumbnailImage(_ bytesio.RawSource, p Params) (*DynamicImage, error) {
	return findThumbnail(d.src, d.chain.IFDs, 64*1024)
}

func (d *tiffDecoder) FullImage(_ bytesio.RawSource, p Params) (*DynamicImage, error) {
	return findThumbnail(d.src, d.chain.IFDs, 0)
}

func (d *tiffDecoder) RawImage(_ bytesio.RawSource, p Params, dummy bool) (*raw.RawImage, error) {
	if d.rawDir == nil {
		return nil, rawerr.New(rawerr.DecoderFailed, "decode: no raw directory found")
	}
	g, err := readGeometry(d.rawDir)
	if err != nil {
		return nil, err
	}

	img := &raw.RawImage{
		Width:    g.Width,
		Height:   g.Height,
		CPP:      g.SamplesPerPixel,
		BitDepth: g.BitsPerSample,
	}
	if e, ok := d.root.Get(tiff.TagMake); ok {
		img.Make = e.ASCII()
	}
	if e, ok := d.root.Get(tiff.TagModel); ok {
		img.Model = e.ASCII()
	}
	img.Orientation = raw.OrientationNormal
	if e, ok := d.root.Get(tiff.TagOrientation); ok {
		img.Orientation = raw.Orientation(e.First())
	}

	applyCameraCalibration(img, d.cam)
	applyDNGCalibration(img, d.rawDir)

	if dummy {
		return img, nil
	}

	var samples []uint16
	if d.unpack != nil {
		samples, err = d.unpack(d.src, p, d.rawDir, g)
	} else {
		samples, err = d.genericUnpack(d.src, p, d.rawDir, g)
	}
	if err != nil {
		return nil, err
	}
	img.Data = raw.PlaneU16(samples)
	return img, nil
}

func (d *tiffDecoder) genericUnpack(src bytesio.RawSource, p Params, dir *tiff.IFD, g geometry) ([]uint16, error) {
	strip, err := readStrips(src, dir)
	if err != nil {
		return nil, err
	}
	return decodePackedOrLJPEG(p, strip, g, packedOptionsFromGeometry(g))
}

// packedOptionsFromGeometry builds the packed.Options a generic
// uncompressed raw directory implies from its own tags, before a
// vendor-specific unpack hook layers registry hints on top.
func packedOptionsFromGeometry(g geometry) packed.Options {
	return packed.Options{Width: g.Width, Height: g.Height, BitWidth: g.BitsPerSample}
}

// decodePackedOrLJPEG dispatches on the TIFF Compression tag, the shared
// tail end of every vendor's unpack hook once it has applied its own
// bit-layout options.
func decodePackedOrLJPEG(p Params, strip []byte, g geometry, opts packed.Options) ([]uint16, error) {
	switch g.Compression {
	case tiff.CNone:
		return packed.Decode(p.Pool, strip, opts)
	case tiff.CJPEG, tiff.CJPEGOld:
		_, samples, err := ljpeg.Decode(p.Pool, strip)
		return samples, err
	case tiff.CLZW:
		decompressed, err := decompressLZW(strip)
		if err != nil {
			return nil, err
		}
		return packed.Decode(p.Pool, decompressed, opts)
	default:
		return nil, rawerr.Newf(rawerr.Unsupported, "decode: unsupported compression %d", g.Compression)
	}
}

// decompressLZW inflates a TIFF-variant LZW strip (MSB-first codes, early
// code-width change, matching x/image/tiff/lzw's Order/litWidth the same
// way mdouchement-tiff's own decoder.go drives this package).
func decompressLZW(strip []byte) ([]byte, error) {
	r := lzw.NewReader(bytes.NewReader(strip), lzw.MSB, 8)
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, rawerr.Wrap(rawerr.DecoderFailed, err, "decode: LZW strip decompression failed")
	}
	return out, nil
}

// applyCameraCalibration copies the registry-sourced static configuration
// onto img when a camera entry was resolved; decoders that only have a
// DNG's self-describing tags to work with pass a nil cam.
func applyCameraCalibration(img *raw.RawImage, cam *camera.Camera) {
	if cam == nil {
		return
	}
	img.CleanMake = cam.CleanMake
	img.CleanModel = cam.CleanModel
	img.WhiteLevel = cam.WhiteLevels
	if cfa, err := cam.CFA(); err == nil {
		img.CFA = cfa
	}
	img.ColorMatrices = cam.ColorMatrices
	img.ActiveArea = cam.ActiveArea()
	bl := make([]*big.Rat, 4)
	for i, v := range cam.BlackLevels {
		bl[i] = big.NewRat(int64(v), 1)
	}
	img.BlackLevel = raw.BlackLevel{Height: 2, Width: 2, Levels: bl}
}

// applyDNGCalibration overrides/fills in from a raw directory's own DNG
// tags when present, taking precedence over registry defaults since a
// self-describing file is authoritative about its own sensor.
func applyDNGCalibration(img *raw.RawImage, dir *tiff.IFD) {
	if dir == nil {
		return
	}
	if e, ok := dir.Get(tiff.TagActiveArea); ok && e.Count == 4 {
		v := e.Int()
		img.ActiveArea = raw.Rect{Top: int(v[0]), Left: int(v[1]), Bottom: int(v[2]), Right: int(v[3])}
	}
	if e, ok := dir.Get(tiff.TagWhiteLevel); ok {
		for i := 0; i < len(img.WhiteLevel) && i < int(e.Count); i++ {
			img.WhiteLevel[i] = uint16(e.Int()[i])
		}
	}
	if e, ok := dir.Get(tiff.TagDefaultCropOrigin); ok && e.Count == 2 {
		img.CropOrigin = [2]int{int(e.First()), int(e.Int()[1])}
	}
	if e, ok := dir.Get(tiff.TagDefaultCropSize); ok && e.Count == 2 {
		img.CropSize = [2]int{int(e.First()), int(e.Int()[1])}
	}
	if e, ok := dir.Get(tiff.TagBlackLevel); ok {
		dims := [2]int64{1, 1}
		if rd, ok := dir.Get(tiff.TagBlackLevelRepeatDim); ok && rd.Count == 2 {
			dims = [2]int64{rd.Int()[0], rd.Int()[1]}
		}
		levels := make([]*big.Rat, e.Count)
		for i := 0; i < int(e.Count); i++ {
			levels[i] = e.Rat(i)
		}
		img.BlackLevel = raw.BlackLevel{Height: int(dims[0]), Width: int(dims[1]), Levels: levels}
	}
	if e, ok := dir.Get(tiff.TagColorMatrix1); ok {
		img.ColorMatrices = append(img.ColorMatrices, colorMatrixFrom(e, raw.IlluminantD65))
	}
	if e, ok := dir.Get(tiff.TagColorMatrix2); ok {
		img.ColorMatrices = append(img.ColorMatrices, colorMatrixFrom(e, raw.IlluminantTungsten))
	}
	if e, ok := dir.Get(tiff.TagAsShotNeutral); ok {
		for i := 0; i < len(img.WhiteBalance) && i < int(e.Count); i++ {
			f, _ := e.Rat(i).Float64()
			if f != 0 {
				img.WhiteBalance[i] = 1.0 / f
			}
		}
	}
	if e, ok := dir.Get(tiff.TagMaskedAreas); ok {
		v := e.Int()
		for i := 0; i+3 < len(v); i += 4 {
			img.MaskedAreas = append(img.MaskedAreas, raw.Rect{Top: int(v[i]), Left: int(v[i+1]), Bottom: int(v[i+2]), Right: int(v[i+3])})
		}
	}
	if e, ok := dir.Get(tiff.TagCFAPattern); ok {
		if pat, err := cfaPatternFromBytes(e.Bytes()); err == nil {
			if cfa, err := raw.NewCFA(pat); err == nil {
				img.CFA = cfa
			}
		}
	}
}

func colorMatrixFrom(e tiff.Entry, ill raw.Illuminant) raw.ColorMatrix {
	flat := make([]float64, e.Count)
	for i := range flat {
		flat[i] = e.Float(i)
	}
	return raw.ColorMatrix{Illuminant: ill, Flat: flat, Columns: 3}
}

// cfaPatternFromBytes maps a TIFF CFAPattern byte array (0=R,1=G,2=B,3=C/E)
// to the R/G/B/E letter string raw.NewCFA expects.
func cfaPatternFromBytes(b []byte) (string, error) {
	letters := []byte("RGBE")
	out := make([]byte, len(b))
	for i, c := range b {
		if int(c) >= len(letters) {
			return "", rawerr.Newf(rawerr.General, "decode: CFAPattern byte %d out of range", c)
		}
		out[i] = letters[c]
	}
	return string(out), nil
}
