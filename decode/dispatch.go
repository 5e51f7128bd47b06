package decode

import (
	"bytes"

	"github.com/rawdng/rawdng/camera"
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/bmff"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/rawerr"
)

// Dispatch sniffs src's container and returns the Decoder that
// understands it. The sniffing order mirrors the priority a reader needs
// to avoid false positives: magic-prefixed legacy containers first, then
// the ISO-BMFF family, then TIFF (branching on vendor tells baked into
// its root IFD), and finally a naked-file-size fallback against reg.
func Dispatch(src bytesio.RawSource, reg *camera.Registry) (d Decoder, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = rawerr.Newf(rawerr.General, "decode: panic while dispatching: %v", r)
		}
	}()

	head, herr := src.Slice(0, 16)
	if herr != nil {
		return nil, rawerr.Wrap(rawerr.IO, herr, "decode: failed to read file header")
	}

	// 1. Minolta MRW: "\0MRM" magic.
	if bytes.HasPrefix(head, []byte("\x00MRM")) {
		return newMRWDecoder(src)
	}

	// 2. Canon CIFF/CRW: "HEAPCCDR" at offset 6 (byte-order mark and a
	// 4-byte header length precede it).
	if len(head) >= 14 && bytes.Equal(head[6:14], []byte("HEAPCCDR")) {
		return newCRWDecoder(src)
	}

	// 3. ARRI ARI: "ARRI" magic.
	if bytes.HasPrefix(head, []byte("ARRI")) {
		return newARIDecoder(src)
	}

	// 4. Sigma X3F: "FOVb" magic.
	if bytes.HasPrefix(head, []byte("FOVb")) {
		return newX3FDecoder(src)
	}

	// 4b. Fujifilm RAF carries its own framed header, not TIFF-rooted;
	// not part of the upstream sniff order but needed to place RAF in
	// the representative vendor set.
	if len(head) >= 15 && bytes.Equal(head[0:15], []byte("FUJIFILMCCD-RAW")) {
		return newRAFDecoder(src)
	}

	// 5. ISO-BMFF / CR3: size+type atom sequence whose ftyp box declares
	// the "crx " compatible brand.
	if looksLikeBMFF(head) {
		full, ferr := src.ReadAll()
		if ferr == nil {
			boxes, berr := bmff.ParseTop(full)
			if berr == nil {
				if ftyp, ok := bmff.Find(boxes, "ftyp"); ok && bmff.IsCR3(ftyp) {
					return newCR3Decoder(src, boxes)
				}
			}
		}
	}

	// 6. TIFF magic, branching on vendor tells in the root IFD.
	if bytes.HasPrefix(head, []byte(tiff.LEHeader)) || bytes.HasPrefix(head, []byte(tiff.BEHeader)) {
		return dispatchTIFF(src, reg)
	}

	// 7. Naked sensor dump: match by exact file size against the camera
	// registry.
	if reg != nil {
		if cams := reg.BySize(src.Len()); len(cams) > 0 {
			return newNakedDecoder(src, cams[0])
		}
	}

	return nil, rawerr.New(rawerr.Unsupported, "decode: no decoder recognizes this file")
}

func looksLikeBMFF(head []byte) bool {
	return len(head) >= 8 && string(head[4:8]) == "ftyp"
}

// dispatchTIFF opens the TIFF chain and chooses a vendor decoder from
// well-known tells: DNGVersion marks a DNG outright, a handful of
// Make/Model/Software strings identify early TIFF-based raw formats that
// predate or forgo a private vendor tag, and everything else falls back
// to Make-string matching against the representative vendor set.
func dispatchTIFF(src bytesio.RawSource, reg *camera.Registry) (Decoder, error) {
	reader, first, err := tiff.NewReader(src, 0, tiff.TagSubIFDs, tiff.TagExifIFD, tiff.TagGPSIFD)
	if err != nil {
		return nil, err
	}
	chain, err := reader.ReadChain(first)
	if err != nil {
		return nil, err
	}
	root := rootIFD(chain)
	if root == nil {
		return nil, rawerr.New(rawerr.DecoderFailed, "decode: TIFF file has no directories")
	}

	if _, ok := root.Get(tiff.TagDNGVersion); ok {
		return newDNGDecoder(src, reader, chain), nil
	}

	model := ""
	if e, ok := root.Get(tiff.TagModel); ok {
		model = e.ASCII()
	}
	if model == "DCS560C" {
		return newTIFFDecoder(src, reader, chain, FormatGenericTIFF), nil
	}

	software := ""
	if e, ok := root.Get(tiff.TagSoftware); ok {
		software = e.ASCII()
	}
	if software == "Camera Library" {
		return newTIFFDecoder(src, reader, chain, FormatGenericTIFF), nil
	}

	make_ := ""
	if e, ok := root.Get(tiff.TagMake); ok {
		make_ = e.ASCII()
	}

	var d *tiffDecoder
	switch {
	case containsFold(make_, "Canon"):
		d = newCR2Decoder(src, reader, chain)
	case containsFold(make_, "Nikon"):
		d = newNEFDecoder(src, reader, chain)
	case containsFold(make_, "Sony"):
		d = newARWDecoder(src, reader, chain)
	case containsFold(make_, "Olympus"):
		d = newORFDecoder(src, reader, chain)
	case containsFold(make_, "Panasonic"), containsFold(make_, "LEICA"):
		d = newRW2Decoder(src, reader, chain)
	case containsFold(make_, "PENTAX"), containsFold(make_, "RICOH"):
		d = newPEFDecoder(src, reader, chain)
	case containsFold(make_, "SAMSUNG"):
		d = newSRWDecoder(src, reader, chain)
	default:
		d = newTIFFDecoder(src, reader, chain, FormatGenericTIFF)
	}

	if reg != nil && make_ != "" {
		if cam, err := reg.Lookup(make_, model, ""); err == nil {
			d.cam = cam
		}
	}
	return d, nil
}

func containsFold(s, substr string) bool {
	return bytes.Contains(bytes.ToLower([]byte(s)), bytes.ToLower([]byte(substr)))
}
