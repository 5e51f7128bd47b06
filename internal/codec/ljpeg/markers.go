package ljpeg

const (
	markerSOI = 0xD8
	markerSOF3 = 0xC3
	markerDHT = 0xC4
	markerSOS = 0xDA
	markerEOI = 0xD9
)

// Frame describes the geometry parsed from (or written to) SOF3/SOS.
type Frame struct {
	Precision  int
	Width      int
	Height     int
	Components int
	Predictor  int // Ss from SOS; selects the prediction formula (1-8)
}

func readUint16BE(b []byte, i int) int { return int(b[i])<<8 | int(b[i+1]) }

func putUint16BE(b []byte, i, v int) { b[i] = byte(v >> 8); b[i+1] = byte(v) }
