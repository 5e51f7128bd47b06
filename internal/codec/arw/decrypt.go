package arw

import "github.com/rawdng/rawdng/internal/bytesio"

// Decrypt reverses Sony's 128-word pad cipher over an SR2/ARW metadata
// block. The keystream is generated purely from the index and the key
// (never from the data being decrypted), so the cipher is its own
// inverse: calling Decrypt a second time with the same key on its own
// output reconstructs the original ciphertext.
func Decrypt(data []byte, key uint32) []byte {
	var pad [128]uint32
	pad[0] = key
	for i := 1; i < 4; i++ {
		pad[i] = pad[i-1]*48828125 + 1
	}
	pad[3] |= ((pad[0] ^ pad[2]) >> 31) << 1
	for i := 4; i < 128; i++ {
		pad[i] = ((pad[i-4] ^ pad[i-2]) << 1) | ((pad[i-3] ^ pad[i-1]) >> 31)
	}
	for i := range pad {
		pad[i] = swapBytes32(pad[i])
	}

	n := len(data) / 4
	out := make([]byte, len(data))
	copy(out, data)

	for i := 0; i < n; i++ {
		p := i & 127
		pad[p] = pad[(p+1)&127] ^ pad[(p+1+64)&127]
		keystream := pad[(i+127)&127]

		word := bytesio.LittleEndian.Uint32At(out, i*4)
		word ^= keystream
		bytesio.LittleEndian.PutUint32At(out, i*4, word)
	}
	return out
}

// Encrypt is the same transform as Decrypt: the keystream never depends on
// the data, only on index and key, so applying it twice with the same key
// returns the original bytes (encrypt(decrypt(ct, k), k) == ct).
func Encrypt(data []byte, key uint32) []byte { return Decrypt(data, key) }

func swapBytes32(v uint32) uint32 {
	return (v >> 24) | ((v >> 8) & 0xFF00) | ((v << 8) & 0xFF0000) | (v << 24)
}
