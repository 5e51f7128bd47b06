package arw_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/codec/arw"
)

func TestDecryptIsInvolution(t *testing.T) {
	ciphertext := make([]byte, 256)
	for i := range ciphertext {
		ciphertext[i] = byte(i * 7)
	}
	const key = 0xDEADBEEF

	once := arw.Decrypt(ciphertext, key)
	require.NotEqual(t, ciphertext, once)

	twice := arw.Encrypt(once, key)
	assert.Equal(t, ciphertext, twice)
}

func TestTagCipherRoundTrip(t *testing.T) {
	var data [256]byte
	for i := range data {
		data[i] = byte(i)
	}
	encoded := arw.CipherEncode(data[:])
	decoded := arw.CipherDecode(encoded)
	assert.Equal(t, data[:], decoded)
}
