package ibdbin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWidthReads(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	assert.Equal(t, uint32(0x03040506), U32(buf, 2))
	assert.Equal(t, uint16(0x0102), U16(buf, 0))
	assert.Equal(t, uint64(0x0102030405060708), U64(buf, 0))
}

func TestU48U56(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22}
	assert.Equal(t, uint64(0xAABBCCDDEEFF), U48(buf, 0))
	assert.Equal(t, uint64(0xAABBCCDDEEFF11), U56(buf, 0))
}

func TestReadCompressedU32(t *testing.T) {
	v, n := ReadCompressedU32([]byte{0x05})
	assert.Equal(t, uint32(5), v)
	assert.Equal(t, 1, n)

	v, n = ReadCompressedU32([]byte{0x81, 0x02})
	assert.Equal(t, uint32(1)<<8|2, v)
	assert.Equal(t, 2, n)

	v, n = ReadCompressedU32([]byte{0xFF, 0x00, 0x00, 0x01, 0x00})
	assert.Equal(t, uint32(0x00000100), v)
	assert.Equal(t, 5, n)
}

func TestSignFlip(t *testing.T) {
	// -1 stored with sign-flip: top bit of unflipped 0xFFFFFFFF is 1,
	// flipped form XORs the top bit off.
	stored := []byte{0x7F, 0xFF, 0xFF, 0xFF}
	assert.Equal(t, int32(-1), UnpackI32(stored))

	storedZero := []byte{0x80, 0x00, 0x00, 0x00}
	assert.Equal(t, int32(0), UnpackI32(storedZero))
}

func TestNewDate(t *testing.T) {
	// 2023-05-17 packed as (signed[1]=0, year=2023, month=5, day=17)
	val := uint32(2023)<<9 | uint32(5)<<5 | uint32(17)
	buf := []byte{byte(val >> 16), byte(val >> 8), byte(val)}
	y, m, d, ok := NewDate(buf)
	require.True(t, ok)
	assert.Equal(t, 2023, y)
	assert.Equal(t, 5, m)
	assert.Equal(t, 17, d)
}

func TestDateTime2AllZero(t *testing.T) {
	_, ok := DateTime2([]byte{0, 0, 0, 0, 0})
	assert.False(t, ok)
}

func TestInflateRoundTrip(t *testing.T) {
	// Precomputed zlib stream for the literal string "hello".
	compressed := []byte{0x78, 0x9c, 0xcb, 0x48, 0xcd, 0xc9, 0xc9, 0x07, 0x00, 0x06, 0x2c, 0x02, 0x15}
	out, err := Inflate(compressed)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}
