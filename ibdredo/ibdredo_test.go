package ibdredo

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileHeader(t *testing.T) {
	buf := make([]byte, BlockSize)
	binary.BigEndian.PutUint32(buf[0:4], 7)
	binary.BigEndian.PutUint64(buf[8:16], 1024)
	copy(buf[16:48], []byte("MySQL 8.0.37"))

	h := ParseFileHeader(buf)
	assert.EqualValues(t, 7, h.GroupID)
	assert.EqualValues(t, 1024, h.StartLSN)
}

func TestCheckpointUnusedWhenChecksumZero(t *testing.T) {
	buf := make([]byte, BlockSize)
	c := ParseCheckpoint(buf)
	assert.True(t, c.IsUnused())
}

func TestParseRecordHeaderCompressedIDs(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = MlogSingleRecFlag | byte(MlogFileCreate)
	buf[1] = 0x05 // space id, one-byte compressed
	buf[2] = 0x0A // page no, one-byte compressed

	hdr := ParseRecordHeader(buf, 0)
	assert.True(t, hdr.SingleRecFlag)
	assert.Equal(t, MlogFileCreate, hdr.Type)
	assert.EqualValues(t, 5, hdr.SpaceID)
	assert.EqualValues(t, 10, hdr.PageNo)
	assert.Equal(t, 3, hdr.BytesConsumed)
}

func TestReaderOpenAndGetBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ib_logfile0")
	data := make([]byte, BlockSize*4)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.EqualValues(t, 4, r.BlockCount())
	buf, err := r.GetBlock(0)
	require.NoError(t, err)
	assert.Len(t, buf, BlockSize)

	_, err = r.GetBlock(4)
	assert.Error(t, err)
}

func TestOpenRejectsPartialBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(path, make([]byte, BlockSize+1), 0o644))
	_, err := Open(path)
	assert.Error(t, err)
}
