package ibdpage

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFspHdrPage(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, PageSize)
	binary.BigEndian.PutUint16(buf[24:26], 0) // placeholder, overwritten below
	// FIL header
	binary.BigEndian.PutUint16(buf[24:26], uint16(PageTypeFspHdr))
	binary.BigEndian.PutUint32(buf[34:38], 7) // space_id

	// FSP header space_id must match too
	a := fspHeaderAddr
	binary.BigEndian.PutUint32(buf[a:a+4], 7)
	binary.BigEndian.PutUint32(buf[a+8:a+12], 9) // fsp size

	// SDI meta
	binary.BigEndian.PutUint32(buf[sdiMetaAddr:sdiMetaAddr+4], 1)
	binary.BigEndian.PutUint32(buf[sdiMetaAddr+4:sdiMetaAddr+8], 4)

	// checksum agreement
	binary.BigEndian.PutUint32(buf[0:4], 0xDEADBEEF)
	binary.BigEndian.PutUint32(buf[PageSize-8:PageSize-4], 0xDEADBEEF)
	return buf
}

func TestParseHeaderAndChecksum(t *testing.T) {
	buf := buildFspHdrPage(t)
	h := ParseHeader(buf)
	assert.Equal(t, PageTypeFspHdr, h.PageType)
	assert.Equal(t, uint32(7), h.SpaceID)
	assert.True(t, ChecksumOK(buf))
}

func TestParseFSPHeaderAndSDIMeta(t *testing.T) {
	buf := buildFspHdrPage(t)
	fsp := ParseFSPHeader(buf)
	assert.Equal(t, uint32(7), fsp.SpaceID)
	assert.Equal(t, uint32(9), fsp.Size)

	meta := ParseSDIMeta(buf)
	assert.Equal(t, uint32(4), meta.PageNo)
}

func TestSourceOpenRejectsPartialPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ibd")
	require.NoError(t, os.WriteFile(path, make([]byte, PageSize+1), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestSourceGetPageOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one-page.ibd")
	require.NoError(t, os.WriteFile(path, buildFspHdrPage(t), 0o644))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.EqualValues(t, 1, src.PageCount())
	_, err = src.GetPage(1)
	assert.Error(t, err)

	buf, err := src.GetPage(0)
	require.NoError(t, err)
	assert.Len(t, buf, PageSize)
}

func TestXDesEntryFreeClean(t *testing.T) {
	buf := make([]byte, XDESEntrySize)
	// page 0 of the extent: free bit set, clean bit unset; page 1: both unset
	buf[24] = 0b0000_0001
	e := ParseXDESEntry(buf, 0)
	free0, clean0 := e.FreeClean(0)
	assert.True(t, free0)
	assert.False(t, clean0)
	free1, _ := e.FreeClean(1)
	assert.False(t, free1)
}

func TestINodeEntryLiveness(t *testing.T) {
	buf := make([]byte, INodeEntrySize)
	binary.BigEndian.PutUint32(buf[60:64], INodeMagicN)
	for i := 0; i < INodeEntryArrCount; i++ {
		binary.BigEndian.PutUint32(buf[FSegFragArrOffset+i*4:FSegFragArrOffset+i*4+4], FragPageNone)
	}
	binary.BigEndian.PutUint32(buf[FSegFragArrOffset:FSegFragArrOffset+4], 42)

	e := ParseINodeEntry(buf, 0)
	assert.True(t, e.IsLive())
	assert.Equal(t, []uint32{42}, e.FragPages())
}
