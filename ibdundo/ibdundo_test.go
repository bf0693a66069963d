package ibdundo

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordHeaderFlags(t *testing.T) {
	buf := make([]byte, 16)
	addr := 8
	binary.BigEndian.PutUint16(buf[addr-2:addr], 4)
	binary.BigEndian.PutUint16(buf[addr:addr+2], 12)
	buf[addr+2] = byte(UndoTypeUpdExistRec) | ExtraModifyBlob | (uint8(CmplNoSizeChange) << 4)

	hdr := ParseRecordHeader(buf, addr)
	assert.EqualValues(t, 4, hdr.PrevRecOffset)
	assert.EqualValues(t, 12, hdr.NextRecOffset)
	assert.Equal(t, UndoTypeUpdExistRec, hdr.Type)
	assert.Equal(t, CmplNoSizeChange, hdr.CmplInfo)
	assert.EqualValues(t, ExtraModifyBlob, hdr.ExtraFlags)
}

func TestParseRecordHeaderCmplInfoMultSurvives(t *testing.T) {
	buf := make([]byte, 16)
	addr := 8
	// cmpl_info bits (4-5) hold NoOrdChange(1); that is bit 0x10, the same
	// bit as the CMPL_INFO_MULT extra flag, so both read back as set.
	buf[addr+2] = byte(UndoTypeDelMarkRec) | ExtraCmplInfoMult | (uint8(CmplNoOrdChange) << 4)

	hdr := ParseRecordHeader(buf, addr)
	assert.Equal(t, UndoTypeDelMarkRec, hdr.Type)
	assert.Equal(t, CmplNoOrdChange, hdr.CmplInfo)
	assert.EqualValues(t, ExtraCmplInfoMult, hdr.ExtraFlags)
}

func TestParseLogHeaderWithXA(t *testing.T) {
	buf := make([]byte, 256)
	addr := 10
	binary.BigEndian.PutUint64(buf[addr:addr+8], 555)
	buf[addr+20] = UndoFlagXID
	binary.BigEndian.PutUint32(buf[addr+historyNodeOffset+12:addr+historyNodeOffset+16], 7) // xa_format

	h := ParseLogHeader(buf, addr)
	assert.EqualValues(t, 555, h.TrxID)
	require.NotNil(t, h.XA)
	assert.EqualValues(t, 7, h.XA.XaFormat)
}

func TestParseLogHeaderWithoutXA(t *testing.T) {
	buf := make([]byte, 256)
	h := ParseLogHeader(buf, 0)
	assert.Nil(t, h.XA)
}

func TestWalkPageStopsAtZero(t *testing.T) {
	buf := make([]byte, 64)
	// record at 20 -> next 40 -> next 0
	binary.BigEndian.PutUint16(buf[20:22], 40)
	binary.BigEndian.PutUint16(buf[40:42], 0)

	var visited []int
	err := WalkPage(buf, 20, func(addr int, hdr RecordHeader) error {
		visited = append(visited, addr)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{20, 40}, visited)
}
