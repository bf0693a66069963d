package ibdrec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeanhwea/ibdread/ibdpage"
	"github.com/Jeanhwea/ibdread/ibdsdi"
)

// buildEmptyLeafPage builds a minimal compact-format leaf index page with
// zero user records: infimum linking straight to supremum.
func buildEmptyLeafPage(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, ibdpage.PageSize)
	binary.BigEndian.PutUint16(buf[24:26], uint16(ibdpage.PageTypeIndex))

	a := indexHeaderOffset
	binary.BigEndian.PutUint16(buf[a:a+2], 2) // n_dir_slots
	nHeap := uint16(2) | 0x8000               // compact format, 2 system records
	binary.BigEndian.PutUint16(buf[a+4:a+6], nHeap)
	binary.BigEndian.PutUint16(buf[a+16:a+18], 0) // n_recs = 0
	binary.BigEndian.PutUint16(buf[a+26:a+28], 0) // level = 0 (leaf)

	// infimum record header at InfimumAddr-5..InfimumAddr, next_rec_offset
	// points straight at supremum.
	infHdrAddr := InfimumAddr - 5
	buf[infHdrAddr] = 0 // info_bits=0, n_owned=0
	binary.BigEndian.PutUint16(buf[infHdrAddr+1:infHdrAddr+3], uint16(StatusInfimum))
	delta := int16(SupremumAddr - InfimumAddr)
	binary.BigEndian.PutUint16(buf[infHdrAddr+3:infHdrAddr+5], uint16(delta))

	// directory slots: slot0 -> infimum, slot1 -> supremum
	trailerStart := len(buf) - ibdpage.FilTrailerSize
	binary.BigEndian.PutUint16(buf[trailerStart-2:trailerStart], uint16(SupremumAddr))
	binary.BigEndian.PutUint16(buf[trailerStart-4:trailerStart-2], uint16(InfimumAddr))

	return buf
}

func TestParseIndexPageEmptyWalk(t *testing.T) {
	buf := buildEmptyLeafPage(t)
	page, err := ParseIndexPage(buf)
	require.NoError(t, err)
	assert.True(t, page.IsLeaf())
	assert.EqualValues(t, 0, page.IndexHdr.NRecs)

	visited := 0
	err = page.WalkUserRecords(func(addr int) error {
		visited++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, visited)
}

// buildOneRecordLeafPage builds a minimal compact-format leaf index page
// with a single user record between infimum and supremum.
func buildOneRecordLeafPage(t *testing.T) (buf []byte, recordAddr int) {
	t.Helper()
	buf = make([]byte, ibdpage.PageSize)
	binary.BigEndian.PutUint16(buf[24:26], uint16(ibdpage.PageTypeIndex))

	a := indexHeaderOffset
	binary.BigEndian.PutUint16(buf[a:a+2], 2) // n_dir_slots
	nHeap := uint16(3) | 0x8000                // compact format, 2 system + 1 user record
	binary.BigEndian.PutUint16(buf[a+4:a+6], nHeap)
	binary.BigEndian.PutUint16(buf[a+16:a+18], 1) // n_recs = 1
	binary.BigEndian.PutUint16(buf[a+26:a+28], 0) // level = 0 (leaf)

	recordAddr = 140

	// infimum -> record
	infHdrAddr := InfimumAddr - 5
	buf[infHdrAddr] = 0
	binary.BigEndian.PutUint16(buf[infHdrAddr+1:infHdrAddr+3], uint16(StatusInfimum))
	binary.BigEndian.PutUint16(buf[infHdrAddr+3:infHdrAddr+5], uint16(int16(recordAddr-InfimumAddr)))

	// record -> supremum
	recHdrAddr := recordAddr - 5
	buf[recHdrAddr] = 0
	binary.BigEndian.PutUint16(buf[recHdrAddr+1:recHdrAddr+3], uint16(StatusOrdinary))
	binary.BigEndian.PutUint16(buf[recHdrAddr+3:recHdrAddr+5], uint16(int16(SupremumAddr-recordAddr)))

	trailerStart := len(buf) - ibdpage.FilTrailerSize
	binary.BigEndian.PutUint16(buf[trailerStart-2:trailerStart], uint16(SupremumAddr))
	binary.BigEndian.PutUint16(buf[trailerStart-4:trailerStart-2], uint16(InfimumAddr))

	return buf, recordAddr
}

func TestParseIndexPageWalksOneUserRecord(t *testing.T) {
	buf, recordAddr := buildOneRecordLeafPage(t)
	page, err := ParseIndexPage(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.IndexHdr.NRecs)

	var visited []int
	err = page.WalkUserRecords(func(addr int) error {
		visited = append(visited, addr)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{recordAddr}, visited)
}

func TestParseIndexPageRejectsRedundant(t *testing.T) {
	buf := make([]byte, ibdpage.PageSize)
	a := indexHeaderOffset
	binary.BigEndian.PutUint16(buf[a+4:a+6], 2) // top bit unset => REDUNDANT
	_, err := ParseIndexPage(buf)
	assert.Error(t, err)
}

func TestNullBitAndVarLen(t *testing.T) {
	buf := make([]byte, 32)
	areaEnd := 20
	// mark bit k=3 (byte areaEnd-1, bit 3) as null
	buf[areaEnd-1] = 1 << 3
	assert.True(t, nullBit(buf, areaEnd, 3))
	assert.False(t, nullBit(buf, areaEnd, 2))

	// one-byte var len
	buf[areaEnd-2] = 10
	length, cursor := readVarLen(buf, areaEnd-1, 100)
	assert.Equal(t, 10, length)
	assert.Equal(t, areaEnd-2, cursor)

	// two-byte var len: declared max > 127, high bit set on b0
	buf[10] = 0x81 // high bit set, low 7 bits = 1
	buf[9] = 0x02
	length, cursor = readVarLen(buf, 11, 300)
	assert.Equal(t, (1<<8)|2, length)
	assert.Equal(t, 9, cursor)
}

func TestDecodeRecordRowVersionGating(t *testing.T) {
	buf := make([]byte, ibdpage.PageSize)
	p := 200

	// one nullable-free, non-variable LONG column, version_added=0, dropped=0
	cols := []ibdsdi.ColumnDef{
		{Position: 0, Name: "a", Type: ibdsdi.ColLong, DataLen: 4},
		{Position: 1, Name: "dropped_col", Type: ibdsdi.ColLong, DataLen: 4, VersionDropped: 1},
		{Position: 2, Name: "added_later", Type: ibdsdi.ColLong, DataLen: 4, VersionAdded: 5, DefaultValue: []byte{0, 0, 0, 0}},
	}
	idx := &ibdsdi.IndexDef{
		NullAreaBytes: 0,
		Elements: []ibdsdi.IndexElement{
			{ColumnIndex: 0, Length: 4},
			{ColumnIndex: 1, Length: 4},
			{ColumnIndex: 2, Length: 4},
		},
	}

	// record header: info_bits=0 (no VERSION flag), status ORDINARY
	binary.BigEndian.PutUint32(buf[p:p+4], 0x80000007) // sign-flipped value for 7
	hdrAddr := p - 5
	buf[hdrAddr] = 0
	binary.BigEndian.PutUint16(buf[hdrAddr+1:hdrAddr+3], uint16(StatusOrdinary))
	binary.BigEndian.PutUint16(buf[hdrAddr+3:hdrAddr+5], 0)

	rec, err := DecodeRecord(buf, p, idx, cols)
	require.NoError(t, err)
	require.Len(t, rec.Datums, 2) // dropped column is omitted entirely
	assert.Equal(t, "a", rec.Datums[0].Column.Name)
	assert.Equal(t, int32(7), rec.Datums[0].Value)
	assert.Equal(t, "added_later", rec.Datums[1].Column.Name)
	assert.True(t, rec.Datums[1].IsDefault)
}
