package ibdsdi

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCollationFallback(t *testing.T) {
	c := ResolveCollation(8)
	assert.Equal(t, "latin1_swedish_ci", c.Name)

	unknown := ResolveCollation(999999)
	assert.Equal(t, "unknown", unknown.Name)
}

func TestParseSDIDataHeader(t *testing.T) {
	buf := make([]byte, SDIDataHeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], 1)
	binary.BigEndian.PutUint64(buf[4:12], 42)
	binary.BigEndian.PutUint32(buf[25:29], 100)
	binary.BigEndian.PutUint32(buf[29:33], 50)

	h := ParseSDIDataHeader(buf, 0)
	assert.EqualValues(t, 1, h.DataType)
	assert.EqualValues(t, 42, h.DataID)
	assert.EqualValues(t, 100, h.UncompLen)
	assert.EqualValues(t, 50, h.CompLen)
}

func TestParseTableDefsBuildsIndexNullOffsets(t *testing.T) {
	entry := `{
		"type": 1,
		"id": 1,
		"dd_object": {
			"name": "departments",
			"schema_ref": "employees",
			"collation_id": 45,
			"columns": [
				{"ordinal_position": 1, "name": "dept_no", "type": 253, "is_nullable": false, "column_key": 1, "char_length": 4},
				{"ordinal_position": 2, "name": "dept_name", "type": 253, "is_nullable": true, "char_length": 40}
			],
			"indexes": [
				{"ordinal_position": 1, "name": "PRIMARY", "type": 0, "algorithm": 1,
				 "elements": [
					{"ordinal_position": 1, "length": 4, "order": 1, "column_opx": 0},
					{"ordinal_position": 2, "length": 40, "order": 1, "column_opx": 1}
				 ]}
			]
		}
	}`

	defs, err := ParseTableDefs([]string{entry})
	require.NoError(t, err)
	require.Len(t, defs, 1)

	td := defs[0]
	assert.Equal(t, "departments", td.Name)
	require.Len(t, td.Indexes, 1)
	idx := td.Indexes[0]
	assert.Equal(t, 1, idx.NullAreaBytes)
	assert.False(t, idx.Elements[0].Nullable)
	assert.True(t, idx.Elements[1].Nullable)
	assert.Equal(t, 0, idx.Elements[1].NullOffset)
}

func TestParseTableDefsWiresVersionAndDefault(t *testing.T) {
	entry := `{
		"type": 1,
		"id": 1,
		"dd_object": {
			"name": "employees",
			"schema_ref": "employees",
			"collation_id": 45,
			"columns": [
				{"ordinal_position": 1, "name": "emp_no", "type": 3, "is_nullable": false, "column_key": 1, "char_length": 4},
				{"ordinal_position": 2, "name": "middle_name", "type": 253, "is_nullable": true, "char_length": 20,
				 "default_value_utf8": "N/A", "se_private_data": "version_added=2;"},
				{"ordinal_position": 3, "name": "legacy_flag", "type": 1, "is_nullable": true, "char_length": 1,
				 "se_private_data": "version_added=0;version_dropped=3;"}
			],
			"indexes": [
				{"ordinal_position": 1, "name": "PRIMARY", "type": 0, "algorithm": 1,
				 "elements": [
					{"ordinal_position": 1, "length": 4, "order": 1, "column_opx": 0}
				 ]}
			]
		}
	}`

	defs, err := ParseTableDefs([]string{entry})
	require.NoError(t, err)
	require.Len(t, defs, 1)

	cols := defs[0].Columns
	require.Len(t, cols, 3)
	assert.Equal(t, 0, cols[0].VersionAdded)
	assert.Equal(t, 0, cols[0].VersionDropped)
	assert.Equal(t, 2, cols[1].VersionAdded)
	assert.Equal(t, "N/A", string(cols[1].DefaultValue))
	assert.Equal(t, 0, cols[2].VersionAdded)
	assert.Equal(t, 3, cols[2].VersionDropped)
}

func TestExtractRecordsInflatesAndValidatesLength(t *testing.T) {
	var compBuf bytes.Buffer
	w := zlib.NewWriter(&compBuf)
	_, err := w.Write([]byte(`{"type":1,"id":1,"dd_object":{"name":"t"}}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	page := make([]byte, 4096)
	addr := 100
	binary.BigEndian.PutUint32(page[addr+25:addr+29], uint32(len(`{"type":1,"id":1,"dd_object":{"name":"t"}}`)))
	binary.BigEndian.PutUint32(page[addr+29:addr+33], uint32(compBuf.Len()))
	copy(page[addr+SDIDataHeaderSize:], compBuf.Bytes())

	payloads, err := ExtractRecords(page, func(visit func(addr int) error) error {
		return visit(addr)
	})
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Contains(t, payloads[0], `"name":"t"`)
}
