package ibdrec

import (
	"github.com/Jeanhwea/ibdread/ibdbin"
	"github.com/Jeanhwea/ibdread/ibderr"
	"github.com/Jeanhwea/ibdread/ibdsdi"
)

// maxOneByteVarLen is the declared-max-length threshold under which a
// variable-length field's size is encoded in a single reverse-read byte.
const maxOneByteVarLen = 127

// Datum is one decoded, typed column value.
type Datum struct {
	Column    ibdsdi.ColumnDef
	IsNull    bool
	IsDefault bool // true when substituted via row-version gating, not read from the record
	Value     any
}

// Record is a fully decoded user record: its header plus one Datum per
// surviving column (columns with VersionDropped > 0 are omitted entirely).
type Record struct {
	Addr       int
	Header     RecordHeader
	RowVersion int
	Datums     []Datum
	// ChildPageNo is set only for StatusNodePtr records: the trailing
	// 4-byte child page number on an internal-node record.
	ChildPageNo uint32
}

// nullBit tests bit k of a null-bitmap area that ends (exclusive) at
// areaEnd and grows backward toward lower addresses, per spec.md §4.6 step 2.
func nullBit(buf []byte, areaEnd int, k int) bool {
	b := buf[areaEnd-1-k/8]
	return b&(1<<uint(k%8)) != 0
}

// readVarLen consumes one or two bytes backward from cursor (exclusive
// upper bound) and returns the decoded length plus the new cursor position.
func readVarLen(buf []byte, cursor int, declaredMax int) (length int, newCursor int) {
	b0 := buf[cursor-1]
	if declaredMax <= maxOneByteVarLen {
		return int(b0), cursor - 1
	}
	if b0&0x80 != 0 {
		b1 := buf[cursor-2]
		return int(b0&0x7F)<<8 | int(b1), cursor - 2
	}
	return int(b0), cursor - 1
}

// DecodeRecord decodes the user record physically located at addr on page
// buf, according to index idx's elements and the owning table's full
// column list cols (elements reference columns by ColumnIndex).
//
// Steps follow spec.md §4.6: resolve the row-version byte, walk the
// null-bitmap and variable-length areas backward from the record header,
// then read the body forward in index-element order, gating each element
// by its column's VersionAdded/VersionDropped against the decoded row
// version.
func DecodeRecord(buf []byte, addr int, idx *ibdsdi.IndexDef, cols []ibdsdi.ColumnDef) (Record, error) {
	hdr := ParseRecordHeader(buf, addr)

	areaEnd := addr
	rowVersion := 0
	if hdr.HasInfo(InfoVersion) {
		areaEnd = addr - 1
		rowVersion = int(buf[areaEnd])
	}

	nilAreaStart := areaEnd - idx.NullAreaBytes
	if nilAreaStart < 0 {
		return Record{}, ibderr.New(ibderr.Corrupt, "ibdrec.DecodeRecord", nil)
	}

	varCursor := nilAreaStart
	fwd := addr

	rec := Record{Addr: addr, Header: hdr, RowVersion: rowVersion}

	for _, e := range idx.Elements {
		if e.ColumnIndex < 0 || e.ColumnIndex >= len(cols) {
			continue
		}
		col := cols[e.ColumnIndex]

		if col.VersionDropped > 0 {
			continue
		}
		if col.VersionAdded > rowVersion {
			rec.Datums = append(rec.Datums, Datum{Column: col, IsDefault: true, Value: col.DefaultValue})
			continue
		}

		isNull := false
		if e.Nullable {
			isNull = nullBit(buf, areaEnd, e.NullOffset)
		}

		var length int
		if isNull {
			length = 0
		} else if e.Variable {
			length, varCursor = readVarLen(buf, varCursor, e.Length)
		} else {
			length = int(col.DataLen)
		}

		var value any
		if isNull {
			value = nil
		} else {
			body := buf[fwd : fwd+length]
			value = project(col.Type, body)
		}
		fwd += length

		rec.Datums = append(rec.Datums, Datum{Column: col, IsNull: isNull, Value: value})
	}

	if hdr.Status == StatusNodePtr {
		rec.ChildPageNo = ibdbin.U32(buf, fwd)
	}

	return rec, nil
}

// project converts a raw body byte slice into a typed value according to
// the column's declared logical type, per spec.md §4.6's decode table.
// Unknown types yield the raw bytes rather than aborting.
func project(t ibdsdi.ColumnType, body []byte) any {
	switch t {
	case ibdsdi.ColTiny:
		if len(body) >= 1 {
			return ibdbin.UnpackI8(body)
		}
	case ibdsdi.ColShort:
		if len(body) >= 2 {
			return ibdbin.UnpackI16(body)
		}
	case ibdsdi.ColInt24:
		if len(body) >= 3 {
			return ibdbin.UnpackI24(body)
		}
	case ibdsdi.ColLong:
		if len(body) >= 4 {
			return ibdbin.UnpackI32(body)
		}
	case ibdsdi.ColLongLong:
		if len(body) >= 8 {
			return ibdbin.UnpackI64(body)
		}
	case ibdsdi.ColNewDate:
		if len(body) >= 3 {
			y, m, d, ok := ibdbin.NewDate(body)
			if !ok {
				return nil
			}
			return [3]int{y, m, d}
		}
	case ibdsdi.ColDateTime2:
		if len(body) >= 5 {
			t, ok := ibdbin.DateTime2(body)
			if !ok {
				return nil
			}
			return t
		}
	case ibdsdi.ColTimestamp2:
		if len(body) >= 4 {
			return ibdbin.Timestamp2(body)
		}
	case ibdsdi.ColEnum:
		return ibdbin.UnpackEnum(body)
	case ibdsdi.ColVarchar, ibdsdi.ColVarString, ibdsdi.ColString:
		return body
	case ibdsdi.ColHiddenRowID, ibdsdi.ColHiddenTrxID:
		if len(body) >= 6 {
			return ibdbin.U48(body, 0)
		}
	case ibdsdi.ColHiddenRollPtr:
		if len(body) >= 7 {
			return ibdbin.U56(body, 0)
		}
	}
	return body
}
