package ibdsdi

import (
	"strconv"
	"strings"
)

// The shapes below mirror the MySQL data dictionary's serialized JSON
// object shapes closely enough to unmarshal an SDI payload (see
// sql/dd/impl/types/{column,index}_impl.h in the originating engine and
// original_source/src/meta/cst.rs's field names). Only the subset of
// fields this reader projects into TableDef is kept; unknown keys are
// ignored by encoding/json rather than rejected.

// sdiObject is the top-level envelope around one SDI array entry's payload.
type sdiObject struct {
	DDObject ddObject `json:"dd_object"`
}

type ddObject struct {
	Name          string      `json:"name"`
	SchemaRef     string      `json:"schema_ref"`
	CollationID   uint32      `json:"collation_id"`
	Columns       []ddColumn  `json:"columns"`
	Indexes       []ddIndex   `json:"indexes"`
}

type ddColumn struct {
	OrdinalPosition uint32           `json:"ordinal_position"`
	Name            string           `json:"name"`
	Type            uint8            `json:"type"`
	IsNullable      bool             `json:"is_nullable"`
	IsUnsigned      bool             `json:"is_unsigned"`
	Hidden          uint8            `json:"hidden"`
	CharLength      uint32           `json:"char_length"`
	CollationID     uint32           `json:"collation_id"`
	ColumnKey       uint8            `json:"column_key"`
	ColumnTypeUTF8  string           `json:"column_type_utf8"`
	Elements        []ddColumnElement `json:"elements"`
	DefaultValue    string           `json:"default_value_utf8,omitempty"`
	SePrivateData   string           `json:"se_private_data"`
}

type ddColumnElement struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type ddIndex struct {
	OrdinalPosition uint32           `json:"ordinal_position"`
	Name            string           `json:"name"`
	Hidden          bool             `json:"hidden"`
	Type            uint8            `json:"type"`
	Algorithm       uint8            `json:"algorithm"`
	Elements        []ddIndexElement `json:"elements"`
	SePrivateData   string           `json:"se_private_data"`
}

type ddIndexElement struct {
	OrdinalPosition uint32 `json:"ordinal_position"`
	Length          uint32 `json:"length"`
	Order           uint8  `json:"order"`
	Hidden          bool   `json:"hidden"`
	ColumnOpx       uint32 `json:"column_opx"`
}

// mysqlColumnType values, per the data dictionary's Column_types enum
// (a small subset; see original_source/src/ibd/record.rs's ColumnTypes).
const (
	mysqlTypeDecimal    = 0
	mysqlTypeTiny       = 1
	mysqlTypeShort      = 2
	mysqlTypeLong       = 3
	mysqlTypeLongLong   = 8
	mysqlTypeInt24      = 9
	mysqlTypeDate       = 10
	mysqlTypeTime       = 11
	mysqlTypeDateTime   = 12
	mysqlTypeYear       = 13
	mysqlTypeNewDate    = 14
	mysqlTypeVarchar    = 15
	mysqlTypeTimestamp2 = 17
	mysqlTypeDateTime2  = 18
	mysqlTypeEnum       = 247
	mysqlTypeVarString  = 253
	mysqlTypeString     = 254
)

func mapColumnType(dd uint8) ColumnType {
	switch dd {
	case mysqlTypeTiny:
		return ColTiny
	case mysqlTypeShort:
		return ColShort
	case mysqlTypeInt24:
		return ColInt24
	case mysqlTypeLong:
		return ColLong
	case mysqlTypeLongLong:
		return ColLongLong
	case mysqlTypeNewDate:
		return ColNewDate
	case mysqlTypeDateTime2:
		return ColDateTime2
	case mysqlTypeTimestamp2:
		return ColTimestamp2
	case mysqlTypeEnum:
		return ColEnum
	case mysqlTypeVarchar:
		return ColVarchar
	case mysqlTypeVarString:
		return ColVarString
	case mysqlTypeString:
		return ColString
	case mysqlTypeDecimal:
		return ColDecimal
	case mysqlTypeYear:
		return ColYear
	case mysqlTypeTime:
		return ColTime
	case mysqlTypeDate:
		return ColDate
	case mysqlTypeDateTime:
		return ColDateTime
	default:
		return ColUnknown
	}
}

func mapHidden(h uint8) HiddenType {
	switch h {
	case 1:
		return HiddenSE
	case 2:
		return HiddenSQL
	case 3:
		return HiddenUser
	default:
		return HiddenVisible
	}
}

func mapColumnKey(k uint8) ColumnKey {
	switch k {
	case 1:
		return ColKeyPrimary
	case 2:
		return ColKeyUnique
	case 3:
		return ColKeyMulti
	default:
		return ColKeyNone
	}
}

func mapIndexType(t uint8) IndexType {
	switch t {
	case 1:
		return IndexUnique
	case 2:
		return IndexMultiple
	case 3:
		return IndexFullText
	case 4:
		return IndexSpatial
	default:
		return IndexPrimary
	}
}

func mapOrder(o uint8) IndexOrder {
	if o == 2 {
		return OrderDesc
	}
	return OrderAsc
}

// dataLenFor mirrors original_source/src/meta/def.rs's ColumnDef::from
// physical-storage-length computation for visible columns.
func dataLenFor(c ddColumn) uint32 {
	switch mapColumnType(c.Type) {
	case ColVarString, ColString, ColDecimal:
		return c.CharLength
	case ColVarchar:
		if c.CharLength < 256 {
			return c.CharLength + 1
		}
		return c.CharLength + 2
	case ColYear, ColTiny:
		return 1
	case ColShort:
		return 2
	case ColInt24, ColNewDate, ColTime:
		return 3
	case ColLong:
		return 4
	case ColLongLong:
		return 8
	case ColDate, ColTimestamp2:
		return 4
	case ColDateTime, ColDateTime2:
		return 8
	case ColEnum:
		if len(c.Elements) < 256 {
			return 1
		}
		return 2
	default:
		return c.CharLength
	}
}

// sePrivateDataInt looks up one key's value out of a semicolon-separated
// key=value string, e.g. "version_added=2;version_dropped=0;", per MySQL's
// Properties::raw_string encoding of a dd::Column's se_private_data.
func sePrivateDataInt(data, key string) int {
	for _, kv := range strings.Split(data, ";") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || parts[0] != key {
			continue
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

func toColumnDef(c ddColumn) ColumnDef {
	t := mapColumnType(c.Type)
	return ColumnDef{
		Position:       int(c.OrdinalPosition),
		Name:           c.Name,
		Type:           t,
		Nullable:       c.IsNullable,
		Variable:       t == ColVarchar || t == ColVarString,
		Hidden:         mapHidden(c.Hidden),
		DataLen:        dataLenFor(c),
		ColumnKey:      mapColumnKey(c.ColumnKey),
		CollationID:    c.CollationID,
		DefaultValue:   []byte(c.DefaultValue),
		VersionAdded:   sePrivateDataInt(c.SePrivateData, "version_added"),
		VersionDropped: sePrivateDataInt(c.SePrivateData, "version_dropped"),
	}
}

func toIndexElement(e ddIndexElement) IndexElement {
	return IndexElement{
		Position:    int(e.OrdinalPosition),
		ColumnIndex: int(e.ColumnOpx),
		Length:      int(e.Length),
		Order:       mapOrder(e.Order),
		Nullable:    false, // filled in by buildTableDef once columns are known
		Variable:    false,
	}
}

func toIndexDef(idx ddIndex) IndexDef {
	elements := make([]IndexElement, 0, len(idx.Elements))
	for _, e := range idx.Elements {
		elements = append(elements, toIndexElement(e))
	}
	return IndexDef{
		Position:   int(idx.OrdinalPosition),
		Name:       idx.Name,
		RootPageNo: uint32(sePrivateDataInt(idx.SePrivateData, "root")),
		Type:       mapIndexType(idx.Type),
		Algorithm:  algorithmName(idx.Algorithm),
		Elements:   elements,
	}
}

func algorithmName(a uint8) string {
	switch a {
	case 1:
		return "BTREE"
	case 2:
		return "RTREE"
	case 3:
		return "HASH"
	case 4:
		return "FULLTEXT"
	default:
		return "UNKNOWN"
	}
}

// buildTableDef converts a parsed data-dictionary object into a TableDef,
// resolving each index element's nullability/variability from the table's
// column list and computing per-element null offsets, per spec.md §4.7
// step 7: enumerate only the nullable elements in element order (0, 1, 2,
// ...) then pad the null-bitmap size to a multiple of 8 bits.
func buildTableDef(obj ddObject) TableDef {
	td := TableDef{
		Schema:      obj.SchemaRef,
		Name:        obj.Name,
		CollationID: obj.CollationID,
	}
	for _, c := range obj.Columns {
		td.Columns = append(td.Columns, toColumnDef(c))
	}
	for _, i := range obj.Indexes {
		idxDef := toIndexDef(i)

		nullOffset := 0
		for ei := range idxDef.Elements {
			e := &idxDef.Elements[ei]
			if e.ColumnIndex >= 0 && e.ColumnIndex < len(td.Columns) {
				col := td.Columns[e.ColumnIndex]
				e.Nullable = col.Nullable
				e.Variable = col.Variable
			}
			if e.Nullable {
				e.NullOffset = nullOffset
				nullOffset++
			}
		}
		idxDef.NullAreaBytes = (nullOffset + 7) / 8
		td.Indexes = append(td.Indexes, idxDef)
	}
	return td
}
