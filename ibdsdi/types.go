// Package ibdsdi implements the SDI extractor (C7): locating the SDI root
// page via the file-space header, inflating the compressed JSON schema
// payload embedded in an SDI index page, and parsing it into a TableDef the
// record decoder (ibdrec) can consume.
package ibdsdi

// ColumnType is the recognized set of logical column type tags this reader
// decodes, per spec.md §4.6's type table plus the fixed-width integer
// family original_source/src/meta/def.rs sizes explicitly (TINY, SHORT,
// INT24) even though spec.md's decode table only spells out LONG/LONGLONG.
type ColumnType int

const (
	ColUnknown ColumnType = iota
	ColTiny
	ColShort
	ColInt24
	ColLong
	ColLongLong
	ColNewDate
	ColDateTime2
	ColTimestamp2
	ColEnum
	ColVarchar
	ColVarString
	ColString
	ColDecimal
	ColYear
	ColTime
	ColDate
	ColDateTime
	// HiddenRowID / HiddenTrxID / HiddenRollPtr are the three InnoDB-added
	// hidden columns present on every clustered-index record.
	ColHiddenRowID
	ColHiddenTrxID
	ColHiddenRollPtr
)

// HiddenType classifies whether a column is a normal visible column or one
// of the engine's synthetic hidden columns.
type HiddenType int

const (
	HiddenVisible HiddenType = iota
	HiddenSE                 // storage-engine-private (e.g. DB_ROW_ID)
	HiddenSQL
	HiddenUser
)

// ColumnKey classifies a column's role in a key.
type ColumnKey int

const (
	ColKeyNone ColumnKey = iota
	ColKeyPrimary
	ColKeyUnique
	ColKeyMulti
)

// IndexType enumerates InnoDB index kinds.
type IndexType int

const (
	IndexPrimary IndexType = iota
	IndexUnique
	IndexMultiple
	IndexFullText
	IndexSpatial
)

// IndexOrder is ascending/descending sort order for an index element.
type IndexOrder int

const (
	OrderAsc IndexOrder = iota
	OrderDesc
)

// ColumnDef describes one column of a table, as recovered from SDI.
// VersionAdded/VersionDropped implement the row-version gating spec.md
// §3/§4.6/§9 describes: they are properties of the column's schema history,
// not of any one physical record.
type ColumnDef struct {
	Position       int
	Name           string
	Type           ColumnType
	Nullable       bool
	Variable       bool
	Hidden         HiddenType
	DataLen        uint32
	ColumnKey      ColumnKey
	CollationID    uint32
	DefaultValue   []byte
	VersionAdded   int
	VersionDropped int
}

// IndexElement describes one element (key part) of an index, with the
// null-bit offset the record decoder needs to test this element's
// nullability without re-deriving it per record.
type IndexElement struct {
	Position    int
	ColumnIndex int
	Length      int
	Order       IndexOrder
	Nullable    bool
	Variable    bool
	NullOffset  int
}

// IndexDef describes one index (primary or secondary) of a table.
type IndexDef struct {
	Position      int
	Name          string
	RootPageNo    uint32
	Type          IndexType
	Algorithm     string
	Elements      []IndexElement
	NullAreaBytes int
}

// TableDef is the schema recovered from a table's SDI payload.
type TableDef struct {
	Schema       string
	Name         string
	CollationID  uint32
	Columns      []ColumnDef
	Indexes      []IndexDef
}
