// Package ibdundo implements the undo record reader (C9): the undo-log page
// header, the undo record header's type/compilation/extra-flag bits, and
// the XA identification block.
package ibdundo

import (
	"github.com/Jeanhwea/ibdread/ibdbin"
	"github.com/Jeanhwea/ibdread/ibdpage"
)

// UndoType is the low-4-bit record type field of an undo record header.
type UndoType uint8

const (
	UndoTypeZero        UndoType = 0
	UndoTypeInsertOp     UndoType = 1
	UndoTypeModifyOp     UndoType = 2
	UndoTypeInsertRec    UndoType = 11
	UndoTypeUpdExistRec  UndoType = 12
	UndoTypeUpdDelRec    UndoType = 13
	UndoTypeDelMarkRec   UndoType = 14
)

func (t UndoType) String() string {
	switch t {
	case UndoTypeInsertOp:
		return "INSERT_OP"
	case UndoTypeModifyOp:
		return "MODIFY_OP"
	case UndoTypeInsertRec:
		return "INSERT_REC"
	case UndoTypeUpdExistRec:
		return "UPD_EXIST_REC"
	case UndoTypeUpdDelRec:
		return "UPD_DEL_REC"
	case UndoTypeDelMarkRec:
		return "DEL_MARK_REC"
	default:
		return "ZERO"
	}
}

// CmplInfo is the 2-bit compilation-info field (bits 4-5 of the flags byte).
type CmplInfo uint8

const (
	CmplNone         CmplInfo = 0
	CmplNoOrdChange  CmplInfo = 1
	CmplNoSizeChange CmplInfo = 2
)

// Extra flag bits, packed into the flags byte above the type field.
// ExtraCmplInfoMult shares bit 0x10 with the low bit of cmpl_info.
const (
	ExtraCmplInfoMult = 0x10
	ExtraModifyBlob   = 0x40
	ExtraUpdExtern    = 0x80
)

// RecordHeader is an undo record's header: the prev/next offsets straddling
// the cursor, plus the type/compilation/extra-flag byte.
type RecordHeader struct {
	PrevRecOffset uint16
	NextRecOffset uint16
	Type          UndoType
	CmplInfo      CmplInfo
	ExtraFlags    uint8
}

// ParseRecordHeader parses an undo record header at cursor addr: 2 bytes of
// prev_rec_offset just before addr, 2 bytes of next_rec_offset at addr, and
// 1 flags byte at addr+2.
func ParseRecordHeader(buf []byte, addr int) RecordHeader {
	b1 := buf[addr+2]
	return RecordHeader{
		PrevRecOffset: ibdbin.U16(buf, addr-2),
		NextRecOffset: ibdbin.U16(buf, addr),
		Type:          UndoType(b1 & 0x0F),
		CmplInfo:      CmplInfo((b1 >> 4) & 0x03),
		ExtraFlags:    b1 & (ExtraCmplInfoMult | ExtraModifyBlob | ExtraUpdExtern),
	}
}

// XA flag bit on an undo log header's flags byte.
const UndoFlagXID = 0x01

// XaTrxInfo is the 140-byte XA identification block present when the undo
// log header's flags byte has UndoFlagXID set.
type XaTrxInfo struct {
	XaFormat   uint32
	XaTridLen  uint32
	XaBqualLen uint32
	XaData     [128]byte
}

// XaTrxInfoSize is the encoded size of an XaTrxInfo block.
const XaTrxInfoSize = 140

func parseXaTrxInfo(buf []byte, addr int) XaTrxInfo {
	var x XaTrxInfo
	x.XaFormat = ibdbin.U32(buf, addr+0)
	x.XaTridLen = ibdbin.U32(buf, addr+4)
	x.XaBqualLen = ibdbin.U32(buf, addr+8)
	copy(x.XaData[:], buf[addr+12:addr+140])
	return x
}

// historyNodeOffset is the byte offset of the embedded FlstNode within an
// undo log header, ending the fixed fields and immediately preceding the
// optional XA trailer.
const historyNodeOffset = 34

// LogHeader is the undo log header present at the first record of a
// segment.
type LogHeader struct {
	TrxID       uint64
	TrxNo       uint64
	DelMarks    uint16
	LogStart    uint16
	FlagsByte   uint8
	DictTrans   uint8
	TableID     uint64
	NextLog     uint16
	PrevLog     uint16
	HistoryNode ibdpage.FlstNode
	XA          *XaTrxInfo
}

// ParseLogHeader parses an undo log header at addr.
func ParseLogHeader(buf []byte, addr int) LogHeader {
	h := LogHeader{
		TrxID:     ibdbin.U64(buf, addr+0),
		TrxNo:     ibdbin.U64(buf, addr+8),
		DelMarks:  ibdbin.U16(buf, addr+16),
		LogStart:  ibdbin.U16(buf, addr+18),
		FlagsByte: buf[addr+20],
		DictTrans: buf[addr+21],
		TableID:   ibdbin.U64(buf, addr+22),
		NextLog:   ibdbin.U16(buf, addr+30),
		PrevLog:   ibdbin.U16(buf, addr+32),
	}
	h.HistoryNode = ibdpage.ParseFlstNode(buf, addr+historyNodeOffset)
	if h.FlagsByte&UndoFlagXID != 0 {
		xa := parseXaTrxInfo(buf, addr+historyNodeOffset+ibdpage.FlstNodeSize)
		h.XA = &xa
	}
	return h
}

// WalkPage repeats ParseRecordHeader starting at firstAddr, following
// next_rec_offset until 0 is reached, collecting every record header on an
// undo page. This enumeration convenience is not itself a named spec
// operation; it generalizes the single-record ParseRecordHeader the same way
// ibdrec's free-chain walk generalizes over single-record header parsing.
func WalkPage(buf []byte, firstAddr int, visit func(addr int, hdr RecordHeader) error) error {
	addr := firstAddr
	for addr != 0 {
		hdr := ParseRecordHeader(buf, addr)
		if err := visit(addr, hdr); err != nil {
			return err
		}
		addr = int(hdr.NextRecOffset)
	}
	return nil
}
