package ibdpage

import "github.com/Jeanhwea/ibdread/ibdbin"

// FIL header/trailer sizes, per the common frame every page shares.
const (
	FilHeaderSize  = 38
	FilTrailerSize = 8
)

// PageType tags the kind of page, read from the FIL header. Dispatch on
// this value at the boundary of the reader; each page kind gets its own
// immutable view rather than sharing a base struct.
type PageType uint16

const (
	PageTypeAllocated   PageType = 0
	PageTypeUndoLog     PageType = 2
	PageTypeInode        PageType = 3
	PageTypeIBufFreeList PageType = 4
	PageTypeIBufBitmap   PageType = 5
	PageTypeSys          PageType = 6
	PageTypeTrxSys       PageType = 7
	PageTypeFspHdr       PageType = 8
	PageTypeXdes         PageType = 9
	PageTypeBlob         PageType = 10
	PageTypeIndex        PageType = 17855
	PageTypeRSegArray    PageType = 21
	PageTypeSDI          PageType = 17853
)

func (t PageType) String() string {
	switch t {
	case PageTypeAllocated:
		return "ALLOCATED"
	case PageTypeUndoLog:
		return "UNDO_LOG"
	case PageTypeInode:
		return "INODE"
	case PageTypeIBufFreeList:
		return "IBUF_FREE_LIST"
	case PageTypeIBufBitmap:
		return "IBUF_BITMAP"
	case PageTypeSys:
		return "SYS"
	case PageTypeTrxSys:
		return "TRX_SYS"
	case PageTypeFspHdr:
		return "FSP_HDR"
	case PageTypeXdes:
		return "XDES"
	case PageTypeBlob:
		return "BLOB"
	case PageTypeIndex:
		return "INDEX"
	case PageTypeRSegArray:
		return "RSEG_ARRAY"
	case PageTypeSDI:
		return "SDI"
	default:
		return "UNKNOWN"
	}
}

// Header is the common 38-byte FIL header present at the start of every page.
type Header struct {
	Checksum uint32
	PageNo    uint32
	PrevPage  uint32
	NextPage  uint32
	LSN       uint64
	PageType  PageType
	FlushLSN  uint64
	SpaceID   uint32
}

// ParseHeader parses the 38-byte FIL header from the start of a page buffer.
func ParseHeader(buf []byte) Header {
	return Header{
		Checksum: ibdbin.U32(buf, 0),
		PageNo:   ibdbin.U32(buf, 4),
		PrevPage: ibdbin.U32(buf, 8),
		NextPage: ibdbin.U32(buf, 12),
		LSN:      ibdbin.U64(buf, 16),
		PageType: PageType(ibdbin.U16(buf, 24)),
		FlushLSN: ibdbin.U64(buf, 26),
		SpaceID:  ibdbin.U32(buf, 34),
	}
}

// Trailer is the common 8-byte FIL trailer present at the end of every page.
type Trailer struct {
	Checksum  uint32
	LSNLow32 uint32
}

// ParseTrailer parses the 8-byte FIL trailer from the end of a page buffer.
func ParseTrailer(buf []byte) Trailer {
	off := len(buf) - FilTrailerSize
	return Trailer{
		Checksum: ibdbin.U32(buf, off),
		LSNLow32: ibdbin.U32(buf, off+4),
	}
}

// ChecksumOK reports whether the header and trailer checksums agree. A
// mismatch is not fatal for a forensic reader; callers should warn and
// continue rather than abort.
func ChecksumOK(buf []byte) bool {
	h := ParseHeader(buf)
	tr := ParseTrailer(buf)
	return h.Checksum == tr.Checksum
}
