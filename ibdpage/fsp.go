package ibdpage

import (
	"github.com/Jeanhwea/ibdread/ibdbin"
	"github.com/Jeanhwea/ibdread/ibderr"
)

// Sizes and counts for the file-space header page (always page 0 of a
// tablespace), its extent descriptor array, and the SDI meta slot that
// follows it. See spec §6's page-0 byte layout.
const (
	FSPHeaderSize      = 112
	XDESEntrySize      = 40
	XDESEntryMaxCount  = 256
	FSPAuxSlotSize     = 115
	SDIMetaSize        = 8
)

// fspHeaderAddr is the byte offset of the FSP header within page 0, right
// after the FIL header.
const fspHeaderAddr = FilHeaderSize

// FSPHeader is the 112-byte file-space header embedded in page 0.
type FSPHeader struct {
	SpaceID      uint32
	NotUsed      uint32
	Size         uint32
	FreeLimit    uint32
	Flags        uint32
	FragNUsed    uint32
	Free         FlstBaseNode
	FreeFrag     FlstBaseNode
	FullFrag     FlstBaseNode
	SegID        uint64
	InodesFull   FlstBaseNode
	InodesFree   FlstBaseNode
}

// ParseFSPHeader parses the FSP header out of page 0's buffer.
func ParseFSPHeader(buf []byte) FSPHeader {
	a := fspHeaderAddr
	return FSPHeader{
		SpaceID:    ibdbin.U32(buf, a+0),
		NotUsed:    ibdbin.U32(buf, a+4),
		Size:       ibdbin.U32(buf, a+8),
		FreeLimit:  ibdbin.U32(buf, a+12),
		Flags:      ibdbin.U32(buf, a+16),
		FragNUsed:  ibdbin.U32(buf, a+20),
		Free:       ParseFlstBaseNode(buf, a+24),
		FreeFrag:   ParseFlstBaseNode(buf, a+40),
		FullFrag:   ParseFlstBaseNode(buf, a+56),
		SegID:      ibdbin.U64(buf, a+72),
		InodesFull: ParseFlstBaseNode(buf, a+80),
		InodesFree: ParseFlstBaseNode(buf, a+96),
	}
}

// sdiMetaAddr is the fixed offset of the SDI meta slot on page 0: right
// after the FSP header, the 256-entry XDES array, and a 115-byte auxiliary
// region (encryption key material on encrypted tablespaces; not decoded
// here, see DESIGN.md open question #2).
const sdiMetaAddr = fspHeaderAddr + FSPHeaderSize + XDESEntryMaxCount*XDESEntrySize + FSPAuxSlotSize

// SDIMeta identifies the root page of the SDI index, if present.
type SDIMeta struct {
	Version uint32
	PageNo  uint32
}

// ParseSDIMeta reads the SDI meta slot from page 0. A PageNo of 0 means the
// file predates server version 80000 and has no embedded schema.
func ParseSDIMeta(buf []byte) SDIMeta {
	return SDIMeta{
		Version: ibdbin.U32(buf, sdiMetaAddr),
		PageNo:  ibdbin.U32(buf, sdiMetaAddr+4),
	}
}

// XDesState is the allocation state of an extent.
type XDesState uint32

const (
	XDesNotInited XDesState = 0
	XDesFree      XDesState = 1
	XDesFreeFrag  XDesState = 2
	XDesFullFrag  XDesState = 3
	XDesFSeg      XDesState = 4
	XDesFSegFrag  XDesState = 5
)

func (s XDesState) String() string {
	switch s {
	case XDesNotInited:
		return "NOT_INITED"
	case XDesFree:
		return "FREE"
	case XDesFreeFrag:
		return "FREE_FRAG"
	case XDesFullFrag:
		return "FULL_FRAG"
	case XDesFSeg:
		return "FSEG"
	case XDesFSegFrag:
		return "FSEG_FRAG"
	default:
		return "UNKNOWN"
	}
}

// PagesPerExtent is the number of pages described by one XDES entry.
const PagesPerExtent = 64

// XDESEntry is a single 40-byte extent descriptor.
type XDESEntry struct {
	// Addr is this entry's own byte address, used to compute its absolute
	// extent number and as the flst node address when walked.
	Addr     int
	SegID    uint64
	ListNode FlstNode
	State    XDesState
	Bitmap   [16]byte
}

// ParseXDESEntry reads a 40-byte XDES entry at addr.
func ParseXDESEntry(buf []byte, addr int) XDESEntry {
	e := XDESEntry{Addr: addr}
	e.SegID = ibdbin.U64(buf, addr)
	e.ListNode = ParseFlstNode(buf, addr+8)
	e.State = XDesState(ibdbin.U32(buf, addr+20))
	copy(e.Bitmap[:], buf[addr+24:addr+40])
	return e
}

// FreeClean reports, for page i (0..63) within the extent, whether it is
// marked free and whether it is marked clean. Each page occupies 2 bits in
// the bitmap: bit 0 = free, bit 1 = clean.
func (e XDESEntry) FreeClean(page int) (free, clean bool) {
	byteIdx := page / 4
	bitIdx := (page % 4) * 2
	b := e.Bitmap[byteIdx]
	free = b&(1<<bitIdx) != 0
	clean = b&(1<<(bitIdx+1)) != 0
	return
}

// ExtentNo computes this entry's absolute extent number given the page
// number of the page containing it.
func (e XDESEntry) ExtentNo(containingPageNo uint32) uint32 {
	seq := uint32(e.Addr-fspHeaderAddr-FSPHeaderSize) / XDESEntrySize
	return containingPageNo/PagesPerExtent*256 + seq
}

// XDESEntries reads all 256 XDES entries embedded in a FSP_HDR or XDES page.
func XDESEntries(buf []byte) []XDESEntry {
	entries := make([]XDESEntry, 0, XDESEntryMaxCount)
	base := fspHeaderAddr + FSPHeaderSize
	for i := 0; i < XDESEntryMaxCount; i++ {
		entries = append(entries, ParseXDESEntry(buf, base+i*XDESEntrySize))
	}
	return entries
}

// ReadFSPHeader is a convenience that fetches page 0 and parses its FSP
// header, failing with OutOfRange/Io as GetPage would.
func ReadFSPHeader(src *Source) (FSPHeader, error) {
	buf, err := src.GetPage(0)
	if err != nil {
		return FSPHeader{}, err
	}
	h := ParseHeader(buf)
	if h.PageType != PageTypeFspHdr {
		return FSPHeader{}, ibderr.New(ibderr.Corrupt, "ibdpage.ReadFSPHeader", nil)
	}
	return ParseFSPHeader(buf), nil
}
