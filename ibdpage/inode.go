package ibdpage

import (
	"github.com/Jeanhwea/ibdread/ibdbin"
	"github.com/Jeanhwea/ibdread/ibderr"
)

// Inode page/segment layout constants.
const (
	INodeEntrySize     = 192
	INodeEntryMaxCount = 85
	INodeEntryArrCount = 32
	FSegFragArrOffset  = 64
	FragArrEntrySize   = 4

	// INodeMagicN is the literal every live inode slot's fseg_magic_n must
	// equal. A mismatch means the slot has never held a segment.
	INodeMagicN = 97937874

	// inodeListNodeOffset is the byte offset of the intrusive flst node
	// (prev/next) embedded at the start of every INODE page, right after
	// the FIL header.
	inodeListNodeOffset = FilHeaderSize
	// inodeArrayOffset is where the array of inode slots begins, after the
	// page's own flst node.
	inodeArrayOffset = FilHeaderSize + FlstNodeSize
)

// FragPageNone marks an empty fragment-array slot.
const FragPageNone = 0xFFFFFFFF

// INodeEntry is a single 192-byte segment inode slot.
type INodeEntry struct {
	Addr           int
	FSegID         uint64
	NotFullNUsed   uint32
	Free           FlstBaseNode
	NotFull        FlstBaseNode
	Full           FlstBaseNode
	MagicN         uint32
	FragArr        [INodeEntryArrCount]uint32
}

// IsLive reports whether this slot has ever held a segment.
func (e INodeEntry) IsLive() bool {
	return e.MagicN == INodeMagicN
}

// ParseINodeEntry reads a 192-byte inode entry at addr.
func ParseINodeEntry(buf []byte, addr int) INodeEntry {
	e := INodeEntry{Addr: addr}
	e.FSegID = ibdbin.U64(buf, addr)
	e.NotFullNUsed = ibdbin.U32(buf, addr+8)
	e.Free = ParseFlstBaseNode(buf, addr+12)
	e.NotFull = ParseFlstBaseNode(buf, addr+28)
	e.Full = ParseFlstBaseNode(buf, addr+44)
	e.MagicN = ibdbin.U32(buf, addr+60)
	for i := 0; i < INodeEntryArrCount; i++ {
		e.FragArr[i] = ibdbin.U32(buf, addr+FSegFragArrOffset+i*FragArrEntrySize)
	}
	return e
}

// FragPages returns the fragment array entries that hold an actual page
// number (skipping FragPageNone slots).
func (e INodeEntry) FragPages() []uint32 {
	out := make([]uint32, 0, INodeEntryArrCount)
	for _, p := range e.FragArr {
		if p != FragPageNone {
			out = append(out, p)
		}
	}
	return out
}

// INodeEntries reads every slot (live or not) from an INODE page.
func INodeEntries(buf []byte) []INodeEntry {
	entries := make([]INodeEntry, 0, INodeEntryMaxCount)
	for i := 0; i < INodeEntryMaxCount; i++ {
		entries = append(entries, ParseINodeEntry(buf, inodeArrayOffset+i*INodeEntrySize))
	}
	return entries
}

// INodeListNode reads the page-level flst node embedded at the start of an
// INODE page, used to chain INODE pages together.
func INodeListNode(buf []byte) FlstNode {
	return ParseFlstNode(buf, inodeListNodeOffset)
}

// ReadINodeEntry fetches the page at addr.PageNo and parses the inode slot
// at addr.BOffset, failing with BadMagic if the slot is not live.
func ReadINodeEntry(src *Source, addr FilAddr) (INodeEntry, error) {
	buf, err := src.GetPage(addr.PageNo)
	if err != nil {
		return INodeEntry{}, err
	}
	e := ParseINodeEntry(buf, int(addr.BOffset))
	if !e.IsLive() {
		return e, ibderr.New(ibderr.BadMagic, "ibdpage.ReadINodeEntry", nil)
	}
	return e, nil
}
