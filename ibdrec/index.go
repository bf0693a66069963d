// Package ibdrec implements the index page layer (C5) and record decoder
// (C6): page directory and record heap parsing, compact record header
// decode, reverse-direction null-bitmap/variable-length cursors, and typed
// per-column projection with row-version gating for instant ADD/DROP
// COLUMN.
package ibdrec

import (
	"github.com/Jeanhwea/ibdread/ibdbin"
	"github.com/Jeanhwea/ibdread/ibderr"
	"github.com/Jeanhwea/ibdread/ibdpage"
)

// Fixed offsets on a compact-format index page. The infimum/supremum
// sentinels sit at fixed addresses right after the two segment headers;
// REDUNDANT-format pages place them elsewhere and are rejected outright.
const (
	indexHeaderOffset = ibdpage.FilHeaderSize // 38
	fsegHeaderOffset  = indexHeaderOffset + 36
	InfimumAddr       = 99
	SupremumAddr      = 112
	RecordHeaderSize  = 5

	recsGrowDirection = 1
	pageDirSlotSize   = 2
)

// PageFormat distinguishes InnoDB's two physical row formats.
type PageFormat int

const (
	FormatCompact PageFormat = iota
	FormatRedundant
)

// IndexHeader is the per-page index metadata block.
type IndexHeader struct {
	NDirSlots     uint16
	HeapTop       uint16
	Format        PageFormat
	NHeap         uint16
	Free          uint16 // page_free: offset of first record in the free/garbage chain, 0 = empty
	Garbage       uint16
	LastInsert    uint16
	Direction     uint16
	NDirection    uint16
	NRecs         uint16
	MaxTrxID      uint64
	Level         uint16
	IndexID       uint64
}

func parseIndexHeader(buf []byte) IndexHeader {
	a := indexHeaderOffset
	nHeapRaw := ibdbin.U16(buf, a+4)
	format := FormatRedundant
	if nHeapRaw&0x8000 != 0 {
		format = FormatCompact
	}
	return IndexHeader{
		NDirSlots:  ibdbin.U16(buf, a+0),
		HeapTop:    ibdbin.U16(buf, a+2),
		Format:     format,
		NHeap:      nHeapRaw &^ 0x8000,
		Free:       ibdbin.U16(buf, a+6),
		Garbage:    ibdbin.U16(buf, a+8),
		LastInsert: ibdbin.U16(buf, a+10),
		Direction:  ibdbin.U16(buf, a+12),
		NDirection: ibdbin.U16(buf, a+14),
		NRecs:      ibdbin.U16(buf, a+16),
		MaxTrxID:   ibdbin.U64(buf, a+18),
		Level:      ibdbin.U16(buf, a+26),
		IndexID:    ibdbin.U64(buf, a+28),
	}
}

// FSegHeader is the pair of leaf/non-leaf segment pointers stored on an
// index's root page, used to locate that index's two inode slots.
type FSegHeader struct {
	LeafSpaceID    uint32
	LeafPageNo     uint32
	LeafOffset     uint16
	NonLeafSpaceID uint32
	NonLeafPageNo  uint32
	NonLeafOffset  uint16
}

func parseFSegHeader(buf []byte) FSegHeader {
	a := fsegHeaderOffset
	return FSegHeader{
		LeafSpaceID:    ibdbin.U32(buf, a+0),
		LeafPageNo:     ibdbin.U32(buf, a+4),
		LeafOffset:     ibdbin.U16(buf, a+8),
		NonLeafSpaceID: ibdbin.U32(buf, a+10),
		NonLeafPageNo:  ibdbin.U32(buf, a+14),
		NonLeafOffset:  ibdbin.U16(buf, a+18),
	}
}

// LeafInodeAddr returns the FilAddr of this index's leaf segment inode.
func (h FSegHeader) LeafInodeAddr() ibdpage.FilAddr {
	return ibdpage.FilAddr{PageNo: h.LeafPageNo, BOffset: h.LeafOffset}
}

// NonLeafInodeAddr returns the FilAddr of this index's non-leaf (internal)
// segment inode.
func (h FSegHeader) NonLeafInodeAddr() ibdpage.FilAddr {
	return ibdpage.FilAddr{PageNo: h.NonLeafPageNo, BOffset: h.NonLeafOffset}
}

// IndexPage is a parsed compact-format B-tree index page.
type IndexPage struct {
	Header     ibdpage.Header
	IndexHdr   IndexHeader
	Leaf       FSegHeader
	DirSlots   []uint16
	buf        []byte
}

// ParseIndexPage parses an index page's header, segment headers, and
// directory slot array. REDUNDANT-format pages are rejected with
// Unsupported, matching spec.md's explicit scope restriction to the
// compact row format.
func ParseIndexPage(buf []byte) (*IndexPage, error) {
	h := ibdpage.ParseHeader(buf)
	idxHdr := parseIndexHeader(buf)
	if idxHdr.Format != FormatCompact {
		return nil, ibderr.New(ibderr.Unsupported, "ibdrec.ParseIndexPage", nil)
	}

	// Directory slots are a 2-byte-offset array grown upward from the
	// trailer, in reverse order (last slot written is the one nearest the
	// trailer). Read them back-to-front and reverse so index 0 is the slot
	// nearest the page header (pointing at infimum).
	trailerStart := len(buf) - ibdpage.FilTrailerSize
	slots := make([]uint16, idxHdr.NDirSlots)
	for i := 0; i < int(idxHdr.NDirSlots); i++ {
		off := trailerStart - (i+1)*pageDirSlotSize
		slots[int(idxHdr.NDirSlots)-1-i] = ibdbin.U16(buf, off)
	}

	return &IndexPage{
		Header:   h,
		IndexHdr: idxHdr,
		Leaf:     parseFSegHeader(buf),
		DirSlots: slots,
		buf:      buf,
	}, nil
}

// Buf exposes the page's raw bytes for record decoding.
func (p *IndexPage) Buf() []byte { return p.buf }

// IsLeaf reports whether this page is a leaf (level 0) page.
func (p *IndexPage) IsLeaf() bool { return p.IndexHdr.Level == 0 }

// nextAddr resolves a record header address plus its signed 16-bit
// next_rec_offset, with wraparound handled in 32-bit arithmetic masked to
// the page size, per spec.md §4.5's numeric/edge policy.
func nextAddr(addr int, delta int16) int {
	raw := int32(addr) + int32(delta)
	return int(raw) & (ibdpage.PageSize - 1)
}

// WalkUserRecords hops from infimum to the first user record, then visits
// exactly IndexHdr.NRecs records in next_rec_offset order before each
// further hop, per original_source/src/ibd/page.rs's parse_records: one
// pre-loop hop off infimum, then NRecs in-loop hops ending on supremum. It
// fails with Corrupt if the chain does not land exactly on supremum after
// the last record.
func (p *IndexPage) WalkUserRecords(visit func(addr int) error) error {
	if p.IndexHdr.NRecs == 0 {
		return nil
	}
	infHdr := ParseRecordHeader(p.buf, InfimumAddr)
	cur := nextAddr(InfimumAddr, infHdr.NextRecOffset)
	for i := 0; i < int(p.IndexHdr.NRecs); i++ {
		if cur == SupremumAddr {
			return ibderr.New(ibderr.Corrupt, "ibdrec.WalkUserRecords", nil)
		}
		if err := visit(cur); err != nil {
			return err
		}
		hdr := ParseRecordHeader(p.buf, cur)
		cur = nextAddr(cur, hdr.NextRecOffset)
	}
	if cur != SupremumAddr {
		return ibderr.New(ibderr.Corrupt, "ibdrec.WalkUserRecords", nil)
	}
	return nil
}

// WalkGarbage walks the free/garbage chain starting at IndexHdr.Free until
// a zero offset is reached. These are deleted records; they are surfaced
// only when the caller explicitly asks by calling this method.
func (p *IndexPage) WalkGarbage(visit func(addr int) error) error {
	cur := int(p.IndexHdr.Free)
	for cur != 0 {
		if err := visit(cur); err != nil {
			return err
		}
		hdr := ParseRecordHeader(p.buf, cur)
		if hdr.NextRecOffset == 0 {
			break
		}
		cur = nextAddr(cur, hdr.NextRecOffset)
	}
	return nil
}
