package ibdrec

import "github.com/Jeanhwea/ibdread/ibdbin"

// RecordStatus is the 3-bit status field packed into a compact record header.
type RecordStatus uint8

const (
	StatusOrdinary RecordStatus = 0
	StatusNodePtr  RecordStatus = 1
	StatusInfimum  RecordStatus = 2
	StatusSupremum RecordStatus = 3
)

func (s RecordStatus) String() string {
	switch s {
	case StatusOrdinary:
		return "ORDINARY"
	case StatusNodePtr:
		return "NODE_PTR"
	case StatusInfimum:
		return "INFIMUM"
	case StatusSupremum:
		return "SUPREMUM"
	default:
		return "UNKNOWN"
	}
}

// Info-bit flags packed into the high nibble of a compact record header's
// first byte, alongside n_owned in the low nibble.
const (
	InfoMinRec  = 0x10
	InfoDeleted = 0x20
	InfoVersion = 0x40
	InfoInstant = 0x80
)

// RecordHeader is the 5-byte compact record header immediately preceding a
// record's body at its physical address P.
type RecordHeader struct {
	InfoBits      uint8
	NOwned        uint8
	HeapNo        uint16
	Status        RecordStatus
	NextRecOffset int16
}

// HasInfo reports whether the given info-bit flag is set.
func (h RecordHeader) HasInfo(flag uint8) bool {
	return h.InfoBits&flag != 0
}

// ParseRecordHeader parses the 5-byte compact record header at addr (the
// record's physical position P). Bytes [addr-5, addr) hold the header;
// byte addr-5 packs info_bits (high nibble) and n_owned (low nibble), bytes
// addr-4..addr-2 pack heap_no (13 bits) and status (3 bits) big-endian, and
// bytes addr-2..addr hold the signed next_rec_offset.
func ParseRecordHeader(buf []byte, addr int) RecordHeader {
	b0 := buf[addr-5]
	b12 := ibdbin.U16(buf, addr-4)
	return RecordHeader{
		InfoBits:      b0 & 0xF0,
		NOwned:        b0 & 0x0F,
		HeapNo:        (b12 & 0xFFF8) >> 3,
		Status:        RecordStatus(b12 & 0x0007),
		NextRecOffset: ibdbin.I16(buf, addr-2),
	}
}
