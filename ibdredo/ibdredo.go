// Package ibdredo implements the redo-log reader (C8): 512-byte block
// framing, the file-header block, the two checkpoint blocks, per-block log
// record headers with their single-record flag and compressed space/page
// identifiers. It intentionally does not decode any record payload shape;
// see DESIGN.md's open-question notes.
package ibdredo

import (
	"os"

	"github.com/Jeanhwea/ibdread/ibdbin"
	"github.com/Jeanhwea/ibdread/ibderr"
)

// BlockSize is the fixed redo-log block size.
const BlockSize = 512

// Block roles for the first four blocks of a redo log file.
const (
	BlockFileHeader = 0
	BlockCheckpointA = 1
	BlockEncryption  = 2 // out of scope, treated as Unused
	BlockCheckpointB = 3
)

// FileHeader is the file-header block (block 0).
type FileHeader struct {
	GroupID  uint32
	UUID     uint32
	StartLSN uint64
	Creator  [32]byte
	HdrFlags uint32
}

// ParseFileHeader parses a FileHeader from a 512-byte block buffer.
func ParseFileHeader(buf []byte) FileHeader {
	var h FileHeader
	h.GroupID = ibdbin.U32(buf, 0)
	h.UUID = ibdbin.U32(buf, 4)
	h.StartLSN = ibdbin.U64(buf, 8)
	copy(h.Creator[:], buf[16:48])
	h.HdrFlags = ibdbin.U32(buf, 48)
	return h
}

// Checkpoint is a checkpoint slot block (block 1 or 3).
type Checkpoint struct {
	CheckpointNo  uint64
	CheckpointLSN uint64
	Checksum      uint32
}

// ParseCheckpoint parses a Checkpoint from a 512-byte block buffer.
func ParseCheckpoint(buf []byte) Checkpoint {
	return Checkpoint{
		CheckpointNo:  ibdbin.U64(buf, 0),
		CheckpointLSN: ibdbin.U64(buf, 8),
		Checksum:      ibdbin.U32(buf, BlockSize-4),
	}
}

// IsUnused reports whether a checkpoint slot's checksum is zero, meaning
// the slot was never written.
func (c Checkpoint) IsUnused() bool { return c.Checksum == 0 }

// LogRecType is the 7-bit record type tag packed alongside the
// single-record flag in a log record's leading byte. The spec recognizes
// roughly 70 tags but decodes the payload for none of them; only the tag
// and bytes-consumed counter are exposed (DESIGN.md open question #3).
type LogRecType uint8

// A representative subset of MLOG_* tags; the decoder does not require the
// full table to expose Type/BytesConsumed, but these are the ones exercised
// by formatting and tests.
const (
	MlogSingleRecFlag = 0x80

	Mlog1Byte        LogRecType = 1
	Mlog2Bytes       LogRecType = 2
	Mlog4Bytes       LogRecType = 4
	Mlog8Bytes       LogRecType = 8
	MlogRecInsert    LogRecType = 9
	MlogRecClustDeleteMark LogRecType = 10
	MlogRecSecDeleteMark   LogRecType = 11
	MlogRecUpdateInPlace   LogRecType = 13
	MlogListEndCopyCreated LogRecType = 14
	MlogPageCreate         LogRecType = 15
	MlogUndoInsert         LogRecType = 16
	MlogUndoEraseEnd       LogRecType = 17
	MlogUndoInit           LogRecType = 18
	MlogUndoHdrReuse       LogRecType = 19
	MlogUndoHdrCreate      LogRecType = 20
	MlogRecMinMarkCompact  LogRecType = 50
	MlogCompRecInsert      LogRecType = 38
	MlogCompRecClustDeleteMark LogRecType = 39
	MlogCompRecUpdateInPlace   LogRecType = 41
	MlogCompPageCreate         LogRecType = 44
	MlogFileCreate             LogRecType = 32
	MlogFileDelete             LogRecType = 33
	MlogFileRename             LogRecType = 34
	MlogCheckpoint             LogRecType = 62
)

func (t LogRecType) String() string {
	switch t {
	case Mlog1Byte:
		return "MLOG_1BYTE"
	case Mlog2Bytes:
		return "MLOG_2BYTES"
	case Mlog4Bytes:
		return "MLOG_4BYTES"
	case Mlog8Bytes:
		return "MLOG_8BYTES"
	case MlogRecInsert:
		return "MLOG_REC_INSERT"
	case MlogCompRecInsert:
		return "MLOG_COMP_REC_INSERT"
	case MlogFileCreate:
		return "MLOG_FILE_CREATE"
	case MlogFileDelete:
		return "MLOG_FILE_DELETE"
	case MlogFileRename:
		return "MLOG_FILE_RENAME"
	case MlogCheckpoint:
		return "MLOG_CHECKPOINT"
	case MlogPageCreate:
		return "MLOG_PAGE_CREATE"
	case MlogCompPageCreate:
		return "MLOG_COMP_PAGE_CREATE"
	default:
		return "MLOG_UNKNOWN"
	}
}

// RecordHeader is a log record's leading {single_rec_flag, type} byte plus
// the compressed space id and page number that follow it.
type RecordHeader struct {
	SingleRecFlag bool
	Type          LogRecType
	SpaceID       uint32
	PageNo        uint32
	BytesConsumed int
}

// ParseRecordHeader parses a log record header starting at addr within a
// block buffer.
func ParseRecordHeader(buf []byte, addr int) RecordHeader {
	flagType := buf[addr]
	spaceID, n1 := ibdbin.ReadCompressedU32(buf[addr+1:])
	pageNo, n2 := ibdbin.ReadCompressedU32(buf[addr+1+n1:])
	return RecordHeader{
		SingleRecFlag: flagType&MlogSingleRecFlag != 0,
		Type:          LogRecType(flagType &^ MlogSingleRecFlag),
		SpaceID:       spaceID,
		PageNo:        pageNo,
		BytesConsumed: 1 + n1 + n2,
	}
}

// LogBlockPrologueSize is the size of a log block's fixed-field prologue.
const LogBlockPrologueSize = 12

// flushBitMask marks the legacy "this block has been flushed" flag packed
// into hdr_no's top bit.
const flushBitMask = 0x80000000

// BlockPrologue is the 12-byte prologue common to every log block.
type BlockPrologue struct {
	HdrNo          uint32
	Flushed        bool
	DataLen        uint16
	FirstRecOffset uint16
	EpochNo        uint32
}

// ParseBlockPrologue parses a block's 12-byte prologue.
func ParseBlockPrologue(buf []byte) BlockPrologue {
	raw := ibdbin.U32(buf, 0)
	return BlockPrologue{
		HdrNo:          raw &^ flushBitMask,
		Flushed:        raw&flushBitMask != 0,
		DataLen:        ibdbin.U16(buf, 4),
		FirstRecOffset: ibdbin.U16(buf, 6),
		EpochNo:        ibdbin.U32(buf, 8),
	}
}

// BlockChecksum reads the 4-byte checksum at a block's end.
func BlockChecksum(buf []byte) uint32 {
	return ibdbin.U32(buf, BlockSize-4)
}

// Reader walks a redo log file block by block.
type Reader struct {
	f          *os.File
	blockCount int64
}

// Open opens a redo log file, validating its length is a whole multiple of
// BlockSize.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ibderr.New(ibderr.Io, "ibdredo.Open", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ibderr.New(ibderr.Io, "ibdredo.Open", err)
	}
	if info.Size() <= 0 || info.Size()%BlockSize != 0 {
		f.Close()
		return nil, ibderr.New(ibderr.Corrupt, "ibdredo.Open", nil)
	}
	return &Reader{f: f, blockCount: info.Size() / BlockSize}, nil
}

// Close releases the underlying file descriptor.
func (r *Reader) Close() error { return r.f.Close() }

// BlockCount returns the number of 512-byte blocks in the file.
func (r *Reader) BlockCount() int64 { return r.blockCount }

// GetBlock reads the raw 512-byte buffer for block blockNo.
func (r *Reader) GetBlock(blockNo int64) ([]byte, error) {
	if blockNo < 0 || blockNo >= r.blockCount {
		return nil, ibderr.New(ibderr.OutOfRange, "ibdredo.GetBlock", nil)
	}
	buf := make([]byte, BlockSize)
	if _, err := r.f.ReadAt(buf, blockNo*BlockSize); err != nil {
		return nil, ibderr.New(ibderr.Io, "ibdredo.GetBlock", err)
	}
	return buf, nil
}

// Block is a decoded log block (role >= 4): its prologue plus, if present,
// the first record's header.
type Block struct {
	Prologue BlockPrologue
	Checksum uint32
	Record   *RecordHeader
}

// ParseBlock decodes a log block at role >= 4. If the block's checksum is
// zero it is Unused and Record/Prologue are left zero.
func ParseBlock(buf []byte) (Block, bool) {
	checksum := BlockChecksum(buf)
	if checksum == 0 {
		return Block{}, false
	}
	b := Block{Prologue: ParseBlockPrologue(buf), Checksum: checksum}
	if b.Prologue.FirstRecOffset != 0 {
		hdr := ParseRecordHeader(buf, int(b.Prologue.FirstRecOffset))
		b.Record = &hdr
	}
	return b, true
}
