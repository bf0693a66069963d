package ibdsdi

import (
	"encoding/json"

	"github.com/Jeanhwea/ibdread/ibdbin"
	"github.com/Jeanhwea/ibdread/ibderr"
	"github.com/Jeanhwea/ibdread/ibdpage"
)

// SDIDataHeaderSize is the fixed 33-byte header prefixing an SDI record's
// compressed JSON payload, per spec.md §4.7 step 3. Per DESIGN.md's open
// question resolution, this is the sole authoritative layout (the
// source's second, inline-offset copy on the FSP header page is not
// ported as a separate type).
const SDIDataHeaderSize = 33

// MinSDIServerVersion is the minimum originating server version for which a
// file carries embedded SDI metadata.
const MinSDIServerVersion = 80000

// SDIDataHeader is the 33-byte header immediately preceding an SDI record's
// compressed JSON body.
type SDIDataHeader struct {
	DataType   uint32
	DataID     uint64
	TrxID      uint64
	RollPtr    uint64
	UncompLen  uint32
	CompLen    uint32
}

// ParseSDIDataHeader reads the 33-byte SDI data header at addr.
func ParseSDIDataHeader(buf []byte, addr int) SDIDataHeader {
	return SDIDataHeader{
		DataType:  ibdbin.U32(buf, addr+0),
		DataID:    ibdbin.U64(buf, addr+4),
		TrxID:     ibdbin.U48(buf, addr+12),
		RollPtr:   ibdbin.U56(buf, addr+18),
		UncompLen: ibdbin.U32(buf, addr+25),
		CompLen:   ibdbin.U32(buf, addr+29),
	}
}

// sdiEntry is one element of the top-level SDI JSON array: {type, id, object}.
// Per spec.md §4.7 step 5, only type==1 (table) entries are projected.
type sdiEntry struct {
	Type int             `json:"type"`
	ID   uint64          `json:"id"`
	DDObject json.RawMessage `json:"dd_object"`
	Object   json.RawMessage `json:"object"`
}

const sdiEntryTypeTable = 1

// Locate resolves the SDI root page number from page 0's file-space
// header. It fails with SchemaUnavailable if the originating server
// version predates 80000 or the SDI page number is zero.
func Locate(page0 []byte) (uint32, error) {
	h := ibdpage.ParseHeader(page0)
	if h.PageType != ibdpage.PageTypeFspHdr {
		return 0, ibderr.New(ibderr.Corrupt, "ibdsdi.Locate", nil)
	}
	// Page 0 overloads the FIL header's prev_page field with the
	// originating server version.
	if h.PrevPage < MinSDIServerVersion {
		return 0, ibderr.New(ibderr.SchemaUnavailable, "ibdsdi.Locate", nil)
	}
	meta := ibdpage.ParseSDIMeta(page0)
	if meta.PageNo == 0 {
		return 0, ibderr.New(ibderr.SchemaUnavailable, "ibdsdi.Locate", nil)
	}
	return meta.PageNo, nil
}

// ExtractRecords walks every user record on the SDI index page buffer,
// returning each record's inflated JSON string (the data header is read to
// size and check the payload, not returned). The caller
// (Extract) is responsible for unmarshalling and selecting table entries.
func ExtractRecords(sdiPageBuf []byte, walkUserRecords func(visit func(addr int) error) error) ([]string, error) {
	var payloads []string
	err := walkUserRecords(func(addr int) error {
		hdr := ParseSDIDataHeader(sdiPageBuf, addr)
		beg := addr + SDIDataHeaderSize
		end := beg + int(hdr.CompLen)
		if end > len(sdiPageBuf) {
			return ibderr.New(ibderr.Corrupt, "ibdsdi.ExtractRecords", nil)
		}
		out, err := ibdbin.Inflate(sdiPageBuf[beg:end])
		if err != nil {
			return err
		}
		if uint32(len(out)) != hdr.UncompLen {
			return ibderr.New(ibderr.Compression, "ibdsdi.ExtractRecords", nil)
		}
		payloads = append(payloads, string(out))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payloads, nil
}

// ParseTableDefs unmarshals each inflated SDI JSON payload and returns the
// TableDef for every type==1 (table) entry found. Payloads whose JSON shape
// does not match fail the whole call with a Schema-kind error, since a
// malformed schema makes every downstream record decode unreliable.
func ParseTableDefs(payloads []string) ([]TableDef, error) {
	var defs []TableDef
	for _, p := range payloads {
		var entry sdiEntry
		if err := json.Unmarshal([]byte(p), &entry); err != nil {
			return nil, ibderr.New(ibderr.Schema, "ibdsdi.ParseTableDefs", err)
		}
		if entry.Type != sdiEntryTypeTable {
			continue
		}
		raw := entry.DDObject
		if len(raw) == 0 {
			raw = entry.Object
		}
		var obj ddObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, ibderr.New(ibderr.Schema, "ibdsdi.ParseTableDefs", err)
		}
		defs = append(defs, buildTableDef(obj))
	}
	return defs, nil
}
