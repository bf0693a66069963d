package ibdsdi

import "github.com/Jeanhwea/ibdread/ibdpage"

// RecordWalker enumerates the addresses of user records on a parsed index
// page. ibdrec.IndexPage.WalkUserRecords satisfies this shape; ibdsdi
// cannot import ibdrec directly (ibdrec depends on ibdsdi's ColumnDef/
// IndexDef types), so the caller supplies the walk.
type RecordWalker func(visit func(addr int) error) error

// Read performs the full C7 SDI extraction pipeline: locate the SDI root
// page via page 0's FSP header, then read every table-type entry from the
// already-parsed SDI page using the supplied walker.
func Read(page0 []byte, sdiPageBuf []byte, walk RecordWalker) ([]TableDef, error) {
	if _, err := Locate(page0); err != nil {
		return nil, err
	}
	payloads, err := ExtractRecords(sdiPageBuf, walk)
	if err != nil {
		return nil, err
	}
	return ParseTableDefs(payloads)
}

// ReadSDIPageNo is a convenience for callers that only need the root page
// number, e.g. the CLI's `sdi --root-segments` subcommand.
func ReadSDIPageNo(src *ibdpage.Source) (uint32, error) {
	page0, err := src.GetPage(0)
	if err != nil {
		return 0, err
	}
	return Locate(page0)
}
