// Package ibdpage provides the page-buffer source (C2), the common file-page
// frame (C3), and the file-space/extent/inode layer (C4) for InnoDB
// tablespace files. Every higher layer (ibdrec, ibdsdi) is handed immutable
// 16 KiB page buffers produced here; none of them read the file directly.
package ibdpage

import (
	"os"

	"github.com/Jeanhwea/ibdread/ibderr"
)

// PageSize is the fixed InnoDB page size this reader supports.
const PageSize = 16384

// Source is a random-access provider mapping a page number to an immutable
// 16 KiB byte slice read from a tablespace file.
type Source struct {
	f         *os.File
	pageCount int64
}

// Open opens a tablespace data file and validates that its length is a
// whole multiple of PageSize.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ibderr.New(ibderr.Io, "ibdpage.Open", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ibderr.New(ibderr.Io, "ibdpage.Open", err)
	}

	size := info.Size()
	if size <= 0 || size%PageSize != 0 {
		f.Close()
		return nil, ibderr.New(ibderr.Corrupt, "ibdpage.Open", nil)
	}

	return &Source{f: f, pageCount: size / PageSize}, nil
}

// Close releases the underlying file descriptor.
func (s *Source) Close() error {
	return s.f.Close()
}

// PageCount returns the number of whole pages in the file.
func (s *Source) PageCount() int64 {
	return s.pageCount
}

// GetPage returns the raw 16 KiB buffer for pageNo. The returned slice must
// not be mutated or retained past the source's lifetime.
func (s *Source) GetPage(pageNo uint32) ([]byte, error) {
	if int64(pageNo) >= s.pageCount {
		return nil, ibderr.New(ibderr.OutOfRange, "ibdpage.GetPage", nil)
	}

	buf := make([]byte, PageSize)
	off := int64(pageNo) * PageSize
	if _, err := s.f.ReadAt(buf, off); err != nil {
		return nil, ibderr.New(ibderr.Io, "ibdpage.GetPage", err)
	}
	return buf, nil
}

// GetHeader reads pageNo and returns only its parsed FIL header, without
// retaining the full page buffer.
func (s *Source) GetHeader(pageNo uint32) (Header, error) {
	buf, err := s.GetPage(pageNo)
	if err != nil {
		return Header{}, err
	}
	return ParseHeader(buf), nil
}
