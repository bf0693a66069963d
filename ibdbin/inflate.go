package ibdbin

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/Jeanhwea/ibdread/ibderr"
)

// Inflate decodes a zlib-compressed byte slice. It fails with a
// Compression-kind error on truncated or malformed input rather than
// panicking, since forensic input is frequently partial.
func Inflate(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, ibderr.New(ibderr.Compression, "ibdbin.Inflate", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, ibderr.New(ibderr.Compression, "ibdbin.Inflate", err)
	}
	return out, nil
}
