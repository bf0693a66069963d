package ibdtool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jeanhwea/ibdread/ibdpage"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print file metadata and a page-type histogram",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
}

func runInfo() error {
	src, err := ibdpage.Open(filePath)
	if err != nil {
		return err
	}
	defer src.Close()

	fsp, err := ibdpage.ReadFSPHeader(src)
	if err != nil {
		return err
	}

	headingf("tablespace %s", filePath)
	fmt.Printf("  space_id:    %d\n", fsp.SpaceID)
	fmt.Printf("  size:        %d pages\n", fsp.Size)
	fmt.Printf("  free_limit:  %d\n", fsp.FreeLimit)
	fmt.Printf("  flags:       0x%08x\n", fsp.Flags)
	fmt.Printf("  frag_n_used: %d\n", fsp.FragNUsed)
	fmt.Printf("  page_count:  %d\n", src.PageCount())

	histogram := map[ibdpage.PageType]int64{}
	for pn := int64(0); pn < src.PageCount(); pn++ {
		h, err := src.GetHeader(uint32(pn))
		if err != nil {
			warn("page %d: %v", pn, err)
			continue
		}
		histogram[h.PageType]++
	}

	headingf("page type histogram")
	for _, pt := range []ibdpage.PageType{
		ibdpage.PageTypeAllocated, ibdpage.PageTypeUndoLog, ibdpage.PageTypeInode,
		ibdpage.PageTypeIBufFreeList, ibdpage.PageTypeIBufBitmap, ibdpage.PageTypeSys,
		ibdpage.PageTypeTrxSys, ibdpage.PageTypeFspHdr, ibdpage.PageTypeXdes,
		ibdpage.PageTypeBlob, ibdpage.PageTypeIndex, ibdpage.PageTypeRSegArray,
		ibdpage.PageTypeSDI,
	} {
		if n, ok := histogram[pt]; ok {
			fmt.Printf("  %-16s %d\n", pt.String(), n)
		}
	}
	return nil
}
