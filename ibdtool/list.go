package ibdtool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jeanhwea/ibdread/ibdpage"
	"github.com/Jeanhwea/ibdread/ibdrec"
)

func newListCmd() *cobra.Command {
	var showIndex, showSegment, showExtent, showPage, showAll bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Enumerate index pages, segments, extents, or all pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !showIndex && !showSegment && !showExtent && !showPage {
				showAll = true
			}
			return runList(showIndex || showAll, showSegment || showAll, showExtent || showAll, showPage || showAll, limit)
		},
	}

	cmd.Flags().BoolVar(&showIndex, "index", false, "list index (B-tree) pages")
	cmd.Flags().BoolVar(&showSegment, "segment", false, "list live file segments (inode slots)")
	cmd.Flags().BoolVar(&showExtent, "extent", false, "list extent descriptors")
	cmd.Flags().BoolVar(&showPage, "page", false, "list every page's FIL header")
	cmd.Flags().BoolVar(&showAll, "all", false, "list everything (default when no other flag is given)")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of rows printed per section, 0 = unlimited")
	return cmd
}

func capped(n, limit int) bool {
	return limit > 0 && n >= limit
}

func runList(index, segment, extent, page bool, limit int) error {
	src, err := ibdpage.Open(filePath)
	if err != nil {
		return err
	}
	defer src.Close()

	if page {
		headingf("pages")
		n := 0
		for pn := int64(0); pn < src.PageCount() && !capped(n, limit); pn++ {
			h, err := src.GetHeader(uint32(pn))
			if err != nil {
				warn("page %d: %v", pn, err)
				continue
			}
			fmt.Printf("  %-8d type=%-14s prev=%-10d next=%-10d lsn=%d\n",
				pn, h.PageType, int32(h.PrevPage), int32(h.NextPage), h.LSN)
			n++
		}
	}

	if extent {
		headingf("extents")
		n := 0
		for pn := int64(0); pn < src.PageCount() && !capped(n, limit); pn++ {
			buf, err := src.GetPage(uint32(pn))
			if err != nil {
				continue
			}
			h := ibdpage.ParseHeader(buf)
			if h.PageType != ibdpage.PageTypeFspHdr && h.PageType != ibdpage.PageTypeXdes {
				continue
			}
			for _, e := range ibdpage.XDESEntries(buf) {
				if e.State == ibdpage.XDesNotInited {
					continue
				}
				fmt.Printf("  extent=%-6d seg_id=%-10d state=%s\n", e.ExtentNo(uint32(pn)), e.SegID, e.State)
				n++
				if capped(n, limit) {
					break
				}
			}
		}
	}

	if segment {
		headingf("segments (live inode slots)")
		n := 0
		for pn := int64(0); pn < src.PageCount() && !capped(n, limit); pn++ {
			buf, err := src.GetPage(uint32(pn))
			if err != nil {
				continue
			}
			if ibdpage.ParseHeader(buf).PageType != ibdpage.PageTypeInode {
				continue
			}
			for _, e := range ibdpage.INodeEntries(buf) {
				if !e.IsLive() {
					continue
				}
				fmt.Printf("  page=%-8d fseg_id=%-10d n_used=%-6d frag_pages=%d\n",
					pn, e.FSegID, e.NotFullNUsed, len(e.FragPages()))
				n++
				if capped(n, limit) {
					break
				}
			}
		}
	}

	if index {
		headingf("index pages")
		n := 0
		for pn := int64(0); pn < src.PageCount() && !capped(n, limit); pn++ {
			buf, err := src.GetPage(uint32(pn))
			if err != nil {
				continue
			}
			if ibdpage.ParseHeader(buf).PageType != ibdpage.PageTypeIndex {
				continue
			}
			p, err := ibdrec.ParseIndexPage(buf)
			if err != nil {
				warn("page %d: %v", pn, err)
				continue
			}
			fmt.Printf("  page=%-8d index_id=%-10d level=%-4d n_recs=%-6d leaf=%v\n",
				pn, p.IndexHdr.IndexID, p.IndexHdr.Level, p.IndexHdr.NRecs, p.IsLeaf())
			n++
		}
	}

	return nil
}
