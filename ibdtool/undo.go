package ibdtool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jeanhwea/ibdread/ibdpage"
	"github.com/Jeanhwea/ibdread/ibdundo"
)

func newUndoCmd() *cobra.Command {
	var pageNo uint32
	var boffset int
	var nUniq int

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Parse an undo record header (and log header, if present) at a page/offset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(pageNo, boffset, nUniq)
		},
	}
	cmd.Flags().Uint32Var(&pageNo, "page-no", 0, "undo log page number")
	cmd.Flags().IntVar(&boffset, "boffset", 0, "byte offset of the record cursor within the page")
	cmd.Flags().IntVar(&nUniq, "n-uniq", 0, "number of unique key columns preceding roll_ptr (reserved for key-value decode)")
	cmd.MarkFlagRequired("page-no")
	cmd.MarkFlagRequired("boffset")
	return cmd
}

func runUndo(pageNo uint32, boffset, nUniq int) error {
	src, err := ibdpage.Open(filePath)
	if err != nil {
		return err
	}
	defer src.Close()

	buf, err := src.GetPage(pageNo)
	if err != nil {
		return err
	}

	hdr := ibdundo.ParseRecordHeader(buf, boffset)
	headingf("undo record @ page %d, offset %d", pageNo, boffset)
	fmt.Printf("  prev_rec_offset: %d\n", hdr.PrevRecOffset)
	fmt.Printf("  next_rec_offset: %d\n", hdr.NextRecOffset)
	fmt.Printf("  type:            %s\n", hdr.Type)
	fmt.Printf("  cmpl_info:       %d\n", hdr.CmplInfo)
	fmt.Printf("  extra_flags:     0x%02x\n", hdr.ExtraFlags)
	if nUniq > 0 {
		fmt.Printf("  n_uniq:          %d (key-value decode not implemented)\n", nUniq)
	}

	log := ibdundo.ParseLogHeader(buf, boffset)
	if log.TrxID != 0 || log.TableID != 0 {
		fmt.Println("  undo log header:")
		fmt.Printf("    trx_id:    %d\n", log.TrxID)
		fmt.Printf("    trx_no:    %d\n", log.TrxNo)
		fmt.Printf("    table_id:  %d\n", log.TableID)
		fmt.Printf("    del_marks: %d\n", log.DelMarks)
		if log.XA != nil {
			fmt.Printf("    xa_format: %d xa_trid_len=%d xa_bqual_len=%d\n", log.XA.XaFormat, log.XA.XaTridLen, log.XA.XaBqualLen)
		}
	}
	return nil
}
