package ibdtool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jeanhwea/ibdread/ibdpage"
	"github.com/Jeanhwea/ibdread/ibdrec"
	"github.com/Jeanhwea/ibdread/ibdsdi"
)

// loadTableDefs locates the SDI root page of an already-open tablespace and
// decodes every embedded table definition. Shared by desc, sdi and dump.
func loadTableDefs(src *ibdpage.Source) ([]ibdsdi.TableDef, uint32, error) {
	sdiPageNo, err := ibdsdi.ReadSDIPageNo(src)
	if err != nil {
		return nil, 0, err
	}
	sdiBuf, err := src.GetPage(sdiPageNo)
	if err != nil {
		return nil, sdiPageNo, err
	}
	sdiPage, err := ibdrec.ParseIndexPage(sdiBuf)
	if err != nil {
		return nil, sdiPageNo, err
	}
	page0, err := src.GetPage(0)
	if err != nil {
		return nil, sdiPageNo, err
	}
	defs, err := ibdsdi.Read(page0, sdiBuf, sdiPage.WalkUserRecords)
	return defs, sdiPageNo, err
}

func newSDICmd() *cobra.Command {
	var tableDefine, rootSegments bool

	cmd := &cobra.Command{
		Use:   "sdi",
		Short: "Print the embedded Serialized Dictionary Information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSDI(tableDefine, rootSegments)
		},
	}
	cmd.Flags().BoolVar(&tableDefine, "table-define", false, "print recovered table/column/index definitions")
	cmd.Flags().BoolVar(&rootSegments, "root-segments", false, "print only the SDI root page number")
	return cmd
}

func runSDI(tableDefine, rootSegments bool) error {
	src, err := ibdpage.Open(filePath)
	if err != nil {
		return err
	}
	defer src.Close()

	if rootSegments && !tableDefine {
		pageNo, err := ibdsdi.ReadSDIPageNo(src)
		if err != nil {
			return err
		}
		fmt.Printf("sdi root page: %d\n", pageNo)
		return nil
	}

	defs, pageNo, err := loadTableDefs(src)
	if err != nil {
		return err
	}
	headingf("sdi root page: %d", pageNo)
	for _, t := range defs {
		fmt.Printf("table %s.%s (collation %d)\n", t.Schema, t.Name, t.CollationID)
		for _, c := range t.Columns {
			fmt.Printf("  column %-20s nullable=%-5v variable=%-5v data_len=%d\n",
				c.Name, c.Nullable, c.Variable, c.DataLen)
		}
		for _, idx := range t.Indexes {
			fmt.Printf("  index %-20s root_page=%-8d algorithm=%s elements=%d\n",
				idx.Name, idx.RootPageNo, idx.Algorithm, len(idx.Elements))
		}
	}
	return nil
}
