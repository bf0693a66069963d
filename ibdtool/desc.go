package ibdtool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jeanhwea/ibdread/ibdpage"
)

func newDescCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "desc",
		Short: "Describe a table's columns and indexes from its embedded SDI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesc()
		},
	}
}

func runDesc() error {
	src, err := ibdpage.Open(filePath)
	if err != nil {
		return err
	}
	defer src.Close()

	defs, _, err := loadTableDefs(src)
	if err != nil {
		return err
	}

	for _, t := range defs {
		headingf("%s.%s", t.Schema, t.Name)
		fmt.Println("  columns:")
		for _, c := range t.Columns {
			version := ""
			if c.VersionAdded > 0 {
				version += fmt.Sprintf(" added_v%d", c.VersionAdded)
			}
			if c.VersionDropped > 0 {
				version += fmt.Sprintf(" dropped_v%d", c.VersionDropped)
			}
			fmt.Printf("    %-4d %-24s type=%-12v key=%v%s\n",
				c.Position, c.Name, c.Type, c.ColumnKey, version)
		}
		fmt.Println("  indexes:")
		for _, idx := range t.Indexes {
			fmt.Printf("    %-24s type=%-10v root_page=%-8d null_area_bytes=%d\n",
				idx.Name, idx.Type, idx.RootPageNo, idx.NullAreaBytes)
			for _, e := range idx.Elements {
				fmt.Printf("      part %-3d column_idx=%-4d order=%v nullable=%v variable=%v\n",
					e.Position, e.ColumnIndex, e.Order, e.Nullable, e.Variable)
			}
		}
	}
	return nil
}
