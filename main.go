// ibdread - inspect InnoDB tablespace and redo-log files offline
//
// Usage:
//
//	ibdread info -f /path/to/table.ibd
//	ibdread dump -f /path/to/table.ibd --page-no 4
//	ibdread redo -f /path/to/ib_logfile0
package main

import (
	"fmt"
	"os"

	"github.com/Jeanhwea/ibdread/ibdtool"
)

func main() {
	if err := ibdtool.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
