package ibdtool

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// filePath is the path to the tablespace (.ibd) or redo-log file under
// inspection, bound to the root command's persistent --file flag. Every
// subcommand opens it fresh rather than sharing a handle, matching the
// teacher's one-shot parseSingleFile entry point.
var filePath string
var verbose bool

// NewRootCmd builds the ibdtool command tree: one root plus the eight
// subcommands from the CLI surface (info, list, desc, sdi, view, dump,
// undo, redo). It replaces the teacher's flag.FlagSet/custom-usage
// dispatch with cobra's Command tree, but keeps the single-entry-point
// shape main.go uses to build and execute it.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ibdtool",
		Short: "Inspect InnoDB tablespace and redo-log files offline",
		Long: "ibdtool reads .ibd tablespace files and ib_logfile redo logs directly " +
			"off disk, without a running server, and prints their structure: file-space " +
			"headers, extents, segments, index pages, records, the embedded SDI schema, " +
			"undo logs, and redo-log blocks.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			InitLogger(verbose)
			if filePath == "" {
				return fmt.Errorf("--file is required")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&filePath, "file", "f", "", "path to a .ibd tablespace file or ib_logfile redo log")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose structured logging")

	root.AddCommand(
		newInfoCmd(),
		newListCmd(),
		newDescCmd(),
		newSDICmd(),
		newViewCmd(),
		newDumpCmd(),
		newUndoCmd(),
		newRedoCmd(),
	)
	return root
}

// warn prints a yellow forensic warning to stderr and logs it, without
// aborting the command: a checksum mismatch or unreadable page is
// something to report, not a reason to stop walking the file.
func warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	Log().Warn(msg)
	fmt.Fprintln(color.Error, color.YellowString("warning: "+msg))
}

func headingf(format string, args ...any) {
	fmt.Println(color.New(color.Bold, color.FgCyan).Sprintf(format, args...))
}
