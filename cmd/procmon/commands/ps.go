package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fffej/corefx/pkg/logger"
	"github.com/fffej/corefx/pkg/osutil"
	"github.com/fffej/corefx/pkg/process"
)

var psNameFilter string

func NewPsCommand(log *logger.Logger) *cobra.Command {
	psCmd := &cobra.Command{
		Use:          "ps",
		Short:        "List processes running on the local machine",
		RunE:         listProcesses(log),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	psCmd.Flags().StringVarP(&psNameFilter, "name", "n", "", "Only list processes whose executable name matches (case-insensitive, \".exe\" ignored on Windows).")

	return psCmd
}

func listProcesses(log *logger.Logger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dir := process.NewDirectory(log.Logger)

		var procs []*process.Process
		var err error
		if psNameFilter != "" {
			procs, err = dir.FindByName(psNameFilter, process.Localhost)
		} else {
			procs, err = dir.ListAll(process.Localhost)
		}
		if err != nil {
			log.Error(err, "could not enumerate processes")
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PID\tSTARTED\tNAME")
		for _, p := range procs {
			started := ""
			if t := p.Identity().StartTime; !t.IsZero() {
				started = t.Format(osutil.RFC3339MiliTimestampFormat)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", p.Pid(), started, p.Name())
		}
		return w.Flush()
	}
}
