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

var infoShowModules bool

func NewInfoCommand(log *logger.Logger) *cobra.Command {
	infoCmd := &cobra.Command{
		Use:          "info PID",
		Short:        "Show metrics for a single process",
		RunE:         showProcessInfo(log),
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
	}

	infoCmd.Flags().BoolVarP(&infoShowModules, "modules", "m", false, "Also list the modules loaded into the process.")

	return infoCmd
}

func showProcessInfo(log *logger.Logger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := log.WithName("info")

		pid, pidErr := process.StringToPidT(args[0])
		if pidErr != nil {
			log.Error(pidErr, "invalid PID", "PID", args[0])
			return pidErr
		}

		dir := process.NewDirectory(log.Logger)
		p, err := dir.GetByID(pid, process.Localhost)
		if err != nil {
			log.Error(err, "process not found", "PID", pid)
			return err
		}
		defer p.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "PID\t%d\n", p.Pid())
		fmt.Fprintf(w, "Name\t%s\n", p.Name())
		if t := p.Identity().StartTime; !t.IsZero() {
			fmt.Fprintf(w, "Started\t%s\n", t.Format(osutil.RFC3339MiliTimestampFormat))
		}

		if mem, memErr := p.MemoryCounters(); memErr == nil {
			fmt.Fprintf(w, "Resident memory\t%d bytes\n", mem.Resident)
			fmt.Fprintf(w, "Peak resident memory\t%d bytes\n", mem.PeakResident)
			fmt.Fprintf(w, "Virtual memory\t%d bytes\n", mem.Virtual)
		}
		if cpu, cpuErr := p.CPUTimes(); cpuErr == nil {
			fmt.Fprintf(w, "User CPU time\t%s\n", osutil.FormatDuration(cpu.User))
			fmt.Fprintf(w, "Privileged CPU time\t%s\n", osutil.FormatDuration(cpu.Privileged))
			fmt.Fprintf(w, "Total CPU time\t%s\n", osutil.FormatDuration(cpu.Total()))
		}
		if priority, priErr := p.Priority(); priErr == nil {
			fmt.Fprintf(w, "Priority\t%s\n", priority)
		}
		if affinity, affErr := p.ProcessorAffinity(); affErr == nil {
			fmt.Fprintf(w, "Processor affinity\t0x%x\n", affinity)
		}
		if session, sessErr := p.SessionID(); sessErr == nil {
			fmt.Fprintf(w, "Session\t%d\n", session)
		}

		modules, modErr := p.Modules()
		if modErr == nil {
			fmt.Fprintf(w, "Modules\t%d\n", len(modules))
		}
		if flushErr := w.Flush(); flushErr != nil {
			return flushErr
		}

		if infoShowModules && modErr == nil {
			mw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(mw, "\nBASE\tSIZE\tNAME")
			for _, m := range modules {
				fmt.Fprintf(mw, "0x%x\t%d\t%s\n", m.BaseAddress, m.MemorySize, m.Name)
			}
			return mw.Flush()
		}

		return nil
	}
}
