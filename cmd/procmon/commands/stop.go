package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fffej/corefx/internal/flags"
	"github.com/fffej/corefx/pkg/logger"
	"github.com/fffej/corefx/pkg/osutil"
	"github.com/fffej/corefx/pkg/process"
	"github.com/fffej/corefx/pkg/resiliency"
)

var stopStartTime time.Time

func NewStopCommand(log *logger.Logger) *cobra.Command {
	stopCmd := &cobra.Command{
		Use:          "stop PID",
		Short:        "Force-terminate a running process",
		RunE:         stopProcess(log),
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
	}

	stopCmd.Flags().Var(flags.NewTimeFlag(&stopStartTime, osutil.RFC3339MiliTimestampFormat), "start-time", "If present, specifies the start time of the process to stop. This is used to ensure the correct process will be shut down when a PID has been reused. The time format is RFC3339 with millisecond precision, for example "+osutil.RFC3339MiliTimestampFormat)

	return stopCmd
}

func stopProcess(log *logger.Logger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := log.WithName("stop")

		pid, pidErr := process.StringToPidT(args[0])
		if pidErr != nil {
			log.Error(pidErr, "invalid PID", "PID", args[0])
			return pidErr
		}

		handle := process.NewProcessHandle(pid, stopStartTime)
		proc, findErr := process.FindProcess(handle)
		if findErr != nil {
			log.Error(findErr, "process not found", "PID", pid)
			return findErr
		}

		if killErr := proc.Kill(); killErr != nil {
			log.Error(killErr, "could not stop process", "PID", pid)
			return killErr
		}

		// Do not report success until the process is confirmed gone.
		waitErr := resiliency.RetryExponentialWithTimeout(cmd.Context(), 10*time.Second, func() error {
			if _, err := process.FindProcess(handle); err == nil {
				return fmt.Errorf("process %d is still running", pid)
			}
			return nil
		})
		if waitErr != nil {
			log.Error(waitErr, "process did not exit after being stopped", "PID", pid)
			return waitErr
		}

		log.V(1).Info("process stopped", "PID", pid)
		return nil
	}
}
