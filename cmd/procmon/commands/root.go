package commands

import (
	"github.com/spf13/cobra"

	"github.com/fffej/corefx/pkg/logger"
)

func NewRootCmd(log *logger.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		SilenceErrors: true,
		Use:           "procmon",
		Short:         "Inspect and control operating system processes",
		Long: `procmon creates, observes and controls operating system processes.

It can enumerate the processes on the local machine, show metrics for a single
process, launch a program and wait for it to exit, and stop a running process
by PID with protection against PID reuse.`,
		SilenceUsage: true,
	}

	log.AddLevelFlag(rootCmd.PersistentFlags())

	rootCmd.AddCommand(NewPsCommand(log))
	rootCmd.AddCommand(NewRunCommand(log))
	rootCmd.AddCommand(NewStopCommand(log))
	rootCmd.AddCommand(NewInfoCommand(log))

	return rootCmd
}
