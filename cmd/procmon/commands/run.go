package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fffej/corefx/pkg/logger"
	"github.com/fffej/corefx/pkg/process"
)

var (
	runEnvFile string
	runDir     string
	runEnv     []string
	runTimeout time.Duration
)

func NewRunCommand(log *logger.Logger) *cobra.Command {
	runCmd := &cobra.Command{
		Use:          "run [flags] -- PROGRAM [ARGS...]",
		Short:        "Run a program and wait for it to exit",
		RunE:         runProcess(log),
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
	}

	runCmd.Flags().StringVar(&runEnvFile, "env-file", "", "Apply environment entries from the given dotenv file on top of the inherited environment.")
	runCmd.Flags().StringVarP(&runDir, "dir", "d", "", "Working directory for the program. Empty means inherit.")
	runCmd.Flags().StringArrayVarP(&runEnv, "env", "e", nil, "NAME=VALUE environment overrides, applied last. May be repeated.")
	runCmd.Flags().DurationVarP(&runTimeout, "timeout", "t", 0, "Kill the program if it is still running after this duration. Zero means no timeout.")

	return runCmd
}

func runProcess(log *logger.Logger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := log.WithName("run")

		config := process.NewStartConfig(args[0], args[1:]...)
		config.Dir = runDir
		config.EnvFile = runEnvFile
		config.Env = runEnv
		config.Stdout = os.Stdout
		config.Stderr = os.Stderr
		config.Stdin = os.Stdin

		var exitCode int32
		var err error
		if runTimeout > 0 {
			exitCode, err = process.RunWithTimeout(cmd.Context(), log.Logger, config, runTimeout)
		} else {
			exitCode, err = process.Run(cmd.Context(), log.Logger, config)
		}
		if err != nil {
			log.Error(err, "process run failed", "FileName", config.FileName)
			return err
		}

		log.V(1).Info("process exited", "FileName", config.FileName, "ExitCode", exitCode)
		if exitCode != 0 {
			return fmt.Errorf("process exited with code %d", exitCode)
		}
		return nil
	}
}
