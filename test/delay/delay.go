package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fffej/corefx/pkg/logger"
)

type delayFlagData struct {
	delay         time.Duration
	exitCode      int
	ignoreSigTerm bool
}

var flags delayFlagData

func main() {
	log := logger.New("delay")
	err := newMainCommand().Execute()
	if err != nil {
		log.Error(err, "delay tool failed")
		os.Exit(1)
	} else {
		os.Exit(flags.exitCode)
	}
}

func newMainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delay",
		Short: "A simple program that waits for a specified amount of time before exiting.",
		Long: `A simple program that waits for a specified amount of time before exiting.

It will exit sooner if SIGTERM or SIGINT is received.
You can also ask it to exit with a specific exit code.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMain()
		},
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().DurationVarP(&flags.delay, "delay", "d", 0, "The amount of time to wait before exiting, for example 3s or 300ms.")
	cmd.Flags().IntVarP(&flags.exitCode, "exit-code", "e", 0, "The exit code to return when the program exits. If omitted, the program will exit with code 0.")
	cmd.Flags().BoolVar(&flags.ignoreSigTerm, "ignore-sigterm", false, "If specified, the program will ignore SIGTERM. SIGINT will still work as an early exit request.")

	return cmd
}

func runMain() error {
	if flags.exitCode < 0 || flags.exitCode > 125 {
		return fmt.Errorf("the exit code must be between 0 and 125 inclusive")
	}

	shutdownCh := make(chan os.Signal, 1)
	ctx, shutdownCancelFn := context.WithCancel(context.Background())
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for {
			sig := <-shutdownCh
			if flags.ignoreSigTerm && sig == syscall.SIGTERM {
				continue
			}
			break
		}
		shutdownCancelFn()
	}()

	if flags.delay != 0 {
		var cancelFn context.CancelFunc
		ctx, cancelFn = context.WithTimeout(ctx, flags.delay)
		defer cancelFn()
	}

	<-ctx.Done()

	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		fmt.Fprintln(os.Stdout, "Received request to exit")
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		fmt.Fprintln(os.Stdout, "Ran to completion")
	}

	if flags.exitCode != 0 {
		os.Exit(flags.exitCode)
	}

	return nil
}
