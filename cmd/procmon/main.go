package main

import (
	"context"
	"os"

	"github.com/fffej/corefx/cmd/procmon/commands"
	"github.com/fffej/corefx/pkg/logger"
	"github.com/fffej/corefx/pkg/osutil"
	"github.com/fffej/corefx/pkg/resiliency"
)

const (
	errCommandError = 1
	errPanic        = 3
)

func main() {
	log := logger.New("procmon")

	defer func() {
		panicErr := resiliency.MakePanicError(recover(), log.Logger)
		if panicErr != nil {
			os.Stderr.WriteString(panicErr.Error() + string(osutil.LineSep()))
			log.Flush()
			os.Exit(errPanic)
		}
	}()

	root := commands.NewRootCmd(log)

	err := root.ExecuteContext(context.Background())
	log.Flush()
	if err != nil {
		os.Exit(errCommandError)
	}
}
