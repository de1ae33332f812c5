package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/reusee/dscope"
	"github.com/reusee/tutor/cmds"
	"github.com/reusee/tutor/configs"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/modes"
)

func main() {
	logs.SetLevel(slog.LevelWarn)
	cmds.Execute(os.Args[1:])
	if len(jobs) == 0 {
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Call(func(
		env Env,
		logger logs.Logger,
		loader configs.Loader,
	) {
		if err := loader.Check(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		for _, job := range jobs {
			if err := job(ctx, env); err != nil {
				logger.Error("job failed", "error", err)
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		}
	})
}
