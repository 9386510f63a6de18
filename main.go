package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/t0ffel/playbook2image/cmd"
	"github.com/t0ffel/playbook2image/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.CreateRootCommand().ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(utils.ExitCode(err))
	}
}
