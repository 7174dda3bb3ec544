package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/frankint/battleship-cli/internal/cli"
)

func main() {
	// Ctrl+C cancels the running command's context; interactive loops
	// handle the signal themselves where they need a cleaner exit
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
