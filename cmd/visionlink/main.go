package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"visionlink/internal/cli"
	"visionlink/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, config.Load()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
