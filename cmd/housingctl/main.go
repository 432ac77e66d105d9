package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"housingd/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "housingctl:", err)
		stop()
		os.Exit(1)
	}
}
