package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"pitasks/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	result, err := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if result.ExitCode == cli.ExitInvalidInvocation {
			fmt.Fprintln(os.Stderr, cli.Usage())
		}
	}
	os.Exit(result.ExitCode)
}
