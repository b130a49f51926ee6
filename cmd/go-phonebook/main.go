package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tartampluch/go-phonebook/internal/cli"
)

// main delegates to cli.Execute so deferred cleanup (log files, signal
// handlers) runs before os.Exit.
func main() {
	os.Exit(run())
}

func run() int {
	// SIGINT/SIGTERM cancel the root context; the shell then leaves without saving.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return cli.Execute(ctx, os.Args[1:])
}
