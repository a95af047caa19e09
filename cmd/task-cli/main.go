// Package main is the entry point for the task-cli tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"taskcli/internal/backend/filestore"
	"taskcli/internal/cli"
	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create service factory backed by the task file
	factory := func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
		path := cfg.DataPath()
		if err := filestore.Ensure(path); err != nil {
			return nil, err
		}
		store := filestore.New(path, logger)
		return service.New(store, service.WithLogger(logger)), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, os.Stdin)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
