package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"tasklist/app/client"
	"tasklist/app/config"
	"tasklist/app/frontend"
	"tasklist/app/logging"
)

func main() {
	cfg := config.LoadClient()

	// The TUI owns the terminal, so diagnostics only go to a file when asked.
	logger := logging.Discard()
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal("Failed to open log file", "path", cfg.LogFile, "err", err)
		}
		defer f.Close()
		logger = logging.New(f, logging.Options{Level: cfg.LogLevel, Timestamp: true})
	}
	logger.Info("Starting client", "api", cfg.APIURL)

	api := client.New(cfg.APIURL, client.WithLogger(logger))
	ctrl := frontend.NewController(api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := frontend.Run(ctx, ctrl); err != nil {
		logger.Error("Client exited", "err", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
