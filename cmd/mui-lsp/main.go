package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	lspserver "mui-v7-lint/lsp-server"
)

func main() {
	verbose := flag.Bool("verbose", false, "log debug output to stderr")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	// stdout carries the protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	StartServer(ctx, logger)
}

func StartServer(ctx context.Context, logger *slog.Logger) {
	s := newServer(logger)
	lspserver.StartServer(ctx, s.methods())
}
