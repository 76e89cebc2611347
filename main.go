package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AmulyaX/fake-atc/modem"
)

func main() {
	flag.String("config", "commands.json", "Command table file (JSON or YAML)")
	flag.String("target", "", "Stable alias path to link the emulated device to")
	flag.Bool("no-link", false, "Do not create an alias, serve on the raw device path only")
	flag.Int("settle-ms", 250, "Settle interval in milliseconds before a reboot swaps the device")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	table, err := modem.LoadTable(config.CommandsPath)
	if err != nil {
		logger.Error("Failed to load command table", "path", config.CommandsPath, "error", err)
		os.Exit(1)
	}

	engine, err := modem.New(modem.Config{
		Allocator:      modem.PTYAllocator{},
		Table:          table,
		AliasPath:      config.TargetLink,
		SettleInterval: time.Duration(config.SettleMs) * time.Millisecond,
		Logger:         logger.With("component", "engine"),
	})
	if err != nil {
		logger.Error("Failed to start device", "error", err)
		os.Exit(1)
	}

	logger.Info("Fake modem running",
		"path", engine.Path(),
		"target", config.TargetLink,
		"commands", len(table))
	logger.Info("Press Ctrl+C to stop")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Engine stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("Shut down")
}
