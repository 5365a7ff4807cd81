package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/bizledger_app/internal/commands"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := commands.NewRootCommand(logger).Execute(); err != nil {
		os.Exit(1)
	}
}
