package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cytoweave/cytoweave/cmd/cyto/commands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Set via ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	// Bootstrap logger for errors raised before a subcommand loads its
	// configuration; subcommands build their own logger from it.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx, Version, Commit, BuildDate); err != nil {
		log.Error().Err(err).Msg("cyto failed")
		os.Exit(1)
	}
}
