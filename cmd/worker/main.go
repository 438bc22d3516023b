package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/decisionlog"
	"github.com/domino14/dropbot/move"
	"github.com/domino14/dropbot/vision"
	"github.com/domino14/dropbot/worker"
)

func main() {
	// Set up logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var screenshot, actionsOut, format string
	dropbotConfig := config.DefaultConfig()
	err := dropbotConfig.Load(os.Args[1:], func(fs *pflag.FlagSet) {
		fs.StringVar(&screenshot, "screenshot", "", "screenshot file that is refreshed with every capture")
		fs.StringVar(&actionsOut, "actions-out", "", "file to append inputs to; stdout when empty")
		fs.StringVar(&format, "format", "keys", "input format: text or keys")
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if dropbotConfig.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if screenshot == "" {
		log.Fatal().Msg("--screenshot is required")
	}

	// Adjust relative paths for data
	exePath, err := os.Executable()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get executable path")
	}
	dropbotConfig.AdjustRelativePaths(filepath.Dir(exePath))

	log.Info().Interface("config", dropbotConfig.SanitizedSettings()).Msg("loaded dropbot config")

	workerConfig := worker.NewWorkerConfig(dropbotConfig)

	decider, err := bot.NewDeciderFromConfig(dropbotConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create decider")
	}

	var out io.Writer = os.Stdout
	if actionsOut != "" {
		f, err := os.OpenFile(actionsOut, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open actions file")
		}
		defer f.Close()
		out = f
	}
	var sink worker.ActionSink
	if format == "text" {
		sink = move.NewTextSink(out)
	} else {
		sink = move.NewKeyScriptSink(out)
	}

	var recorder worker.Recorder
	if path := dropbotConfig.GetString(config.ConfigDecisionLogPath); path != "" {
		store, err := decisionlog.Open(path)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open decision log")
		}
		defer store.Close()
		recorder = store
	}

	source := &vision.FileSource{Path: screenshot, Reader: vision.NewGridReader(dropbotConfig)}
	w := worker.NewWorker(workerConfig, decider, source, sink, recorder)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	// Run the worker
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker failed")
		return
	}

	log.Info().Msg("worker stopped")
}
