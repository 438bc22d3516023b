package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dropbot/ai/bot"
	natsbot "github.com/domino14/dropbot/bot"
	"github.com/domino14/dropbot/config"
)

const connectAttempts = 10

func main() {
	// Determine the directory of the executable. We will use this
	// directory to find the data files if an absolute path is not
	// provided for these!
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-arguments")
	}
	log.Info().Msgf("Loaded config: %v, exPath: %v", cfg.SanitizedSettings(), exPath)
	cfg.AdjustRelativePaths(exPath)

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	d, err := bot.NewDeciderFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("decider")
	}
	nc, err := natsbot.Connect(ctx, cfg.GetString(config.ConfigNatsURL), connectAttempts)
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}
	defer nc.Close()

	b := natsbot.NewBot(cfg, d)
	if err := b.Serve(ctx, nc, cfg.GetString(config.ConfigBotChannel)); err != nil {
		log.Err(err).Msg("serve")
	}
	log.Info().Msg("server gracefully shutting down")
}
