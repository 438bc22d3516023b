// solve decides a single board and prints the inputs, one per line.
//
//	solve board.txt
//	solve --image screenshot.png --format keys
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/move"
	"github.com/domino14/dropbot/vision"
	"github.com/domino14/dropbot/worker"
)

// Exit codes. A board with nothing to do is not a failure.
const (
	exitFailed  = 1
	exitUsage   = 2
	exitNothing = 3
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var image, format string
	cfg := &config.Config{}
	err := cfg.Load(os.Args[1:], func(fs *pflag.FlagSet) {
		fs.StringVar(&image, "image", "", "read the board from a PNG or JPEG screenshot")
		fs.StringVar(&format, "format", "text", "output format: text or keys")
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var b *board.GameBoard
	switch {
	case image != "":
		b, err = vision.NewGridReader(cfg).ReadFile(image)
	case len(cfg.Args()) == 1:
		b, err = board.LoadFile(cfg.Args()[0])
	default:
		fmt.Fprintln(os.Stderr, "usage: solve <board.txt> | solve --image <screenshot>")
		os.Exit(exitUsage)
	}
	if err != nil {
		log.Err(err).Msg("could-not-read-board")
		os.Exit(exitFailed)
	}

	d, err := bot.NewDeciderFromConfig(cfg)
	if err != nil {
		log.Err(err).Msg("could-not-create-decider")
		os.Exit(exitFailed)
	}
	actions, dec, err := d.DecideBestMove(b)
	if _, skip := worker.ClassifyError(err); skip {
		log.Warn().Err(err).Msg("nothing-to-do")
		os.Exit(exitNothing)
	} else if err != nil {
		log.Err(err).Msg("decision-failed")
		if errors.Is(err, board.ErrMalformed) {
			os.Exit(exitUsage)
		}
		os.Exit(exitFailed)
	}
	log.Debug().Str("decision", dec.String()).Msg("decided")

	var sink worker.ActionSink
	if format == "keys" {
		sink = move.NewKeyScriptSink(os.Stdout)
	} else {
		sink = move.NewTextSink(os.Stdout)
	}
	if err := sink.Execute(context.Background(), actions); err != nil {
		log.Err(err).Msg("write-failed")
		os.Exit(exitFailed)
	}
}
