// Package bot serves decisions over NATS request/reply. A request carries
// a board as rows of 0/1 and the reply carries the inputs to perform.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	aibot "github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/worker"
)

const (
	FormatText = "text"
	FormatKeys = "keys"
)

// Request asks for the inputs for one captured board.
type Request struct {
	Rows   [][]int `json:"rows"`
	Format string  `json:"format,omitempty"`
}

// Response is the reply to a Request. Actions is empty unless Outcome is
// "decided".
type Response struct {
	Actions  []string `json:"actions"`
	Outcome  string   `json:"outcome"`
	Error    string   `json:"error,omitempty"`
	Piece    string   `json:"piece,omitempty"`
	Rotation int      `json:"rotation"`
	Offset   int      `json:"offset"`
	Score    float64  `json:"score"`
}

type Bot struct {
	config  *config.Config
	decider *aibot.Decider
}

func NewBot(config *config.Config, decider *aibot.Decider) *Bot {
	return &Bot{config: config, decider: decider}
}

func errorResponse(outcome worker.Outcome, message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Actions: []string{}, Outcome: outcome.String(), Error: msg}
}

// Decide answers one request.
func (bot *Bot) Decide(req *Request) *Response {
	if req.Format != "" && req.Format != FormatText && req.Format != FormatKeys {
		return errorResponse(worker.OutcomeFailed, "Unknown format "+req.Format, nil)
	}
	b, err := board.FromInts(req.Rows)
	if err != nil {
		return errorResponse(worker.OutcomeFailed, "Could not read board", err)
	}
	actions, dec, err := bot.decider.DecideBestMove(b)
	if err != nil {
		outcome, _ := worker.ClassifyError(err)
		return errorResponse(outcome, "Could not decide", err)
	}
	resp := &Response{
		Outcome:  worker.OutcomeDecided.String(),
		Piece:    dec.Piece.Type.String(),
		Rotation: dec.Best.Rotation,
		Offset:   dec.Best.Offset,
		Score:    dec.Best.Score,
	}
	for _, a := range actions {
		if req.Format == FormatKeys {
			resp.Actions = append(resp.Actions, a.KeyCommand())
		} else {
			resp.Actions = append(resp.Actions, a.String())
		}
	}
	log.Info().Str("decision", dec.String()).Msg("generated-move")
	return resp
}

func (bot *Bot) handle(data []byte) *Response {
	req := Request{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse(worker.OutcomeFailed, "Could not parse request", err)
	}
	return bot.Decide(&req)
}

// Handle turns a serialized request into a serialized response.
func (bot *Bot) Handle(data []byte) []byte {
	resp := bot.handle(data)
	out, err := json.Marshal(resp)
	if err != nil {
		// Should never happen, ideally, but we need to do something sensible here.
		return []byte(err.Error())
	}
	return out
}

// Serve answers requests on channel until ctx is done.
func (bot *Bot) Serve(ctx context.Context, nc *nats.Conn, channel string) error {
	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		start := time.Now()
		log.Debug().Msgf("RECV: %d bytes", len(m.Data))
		if err := m.Respond(bot.Handle(m.Data)); err != nil {
			log.Err(err).Msg("respond-failed")
		}
		log.Debug().Dur("elapsed", time.Since(start)).Msg("responded")
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Msgf("Listening on [%s]", channel)

	<-ctx.Done()
	return sub.Drain()
}
