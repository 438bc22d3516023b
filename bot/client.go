package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/move"
)

const requestTimeout = 10 * time.Second

// Connect dials the NATS server, retrying with backoff while it is not up
// yet.
func Connect(ctx context.Context, url string, attempts uint) (*nats.Conn, error) {
	return retry.DoWithData(
		func() (*nats.Conn, error) {
			return nats.Connect(url)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel}
}

func MakeRequest(b *board.GameBoard, format string) ([]byte, error) {
	return json.Marshal(Request{Rows: b.ToInts(), Format: format})
}

// ParseResponse decodes a text-format reply into actions.
func ParseResponse(data []byte) ([]move.Action, *Response, error) {
	resp := Response{}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Error != "" {
		return nil, &resp, errors.New("Bot returned: " + resp.Error)
	}
	actions := make([]move.Action, 0, len(resp.Actions))
	for _, s := range resp.Actions {
		a, err := move.ParseAction(s)
		if err != nil {
			return nil, &resp, err
		}
		actions = append(actions, a)
	}
	return actions, &resp, nil
}

// RequestMove sends a board to the bot and gets the inputs back.
func (c *Client) RequestMove(ctx context.Context, b *board.GameBoard) ([]move.Action, *Response, error) {
	data, err := MakeRequest(b, FormatText)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := c.nc.RequestWithContext(ctx, c.channel, data)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Error().Msgf("%v for request", err)
		return nil, nil, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))
	return ParseResponse(res.Data)
}
