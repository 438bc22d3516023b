package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/move"
)

var errNoBoard = errors.New("load a board first")

type ShellResponse struct {
	message string
}

func Msg(message string) *ShellResponse {
	return &ShellResponse{message: message}
}

// requester is the part of Client the shell needs.
type requester interface {
	RequestMove(ctx context.Context, b *board.GameBoard) ([]move.Action, *Response, error)
}

// ShellController is a small terminal front end that asks a remote bot
// for moves.
type ShellController struct {
	l      *readline.Instance
	config *config.Config
	board  *board.GameBoard
	client requester
	out    io.Writer
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mdropbot-client>\033[0m ",
		HistoryFile:     "/tmp/dropbot_client_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})

	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, config: cfg, out: l.Stderr()}
}

func (sc *ShellController) load(args []string) (*ShellResponse, error) {
	if len(args) != 1 {
		return nil, errors.New("load <file>")
	}
	b, err := board.LoadFile(args[0])
	if err != nil {
		return nil, err
	}
	sc.board = b
	return sc.show()
}

func (sc *ShellController) show() (*ShellResponse, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	return Msg(sc.board.ToDisplayText()), nil
}

func (sc *ShellController) ask() (*ShellResponse, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	sc.showMessage("Requesting move from bot")
	actions, resp, err := sc.client.RequestMove(context.Background(), sc.board)
	if err != nil {
		return nil, err
	}
	return Msg(fmt.Sprintf("Bot returned %s rot=%d offset=%d score=%.6f\n%s", resp.Piece,
		resp.Rotation, resp.Offset, resp.Score, strings.TrimRight(move.ToText(actions), "\n"))), nil
}

func (sc *ShellController) handle(line string) (*ShellResponse, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	cmd := fields[0]
	args := fields[1:]
	switch cmd {
	case "load", "l":
		return sc.load(args)
	case "show", "s", "b":
		return sc.show()
	case "ask", "a":
		return sc.ask()
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

func (sc *ShellController) Loop(channel string, sig chan os.Signal) {

	defer sc.l.Close()

	nc, err := Connect(context.Background(), sc.config.GetString(config.ConfigNatsURL), 5)
	if err != nil {
		log.Err(err).Msg("nats-connect-failed")
		sig <- syscall.SIGINT
		return
	}
	defer nc.Close()
	sc.client = NewClient(nc, channel)

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.handle(line)
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
