package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/decisionlog"
	"github.com/domino14/dropbot/equity"
	"github.com/domino14/dropbot/piece"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoBoard           = errors.New("please load a board first")
	errNoLog             = errors.New("the decision log is off; set decision-log-path to turn it on")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l          *readline.Instance
	config     *config.Config
	execPath   string
	gitVersion string
	out        io.Writer

	weights equity.Weights
	decider *bot.Decider
	board   *board.GameBoard
	store   *decisionlog.Store
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

// newController sets up everything but the terminal.
func newController(cfg *config.Config, execPath, gitVersion string) (*ShellController, error) {
	weights, err := equity.LoadWeights(cfg)
	if err != nil {
		return nil, err
	}
	sc := &ShellController{
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		out:        os.Stdout,
	}
	sc.setWeights(weights)

	if path := cfg.GetString(config.ConfigDecisionLogPath); path != "" {
		sc.store, err = decisionlog.Open(path)
		if err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc, err := newController(cfg, execPath, gitVersion)
	if err != nil {
		panic(err)
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36mdropbot>\033[0m ",
		HistoryFile:     "/tmp/dropbot_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

func (sc *ShellController) setWeights(w equity.Weights) {
	sc.weights = w
	sc.decider = bot.NewDecider(bot.NewBotConfig(sc.config), piece.StandardCatalog(),
		equity.NewHeuristicCalculator(w))
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		f := fields[idx]
		if !isOption(f) {
			args = append(args, f)
			continue
		}
		if idx == len(fields)-1 {
			return nil, errWrongOptionSyntax
		}
		key := f[1:]
		options[key] = append(options[key], fields[idx+1])
		idx++
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// isOption is true for -name but not for negative numbers.
func isOption(f string) bool {
	if len(f) < 2 || f[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(f, 64)
	return err != nil
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help", "h":
		return sc.help(cmd)
	case "load", "l":
		return sc.load(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "isolate", "iso":
		return sc.isolate(cmd)
	case "eval", "e":
		return sc.eval(cmd)
	case "gen":
		return sc.generate(cmd)
	case "best", "b":
		return sc.best(cmd)
	case "weights", "w":
		return sc.setWeightsCmd(cmd)
	case "autoplay", "auto":
		return sc.autoplay(cmd)
	case "log":
		return sc.decisionLog(cmd)
	case "script":
		return sc.script(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line, as given on the command line of
// the shell executable.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if sc.handleLine(line) {
		sig <- syscall.SIGINT
	}
}

// handleLine runs one line and reports whether the shell should exit.
func (sc *ShellController) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "exit" {
		return true
	}
	cmd, err := extractFields(line)
	switch {
	case errors.Is(err, errNoData):
		return false
	case err != nil:
		sc.showError(err)
		return false
	}
	resp, err := sc.dispatch(cmd)
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return false
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

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
		if sc.handleLine(line) {
			sig <- syscall.SIGINT
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	if sc.store != nil {
		if err := sc.store.Close(); err != nil {
			log.Err(err).Msg("closing-decision-log")
		}
	}
}
