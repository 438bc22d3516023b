package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dropbot/automatic"
	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/equity"
	"github.com/domino14/dropbot/isolator"
	"github.com/domino14/dropbot/move"
	"github.com/domino14/dropbot/movegen"
	"github.com/domino14/dropbot/vision"
	"github.com/domino14/dropbot/worker"
)

const defaultGenPlays = 15

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb, sc.gitVersion)
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(sb.String()), nil
}

// load reads a board from a text file, or from a screenshot with -image.
func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	var b *board.GameBoard
	var err error
	if img := cmd.options.String("image"); img != "" {
		b, err = vision.NewGridReader(sc.config).ReadFile(img)
	} else if len(cmd.args) == 1 {
		b, err = board.LoadFile(cmd.args[0])
	} else {
		return nil, errors.New("load <file> or load -image <png>")
	}
	if err != nil {
		return nil, err
	}
	if err := sc.decider.CheckDimensions(b); err != nil {
		return nil, err
	}
	sc.board = b
	return sc.show(cmd)
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	var highlight []board.Coord
	if fp, ok := isolator.Isolate(sc.board); ok {
		highlight = fp.Cells
	}
	return msg(sc.board.ToDisplayText(highlight...)), nil
}

func (sc *ShellController) isolate(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	id, err := isolator.Find(sc.decider.Catalog(), sc.board)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Falling piece: %v\n%s", id, sc.board.WithOnly(id.Cells).ToDisplayText(id.Cells...))), nil
}

// staticBoard returns the loaded board without the falling piece, and the
// piece if there is one.
func (sc *ShellController) staticBoard() (*board.GameBoard, *isolator.Identified, error) {
	if sc.board == nil {
		return nil, nil, errNoBoard
	}
	id, err := isolator.Find(sc.decider.Catalog(), sc.board)
	switch {
	case errors.Is(err, isolator.ErrNoPiece):
		return sc.board, nil, nil
	case err != nil:
		return nil, nil, err
	}
	return sc.board.WithCleared(id.Cells), &id, nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	b, _, err := sc.staticBoard()
	if err != nil {
		return nil, err
	}
	f := equity.ComputeFeatures(b)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Heights:          %v\n", f.Heights)
	fmt.Fprintf(&sb, "Aggregate height: %d\n", f.AggregateHeight)
	fmt.Fprintf(&sb, "Complete lines:   %d\n", f.CompleteLines)
	fmt.Fprintf(&sb, "Holes:            %d\n", f.Holes)
	fmt.Fprintf(&sb, "Bumpiness:        %d\n", f.Bumpiness)
	fmt.Fprintf(&sb, "Score:            %.6f", sc.decider.Evaluator().Score(f))
	return msg(sb.String()), nil
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	n := defaultGenPlays
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	b, id, err := sc.staticBoard()
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, isolator.ErrNoPiece
	}
	plays := sc.decider.Generator().GenAll(b, sc.decider.Catalog().Variants(id.Type))
	if len(plays) == 0 {
		return nil, movegen.ErrNoValidPlacement
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v: %d placements\n", id, len(plays))
	fmt.Fprintf(&sb, "%-4s%-5s%-8s%-12s%-7s%-7s%-8s%-6s\n",
		"#", "Rot", "Offset", "Score", "Lines", "Holes", "Height", "Bump")
	for i, p := range movegen.TopPlays(plays, n) {
		fmt.Fprintf(&sb, "%-4d%-5d%-8d%-12.6f%-7d%-7d%-8d%-6d\n", i+1, p.Rotation, p.Offset,
			p.Score, p.Features.CompleteLines, p.Features.Holes, p.Features.AggregateHeight,
			p.Features.Bumpiness)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	format := cmd.options.String("format")
	if format != "" && format != "text" && format != "keys" {
		return nil, fmt.Errorf("unknown format %q; use text or keys", format)
	}
	start := time.Now()
	actions, dec, err := sc.decider.DecideBestMove(sc.board)
	outcome, _ := worker.ClassifyError(err)
	if sc.store != nil {
		e := worker.Entry{Time: start, Board: sc.board, Decision: dec, Outcome: outcome,
			Latency: time.Since(start)}
		if rerr := sc.store.Record(context.Background(), e); rerr != nil {
			log.Err(rerr).Msg("recording-decision")
		}
	}
	if err != nil {
		return nil, err
	}
	var out string
	if format == "keys" {
		out = move.ToKeyScript(actions)
	} else {
		out = move.ToText(actions)
	}
	return msg(fmt.Sprintf("%v\n%s", dec, strings.TrimRight(out, "\n"))), nil
}

func (sc *ShellController) setWeightsCmd(cmd *shellcmd) (*Response, error) {
	switch len(cmd.args) {
	case 0:
		return msg(sc.weights.String()), nil
	case 2:
	default:
		return nil, errors.New("weights [name value]")
	}
	val, err := strconv.ParseFloat(cmd.args[1], 64)
	if err != nil {
		return nil, err
	}
	w := sc.weights
	if err := w.Set(cmd.args[0], val); err != nil {
		return nil, err
	}
	sc.setWeights(w)
	log.Info().Str("weights", w.String()).Msg("weights-changed")
	return msg(w.String()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	games := 1
	if len(cmd.args) > 0 {
		var err error
		if games, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	pieces, err := cmd.options.IntDefault("pieces", 500)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", 1)
	if err != nil {
		return nil, err
	}
	opts := automatic.Options{
		Games:     games,
		Threads:   threads,
		MaxPieces: pieces,
		Rows:      sc.config.GetInt(config.ConfigBoardRows),
		Cols:      sc.config.GetInt(config.ConfigBoardCols),
		LogFile:   cmd.options.String("logfile"),
	}
	seed := cmd.options.String("seed")
	if seed == "" {
		seed = sc.config.GetString(config.ConfigAutoplaySeed)
	}
	if seed != "" {
		opts.Seeds = automatic.DeriveSeeds(automatic.SeedFromString(seed), games)
	}
	results, err := automatic.PlayGames(context.Background(), sc.decider, opts)
	if err != nil {
		return nil, err
	}
	return msg(automatic.Summarize(results).String()), nil
}

func (sc *ShellController) decisionLog(cmd *shellcmd) (*Response, error) {
	if sc.store == nil {
		return nil, errNoLog
	}
	n := 10
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	ctx := context.Background()
	rows, err := sc.store.Recent(ctx, n)
	if err != nil {
		return nil, err
	}
	counts, err := sc.store.OutcomeCounts(ctx)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, o := range worker.AllOutcomes {
		fmt.Fprintf(&sb, "%s: %d  ", o, counts[o.String()])
	}
	sb.WriteString("\n")
	for _, r := range rows {
		sb.WriteString(r.String() + "\n")
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
