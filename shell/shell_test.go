package shell

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -logfile /path/to/log.txt",
			&shellcmd{"autoplay", nil, CmdOptions{"logfile": {"/path/to/log.txt"}}},
			nil},
		{"gen 5",
			&shellcmd{"gen", []string{"5"}, CmdOptions{}},
			nil},
		{"autoplay 20 -pieces 100 -threads 4 ",
			&shellcmd{"autoplay",
				[]string{"20"},
				CmdOptions{"pieces": {"100"}, "threads": {"4"}}},
			nil,
		},
		{"weights holes -0.5",
			&shellcmd{"weights", []string{"holes", "-0.5"}, CmdOptions{}},
			nil},
		{`load "my boards/one.txt"`,
			&shellcmd{"load", []string{"my boards/one.txt"}, CmdOptions{}},
			nil},
		{"best -format",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testController(t *testing.T, cfg *config.Config) (*ShellController, *bytes.Buffer) {
	t.Helper()
	sc, err := newController(cfg, "", "test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sc.Cleanup)
	out := &bytes.Buffer{}
	sc.out = out
	return sc, out
}

func writeBoard(t *testing.T, sb board.SampleBoard) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.txt")
	if err := os.WriteFile(path, []byte(sb), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndBest(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, config.DefaultConfig())
	path := writeBoard(t, board.ReferenceStack)

	is.True(!sc.handleLine("load "+path))
	is.True(strings.Contains(out.String(), "[][]"))
	out.Reset()

	sc.handleLine("best")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	is.Equal(lines[1:], []string{"SHIFT_LEFT", "SHIFT_LEFT", "SHIFT_LEFT", "SHIFT_LEFT",
		"SHIFT_LEFT", "COMMIT"})
	out.Reset()

	sc.handleLine("best -format keys")
	is.True(strings.HasSuffix(strings.TrimSpace(out.String()), "K <LEFT>\nK <SPACE>"))
}

func TestEvalIgnoresFallingPiece(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, config.DefaultConfig())
	sc.handleLine("load " + writeBoard(t, board.ReferenceStack))
	out.Reset()

	sc.handleLine("eval")
	is.True(strings.Contains(out.String(), "Holes:            4"))
	is.True(strings.Contains(out.String(), "Score:            -13.288187"))
}

func TestGenListsBestFirst(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, config.DefaultConfig())
	sc.handleLine("load " + writeBoard(t, board.ReferenceStack))
	out.Reset()

	sc.handleLine("gen 2")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	is.Equal(len(lines), 4)
	is.True(strings.HasPrefix(lines[0], "O rot=0 anchor=8: 9 placements"))
	// The tie between offsets 3 and 5 keeps search order.
	is.Equal(strings.Fields(lines[2])[:4], []string{"1", "0", "3", "-15.328451"})
	is.Equal(strings.Fields(lines[3])[:4], []string{"2", "0", "5", "-15.328451"})
}

func TestCommandsNeedBoard(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, config.DefaultConfig())
	for _, cmd := range []string{"show", "isolate", "eval", "gen", "best"} {
		out.Reset()
		sc.handleLine(cmd)
		is.Equal(strings.TrimSpace(out.String()), "Error: "+errNoBoard.Error())
	}
}

func TestWeights(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, config.DefaultConfig())
	sc.handleLine("weights holes -0.5")
	is.Equal(sc.weights.Holes, -0.5)
	is.Equal(sc.decider.Evaluator().Type(), "heuristic")
	out.Reset()

	sc.handleLine("weights sharpness 1")
	is.True(strings.HasPrefix(out.String(), "Error: unknown weight"))
}

func TestDecisionLog(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDecisionLogPath, ":memory:")
	sc, out := testController(t, cfg)

	sc.handleLine("log")
	is.True(strings.Contains(out.String(), "decided: 0"))

	sc.handleLine("load " + writeBoard(t, board.ReferenceStack))
	sc.handleLine("best")
	out.Reset()
	sc.handleLine("log 5")
	is.True(strings.Contains(out.String(), "decided: 1"))
	is.True(strings.Contains(out.String(), "piece=O"))
}

func TestDecisionLogOff(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, config.DefaultConfig())
	sc.handleLine("log")
	is.Equal(strings.TrimSpace(out.String()), "Error: "+errNoLog.Error())
}

func TestAutoplay(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, config.DefaultConfig())
	sc.handleLine("autoplay 2 -pieces 10 -threads 2 -seed shelltest")
	is.True(strings.Contains(out.String(), "Games played: 2"))
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, config.DefaultConfig())
	sc.handleLine("help")
	is.True(strings.Contains(out.String(), "version test"))
	out.Reset()
	sc.handleLine("help weights")
	is.True(strings.Contains(out.String(), "weights holes -0.5"))
	out.Reset()
	sc.handleLine("help nonsense")
	is.True(strings.Contains(out.String(), "no help text"))
}

func TestUnknownCommandAndExit(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t, config.DefaultConfig())
	is.True(!sc.handleLine("fly"))
	is.True(strings.Contains(out.String(), `command "fly" not found`))
	is.True(sc.handleLine("exit"))
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t, config.DefaultConfig())
	dir := t.TempDir()
	boardPath := writeBoard(t, board.ReferenceStack)
	outPath := filepath.Join(dir, "out.json")
	script := fmt.Sprintf(`
local json = require("json")
dropbot_load(%q)
local acts, err = dropbot_best()
local f = io.open(%q, "w")
f:write(json.encode(acts))
f:close()
`, boardPath, outPath)
	scriptPath := filepath.Join(dir, "best.lua")
	is.NoErr(os.WriteFile(scriptPath, []byte(script), 0644))

	_, err := sc.script(&shellcmd{cmd: "script", args: []string{scriptPath}})
	is.NoErr(err)
	bts, err := os.ReadFile(outPath)
	is.NoErr(err)
	is.Equal(string(bts),
		`["SHIFT_LEFT","SHIFT_LEFT","SHIFT_LEFT","SHIFT_LEFT","SHIFT_LEFT","COMMIT"]`)
}

func TestScriptBoardTable(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigBoardRows, 4)
	cfg.Set(config.ConfigBoardCols, 4)
	sc, _ := testController(t, cfg)
	scriptPath := filepath.Join(t.TempDir(), "board.lua")
	is.NoErr(os.WriteFile(scriptPath, []byte(`
dropbot_board({{0,1,1,0},{0,1,1,0},{0,0,0,0},{0,0,0,0}})
`), 0644))

	_, err := sc.script(&shellcmd{cmd: "script", args: []string{scriptPath}})
	is.NoErr(err)
	is.Equal(sc.board.NumFilled(), 4)
	is.True(sc.board.Filled(0, 1))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(&ShellController{})
	matches, n := c.Do([]rune("we"), 2)
	is.Equal(n, 2)
	is.Equal(matches, [][]rune{[]rune("ights")})

	line := []rune("best -format k")
	matches, n = c.Do(line, len(line))
	is.Equal(n, 1)
	is.Equal(matches, [][]rune{[]rune("eys")})
}
