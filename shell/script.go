package shell

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/move"
)

const scriptHTTPTimeout = 10 * time.Second

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("dropbot_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// runCommand runs a shell command with the single string argument from
// the Lua stack and pushes its output.
func runCommand(L *lua.LState, name string, fn func(*shellcmd) (*Response, error)) int {
	line := name
	if L.GetTop() > 0 {
		line += " " + L.ToString(1)
	}
	cmd, err := extractFields(line)
	if err != nil {
		log.Err(err).Msg("error-parsing-" + name)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	r, err := fn(cmd)
	if err != nil {
		log.Err(err).Msg("error-executing-" + name)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func Load(L *lua.LState) int {
	return runCommand(L, "load", getShell(L).load)
}

func Eval(L *lua.LState) int {
	return runCommand(L, "eval", getShell(L).eval)
}

func Weights(L *lua.LState) int {
	return runCommand(L, "weights", getShell(L).setWeightsCmd)
}

func Autoplay(L *lua.LState) int {
	return runCommand(L, "autoplay", getShell(L).autoplay)
}

// Board loads a board from a Lua table of rows of 0/1 numbers.
func Board(L *lua.LState) int {
	tbl := L.CheckTable(1)
	sc := getShell(L)
	data, err := luajson.Encode(tbl)
	if err != nil {
		L.RaiseError("could not encode board: %v", err)
		return 0
	}
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		L.RaiseError("board must be a table of rows: %v", err)
		return 0
	}
	b, err := board.FromInts(rows)
	if err == nil {
		err = sc.decider.CheckDimensions(b)
	}
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	sc.board = b
	L.Push(lua.LString(b.ToDisplayText()))
	return 1
}

// Best returns the chosen actions as a Lua array of names, or nil and an
// error message.
func Best(L *lua.LState) int {
	sc := getShell(L)
	if sc.board == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(errNoBoard.Error()))
		return 2
	}
	actions, _, err := sc.decider.DecideBestMove(sc.board)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	tbl := L.NewTable()
	for _, a := range move.Strings(actions) {
		tbl.Append(lua.LString(a))
	}
	L.Push(tbl)
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{Timeout: scriptHTTPTimeout}).Loader)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("dropbot_shell", lsc)
	L.SetGlobal("dropbot_load", L.NewFunction(Load))
	L.SetGlobal("dropbot_board", L.NewFunction(Board))
	L.SetGlobal("dropbot_best", L.NewFunction(Best))
	L.SetGlobal("dropbot_eval", L.NewFunction(Eval))
	L.SetGlobal("dropbot_weights", L.NewFunction(Weights))
	L.SetGlobal("dropbot_autoplay", L.NewFunction(Autoplay))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
