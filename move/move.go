// Package move turns a chosen placement into the discrete inputs that
// perform it, and serializes those inputs.
package move

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Action is a single input to the game.
type Action uint8

const (
	Rotate Action = iota
	ShiftLeft
	ShiftRight
	Commit
)

func (a Action) String() string {
	switch a {
	case Rotate:
		return "ROTATE"
	case ShiftLeft:
		return "SHIFT_LEFT"
	case ShiftRight:
		return "SHIFT_RIGHT"
	case Commit:
		return "COMMIT"
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// KeyCommand is the key-script line that performs the action.
func (a Action) KeyCommand() string {
	switch a {
	case Rotate:
		return "K <UP>"
	case ShiftLeft:
		return "K <LEFT>"
	case ShiftRight:
		return "K <RIGHT>"
	case Commit:
		return "K <SPACE>"
	}
	return ""
}

// ParseAction reads one line of the action vocabulary.
func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ROTATE":
		return Rotate, nil
	case "SHIFT_LEFT":
		return ShiftLeft, nil
	case "SHIFT_RIGHT":
		return ShiftRight, nil
	case "COMMIT":
		return Commit, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// ParseKeyCommand reads one key-script line.
func ParseKeyCommand(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 || fields[0] != "K" {
		return 0, fmt.Errorf("not a key command: %q", s)
	}
	switch fields[1] {
	case "<UP>":
		return Rotate, nil
	case "<LEFT>":
		return ShiftLeft, nil
	case "<RIGHT>":
		return ShiftRight, nil
	case "<SPACE>":
		return Commit, nil
	}
	return 0, fmt.Errorf("unsupported key %q", fields[1])
}

// Encode produces the inputs that move a piece from its current rotation
// and anchor column to the winning rotation and offset. Rotation only goes
// forward, so it wraps around the variant count.
func Encode(curRot, anchor, winRot, winOffset, variantCount int) []Action {
	if variantCount <= 0 {
		variantCount = 1
	}
	rotations := ((winRot-curRot)%variantCount + variantCount) % variantCount
	dx := winOffset - anchor

	actions := make([]Action, 0, rotations+abs(dx)+1)
	actions = append(actions, lo.Times(rotations, func(int) Action { return Rotate })...)
	if dx < 0 {
		actions = append(actions, lo.Times(-dx, func(int) Action { return ShiftLeft })...)
	} else {
		actions = append(actions, lo.Times(dx, func(int) Action { return ShiftRight })...)
	}
	return append(actions, Commit)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToText renders actions one per line.
func ToText(actions []Action) string {
	return joinLines(lo.Map(actions, func(a Action, _ int) string { return a.String() }))
}

// ToKeyScript renders actions as key-script lines.
func ToKeyScript(actions []Action) string {
	return joinLines(lo.Map(actions, func(a Action, _ int) string { return a.KeyCommand() }))
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Strings returns the action names.
func Strings(actions []Action) []string {
	return lo.Map(actions, func(a Action, _ int) string { return a.String() })
}
