package move

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// TextSink writes actions in the action vocabulary, one per line.
type TextSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (s *TextSink) Execute(ctx context.Context, actions []Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, ToText(actions))
	return err
}

// KeyScriptSink writes actions as key-script commands for a keyboard
// executor.
type KeyScriptSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewKeyScriptSink(w io.Writer) *KeyScriptSink {
	return &KeyScriptSink{w: w}
}

func (s *KeyScriptSink) Execute(ctx context.Context, actions []Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, ToKeyScript(actions))
	return err
}

// ReadActions parses a stream in either format. Blank lines and lines
// starting with # are skipped.
func ReadActions(r io.Reader) ([]Action, error) {
	var actions []Action
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var a Action
		var err error
		if strings.HasPrefix(line, "K ") {
			a, err = ParseKeyCommand(line)
		} else {
			a, err = ParseAction(line)
		}
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, sc.Err()
}
