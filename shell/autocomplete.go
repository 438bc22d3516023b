package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
	// Files is true for commands whose argument is a path.
	Files bool
}

var commandMetadata = map[string]CommandMetadata{
	"load":     {Options: []string{"-image"}, Files: true},
	"script":   {Files: true},
	"best":     {Options: []string{"-format"}},
	"autoplay": {Options: []string{"-pieces", "-threads", "-seed", "-logfile"}},
	"weights":  {Args: []string{"aggregate_height", "complete_lines", "holes", "bumpiness"}},
	"help": {Args: []string{"load", "gen", "best", "weights", "autoplay", "log",
		"script"}},
}

var commandNames = []string{
	"help", "load", "show", "isolate", "eval", "gen", "best", "weights",
	"autoplay", "log", "script", "exit",
}

// Do implements the readline.AutoCompleter interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	// shellquote keeps quoted paths together
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		metadata := commandMetadata[cmdName]
		switch lastCompleteField {
		case "-format":
			completions = []string{"text", "keys"}
		case "-image", "-logfile":
			completions = pathCompletions(prefix)
		}
		if completions == nil {
			switch {
			case strings.HasPrefix(prefix, "-"):
				completions = metadata.Options
			case metadata.Files:
				completions = pathCompletions(prefix)
			case len(metadata.Args) > 0:
				completions = metadata.Args
			default:
				completions = metadata.Options
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

func pathCompletions(prefix string) []string {
	dir, _ := filepath.Split(prefix)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := dir + e.Name()
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		out = append(out, name)
	}
	return out
}
