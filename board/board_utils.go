package board

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	strEmptyCell  = " ."
	strFilledCell = "▓▓"
)

// ToDisplayText renders the board with row and column labels. Cells in
// highlight are drawn as [] so a falling piece stands out from the stack.
func (g *GameBoard) ToDisplayText(highlight ...Coord) string {
	hl := make(map[Coord]bool, len(highlight))
	for _, c := range highlight {
		hl[c] = true
	}
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < g.cols; c++ {
		sb.WriteString(fmt.Sprintf("%-2d", c))
	}
	sb.WriteString("\n   " + strings.Repeat("-", g.cols*2) + "\n")
	for r := 0; r < g.rows; r++ {
		sb.WriteString(fmt.Sprintf("%2d|", r))
		for c := 0; c < g.cols; c++ {
			switch {
			case hl[Coord{r, c}]:
				sb.WriteString("[]")
			case g.Filled(r, c):
				sb.WriteString(strFilledCell)
			default:
				sb.WriteString(strEmptyCell)
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", g.cols*2) + "\n")
	return sb.String()
}

// FromPlaintext parses a board written one row per line. Cells are 0 or 1
// and may be separated by spaces or commas; brackets are ignored so that
// array literals such as "[0, 1, 0]," can be pasted in directly. Blank
// lines and lines starting with # are skipped.
func FromPlaintext(text string) (*GameBoard, error) {
	return Read(strings.NewReader(text))
}

// Read parses a plaintext board from r. See FromPlaintext.
func Read(r io.Reader) (*GameBoard, error) {
	var rows [][]int
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == ',' || r == '[' || r == ']' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		// Rows written without separators, e.g. 0011000000.
		if len(fields) == 1 && len(fields[0]) > 1 {
			fields = strings.Split(fields[0], "")
		}
		row := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q is not a cell value", ErrMalformed, lineNo, f)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return FromInts(rows)
}

// LoadFile reads a plaintext board from disk.
func LoadFile(path string) (*GameBoard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
