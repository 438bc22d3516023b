package move

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		desc                                 string
		curRot, anchor, winRot, winOff, vars int
		want                                 []Action
	}{
		{"shift left only", 0, 8, 0, 3, 1, []Action{ShiftLeft, ShiftLeft, ShiftLeft, ShiftLeft, ShiftLeft, Commit}},
		{"shift right", 0, 3, 0, 5, 4, []Action{ShiftRight, ShiftRight, Commit}},
		{"rotate and shift", 0, 4, 1, 2, 4, []Action{Rotate, ShiftLeft, ShiftLeft, Commit}},
		{"wraps forward", 3, 4, 1, 4, 4, []Action{Rotate, Rotate, Commit}},
		{"two variants wrap", 1, 0, 0, 0, 2, []Action{Rotate, Commit}},
		{"nothing to do", 2, 6, 2, 6, 4, []Action{Commit}},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			got := Encode(tc.curRot, tc.anchor, tc.winRot, tc.winOff, tc.vars)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Encode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeExactlyOneCommitAtEnd(t *testing.T) {
	is := is.New(t)
	for cur := 0; cur < 4; cur++ {
		for win := 0; win < 4; win++ {
			for off := 0; off < 8; off++ {
				acts := Encode(cur, 3, win, off, 4)
				is.Equal(acts[len(acts)-1], Commit)
				commits := 0
				for _, a := range acts {
					if a == Commit {
						commits++
					}
				}
				is.Equal(commits, 1)
			}
		}
	}
}

func TestSerialization(t *testing.T) {
	is := is.New(t)
	acts := []Action{Rotate, ShiftLeft, ShiftRight, Commit}
	is.Equal(ToText(acts), "ROTATE\nSHIFT_LEFT\nSHIFT_RIGHT\nCOMMIT\n")
	is.Equal(ToKeyScript(acts), "K <UP>\nK <LEFT>\nK <RIGHT>\nK <SPACE>\n")
	is.Equal(ToText(nil), "")

	fromText, err := ReadActions(strings.NewReader(ToText(acts)))
	is.NoErr(err)
	is.Equal(fromText, acts)
	fromKeys, err := ReadActions(strings.NewReader("# comment\n" + ToKeyScript(acts)))
	is.NoErr(err)
	is.Equal(fromKeys, acts)

	_, err = ParseAction("HOLD")
	is.True(err != nil)
	_, err = ParseKeyCommand("K <ENTER>")
	is.True(err != nil)
	_, err = ParseKeyCommand("M C L")
	is.True(err != nil)
}

func TestSinks(t *testing.T) {
	is := is.New(t)
	acts := []Action{ShiftLeft, Commit}

	var text bytes.Buffer
	is.NoErr(NewTextSink(&text).Execute(context.Background(), acts))
	is.Equal(text.String(), "SHIFT_LEFT\nCOMMIT\n")

	var keys bytes.Buffer
	is.NoErr(NewKeyScriptSink(&keys).Execute(context.Background(), acts))
	is.Equal(keys.String(), "K <LEFT>\nK <SPACE>\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	is.True(NewTextSink(&text).Execute(ctx, acts) != nil)
}
