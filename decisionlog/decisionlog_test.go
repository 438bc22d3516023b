package decisionlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/move"
	"github.com/domino14/dropbot/worker"
)

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	d, err := bot.NewDeciderFromConfig(config.DefaultConfig())
	require.NoError(t, err)
	b := board.MustParse(board.ReferenceStack)
	_, dec, err := d.DecideBestMove(b)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, s.Record(ctx, worker.Entry{
		Time: now, Cycle: worker.Cycle{Number: 0, First: true}, Board: board.MakeBoard(20, 10),
		Outcome: worker.OutcomeNoPiece,
	}))
	require.NoError(t, s.Record(ctx, worker.Entry{
		Time: now, Cycle: worker.Cycle{Number: 1}, Board: b, Decision: dec,
		Outcome: worker.OutcomeDecided, Latency: 1500 * time.Microsecond,
	}))

	rows, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	latest := rows[0]
	assert.Equal(t, 1, latest.Cycle)
	assert.Equal(t, "O", latest.Piece)
	assert.Equal(t, 8, latest.Anchor)
	assert.Equal(t, 3, latest.WinOffset)
	assert.Equal(t, "decided", latest.Outcome)
	assert.Equal(t, 1500*time.Microsecond, latest.Latency)
	assert.Equal(t, dec.Actions, latest.Actions)
	assert.Equal(t, Fingerprint(b), latest.Fingerprint)
	assert.Equal(t, now.UnixMicro(), latest.CreatedAt.UnixMicro())
	assert.Empty(t, rows[1].Actions)

	counts, err := s.OutcomeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"decided": 1, "no-piece": 1}, counts)

	seen, err := s.SeenBefore(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 1, seen)

	one, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "decisions.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, Row{
		CreatedAt: time.Now(), Fingerprint: "abc", Rows: 20, Cols: 10,
		Actions: []move.Action{move.Rotate, move.Commit}, Outcome: "decided",
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	rows, err := s.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []move.Action{move.Rotate, move.Commit}, rows[0].Actions)
}

func TestFingerprint(t *testing.T) {
	a := board.MustParse(board.ReferenceStack)
	b := a.Copy()
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	b.Set(0, 0, true)
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 16)
}
