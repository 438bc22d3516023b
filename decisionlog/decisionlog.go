// Package decisionlog stores every worker decision in a SQLite database so
// that runs can be inspected afterwards.
package decisionlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/move"
	"github.com/domino14/dropbot/worker"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  INTEGER NOT NULL,
	cycle       INTEGER NOT NULL,
	fingerprint TEXT    NOT NULL,
	board_rows  INTEGER NOT NULL,
	board_cols  INTEGER NOT NULL,
	piece       TEXT    NOT NULL DEFAULT '',
	cur_rot     INTEGER NOT NULL DEFAULT 0,
	anchor      INTEGER NOT NULL DEFAULT 0,
	win_rot     INTEGER NOT NULL DEFAULT 0,
	win_offset  INTEGER NOT NULL DEFAULT 0,
	score       REAL    NOT NULL DEFAULT 0,
	actions     TEXT    NOT NULL DEFAULT '',
	outcome     TEXT    NOT NULL,
	latency_us  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS decisions_fingerprint ON decisions(fingerprint);
`

// Fingerprint identifies a board by the hash of its plaintext form.
func Fingerprint(b *board.GameBoard) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}

// Row is one stored decision.
type Row struct {
	ID          int64
	CreatedAt   time.Time
	Cycle       int
	Fingerprint string
	Rows, Cols  int
	Piece       string
	CurRot      int
	Anchor      int
	WinRot      int
	WinOffset   int
	Score       float64
	Actions     []move.Action
	Outcome     string
	Latency     time.Duration
}

func (r Row) String() string {
	return fmt.Sprintf("#%d %s cycle=%d %s piece=%s rot=%d->%d col=%d->%d score=%.4f [%s]",
		r.ID, r.CreatedAt.Format(time.RFC3339), r.Cycle, r.Outcome, r.Piece,
		r.CurRot, r.WinRot, r.Anchor, r.WinOffset, r.Score,
		strings.Join(move.Strings(r.Actions), " "))
}

// Store is a decision log backed by SQLite. It implements worker.Recorder.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway log.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps an in-memory database alive and serializes
	// writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened-decision-log")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one worker entry.
func (s *Store) Record(ctx context.Context, e worker.Entry) error {
	r := Row{
		CreatedAt:   e.Time,
		Cycle:       e.Cycle.Number,
		Fingerprint: Fingerprint(e.Board),
		Rows:        e.Board.Rows(),
		Cols:        e.Board.Cols(),
		Outcome:     e.Outcome.String(),
		Latency:     e.Latency,
	}
	if d := e.Decision; d != nil {
		r.Piece = d.Piece.Type.String()
		r.CurRot = d.Piece.Rotation
		r.Anchor = d.Piece.Anchor
		r.WinRot = d.Best.Rotation
		r.WinOffset = d.Best.Offset
		r.Score = d.Best.Score
		r.Actions = d.Actions
	}
	return s.Insert(ctx, r)
}

func (s *Store) Insert(ctx context.Context, r Row) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO decisions (created_at, cycle, fingerprint, board_rows, board_cols, piece, cur_rot,
	anchor, win_rot, win_offset, score, actions, outcome, latency_us)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CreatedAt.UnixMicro(), r.Cycle, r.Fingerprint, r.Rows, r.Cols, r.Piece, r.CurRot,
		r.Anchor, r.WinRot, r.WinOffset, r.Score, strings.Join(move.Strings(r.Actions), " "),
		r.Outcome, r.Latency.Microseconds())
	return err
}

// Recent returns the n most recent decisions, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, cycle, fingerprint, board_rows, board_cols, piece, cur_rot, anchor,
	win_rot, win_offset, score, actions, outcome, latency_us
FROM decisions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var created, latency int64
		var actions string
		if err := rows.Scan(&r.ID, &created, &r.Cycle, &r.Fingerprint, &r.Rows, &r.Cols,
			&r.Piece, &r.CurRot, &r.Anchor, &r.WinRot, &r.WinOffset, &r.Score, &actions,
			&r.Outcome, &latency); err != nil {
			return nil, err
		}
		r.CreatedAt = time.UnixMicro(created)
		r.Latency = time.Duration(latency) * time.Microsecond
		for _, f := range strings.Fields(actions) {
			a, err := move.ParseAction(f)
			if err != nil {
				return nil, fmt.Errorf("decision %d: %w", r.ID, err)
			}
			r.Actions = append(r.Actions, a)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// OutcomeCounts returns how many decisions ended in each outcome.
func (s *Store) OutcomeCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM decisions GROUP BY outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var o string
		var n int
		if err := rows.Scan(&o, &n); err != nil {
			return nil, err
		}
		out[o] = n
	}
	return out, rows.Err()
}

// SeenBefore counts earlier decisions on an identical board.
func (s *Store) SeenBefore(ctx context.Context, b *board.GameBoard) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decisions WHERE fingerprint = ?`, Fingerprint(b)).Scan(&n)
	return n, err
}
