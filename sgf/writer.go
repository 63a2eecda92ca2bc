// Package sgf implements SGF FF[4] writing and reading for tic-tac-toe rounds.
// X is recorded as B, O as W, and cells as column-row letter pairs ("aa" to "cc").
package sgf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"termtoe/board"
	"termtoe/history"
)

// GameRecord tracks a round in progress and writes it as SGF.
type GameRecord struct {
	FilePath string
	PlayerX  string
	PlayerO  string
	Date     string
	Result   string
	moves    []string // ";B[bb]", ";W[aa]", ...
	file     *os.File
}

// NewGameRecord creates a new SGF file in dir and writes the initial header.
func NewGameRecord(dir string, now time.Time) (*GameRecord, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%dx%d.sgf", now.Format("2006-01-02_150405.000"), board.Size, board.Size)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create sgf file: %w", err)
	}

	rec := &GameRecord{
		FilePath: path,
		Date:     now.Format("2006-01-02"),
		Result:   "?",
		file:     f,
	}

	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}

	return rec, nil
}

// sgfCoord converts a move to an SGF letter pair, column first.
// (0,0) -> "aa", row 1 col 2 -> "cb".
func sgfCoord(m board.Move) string {
	return string(rune('a'+m.Col)) + string(rune('a'+m.Row))
}

// AddMove appends a move to the record and names the side's player after its mover.
func (r *GameRecord) AddMove(e history.Entry) error {
	if !e.Move.InRange() {
		return fmt.Errorf("record %s: %w", e.Move, board.ErrIllegalMove)
	}
	colorChar := "B"
	if e.Side == board.O {
		colorChar = "W"
		if r.PlayerO == "" {
			r.PlayerO = e.By
		}
	} else if r.PlayerX == "" {
		r.PlayerX = e.By
	}

	r.moves = append(r.moves, fmt.Sprintf(";%s[%s]", colorChar, sgfCoord(e.Move)))
	return r.flush()
}

// UndoMoves removes the last n moves from the record.
func (r *GameRecord) UndoMoves(n int) error {
	if n > len(r.moves) {
		n = len(r.moves)
	}
	r.moves = r.moves[:len(r.moves)-n]
	return r.flush()
}

// SetResult sets the SGF RE property from the final board.
func (r *GameRecord) SetResult(b board.Board) error {
	r.Result = Result(b)
	return r.flush()
}

// Result returns the SGF result of b: "B+" when X won, "W+" when O won,
// "0" for a draw and "?" while the round is still open.
func Result(b board.Board) string {
	switch {
	case b.IsWinner(board.X):
		return "B+"
	case b.IsWinner(board.O):
		return "W+"
	case b.IsFull():
		return "0"
	}
	return "?"
}

// Len returns the number of recorded moves.
func (r *GameRecord) Len() int {
	return len(r.moves)
}

// Close performs a final flush and closes the file handle.
func (r *GameRecord) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.flush()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	r.file = nil
	return err
}

// flush rewrites the complete SGF file from scratch.
func (r *GameRecord) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	var b strings.Builder

	// Root node
	b.WriteString("(;FF[4]CA[UTF-8]")
	b.WriteString("AP[termtoe:1.0]")
	fmt.Fprintf(&b, "SZ[%d]", board.Size)
	fmt.Fprintf(&b, "PB[%s]", escape(r.PlayerX))
	fmt.Fprintf(&b, "PW[%s]", escape(r.PlayerO))
	fmt.Fprintf(&b, "DT[%s]", r.Date)
	fmt.Fprintf(&b, "RE[%s]", r.Result)
	b.WriteString("\n")

	// Move nodes
	for _, m := range r.moves {
		b.WriteString(m)
	}

	b.WriteString(")\n")

	// Rewrite file from start
	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.WriteString(b.String()); err != nil {
		return err
	}
	return r.file.Sync()
}

// escape protects the characters SGF text values treat specially.
func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `]`, `\]`).Replace(s)
}
