// Package history keeps the in-memory move list of the round being played.
package history

import (
	"fmt"

	"termtoe/board"
)

// Entry is one applied move.
type Entry struct {
	Move board.Move
	Side board.Cell
	By   string // strategy name of the mover
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s", e.Side, e.Move.Notation())
}

// Log is an append-only list of entries. The zero value is ready to use.
type Log struct {
	entries []Entry
}

// Add appends e.
func (l *Log) Add(e Entry) {
	l.entries = append(l.entries, e)
}

// Len returns the number of moves played.
func (l *Log) Len() int {
	return len(l.entries)
}

// Last returns the most recent entry. Returns false if nothing was played.
func (l *Log) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{Move: board.Invalid}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Entries returns a copy of all entries, oldest first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Tail returns a copy of the last n entries and the number of entries left out before them.
func (l *Log) Tail(n int) ([]Entry, int) {
	start := 0
	if n >= 0 && len(l.entries) > n {
		start = len(l.entries) - n
	}
	out := make([]Entry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out, start
}

// Replay applies every entry to an empty board and returns the result.
func (l *Log) Replay() (board.Board, error) {
	var b board.Board
	for i, e := range l.entries {
		next, err := b.ApplyMove(e.Move, e.Side)
		if err != nil {
			return b, fmt.Errorf("move %d: %w", i+1, err)
		}
		b = next
	}
	return b, nil
}

// Reset clears the log.
func (l *Log) Reset() {
	l.entries = l.entries[:0]
}
