package game

import (
	"errors"
	"testing"

	"termtoe/board"
	"termtoe/history"
)

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		board string
		want  Outcome
	}{
		{"...|...|...", InProgress},
		{"XXX|OO.|...", XWins},
		{"XX.|OOO|X..", OWins},
		{"XXO|OOX|XOX", Draw},
	}
	for _, tt := range tests {
		b, err := board.Parse(tt.board)
		if err != nil {
			t.Fatal(err)
		}
		if got := OutcomeOf(b); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.board, tt.want, got)
		}
	}
}

func TestSessionPlayAlternates(t *testing.T) {
	s := NewSession()
	moves := []board.Move{{Row: 1, Col: 1}, {Row: 0, Col: 0}, {Row: 2, Col: 2}}
	for _, m := range moves {
		if err := s.Play(m, "HUMAN"); err != nil {
			t.Fatalf("play %v: %v", m, err)
		}
	}
	if got := s.Board().String(); got != "O..\n.X.\n..X" {
		t.Fatalf("unexpected board:\n%s", got)
	}
	entries := s.History()
	if len(entries) != 3 || entries[1].Side != board.O {
		t.Fatalf("unexpected history %v", entries)
	}
}

func TestSessionRejectsIllegalMoves(t *testing.T) {
	s := NewSession()
	if err := s.Play(board.Move{Row: 0, Col: 0}, "HUMAN"); err != nil {
		t.Fatal(err)
	}
	for _, m := range []board.Move{{Row: 0, Col: 0}, {Row: 3, Col: 0}, board.Invalid} {
		if err := s.Play(m, "HUMAN"); !errors.Is(err, board.ErrIllegalMove) {
			t.Errorf("%v: expected ErrIllegalMove, got %v", m, err)
		}
	}
	if n := len(s.History()); n != 1 {
		t.Fatalf("rejected moves must not be recorded, got %d entries", n)
	}
}

func TestSessionCallbacks(t *testing.T) {
	s := NewSession()
	var moves []history.Entry
	var outcomes []Outcome
	s.OnMove(func(b board.Board, last history.Entry) {
		// The session lock must not be held here.
		_ = s.Board()
		moves = append(moves, last)
	})
	s.OnGameEnd(func(outcome Outcome, b board.Board) {
		outcomes = append(outcomes, outcome)
	})

	// X wins on the top row.
	for _, m := range []board.Move{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 0, Col: 2}} {
		if err := s.Play(m, "HUMAN"); err != nil {
			t.Fatal(err)
		}
	}
	if len(moves) != 5 {
		t.Fatalf("expected 5 move callbacks, got %d", len(moves))
	}
	if len(outcomes) != 1 || outcomes[0] != XWins {
		t.Fatalf("expected a single XWins, got %v", outcomes)
	}
	if err := s.Play(board.Move{Row: 2, Col: 2}, "HUMAN"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}

	s.Reset()
	if len(moves) != 6 || moves[5].Move != board.Invalid {
		t.Fatalf("expected a reset callback with an invalid move, got %v", moves)
	}
	if s.Board() != (board.Board{}) || len(s.History()) != 0 {
		t.Fatal("reset should clear the board and the history")
	}
}

func TestSessionTail(t *testing.T) {
	s := NewSession()
	for _, m := range []board.Move{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}} {
		if err := s.Play(m, "HUMAN"); err != nil {
			t.Fatal(err)
		}
	}
	tail, skipped := s.Tail(2)
	if skipped != 1 || len(tail) != 2 || tail[0].Move != (board.Move{Row: 1, Col: 1}) {
		t.Fatalf("unexpected tail %v after %d", tail, skipped)
	}
}
