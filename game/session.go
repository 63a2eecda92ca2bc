// Package game runs tic-tac-toe rounds: it owns the authoritative board and
// drives the prompts, turns and score between two players.
package game

import (
	"errors"
	"fmt"
	"sync"

	"termtoe/board"
	"termtoe/history"
)

// ErrGameOver is returned when a move is played on a finished board.
var ErrGameOver = errors.New("game is over")

// Outcome summarizes a board.
type Outcome int

const (
	InProgress Outcome = iota
	XWins
	OWins
	Draw
)

// OutcomeOf classifies b.
func OutcomeOf(b board.Board) Outcome {
	switch {
	case b.IsWinner(board.X):
		return XWins
	case b.IsWinner(board.O):
		return OWins
	case b.IsFull():
		return Draw
	}
	return InProgress
}

func (o Outcome) String() string {
	switch o {
	case XWins:
		return "X wins"
	case OWins:
		return "O wins"
	case Draw:
		return "Draw"
	}
	return "In progress"
}

// Session holds the board of the current round and its move history.
// Callbacks are invoked outside the session lock.
type Session struct {
	mu      sync.Mutex
	board   board.Board
	history history.Log

	moveCallback func(b board.Board, last history.Entry)
	endCallback  func(outcome Outcome, b board.Board)
}

// NewSession returns a session with an empty board.
func NewSession() *Session {
	return &Session{}
}

// OnMove registers a callback for every applied move and for resets.
// On reset, last.Move is board.Invalid.
func (s *Session) OnMove(callback func(b board.Board, last history.Entry)) {
	s.mu.Lock()
	s.moveCallback = callback
	s.mu.Unlock()
}

// OnGameEnd registers a callback for when a move finishes the round.
func (s *Session) OnGameEnd(callback func(outcome Outcome, b board.Board)) {
	s.mu.Lock()
	s.endCallback = callback
	s.mu.Unlock()
}

// Board returns a copy of the current board.
func (s *Session) Board() board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

// History returns the moves of the current round, oldest first.
func (s *Session) History() []history.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

// Tail returns up to n of the latest moves and how many earlier ones were left out.
func (s *Session) Tail(n int) ([]history.Entry, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Tail(n)
}

// Play applies m for the side whose turn it is. by names the mover for the history.
func (s *Session) Play(m board.Move, by string) error {
	s.mu.Lock()
	if s.board.IsTerminal() {
		s.mu.Unlock()
		return ErrGameOver
	}
	side := s.board.CurrentPlayer()
	next, err := s.board.ApplyMove(m, side)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s plays %s: %w", by, side, err)
	}
	s.board = next
	entry := history.Entry{Move: m, Side: side, By: by}
	s.history.Add(entry)

	b := s.board
	outcome := OutcomeOf(b)
	moveCallback, endCallback := s.moveCallback, s.endCallback
	s.mu.Unlock()

	if moveCallback != nil {
		moveCallback(b, entry)
	}
	if outcome != InProgress && endCallback != nil {
		endCallback(outcome, b)
	}
	return nil
}

// Reset clears the board and the history.
func (s *Session) Reset() {
	s.mu.Lock()
	s.board = board.Board{}
	s.history.Reset()
	moveCallback := s.moveCallback
	s.mu.Unlock()

	if moveCallback != nil {
		moveCallback(board.Board{}, history.Entry{Move: board.Invalid})
	}
}
