// Package strategy defines how a player chooses its next move.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"termtoe/board"
	"termtoe/entropy"
	"termtoe/search"
)

// Strategy selects the next move for the side to move on a board.
type Strategy interface {
	// NextMove returns the move to play. Computer strategies return
	// board.Invalid on a finished board and never fail; the human strategy
	// blocks until a legal move is entered or ctx is done.
	NextMove(ctx context.Context, b board.Board) (board.Move, error)

	// Name returns the label shown to the players.
	Name() string
}

// Level selects a strategy.
type Level int

const (
	Human Level = iota
	Easy
	Medium
	Hard
)

var levelNames = map[Level]string{
	Human:  "HUMAN",
	Easy:   "EASY",
	Medium: "MEDIUM",
	Hard:   "HARD",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel accepts a level name in any case. "random", "greedy",
// "optimal" and "impossible" are accepted as aliases.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human":
		return Human, nil
	case "easy", "random":
		return Easy, nil
	case "medium", "greedy":
		return Medium, nil
	case "hard", "optimal", "impossible":
		return Hard, nil
	}
	return Human, fmt.Errorf("unknown level %q", s)
}

// ErrNoInput is returned when a human strategy is requested without an input.
var ErrNoInput = errors.New("human strategy needs an input")

// New builds the strategy for level. Computer strategies seed their private
// generator from seed; the human strategy reads from in.
func New(level Level, seed uint32, in Input) (Strategy, error) {
	switch level {
	case Human:
		if in == nil {
			return nil, ErrNoInput
		}
		return NewHuman(in), nil
	case Easy:
		return NewRandom(seed), nil
	case Medium:
		return NewGreedy(seed), nil
	case Hard:
		return NewOptimal(seed), nil
	}
	return nil, fmt.Errorf("unknown level %d", int(level))
}

// Random plays a uniformly random legal move.
type Random struct {
	rng search.Rand
}

// NewRandom returns a Random strategy seeded with seed.
func NewRandom(seed uint32) *Random {
	return &Random{rng: entropy.NewRand(seed)}
}

func (s *Random) NextMove(_ context.Context, b board.Board) (board.Move, error) {
	return randomMove(b, s.rng), nil
}

func (s *Random) Name() string { return Easy.String() }

// Greedy looks one ply ahead: it plays the first cell, in row-major order,
// where placing either X or O completes a line, and a random move otherwise.
//
// Testing both symbols on the same cell means a cell that would complete the
// opponent's line is taken as well, so the heuristic blocks as well as wins.
// It does not rank a win above a block; whichever comes first is played.
type Greedy struct {
	rng search.Rand
}

// NewGreedy returns a Greedy strategy seeded with seed.
func NewGreedy(seed uint32) *Greedy {
	return &Greedy{rng: entropy.NewRand(seed)}
}

func (s *Greedy) NextMove(_ context.Context, b board.Board) (board.Move, error) {
	if b.IsTerminal() {
		return board.Invalid, nil
	}
	for _, m := range b.LegalMoves() {
		if b.Apply(m, board.X).IsWinner(board.X) || b.Apply(m, board.O).IsWinner(board.O) {
			return m, nil
		}
	}
	return randomMove(b, s.rng), nil
}

func (s *Greedy) Name() string { return Medium.String() }

// Optimal plays perfectly using the alpha-beta search.
type Optimal struct {
	rng search.Rand
}

// NewOptimal returns an Optimal strategy seeded with seed.
func NewOptimal(seed uint32) *Optimal {
	return &Optimal{rng: entropy.NewRand(seed)}
}

func (s *Optimal) NextMove(_ context.Context, b board.Board) (board.Move, error) {
	return search.SelectBestMove(b, s.rng), nil
}

func (s *Optimal) Name() string { return Hard.String() }

func randomMove(b board.Board, rng search.Rand) board.Move {
	if b.IsTerminal() {
		return board.Invalid
	}
	moves := b.LegalMoves()
	return moves[rng.Intn(len(moves))]
}
