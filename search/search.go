// Package search implements full-depth minimax with alpha-beta pruning over a board.Board.
//
// Values are always from X's point of view: X maximizes, O minimizes. The
// game tree is at most nine plies deep, so there is no depth limit and no
// transposition table.
package search

import (
	"math"

	"termtoe/board"
)

// Value is the game-theoretic outcome of a position: +1 X wins, -1 O wins, 0 draw.
type Value int8

// ValueMin and ValueMax stand in for -infinity and +infinity in the alpha/beta window.
const (
	ValueMin Value = math.MinInt8
	ValueMax Value = math.MaxInt8
)

// Rand breaks ties between equally good moves.
type Rand interface {
	Intn(n int) int
}

// Scored pairs a move with its search value.
type Scored struct {
	Move  board.Move
	Value Value
}

// MaxValue returns the value of b with X to move, searching inside [alpha, beta].
func MaxValue(b board.Board, alpha, beta Value) Value {
	if b.IsTerminal() {
		return Value(b.Utility())
	}
	value := ValueMin
	side := b.CurrentPlayer()
	for _, m := range b.LegalMoves() {
		value = maxValue(value, MinValue(b.Apply(m, side), alpha, beta))
		alpha = maxValue(alpha, value)
		if value >= beta {
			return value
		}
	}
	return value
}

// MinValue returns the value of b with O to move, searching inside [alpha, beta].
func MinValue(b board.Board, alpha, beta Value) Value {
	if b.IsTerminal() {
		return Value(b.Utility())
	}
	value := ValueMax
	side := b.CurrentPlayer()
	for _, m := range b.LegalMoves() {
		value = minValue(value, MaxValue(b.Apply(m, side), alpha, beta))
		beta = minValue(beta, value)
		if value <= alpha {
			return value
		}
	}
	return value
}

// Evaluate scores every legal move of b for the side to move, in row-major order.
// Each move is searched with a full window. A terminal board has no moves.
func Evaluate(b board.Board) []Scored {
	if b.IsTerminal() {
		return nil
	}
	side := b.CurrentPlayer()
	moves := b.LegalMoves()
	scored := make([]Scored, 0, len(moves))
	for _, m := range moves {
		next := b.Apply(m, side)
		var v Value
		if side == board.X {
			v = MinValue(next, ValueMin, ValueMax)
		} else {
			v = MaxValue(next, ValueMin, ValueMax)
		}
		scored = append(scored, Scored{Move: m, Value: v})
	}
	return scored
}

// Best returns the move SelectBestMove would play together with its value.
//
// Only moves reaching the best value for the side to move are kept. Among
// those, a move that wins on the spot is preferred; the first one in
// row-major order is returned. Otherwise one of the kept moves is drawn
// uniformly from rng. A terminal board yields board.Invalid and 0.
func Best(b board.Board, rng Rand) (board.Move, Value) {
	scored := Evaluate(b)
	if len(scored) == 0 {
		return board.Invalid, 0
	}
	side := b.CurrentPlayer()

	best := scored[0].Value
	for _, s := range scored[1:] {
		if side == board.X {
			best = maxValue(best, s.Value)
		} else {
			best = minValue(best, s.Value)
		}
	}

	kept := scored[:0]
	for _, s := range scored {
		if s.Value == best {
			kept = append(kept, s)
		}
	}

	for _, s := range kept {
		if b.Apply(s.Move, side).IsWinner(side) {
			return s.Move, s.Value
		}
	}
	pick := kept[rng.Intn(len(kept))]
	return pick.Move, pick.Value
}

// SelectBestMove returns an optimal move for the side to move, or board.Invalid
// if the game is already over.
func SelectBestMove(b board.Board, rng Rand) board.Move {
	m, _ := Best(b, rng)
	return m
}

func maxValue(a, b Value) Value {
	if a > b {
		return a
	}
	return b
}

func minValue(a, b Value) Value {
	if a < b {
		return a
	}
	return b
}
