package strategy

import (
	"context"

	"termtoe/board"
)

// Input delivers moves entered by a person, e.g. decoded key presses.
type Input interface {
	ReadMove(ctx context.Context) (board.Move, error)
}

// InputFunc adapts a function to Input.
type InputFunc func(ctx context.Context) (board.Move, error)

// ReadMove calls f.
func (f InputFunc) ReadMove(ctx context.Context) (board.Move, error) {
	return f(ctx)
}

// HumanStrategy defers to a person. Moves that are off the board or target
// an occupied cell are discarded and the input is read again.
type HumanStrategy struct {
	in Input
}

// NewHuman returns a strategy reading from in.
func NewHuman(in Input) *HumanStrategy {
	return &HumanStrategy{in: in}
}

func (s *HumanStrategy) NextMove(ctx context.Context, b board.Board) (board.Move, error) {
	if b.IsTerminal() {
		return board.Invalid, nil
	}
	for {
		m, err := s.in.ReadMove(ctx)
		if err != nil {
			return board.Invalid, err
		}
		if b.IsValidMove(m) {
			return m, nil
		}
	}
}

func (s *HumanStrategy) Name() string { return Human.String() }
