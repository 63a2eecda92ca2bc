package board

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, s string) Board {
	t.Helper()
	b, err := Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return b
}

// boardFromIndex decodes i in base 3 into a grid, one digit per cell.
func boardFromIndex(i int) Board {
	var b Board
	for cell := 0; cell < Size*Size; cell++ {
		b[cell/Size][cell%Size] = Cell(i % 3)
		i /= 3
	}
	return b
}

func bruteForceWinner(side Cell, b Board) bool {
	for r := 0; r < Size; r++ {
		if b[r][0] == side && b[r][1] == side && b[r][2] == side {
			return true
		}
	}
	for c := 0; c < Size; c++ {
		if b[0][c] == side && b[1][c] == side && b[2][c] == side {
			return true
		}
	}
	if b[0][0] == side && b[1][1] == side && b[2][2] == side {
		return true
	}
	return b[0][2] == side && b[1][1] == side && b[2][0] == side
}

func TestIsWinnerAllGrids(t *testing.T) {
	total := 1
	for i := 0; i < Size*Size; i++ {
		total *= 3
	}
	for i := 0; i < total; i++ {
		b := boardFromIndex(i)
		for _, side := range []Cell{X, O} {
			if got, want := b.IsWinner(side), bruteForceWinner(side, b); got != want {
				t.Fatalf("IsWinner(%s) on\n%s\nexpected %v, got %v", side, b, want, got)
			}
		}
		if b.IsWinner(Empty) {
			t.Fatalf("Empty should never win:\n%s", b)
		}
	}
}

func TestWinningLine(t *testing.T) {
	b := mustParse(t, "O.X|.X.|XO.")
	line, ok := b.WinningLine(X)
	if !ok {
		t.Fatal("expected X to have a line")
	}
	want := [Size]Move{{0, 2}, {1, 1}, {2, 0}}
	if line != want {
		t.Fatalf("expected %v, got %v", want, line)
	}
	if _, ok := b.WinningLine(O); ok {
		t.Fatal("O should not have a line")
	}
}

func TestIsTerminalAndUtility(t *testing.T) {
	tests := []struct {
		name     string
		board    string
		terminal bool
		utility  int
		winner   Cell
	}{
		{"empty", "...|...|...", false, 0, Empty},
		{"row X", "XXX|OO.|...", true, 1, X},
		{"column O", "XOX|.O.|XO.", true, -1, O},
		{"full draw", "XOX|XOO|OXX", true, 0, Empty},
		{"in progress", "XO.|.X.|..O", false, 0, Empty},
		{"full with win", "XXX|OOX|OXO", true, 1, X},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.board)
			if got := b.IsTerminal(); got != tc.terminal {
				t.Errorf("expected terminal %v, got %v", tc.terminal, got)
			}
			if got := b.Utility(); got != tc.utility {
				t.Errorf("expected utility %d, got %d", tc.utility, got)
			}
			if got := b.Winner(); got != tc.winner {
				t.Errorf("expected winner %s, got %s", tc.winner, got)
			}
		})
	}
}

func TestLegalMovesRowMajor(t *testing.T) {
	b := mustParse(t, "X.O|.X.|O..")
	want := []Move{{0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}
	got := b.LegalMoves()
	if len(got) != len(want) {
		t.Fatalf("expected %d moves, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestApplyMoveLeavesInputUnchanged(t *testing.T) {
	b := mustParse(t, "X..|.O.|...")
	before := b
	next, err := b.ApplyMove(Move{2, 2}, X)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != before {
		t.Fatalf("input board was modified:\n%s", b)
	}
	if next.At(Move{2, 2}) != X {
		t.Fatalf("expected X at (2,2), got %s", next.At(Move{2, 2}))
	}
	if next.Count(Empty) != before.Count(Empty)-1 {
		t.Fatal("expected exactly one cell to change")
	}
}

func TestApplyMoveRejectsIllegal(t *testing.T) {
	b := mustParse(t, "X..|.O.|...")
	tests := []struct {
		name string
		move Move
		side Cell
	}{
		{"occupied", Move{0, 0}, O},
		{"occupied by other", Move{1, 1}, X},
		{"row out of range", Move{3, 0}, X},
		{"negative column", Move{0, -1}, X},
		{"sentinel", Invalid, X},
		{"empty side", Move{2, 2}, Empty},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.ApplyMove(tc.move, tc.side)
			if !errors.Is(err, ErrIllegalMove) {
				t.Fatalf("expected ErrIllegalMove, got %v", err)
			}
			if got != b {
				t.Fatal("board should be unchanged on error")
			}
		})
	}
}

func TestCurrentPlayerAlternates(t *testing.T) {
	b := Board{}
	expected := X
	for !b.IsTerminal() {
		if got := b.CurrentPlayer(); got != expected {
			t.Fatalf("expected %s to move on\n%s, got %s", expected, b, got)
		}
		moves := b.LegalMoves()
		var err error
		// Walk the last legal move so the game runs long.
		b, err = b.ApplyMove(moves[len(moves)-1], b.CurrentPlayer())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected = expected.Opponent()
		if d := b.Count(X) - b.Count(O); d < 0 || d > 1 {
			t.Fatalf("piece counts out of balance on\n%s", b)
		}
	}
}

func TestMoveNotation(t *testing.T) {
	tests := []struct {
		move Move
		want string
	}{
		{Move{0, 0}, "a1"},
		{Move{1, 1}, "b2"},
		{Move{2, 0}, "a3"},
		{Move{0, 2}, "c1"},
		{Invalid, "--"},
	}
	for _, tc := range tests {
		if got := tc.move.Notation(); got != tc.want {
			t.Errorf("%v: expected %q, got %q", tc.move, tc.want, got)
		}
	}
	if (Move{2, 1}).Hash() != 7 {
		t.Errorf("expected hash 7, got %d", (Move{2, 1}).Hash())
	}
}

func TestParseRoundTrip(t *testing.T) {
	b := mustParse(t, "xo.\n.X.\n..o")
	if b.String() != "XO.\n.X.\n..O" {
		t.Fatalf("unexpected rendering:\n%s", b.String())
	}
	if _, err := Parse("XO"); err == nil {
		t.Fatal("expected error for short input")
	}
	if _, err := Parse("XOXOXOXOXO"); err == nil {
		t.Fatal("expected error for long input")
	}
	if _, err := Parse("XOXOZOXOX"); err == nil {
		t.Fatal("expected error for unknown cell")
	}
}
