package sgf

import (
	"os"
	"strings"
	"testing"
	"time"

	"termtoe/board"
	"termtoe/history"
)

var testTime = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func TestSgfCoord(t *testing.T) {
	tests := []struct {
		m    board.Move
		want string
	}{
		{board.Move{Row: 0, Col: 0}, "aa"},
		{board.Move{Row: 1, Col: 1}, "bb"},
		{board.Move{Row: 1, Col: 2}, "cb"},
		{board.Move{Row: 2, Col: 0}, "ac"},
	}
	for _, tt := range tests {
		got := sgfCoord(tt.m)
		if got != tt.want {
			t.Errorf("sgfCoord(%v) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		board string
		want  string
	}{
		{"XXX|OO.|...", "B+"},
		{"XX.|OOO|X..", "W+"},
		{"XXO|OOX|XOX", "0"},
		{"X..|.O.|...", "?"},
	}
	for _, tt := range tests {
		b, err := board.Parse(tt.board)
		if err != nil {
			t.Fatal(err)
		}
		if got := Result(b); got != tt.want {
			t.Errorf("Result(%s) = %q, want %q", tt.board, got, tt.want)
		}
	}
}

func TestNewGameRecord(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, testTime)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	if !strings.HasSuffix(rec.FilePath, "2026-01-15_103000.000_3x3.sgf") {
		t.Errorf("unexpected file name %s", rec.FilePath)
	}

	content, err := os.ReadFile(rec.FilePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(content)
	for _, want := range []string{"(;FF[4]", "SZ[3]", "DT[2026-01-15]", "RE[?]"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %q", want, s)
		}
	}
}

func TestAddMove(t *testing.T) {
	rec, err := NewGameRecord(t.TempDir(), testTime)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	rec.AddMove(history.Entry{Move: board.Move{Row: 1, Col: 1}, Side: board.X, By: "HUMAN"})
	rec.AddMove(history.Entry{Move: board.Move{Row: 0, Col: 2}, Side: board.O, By: "HARD"})
	if err := rec.AddMove(history.Entry{Move: board.Invalid, Side: board.X}); err == nil {
		t.Error("expected an error for an invalid move")
	}

	content, _ := os.ReadFile(rec.FilePath)
	s := string(content)
	for _, want := range []string{";B[bb];W[ca])", "PB[HUMAN]", "PW[HARD]"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %q", want, s)
		}
	}
	if rec.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rec.Len())
	}
}

func TestUndoMoves(t *testing.T) {
	rec, err := NewGameRecord(t.TempDir(), testTime)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	rec.AddMove(history.Entry{Move: board.Move{Row: 0, Col: 0}, Side: board.X})
	rec.AddMove(history.Entry{Move: board.Move{Row: 1, Col: 1}, Side: board.O})
	rec.UndoMoves(1)

	content, _ := os.ReadFile(rec.FilePath)
	if strings.Contains(string(content), "W[bb]") {
		t.Error("undone move still in the record")
	}
	rec.UndoMoves(5)
	if rec.Len() != 0 {
		t.Errorf("Len() = %d, want 0", rec.Len())
	}
}

func TestSetResultAndClose(t *testing.T) {
	rec, err := NewGameRecord(t.TempDir(), testTime)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	b, _ := board.Parse("XXX|OO.|...")
	if err := rec.SetResult(b); err != nil {
		t.Fatalf("SetResult: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if err := rec.UndoMoves(1); err == nil {
		t.Error("expected writes after Close to fail")
	}

	content, _ := os.ReadFile(rec.FilePath)
	if !strings.Contains(string(content), "RE[B+]") {
		t.Errorf("missing result in %q", content)
	}
}

func TestEscapePlayerNames(t *testing.T) {
	rec, err := NewGameRecord(t.TempDir(), testTime)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	rec.AddMove(history.Entry{Move: board.Move{Row: 0, Col: 0}, Side: board.X, By: `odd]name\`})
	rec.Close()

	info, err := ParseHeader(rec.FilePath)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if info.PlayerX != `odd]name\` {
		t.Errorf("PlayerX = %q, want %q", info.PlayerX, `odd]name\`)
	}
}
