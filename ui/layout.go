package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rivo/tview"

	"termtoe/board"
	"termtoe/game"
	"termtoe/history"
	"termtoe/keypad"
)

// maxVisibleMoves is how many moves the panel lists before eliding older ones.
const maxVisibleMoves = 6

// MovePanel lists the moves of the current round and the result of the last one.
type MovePanel struct {
	box *tview.TextView
	app *tview.Application

	mu       sync.Mutex
	moves    []history.Entry
	skipped  int
	opponent string
	result   string
}

func NewMovePanel(app *tview.Application) *MovePanel {
	panel := &MovePanel{
		box: tview.NewTextView(),
		app: app,
	}
	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)
	panel.refresh()
	return panel
}

// Box returns the underlying tview component.
func (p *MovePanel) Box() *tview.TextView {
	return p.box
}

// SetMoves shows moves, with skipped older moves left out.
func (p *MovePanel) SetMoves(moves []history.Entry, skipped int) {
	p.mu.Lock()
	p.moves = moves
	p.skipped = skipped
	if len(moves) == 0 {
		p.result = ""
	}
	p.mu.Unlock()
	redraw(p.app, p.refresh)
}

func (p *MovePanel) SetOpponent(name string) {
	p.mu.Lock()
	p.opponent = name
	p.mu.Unlock()
	redraw(p.app, p.refresh)
}

func (p *MovePanel) SetOutcome(outcome game.Outcome) {
	p.mu.Lock()
	p.result = outcome.String()
	p.mu.Unlock()
	redraw(p.app, p.refresh)
}

func (p *MovePanel) refresh() {
	p.box.SetText(p.text())
}

func (p *MovePanel) text() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	b.WriteString("[white::b]Round[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	if p.opponent != "" {
		fmt.Fprintf(&b, "[white]Versus:[-:-:-] %s\n", p.opponent)
	}
	fmt.Fprintf(&b, "[white]Move:[-:-:-] %d\n", p.skipped+len(p.moves))
	if p.result != "" {
		fmt.Fprintf(&b, "[white]Result:[-:-:-] %s\n", p.result)
	}
	if len(p.moves) == 0 {
		return b.String()
	}

	b.WriteString("\n[white::b]Moves[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	if p.skipped > 0 {
		fmt.Fprintf(&b, "[dimgray]  ··· %d earlier[-]\n", p.skipped)
	}
	for i, m := range p.moves {
		marker := " "
		if i == len(p.moves)-1 {
			marker = "[white]>[-]"
		}
		fmt.Fprintf(&b, "%s[dimgray]%2d.[-] %s [dimgray]%s[-]\n", marker, p.skipped+i+1, m, strings.ToLower(m.By))
	}
	return b.String()
}

// RoundRecorder stores the rounds shown by ShowSession. *sgf.Recorder implements it.
type RoundRecorder interface {
	Move(last history.Entry)
	End(final board.Board)
}

// ShowSession keeps the board and the move panel in sync with s and feeds
// every move to rec. rec may be nil.
func ShowSession(s *game.Session, b *BoardUI, moves *MovePanel, rec RoundRecorder) {
	s.OnMove(func(current board.Board, last history.Entry) {
		b.SetBoard(current, last.Move)
		moves.SetMoves(s.Tail(maxVisibleMoves))
		if rec != nil {
			rec.Move(last)
		}
	})
	s.OnGameEnd(func(outcome game.Outcome, final board.Board) {
		moves.SetOutcome(outcome)
		if rec != nil {
			rec.End(final)
		}
	})
}

// KeyHint describes the controls for layout.
func KeyHint(layout keypad.Layout) string {
	return fmt.Sprintf(`  hjkl/↑↓←→ move   ⏎ play   %c/%c/%c answer
  %c light   %c brightness   %c reset score   tab past rounds   esc quit`,
		layout.Label(keypad.Key4), layout.Label(keypad.Key8), layout.Label(keypad.Key12),
		layout.Label(keypad.BacklightKey), layout.Label(keypad.BrightnessKey), layout.Label(keypad.ResetScoreKey))
}

// CreateGameLayout creates the main layout: board on the left, display,
// scoreboard and moves on the right, controls at the bottom.
func CreateGameLayout(b *BoardUI, lcd *LCDPanel, scores *ScoreboardUI, moves *MovePanel, hint *tview.TextView) *tview.Flex {
	side := tview.NewFlex().SetDirection(tview.FlexRow)
	side.AddItem(lcd.View(), game.DisplayRows+2, 0, false)
	side.AddItem(scores.Box, len(segmentColon)+3, 0, false)
	side.AddItem(moves.Box(), 0, 1, false)

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(b.Box, 0, 1, true)
	boardRow.AddItem(side, DisplayWidth+2, 0, false)

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(boardRow, 0, 1, true)
	mainFlex.AddItem(hint, 2, 0, false)
	return mainFlex
}
