// Package ui specifies custom controls for tview to play tic-tac-toe in the terminal.
package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtoe/board"
	"termtoe/config"
	"termtoe/keypad"
)

const (
	cellWidth   = 3
	coordOffset = 3
	boardWidth  = board.Size*(cellWidth+1) - 1
	boardHeight = board.Size*2 - 1
)

// BoardUI draws the 3x3 grid. Empty cells show the keypad label that plays them.
// Board updates come from the game goroutine; selection changes from the UI goroutine.
type BoardUI struct {
	Box    *tview.Box
	app    *tview.Application
	cfg    *config.Config
	layout keypad.Layout
	styles []tcell.Color
	press  func(keypad.Key) bool

	mu     sync.Mutex
	board  board.Board
	last   board.Move
	selRow int
	selCol int
}

func NewBoard(app *tview.Application, c *config.Config, layout keypad.Layout, press func(keypad.Key) bool) *BoardUI {
	b := &BoardUI{
		Box:    tview.NewBox(),
		app:    app,
		layout: layout,
		press:  press,
		last:   board.Invalid,
		selRow: -1,
		selCol: -1,
	}
	b.SetConfig(c)
	b.Box.SetDrawFunc(b.draw)
	return b
}

func (g *BoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),        // 0
		tcell.PaletteColor(c.Theme.Colors.XColor),            // 1
		tcell.PaletteColor(c.Theme.Colors.OColor),            // 2
		tcell.PaletteColor(c.Theme.Colors.LineColor),         // 3
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG),     // 4
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),     // 5
		tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG), // 6
		tcell.PaletteColor(c.Theme.Colors.WinColorBG),        // 7
	}
	g.cfg = c
}

// SetBoard replaces the drawn position. last is board.Invalid after a reset.
func (g *BoardUI) SetBoard(b board.Board, last board.Move) {
	g.mu.Lock()
	g.board = b
	g.last = last
	g.mu.Unlock()
	redraw(g.app, nil)
}

// Board returns the drawn position.
func (g *BoardUI) Board() board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board
}

func (g *BoardUI) SelectedTile() (board.Move, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selRow == -1 && g.selCol == -1 {
		return board.Invalid, false
	}
	return board.Move{Row: g.selRow, Col: g.selCol}, true
}

// MoveSelection moves the cursor by dRow rows and dCol columns. The first
// call places it on the last move, or the center when nothing was played.
func (g *BoardUI) MoveSelection(dRow, dCol int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selRow == -1 && g.selCol == -1 {
		g.selRow, g.selCol = 1, 1
		if g.last.InRange() {
			g.selRow, g.selCol = g.last.Row, g.last.Col
		}
		return
	}
	next := board.Move{Row: g.selRow + dRow, Col: g.selCol + dCol}
	if !next.InRange() {
		return
	}
	g.selRow, g.selCol = next.Row, next.Col
}

func (g *BoardUI) ResetSelection() {
	g.mu.Lock()
	g.selRow, g.selCol = -1, -1
	g.mu.Unlock()
}

// Play presses the keypad key of the selected cell.
func (g *BoardUI) Play() bool {
	m, ok := g.SelectedTile()
	if !ok || g.press == nil {
		return false
	}
	return g.press(keypad.KeyForMove(m))
}

// HandleKey processes cursor movement and play keys. Returns true if handled.
func (g *BoardUI) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyUp:
		g.MoveSelection(-1, 0)
	case tcell.KeyDown:
		g.MoveSelection(1, 0)
	case tcell.KeyLeft:
		g.MoveSelection(0, -1)
	case tcell.KeyRight:
		g.MoveSelection(0, 1)
	case tcell.KeyEnter:
		g.Play()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			g.MoveSelection(0, -1)
		case 'j':
			g.MoveSelection(1, 0)
		case 'k':
			g.MoveSelection(-1, 0)
		case 'l':
			g.MoveSelection(0, 1)
		case ' ':
			g.Play()
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (g *BoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	left := x + coordOffset
	lineStyle := tcell.StyleDefault.Background(g.styles[0]).Foreground(g.styles[3])
	winner := g.board.Winner()
	winLine, won := g.board.WinningLine(winner)

	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			m := board.Move{Row: row, Col: col}
			cx, cy := left+col*(cellWidth+1), y+row*2

			bg := g.styles[0]
			selected := row == g.selRow && col == g.selCol
			switch {
			case selected && g.cfg.Theme.DrawCursorBackground:
				bg = g.styles[5]
			case won && onLine(winLine, m):
				bg = g.styles[7]
			case m == g.last && g.cfg.Theme.DrawLastPlayedBackground:
				bg = g.styles[6]
			}
			r, fg := g.cellRune(m)
			drawCell(screen, tcell.StyleDefault.Background(bg).Foreground(fg), r, cx, cy)
			if selected && !g.cfg.Theme.DrawCursorBackground {
				cursor := tcell.StyleDefault.Background(bg).Foreground(g.styles[4])
				screen.SetContent(cx, cy, '[', nil, cursor)
				screen.SetContent(cx+2, cy, ']', nil, cursor)
			}

			if col < board.Size-1 {
				screen.SetContent(cx+cellWidth, cy, '│', nil, lineStyle)
			}
			if row < board.Size-1 {
				for i := 0; i < cellWidth; i++ {
					screen.SetContent(cx+i, cy+1, '─', nil, lineStyle)
				}
				if col < board.Size-1 {
					screen.SetContent(cx+cellWidth, cy+1, '┼', nil, lineStyle)
				}
			}
		}
	}
	g.drawCoordinates(screen, x, y)
	return x, y, boardWidth + coordOffset, boardHeight + 2
}

func (g *BoardUI) cellRune(m board.Move) (rune, tcell.Color) {
	switch g.board.At(m) {
	case board.X:
		return firstRune(g.cfg.Theme.Symbols.X), g.styles[1]
	case board.O:
		return firstRune(g.cfg.Theme.Symbols.O), g.styles[2]
	}
	if label := g.layout.Label(keypad.KeyForMove(m)); label != ' ' {
		return label, g.styles[3]
	}
	return firstRune(g.cfg.Theme.Symbols.Empty), g.styles[3]
}

// drawCell draws a cell (3 characters wide) with r in the middle.
func drawCell(s tcell.Screen, c tcell.Style, r rune, l, t int) {
	s.SetContent(l, t, ' ', nil, c)
	s.SetContent(l+1, t, r, nil, c)
	s.SetContent(l+2, t, ' ', nil, c)
}

func (g *BoardUI) drawCoordinates(s tcell.Screen, x, y int) {
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(g.styles[5])
	lpHighlight := tcell.StyleDefault.Background(g.styles[6])

	for col := 0; col < board.Size; col++ {
		_style := style
		if col == g.selCol {
			_style = highlight
		} else if col == g.last.Col {
			_style = lpHighlight
		}
		s.SetContent(x+coordOffset+col*(cellWidth+1)+1, y+boardHeight+1, 'a'+rune(col), nil, _style)
	}
	for row := 0; row < board.Size; row++ {
		_style := style
		if row == g.selRow {
			_style = highlight
		} else if row == g.last.Row {
			_style = lpHighlight
		}
		s.SetContent(x+1, y+row*2, '1'+rune(row), nil, _style)
	}
}

func onLine(line [board.Size]board.Move, m board.Move) bool {
	for _, l := range line {
		if l == m {
			return true
		}
	}
	return false
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}

// redraw runs fn on the UI goroutine and redraws. Without an application fn runs directly.
func redraw(app *tview.Application, fn func()) {
	if fn == nil {
		fn = func() {}
	}
	if app == nil {
		fn()
		return
	}
	// Spawn goroutine to avoid deadlock when called from the UI goroutine
	go app.QueueUpdateDraw(fn)
}
