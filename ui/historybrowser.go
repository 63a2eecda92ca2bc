package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtoe/board"
	"termtoe/config"
	"termtoe/sgf"
)

// HistoryBrowserUI lists the recorded rounds with a preview of the final position.
type HistoryBrowserUI struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView

	dir      string
	symbols  config.ConfigSymbols
	games    []sgf.GameInfo
	boards   map[string]board.Board // final positions by path
	selected int
	onDone   func()
}

// NewHistoryBrowser creates the browser over the records in dir.
func NewHistoryBrowser(dir string, c *config.Config, onDone func()) *HistoryBrowserUI {
	hb := &HistoryBrowserUI{
		dir:     dir,
		symbols: c.Theme.Symbols,
		onDone:  onDone,
		boards:  make(map[string]board.Board),
	}

	hb.gameList = tview.NewList()
	hb.gameList.SetBorder(true)
	hb.gameList.SetBorderColor(Palette.Border)
	hb.gameList.SetTitle(" Past rounds ")
	hb.gameList.SetTitleColor(Palette.Title)
	hb.gameList.ShowSecondaryText(false)
	hb.gameList.SetHighlightFullLine(true)
	hb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(Palette.Label))
	hb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(Palette.Title).
		Background(Palette.Selected))

	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetBorderColor(Palette.Border)
	hb.preview.SetTitle(" Preview ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetBorder(false)
	hb.hint.SetText("  [dimgray]d[-] delete  [dimgray]q/esc[-] back")

	hb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
	})
	hb.gameList.SetInputCapture(hb.handleInput)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.gameList, 38, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.loadGames()
	return hb
}

// Flex returns the flex container for this UI.
func (hb *HistoryBrowserUI) Flex() *tview.Flex {
	return hb.flex
}

// Refresh reloads the round list from disk.
func (hb *HistoryBrowserUI) Refresh() {
	hb.boards = make(map[string]board.Board)
	hb.loadGames()
}

// Games returns the listed rounds, newest first.
func (hb *HistoryBrowserUI) Games() []sgf.GameInfo {
	return hb.games
}

func (hb *HistoryBrowserUI) loadGames() {
	hb.gameList.Clear()
	hb.games = nil
	hb.selected = 0

	games, err := sgf.ListGames(hb.dir)
	if err != nil || len(games) == 0 {
		hb.gameList.AddItem("[dimgray]No rounds recorded[-]", "", 0, nil)
		return
	}

	hb.games = games
	for _, g := range games {
		hb.gameList.AddItem(listLabel(g), "", 0, nil)
	}
}

func listLabel(g sgf.GameInfo) string {
	return fmt.Sprintf("%s  %-6s %-6s %s", g.Date, orDash(g.PlayerX), orDash(g.PlayerO), resultText(g.Result))
}

// resultText turns an SGF result into the words used on the display.
func resultText(result string) string {
	switch {
	case result == "0":
		return "Draw"
	case strings.HasPrefix(result, "B+"):
		return "X wins"
	case strings.HasPrefix(result, "W+"):
		return "O wins"
	}
	return "Unfinished"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (hb *HistoryBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		hb.done()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			hb.done()
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		}
	}
	return event
}

func (hb *HistoryBrowserUI) done() {
	if hb.onDone != nil {
		hb.onDone()
	}
}

// deleteSelected removes the file of the selected round.
func (hb *HistoryBrowserUI) deleteSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return
	}
	os.Remove(hb.games[hb.selected].FilePath)
	hb.Refresh()
}

// finalBoard replays g once and caches the position.
func (hb *HistoryBrowserUI) finalBoard(g sgf.GameInfo) (board.Board, bool) {
	if b, ok := hb.boards[g.FilePath]; ok {
		return b, true
	}
	b, _, err := sgf.ReplayToEnd(g.FilePath)
	if err != nil {
		return board.Board{}, false
	}
	hb.boards[g.FilePath] = b
	return b, true
}

// previewLines renders b with the configured symbols, one string per row.
func (hb *HistoryBrowserUI) previewLines(b board.Board) [board.Size]string {
	var lines [board.Size]string
	for row := 0; row < board.Size; row++ {
		cells := make([]string, board.Size)
		for col := 0; col < board.Size; col++ {
			switch b[row][col] {
			case board.X:
				cells[col] = hb.symbols.X
			case board.O:
				cells[col] = hb.symbols.O
			default:
				cells[col] = hb.symbols.Empty
			}
		}
		lines[row] = strings.Join(cells, " ")
	}
	return lines
}

func (hb *HistoryBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return x, y, width, height
	}
	g := hb.games[hb.selected]
	b, ok := hb.finalBoard(g)
	if !ok || width < 2*board.Size+4 || height < board.Size+7 {
		return x, y, width, height
	}

	startX := x + 2
	startY := y + 1
	pieceStyle := tcell.StyleDefault.Foreground(Palette.Title).Bold(true)
	for row, line := range hb.previewLines(b) {
		drawText(screen, startX, startY+row, line, pieceStyle)
	}

	infoY := startY + board.Size + 1
	dimStyle := tcell.StyleDefault.Foreground(Palette.Hint)
	drawText(screen, startX, infoY, fmt.Sprintf("%s | %d moves", g.Date, g.MoveCount), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("X: %s", orDash(g.PlayerX)), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("O: %s", orDash(g.PlayerO)), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("Result: %s", resultText(g.Result)), tcell.StyleDefault.Foreground(Palette.Selected))

	return x, y, width, height
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
