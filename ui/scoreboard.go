package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtoe/config"
	"termtoe/keypad"
)

// segmentFont draws digits three characters wide and three rows high.
var segmentFont = [10][3]string{
	{" _ ", "| |", "|_|"},
	{"   ", "  |", "  |"},
	{" _ ", " _|", "|_ "},
	{" _ ", " _|", " _|"},
	{"   ", "|_|", "  |"},
	{" _ ", "|_ ", " _|"},
	{" _ ", "|_ ", "|_|"},
	{" _ ", "  |", "  |"},
	{" _ ", "|_|", "|_|"},
	{" _ ", "|_|", " _|"},
}

var segmentColon = [3]string{"   ", " . ", " . "}

// ScoreboardUI is a four digit seven-segment display, two digits per player.
// It implements game.Scoreboard.
type ScoreboardUI struct {
	Box     *tview.Box
	app     *tview.Application
	segment tcell.Color

	mu         sync.Mutex
	first      int
	second     int
	brightness uint8
}

func NewScoreboard(app *tview.Application, c *config.Config) *ScoreboardUI {
	s := &ScoreboardUI{
		Box:        tview.NewBox(),
		app:        app,
		segment:    tcell.PaletteColor(c.Theme.Colors.SegmentColor),
		brightness: keypad.MaxBrightness - 1,
	}
	s.Box.SetBorder(true)
	s.Box.SetBorderColor(Palette.Border)
	s.Box.SetTitle(" Score ")
	s.Box.SetTitleColor(Palette.Title)
	s.Box.SetTitleAlign(tview.AlignLeft)
	s.Box.SetDrawFunc(s.draw)
	return s
}

// Show displays both scores. Each is shown modulo 100.
func (s *ScoreboardUI) Show(first, second int) {
	s.mu.Lock()
	s.first, s.second = first, second
	s.mu.Unlock()
	redraw(s.app, nil)
}

// SetBrightness sets the segment brightness, 0 to keypad.MaxBrightness-1.
func (s *ScoreboardUI) SetBrightness(level uint8) {
	if level >= keypad.MaxBrightness {
		level = keypad.MaxBrightness - 1
	}
	s.mu.Lock()
	s.brightness = level
	s.mu.Unlock()
	redraw(s.app, nil)
}

func (s *ScoreboardUI) Score() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.first, s.second
}

func (s *ScoreboardUI) Brightness() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness
}

func (s *ScoreboardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	s.mu.Lock()
	first, second, brightness := s.first, s.second, s.brightness
	s.mu.Unlock()

	// Inside the border.
	ix, iy, iw, ih := x+1, y+1, width-2, height-2
	style := tcell.StyleDefault.Foreground(s.segment)
	if brightness < keypad.MaxBrightness/2 {
		style = style.Dim(true)
	}
	for row, line := range segmentLines(first, second) {
		col := ix + 1
		for _, ch := range line {
			screen.SetContent(col, iy+row, ch, nil, style)
			col++
		}
	}
	drawBrightness(screen, ix+1, iy+len(segmentColon), brightness)
	return ix, iy, iw, ih
}

// drawBrightness renders the brightness level as a bar.
func drawBrightness(screen tcell.Screen, x, y int, level uint8) {
	labelStyle := tcell.StyleDefault.Foreground(Palette.Label)
	selectedStyle := tcell.StyleDefault.Foreground(Palette.Selected)
	unselectedStyle := tcell.StyleDefault.Foreground(Palette.Unselected)

	col := x
	screen.SetContent(col, y, '☀', nil, labelStyle)
	col += 2
	for i := 0; i < keypad.MaxBrightness; i++ {
		char := '░'
		style := unselectedStyle
		if i <= int(level) {
			char = '█'
			style = selectedStyle
		}
		screen.SetContent(col, y, char, nil, style)
		col++
	}
}

// segmentLines renders "ff:ss" in the segment font.
func segmentLines(first, second int) [3]string {
	digits := [4]int{
		(first / 10) % 10, first % 10,
		(second / 10) % 10, second % 10,
	}
	var out [3]string
	for row := range out {
		line := segmentFont[digits[0]][row] + segmentFont[digits[1]][row] +
			segmentColon[row] +
			segmentFont[digits[2]][row] + segmentFont[digits[3]][row]
		out[row] = line
	}
	return out
}
