package ui

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtoe/config"
	"termtoe/game"
)

// DisplayWidth is the number of characters per display row.
const DisplayWidth = 20

// LCDPanel is a character display with a switchable backlight. It implements game.Display.
type LCDPanel struct {
	view *tview.TextView
	app  *tview.Application
	fg   tcell.Color
	bg   tcell.Color

	mu        sync.Mutex
	rows      [game.DisplayRows]string
	backlight bool
}

func NewLCDPanel(app *tview.Application, c *config.Config) *LCDPanel {
	p := &LCDPanel{
		view:      tview.NewTextView(),
		app:       app,
		fg:        tcell.PaletteColor(c.Theme.Colors.DisplayColorFG),
		bg:        tcell.PaletteColor(c.Theme.Colors.DisplayColorBG),
		backlight: true,
	}
	p.view.SetBorder(true)
	p.view.SetBorderColor(Palette.Border)
	p.view.SetTitle(" Display ")
	p.view.SetTitleColor(Palette.Title)
	p.view.SetTitleAlign(tview.AlignLeft)
	p.refresh()
	return p
}

// View returns the underlying tview component.
func (p *LCDPanel) View() *tview.TextView {
	return p.view
}

// Print replaces a row. Text longer than DisplayWidth is cut.
func (p *LCDPanel) Print(row int, text string) {
	if row < 0 || row >= game.DisplayRows {
		return
	}
	p.mu.Lock()
	p.rows[row] = clip(text, DisplayWidth)
	p.mu.Unlock()
	redraw(p.app, p.refresh)
}

func (p *LCDPanel) SetBacklight(on bool) {
	p.mu.Lock()
	p.backlight = on
	p.mu.Unlock()
	redraw(p.app, p.refresh)
}

// Rows returns the displayed text.
func (p *LCDPanel) Rows() [game.DisplayRows]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rows
}

func (p *LCDPanel) refresh() {
	p.mu.Lock()
	lines := make([]string, len(p.rows))
	for i, r := range p.rows {
		lines[i] = pad(r, DisplayWidth)
	}
	fg, bg := p.fg, p.bg
	if !p.backlight {
		fg, bg = Palette.Hint, tcell.ColorBlack
	}
	p.mu.Unlock()

	p.view.SetText(tview.Escape(strings.Join(lines, "\n")))
	p.view.SetTextColor(fg)
	p.view.SetBackgroundColor(bg)
}

func clip(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
