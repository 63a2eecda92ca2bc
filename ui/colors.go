package ui

import "github.com/gdamore/tcell/v2"

// Palette defines the Nord-inspired colors of the panels around the board.
var Palette = struct {
	Border     tcell.Color // Muted blue-gray for borders
	Title      tcell.Color // Bright white for titles
	Label      tcell.Color // Light gray for labels
	Hint       tcell.Color // Dim gray for hints
	Selected   tcell.Color // Bright blue for filled bars
	Unselected tcell.Color // Dim gray for empty bars
}{
	Border:     tcell.PaletteColor(60),
	Title:      tcell.PaletteColor(255),
	Label:      tcell.PaletteColor(250),
	Hint:       tcell.PaletteColor(245),
	Selected:   tcell.PaletteColor(109),
	Unselected: tcell.PaletteColor(240),
}
