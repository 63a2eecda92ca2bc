package config

import "termtoe/keypad"

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		Colors: ConfigColors{
			BoardColor:        236,
			LineColor:         245,
			XColor:            81,
			OColor:            215,
			CursorColorFG:     0,
			CursorColorBG:     4,
			LastPlayedColorBG: 238,
			WinColorBG:        2,
			DisplayColorFG:    16,
			DisplayColorBG:    113,
			SegmentColor:      196,
		},
		Symbols: ConfigSymbols{
			X:     "X",
			O:     "O",
			Empty: "·",
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameConfig{
			AfterGameMs: 2000,
			ThinkMs:     1000,
		},
		Keypad: KeypadConfig{
			Layout:     keypad.DefaultLayout,
			DebounceMs: 50,
			Buffer:     16,
		},
		Log: LogConfig{
			Level: "info",
		},
		Record: RecordConfig{
			Enabled: true,
		},
	}
}
