// Package keypad models the 4x4 matrix keypad: the fixed meaning of each key
// and the poller that debounces presses and forwards them to the game loop.
//
// Key layout, row-major:
//
//	Key1  Key2  Key3  Key4
//	Key5  Key6  Key7  Key8
//	Key9  Key10 Key11 Key12
//	Key13 Key14 Key15 Key16
//
// The top-left 3x3 block addresses the board cells. The right column answers
// prompts and the bottom row holds the device keys.
package keypad

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"termtoe/board"
	"termtoe/strategy"
)

// Size is the number of rows and columns of the matrix.
const Size = 4

// Key identifies a physical key. The zero value is Unknown.
type Key int

const (
	Unknown Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key10
	Key11
	Key12
	Key13
	Key14
	Key15
	Key16
)

// Device keys handled outside of the prompts.
const (
	BacklightKey  = Key13
	BrightnessKey = Key14
	ResetScoreKey = Key16
)

func (k Key) String() string {
	if k < Key1 || k > Key16 {
		return "UNKNOWN"
	}
	return fmt.Sprintf("KEY%d", int(k))
}

// position returns the key's row and column in the matrix.
func (k Key) position() (int, int) {
	i := int(k - Key1)
	return i / Size, i % Size
}

// KeyAt returns the key at row, col of the matrix.
func KeyAt(row, col int) Key {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return Unknown
	}
	return Key1 + Key(row*Size+col)
}

// MoveFromKey maps a cell key to its board move. Other keys map to board.Invalid.
func MoveFromKey(k Key) board.Move {
	if k < Key1 || k > Key16 {
		return board.Invalid
	}
	row, col := k.position()
	if row >= board.Size || col >= board.Size {
		return board.Invalid
	}
	return board.Move{Row: row, Col: col}
}

// KeyForMove is the inverse of MoveFromKey.
func KeyForMove(m board.Move) Key {
	if !m.InRange() {
		return Unknown
	}
	return KeyAt(m.Row, m.Col)
}

// SymbolFromKey reads the symbol prompt: Key4 is X, Key8 is O.
func SymbolFromKey(k Key) board.Cell {
	switch k {
	case Key4:
		return board.X
	case Key8:
		return board.O
	}
	return board.Empty
}

// OpponentFromKey reads the opponent prompt: Key4 is a second human, Key8 the computer.
func OpponentFromKey(k Key) (human bool, ok bool) {
	switch k {
	case Key4:
		return true, true
	case Key8:
		return false, true
	}
	return false, false
}

// DifficultyFromKey reads the difficulty prompt.
func DifficultyFromKey(k Key) (strategy.Level, bool) {
	switch k {
	case Key4:
		return strategy.Easy, true
	case Key8:
		return strategy.Medium, true
	case Key12:
		return strategy.Hard, true
	}
	return strategy.Human, false
}

// AnswerFromKey reads a yes/no prompt: Key4 is yes, Key8 is no.
func AnswerFromKey(k Key) (yes bool, ok bool) {
	switch k {
	case Key4:
		return true, true
	case Key8:
		return false, true
	}
	return false, false
}

// DefaultLayout follows the labels printed on common membrane keypads.
const DefaultLayout = "123a456b789c*0#d"

// Layout maps terminal runes to keys.
type Layout struct {
	keys   map[rune]Key
	labels [Size*Size + 1]rune
}

// ParseLayout reads sixteen distinct printable runes in row-major key order.
// Letters match in either case.
func ParseLayout(s string) (Layout, error) {
	if n := utf8.RuneCountInString(s); n != Size*Size {
		return Layout{}, fmt.Errorf("keypad layout needs %d keys, got %d", Size*Size, n)
	}
	l := Layout{keys: make(map[rune]Key, Size*Size)}
	k := Key1
	for _, r := range s {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return Layout{}, fmt.Errorf("keypad layout: %q cannot be used for %s", r, k)
		}
		r = unicode.ToLower(r)
		if prev, dup := l.keys[r]; dup {
			return Layout{}, fmt.Errorf("keypad layout: %q used for both %s and %s", r, prev, k)
		}
		l.keys[r] = k
		l.labels[k] = r
		k++
	}
	return l, nil
}

// KeyFromRune returns the key bound to r, or Unknown.
func (l Layout) KeyFromRune(r rune) Key {
	if k, ok := l.keys[unicode.ToLower(r)]; ok {
		return k
	}
	return Unknown
}

// Label returns the rune bound to k, or a space.
func (l Layout) Label(k Key) rune {
	if k < Key1 || k > Key16 || l.labels[k] == 0 {
		return ' '
	}
	return l.labels[k]
}
