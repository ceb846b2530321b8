package tui

import "github.com/gdamore/tcell/v2"

// IsQuitKey returns true if the key should quit the application
func IsQuitKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return true
	}
	return key == tcell.KeyRune && (r == 'q' || r == 'Q')
}

// IsConfirmKey returns true for Enter and the 'n' (next) key
func IsConfirmKey(key tcell.Key, r rune) bool {
	return key == tcell.KeyEnter || (key == tcell.KeyRune && (r == 'n' || r == 'N'))
}

func IsRestartKey(key tcell.Key, r rune) bool {
	return key == tcell.KeyRune && (r == 'r' || r == 'R')
}

func IsMenuKey(key tcell.Key, r rune) bool {
	return key == tcell.KeyRune && (r == 'm' || r == 'M')
}

// MenuStep converts arrow and vi keys to a menu movement
func MenuStep(key tcell.Key, r rune) int {
	switch key {
	case tcell.KeyUp:
		return -1
	case tcell.KeyDown:
		return 1
	case tcell.KeyRune:
		switch r {
		case 'k', 'w':
			return -1
		case 'j', 's':
			return 1
		}
	}
	return 0
}

// PointerPhase is what a mouse report means for the aim gesture.
type PointerPhase int

const (
	PointerNone PointerPhase = iota
	PointerDown
	PointerMove
	PointerUp
)

// pointerPhase classifies a mouse report given whether the primary button
// was already held.
func pointerPhase(buttons tcell.ButtonMask, held bool) PointerPhase {
	pressed := buttons&tcell.Button1 != 0
	switch {
	case pressed && !held:
		return PointerDown
	case pressed && held:
		return PointerMove
	case !pressed && held:
		return PointerUp
	}
	return PointerNone
}
