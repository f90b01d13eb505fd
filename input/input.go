// Package input translates tcell key events into player commands. It
// supports vi keys (hjkl plus diagonals yubn) and arrow keys.
package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/core"
)

// Command is a decoded key event.
type Command struct {
	Kind CommandKind
	Act  action.Action
}

// CommandKind separates game actions from host-loop control.
type CommandKind uint8

const (
	// None means the key is unbound.
	None CommandKind = iota
	// Play carries an action for the player actor.
	Play
	// Quit ends the session.
	Quit
)

var viKeys = map[rune]core.Direction{
	'h': core.West,
	'j': core.South,
	'k': core.North,
	'l': core.East,
	'y': core.NorthWest,
	'u': core.NorthEast,
	'b': core.SouthWest,
	'n': core.SouthEast,
}

var arrowKeys = map[tcell.Key]core.Direction{
	tcell.KeyUp:    core.North,
	tcell.KeyDown:  core.South,
	tcell.KeyLeft:  core.West,
	tcell.KeyRight: core.East,
}

// Decode maps one key event to a command.
func Decode(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Command{Kind: Quit}

	case tcell.KeyRune:
		r := ev.Rune()
		if r == 'q' {
			return Command{Kind: Quit}
		}
		if r == '.' || r == 's' {
			return Command{Kind: Play, Act: action.NewWait()}
		}
		if dir, ok := viKeys[r]; ok {
			return Command{Kind: Play, Act: action.NewMove(dir)}
		}

	default:
		if dir, ok := arrowKeys[ev.Key()]; ok {
			return Command{Kind: Play, Act: action.NewMove(dir)}
		}
	}
	return Command{Kind: None}
}
