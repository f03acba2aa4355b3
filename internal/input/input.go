package input

import (
	"git.lost.host/meutraa/beathop/internal/game"
	"github.com/eiannone/keyboard"
)

type Action int

const (
	None Action = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	Pause
	Restart
	Quit
)

func (a Action) String() string {
	return [...]string{"none", "up", "down", "left", "right", "pause", "restart", "quit"}[a]
}

// Direction is the grid step of a move action.
func (a Action) Direction() (game.Direction, bool) {
	switch a {
	case MoveUp:
		return game.Up, true
	case MoveDown:
		return game.Down, true
	case MoveLeft:
		return game.Left, true
	case MoveRight:
		return game.Right, true
	}
	return game.Direction{}, false
}

var runes = map[rune]Action{
	'w': MoveUp,
	'k': MoveUp,
	's': MoveDown,
	'j': MoveDown,
	'a': MoveLeft,
	'h': MoveLeft,
	'd': MoveRight,
	'l': MoveRight,
	'p': Pause,
	' ': Pause,
	'r': Restart,
	'q': Quit,
}

var keys = map[keyboard.Key]Action{
	keyboard.KeyArrowUp:    MoveUp,
	keyboard.KeyArrowDown:  MoveDown,
	keyboard.KeyArrowLeft:  MoveLeft,
	keyboard.KeyArrowRight: MoveRight,
	keyboard.KeySpace:      Pause,
	keyboard.KeyEsc:        Quit,
	keyboard.KeyCtrlC:      Quit,
}

func Translate(ev keyboard.KeyEvent) Action {
	if nil != ev.Err {
		return None
	}
	if ev.Rune != 0 {
		if a, ok := runes[ev.Rune]; ok {
			return a
		}
		return None
	}
	return keys[ev.Key]
}

// Drain translates every key event that is waiting on events without
// blocking.
func Drain(events <-chan keyboard.KeyEvent) []Action {
	actions := []Action{}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return actions
			}
			if a := Translate(ev); a != None {
				actions = append(actions, a)
			}
		default:
			return actions
		}
	}
}
