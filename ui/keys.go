package ui

import (
	"slices"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/isaacjstriker/blockfall/games/blockfall"
)

// Terminals only report key repeats, never key-ups. A held key first
// repeats after the OS delay and then at the repeat rate, so a key counts
// as released once it has been quiet longer than the matching gap.
const (
	firstRepeatGap = 550 * time.Millisecond
	repeatGap      = 120 * time.Millisecond
)

type keyPress struct {
	char rune
	key  keyboard.Key
}

func isQuit(k keyPress) bool {
	return k.char == 'q' || k.char == 'Q' || k.key == keyboard.KeyEsc || k.key == keyboard.KeyCtrlC
}

// commandFor maps a key to a game command.
func commandFor(k keyPress) (blockfall.Command, bool) {
	switch k.key {
	case keyboard.KeyArrowLeft:
		return blockfall.CmdMoveLeft, true
	case keyboard.KeyArrowRight:
		return blockfall.CmdMoveRight, true
	case keyboard.KeyArrowDown:
		return blockfall.CmdSoftDrop, true
	case keyboard.KeyArrowUp:
		return blockfall.CmdRotateCW, true
	case keyboard.KeySpace:
		return blockfall.CmdHardDrop, true
	case keyboard.KeyEnter:
		return blockfall.CmdStart, true
	}

	switch k.char {
	case 'a', 'A':
		return blockfall.CmdMoveLeft, true
	case 'd', 'D':
		return blockfall.CmdMoveRight, true
	case 's', 'S':
		return blockfall.CmdSoftDrop, true
	case 'w', 'W', 'x', 'X':
		return blockfall.CmdRotateCW, true
	case 'z', 'Z':
		return blockfall.CmdRotateCCW, true
	case ' ':
		return blockfall.CmdHardDrop, true
	case 'c', 'C':
		return blockfall.CmdHold, true
	case 'p', 'P':
		return blockfall.CmdTogglePause, true
	case 'm', 'M':
		return blockfall.CmdToggleArcade, true
	case 'r', 'R':
		return blockfall.CmdRestart, true
	}
	return 0, false
}

func holdable(c blockfall.Command) bool {
	return c == blockfall.CmdMoveLeft || c == blockfall.CmdMoveRight || c == blockfall.CmdSoftDrop
}

type heldKey struct {
	last      time.Time
	repeating bool
}

// keyHold synthesises releases for holdable commands.
type keyHold struct {
	held map[blockfall.Command]*heldKey
}

func newKeyHold() *keyHold {
	return &keyHold{held: make(map[blockfall.Command]*heldKey)}
}

// press records a key event and reports whether it starts a new hold.
// Repeats of a key already held only refresh its timer.
func (k *keyHold) press(c blockfall.Command, now time.Time) bool {
	if h, ok := k.held[c]; ok {
		h.last = now
		h.repeating = true
		return false
	}
	k.held[c] = &heldKey{last: now}
	return true
}

// expire drops the holds that have gone quiet and returns their commands.
func (k *keyHold) expire(now time.Time) []blockfall.Command {
	var released []blockfall.Command
	for c, h := range k.held {
		gap := firstRepeatGap
		if h.repeating {
			gap = repeatGap
		}
		if now.Sub(h.last) > gap {
			released = append(released, c)
			delete(k.held, c)
		}
	}
	slices.Sort(released)
	return released
}

func (k *keyHold) clear() {
	clear(k.held)
}
